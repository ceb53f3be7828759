package domain

// EventType names an in-process domain event
type EventType string

const (
	EventLeadCreated      EventType = "lead.created"
	EventInvestorCreated  EventType = "investor.created"
	EventLOISubmitted     EventType = "loi.submitted"
	EventLOIStatusChanged EventType = "loi.status_changed"
	EventLOICountersigned EventType = "loi.countersigned"
	EventDocumentUploaded EventType = "document.uploaded"
)

// Event is what the event bus hands to subscribers
type Event struct {
	Type EventType
	// DistinctID identifies the actor for analytics (investor ID, lead email, "admin")
	DistinctID string
	Properties map[string]interface{}
}
