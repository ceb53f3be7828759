package persistence

// Table names
const (
	TableLeads     = "leads"
	TableInvestors = "investors"
	TableLOIs      = "letters_of_intent"
	TableDocuments = "investor_documents"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
