package domain

import (
	"fmt"
	"sort"

	"github.com/summitcrest/realty/internal/domain/models"
)

// LOIAction is a staff decision that moves a letter of intent between states
type LOIAction string

const (
	// ActionStartReview picks a submitted letter up for review
	ActionStartReview LOIAction = "start_review"
	// ActionApprove accepts a letter under review
	ActionApprove LOIAction = "approve"
	// ActionReject declines a submitted or reviewed letter
	ActionReject LOIAction = "reject"
)

// LOIStateMachine enforces valid status transitions for letters of intent.
//
//	[submitted] --start_review--> [review] --approve--> [approved]
//	     │                           │
//	     └──────────reject───────────┴──reject--> [rejected]
//
// approved and rejected are terminal. Countersigning does not change status.
type LOIStateMachine struct {
	transitions map[transitionKey]models.LOIStatus
}

type transitionKey struct {
	state  models.LOIStatus
	action LOIAction
}

// NewLOIStateMachine creates a state machine with the review lifecycle rules
func NewLOIStateMachine() *LOIStateMachine {
	sm := &LOIStateMachine{transitions: make(map[transitionKey]models.LOIStatus)}

	sm.add(models.LOIStatusSubmitted, ActionStartReview, models.LOIStatusReview)
	sm.add(models.LOIStatusSubmitted, ActionReject, models.LOIStatusRejected)
	sm.add(models.LOIStatusReview, ActionApprove, models.LOIStatusApproved)
	sm.add(models.LOIStatusReview, ActionReject, models.LOIStatusRejected)

	return sm
}

func (sm *LOIStateMachine) add(from models.LOIStatus, via LOIAction, to models.LOIStatus) {
	sm.transitions[transitionKey{state: from, action: via}] = to
}

// Transition returns the next status, or an error and the unchanged status
func (sm *LOIStateMachine) Transition(current models.LOIStatus, action LOIAction) (models.LOIStatus, error) {
	next, ok := sm.transitions[transitionKey{state: current, action: action}]
	if !ok {
		return current, fmt.Errorf("cannot %s a letter of intent that is %s", action, current)
	}
	return next, nil
}

// CanTransition checks a transition without performing it
func (sm *LOIStateMachine) CanTransition(current models.LOIStatus, action LOIAction) bool {
	_, ok := sm.transitions[transitionKey{state: current, action: action}]
	return ok
}

// ValidActions lists the actions available from a status, sorted for stable output
func (sm *LOIStateMachine) ValidActions(state models.LOIStatus) []LOIAction {
	var result []LOIAction
	for key := range sm.transitions {
		if key.state == state {
			result = append(result, key.action)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// IsTerminal reports whether no further status transitions exist
func (sm *LOIStateMachine) IsTerminal(state models.LOIStatus) bool {
	return state == models.LOIStatusApproved || state == models.LOIStatusRejected
}

// CanCountersign reports whether staff may countersign the letter
func CanCountersign(loi *models.LetterOfIntent) error {
	if loi.Status != models.LOIStatusApproved {
		return fmt.Errorf("only approved letters can be countersigned (status is %s)", loi.Status)
	}
	if loi.IsCountersigned() {
		return fmt.Errorf("letter was already countersigned by %s", loi.CountersignedBy)
	}
	return nil
}

// ParseLOIAction validates an action name from a request
func ParseLOIAction(s string) (LOIAction, bool) {
	switch a := LOIAction(s); a {
	case ActionStartReview, ActionApprove, ActionReject:
		return a, true
	}
	return "", false
}
