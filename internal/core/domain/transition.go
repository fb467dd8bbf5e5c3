package domain

import (
	"fmt"
	"time"
)

// validTransitions defines the status changes the client offers:
//
//	open       -> closed      (completion_date is set to the current date)
//	open       -> unresolved
//	closed     -> open        (reopen; no field is cleared)
//	unresolved -> open        (reopen; no field is cleared)
//
// Anything else is left to the remote API to reject.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusOpen:       {StatusClosed, StatusUnresolved},
	StatusClosed:     {StatusOpen},
	StatusUnresolved: {StatusOpen},
}

// CanTransitionTo reports whether a transition from current status to next is defined.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionPatch builds the update that moves an order from one status to
// another at the given instant.
func TransitionPatch(from, to OrderStatus, now time.Time) (OrderPatch, error) {
	if !from.CanTransitionTo(to) {
		return OrderPatch{}, fmt.Errorf("%w (from %s to %s)", ErrInvalidTransition, from, to)
	}
	patch := OrderPatch{Status: &to}
	if to == StatusClosed {
		today := DateOf(now)
		patch.CompletionDate = &today
	}
	return patch, nil
}
