// Package checkout drives a buyer from a filled cart to a confirmed purchase:
// pick a payment method, enter its details, then submit for payment.
package checkout

import (
	"fmt"

	"ecofinds/internal/apperr"
	"ecofinds/internal/payment"
)

type State string

const (
	StateIdle              State = "idle"
	StateMethodSelected    State = "method_selected"
	StateCollectingDetails State = "collecting_details"
	StateValidating        State = "validating"
	StateSubmitting        State = "submitting"
	StateSucceeded         State = "succeeded"
	StateFailed            State = "failed"
)

const HistoryRedirect = "/dashboard/history"

var (
	ErrInvalidTransition = apperr.Conflict("This checkout step is not available right now")
	ErrEmptyCart         = apperr.Validation("Your cart is empty")
	ErrUnauthenticated   = apperr.Unauthenticated("Please sign in to checkout")
	ErrNoSession         = apperr.NotFound("No checkout in progress")
)

// transitions lists the states reachable from each state.
var transitions = map[State][]State{
	StateIdle:              {StateMethodSelected},
	StateMethodSelected:    {StateMethodSelected, StateCollectingDetails},
	StateCollectingDetails: {StateMethodSelected, StateCollectingDetails, StateValidating},
	StateValidating:        {StateSubmitting, StateFailed},
	StateSubmitting:        {StateSucceeded, StateFailed},
	StateFailed:            {StateCollectingDetails},
}

func canTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Session is one buyer's checkout in progress.
type Session struct {
	UserID     string         `json:"user_id"`
	BuyerName  string         `json:"buyer_name"`
	State      State          `json:"state"`
	Method     payment.Method `json:"method,omitempty"`
	Details    Details        `json:"details"`
	Error      string         `json:"error,omitempty"`
	PurchaseID string         `json:"purchase_id,omitempty"`
	Redirect   string         `json:"redirect,omitempty"`
	History    []State        `json:"history"`
}

func newSession(userID, buyerName string) *Session {
	return &Session{
		UserID:    userID,
		BuyerName: buyerName,
		State:     StateIdle,
		History:   []State{StateIdle},
	}
}

func (s *Session) enter(to State) error {
	if !canTransition(s.State, to) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, s.State, to)
	}
	s.State = to
	s.History = append(s.History, to)
	return nil
}

// fail records err and returns the session to detail collection with the
// entered details intact.
func (s *Session) fail(err error) {
	s.Error = apperr.Message(err, "Payment processing failed")
	s.State = StateFailed
	s.History = append(s.History, StateFailed)
	_ = s.enter(StateCollectingDetails)
}

func (s *Session) clone() Session {
	c := *s
	c.History = append([]State(nil), s.History...)
	return c
}
