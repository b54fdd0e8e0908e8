package domain

import (
	"time"

	"github.com/borcelle/storefront/pkg/errors"
)

// Session is the per-visitor state container: the cart plus the checkout
// attempt in progress. It is loaded and saved as a unit by the session store.
type Session struct {
	ID        string          `json:"id"`
	Cart      Cart            `json:"cart"`
	Checkout  CheckoutAttempt `json:"checkout"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewSession creates an empty session
func NewSession(id string) *Session {
	return &Session{
		ID:       id,
		Checkout: CheckoutAttempt{State: CheckoutStateIdle},
	}
}

// PaymentInstructions is what the customer sees while paying by UPI
type PaymentInstructions struct {
	PayeeID      string   `json:"payee_id"`
	PayeeName    string   `json:"payee_name"`
	Amount       string   `json:"amount"`
	Currency     string   `json:"currency"`
	ItemCount    int      `json:"item_count"`
	Note         string   `json:"note"`
	Link         string   `json:"link"`
	SupportPhone string   `json:"support_phone"`
	Steps        []string `json:"steps"`
}

// CheckoutAttempt tracks one pass through the UPI checkout flow
type CheckoutAttempt struct {
	State        CheckoutState        `json:"state"`
	AttemptID    string               `json:"attempt_id,omitempty"`
	Instructions *PaymentInstructions `json:"instructions,omitempty"`
	LastError    string               `json:"last_error,omitempty"`
	OrderID      string               `json:"order_id,omitempty"`

	// ProcessingUntil is when a submission in progress loses its claim on
	// the attempt. Set on entering processing.
	ProcessingUntil time.Time `json:"processing_until"`
}

// CurrentState returns the state, treating the zero value as idle
func (a *CheckoutAttempt) CurrentState() CheckoutState {
	if a.State == "" {
		return CheckoutStateIdle
	}
	return a.State
}

// Stalled reports whether the attempt is stuck in processing past its
// lease, typically because the process submitting it died or could not
// record the outcome. A processing attempt without a lease is stalled.
func (a *CheckoutAttempt) Stalled(now time.Time) bool {
	if a.CurrentState() != CheckoutStateProcessing {
		return false
	}
	return a.ProcessingUntil.IsZero() || now.After(a.ProcessingUntil)
}

// TransitionTo moves the attempt to next if the move is allowed
func (a *CheckoutAttempt) TransitionTo(next CheckoutState) error {
	current := a.CurrentState()
	if !current.CanTransitionTo(next) {
		return &errors.ErrInvalidStateTransition{
			Entity: "checkout",
			From:   string(current),
			To:     string(next),
		}
	}
	a.State = next
	return nil
}

// Reset drops everything about the attempt and returns to idle
func (a *CheckoutAttempt) Reset() {
	*a = CheckoutAttempt{State: CheckoutStateIdle}
}
