package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/borcelle/storefront/internal/domain"
	"github.com/borcelle/storefront/internal/payment"
	"github.com/borcelle/storefront/internal/repository"
	"github.com/borcelle/storefront/pkg/errors"
)

// Navigation targets handed back to the client
const (
	SuccessPath    = "/payment_success"
	OrdersPath     = "/orders"
	StorefrontPath = "/"
)

// OrderFailedMessage is the notice shown when order submission fails
const OrderFailedMessage = "Failed to process order. Please try again."

// the outcome of a submission is written back this many times before giving up
const writeBackAttempts = 3

// OrderSubmitter places an order with the order-creation endpoint
type OrderSubmitter interface {
	Submit(ctx context.Context, idempotencyKey string, req domain.OrderRequest) (string, error)
}

// CheckoutResult is the session after a checkout step, plus where the
// client should navigate next (empty to stay put)
type CheckoutResult struct {
	Session  *domain.Session
	Redirect string
}

// CheckoutService drives the manual UPI checkout. Payment is never
// verified here: the customer's "payment done" is taken at face value and
// the order is created as UNVERIFIED.
//
// A submission holds its attempt in processing for a lease. Once the lease
// runs out the attempt counts as stalled and can be taken over, re-submitted
// under the same attempt id, or dismissed.
type CheckoutService struct {
	sessions        repository.SessionStore
	upi             *payment.UPI
	submitter       OrderSubmitter
	signInURL       string
	processingLease time.Duration
	writeBackDelay  time.Duration
	now             func() time.Time
	logger          *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	sessions repository.SessionStore,
	upi *payment.UPI,
	submitter OrderSubmitter,
	signInURL string,
	processingLease time.Duration,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		sessions:        sessions,
		upi:             upi,
		submitter:       submitter,
		signInURL:       signInURL,
		processingLease: processingLease,
		writeBackDelay:  200 * time.Millisecond,
		now:             time.Now,
		logger:          logger,
	}
}

// GetCheckout returns the current checkout state of the session
func (s *CheckoutService) GetCheckout(ctx context.Context, sessionID string) (*domain.Session, error) {
	return loadSession(ctx, s.sessions, sessionID)
}

// BeginUPIPayment opens the payment modal for the session cart. Without a
// customer the caller is sent to sign in and the attempt stays idle.
func (s *CheckoutService) BeginUPIPayment(ctx context.Context, sessionID string, customer *domain.Customer) (*CheckoutResult, error) {
	var redirect string
	now := s.now()

	session, err := s.sessions.Update(ctx, sessionID, func(session *domain.Session) error {
		redirect = ""
		attempt := &session.Checkout

		if session.Cart.IsEmpty() {
			return &errors.ErrConflict{Message: "cart is empty"}
		}

		// the attempt id is kept so a re-confirmation replays the stalled order
		if attempt.Stalled(now) {
			s.logger.Warn("Reopening stalled checkout",
				zap.String("session_id", sessionID),
				zap.String("attempt_id", attempt.AttemptID),
			)
			if err := attempt.TransitionTo(domain.CheckoutStateModalOpen); err != nil {
				return err
			}
			attempt.ProcessingUntil = time.Time{}
		}

		switch attempt.CurrentState() {
		case domain.CheckoutStateProcessing:
			return &errors.ErrConflict{Message: "payment confirmation already in progress"}
		case domain.CheckoutStateModalOpen:
			if customer == nil {
				redirect = s.signInURL
				return nil
			}
			attempt.Instructions = s.upi.Instructions(&session.Cart)
			attempt.LastError = ""
			return nil
		}

		if err := attempt.TransitionTo(domain.CheckoutStateAwaitingAuth); err != nil {
			return err
		}
		if customer == nil {
			attempt.Reset()
			redirect = s.signInURL
			return nil
		}
		if err := attempt.TransitionTo(domain.CheckoutStateModalOpen); err != nil {
			return err
		}

		attempt.AttemptID = uuid.NewString()
		attempt.Instructions = s.upi.Instructions(&session.Cart)
		attempt.LastError = ""
		attempt.OrderID = ""
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &CheckoutResult{Session: session, Redirect: redirect}, nil
}

// ConfirmPayment records the customer's claim that the UPI payment went
// through and submits the order. Only one submission per attempt can be
// in flight; a second confirmation is refused until the first resolves or
// its lease runs out.
func (s *CheckoutService) ConfirmPayment(ctx context.Context, sessionID string, customer *domain.Customer) (*CheckoutResult, error) {
	if customer == nil {
		session, err := loadSession(ctx, s.sessions, sessionID)
		if err != nil {
			return nil, err
		}
		return &CheckoutResult{Session: session, Redirect: s.signInURL}, nil
	}

	var attemptID string
	var req domain.OrderRequest
	now := s.now()

	pending, err := s.sessions.Update(ctx, sessionID, func(session *domain.Session) error {
		attempt := &session.Checkout
		if attempt.CurrentState() == domain.CheckoutStateProcessing {
			if !attempt.Stalled(now) {
				return &errors.ErrConflict{Message: "payment confirmation already in progress"}
			}
			s.logger.Warn("Taking over stalled order submission",
				zap.String("session_id", sessionID),
				zap.String("attempt_id", attempt.AttemptID),
			)
		} else if err := attempt.TransitionTo(domain.CheckoutStateProcessing); err != nil {
			return err
		}

		attempt.ProcessingUntil = now.Add(s.processingLease)
		attempt.LastError = ""
		attemptID = attempt.AttemptID
		req = domain.NewOrderRequest(session.Cart, *customer)
		return nil
	})
	if err != nil {
		return nil, err
	}

	orderID, submitErr := s.submitter.Submit(ctx, attemptID, req)

	// the outcome must be recorded even if the caller went away
	writeCtx := context.WithoutCancel(ctx)

	if submitErr != nil {
		s.logger.Error("Order submission failed",
			zap.String("session_id", sessionID),
			zap.String("attempt_id", attemptID),
			zap.Error(submitErr),
		)

		session, err := s.writeBack(writeCtx, sessionID, attemptID, func(session *domain.Session) error {
			if err := session.Checkout.TransitionTo(domain.CheckoutStateModalOpen); err != nil {
				return err
			}
			session.Checkout.ProcessingUntil = time.Time{}
			session.Checkout.LastError = OrderFailedMessage
			return nil
		})
		if err != nil {
			// the stored attempt recovers once its lease runs out
			s.logger.Error("Failed to reopen checkout after submission failure",
				zap.String("session_id", sessionID),
				zap.String("attempt_id", attemptID),
				zap.Error(err),
			)
			reopened := *pending
			reopened.Checkout.State = domain.CheckoutStateModalOpen
			reopened.Checkout.ProcessingUntil = time.Time{}
			reopened.Checkout.LastError = OrderFailedMessage
			session = &reopened
		}

		return &CheckoutResult{Session: session}, submitErr
	}

	session, err := s.writeBack(writeCtx, sessionID, attemptID, func(session *domain.Session) error {
		attempt := &session.Checkout
		if attempt.CurrentState() == domain.CheckoutStateCompleted && attempt.OrderID == orderID {
			return nil
		}
		if err := attempt.TransitionTo(domain.CheckoutStateCompleted); err != nil {
			return err
		}
		session.Cart.Clear()
		attempt.Instructions = nil
		attempt.LastError = ""
		attempt.OrderID = orderID
		attempt.ProcessingUntil = time.Time{}
		return nil
	})
	if err != nil {
		// the order exists; a takeover after the lease replays it
		s.logger.Error("Order created but session could not be completed",
			zap.String("session_id", sessionID),
			zap.String("attempt_id", attemptID),
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		session = domain.NewSession(sessionID)
		session.Checkout = domain.CheckoutAttempt{
			State:     domain.CheckoutStateCompleted,
			AttemptID: attemptID,
			OrderID:   orderID,
		}
	}

	s.logger.Info("Checkout completed",
		zap.String("session_id", sessionID),
		zap.String("attempt_id", attemptID),
		zap.String("order_id", orderID),
	)

	return &CheckoutResult{Session: session, Redirect: SuccessPath}, nil
}

// writeBack applies the outcome of a submission to the stored attempt,
// retrying store failures. It gives up at once when the attempt was
// replaced by a newer one or apply refuses the change.
func (s *CheckoutService) writeBack(
	ctx context.Context,
	sessionID string,
	attemptID string,
	apply func(*domain.Session) error,
) (*domain.Session, error) {
	for i := 1; ; i++ {
		var applyErr error
		session, err := s.sessions.Update(ctx, sessionID, func(session *domain.Session) error {
			if session.Checkout.AttemptID != attemptID {
				applyErr = &errors.ErrConflict{Message: "checkout attempt was replaced"}
			} else {
				applyErr = apply(session)
			}
			return applyErr
		})
		if err == nil {
			return session, nil
		}
		if applyErr != nil || i == writeBackAttempts {
			return nil, err
		}

		s.logger.Warn("Retrying checkout write",
			zap.String("session_id", sessionID),
			zap.Int("attempt", i),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return nil, err
		case <-time.After(s.writeBackDelay):
		}
	}
}

// CloseCheckout dismisses the payment modal. A payment the customer may
// already have made is not compensated.
func (s *CheckoutService) CloseCheckout(ctx context.Context, sessionID string) (*domain.Session, error) {
	now := s.now()
	return s.sessions.Update(ctx, sessionID, func(session *domain.Session) error {
		switch session.Checkout.CurrentState() {
		case domain.CheckoutStateProcessing:
			if !session.Checkout.Stalled(now) {
				return &errors.ErrConflict{Message: "payment confirmation already in progress"}
			}
			s.logger.Warn("Abandoning stalled checkout",
				zap.String("session_id", sessionID),
				zap.String("attempt_id", session.Checkout.AttemptID),
			)
			session.Checkout.Reset()
		case domain.CheckoutStateModalOpen:
			session.Checkout.Reset()
		}
		return nil
	})
}

// AcknowledgeCompletion is called by the success view. It returns the id of
// the order just placed (empty if there is none) and resets the attempt.
func (s *CheckoutService) AcknowledgeCompletion(ctx context.Context, sessionID string) (string, error) {
	session, err := loadSession(ctx, s.sessions, sessionID)
	if err != nil {
		return "", err
	}
	if session.Checkout.CurrentState() != domain.CheckoutStateCompleted {
		return "", nil
	}

	var orderID string
	_, err = s.sessions.Update(ctx, sessionID, func(session *domain.Session) error {
		orderID = ""
		if session.Checkout.CurrentState() != domain.CheckoutStateCompleted {
			return nil
		}
		orderID = session.Checkout.OrderID
		session.Checkout.Reset()
		return nil
	})
	if err != nil {
		return "", err
	}

	return orderID, nil
}
