package services

import (
	"context"

	"course-payments/errors"
	"course-payments/logger"
	"course-payments/models"
)

// CheckoutService handles client-driven payment verification: the checkout
// widget hands the browser an (order, payment, signature) triple and the
// client submits it here as proof of payment.
type CheckoutService struct {
	store EntitlementStore
}

func NewCheckoutService(store EntitlementStore) *CheckoutService {
	return &CheckoutService{store: store}
}

// VerifyRequest represents a checkout verification request
type VerifyRequest struct {
	OrderID   string
	PaymentID string
	Signature string
	UserID    string
	CourseID  string
	// Standard marks the hosted standard-checkout variant.
	Standard bool
}

// VerifyAndGrant checks the checkout signature and, on match, grants the
// entitlement idempotently. A repeat verification for an already-paid key
// succeeds without touching the stored record.
func (s *CheckoutService) VerifyAndGrant(ctx context.Context, req VerifyRequest) (bool, error) {
	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		return false, errors.NewInvalidPayloadError("razorpay_order_id, razorpay_payment_id and razorpay_signature are required")
	}
	if req.UserID == "" || req.CourseID == "" {
		return false, errors.NewInvalidPayloadError("uid and courseId are required")
	}

	if !VerifyCheckoutSignature(req.OrderID, req.PaymentID, req.Signature) {
		logger.Warn("Checkout signature mismatch for order %s", req.OrderID)
		return false, errors.NewSignatureMismatchError("payment signature verification failed")
	}

	source := models.SourceCheckout
	if req.Standard {
		source = models.SourceStandardCheckout
	}

	applied, err := s.store.GrantIfAbsent(ctx, models.Entitlement{
		UserID:    req.UserID,
		CourseID:  req.CourseID,
		Paid:      true,
		PaymentID: req.PaymentID,
		OrderID:   req.OrderID,
		Source:    source,
	})
	if err != nil {
		return false, err
	}

	if applied {
		announceGrant(models.Entitlement{
			UserID:    req.UserID,
			CourseID:  req.CourseID,
			PaymentID: req.PaymentID,
			OrderID:   req.OrderID,
			Source:    source,
		}, "")
	}

	return applied, nil
}
