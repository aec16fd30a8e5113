package models

import "time"

// Entitlement sources, tagging which flow produced the write.
const (
	SourceCheckout         = "checkout"
	SourceWebhook          = "webhook"
	SourceStandardCheckout = "standard_checkout"
)

// Entitlement records paid access to a course, keyed by (UserID, CourseID).
// Once written it is never overwritten by this service.
type Entitlement struct {
	UserID     string    `json:"uid"`
	CourseID   string    `json:"courseId"`
	Paid       bool      `json:"paid"`
	PaymentID  string    `json:"paymentId"`
	OrderID    string    `json:"orderId,omitempty"` // absent for the payment-link flow
	Source     string    `json:"source"`
	VerifiedAt time.Time `json:"verifiedAt"`
}
