package models

// RazorpayOrder is the slice of the gateway order object returned to the
// client, echoing the public key id so the checkout widget can be opened
// without a second round trip.
type RazorpayOrder struct {
	OrderID  string  `json:"id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Receipt  string  `json:"receipt"`
	KeyID    string  `json:"key_id,omitempty"`
}

// PaymentLink is returned by the payment-link flow; the client only needs the
// hosted checkout URL.
type PaymentLink struct {
	LinkID   string `json:"id"`
	ShortURL string `json:"short_url"`
}

// WebhookEnvelope is the outer structure of a Razorpay webhook event.
type WebhookEnvelope struct {
	ID        string                 `json:"id"`
	Event     string                 `json:"event"`
	CreatedAt int64                  `json:"created_at"`
	Contains  []string               `json:"contains"`
	Payload   map[string]interface{} `json:"payload"`
}
