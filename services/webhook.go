package services

import (
	"context"
	"encoding/json"

	"course-payments/logger"
	"course-payments/models"
)

// Webhook outcomes. Everything except Rejected is acknowledged with a success
// status so the gateway does not pile up redeliveries.
type WebhookStatus int

const (
	WebhookRejected WebhookStatus = iota
	WebhookIgnored
	WebhookProcessed
)

// WebhookOutcome describes how an inbound event was handled.
type WebhookOutcome struct {
	Status  WebhookStatus
	Event   string
	Applied bool
}

// WebhookService processes asynchronous gateway notifications. Its input is
// the raw request body: the signature covers the exact transmitted bytes, so
// parsing must happen only after verification.
type WebhookService struct {
	store EntitlementStore
}

func NewWebhookService(store EntitlementStore) *WebhookService {
	return &WebhookService{store: store}
}

// Process runs the webhook state machine: verify raw-body signature, parse,
// filter to payment.captured, recover the entitlement key from the event
// notes, then grant idempotently. A non-nil error is only returned for store
// failures on the captured path; every other dead end is an acknowledged
// outcome.
func (s *WebhookService) Process(ctx context.Context, raw []byte, signature string) (WebhookOutcome, error) {
	if !VerifyWebhookSignature(raw, signature) {
		logger.Warn("Webhook signature mismatch")
		return WebhookOutcome{Status: WebhookRejected}, nil
	}

	var envelope models.WebhookEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		logger.Warn("Webhook body is not valid JSON despite valid signature: %v", err)
		return WebhookOutcome{Status: WebhookIgnored}, nil
	}

	logger.Info("Webhook received: %s", envelope.Event)

	if envelope.Event != "payment.captured" {
		return WebhookOutcome{Status: WebhookIgnored, Event: envelope.Event}, nil
	}

	payment, ok := paymentEntity(envelope.Payload)
	if !ok {
		logger.Warn("payment.captured webhook without payment entity, acknowledging")
		return WebhookOutcome{Status: WebhookIgnored, Event: envelope.Event}, nil
	}

	paymentID, _ := payment["id"].(string)
	orderID, _ := payment["order_id"].(string)
	email, _ := payment["email"].(string)

	uid, courseID := correlationIDs(payment)
	if paymentID == "" || uid == "" || courseID == "" {
		logger.Warn("payment.captured webhook missing correlation ids (payment=%s uid=%s course=%s), acknowledging",
			paymentID, uid, courseID)
		return WebhookOutcome{Status: WebhookIgnored, Event: envelope.Event}, nil
	}

	ent := models.Entitlement{
		UserID:    uid,
		CourseID:  courseID,
		Paid:      true,
		PaymentID: paymentID,
		OrderID:   orderID,
		Source:    models.SourceWebhook,
	}

	applied, err := s.store.GrantIfAbsent(ctx, ent)
	if err != nil {
		return WebhookOutcome{Status: WebhookProcessed, Event: envelope.Event}, err
	}

	if applied {
		logger.Info("Entitlement granted via webhook: uid=%s course=%s payment=%s", uid, courseID, paymentID)
		announceGrant(ent, email)
	} else {
		logger.Info("Entitlement already present for uid=%s course=%s, webhook acknowledged", uid, courseID)
	}

	return WebhookOutcome{Status: WebhookProcessed, Event: envelope.Event, Applied: applied}, nil
}

// paymentEntity digs payload.payment.entity out of the event envelope.
func paymentEntity(payload map[string]interface{}) (map[string]interface{}, bool) {
	paymentMap, ok := payload["payment"].(map[string]interface{})
	if !ok {
		return nil, false
	}
	entity, ok := paymentMap["entity"].(map[string]interface{})
	return entity, ok
}

// correlationIDs extracts notes.uid and notes.courseId placed on the order at
// creation time.
func correlationIDs(payment map[string]interface{}) (string, string) {
	notes, ok := payment["notes"].(map[string]interface{})
	if !ok {
		return "", ""
	}
	uid, _ := notes["uid"].(string)
	courseID, _ := notes["courseId"].(string)
	return uid, courseID
}
