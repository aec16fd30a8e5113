package services

import (
	"fmt"
	"os"
	"time"

	"course-payments/config"
	"course-payments/logger"
	"course-payments/models"
)

// announceGrant fans out the side effects of a freshly applied entitlement:
// a payment event on the bus and, when a payer email is known, a confirmation
// email with the receipt attached. All of it is best-effort and must never
// influence the HTTP response of the flow that triggered it.
func announceGrant(ent models.Entitlement, payerEmail string) {
	go func() {
		evt := map[string]interface{}{
			"event":      "entitlement.granted",
			"uid":        ent.UserID,
			"course_id":  ent.CourseID,
			"payment_id": ent.PaymentID,
			"order_id":   ent.OrderID,
			"source":     ent.Source,
			"ts":         time.Now().UTC().Format(time.RFC3339),
		}
		if err := Publish(config.AppConfig.KafkaTopic, ent.UserID, evt); err != nil {
			logger.Warn("Failed to publish entitlement.granted event: %v", err)
		}
	}()

	if payerEmail == "" {
		return
	}

	go func() {
		receiptPath, err := GenerateReceipt(ent)
		if err != nil {
			logger.Warn("Receipt generation failed for payment %s: %v", ent.PaymentID, err)
			receiptPath = ""
		} else {
			defer os.Remove(receiptPath)
		}

		subject := fmt.Sprintf("Payment confirmed for course %s", ent.CourseID)
		body := fmt.Sprintf(
			"<p>Your payment was received and your course access is active.</p>"+
				"<p>Course: %s<br>Payment ID: %s</p>",
			ent.CourseID, ent.PaymentID)

		if receiptPath != "" {
			err = SendEmailDirect(payerEmail, subject, body, receiptPath)
		} else {
			err = SendEmailDirect(payerEmail, subject, body)
		}
		if err != nil {
			logger.Warn("Confirmation email to %s failed: %v", payerEmail, err)
		}
	}()
}
