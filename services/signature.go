package services

import (
	"course-payments/config"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifyCheckoutSignature checks the signature a client submits after checkout.
// Razorpay signs "orderID|paymentID" with the API key secret, not the webhook
// secret; the two must never be conflated.
func VerifyCheckoutSignature(orderID, paymentID, signature string) bool {
	return verifyHMAC([]byte(orderID+"|"+paymentID), signature, config.AppConfig.RazorpayKeySecret)
}

// VerifyWebhookSignature checks the signature of an incoming webhook against
// the webhook-specific secret. The payload must be the raw transmitted bytes;
// re-serialized JSON would not match.
func VerifyWebhookSignature(payload []byte, signature string) bool {
	return verifyHMAC(payload, signature, config.AppConfig.RazorpayWebhookSecret)
}

// verifyHMAC computes hex(HMAC-SHA256(secret, message)) and compares in
// constant time. An empty secret or signature fails closed.
func verifyHMAC(message []byte, signature, secret string) bool {
	if secret == "" || signature == "" {
		return false
	}

	h := hmac.New(sha256.New, []byte(secret))
	h.Write(message)
	expected := hex.EncodeToString(h.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
