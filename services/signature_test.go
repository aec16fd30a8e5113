package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"course-payments/config"

	"github.com/stretchr/testify/assert"
)

func signHex(secret string, message []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(message)
	return hex.EncodeToString(h.Sum(nil))
}

func setTestSecrets(t *testing.T) {
	t.Helper()
	prev := config.AppConfig
	config.AppConfig.RazorpayKeySecret = "key_secret_for_tests"
	config.AppConfig.RazorpayWebhookSecret = "webhook_secret_for_tests"
	t.Cleanup(func() { config.AppConfig = prev })
}

func TestVerifyCheckoutSignature(t *testing.T) {
	setTestSecrets(t)

	orderID := "order_MNq9a8V1r7xLAc"
	paymentID := "pay_MNqAb9W2s8yMBd"
	sig := signHex("key_secret_for_tests", []byte(orderID+"|"+paymentID))

	assert.True(t, VerifyCheckoutSignature(orderID, paymentID, sig))
}

func TestVerifyCheckoutSignatureRejectsMutations(t *testing.T) {
	setTestSecrets(t)

	orderID := "order_MNq9a8V1r7xLAc"
	paymentID := "pay_MNqAb9W2s8yMBd"
	sig := signHex("key_secret_for_tests", []byte(orderID+"|"+paymentID))

	// Flip one hex digit at every position; all must fail.
	for i := 0; i < len(sig); i++ {
		mutated := []byte(sig)
		if mutated[i] == '0' {
			mutated[i] = '1'
		} else {
			mutated[i] = '0'
		}
		assert.False(t, VerifyCheckoutSignature(orderID, paymentID, string(mutated)),
			"mutated signature at position %d accepted", i)
	}
}

func TestVerifyCheckoutSignatureWrongIDs(t *testing.T) {
	setTestSecrets(t)

	sig := signHex("key_secret_for_tests", []byte("order_a|pay_a"))

	assert.False(t, VerifyCheckoutSignature("order_b", "pay_a", sig))
	assert.False(t, VerifyCheckoutSignature("order_a", "pay_b", sig))
}

func TestWebhookAndCheckoutSecretsAreDistinct(t *testing.T) {
	setTestSecrets(t)

	payload := []byte(`{"event":"payment.captured"}`)

	// A signature produced with the key secret must not pass webhook
	// verification and vice versa.
	keySig := signHex("key_secret_for_tests", payload)
	webhookSig := signHex("webhook_secret_for_tests", payload)

	assert.True(t, VerifyWebhookSignature(payload, webhookSig))
	assert.False(t, VerifyWebhookSignature(payload, keySig))
}

func TestVerifyFailsClosedOnEmptySecretOrSignature(t *testing.T) {
	setTestSecrets(t)

	payload := []byte("payload")
	assert.False(t, VerifyWebhookSignature(payload, ""))

	config.AppConfig.RazorpayWebhookSecret = ""
	sig := signHex("webhook_secret_for_tests", payload)
	assert.False(t, VerifyWebhookSignature(payload, sig))
}
