package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func webhookBody(t *testing.T, event, paymentID, orderID, uid, courseID string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"id":    "evt_1",
		"event": event,
		"payload": map[string]interface{}{
			"payment": map[string]interface{}{"entity": map[string]interface{}{
				"id":       paymentID,
				"order_id": orderID,
				"amount":   49900,
				"notes":    map[string]interface{}{"uid": uid, "courseId": courseID},
			}},
		},
	})
	require.NoError(t, err)
	return body
}

func postWebhook(body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/razorpay-webhook", bytes.NewReader(body))
	if signature != "" {
		req.Header.Set("X-Razorpay-Signature", signature)
	}
	rec := httptest.NewRecorder()
	RazorpayWebhook(rec, req)
	return rec
}

func TestWebhookHandlerProcessesCapture(t *testing.T) {
	store := setupHandlers(t)

	body := webhookBody(t, "payment.captured", "pay_1", "order_1", "u1", "c1")
	rec := postWebhook(body, signHex(testWebhookSecret, body))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	ent, err := store.Get(context.Background(), "u1", "c1")
	require.NoError(t, err)
	require.NotNil(t, ent)
	assert.Equal(t, "webhook", ent.Source)
}

func TestWebhookHandlerRejectsInvalidSignature(t *testing.T) {
	store := setupHandlers(t)

	body := webhookBody(t, "payment.captured", "pay_1", "order_1", "u1", "c1")
	rec := postWebhook(body, signHex("wrong_secret", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	ent, err := store.Get(context.Background(), "u1", "c1")
	require.NoError(t, err)
	assert.Nil(t, ent)
}

func TestWebhookHandlerRejectsMissingSignature(t *testing.T) {
	setupHandlers(t)

	body := webhookBody(t, "payment.captured", "pay_1", "order_1", "u1", "c1")
	rec := postWebhook(body, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookHandlerAcknowledgesOtherEvents(t *testing.T) {
	store := setupHandlers(t)

	body := webhookBody(t, "payment.authorized", "pay_1", "order_1", "u1", "c1")
	rec := postWebhook(body, signHex(testWebhookSecret, body))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	ent, err := store.Get(context.Background(), "u1", "c1")
	require.NoError(t, err)
	assert.Nil(t, ent)
}

func TestWebhookHandlerRejectsGet(t *testing.T) {
	setupHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/razorpay-webhook", nil)
	rec := httptest.NewRecorder()
	RazorpayWebhook(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
