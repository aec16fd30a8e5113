package handlers

import (
	"io"
	"net/http"

	"course-payments/services"
	"course-payments/utils"
)

// RazorpayWebhook handles POST /razorpay-webhook. This route consumes the
// unparsed byte stream: the signature covers the exact bytes Razorpay sent,
// so no body decoding happens before verification. Processed and ignored
// events are both acknowledged with 200 to keep the gateway from retrying.
func RazorpayWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		utils.SendError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}
	defer r.Body.Close()

	signature := r.Header.Get("X-Razorpay-Signature")

	outcome, err := webhookService.Process(r.Context(), raw, signature)
	if err != nil {
		// Store failure on the captured path: the gateway should redeliver.
		utils.SendAppError(w, err)
		return
	}

	if outcome.Status == services.WebhookRejected {
		utils.SendError(w, http.StatusBadRequest, "Invalid signature")
		return
	}

	utils.SendJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
