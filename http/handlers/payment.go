package handlers

import (
	"encoding/json"
	"net/http"

	"course-payments/errors"
	"course-payments/services"
	"course-payments/utils"
)

// CreateOrder handles POST /create-order. The response body is the gateway
// order object slice the checkout widget needs, key id included.
func CreateOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req struct {
		Amount   float64 `json:"amount"`
		UserID   string  `json:"uid"`
		CourseID string  `json:"courseId"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendAppError(w, errors.NewInvalidPayloadError("invalid request body"))
		return
	}

	order, err := paymentService.CreateOrder(services.CreateOrderRequest{
		Amount:   req.Amount,
		UserID:   req.UserID,
		CourseID: req.CourseID,
	})
	if err != nil {
		utils.SendAppError(w, err)
		return
	}

	utils.SendJSON(w, http.StatusOK, order)
}

// CreatePaymentLink handles POST /create-payment-link and returns the hosted
// checkout URL.
func CreatePaymentLink(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req struct {
		Amount   float64 `json:"amount"`
		UserID   string  `json:"uid"`
		CourseID string  `json:"courseId"`
		Email    string  `json:"email"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendAppError(w, errors.NewInvalidPayloadError("invalid request body"))
		return
	}

	link, err := paymentService.CreatePaymentLink(services.CreatePaymentLinkRequest{
		Amount:   req.Amount,
		UserID:   req.UserID,
		CourseID: req.CourseID,
		Email:    req.Email,
	})
	if err != nil {
		utils.SendAppError(w, err)
		return
	}

	utils.SendJSON(w, http.StatusOK, map[string]string{"short_url": link.ShortURL})
}

// VerifyPayment handles POST /verify-payment: the client-driven confirmation
// path. Succeeds idempotently when the key is already paid.
func VerifyPayment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req struct {
		OrderID   string `json:"razorpay_order_id"`
		PaymentID string `json:"razorpay_payment_id"`
		Signature string `json:"razorpay_signature"`
		UserID    string `json:"uid"`
		CourseID  string `json:"courseId"`
		Checkout  string `json:"checkout,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendAppError(w, errors.NewInvalidPayloadError("invalid request body"))
		return
	}

	_, err := checkoutService.VerifyAndGrant(r.Context(), services.VerifyRequest{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
		UserID:    req.UserID,
		CourseID:  req.CourseID,
		Standard:  req.Checkout == "standard",
	})
	if err != nil {
		if errors.KindOf(err) == errors.SignatureMismatch {
			utils.SendJSON(w, http.StatusBadRequest, map[string]bool{"success": false})
			return
		}
		utils.SendAppError(w, err)
		return
	}

	utils.SendJSON(w, http.StatusOK, map[string]bool{"success": true})
}
