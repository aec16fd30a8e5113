package handlers

import (
	"course-payments/services"
)

var (
	paymentService   *services.PaymentService
	checkoutService  *services.CheckoutService
	webhookService   *services.WebhookService
	entitlementStore services.EntitlementStore
)

// Init wires the handler package to its services. Must run before routes are
// mounted.
func Init(store services.EntitlementStore) {
	entitlementStore = store
	paymentService = services.NewPaymentService()
	checkoutService = services.NewCheckoutService(store)
	webhookService = services.NewWebhookService(store)
}
