package http

import (
	"net/http"

	"course-payments/config"
	"course-payments/http/handlers"
	"course-payments/http/middleware"
	"course-payments/services"
)

// SetupRoutes configures all HTTP routes and middleware. Only the route
// groups of enabled capabilities are mounted, which lets the same binary run
// as an order service, a webhook receiver, or the combined relay.
func SetupRoutes(store services.EntitlementStore) {
	handlers.Init(store)

	caps := config.AppConfig.Capabilities

	http.HandleFunc("/health", middleware.EnableCORS(handlers.Health))

	if caps[config.CapabilityOrders] {
		http.HandleFunc("/create-order", middleware.EnableCORS(handlers.CreateOrder))
	}

	if caps[config.CapabilityPaymentLinks] {
		http.HandleFunc("/create-payment-link", middleware.EnableCORS(handlers.CreatePaymentLink))
	}

	if caps[config.CapabilityCheckoutVerify] {
		http.HandleFunc("/verify-payment", middleware.EnableCORS(handlers.VerifyPayment))
		http.HandleFunc("/entitlement", middleware.EnableCORS(handlers.GetEntitlement))
		http.HandleFunc("/entitlements/export", middleware.EnableCORS(handlers.ExportEntitlements))
	}

	// Server-to-server route: no CORS, raw body.
	if caps[config.CapabilityWebhook] {
		http.HandleFunc("/razorpay-webhook", handlers.RazorpayWebhook)
	}
}
