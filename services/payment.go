package services

import (
	"fmt"
	"math"
	"time"

	"course-payments/config"
	"course-payments/errors"
	"course-payments/logger"
	"course-payments/models"
	"course-payments/utils"

	"github.com/google/uuid"
	"github.com/razorpay/razorpay-go"
)

// paymentGateway is the slice of the Razorpay SDK the service uses, kept small
// so tests can substitute a fake.
type paymentGateway interface {
	CreateOrder(data map[string]interface{}) (map[string]interface{}, error)
	CreatePaymentLink(data map[string]interface{}) (map[string]interface{}, error)
}

type razorpayGateway struct {
	client *razorpay.Client
}

func (g *razorpayGateway) CreateOrder(data map[string]interface{}) (map[string]interface{}, error) {
	return g.client.Order.Create(data, nil)
}

func (g *razorpayGateway) CreatePaymentLink(data map[string]interface{}) (map[string]interface{}, error) {
	return g.client.PaymentLink.Create(data, nil)
}

// PaymentService builds gateway orders and payment links
type PaymentService struct {
	gateway paymentGateway
}

// NewPaymentService creates a PaymentService backed by the configured
// Razorpay credentials
func NewPaymentService() *PaymentService {
	client := razorpay.NewClient(config.AppConfig.RazorpayKeyID, config.AppConfig.RazorpayKeySecret)
	return &PaymentService{gateway: &razorpayGateway{client: client}}
}

// CreateOrderRequest represents an order creation request
type CreateOrderRequest struct {
	Amount   float64
	UserID   string
	CourseID string
}

// CreatePaymentLinkRequest represents a payment link creation request
type CreatePaymentLinkRequest struct {
	Amount   float64
	UserID   string
	CourseID string
	Email    string
}

// CreateOrder validates the request and creates a Razorpay order. The amount
// arrives in major units and is converted to minor units for the gateway.
// uid and courseId travel in the order notes so the webhook can correlate the
// payment back to an entitlement key without a side channel.
func (s *PaymentService) CreateOrder(req CreateOrderRequest) (*models.RazorpayOrder, error) {
	if err := validateAmountAndKey(req.Amount, req.UserID, req.CourseID); err != nil {
		return nil, err
	}

	receipt := newReceipt(req.UserID, req.CourseID)

	data := map[string]interface{}{
		"amount":   toMinorUnits(req.Amount),
		"currency": config.AppConfig.Currency,
		"receipt":  receipt,
		"notes": map[string]interface{}{
			"uid":      req.UserID,
			"courseId": req.CourseID,
		},
	}

	resp, err := s.gateway.CreateOrder(data)
	if err != nil {
		return nil, errors.NewGatewayError("order creation failed", err)
	}

	orderID, _ := resp["id"].(string)
	if orderID == "" {
		return nil, errors.NewGatewayError("order creation failed", fmt.Errorf("gateway response missing order id"))
	}

	publishPaymentEvent("payment.order_created", map[string]interface{}{
		"order_id":  orderID,
		"uid":       req.UserID,
		"course_id": req.CourseID,
		"amount":    req.Amount,
		"currency":  config.AppConfig.Currency,
	})

	return &models.RazorpayOrder{
		OrderID:  orderID,
		Amount:   req.Amount,
		Currency: config.AppConfig.Currency,
		Receipt:  receipt,
		KeyID:    config.AppConfig.RazorpayKeyID,
	}, nil
}

// CreatePaymentLink validates the request and creates a gateway-hosted
// payment link for the given payer email.
func (s *PaymentService) CreatePaymentLink(req CreatePaymentLinkRequest) (*models.PaymentLink, error) {
	if err := validateAmountAndKey(req.Amount, req.UserID, req.CourseID); err != nil {
		return nil, err
	}
	if err := utils.ValidateEmail(req.Email); err != nil {
		return nil, errors.NewInvalidPayloadError(err.Error())
	}

	data := map[string]interface{}{
		"amount":       toMinorUnits(req.Amount),
		"currency":     config.AppConfig.Currency,
		"description":  fmt.Sprintf("Course %s access", req.CourseID),
		"reference_id": newReceipt(req.UserID, req.CourseID),
		"customer": map[string]interface{}{
			"email": req.Email,
		},
		"notify": map[string]interface{}{
			"email": true,
		},
		"notes": map[string]interface{}{
			"uid":      req.UserID,
			"courseId": req.CourseID,
		},
	}

	resp, err := s.gateway.CreatePaymentLink(data)
	if err != nil {
		return nil, errors.NewGatewayError("payment link creation failed", err)
	}

	linkID, _ := resp["id"].(string)
	shortURL, _ := resp["short_url"].(string)
	if shortURL == "" {
		return nil, errors.NewGatewayError("payment link creation failed", fmt.Errorf("gateway response missing short_url"))
	}

	publishPaymentEvent("payment.link_created", map[string]interface{}{
		"link_id":   linkID,
		"uid":       req.UserID,
		"course_id": req.CourseID,
		"amount":    req.Amount,
		"currency":  config.AppConfig.Currency,
	})

	return &models.PaymentLink{LinkID: linkID, ShortURL: shortURL}, nil
}

func validateAmountAndKey(amount float64, uid, courseID string) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return errors.NewInvalidPayloadError("invalid amount: must be greater than 0")
	}
	if err := utils.ValidateIdentifier("uid", uid); err != nil {
		return errors.NewInvalidPayloadError(err.Error())
	}
	if err := utils.ValidateIdentifier("courseId", courseID); err != nil {
		return errors.NewInvalidPayloadError(err.Error())
	}
	return nil
}

// toMinorUnits converts a major-unit amount to the gateway's minor units
// (rupees to paise for INR).
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * float64(config.AppConfig.MinorUnitFactor)))
}

// newReceipt builds a receipt string unique per request. Razorpay rejects
// duplicate receipts, so a nonce is appended to the correlation ids. Receipts
// are capped at 40 characters; long ids are trimmed, the nonce never is.
func newReceipt(uid, courseID string) string {
	nonce := uuid.NewString()[:8]
	prefix := uid + "_" + courseID
	if max := 40 - len(nonce) - 1; len(prefix) > max {
		prefix = prefix[:max]
	}
	return prefix + "_" + nonce
}

func publishPaymentEvent(event string, fields map[string]interface{}) {
	go func() {
		evt := map[string]interface{}{
			"event": event,
			"ts":    time.Now().UTC().Format(time.RFC3339),
		}
		for k, v := range fields {
			evt[k] = v
		}
		key, _ := fields["uid"].(string)
		if err := Publish(config.AppConfig.KafkaTopic, key, evt); err != nil {
			logger.Warn("Failed to publish %s event: %v", event, err)
		}
	}()
}
