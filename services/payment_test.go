package services

import (
	"fmt"
	"strings"
	"testing"

	"course-payments/config"
	"course-payments/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	orderCalls []map[string]interface{}
	linkCalls  []map[string]interface{}
	orderResp  map[string]interface{}
	linkResp   map[string]interface{}
	err        error
}

func (g *fakeGateway) CreateOrder(data map[string]interface{}) (map[string]interface{}, error) {
	g.orderCalls = append(g.orderCalls, data)
	if g.err != nil {
		return nil, g.err
	}
	return g.orderResp, nil
}

func (g *fakeGateway) CreatePaymentLink(data map[string]interface{}) (map[string]interface{}, error) {
	g.linkCalls = append(g.linkCalls, data)
	if g.err != nil {
		return nil, g.err
	}
	return g.linkResp, nil
}

func setTestPaymentConfig(t *testing.T) {
	t.Helper()
	prev := config.AppConfig
	config.AppConfig.RazorpayKeyID = "rzp_test_key"
	config.AppConfig.Currency = "INR"
	config.AppConfig.MinorUnitFactor = 100
	config.AppConfig.KafkaBrokers = ""
	t.Cleanup(func() { config.AppConfig = prev })
}

func TestCreateOrderConvertsToMinorUnits(t *testing.T) {
	setTestPaymentConfig(t)

	gw := &fakeGateway{orderResp: map[string]interface{}{"id": "order_123"}}
	svc := &PaymentService{gateway: gw}

	order, err := svc.CreateOrder(CreateOrderRequest{Amount: 499, UserID: "u1", CourseID: "c1"})
	require.NoError(t, err)

	require.Len(t, gw.orderCalls, 1)
	assert.Equal(t, int64(49900), gw.orderCalls[0]["amount"])
	assert.Equal(t, "INR", gw.orderCalls[0]["currency"])
	assert.Equal(t, "order_123", order.OrderID)
	assert.Equal(t, "rzp_test_key", order.KeyID)
}

func TestCreateOrderPropagatesCorrelationNotes(t *testing.T) {
	setTestPaymentConfig(t)

	gw := &fakeGateway{orderResp: map[string]interface{}{"id": "order_123"}}
	svc := &PaymentService{gateway: gw}

	_, err := svc.CreateOrder(CreateOrderRequest{Amount: 100, UserID: "user-9", CourseID: "course-7"})
	require.NoError(t, err)

	notes, ok := gw.orderCalls[0]["notes"].(map[string]interface{})
	require.True(t, ok, "notes missing from order data")
	assert.Equal(t, "user-9", notes["uid"])
	assert.Equal(t, "course-7", notes["courseId"])
}

func TestCreateOrderReceiptsAreUnique(t *testing.T) {
	setTestPaymentConfig(t)

	gw := &fakeGateway{orderResp: map[string]interface{}{"id": "order_123"}}
	svc := &PaymentService{gateway: gw}

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		order, err := svc.CreateOrder(CreateOrderRequest{Amount: 100, UserID: "u1", CourseID: "c1"})
		require.NoError(t, err)
		assert.False(t, seen[order.Receipt], "duplicate receipt %s", order.Receipt)
		assert.LessOrEqual(t, len(order.Receipt), 40)
		seen[order.Receipt] = true
	}
}

func TestCreateOrderReceiptsAreUniqueForLongIDs(t *testing.T) {
	setTestPaymentConfig(t)

	gw := &fakeGateway{orderResp: map[string]interface{}{"id": "order_123"}}
	svc := &PaymentService{gateway: gw}

	// A uid long enough that the capped receipt would otherwise lose its
	// nonce entirely.
	uid := strings.Repeat("u", 60)

	first, err := svc.CreateOrder(CreateOrderRequest{Amount: 100, UserID: uid, CourseID: "c1"})
	require.NoError(t, err)
	second, err := svc.CreateOrder(CreateOrderRequest{Amount: 100, UserID: uid, CourseID: "c1"})
	require.NoError(t, err)

	assert.LessOrEqual(t, len(first.Receipt), 40)
	assert.LessOrEqual(t, len(second.Receipt), 40)
	assert.NotEqual(t, first.Receipt, second.Receipt, "receipts must stay unique when ids are trimmed")
}

func TestCreateOrderInvalidPayloadSkipsGateway(t *testing.T) {
	setTestPaymentConfig(t)

	gw := &fakeGateway{orderResp: map[string]interface{}{"id": "order_123"}}
	svc := &PaymentService{gateway: gw}

	cases := []CreateOrderRequest{
		{Amount: 0, UserID: "", CourseID: "c1"},
		{Amount: -10, UserID: "u1", CourseID: "c1"},
		{Amount: 100, UserID: "", CourseID: "c1"},
		{Amount: 100, UserID: "u1", CourseID: ""},
	}

	for _, req := range cases {
		_, err := svc.CreateOrder(req)
		require.Error(t, err)
		assert.Equal(t, errors.InvalidPayload, errors.KindOf(err))
	}
	assert.Empty(t, gw.orderCalls, "gateway must not be called for invalid payloads")
}

func TestCreateOrderGatewayFailure(t *testing.T) {
	setTestPaymentConfig(t)

	gw := &fakeGateway{err: fmt.Errorf("BAD_REQUEST_ERROR: amount too small")}
	svc := &PaymentService{gateway: gw}

	_, err := svc.CreateOrder(CreateOrderRequest{Amount: 1, UserID: "u1", CourseID: "c1"})
	require.Error(t, err)
	assert.Equal(t, errors.Gateway, errors.KindOf(err))
}

func TestCreatePaymentLink(t *testing.T) {
	setTestPaymentConfig(t)

	gw := &fakeGateway{linkResp: map[string]interface{}{
		"id":        "plink_123",
		"short_url": "https://rzp.io/l/abc123",
	}}
	svc := &PaymentService{gateway: gw}

	link, err := svc.CreatePaymentLink(CreatePaymentLinkRequest{
		Amount: 750, UserID: "u1", CourseID: "c1", Email: "payer@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://rzp.io/l/abc123", link.ShortURL)

	require.Len(t, gw.linkCalls, 1)
	assert.Equal(t, int64(75000), gw.linkCalls[0]["amount"])

	customer, ok := gw.linkCalls[0]["customer"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "payer@example.com", customer["email"])
}

func TestCreatePaymentLinkRejectsBadEmail(t *testing.T) {
	setTestPaymentConfig(t)

	gw := &fakeGateway{}
	svc := &PaymentService{gateway: gw}

	_, err := svc.CreatePaymentLink(CreatePaymentLinkRequest{
		Amount: 750, UserID: "u1", CourseID: "c1", Email: "not-an-email",
	})
	require.Error(t, err)
	assert.Equal(t, errors.InvalidPayload, errors.KindOf(err))
	assert.Empty(t, gw.linkCalls)
}
