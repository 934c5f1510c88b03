package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avc/storefront-checkout/internal/cart"
	"github.com/avc/storefront-checkout/internal/config"
	"github.com/avc/storefront-checkout/internal/domain"
	domainmocks "github.com/avc/storefront-checkout/internal/domain/mocks"
	"github.com/avc/storefront-checkout/internal/handlers"
	"github.com/avc/storefront-checkout/internal/service"
	"github.com/avc/storefront-checkout/internal/utils/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type routerFixture struct {
	router   http.Handler
	checkout *domainmocks.CheckoutServiceMock
	payments *domainmocks.PaymentServiceMock
	wallet   *domainmocks.WalletServiceMock
	token    string
}

func newRouterFixture(t *testing.T) *routerFixture {
	logger := zap.NewNop()
	cfg := config.Default()
	cfg.WebhookSecret = "hook"

	checkout := domainmocks.NewCheckoutServiceMock(t)
	payments := domainmocks.NewPaymentServiceMock(t)
	wallet := domainmocks.NewWalletServiceMock(t)
	catalog := service.NewCatalogResolver(domainmocks.NewCatalogRepositoryMock(t))
	ping := func(context.Context) error { return nil }

	jwtManager := jwt.NewManager("test-secret", time.Hour)
	token, err := jwtManager.Generate("user-1")
	require.NoError(t, err)

	deps := &dependencies{
		handlers: &handlerSet{
			checkout: handlers.NewCheckoutHandler(checkout, logger),
			payments: handlers.NewPaymentsHandler(payments, logger),
			orders:   handlers.NewOrdersHandler(checkout, logger),
			credits:  handlers.NewCreditsHandler(wallet, logger),
			cart:     handlers.NewCartHandler(cart.NewMemoryStorage(), catalog, nil, checkout, logger),
			health:   handlers.NewHealthHandler(ping, nil, logger),
		},
		jwtManager: jwtManager,
	}

	return &routerFixture{
		router:   setupRouter(deps, cfg, logger),
		checkout: checkout,
		payments: payments,
		wallet:   wallet,
		token:    token,
	}
}

func (f *routerFixture) do(method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *routerFixture) bearer() map[string]string {
	return map[string]string{"Authorization": "Bearer " + f.token}
}

func TestRouter_PublicEndpoints(t *testing.T) {
	f := newRouterFixture(t)

	w := f.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = f.do(http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_ProtectedEndpointsRequireToken(t *testing.T) {
	f := newRouterFixture(t)

	routes := []struct{ method, path string }{
		{http.MethodPost, "/api/checkout"},
		{http.MethodPost, "/api/checkout/preview"},
		{http.MethodGet, "/api/user/orders"},
		{http.MethodGet, "/api/user/orders/order-1"},
		{http.MethodGet, "/api/user/credits"},
		{http.MethodGet, "/api/cart"},
		{http.MethodPost, "/api/cart/checkout"},
	}

	for _, route := range routes {
		w := f.do(route.method, route.path, "{}", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", route.method, route.path)
	}
}

func TestRouter_Checkout(t *testing.T) {
	f := newRouterFixture(t)

	f.checkout.EXPECT().Checkout(mock.Anything, "user-1", mock.AnythingOfType("domain.CheckoutRequest")).
		Return(&domain.CheckoutResult{OrderID: "order-1"}, nil).Once()

	w := f.do(http.MethodPost, "/api/checkout", `{"items":[{"id":"A","quantity":1}]}`, f.bearer())
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRouter_OrderByID(t *testing.T) {
	f := newRouterFixture(t)

	f.checkout.EXPECT().GetOrder(mock.Anything, "user-1", "order-1").
		Return(&domain.Order{ID: "order-1"}, nil).Once()

	w := f.do(http.MethodGet, "/api/user/orders/order-1", "", f.bearer())
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_CaptureRequiresWebhookSecret(t *testing.T) {
	f := newRouterFixture(t)

	w := f.do(http.MethodPost, "/api/payments/capture", `{"orderId":"order-1"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	f.payments.EXPECT().Capture(mock.Anything, "order-1").
		Return(&domain.CaptureResult{Status: domain.CaptureStatusPaid, OrderStatus: domain.OrderStatusPaid}, nil).Once()

	w = f.do(http.MethodPost, "/api/payments/capture", `{"orderId":"order-1"}`, map[string]string{handlers.WebhookSecretHeader: "hook"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"already":false,"orderStatus":"paid"}`, w.Body.String())
}

func TestRouter_Cart(t *testing.T) {
	f := newRouterFixture(t)

	w := f.do(http.MethodGet, "/api/cart", "", f.bearer())
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodDelete, "/api/cart/items/A", "", f.bearer())
	assert.Equal(t, http.StatusNotFound, w.Code)
}
