package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avc/storefront-checkout/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPProvider_CheckoutURL(t *testing.T) {
	ctx := context.Background()
	handle := domain.CheckoutHandle{
		OrderID:     "order-1",
		ExternalRef: "ref-1",
		Amount:      decimal.RequireFromString("26.50"),
		Currency:    "EUR",
	}

	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/payments", r.URL.Path)
			assert.Equal(t, "ref-1", r.Header.Get("Idempotency-Key"))

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "order-1", body["orderId"])
			assert.Equal(t, 26.5, body["amount"])

			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"checkoutUrl":"https://pay.example/c/ref-1"}`))
		}))
		defer server.Close()

		provider := NewHTTPProvider(server.URL)
		url, err := provider.CheckoutURL(ctx, handle)
		require.NoError(t, err)
		assert.Equal(t, "https://pay.example/c/ref-1", url)
	})

	t.Run("Empty checkout url", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))
		defer server.Close()

		_, err := NewHTTPProvider(server.URL).CheckoutURL(ctx, handle)
		assert.Error(t, err)
	})

	t.Run("Rate limit exceeded", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", "30")
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		_, err := NewHTTPProvider(server.URL).CheckoutURL(ctx, handle)

		var rateLimitErr *RateLimitError
		require.ErrorAs(t, err, &rateLimitErr)
		assert.Equal(t, 30*time.Second, rateLimitErr.RetryAfter)
	})

	t.Run("Unexpected status code", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		_, err := NewHTTPProvider(server.URL).CheckoutURL(ctx, handle)
		assert.Error(t, err)
	})
}

func TestHTTPProvider_PaymentOutcome(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - paid", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/payments/ref-1", r.URL.Path)
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"externalRef":"ref-1","status":"paid"}`))
		}))
		defer server.Close()

		outcome, err := NewHTTPProvider(server.URL).PaymentOutcome(ctx, "ref-1")
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentOutcomePaid, outcome)
	})

	t.Run("Success - failed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"externalRef":"ref-1","status":"failed"}`))
		}))
		defer server.Close()

		outcome, err := NewHTTPProvider(server.URL).PaymentOutcome(ctx, "ref-1")
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentOutcomeFailed, outcome)
	})

	t.Run("Payment not registered", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		outcome, err := NewHTTPProvider(server.URL).PaymentOutcome(ctx, "ref-1")
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentOutcomePending, outcome)
	})

	t.Run("Unknown status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"externalRef":"ref-1","status":"refunded"}`))
		}))
		defer server.Close()

		_, err := NewHTTPProvider(server.URL).PaymentOutcome(ctx, "ref-1")
		assert.Error(t, err)
	})

	t.Run("Rate limit exceeded", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", "60")
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		_, err := NewHTTPProvider(server.URL).PaymentOutcome(ctx, "ref-1")

		var rateLimitErr *RateLimitError
		assert.ErrorAs(t, err, &rateLimitErr)
	})

	t.Run("Invalid JSON response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("invalid json"))
		}))
		defer server.Close()

		_, err := NewHTTPProvider(server.URL).PaymentOutcome(ctx, "ref-1")
		assert.Error(t, err)
	})
}

func TestMockProvider(t *testing.T) {
	ctx := context.Background()
	provider := NewMockProvider("http://localhost:8080/", "")

	url, err := provider.CheckoutURL(ctx, domain.CheckoutHandle{
		OrderID:     "order-1",
		ExternalRef: "ref-1",
		Amount:      decimal.RequireFromString("26.5"),
		Currency:    "EUR",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/mock-checkout?amount=26.50&currency=EUR&order=order-1&ref=ref-1", url)
	assert.Equal(t, "mock", provider.Name())

	// Без настройки платеж не считается оплаченным
	outcome, err := provider.PaymentOutcome(ctx, "ref-1")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentOutcomePending, outcome)

	provider.SetOutcome("ref-1", domain.PaymentOutcomeFailed)
	outcome, err = provider.PaymentOutcome(ctx, "ref-1")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentOutcomeFailed, outcome)
}

func TestMockProvider_DefaultOutcome(t *testing.T) {
	provider := NewMockProvider("http://localhost:8080", domain.PaymentOutcomePaid)

	outcome, err := provider.PaymentOutcome(context.Background(), "unknown-ref")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentOutcomePaid, outcome)
}
