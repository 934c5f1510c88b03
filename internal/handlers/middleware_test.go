package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avc/storefront-checkout/internal/utils/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRequestIDMiddleware(t *testing.T) {
	middleware := RequestIDMiddleware()

	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Проверяем, что request ID добавлен в контекст
		requestID, ok := r.Context().Value(RequestIDKey).(string)
		assert.True(t, ok)
		assert.NotEmpty(t, requestID)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestLoggingMiddleware(t *testing.T) {
	middleware := LoggingMiddleware(zap.NewNop())

	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("OK"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	middleware := RecoveryMiddleware(zap.NewNop())

	t.Run("No panic", func(t *testing.T) {
		handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("With panic", func(t *testing.T) {
		handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("test panic")
		}))

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		w := httptest.NewRecorder()

		// Не должно паниковать
		assert.NotPanics(t, func() {
			handler.ServeHTTP(w, req)
		})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
	})
}

func TestAuthMiddleware(t *testing.T) {
	jwtManager := jwt.NewManager("test-secret", time.Hour)
	token, err := jwtManager.Generate("user-123")
	require.NoError(t, err)

	handler := AuthMiddleware(jwtManager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserID(r.Context())
		assert.True(t, ok)
		assert.Equal(t, "user-123", userID)
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"Valid token", "Bearer " + token, http.StatusOK},
		{"No header", "", http.StatusUnauthorized},
		{"Wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"Garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}

	t.Run("Token signed with another secret", func(t *testing.T) {
		foreign, err := jwt.NewManager("other-secret", time.Hour).Generate("user-123")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer "+foreign)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestWebhookSecretMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("Matching secret", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/payments/capture", nil)
		req.Header.Set(WebhookSecretHeader, "s3cret")
		w := httptest.NewRecorder()

		WebhookSecretMiddleware("s3cret")(next).ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/payments/capture", nil)
		req.Header.Set(WebhookSecretHeader, "guess")
		w := httptest.NewRecorder()

		WebhookSecretMiddleware("s3cret")(next).ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Empty configured secret rejects everything", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/payments/capture", nil)
		w := httptest.NewRecorder()

		WebhookSecretMiddleware("")(next).ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestTimeoutMiddleware(t *testing.T) {
	t.Run("Deadline is set", func(t *testing.T) {
		handler := TimeoutMiddleware(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := r.Context().Deadline()
			assert.True(t, ok)
			w.WriteHeader(http.StatusOK)
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Zero timeout disables deadline", func(t *testing.T) {
		handler := TimeoutMiddleware(0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := r.Context().Deadline()
			assert.False(t, ok)
		}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))
	})
}

func TestGetUserID(t *testing.T) {
	t.Run("User ID present", func(t *testing.T) {
		userID, ok := GetUserID(WithUserID(context.Background(), "user-123"))
		assert.True(t, ok)
		assert.Equal(t, "user-123", userID)
	})

	t.Run("User ID not present", func(t *testing.T) {
		userID, ok := GetUserID(context.Background())
		assert.False(t, ok)
		assert.Empty(t, userID)
	})

	t.Run("Wrong type in context", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), UserIDKey, int64(123))

		userID, ok := GetUserID(ctx)
		assert.False(t, ok)
		assert.Empty(t, userID)
	})
}
