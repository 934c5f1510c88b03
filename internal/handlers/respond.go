package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/avc/storefront-checkout/internal/cart"
	"github.com/avc/storefront-checkout/internal/domain"
	"github.com/avc/storefront-checkout/internal/service"
	"go.uber.org/zap"
)

// maxBodyBytes ограничивает размер JSON тела запроса
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	_ = writeJSON(w, status, errorResponse{Error: message})
}

// decodeJSON читает тело запроса в v. Неизвестные поля игнорируются.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

// statusFor сопоставляет ошибку сервисного слоя с HTTP статусом и текстом ответа
func statusFor(err error) (int, string) {
	var unknown *service.UnknownProductError
	var rateLimit *service.RateLimitError

	switch {
	case errors.As(err, &unknown):
		return http.StatusBadRequest, unknown.Error()
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrUnknownProduct),
		errors.Is(err, service.ErrIntegrityMismatch),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, cart.ErrInvalidItem),
		errors.Is(err, cart.ErrInvalidQuantity):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, cart.ErrItemNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrPaymentPending),
		errors.Is(err, domain.ErrDuplicateSpend):
		return http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrInsufficientCredits):
		return http.StatusPaymentRequired, err.Error()
	case errors.As(err, &rateLimit):
		return http.StatusTooManyRequests, "payment provider rate limit exceeded"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "request timed out"
	case errors.Is(err, service.ErrPaymentProvider):
		return http.StatusBadGateway, "payment provider unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// respondError пишет ответ об ошибке. Ошибки 5xx логируются с полным текстом.
func respondError(w http.ResponseWriter, logger *zap.Logger, msg string, err error) {
	status, text := statusFor(err)

	var rateLimit *service.RateLimitError
	if errors.As(err, &rateLimit) && rateLimit.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(rateLimit.RetryAfter.Seconds()))))
	}

	if status >= http.StatusInternalServerError {
		logger.Error(msg, zap.Int("status", status), zap.Error(err))
	} else {
		logger.Debug(msg, zap.Int("status", status), zap.Error(err))
	}

	writeError(w, status, text)
}
