package handlers

import (
	"net/http"
	"strings"

	"github.com/avc/storefront-checkout/internal/domain"
	"go.uber.org/zap"
)

type PaymentsHandler struct {
	paymentService domain.PaymentService
	logger         *zap.Logger
}

func NewPaymentsHandler(paymentService domain.PaymentService, logger *zap.Logger) *PaymentsHandler {
	return &PaymentsHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

type captureRequest struct {
	OrderID string `json:"orderId"`
}

type captureResponse struct {
	Success     bool               `json:"success"`
	Already     bool               `json:"already"`
	OrderStatus domain.OrderStatus `json:"orderStatus"`
}

// Capture подтверждает оплату заказа. Повторный вызов возвращает already=true.
func (h *PaymentsHandler) Capture(w http.ResponseWriter, r *http.Request) {
	var req captureRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	orderID := strings.TrimSpace(req.OrderID)
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "orderId is required")
		return
	}

	result, err := h.paymentService.Capture(r.Context(), orderID)
	if err != nil {
		respondError(w, h.logger, "payment capture failed", err)
		return
	}

	already := result.Status == domain.CaptureStatusAlready
	resp := captureResponse{
		Success:     result.OrderStatus == domain.OrderStatusPaid,
		Already:     already,
		OrderStatus: result.OrderStatus,
	}

	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		h.logger.Error("failed to encode capture response", zap.Error(err))
	}
}
