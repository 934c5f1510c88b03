package handlers

import (
	"net/http"

	"github.com/avc/storefront-checkout/internal/domain"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type OrdersHandler struct {
	checkoutService domain.CheckoutService
	logger          *zap.Logger
}

func NewOrdersHandler(checkoutService domain.CheckoutService, logger *zap.Logger) *OrdersHandler {
	return &OrdersHandler{
		checkoutService: checkoutService,
		logger:          logger,
	}
}

func (h *OrdersHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	orders, err := h.checkoutService.GetOrders(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, "failed to get orders", err)
		return
	}

	if len(orders) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err := writeJSON(w, http.StatusOK, orders); err != nil {
		h.logger.Error("failed to encode orders response", zap.Error(err))
	}
}

func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	order, err := h.checkoutService.GetOrder(r.Context(), userID, chi.URLParam(r, "orderID"))
	if err != nil {
		respondError(w, h.logger, "failed to get order", err)
		return
	}

	if err := writeJSON(w, http.StatusOK, order); err != nil {
		h.logger.Error("failed to encode order response", zap.Error(err))
	}
}
