package handlers

import (
	"net/http"

	"github.com/avc/storefront-checkout/internal/domain"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	checkoutService domain.CheckoutService
	logger          *zap.Logger
}

func NewCheckoutHandler(checkoutService domain.CheckoutService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		logger:          logger,
	}
}

// Checkout создает pending заказ из предложенной корзины и возвращает checkout URL
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req domain.CheckoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.checkoutService.Checkout(r.Context(), userID, req)
	if err != nil {
		respondError(w, h.logger, "checkout failed", err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, result); err != nil {
		h.logger.Error("failed to encode checkout response", zap.Error(err))
	}
}

// Preview считает корзину авторитетно без создания заказа
func (h *CheckoutHandler) Preview(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req domain.CheckoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	quote, err := h.checkoutService.Preview(r.Context(), userID, req)
	if err != nil {
		respondError(w, h.logger, "checkout preview failed", err)
		return
	}

	if err := writeJSON(w, http.StatusOK, quote); err != nil {
		h.logger.Error("failed to encode preview response", zap.Error(err))
	}
}
