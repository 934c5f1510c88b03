package handlers

import (
	"net/http"

	"github.com/avc/storefront-checkout/internal/domain"
	"go.uber.org/zap"
)

type CreditsHandler struct {
	walletService domain.WalletService
	logger        *zap.Logger
}

func NewCreditsHandler(walletService domain.WalletService, logger *zap.Logger) *CreditsHandler {
	return &CreditsHandler{
		walletService: walletService,
		logger:        logger,
	}
}

func (h *CreditsHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	balance, err := h.walletService.GetBalance(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, "failed to get credit balance", err)
		return
	}

	if err := writeJSON(w, http.StatusOK, balance); err != nil {
		h.logger.Error("failed to encode balance response", zap.Error(err))
	}
}

type spendRequest struct {
	Order  string `json:"order"`
	Amount int64  `json:"amount"`
}

// Spend списывает кредиты. Недостаток средств 402, повторный order 409.
func (h *CreditsHandler) Spend(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req spendRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.walletService.Spend(r.Context(), userID, req.Order, req.Amount); err != nil {
		respondError(w, h.logger, "failed to spend credits", err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *CreditsHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	history, err := h.walletService.GetHistory(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, "failed to get credit history", err)
		return
	}

	if len(history) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err := writeJSON(w, http.StatusOK, history); err != nil {
		h.logger.Error("failed to encode history response", zap.Error(err))
	}
}
