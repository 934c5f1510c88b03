package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/avc/storefront-checkout/internal/cart"
	"github.com/avc/storefront-checkout/internal/domain"
	"github.com/avc/storefront-checkout/internal/pricing"
	"github.com/avc/storefront-checkout/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductResolver возвращает активные товары каталога по id
type ProductResolver interface {
	Resolve(ctx context.Context, ids []string) (map[string]*domain.Product, error)
}

// CartHandler обслуживает серверную корзину пользователя. Ключ корзины совпадает с user ID.
type CartHandler struct {
	storage         cart.Storage
	products        ProductResolver
	engine          *pricing.Engine
	checkoutService domain.CheckoutService
	logger          *zap.Logger
}

func NewCartHandler(
	storage cart.Storage,
	products ProductResolver,
	engine *pricing.Engine,
	checkoutService domain.CheckoutService,
	logger *zap.Logger,
) *CartHandler {
	return &CartHandler{
		storage:         storage,
		products:        products,
		engine:          engine,
		checkoutService: checkoutService,
		logger:          logger,
	}
}

type cartTotals struct {
	Subtotal        decimal.Decimal `json:"subtotal"`
	Discount        decimal.Decimal `json:"discount"`
	VAT             decimal.Decimal `json:"vat"`
	Total           decimal.Decimal `json:"total"`
	CreditsExpected int64           `json:"creditsExpected"`
}

// cartResponse содержит оптимистичный расчет без скидки: промокод подтверждает только checkout
type cartResponse struct {
	Items  []domain.LineItem `json:"items"`
	Promo  string            `json:"promo,omitempty"`
	Totals cartTotals        `json:"totals"`
	Hash   string            `json:"hash"`
}

type addItemRequest struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

type promoRequest struct {
	Code string `json:"code"`
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := h.open(w, r)
	if !ok {
		return
	}
	h.respondCart(w, c)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	c, ok := h.open(w, r)
	if !ok {
		return
	}

	if err := c.Clear(r.Context()); err != nil {
		respondError(w, h.logger, "failed to clear cart", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddItem добавляет товар по id. Название и цена берутся из каталога, не от клиента.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		respondError(w, h.logger, "failed to add cart item", cart.ErrInvalidItem)
		return
	}
	if req.Quantity <= 0 || req.Quantity > domain.MaxItemQuantity {
		respondError(w, h.logger, "failed to add cart item", cart.ErrInvalidQuantity)
		return
	}

	c, ok := h.open(w, r)
	if !ok {
		return
	}

	products, err := h.products.Resolve(r.Context(), []string{id})
	if err != nil {
		respondError(w, h.logger, "failed to resolve cart item", err)
		return
	}

	if err := c.Add(r.Context(), service.LineItemFromProduct(products[id], req.Quantity)); err != nil {
		respondError(w, h.logger, "failed to add cart item", err)
		return
	}

	h.respondCart(w, c)
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, ok := h.open(w, r)
	if !ok {
		return
	}

	if err := c.UpdateQuantity(r.Context(), chi.URLParam(r, "productID"), req.Quantity); err != nil {
		respondError(w, h.logger, "failed to update cart item", err)
		return
	}

	h.respondCart(w, c)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c, ok := h.open(w, r)
	if !ok {
		return
	}

	if err := c.Remove(r.Context(), chi.URLParam(r, "productID")); err != nil {
		respondError(w, h.logger, "failed to remove cart item", err)
		return
	}

	h.respondCart(w, c)
}

func (h *CartHandler) SetPromo(w http.ResponseWriter, r *http.Request) {
	var req promoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, ok := h.open(w, r)
	if !ok {
		return
	}

	if err := c.SetPromo(r.Context(), req.Code); err != nil {
		respondError(w, h.logger, "failed to set cart promo", err)
		return
	}

	h.respondCart(w, c)
}

// Refresh перечитывает названия и цены позиций из каталога
func (h *CartHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	c, ok := h.open(w, r)
	if !ok {
		return
	}

	items := c.Items()
	if len(items) == 0 {
		h.respondCart(w, c)
		return
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}

	products, err := h.products.Resolve(r.Context(), ids)
	if err != nil {
		respondError(w, h.logger, "failed to refresh cart", err)
		return
	}

	fresh := make([]domain.LineItem, 0, len(items))
	for _, item := range items {
		fresh = append(fresh, service.LineItemFromProduct(products[item.ID], item.Quantity))
	}

	if err := c.Reprice(r.Context(), fresh); err != nil {
		respondError(w, h.logger, "failed to refresh cart", err)
		return
	}

	h.respondCart(w, c)
}

// Checkout отправляет корзину на создание заказа. Корзина очищается после подтверждения оплаты.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	c, ok := h.open(w, r)
	if !ok {
		return
	}

	req, err := c.CheckoutRequest()
	if err != nil {
		respondError(w, h.logger, "failed to build checkout request", err)
		return
	}

	userID, _ := GetUserID(r.Context())
	result, err := h.checkoutService.Checkout(r.Context(), userID, req)
	if err != nil {
		respondError(w, h.logger, "cart checkout failed", err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, result); err != nil {
		h.logger.Error("failed to encode checkout response", zap.Error(err))
	}
}

func (h *CartHandler) open(w http.ResponseWriter, r *http.Request) (*cart.Cart, bool) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}

	c, err := cart.Open(r.Context(), h.storage, userID, h.engine)
	if err != nil {
		respondError(w, h.logger, "failed to open cart", err)
		return nil, false
	}

	return c, true
}

func (h *CartHandler) respondCart(w http.ResponseWriter, c *cart.Cart) {
	hash, err := c.Hash()
	if err != nil {
		respondError(w, h.logger, "failed to hash cart", err)
		return
	}

	totals := c.Preview(0)
	resp := cartResponse{
		Items: c.Items(),
		Promo: c.Promo(),
		Totals: cartTotals{
			Subtotal:        totals.Subtotal,
			Discount:        totals.Discount,
			VAT:             totals.VAT,
			Total:           totals.Total,
			CreditsExpected: totals.CreditsExpected,
		},
		Hash: hash,
	}

	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		h.logger.Error("failed to encode cart response", zap.Error(err))
	}
}
