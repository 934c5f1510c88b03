package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/avc/storefront-checkout/internal/domain"
	"github.com/avc/storefront-checkout/internal/integrity"
	"github.com/avc/storefront-checkout/internal/metrics"
	"github.com/avc/storefront-checkout/internal/pricing"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CheckoutService реализует domain.CheckoutService
type CheckoutService struct {
	catalog   *CatalogResolver
	promos    *PromoValidator
	engine    *pricing.Engine
	orderRepo domain.OrderRepository
	provider  domain.PaymentProvider
	logger    *zap.Logger
	metrics   *metrics.CheckoutMetrics
	newID     func() string
}

// NewCheckoutService создает новый CheckoutService
func NewCheckoutService(
	catalog *CatalogResolver,
	promos *PromoValidator,
	engine *pricing.Engine,
	orderRepo domain.OrderRepository,
	provider domain.PaymentProvider,
	logger *zap.Logger,
	m *metrics.CheckoutMetrics,
) *CheckoutService {
	if engine == nil {
		engine = pricing.Default()
	}
	return &CheckoutService{
		catalog:   catalog,
		promos:    promos,
		engine:    engine,
		orderRepo: orderRepo,
		provider:  provider,
		logger:    logger,
		metrics:   m,
		newID:     uuid.NewString,
	}
}

// priced авторитетный расчет корзины до сохранения
type priced struct {
	items  []domain.LineItem
	promo  PromoDecision
	totals pricing.Totals
	hash   string
}

// Checkout превращает предложенную корзину в pending заказ и checkout handle
func (s *CheckoutService) Checkout(ctx context.Context, userID string, req domain.CheckoutRequest) (*domain.CheckoutResult, error) {
	started := time.Now()
	defer func() { s.metrics.RecordCheckoutDuration(time.Since(started)) }()

	p, err := s.price(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		ID:              s.newID(),
		UserID:          userID,
		Status:          domain.OrderStatusPending,
		Items:           p.items,
		Currency:        domain.CurrencyEUR,
		ExternalRef:     s.newID(),
		PaymentProvider: s.provider.Name(),
		Hash:            p.hash,
	}
	applyTotals(order, p.totals, p.promo)

	err = s.orderRepo.CreateOrder(ctx, order, p.promo.Applied())
	if errors.Is(err, domain.ErrPromoExhausted) {
		// Код исчерпан между проверкой и захватом: перерасчет без скидки
		s.logger.Info("promo code exhausted during checkout, repricing without discount",
			zap.String("code", p.promo.Code),
			zap.String("order_id", order.ID),
		)
		s.metrics.RecordPromoEvaluated(string(PromoExhausted))
		p.promo = PromoDecision{Code: p.promo.Code, Reason: PromoExhausted}
		p.totals = s.engine.Compute(p.items, 0)
		applyTotals(order, p.totals, p.promo)
		err = s.orderRepo.CreateOrder(ctx, order, false)
	}
	if err != nil {
		return nil, persistenceError("create order", err)
	}

	s.metrics.RecordOrderCreated()
	s.logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("user_id", userID),
		zap.String("amount", order.Amount.StringFixed(2)),
		zap.Bool("promo_applied", p.promo.Applied()),
	)

	checkoutURL, err := s.provider.CheckoutURL(ctx, domain.CheckoutHandle{
		OrderID:     order.ID,
		ExternalRef: order.ExternalRef,
		Amount:      order.Amount,
		Currency:    order.Currency,
	})
	if err != nil {
		// Заказ остается pending, его закроет сверка
		return nil, fmt.Errorf("checkout service: order %s: %w: %w", order.ID, ErrPaymentProvider, err)
	}

	return &domain.CheckoutResult{
		OrderID:      order.ID,
		ExternalRef:  order.ExternalRef,
		CheckoutURL:  checkoutURL,
		Amount:       order.Amount,
		Currency:     order.Currency,
		Hash:         order.Hash,
		PromoApplied: p.promo.Applied(),
	}, nil
}

// Preview считает корзину так же, как Checkout, но ничего не сохраняет
func (s *CheckoutService) Preview(ctx context.Context, userID string, req domain.CheckoutRequest) (*domain.Quote, error) {
	p, err := s.price(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	return &domain.Quote{
		Items:           p.items,
		Subtotal:        p.totals.Subtotal,
		Discount:        p.totals.Discount,
		VAT:             p.totals.VAT,
		Total:           p.totals.Total,
		Currency:        domain.CurrencyEUR,
		CreditsExpected: p.totals.CreditsExpected,
		Hash:            p.hash,
		PromoApplied:    p.promo.Applied(),
	}, nil
}

// GetOrder возвращает заказ, если он принадлежит пользователю
func (s *CheckoutService) GetOrder(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, persistenceError("get order", err)
	}

	// Чужой заказ неотличим от несуществующего
	if order.UserID != userID {
		return nil, ErrOrderNotFound
	}

	return order, nil
}

// GetOrders возвращает заказы пользователя
func (s *CheckoutService) GetOrders(ctx context.Context, userID string) ([]*domain.Order, error) {
	orders, err := s.orderRepo.GetOrdersByUserID(ctx, userID)
	if err != nil {
		return nil, persistenceError("list orders", err)
	}

	return orders, nil
}

func (s *CheckoutService) price(ctx context.Context, userID string, req domain.CheckoutRequest) (*priced, error) {
	requested, err := NormalizeItems(req.Items)
	if err != nil {
		s.metrics.RecordCheckoutRejected("invalid_quantity")
		return nil, err
	}
	if len(requested) == 0 {
		s.metrics.RecordCheckoutRejected("empty_cart")
		return nil, ErrEmptyCart
	}

	ids := make([]string, 0, len(requested))
	for _, item := range requested {
		ids = append(ids, item.ID)
	}

	var (
		products map[string]*domain.Product
		decision PromoDecision
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.catalog.Resolve(gctx, ids)
		return err
	})
	g.Go(func() error {
		decision = s.promos.Evaluate(gctx, req.Promo, userID)
		return nil
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, ErrUnknownProduct) {
			s.metrics.RecordCheckoutRejected("unknown_product")
		}
		return nil, err
	}

	items := make([]domain.LineItem, 0, len(requested))
	for _, r := range requested {
		items = append(items, LineItemFromProduct(products[r.ID], r.Quantity))
	}

	totals := s.engine.Compute(items, decision.Percent)

	hash, err := integrity.Hash(items, req.Promo)
	if err != nil {
		return nil, fmt.Errorf("checkout service: %w", err)
	}

	if req.Hash != "" && !integrity.Equal(req.Hash, hash) {
		s.metrics.RecordCheckoutRejected("integrity_mismatch")
		s.metrics.RecordIntegrityMismatch()
		s.logger.Info("cart integrity mismatch",
			zap.String("user_id", userID),
			zap.String("client_hash", req.Hash),
			zap.String("server_hash", hash),
		)
		return nil, ErrIntegrityMismatch
	}

	return &priced{items: items, promo: decision, totals: totals, hash: hash}, nil
}

// NormalizeItems оставляет только id и количество, отбрасывает неположительные
// количества, объединяет повторяющиеся id и сортирует по id.
// Количество позиции больше domain.MaxItemQuantity, в том числе после объединения,
// возвращает ErrInvalidInput.
func NormalizeItems(items []domain.RequestedItem) ([]domain.RequestedItem, error) {
	merged := make(map[string]int, len(items))
	for _, item := range items {
		if item.ID == "" || item.Quantity <= 0 {
			continue
		}
		if item.Quantity > domain.MaxItemQuantity-merged[item.ID] {
			return nil, fmt.Errorf("%w: quantity of %s exceeds %d", ErrInvalidInput, item.ID, domain.MaxItemQuantity)
		}
		merged[item.ID] += item.Quantity
	}

	normalized := make([]domain.RequestedItem, 0, len(merged))
	for id, qty := range merged {
		normalized = append(normalized, domain.RequestedItem{ID: id, Quantity: qty})
	}
	sort.Slice(normalized, func(i, j int) bool {
		return normalized[i].ID < normalized[j].ID
	})

	return normalized, nil
}

// LineItemFromProduct строит позицию из авторитетной записи каталога
func LineItemFromProduct(p *domain.Product, quantity int) domain.LineItem {
	item := domain.LineItem{
		ID:        p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  quantity,
		Kind:      p.Kind,
		Currency:  p.Currency,
	}
	if p.Kind == domain.ItemKindCredit && p.CreditAmount != nil {
		amount := *p.CreditAmount
		item.CreditAmount = &amount
	}
	return item
}

func applyTotals(order *domain.Order, totals pricing.Totals, promo PromoDecision) {
	order.Subtotal = totals.Subtotal
	order.Discount = totals.Discount
	order.VAT = totals.VAT
	order.Amount = totals.Total
	order.CreditsExpected = totals.CreditsExpected
	order.PromoCode = nil
	if promo.Applied() {
		code := promo.Code
		order.PromoCode = &code
	}
}
