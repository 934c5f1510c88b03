package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/avc/storefront-checkout/internal/domain"
	"github.com/avc/storefront-checkout/internal/metrics"
	"go.uber.org/zap"
)

// CartCleaner удаляет сохраненную корзину пользователя
type CartCleaner interface {
	Delete(ctx context.Context, key string) error
}

// PaymentService реализует domain.PaymentService
type PaymentService struct {
	orderRepo domain.OrderRepository
	provider  domain.PaymentProvider
	carts     CartCleaner
	logger    *zap.Logger
	metrics   *metrics.CheckoutMetrics
}

// NewPaymentService создает новый PaymentService. carts может быть nil.
func NewPaymentService(
	orderRepo domain.OrderRepository,
	provider domain.PaymentProvider,
	carts CartCleaner,
	logger *zap.Logger,
	m *metrics.CheckoutMetrics,
) *PaymentService {
	return &PaymentService{
		orderRepo: orderRepo,
		provider:  provider,
		carts:     carts,
		logger:    logger,
		metrics:   m,
	}
}

// Capture идемпотентно завершает pending заказ по ответу провайдера.
// Повторный вызов для терминального заказа возвращает CaptureStatusAlready.
func (s *PaymentService) Capture(ctx context.Context, orderID string) (*domain.CaptureResult, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status.Terminal() {
		return s.already(order.Status), nil
	}

	outcome, err := s.provider.PaymentOutcome(ctx, order.ExternalRef)
	if err != nil {
		var rateLimitErr *RateLimitError
		if errors.As(err, &rateLimitErr) {
			return nil, err
		}
		return nil, fmt.Errorf("payment service: order %s: %w: %w", orderID, ErrPaymentProvider, err)
	}

	switch outcome {
	case domain.PaymentOutcomePaid:
		changed, status, err := s.orderRepo.MarkPaid(ctx, orderID)
		if err != nil {
			return nil, persistenceError("mark order paid", err)
		}
		if !changed {
			return s.already(status), nil
		}

		s.logger.Info("order paid",
			zap.String("order_id", orderID),
			zap.String("user_id", order.UserID),
			zap.Int64("credits", order.CreditsExpected),
		)
		s.clearCart(ctx, order.UserID)
		s.metrics.RecordCapture(string(domain.CaptureStatusPaid))
		return &domain.CaptureResult{Status: domain.CaptureStatusPaid, OrderStatus: domain.OrderStatusPaid}, nil

	case domain.PaymentOutcomeFailed:
		return s.close(ctx, orderID, domain.OrderStatusFailed)

	default:
		return nil, ErrPaymentPending
	}
}

// Cancel закрывает pending заказ, оплата которого так и не пришла
func (s *PaymentService) Cancel(ctx context.Context, orderID string) (*domain.CaptureResult, error) {
	return s.close(ctx, orderID, domain.OrderStatusCancelled)
}

func (s *PaymentService) close(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.CaptureResult, error) {
	changed, current, err := s.orderRepo.MarkClosed(ctx, orderID, status)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, persistenceError("close order", err)
	}
	if !changed {
		return s.already(current), nil
	}

	s.logger.Info("order closed", zap.String("order_id", orderID), zap.String("status", string(status)))
	s.metrics.RecordCapture(string(domain.CaptureStatusFailed))
	return &domain.CaptureResult{Status: domain.CaptureStatusFailed, OrderStatus: status}, nil
}

func (s *PaymentService) loadOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, persistenceError("get order", err)
	}
	return order, nil
}

func (s *PaymentService) already(status domain.OrderStatus) *domain.CaptureResult {
	s.metrics.RecordCapture(string(domain.CaptureStatusAlready))
	return &domain.CaptureResult{Status: domain.CaptureStatusAlready, OrderStatus: status}
}

// clearCart очищает корзину после оплаты. Ошибка не влияет на результат захвата.
func (s *PaymentService) clearCart(ctx context.Context, userID string) {
	if s.carts == nil {
		return
	}
	if err := s.carts.Delete(ctx, userID); err != nil {
		s.logger.Warn("failed to clear cart after payment", zap.String("user_id", userID), zap.Error(err))
	}
}
