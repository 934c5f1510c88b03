// Package worker сверяет зависшие pending заказы с платежным провайдером.
package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/avc/storefront-checkout/internal/domain"
	"github.com/avc/storefront-checkout/internal/metrics"
	"github.com/avc/storefront-checkout/internal/service"
	"go.uber.org/zap"
)

// Результаты сверки для метрик и логов
const (
	resultPaid        = "paid"
	resultAlready     = "already"
	resultFailed      = "failed"
	resultPending     = "pending"
	resultCancelled   = "cancelled"
	resultRateLimited = "rate_limited"
	resultError       = "error"
)

// Config параметры пула сверки
type Config struct {
	Workers      int
	QueueSize    int
	ScanInterval time.Duration
	// Grace заказы моложе этого возраста не сверяются: пользователь еще на странице оплаты
	Grace time.Duration
	// PendingTTL заказ старше этого возраста с pending оплатой отменяется
	PendingTTL time.Duration
	BatchSize  int
}

// DefaultConfig возвращает параметры по умолчанию
func DefaultConfig() Config {
	return Config{
		Workers:      4,
		QueueSize:    100,
		ScanInterval: 10 * time.Second,
		Grace:        time.Minute,
		PendingTTL:   30 * time.Minute,
		BatchSize:    100,
	}
}

// Pool представляет пул воркеров сверки pending заказов
type Pool struct {
	cfg       Config
	queue     chan *domain.Order
	orderRepo domain.OrderRepository
	payments  domain.PaymentService
	logger    *zap.Logger
	metrics   *metrics.CheckoutMetrics
	now       func() time.Time

	inFlight sync.Map
	wg       sync.WaitGroup
	cancel   context.CancelFunc
}

// NewPool создает новый worker pool
func NewPool(
	cfg Config,
	orderRepo domain.OrderRepository,
	payments domain.PaymentService,
	logger *zap.Logger,
	m *metrics.CheckoutMetrics,
) *Pool {
	defaults := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = defaults.Workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaults.QueueSize
	}
	if cfg.ScanInterval <= 0 {
		cfg.ScanInterval = defaults.ScanInterval
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaults.BatchSize
	}
	if cfg.PendingTTL <= 0 {
		cfg.PendingTTL = defaults.PendingTTL
	}

	return &Pool{
		cfg:       cfg,
		queue:     make(chan *domain.Order, cfg.QueueSize),
		orderRepo: orderRepo,
		payments:  payments,
		logger:    logger,
		metrics:   m,
		now:       time.Now,
	}
}

// Start запускает воркеры и сканер
func (p *Pool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.cfg.Workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}

	p.wg.Add(1)
	go p.scanner(ctx)
}

// Stop останавливает пул и ждет завершения текущих сверок
func (p *Pool) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
}

func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	p.logger.Info("reconcile worker started", zap.Int("worker_id", id))

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("reconcile worker stopping", zap.Int("worker_id", id))
			return
		case order := <-p.queue:
			p.processOrder(ctx, order)
			p.inFlight.Delete(order.ID)
		}
	}
}

func (p *Pool) scanner(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("reconcile scanner stopping")
			return
		case <-ticker.C:
			p.scanPendingOrders(ctx)
		}
	}
}

// scanPendingOrders ставит в очередь pending заказы старше Grace.
// Заказ, который уже сверяется, повторно не ставится.
func (p *Pool) scanPendingOrders(ctx context.Context) {
	orders, err := p.orderRepo.GetPendingOrders(ctx, p.now().Add(-p.cfg.Grace), p.cfg.BatchSize)
	if err != nil {
		p.logger.Error("failed to get pending orders", zap.Error(err))
		return
	}

	for _, order := range orders {
		if _, busy := p.inFlight.LoadOrStore(order.ID, struct{}{}); busy {
			continue
		}

		select {
		case p.queue <- order:
		case <-ctx.Done():
			p.inFlight.Delete(order.ID)
			return
		default:
			p.inFlight.Delete(order.ID)
			p.logger.Warn("reconcile queue is full, skipping order", zap.String("order_id", order.ID))
		}
	}
}

// processOrder сверяет один заказ и возвращает результат сверки
func (p *Pool) processOrder(ctx context.Context, order *domain.Order) string {
	result := p.reconcile(ctx, order)
	p.metrics.RecordReconcile(result)
	return result
}

func (p *Pool) reconcile(ctx context.Context, order *domain.Order) string {
	log := p.logger.With(zap.String("order_id", order.ID))
	log.Debug("reconciling order")

	capture, err := p.payments.Capture(ctx, order.ID)
	if err == nil {
		switch capture.Status {
		case domain.CaptureStatusPaid:
			log.Info("pending order captured")
			return resultPaid
		case domain.CaptureStatusFailed:
			log.Info("pending order failed at provider")
			return resultFailed
		default:
			return resultAlready
		}
	}

	var rateLimitErr *service.RateLimitError
	switch {
	case errors.Is(err, service.ErrPaymentPending):
		age := p.now().Sub(order.CreatedAt)
		if age < p.cfg.PendingTTL {
			return resultPending
		}
		return p.expire(ctx, order, age)
	case errors.As(err, &rateLimitErr):
		log.Warn("rate limit exceeded", zap.Duration("retry_after", rateLimitErr.RetryAfter))
		pause(ctx, rateLimitErr.RetryAfter)
		return resultRateLimited
	default:
		log.Error("failed to reconcile order", zap.Error(err))
		return resultError
	}
}

func (p *Pool) expire(ctx context.Context, order *domain.Order, age time.Duration) string {
	result, err := p.payments.Cancel(ctx, order.ID)
	if err != nil {
		p.logger.Error("failed to cancel expired order", zap.String("order_id", order.ID), zap.Error(err))
		return resultError
	}
	if result.Status == domain.CaptureStatusAlready {
		return resultAlready
	}

	p.logger.Info("expired pending order cancelled",
		zap.String("order_id", order.ID),
		zap.Duration("age", age),
	)
	return resultCancelled
}

// pause ждет d или отмены контекста
func pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
