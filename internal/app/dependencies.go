package app

import (
	"context"

	"github.com/avc/storefront-checkout/internal/cart"
	"github.com/avc/storefront-checkout/internal/config"
	"github.com/avc/storefront-checkout/internal/domain"
	"github.com/avc/storefront-checkout/internal/handlers"
	"github.com/avc/storefront-checkout/internal/metrics"
	"github.com/avc/storefront-checkout/internal/pricing"
	"github.com/avc/storefront-checkout/internal/repository/postgres"
	"github.com/avc/storefront-checkout/internal/service"
	"github.com/avc/storefront-checkout/internal/utils/jwt"
	"github.com/avc/storefront-checkout/internal/worker"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// repositories содержит все репозитории приложения
type repositories struct {
	catalog domain.CatalogRepository
	promo   domain.PromoRepository
	order   domain.OrderRepository
	credit  domain.CreditRepository
}

// services содержит все сервисы приложения
type services struct {
	catalog  *service.CatalogResolver
	checkout domain.CheckoutService
	payment  domain.PaymentService
	wallet   domain.WalletService
	provider domain.PaymentProvider
}

// handlerSet содержит все хендлеры приложения
type handlerSet struct {
	checkout *handlers.CheckoutHandler
	payments *handlers.PaymentsHandler
	orders   *handlers.OrdersHandler
	credits  *handlers.CreditsHandler
	cart     *handlers.CartHandler
	health   *handlers.HealthHandler
}

// dependencies содержит все зависимости приложения
type dependencies struct {
	repos      *repositories
	services   *services
	handlers   *handlerSet
	jwtManager *jwt.Manager
	workerPool *worker.Pool
}

// initDependencies создает все зависимости приложения. redisClient может быть nil.
func initDependencies(cfg *config.Config, dbPool *pgxpool.Pool, redisClient *redis.Client, logger *zap.Logger) *dependencies {
	repos := &repositories{
		catalog: postgres.NewCatalogRepository(dbPool),
		promo:   postgres.NewPromoRepository(dbPool),
		order:   postgres.NewOrderRepository(dbPool),
		credit:  postgres.NewCreditRepository(dbPool),
	}

	checkoutMetrics := metrics.NewCheckoutMetrics()
	engine := pricing.NewEngine(cfg.VATPercent)
	jwtManager := jwt.NewManager(cfg.JWTSecret, cfg.JWTTokenTTL)

	var provider domain.PaymentProvider
	if cfg.UseMockProvider() {
		outcome := domain.PaymentOutcome(cfg.MockPaymentOutcome)
		provider = service.NewMockProvider(cfg.CheckoutBaseURL, outcome)
		logger.Warn("payment provider address is not set, using mock provider",
			zap.String("checkout_base_url", cfg.CheckoutBaseURL),
			zap.String("mock_payment_outcome", cfg.MockPaymentOutcome))
		if outcome == domain.PaymentOutcomePaid {
			logger.Error("mock provider reports every payment as paid, credits are granted without payment")
		}
	} else {
		provider = service.NewHTTPProvider(cfg.PaymentProviderAddress)
	}

	var carts cart.Storage
	var cachePing handlers.PingFunc
	if redisClient != nil {
		carts = cart.NewRedisStorage(redisClient, cfg.CartTTL)
		cachePing = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	} else {
		carts = cart.NewMemoryStorage()
	}

	catalog := service.NewCatalogResolver(repos.catalog)
	promos := service.NewPromoValidator(repos.promo, logger, checkoutMetrics)

	svcs := &services{
		catalog:  catalog,
		checkout: service.NewCheckoutService(catalog, promos, engine, repos.order, provider, logger, checkoutMetrics),
		payment:  service.NewPaymentService(repos.order, provider, carts, logger, checkoutMetrics),
		wallet:   service.NewWalletService(repos.credit),
		provider: provider,
	}

	hdlrs := &handlerSet{
		checkout: handlers.NewCheckoutHandler(svcs.checkout, logger),
		payments: handlers.NewPaymentsHandler(svcs.payment, logger),
		orders:   handlers.NewOrdersHandler(svcs.checkout, logger),
		credits:  handlers.NewCreditsHandler(svcs.wallet, logger),
		cart:     handlers.NewCartHandler(carts, svcs.catalog, engine, svcs.checkout, logger),
		health:   handlers.NewHealthHandler(dbPool.Ping, cachePing, logger),
	}

	workerPool := worker.NewPool(worker.Config{
		Workers:      cfg.WorkerPoolSize,
		QueueSize:    cfg.WorkerQueueSize,
		ScanInterval: cfg.WorkerScanInterval,
		Grace:        cfg.PendingOrderGrace,
		PendingTTL:   cfg.PendingOrderTTL,
	}, repos.order, svcs.payment, logger, checkoutMetrics)

	return &dependencies{
		repos:      repos,
		services:   svcs,
		handlers:   hdlrs,
		jwtManager: jwtManager,
		workerPool: workerPool,
	}
}
