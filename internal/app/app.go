package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/avc/storefront-checkout/internal/config"
	"github.com/avc/storefront-checkout/internal/worker"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App представляет приложение
type App struct {
	config     *config.Config
	logger     *zap.Logger
	db         *pgxpool.Pool
	redis      *redis.Client
	router     *chi.Mux
	workerPool *worker.Pool
	server     *http.Server
}

// NewApp создает новое приложение
func NewApp() (*App, error) {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	// Подключение к базе данных и миграции
	dbPool, err := initDatabase(ctx, cfg.DatabaseURI, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to database")

	// Redis опционален: без адреса корзины хранятся в памяти
	redisClient, err := initRedis(ctx, cfg.RedisAddress, cfg.RedisPassword)
	if err != nil {
		dbPool.Close()
		return nil, err
	}
	if redisClient != nil {
		logger.Info("connected to redis", zap.String("address", cfg.RedisAddress))
	} else {
		logger.Warn("redis address is not set, carts are kept in memory")
	}

	deps := initDependencies(cfg, dbPool, redisClient, logger)

	router := setupRouter(deps, cfg, logger)

	server := createServer(cfg.RunAddress, router)

	return &App{
		config:     cfg,
		logger:     logger,
		db:         dbPool,
		redis:      redisClient,
		router:     router,
		workerPool: deps.workerPool,
		server:     server,
	}, nil
}

// Run запускает приложение
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запуск сверки pending заказов
	a.workerPool.Start(ctx)
	a.logger.Info("reconcile pool started")

	// Запуск HTTP сервера и ожидание сигнала завершения
	serveErr := a.runServer(ctx)

	a.shutdown(cancel)

	return serveErr
}
