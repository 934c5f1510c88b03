package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Config содержит конфигурацию приложения
type Config struct {
	RunAddress             string        // Адрес и порт запуска сервиса
	DatabaseURI            string        // URI подключения к БД
	PaymentProviderAddress string        // Адрес платежного провайдера, пустой включает mock провайдер
	CheckoutBaseURL        string        // Базовый URL страниц оплаты mock провайдера
	MockPaymentOutcome     string        // Исход платежа mock провайдера: pending, paid или failed
	RedisAddress           string        // Адрес Redis для корзин, пустой хранит корзины в памяти
	RedisPassword          string        // Пароль Redis
	JWTSecret              string        // Секретный ключ для JWT
	JWTTokenTTL            time.Duration // Время жизни JWT токена
	WebhookSecret          string        // Общий секрет платежного webhook
	LogLevel               string        // Уровень логирования
	RequestTimeout         time.Duration // Таймаут обработки запроса
	VATPercent             decimal.Decimal
	CartTTL                time.Duration // Время жизни корзины в Redis

	// Сверка pending заказов
	PendingOrderGrace  time.Duration // Заказы моложе не сверяются
	PendingOrderTTL    time.Duration // Заказы старше с pending оплатой отменяются
	WorkerPoolSize     int           // Количество воркеров
	WorkerQueueSize    int           // Размер очереди заказов
	WorkerScanInterval time.Duration // Интервал сканирования pending заказов
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		RunAddress:         ":8080",
		CheckoutBaseURL:    "http://localhost:8080",
		MockPaymentOutcome: "pending",
		JWTTokenTTL:        24 * time.Hour,
		LogLevel:           "info",
		RequestTimeout:     5 * time.Second,
		VATPercent:         decimal.NewFromInt(20),
		CartTTL:            7 * 24 * time.Hour,
		PendingOrderGrace:  time.Minute,
		PendingOrderTTL:    30 * time.Minute,
		WorkerPoolSize:     3,
		WorkerQueueSize:    100,
		WorkerScanInterval: 10 * time.Second,
	}
}

// Load загружает конфигурацию из аргументов командной строки и переменных окружения
func Load() (*Config, error) {
	return Parse(os.Args[1:], os.LookupEnv)
}

// Parse разбирает флаги и переменные окружения.
// Приоритет: env переменные > флаги > дефолтные значения
func Parse(args []string, lookupEnv func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "address and port to run server")
	fs.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	fs.StringVar(&cfg.PaymentProviderAddress, "p", "", "payment provider address")
	fs.StringVar(&cfg.RedisAddress, "redis", "", "redis address for cart storage")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	lookupString(lookupEnv, "RUN_ADDRESS", &cfg.RunAddress)
	lookupString(lookupEnv, "DATABASE_URI", &cfg.DatabaseURI)
	lookupString(lookupEnv, "PAYMENT_PROVIDER_ADDRESS", &cfg.PaymentProviderAddress)
	lookupString(lookupEnv, "CHECKOUT_BASE_URL", &cfg.CheckoutBaseURL)
	lookupString(lookupEnv, "MOCK_PAYMENT_OUTCOME", &cfg.MockPaymentOutcome)
	lookupString(lookupEnv, "REDIS_ADDRESS", &cfg.RedisAddress)
	lookupString(lookupEnv, "REDIS_PASSWORD", &cfg.RedisPassword)
	lookupString(lookupEnv, "LOG_LEVEL", &cfg.LogLevel)

	// Секреты только из env, не из флагов
	if secret, ok := lookupEnv("JWT_SECRET"); ok {
		cfg.JWTSecret = secret
	} else {
		cfg.JWTSecret = "default-secret-key-change-in-production"
	}
	lookupString(lookupEnv, "WEBHOOK_SECRET", &cfg.WebhookSecret)

	lookupDuration(lookupEnv, "JWT_TOKEN_TTL", &cfg.JWTTokenTTL)
	lookupDuration(lookupEnv, "REQUEST_TIMEOUT", &cfg.RequestTimeout)
	lookupDuration(lookupEnv, "CART_TTL", &cfg.CartTTL)
	lookupDuration(lookupEnv, "PENDING_ORDER_GRACE", &cfg.PendingOrderGrace)
	lookupDuration(lookupEnv, "PENDING_ORDER_TTL", &cfg.PendingOrderTTL)
	lookupDuration(lookupEnv, "WORKER_SCAN_INTERVAL", &cfg.WorkerScanInterval)
	lookupInt(lookupEnv, "WORKER_POOL_SIZE", &cfg.WorkerPoolSize)
	lookupInt(lookupEnv, "WORKER_QUEUE_SIZE", &cfg.WorkerQueueSize)

	if raw, ok := lookupEnv("VAT_PERCENT"); ok {
		vat, err := decimal.NewFromString(raw)
		if err != nil || vat.IsNegative() || vat.GreaterThan(decimal.NewFromInt(100)) {
			return nil, fmt.Errorf("config: invalid VAT_PERCENT %q", raw)
		}
		cfg.VATPercent = vat
	}

	switch cfg.MockPaymentOutcome {
	case "pending", "paid", "failed":
	default:
		return nil, fmt.Errorf("config: invalid MOCK_PAYMENT_OUTCOME %q", cfg.MockPaymentOutcome)
	}

	// Валидация обязательных параметров
	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI is required (use -d flag or DATABASE_URI env)")
	}

	return cfg, nil
}

// UseMockProvider сообщает, что адрес провайдера не задан и используется mock
func (c *Config) UseMockProvider() bool {
	return c.PaymentProviderAddress == ""
}

func lookupString(lookupEnv func(string) (string, bool), key string, dst *string) {
	if v, ok := lookupEnv(key); ok {
		*dst = v
	}
}

// lookupDuration игнорирует нераспознанные и неположительные значения
func lookupDuration(lookupEnv func(string) (string, bool), key string, dst *time.Duration) {
	if v, ok := lookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			*dst = d
		}
	}
}

func lookupInt(lookupEnv func(string) (string, bool), key string, dst *int) {
	if v, ok := lookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			*dst = n
		}
	}
}
