package domain

import (
	"context"
	"time"
)

// CatalogRepository определяет методы чтения каталога
type CatalogRepository interface {
	ListActiveProducts(ctx context.Context, ids []string) ([]*Product, error)
}

// PromoRepository определяет методы чтения промокодов и их использования
type PromoRepository interface {
	GetPromoCode(ctx context.Context, code string) (*PromoCode, error)
	CountUserUsages(ctx context.Context, code, userID string) (int, error)
}

// OrderRepository определяет методы работы с заказами
type OrderRepository interface {
	// CreateOrder атомарно сохраняет pending заказ. Если claimPromo=true, в той же
	// транзакции увеличивает used_count промокода и пишет PromoUsage.
	CreateOrder(ctx context.Context, order *Order, claimPromo bool) error
	GetOrderByID(ctx context.Context, id string) (*Order, error)
	GetOrdersByUserID(ctx context.Context, userID string) ([]*Order, error)
	GetPendingOrders(ctx context.Context, createdBefore time.Time, limit int) ([]*Order, error)
	// MarkPaid переводит pending заказ в paid и начисляет кредиты одной транзакцией.
	// Возвращает false и текущий статус, если заказ уже в терминальном статусе.
	MarkPaid(ctx context.Context, orderID string) (bool, OrderStatus, error)
	// MarkClosed переводит pending заказ в failed или cancelled.
	MarkClosed(ctx context.Context, orderID string, status OrderStatus) (bool, OrderStatus, error)
}

// CreditRepository определяет методы работы с ledger кредитов
type CreditRepository interface {
	CreateEntry(ctx context.Context, userID, orderID string, amount int64, entryType CreditEntryType) error
	GetBalance(ctx context.Context, userID string) (*CreditBalance, error)
	GetHistory(ctx context.Context, userID string) ([]*CreditEntry, error)
	SpendWithLock(ctx context.Context, userID, orderRef string, amount int64) error
}

// PaymentProvider определяет непрозрачную абстракцию платежного провайдера
type PaymentProvider interface {
	Name() string
	// CheckoutURL превращает заказ в пользовательский checkout handle
	CheckoutURL(ctx context.Context, handle CheckoutHandle) (string, error)
	// PaymentOutcome возвращает состояние оплаты по idempotency ключу заказа
	PaymentOutcome(ctx context.Context, externalRef string) (PaymentOutcome, error)
}

// CheckoutService определяет методы создания заказов
type CheckoutService interface {
	Checkout(ctx context.Context, userID string, req CheckoutRequest) (*CheckoutResult, error)
	Preview(ctx context.Context, userID string, req CheckoutRequest) (*Quote, error)
	GetOrder(ctx context.Context, userID, orderID string) (*Order, error)
	GetOrders(ctx context.Context, userID string) ([]*Order, error)
}

// PaymentService определяет методы захвата платежа
type PaymentService interface {
	Capture(ctx context.Context, orderID string) (*CaptureResult, error)
	Cancel(ctx context.Context, orderID string) (*CaptureResult, error)
}

// WalletService определяет методы работы с кредитами
type WalletService interface {
	GetBalance(ctx context.Context, userID string) (*CreditBalance, error)
	GetHistory(ctx context.Context, userID string) ([]*CreditEntry, error)
	Spend(ctx context.Context, userID, orderRef string, amount int64) error
}
