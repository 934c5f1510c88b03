package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyEUR единственная поддерживаемая валюта каталога
const CurrencyEUR = "EUR"

// MaxItemQuantity верхняя граница количества одной позиции в корзине и заказе
const MaxItemQuantity = 10000

func init() {
	// Денежные суммы в JSON отдаются числами, а не строками
	decimal.MarshalJSONWithoutQuotes = true
}

// ItemKind представляет тип товарной позиции
type ItemKind string

const (
	ItemKindPhysical ItemKind = "physical"
	ItemKindService  ItemKind = "service"
	ItemKindCredit   ItemKind = "credit"
)

// Valid проверяет, что тип позиции поддерживается
func (k ItemKind) Valid() bool {
	switch k {
	case ItemKindPhysical, ItemKindService, ItemKindCredit:
		return true
	default:
		return false
	}
}

// OrderStatus представляет статус заказа
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusFailed    OrderStatus = "failed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Terminal сообщает, что из статуса больше нет переходов
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusPaid || s == OrderStatusFailed || s == OrderStatusCancelled
}

// CreditEntryType представляет тип записи в кошельке кредитов
type CreditEntryType string

const (
	CreditEntryAccrual CreditEntryType = "accrual"
	CreditEntrySpend   CreditEntryType = "spend"
)

// Product представляет авторитетную запись каталога
type Product struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Kind         ItemKind        `json:"kind"`
	CreditAmount *int64          `json:"creditAmount,omitempty"` // Только для kind=credit
	Currency     string          `json:"currency"`
	Active       bool            `json:"active"`
}

// LineItem представляет позицию корзины или заказа.
// Name и UnitPrice, пришедшие от клиента, используются только для отображения.
type LineItem struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Quantity     int             `json:"quantity"`
	Kind         ItemKind        `json:"kind"`
	CreditAmount *int64          `json:"creditAmount,omitempty"`
	Currency     string          `json:"currency"`
}

// RequestedItem представляет позицию, предложенную клиентом: только id и количество
type RequestedItem struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// CheckoutRequest представляет предложенную клиентом корзину
type CheckoutRequest struct {
	Items []RequestedItem `json:"items"`
	Promo string          `json:"promo,omitempty"`
	Hash  string          `json:"hash,omitempty"`
}

// PromoCode представляет промокод
type PromoCode struct {
	Code         string     `json:"code"`
	Percent      int        `json:"percent"`
	Active       bool       `json:"active"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
	UsageLimit   *int       `json:"usageLimit,omitempty"`
	UsedCount    int        `json:"usedCount"`
	PerUserLimit *int       `json:"perUserLimit,omitempty"`
}

// PromoUsage представляет факт применения промокода к заказу
type PromoUsage struct {
	Code    string    `json:"code"`
	UserID  string    `json:"userId"`
	OrderID string    `json:"orderId"`
	At      time.Time `json:"at"`
}

// Order представляет заказ. Items фиксируются в момент создания и больше не меняются.
type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"-"`
	Status          OrderStatus     `json:"status"`
	Items           []LineItem      `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Discount        decimal.Decimal `json:"discount"`
	VAT             decimal.Decimal `json:"vat"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	PromoCode       *string         `json:"promoCode,omitempty"`
	CreditsExpected int64           `json:"creditsExpected"`
	ExternalRef     string          `json:"externalRef"`
	PaymentProvider string          `json:"paymentProvider"`
	Hash            string          `json:"hash"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// CreditEntry представляет запись в ledger кредитов пользователя
type CreditEntry struct {
	ID        int64           `json:"-"`
	UserID    string          `json:"-"`
	OrderID   string          `json:"order"`
	Amount    int64           `json:"amount"`
	Type      CreditEntryType `json:"type"`
	CreatedAt time.Time       `json:"createdAt"`
}

// CreditBalance представляет баланс кредитов пользователя
type CreditBalance struct {
	Current int64 `json:"current"`
	Accrued int64 `json:"accrued"`
	Spent   int64 `json:"spent"`
}

// CaptureStatus представляет результат захвата платежа
type CaptureStatus string

const (
	CaptureStatusPaid    CaptureStatus = "paid"
	CaptureStatusAlready CaptureStatus = "already"
	CaptureStatusFailed  CaptureStatus = "failed"
)

// CaptureResult представляет результат PaymentCapture
type CaptureResult struct {
	Status CaptureStatus `json:"status"`
	// OrderStatus содержит итоговый статус заказа после вызова
	OrderStatus OrderStatus `json:"orderStatus"`
}

// PaymentOutcome представляет ответ платежного провайдера по externalRef
type PaymentOutcome string

const (
	PaymentOutcomePending PaymentOutcome = "pending"
	PaymentOutcomePaid    PaymentOutcome = "paid"
	PaymentOutcomeFailed  PaymentOutcome = "failed"
)

// CheckoutHandle представляет данные, которые провайдер превращает в checkout URL
type CheckoutHandle struct {
	OrderID     string          `json:"orderId"`
	ExternalRef string          `json:"externalRef"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
}

// CheckoutResult представляет ответ на создание заказа
type CheckoutResult struct {
	OrderID      string          `json:"orderId"`
	ExternalRef  string          `json:"externalRef"`
	CheckoutURL  string          `json:"checkoutUrl"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	Hash         string          `json:"hash"`
	PromoApplied bool            `json:"promoApplied"`
}

// Quote представляет авторитетный расчет корзины без сохранения заказа
type Quote struct {
	Items           []LineItem      `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Discount        decimal.Decimal `json:"discount"`
	VAT             decimal.Decimal `json:"vat"`
	Total           decimal.Decimal `json:"total"`
	Currency        string          `json:"currency"`
	CreditsExpected int64           `json:"creditsExpected"`
	Hash            string          `json:"hash"`
	PromoApplied    bool            `json:"promoApplied"`
}
