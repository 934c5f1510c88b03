package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/avc/storefront-checkout/internal/domain"
)

// Ошибки проверки корзины. Возвращаются до любых побочных эффектов.
var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrUnknownProduct    = errors.New("unknown product")
	ErrIntegrityMismatch = errors.New("cart integrity mismatch")
	ErrInvalidInput      = errors.New("invalid input")
)

// Ошибки заказов и платежей
var (
	ErrOrderNotFound       = domain.ErrOrderNotFound
	ErrPaymentPending      = errors.New("payment is still pending")
	ErrPaymentProvider     = errors.New("payment provider unavailable")
	ErrPersistence         = errors.New("persistence failure")
	ErrInsufficientCredits = domain.ErrInsufficientCredits
)

// UnknownProductError сообщает первый (по сортировке) неизвестный или неактивный товар
type UnknownProductError struct {
	ProductID string
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("unknown product %q", e.ProductID)
}

// Unwrap позволяет проверять ошибку через errors.Is(err, ErrUnknownProduct)
func (e *UnknownProductError) Unwrap() error {
	return ErrUnknownProduct
}

// PersistenceError оборачивает сбой хранилища. Операцию можно повторить.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is сопоставляет ошибку с ErrPersistence
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

func persistenceError(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// RateLimitError представляет ошибку превышения лимита запросов
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %s", e.RetryAfter)
}

// NewRateLimitError создает новую ошибку rate limit
func NewRateLimitError(retryAfter time.Duration) *RateLimitError {
	return &RateLimitError{RetryAfter: retryAfter}
}
