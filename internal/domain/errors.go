package domain

import "errors"

// Ошибки каталога
var (
	ErrProductNotFound = errors.New("product not found")
)

// Ошибки промокодов
var (
	ErrPromoNotFound  = errors.New("promo code not found")
	ErrPromoExhausted = errors.New("promo code usage limit reached")
)

// Ошибки заказов
var (
	ErrOrderExists   = errors.New("order already exists")
	ErrOrderNotFound = errors.New("order not found")
)

// Ошибки кошелька кредитов
var (
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrDuplicateAccrual    = errors.New("accrual already exists for this order")
	ErrDuplicateSpend      = errors.New("spend already exists for this reference")
)

// Ошибки корзины
var (
	ErrCartNotFound = errors.New("cart not found")
)
