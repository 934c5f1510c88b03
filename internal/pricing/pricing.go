// Package pricing содержит единственную реализацию расчета корзины.
// Пакет используется и оптимистичным превью корзины, и авторитетным серверным расчетом.
package pricing

import (
	"github.com/avc/storefront-checkout/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultVATPercent ставка НДС для не-кредитных позиций
const DefaultVATPercent = 20

var hundred = decimal.NewFromInt(100)

// Totals представляет результат расчета корзины
type Totals struct {
	Subtotal        decimal.Decimal
	Discount        decimal.Decimal
	VAT             decimal.Decimal
	Total           decimal.Decimal
	CreditsExpected int64
}

// Engine считает итоги корзины с заданной ставкой НДС
type Engine struct {
	vatRate decimal.Decimal
}

// NewEngine создает Engine. Ставка НДС задается в процентах.
func NewEngine(vatPercent decimal.Decimal) *Engine {
	if vatPercent.IsNegative() {
		vatPercent = decimal.Zero
	}
	return &Engine{vatRate: vatPercent.Div(hundred)}
}

// Default возвращает Engine со ставкой DefaultVATPercent
func Default() *Engine {
	return NewEngine(decimal.NewFromInt(DefaultVATPercent))
}

// Compute считает subtotal, скидку, НДС и итог.
// Промежуточные суммы не округляются, итог округляется до двух знаков.
func (e *Engine) Compute(items []domain.LineItem, discountPercent int) Totals {
	subtotal := decimal.Zero
	taxable := decimal.Zero
	var credits int64

	for _, item := range items {
		line := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)

		if item.Kind == domain.ItemKindCredit {
			if item.CreditAmount != nil {
				credits += *item.CreditAmount * int64(item.Quantity)
			}
			continue
		}
		taxable = taxable.Add(line)
	}

	discount := subtotal.Mul(decimal.NewFromInt(int64(clampPercent(discountPercent)))).Div(hundred)
	vat := taxable.Mul(e.vatRate)

	total := subtotal.Sub(discount).Add(vat)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Totals{
		Subtotal:        subtotal,
		Discount:        discount,
		VAT:             vat,
		Total:           total.Round(2),
		CreditsExpected: credits,
	}
}

// Compute считает итоги со ставкой НДС по умолчанию
func Compute(items []domain.LineItem, discountPercent int) Totals {
	return Default().Compute(items, discountPercent)
}

func clampPercent(p int) int {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}
