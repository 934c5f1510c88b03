package pricing

import (
	"testing"

	"github.com/avc/storefront-checkout/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func int64Ptr(v int64) *int64 { return &v }

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func sampleCart() []domain.LineItem {
	return []domain.LineItem{
		{ID: "A", Name: "Item A", UnitPrice: decimal.NewFromInt(10), Quantity: 2, Kind: domain.ItemKindPhysical, Currency: domain.CurrencyEUR},
		{ID: "B", Name: "Item B", UnitPrice: decimal.NewFromInt(5), Quantity: 1, Kind: domain.ItemKindCredit, CreditAmount: int64Ptr(100), Currency: domain.CurrencyEUR},
	}
}

func TestCompute_NoPromo(t *testing.T) {
	totals := Compute(sampleCart(), 0)

	assertDecimal(t, "25", totals.Subtotal)
	assertDecimal(t, "0", totals.Discount)
	assertDecimal(t, "4", totals.VAT) // 20% от 20, кредитная позиция без НДС
	assertDecimal(t, "29", totals.Total)
	assert.Equal(t, int64(100), totals.CreditsExpected)
}

func TestCompute_WithPromo(t *testing.T) {
	totals := Compute(sampleCart(), 10)

	assertDecimal(t, "2.5", totals.Discount)
	assertDecimal(t, "26.5", totals.Total)
}

func TestCompute_TotalIdentity(t *testing.T) {
	items := []domain.LineItem{
		{ID: "x", UnitPrice: decimal.RequireFromString("19.99"), Quantity: 3, Kind: domain.ItemKindPhysical},
		{ID: "y", UnitPrice: decimal.RequireFromString("0.33"), Quantity: 7, Kind: domain.ItemKindService},
		{ID: "z", UnitPrice: decimal.RequireFromString("4.10"), Quantity: 2, Kind: domain.ItemKindCredit, CreditAmount: int64Ptr(50)},
	}

	for percent := 0; percent <= 100; percent += 7 {
		totals := Compute(items, percent)

		expected := decimal.Max(decimal.Zero, totals.Subtotal.Sub(totals.Discount).Add(totals.VAT)).Round(2)
		assertDecimal(t, expected.String(), totals.Total)
		assert.False(t, totals.Total.IsNegative())
		assert.Equal(t, int64(100), totals.CreditsExpected)
	}
}

func TestCompute_NonNegative(t *testing.T) {
	items := []domain.LineItem{
		{ID: "c", UnitPrice: decimal.NewFromInt(10), Quantity: 1, Kind: domain.ItemKindCredit, CreditAmount: int64Ptr(10)},
	}

	totals := Compute(items, 100)
	assertDecimal(t, "0", totals.Total)

	// Процент вне диапазона приводится к [0, 100]
	totals = Compute(items, 250)
	assertDecimal(t, "10", totals.Discount)
	assertDecimal(t, "0", totals.Total)

	totals = Compute(items, -5)
	assertDecimal(t, "0", totals.Discount)
	assertDecimal(t, "10", totals.Total)
}

func TestCompute_RoundsOnlyTotal(t *testing.T) {
	items := []domain.LineItem{
		{ID: "a", UnitPrice: decimal.RequireFromString("0.015"), Quantity: 1, Kind: domain.ItemKindCredit},
		{ID: "b", UnitPrice: decimal.RequireFromString("0.015"), Quantity: 1, Kind: domain.ItemKindCredit},
	}

	totals := Compute(items, 0)
	assertDecimal(t, "0.03", totals.Subtotal)
	assertDecimal(t, "0.03", totals.Total)

	totals = Compute(items, 50)
	assertDecimal(t, "0.015", totals.Discount)
	assertDecimal(t, "0.02", totals.Total)
}

func TestCompute_EmptyCart(t *testing.T) {
	totals := Compute(nil, 10)

	assertDecimal(t, "0", totals.Subtotal)
	assertDecimal(t, "0", totals.Total)
	assert.Zero(t, totals.CreditsExpected)
}

func TestNewEngine_CustomVAT(t *testing.T) {
	engine := NewEngine(decimal.NewFromInt(10))
	totals := engine.Compute(sampleCart(), 0)

	assertDecimal(t, "2", totals.VAT)
	assertDecimal(t, "27", totals.Total)

	engine = NewEngine(decimal.NewFromInt(-1))
	totals = engine.Compute(sampleCart(), 0)
	assertDecimal(t, "0", totals.VAT)
}
