package service

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/avc/storefront-checkout/internal/domain"
)

// MockProvider платежный провайдер для разработки: checkout URL ведет на
// локальную страницу-заглушку, а исход платежа задается явно
type MockProvider struct {
	baseURL        string
	defaultOutcome domain.PaymentOutcome

	mu       sync.RWMutex
	outcomes map[string]domain.PaymentOutcome
}

// NewMockProvider создает новый MockProvider. Пустой defaultOutcome означает pending:
// без явной настройки заказы не оплачиваются.
func NewMockProvider(baseURL string, defaultOutcome domain.PaymentOutcome) *MockProvider {
	if defaultOutcome == "" {
		defaultOutcome = domain.PaymentOutcomePending
	}
	return &MockProvider{
		baseURL:        strings.TrimRight(baseURL, "/"),
		defaultOutcome: defaultOutcome,
		outcomes:       make(map[string]domain.PaymentOutcome),
	}
}

// Name возвращает имя провайдера
func (p *MockProvider) Name() string {
	return "mock"
}

// CheckoutURL строит адрес страницы-заглушки с параметрами заказа
func (p *MockProvider) CheckoutURL(_ context.Context, handle domain.CheckoutHandle) (string, error) {
	query := url.Values{}
	query.Set("order", handle.OrderID)
	query.Set("ref", handle.ExternalRef)
	query.Set("amount", handle.Amount.StringFixed(2))
	query.Set("currency", handle.Currency)

	return p.baseURL + "/mock-checkout?" + query.Encode(), nil
}

// PaymentOutcome возвращает заданный исход платежа или исход по умолчанию
func (p *MockProvider) PaymentOutcome(_ context.Context, externalRef string) (domain.PaymentOutcome, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if outcome, ok := p.outcomes[externalRef]; ok {
		return outcome, nil
	}
	return p.defaultOutcome, nil
}

// SetOutcome задает исход платежа для externalRef
func (p *MockProvider) SetOutcome(externalRef string, outcome domain.PaymentOutcome) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.outcomes[externalRef] = outcome
}
