package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/avc/storefront-checkout/internal/domain"
)

// HTTPProvider реализует domain.PaymentProvider поверх HTTP API платежного шлюза
type HTTPProvider struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPProvider создает новый HTTPProvider
func NewHTTPProvider(baseURL string) *HTTPProvider {
	return &HTTPProvider{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Name возвращает имя провайдера
func (p *HTTPProvider) Name() string {
	return "http"
}

type createPaymentResponse struct {
	CheckoutURL string `json:"checkoutUrl"`
}

type paymentStatusResponse struct {
	ExternalRef string                `json:"externalRef"`
	Status      domain.PaymentOutcome `json:"status"`
}

// CheckoutURL регистрирует платеж и возвращает адрес страницы оплаты
func (p *HTTPProvider) CheckoutURL(ctx context.Context, handle domain.CheckoutHandle) (string, error) {
	body, err := json.Marshal(handle)
	if err != nil {
		return "", fmt.Errorf("payment provider: failed to marshal handle: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/payments", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("payment provider: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// Повтор с тем же ключом не создает второй платеж на стороне шлюза
	req.Header.Set("Idempotency-Key", handle.ExternalRef)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("payment provider: failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		var created createPaymentResponse
		if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
			return "", fmt.Errorf("payment provider: failed to decode response: %w", err)
		}
		if created.CheckoutURL == "" {
			return "", fmt.Errorf("payment provider: empty checkout url")
		}
		return created.CheckoutURL, nil

	case http.StatusTooManyRequests:
		return "", rateLimitFromResponse(resp)

	default:
		return "", fmt.Errorf("payment provider: unexpected status code: %d", resp.StatusCode)
	}
}

// PaymentOutcome получает состояние платежа по externalRef
func (p *HTTPProvider) PaymentOutcome(ctx context.Context, externalRef string) (domain.PaymentOutcome, error) {
	endpoint := fmt.Sprintf("%s/api/payments/%s", p.baseURL, url.PathEscape(externalRef))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("payment provider: failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("payment provider: failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var status paymentStatusResponse
		if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
			return "", fmt.Errorf("payment provider: failed to decode response: %w", err)
		}
		switch status.Status {
		case domain.PaymentOutcomePaid, domain.PaymentOutcomeFailed, domain.PaymentOutcomePending:
			return status.Status, nil
		default:
			return "", fmt.Errorf("payment provider: unknown payment status %q", status.Status)
		}

	case http.StatusNoContent:
		// Платеж еще не зарегистрирован в шлюзе
		return domain.PaymentOutcomePending, nil

	case http.StatusTooManyRequests:
		return "", rateLimitFromResponse(resp)

	default:
		return "", fmt.Errorf("payment provider: unexpected status code: %d", resp.StatusCode)
	}
}

func rateLimitFromResponse(resp *http.Response) *RateLimitError {
	seconds, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
	return NewRateLimitError(time.Duration(seconds) * time.Second)
}
