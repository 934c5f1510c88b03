package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/avc/storefront-checkout/internal/domain"
	"github.com/avc/storefront-checkout/internal/metrics"
	"go.uber.org/zap"
)

// PromoReason описывает, почему промокод дал или не дал скидку
type PromoReason string

const (
	PromoApplied      PromoReason = "applied"
	PromoNotSupplied  PromoReason = "not_supplied"
	PromoNotFound     PromoReason = "not_found"
	PromoInactive     PromoReason = "inactive"
	PromoExpired      PromoReason = "expired"
	PromoExhausted    PromoReason = "exhausted"
	PromoUserLimit    PromoReason = "per_user_limit"
	PromoZeroPercent  PromoReason = "zero_percent"
	PromoStoreFailure PromoReason = "store_error"
)

// PromoDecision результат проверки промокода
type PromoDecision struct {
	// Code нормализованный код, пустой если код не передан
	Code    string
	Percent int
	Reason  PromoReason
}

// Applied сообщает, что промокод дает ненулевую скидку
func (d PromoDecision) Applied() bool {
	return d.Percent > 0
}

// PromoValidator решает, дает ли промокод скидку. Никогда не возвращает ошибку:
// любой провал проверки дает процент 0.
type PromoValidator struct {
	promoRepo domain.PromoRepository
	logger    *zap.Logger
	metrics   *metrics.CheckoutMetrics
	now       func() time.Time
}

// NewPromoValidator создает новый PromoValidator
func NewPromoValidator(promoRepo domain.PromoRepository, logger *zap.Logger, m *metrics.CheckoutMetrics) *PromoValidator {
	return &PromoValidator{
		promoRepo: promoRepo,
		logger:    logger,
		metrics:   m,
		now:       time.Now,
	}
}

// Evaluate проверяет промокод для пользователя
func (v *PromoValidator) Evaluate(ctx context.Context, code, userID string) PromoDecision {
	decision := v.evaluate(ctx, strings.TrimSpace(code), userID)

	v.metrics.RecordPromoEvaluated(string(decision.Reason))
	if decision.Reason != PromoApplied && decision.Reason != PromoNotSupplied {
		v.logger.Info("promo code rejected",
			zap.String("code", decision.Code),
			zap.String("user_id", userID),
			zap.String("reason", string(decision.Reason)),
		)
	}

	return decision
}

func (v *PromoValidator) evaluate(ctx context.Context, code, userID string) PromoDecision {
	if code == "" {
		return PromoDecision{Reason: PromoNotSupplied}
	}

	rejected := func(reason PromoReason) PromoDecision {
		return PromoDecision{Code: code, Reason: reason}
	}

	promo, err := v.promoRepo.GetPromoCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrPromoNotFound) {
			return rejected(PromoNotFound)
		}
		v.logger.Warn("failed to read promo code", zap.String("code", code), zap.Error(err))
		return rejected(PromoStoreFailure)
	}

	if !promo.Active {
		return rejected(PromoInactive)
	}

	// Граница expires_at совпадает с условием атомарного захвата (expires_at > NOW())
	if promo.ExpiresAt != nil && !promo.ExpiresAt.After(v.now()) {
		return rejected(PromoExpired)
	}

	if promo.UsageLimit != nil && promo.UsedCount >= *promo.UsageLimit {
		return rejected(PromoExhausted)
	}

	if promo.PerUserLimit != nil {
		used, err := v.promoRepo.CountUserUsages(ctx, promo.Code, userID)
		if err != nil {
			v.logger.Warn("failed to count promo usages",
				zap.String("code", code),
				zap.String("user_id", userID),
				zap.Error(err),
			)
			return rejected(PromoStoreFailure)
		}
		if used >= *promo.PerUserLimit {
			return rejected(PromoUserLimit)
		}
	}

	if promo.Percent <= 0 {
		return rejected(PromoZeroPercent)
	}

	percent := promo.Percent
	if percent > 100 {
		percent = 100
	}

	return PromoDecision{Code: promo.Code, Percent: percent, Reason: PromoApplied}
}
