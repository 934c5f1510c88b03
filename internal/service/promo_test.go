package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avc/storefront-checkout/internal/domain"
	domainmocks "github.com/avc/storefront-checkout/internal/domain/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func intPtr(v int) *int { return &v }

func newTestPromoValidator(t *testing.T, now time.Time) (*PromoValidator, *domainmocks.PromoRepositoryMock) {
	repo := domainmocks.NewPromoRepositoryMock(t)
	v := NewPromoValidator(repo, zap.NewNop(), nil)
	v.now = func() time.Time { return now }
	return v, repo
}

func TestPromoValidator_Evaluate(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Not supplied", func(t *testing.T) {
		v, _ := newTestPromoValidator(t, now)

		decision := v.Evaluate(ctx, "   ", "user-1")
		assert.Equal(t, 0, decision.Percent)
		assert.Equal(t, PromoNotSupplied, decision.Reason)
		assert.False(t, decision.Applied())
	})

	t.Run("Not found", func(t *testing.T) {
		v, repo := newTestPromoValidator(t, now)
		repo.EXPECT().GetPromoCode(mock.Anything, "NOPE").Return(nil, domain.ErrPromoNotFound).Once()

		decision := v.Evaluate(ctx, "NOPE", "user-1")
		assert.Equal(t, 0, decision.Percent)
		assert.Equal(t, PromoNotFound, decision.Reason)
	})

	t.Run("Inactive", func(t *testing.T) {
		v, repo := newTestPromoValidator(t, now)
		repo.EXPECT().GetPromoCode(mock.Anything, "START10").
			Return(&domain.PromoCode{Code: "START10", Percent: 10, Active: false}, nil).Once()

		decision := v.Evaluate(ctx, "START10", "user-1")
		assert.Equal(t, PromoInactive, decision.Reason)
		assert.Equal(t, 0, decision.Percent)
	})

	t.Run("Expired", func(t *testing.T) {
		v, repo := newTestPromoValidator(t, now)
		expired := now.Add(-time.Minute)
		repo.EXPECT().GetPromoCode(mock.Anything, "START10").
			Return(&domain.PromoCode{Code: "START10", Percent: 10, Active: true, ExpiresAt: &expired}, nil).Once()

		decision := v.Evaluate(ctx, "START10", "user-1")
		assert.Equal(t, PromoExpired, decision.Reason)
	})

	t.Run("Expires exactly now", func(t *testing.T) {
		v, repo := newTestPromoValidator(t, now)
		repo.EXPECT().GetPromoCode(mock.Anything, "START10").
			Return(&domain.PromoCode{Code: "START10", Percent: 10, Active: true, ExpiresAt: &now}, nil).Once()

		decision := v.Evaluate(ctx, "START10", "user-1")
		assert.Equal(t, PromoExpired, decision.Reason)
	})

	t.Run("Usage limit reached", func(t *testing.T) {
		v, repo := newTestPromoValidator(t, now)
		repo.EXPECT().GetPromoCode(mock.Anything, "START10").
			Return(&domain.PromoCode{Code: "START10", Percent: 10, Active: true, UsageLimit: intPtr(5), UsedCount: 5}, nil).Once()

		decision := v.Evaluate(ctx, "START10", "user-1")
		assert.Equal(t, PromoExhausted, decision.Reason)
		assert.Equal(t, 0, decision.Percent)
	})

	t.Run("One usage left", func(t *testing.T) {
		v, repo := newTestPromoValidator(t, now)
		future := now.Add(time.Hour)
		repo.EXPECT().GetPromoCode(mock.Anything, "START10").
			Return(&domain.PromoCode{Code: "START10", Percent: 10, Active: true, ExpiresAt: &future, UsageLimit: intPtr(5), UsedCount: 4}, nil).Once()

		decision := v.Evaluate(ctx, " START10 ", "user-1")
		assert.Equal(t, PromoApplied, decision.Reason)
		assert.Equal(t, 10, decision.Percent)
		assert.Equal(t, "START10", decision.Code)
		assert.True(t, decision.Applied())
	})

	t.Run("Per user limit reached", func(t *testing.T) {
		v, repo := newTestPromoValidator(t, now)
		repo.EXPECT().GetPromoCode(mock.Anything, "ONCE").
			Return(&domain.PromoCode{Code: "ONCE", Percent: 15, Active: true, PerUserLimit: intPtr(1)}, nil).Once()
		repo.EXPECT().CountUserUsages(mock.Anything, "ONCE", "user-1").Return(1, nil).Once()

		decision := v.Evaluate(ctx, "ONCE", "user-1")
		assert.Equal(t, PromoUserLimit, decision.Reason)
		assert.Equal(t, 0, decision.Percent)
	})

	t.Run("Per user limit not reached", func(t *testing.T) {
		v, repo := newTestPromoValidator(t, now)
		repo.EXPECT().GetPromoCode(mock.Anything, "ONCE").
			Return(&domain.PromoCode{Code: "ONCE", Percent: 15, Active: true, PerUserLimit: intPtr(1)}, nil).Once()
		repo.EXPECT().CountUserUsages(mock.Anything, "ONCE", "user-2").Return(0, nil).Once()

		decision := v.Evaluate(ctx, "ONCE", "user-2")
		assert.Equal(t, 15, decision.Percent)
	})

	t.Run("Store error degrades to no discount", func(t *testing.T) {
		v, repo := newTestPromoValidator(t, now)
		repo.EXPECT().GetPromoCode(mock.Anything, "START10").Return(nil, errors.New("connection refused")).Once()

		decision := v.Evaluate(ctx, "START10", "user-1")
		assert.Equal(t, PromoStoreFailure, decision.Reason)
		assert.Equal(t, 0, decision.Percent)
	})

	t.Run("Usage count error degrades to no discount", func(t *testing.T) {
		v, repo := newTestPromoValidator(t, now)
		repo.EXPECT().GetPromoCode(mock.Anything, "ONCE").
			Return(&domain.PromoCode{Code: "ONCE", Percent: 15, Active: true, PerUserLimit: intPtr(1)}, nil).Once()
		repo.EXPECT().CountUserUsages(mock.Anything, "ONCE", "user-1").Return(0, errors.New("timeout")).Once()

		decision := v.Evaluate(ctx, "ONCE", "user-1")
		assert.Equal(t, PromoStoreFailure, decision.Reason)
	})

	t.Run("Percent above hundred is clamped", func(t *testing.T) {
		v, repo := newTestPromoValidator(t, now)
		repo.EXPECT().GetPromoCode(mock.Anything, "FREE").
			Return(&domain.PromoCode{Code: "FREE", Percent: 150, Active: true}, nil).Once()

		decision := v.Evaluate(ctx, "FREE", "user-1")
		assert.Equal(t, 100, decision.Percent)
	})

	t.Run("Zero percent", func(t *testing.T) {
		v, repo := newTestPromoValidator(t, now)
		repo.EXPECT().GetPromoCode(mock.Anything, "ZERO").
			Return(&domain.PromoCode{Code: "ZERO", Percent: 0, Active: true}, nil).Once()

		decision := v.Evaluate(ctx, "ZERO", "user-1")
		assert.Equal(t, PromoZeroPercent, decision.Reason)
		assert.False(t, decision.Applied())
	})
}
