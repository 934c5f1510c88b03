package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/avc/storefront-checkout/internal/domain"
	"github.com/jackc/pgx/v5"
)

// PromoRepository реализует domain.PromoRepository
type PromoRepository struct {
	db DBTX
}

// NewPromoRepository создает новый PromoRepository
func NewPromoRepository(db DBTX) *PromoRepository {
	return &PromoRepository{db: db}
}

// GetPromoCode получает промокод по коду
func (r *PromoRepository) GetPromoCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	promo := &domain.PromoCode{}

	err := r.db.QueryRow(ctx,
		`SELECT code, percent, active, expires_at, usage_limit, used_count, per_user_limit 
		 FROM promo_codes 
		 WHERE code = $1`,
		code,
	).Scan(&promo.Code, &promo.Percent, &promo.Active, &promo.ExpiresAt, &promo.UsageLimit, &promo.UsedCount, &promo.PerUserLimit)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPromoNotFound
		}
		return nil, fmt.Errorf("repository: failed to get promo code %q: %w", code, err)
	}

	return promo, nil
}

// CountUserUsages считает применения промокода пользователем
func (r *PromoRepository) CountUserUsages(ctx context.Context, code, userID string) (int, error) {
	var count int

	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) 
		 FROM promo_usages 
		 WHERE code = $1 AND user_id = $2`,
		code, userID,
	).Scan(&count)

	if err != nil {
		return 0, fmt.Errorf("repository: failed to count usages of %q for user %s: %w", code, userID, err)
	}

	return count, nil
}

// claimPromoUsage атомарно проверяет лимиты и увеличивает used_count, затем пишет PromoUsage.
// Вызывается внутри транзакции создания заказа.
func claimPromoUsage(ctx context.Context, tx DBTX, code, userID, orderID string) error {
	// Подзапрос per_user_limit видит снимок statement, поэтому параллельные
	// применения кода одним пользователем сериализуются advisory lock по паре (code, user)
	_, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1 || ':' || $2))`, code, userID)
	if err != nil {
		return fmt.Errorf("repository: failed to acquire promo lock %q for user %s: %w", code, userID, err)
	}

	result, err := tx.Exec(ctx,
		`UPDATE promo_codes 
		 SET used_count = used_count + 1 
		 WHERE code = $1 
		   AND active 
		   AND (expires_at IS NULL OR expires_at > NOW()) 
		   AND (usage_limit IS NULL OR used_count < usage_limit) 
		   AND (per_user_limit IS NULL OR 
		        (SELECT COUNT(*) FROM promo_usages u WHERE u.code = $1 AND u.user_id = $2) < per_user_limit)`,
		code, userID,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to claim promo code %q: %w", code, err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrPromoExhausted
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO promo_usages (code, user_id, order_id) 
		 VALUES ($1, $2, $3)`,
		code, userID, orderID,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to record promo usage %q for order %s: %w", code, orderID, err)
	}

	return nil
}
