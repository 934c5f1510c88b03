package postgres

import (
	"context"
	"fmt"

	"github.com/avc/storefront-checkout/internal/domain"
)

// CreditRepository реализует domain.CreditRepository.
// Баланс не хранится, а вычисляется суммой записей ledger.
type CreditRepository struct {
	db DBTX
}

// NewCreditRepository создает новый CreditRepository
func NewCreditRepository(db DBTX) *CreditRepository {
	return &CreditRepository{db: db}
}

// CreateEntry добавляет запись в ledger (начисление или списание)
func (r *CreditRepository) CreateEntry(ctx context.Context, userID, orderID string, amount int64, entryType domain.CreditEntryType) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO credit_ledger (user_id, order_id, amount, type) 
		 VALUES ($1, $2, $3, $4)`,
		userID, orderID, amount, entryType,
	)

	if err != nil {
		// Повторная запись по тому же заказу (unique constraint violation)
		if isUniqueViolation(err) {
			if entryType == domain.CreditEntryAccrual {
				return domain.ErrDuplicateAccrual
			}
			return domain.ErrDuplicateSpend
		}
		return fmt.Errorf("repository: failed to create credit entry for user %s: %w", userID, err)
	}

	return nil
}

// GetBalance получает баланс пользователя через группировку записей
func (r *CreditRepository) GetBalance(ctx context.Context, userID string) (*domain.CreditBalance, error) {
	balance := &domain.CreditBalance{}

	err := r.db.QueryRow(ctx,
		`SELECT 
			COALESCE(SUM(CASE WHEN amount > 0 THEN amount ELSE 0 END), 0)::bigint as total_accrued,
			COALESCE(SUM(CASE WHEN amount < 0 THEN -amount ELSE 0 END), 0)::bigint as total_spent
		 FROM credit_ledger 
		 WHERE user_id = $1`,
		userID,
	).Scan(&balance.Accrued, &balance.Spent)

	if err != nil {
		return nil, fmt.Errorf("repository: failed to get credit balance for user %s: %w", userID, err)
	}

	balance.Current = balance.Accrued - balance.Spent

	return balance, nil
}

// GetHistory получает историю движения кредитов пользователя
func (r *CreditRepository) GetHistory(ctx context.Context, userID string) ([]*domain.CreditEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, order_id, amount, type, created_at 
		 FROM credit_ledger 
		 WHERE user_id = $1 
		 ORDER BY created_at DESC`,
		userID,
	)

	if err != nil {
		return nil, fmt.Errorf("repository: failed to get credit history for user %s: %w", userID, err)
	}
	defer rows.Close()

	var entries []*domain.CreditEntry
	for rows.Next() {
		entry := &domain.CreditEntry{}
		err := rows.Scan(&entry.ID, &entry.UserID, &entry.OrderID, &entry.Amount, &entry.Type, &entry.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan credit entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating credit history: %w", err)
	}

	return entries, nil
}

// SpendWithLock списывает кредиты с блокировкой для обеспечения атомарности
func (r *CreditRepository) SpendWithLock(ctx context.Context, userID, orderRef string, amount int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repository: failed to begin transaction for user %s: %w", userID, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // Rollback после Commit безопасен

	// Advisory lock по пользователю сериализует параллельные списания
	_, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, userID)
	if err != nil {
		return fmt.Errorf("repository: failed to acquire lock for user %s: %w", userID, err)
	}

	var balance int64
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)::bigint 
		FROM credit_ledger 
		WHERE user_id = $1`, userID).Scan(&balance)

	if err != nil {
		return fmt.Errorf("repository: failed to get credit balance for user %s: %w", userID, err)
	}

	if balance < amount {
		return domain.ErrInsufficientCredits
	}

	if err := NewCreditRepository(tx).CreateEntry(ctx, userID, orderRef, -amount, domain.CreditEntrySpend); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("repository: failed to commit spend transaction: %w", err)
	}

	return nil
}
