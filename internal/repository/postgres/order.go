package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/avc/storefront-checkout/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const selectOrderColumns = `SELECT id, user_id, status, items, subtotal::text, discount::text, vat::text, amount::text,
		currency, promo_code, credits_expected, external_ref, payment_provider, hash, created_at, updated_at
		 FROM orders`

// OrderRepository реализует domain.OrderRepository
type OrderRepository struct {
	db DBTX
}

// NewOrderRepository создает новый OrderRepository
func NewOrderRepository(db DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateOrder создает pending заказ и, при необходимости, фиксирует использование промокода
func (r *OrderRepository) CreateOrder(ctx context.Context, order *domain.Order, claimPromo bool) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("repository: failed to marshal items of order %s: %w", order.ID, err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repository: failed to begin transaction for order %s: %w", order.ID, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // Rollback после Commit безопасен

	err = tx.QueryRow(ctx,
		`INSERT INTO orders (id, user_id, status, items, subtotal, discount, vat, amount, currency,
		                     promo_code, credits_expected, external_ref, payment_provider, hash)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING created_at, updated_at`,
		order.ID, order.UserID, order.Status, items,
		order.Subtotal.String(), order.Discount.String(), order.VAT.String(), order.Amount.StringFixed(2),
		order.Currency, order.PromoCode, order.CreditsExpected, order.ExternalRef, order.PaymentProvider, order.Hash,
	).Scan(&order.CreatedAt, &order.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrOrderExists
		}
		return fmt.Errorf("repository: failed to create order %s: %w", order.ID, err)
	}

	if claimPromo && order.PromoCode != nil {
		if err := claimPromoUsage(ctx, tx, *order.PromoCode, order.UserID, order.ID); err != nil {
			return err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("repository: failed to commit order %s: %w", order.ID, err)
	}

	return nil
}

// GetOrderByID получает заказ по id
func (r *OrderRepository) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	order, err := scanOrder(r.db.QueryRow(ctx, selectOrderColumns+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to get order %s: %w", id, err)
	}

	return order, nil
}

// GetOrdersByUserID получает все заказы пользователя
func (r *OrderRepository) GetOrdersByUserID(ctx context.Context, userID string) ([]*domain.Order, error) {
	rows, err := r.db.Query(ctx,
		selectOrderColumns+` WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)

	if err != nil {
		return nil, fmt.Errorf("repository: failed to get orders for user %s: %w", userID, err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

// GetPendingOrders получает pending заказы, созданные раньше createdBefore
func (r *OrderRepository) GetPendingOrders(ctx context.Context, createdBefore time.Time, limit int) ([]*domain.Order, error) {
	rows, err := r.db.Query(ctx,
		selectOrderColumns+` WHERE status = $1 AND created_at < $2 ORDER BY created_at ASC LIMIT $3`,
		domain.OrderStatusPending, createdBefore, limit,
	)

	if err != nil {
		return nil, fmt.Errorf("repository: failed to get pending orders: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

// MarkPaid переводит заказ в paid и начисляет кредиты в одной транзакции
func (r *OrderRepository) MarkPaid(ctx context.Context, orderID string) (bool, domain.OrderStatus, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, "", fmt.Errorf("repository: failed to begin transaction for order %s: %w", orderID, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // Rollback после Commit безопасен

	var (
		userID  string
		status  domain.OrderStatus
		credits int64
	)
	// Блокируем строку заказа, параллельные захваты ждут здесь
	err = tx.QueryRow(ctx,
		`SELECT user_id, status, credits_expected
		 FROM orders
		 WHERE id = $1
		 FOR UPDATE`,
		orderID,
	).Scan(&userID, &status, &credits)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, "", domain.ErrOrderNotFound
		}
		return false, "", fmt.Errorf("repository: failed to lock order %s: %w", orderID, err)
	}

	if status != domain.OrderStatusPending {
		return false, status, nil
	}

	_, err = tx.Exec(ctx,
		`UPDATE orders
		 SET status = $1, updated_at = NOW()
		 WHERE id = $2`,
		domain.OrderStatusPaid, orderID,
	)
	if err != nil {
		return false, "", fmt.Errorf("repository: failed to mark order %s paid: %w", orderID, err)
	}

	if credits > 0 {
		if err := NewCreditRepository(tx).CreateEntry(ctx, userID, orderID, credits, domain.CreditEntryAccrual); err != nil {
			return false, "", err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return false, "", fmt.Errorf("repository: failed to commit payment of order %s: %w", orderID, err)
	}

	return true, domain.OrderStatusPaid, nil
}

// MarkClosed переводит pending заказ в failed или cancelled
func (r *OrderRepository) MarkClosed(ctx context.Context, orderID string, status domain.OrderStatus) (bool, domain.OrderStatus, error) {
	if status != domain.OrderStatusFailed && status != domain.OrderStatusCancelled {
		return false, "", fmt.Errorf("repository: invalid closing status %q", status)
	}

	var current domain.OrderStatus
	err := r.db.QueryRow(ctx,
		`UPDATE orders
		 SET status = $1, updated_at = NOW()
		 WHERE id = $2 AND status = $3
		 RETURNING status`,
		status, orderID, domain.OrderStatusPending,
	).Scan(&current)

	if err == nil {
		return true, current, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, "", fmt.Errorf("repository: failed to close order %s: %w", orderID, err)
	}

	// Заказ не pending: узнаем текущий статус
	err = r.db.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, orderID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, "", domain.ErrOrderNotFound
		}
		return false, "", fmt.Errorf("repository: failed to get status of order %s: %w", orderID, err)
	}

	return false, current, nil
}

func collectOrders(rows pgx.Rows) ([]*domain.Order, error) {
	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating orders: %w", err)
	}

	return orders, nil
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order                           domain.Order
		items                           []byte
		subtotal, discount, vat, amount string
	)

	err := row.Scan(
		&order.ID, &order.UserID, &order.Status, &items,
		&subtotal, &discount, &vat, &amount,
		&order.Currency, &order.PromoCode, &order.CreditsExpected, &order.ExternalRef,
		&order.PaymentProvider, &order.Hash, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(items, &order.Items); err != nil {
		return nil, fmt.Errorf("invalid items snapshot of order %s: %w", order.ID, err)
	}

	money := []struct {
		dst *decimal.Decimal
		raw string
	}{
		{&order.Subtotal, subtotal},
		{&order.Discount, discount},
		{&order.VAT, vat},
		{&order.Amount, amount},
	}
	for _, m := range money {
		if *m.dst, err = decimal.NewFromString(m.raw); err != nil {
			return nil, fmt.Errorf("invalid amount %q of order %s: %w", m.raw, order.ID, err)
		}
	}

	return &order, nil
}
