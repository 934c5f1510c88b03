package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avc/storefront-checkout/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreditRepository_CreateEntry(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCreditRepository(mock)
	ctx := context.Background()

	t.Run("Success - accrual", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO credit_ledger`).
			WithArgs("user-1", "order-1", int64(100), domain.CreditEntryAccrual).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.CreateEntry(ctx, "user-1", "order-1", 100, domain.CreditEntryAccrual)
		assert.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate accrual", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO credit_ledger`).
			WithArgs("user-1", "order-1", int64(100), domain.CreditEntryAccrual).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := repo.CreateEntry(ctx, "user-1", "order-1", 100, domain.CreditEntryAccrual)
		assert.ErrorIs(t, err, domain.ErrDuplicateAccrual)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate spend", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO credit_ledger`).
			WithArgs("user-1", "ref-1", int64(-10), domain.CreditEntrySpend).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := repo.CreateEntry(ctx, "user-1", "ref-1", -10, domain.CreditEntrySpend)
		assert.ErrorIs(t, err, domain.ErrDuplicateSpend)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO credit_ledger`).
			WithArgs("user-1", "order-1", int64(100), domain.CreditEntryAccrual).
			WillReturnError(errors.New("database error"))

		err := repo.CreateEntry(ctx, "user-1", "order-1", 100, domain.CreditEntryAccrual)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrDuplicateAccrual)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreditRepository_GetBalance(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCreditRepository(mock)
	ctx := context.Background()

	t.Run("Success - with balance", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"total_accrued", "total_spent"}).
			AddRow(int64(500), int64(200))

		mock.ExpectQuery(`SELECT`).
			WithArgs("user-1").
			WillReturnRows(rows)

		balance, err := repo.GetBalance(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, int64(300), balance.Current) // 500 - 200
		assert.Equal(t, int64(500), balance.Accrued)
		assert.Equal(t, int64(200), balance.Spent)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectQuery(`SELECT`).
			WithArgs("user-1").
			WillReturnError(errors.New("database error"))

		balance, err := repo.GetBalance(ctx, "user-1")
		assert.Error(t, err)
		assert.Nil(t, balance)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreditRepository_GetHistory(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCreditRepository(mock)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"id", "user_id", "order_id", "amount", "type", "created_at"}).
			AddRow(int64(2), "user-1", "ref-1", int64(-30), domain.CreditEntrySpend, time.Now()).
			AddRow(int64(1), "user-1", "order-1", int64(100), domain.CreditEntryAccrual, time.Now())

		mock.ExpectQuery(`SELECT id, user_id, order_id, amount, type, created_at FROM credit_ledger WHERE user_id`).
			WithArgs("user-1").
			WillReturnRows(rows)

		entries, err := repo.GetHistory(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, int64(-30), entries[0].Amount)
		assert.Equal(t, domain.CreditEntryAccrual, entries[1].Type)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"id", "user_id", "order_id", "amount", "type", "created_at"})

		mock.ExpectQuery(`SELECT id, user_id, order_id, amount, type, created_at FROM credit_ledger WHERE user_id`).
			WithArgs("user-2").
			WillReturnRows(rows)

		entries, err := repo.GetHistory(ctx, "user-2")
		require.NoError(t, err)
		assert.Empty(t, entries)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreditRepository_SpendWithLock(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCreditRepository(mock)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()

		mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
			WithArgs("user-1").
			WillReturnResult(pgxmock.NewResult("SELECT", 1))

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\)`).
			WithArgs("user-1").
			WillReturnRows(pgxmock.NewRows([]string{"balance"}).AddRow(int64(500)))

		mock.ExpectExec(`INSERT INTO credit_ledger`).
			WithArgs("user-1", "ref-1", int64(-100), domain.CreditEntrySpend).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		mock.ExpectCommit()

		err := repo.SpendWithLock(ctx, "user-1", "ref-1", 100)
		assert.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Insufficient credits", func(t *testing.T) {
		mock.ExpectBegin()

		mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
			WithArgs("user-1").
			WillReturnResult(pgxmock.NewResult("SELECT", 1))

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\)`).
			WithArgs("user-1").
			WillReturnRows(pgxmock.NewRows([]string{"balance"}).AddRow(int64(50)))

		mock.ExpectRollback()

		err := repo.SpendWithLock(ctx, "user-1", "ref-2", 100)
		assert.ErrorIs(t, err, domain.ErrInsufficientCredits)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Begin transaction error", func(t *testing.T) {
		mock.ExpectBegin().WillReturnError(errors.New("begin error"))

		err := repo.SpendWithLock(ctx, "user-1", "ref-3", 100)
		assert.Error(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Insert error", func(t *testing.T) {
		mock.ExpectBegin()

		mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
			WithArgs("user-1").
			WillReturnResult(pgxmock.NewResult("SELECT", 1))

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\)`).
			WithArgs("user-1").
			WillReturnRows(pgxmock.NewRows([]string{"balance"}).AddRow(int64(500)))

		mock.ExpectExec(`INSERT INTO credit_ledger`).
			WithArgs("user-1", "ref-4", int64(-100), domain.CreditEntrySpend).
			WillReturnError(errors.New("insert error"))

		mock.ExpectRollback()

		err := repo.SpendWithLock(ctx, "user-1", "ref-4", 100)
		assert.Error(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
