package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/avc/storefront-checkout/internal/domain"
)

// WalletService реализует domain.WalletService поверх ledger кредитов
type WalletService struct {
	creditRepo domain.CreditRepository
}

// NewWalletService создает новый WalletService
func NewWalletService(creditRepo domain.CreditRepository) *WalletService {
	return &WalletService{
		creditRepo: creditRepo,
	}
}

// GetBalance получает баланс кредитов пользователя
func (s *WalletService) GetBalance(ctx context.Context, userID string) (*domain.CreditBalance, error) {
	balance, err := s.creditRepo.GetBalance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("wallet service: failed to get balance for user %s: %w", userID, err)
	}

	return balance, nil
}

// GetHistory получает историю начислений и списаний пользователя
func (s *WalletService) GetHistory(ctx context.Context, userID string) ([]*domain.CreditEntry, error) {
	entries, err := s.creditRepo.GetHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("wallet service: failed to get history for user %s: %w", userID, err)
	}

	return entries, nil
}

// Spend списывает кредиты пользователя под ссылку orderRef
func (s *WalletService) Spend(ctx context.Context, userID, orderRef string, amount int64) error {
	orderRef = strings.TrimSpace(orderRef)
	if orderRef == "" {
		return fmt.Errorf("%w: empty order reference", ErrInvalidInput)
	}

	if amount <= 0 {
		return fmt.Errorf("%w: invalid spend amount %d", ErrInvalidInput, amount)
	}

	err := s.creditRepo.SpendWithLock(ctx, userID, orderRef, amount)
	if err != nil {
		// Не оборачиваем sentinel errors
		if errors.Is(err, domain.ErrInsufficientCredits) || errors.Is(err, domain.ErrDuplicateSpend) {
			return err
		}
		return fmt.Errorf("wallet service: failed to spend %d for user %s: %w", amount, userID, err)
	}

	return nil
}
