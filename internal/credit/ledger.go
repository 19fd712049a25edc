// Package credit implements the credit ledger: an append-only record set per
// user whose balance is always derived by summation.
package credit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hassanzn2023/autoblog-sub000/internal/domain"
	"github.com/hassanzn2023/autoblog-sub000/internal/storage"
)

// Ledger manages credit balances and the usage audit trail.
type Ledger struct {
	store  storage.Storage
	logger *slog.Logger
}

// NewLedger creates a new Ledger.
func NewLedger(store storage.Storage, logger *slog.Logger) *Ledger {
	return &Ledger{store: store, logger: logger}
}

// Balance returns the user's current credit balance.
func (l *Ledger) Balance(ctx context.Context, userID string) (int, error) {
	return l.store.CreditBalance(ctx, userID)
}

// HasEnough reports whether the user's balance covers the required amount.
// This is advisory only; Debit re-checks atomically.
func (l *Ledger) HasEnough(ctx context.Context, userID string, required int) (bool, error) {
	balance, err := l.store.CreditBalance(ctx, userID)
	if err != nil {
		return false, err
	}
	return balance >= required, nil
}

// Grant appends a positive ledger entry. transactionType must be "initial" or
// "purchased".
func (l *Ledger) Grant(ctx context.Context, userID, workspaceID string, amount int, transactionType string) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", domain.ErrInvalidInput)
	}
	if transactionType != domain.CreditInitial && transactionType != domain.CreditPurchased {
		return fmt.Errorf("%w: transaction type %q", domain.ErrInvalidInput, transactionType)
	}
	now := time.Now()
	return l.store.InsertCreditRecord(ctx, &domain.CreditRecord{
		ID:              uuid.New().String(),
		UserID:          userID,
		WorkspaceID:     workspaceID,
		CreditAmount:    amount,
		TransactionType: transactionType,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
}

// Debit atomically deducts cost from the user's balance and records the usage.
// Returns domain.ErrInsufficientCredits when the balance does not cover the
// cost; the ledger is left unchanged in that case.
func (l *Ledger) Debit(ctx context.Context, userID, workspaceID string, cost int, operation, apiType string) error {
	if cost <= 0 {
		return fmt.Errorf("%w: cost must be positive", domain.ErrInvalidInput)
	}

	now := time.Now()
	applied, err := l.store.DebitCredits(ctx, &domain.CreditRecord{
		ID:              uuid.New().String(),
		UserID:          userID,
		WorkspaceID:     workspaceID,
		CreditAmount:    cost,
		TransactionType: domain.CreditUsed,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return err
	}
	if !applied {
		return domain.ErrInsufficientCredits
	}

	if err := l.store.InsertUsageRecord(ctx, &domain.UsageRecord{
		ID:              uuid.New().String(),
		UserID:          userID,
		WorkspaceID:     workspaceID,
		APIType:         apiType,
		UsageAmount:     1,
		CreditsConsumed: cost,
		OperationType:   operation,
		CreatedAt:       now,
	}); err != nil {
		// The debit already happened; a lost audit row must not fail the
		// operation.
		l.logger.Warn("recording usage failed", "user_id", userID, "operation", operation, "error", err)
	}

	l.logger.Info("credits debited", "user_id", userID, "operation", operation, "cost", cost)
	return nil
}

// History returns all ledger entries for a user.
func (l *Ledger) History(ctx context.Context, userID string) ([]*domain.CreditRecord, error) {
	return l.store.ListCreditRecords(ctx, userID)
}

// Usage returns all usage audit entries for a user.
func (l *Ledger) Usage(ctx context.Context, userID string) ([]*domain.UsageRecord, error) {
	return l.store.ListUsageRecords(ctx, userID)
}
