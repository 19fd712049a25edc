package storage

import (
	"context"

	"github.com/hassanzn2023/autoblog-sub000/internal/domain"
)

// Storage defines the interface for the storage layer.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Close closes the storage connection.
	Close() error

	// Service API keys
	CreateAPIKey(ctx context.Context, key *domain.APIKey) error
	GetAPIKeyByHash(ctx context.Context, keyHash string) (*domain.APIKey, error)
	ListAPIKeys(ctx context.Context) ([]*domain.APIKey, error)
	DeleteAPIKey(ctx context.Context, id string) error
	UpdateAPIKeyLastUsed(ctx context.Context, id string) error
	CountAPIKeys(ctx context.Context) (int, error)

	// Provider keys
	CreateProviderKey(ctx context.Context, key *domain.ProviderKey) error
	GetActiveProviderKey(ctx context.Context, userID, workspaceID, apiType string) (*domain.ProviderKey, error)
	ListProviderKeys(ctx context.Context, userID string) ([]*domain.ProviderKey, error)
	DeleteProviderKey(ctx context.Context, id string) error
	UpdateProviderKeyLastUsed(ctx context.Context, id string) error

	// Credit ledger. The ledger is append-only; the balance is always derived
	// by summing records. DebitCredits must be atomic: insert the "used"
	// record only if the current balance covers it, and report whether the
	// insert was applied.
	InsertCreditRecord(ctx context.Context, rec *domain.CreditRecord) error
	DebitCredits(ctx context.Context, rec *domain.CreditRecord) (applied bool, err error)
	CreditBalance(ctx context.Context, userID string) (int, error)
	ListCreditRecords(ctx context.Context, userID string) ([]*domain.CreditRecord, error)

	// Usage audit log
	InsertUsageRecord(ctx context.Context, rec *domain.UsageRecord) error
	ListUsageRecords(ctx context.Context, userID string) ([]*domain.UsageRecord, error)

	// Workspaces
	CreateWorkspace(ctx context.Context, ws *domain.Workspace) error
	GetWorkspace(ctx context.Context, id string) (*domain.Workspace, error)
	ListWorkspacesByUser(ctx context.Context, userID string) ([]*domain.Workspace, error)
	UpdateWorkspace(ctx context.Context, ws *domain.Workspace) error
	DeleteWorkspace(ctx context.Context, id string) error
	CountWorkspacesByUser(ctx context.Context, userID string) (int, error)

	// Subscriptions
	CreateSubscription(ctx context.Context, sub *domain.Subscription) error
	GetSubscription(ctx context.Context, id string) (*domain.Subscription, error)
	ListSubscriptionsByUser(ctx context.Context, userID string) ([]*domain.Subscription, error)
	UpdateSubscriptionStatus(ctx context.Context, id, status string) error
	DeleteSubscription(ctx context.Context, id string) error
}
