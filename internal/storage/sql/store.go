package sql

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/hassanzn2023/autoblog-sub000/internal/domain"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// isUniqueViolation checks if an error is a UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	// SQLite
	if strings.Contains(errStr, "UNIQUE constraint failed") {
		return true
	}
	// PostgreSQL
	if strings.Contains(errStr, "duplicate key value violates unique constraint") {
		return true
	}
	return false
}

// wrapUniqueError converts UNIQUE violations to domain.ErrAlreadyExists.
func wrapUniqueError(err error) error {
	if isUniqueViolation(err) {
		return domain.ErrAlreadyExists
	}
	return err
}

// Store implements the storage.Storage interface using SQL.
type Store struct {
	db     *sqlx.DB
	driver string
}

// New creates a new SQL store and runs pending migrations.
func New(driver, dsn string) (*Store, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect(driver); err != nil {
		return nil, fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.Up(db.DB, "migrations"); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db, driver: driver}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ============================================
// Service API keys
// ============================================

func (s *Store) CreateAPIKey(ctx context.Context, key *domain.APIKey) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO api_keys (id, name, key_hash, key_prefix, created_at, last_used_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		key.ID, key.Name, key.KeyHash, key.KeyPrefix, key.CreatedAt, key.LastUsedAt)
	return wrapUniqueError(err)
}

func (s *Store) GetAPIKeyByHash(ctx context.Context, keyHash string) (*domain.APIKey, error) {
	var key domain.APIKey
	err := s.db.GetContext(ctx, &key,
		`SELECT id, name, key_hash, key_prefix, created_at, last_used_at
		 FROM api_keys WHERE key_hash = $1`, keyHash)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return &key, err
}

func (s *Store) ListAPIKeys(ctx context.Context) ([]*domain.APIKey, error) {
	keys := []*domain.APIKey{}
	err := s.db.SelectContext(ctx, &keys,
		`SELECT id, name, key_hash, key_prefix, created_at, last_used_at
		 FROM api_keys ORDER BY created_at`)
	return keys, err
}

func (s *Store) DeleteAPIKey(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM api_keys WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) UpdateAPIKeyLastUsed(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE api_keys SET last_used_at = CURRENT_TIMESTAMP WHERE id = $1`, id)
	return err
}

func (s *Store) CountAPIKeys(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM api_keys`)
	return count, err
}

// ============================================
// Provider keys
// ============================================

// CreateProviderKey inserts a new provider key and deactivates any previously
// active key for the same (user, workspace, api_type).
func (s *Store) CreateProviderKey(ctx context.Context, key *domain.ProviderKey) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE provider_keys SET is_active = FALSE
		 WHERE user_id = $1 AND workspace_id = $2 AND api_type = $3 AND is_active`,
		key.UserID, key.WorkspaceID, key.APIType)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO provider_keys (id, user_id, workspace_id, api_type, api_key, is_active, created_at, last_used_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		key.ID, key.UserID, key.WorkspaceID, key.APIType, key.APIKey, key.IsActive, key.CreatedAt, key.LastUsedAt)
	if err != nil {
		return wrapUniqueError(err)
	}

	return tx.Commit()
}

func (s *Store) GetActiveProviderKey(ctx context.Context, userID, workspaceID, apiType string) (*domain.ProviderKey, error) {
	var key domain.ProviderKey
	err := s.db.GetContext(ctx, &key,
		`SELECT id, user_id, workspace_id, api_type, api_key, is_active, created_at, last_used_at
		 FROM provider_keys
		 WHERE user_id = $1 AND workspace_id = $2 AND api_type = $3 AND is_active
		 ORDER BY created_at DESC LIMIT 1`,
		userID, workspaceID, apiType)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return &key, err
}

func (s *Store) ListProviderKeys(ctx context.Context, userID string) ([]*domain.ProviderKey, error) {
	keys := []*domain.ProviderKey{}
	err := s.db.SelectContext(ctx, &keys,
		`SELECT id, user_id, workspace_id, api_type, api_key, is_active, created_at, last_used_at
		 FROM provider_keys WHERE user_id = $1 ORDER BY created_at`, userID)
	return keys, err
}

func (s *Store) DeleteProviderKey(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM provider_keys WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) UpdateProviderKeyLastUsed(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE provider_keys SET last_used_at = CURRENT_TIMESTAMP WHERE id = $1`, id)
	return err
}

// ============================================
// Credit ledger
// ============================================

const balanceExpr = `COALESCE(SUM(CASE WHEN transaction_type = 'used' THEN -credit_amount ELSE credit_amount END), 0)`

func (s *Store) InsertCreditRecord(ctx context.Context, rec *domain.CreditRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO credit_records (id, user_id, workspace_id, credit_amount, transaction_type, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.UserID, rec.WorkspaceID, rec.CreditAmount, rec.TransactionType, rec.CreatedAt, rec.UpdatedAt)
	return wrapUniqueError(err)
}

const debitStmt = `INSERT INTO credit_records (id, user_id, workspace_id, credit_amount, transaction_type, created_at, updated_at)
	 SELECT $1, $2, $3, $4, 'used', $5, $6
	 WHERE (SELECT ` + balanceExpr + ` FROM credit_records WHERE user_id = $2) >= $4`

// DebitCredits inserts a "used" record only if the user's current balance
// covers it. On sqlite a single guarded statement is enough: there is one
// writer at a time. On postgres each statement reads its own snapshot, so two
// concurrent debits could both pass the balance check and drive the ledger
// negative; a per-user advisory lock held for the transaction serializes them.
func (s *Store) DebitCredits(ctx context.Context, rec *domain.CreditRecord) (bool, error) {
	if s.driver != "postgres" {
		res, err := s.db.ExecContext(ctx, debitStmt,
			rec.ID, rec.UserID, rec.WorkspaceID, rec.CreditAmount, rec.CreatedAt, rec.UpdatedAt)
		if err != nil {
			return false, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return false, err
		}
		return n == 1, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, rec.UserID); err != nil {
		return false, err
	}

	res, err := tx.ExecContext(ctx, debitStmt,
		rec.ID, rec.UserID, rec.WorkspaceID, rec.CreditAmount, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *Store) CreditBalance(ctx context.Context, userID string) (int, error) {
	var balance int
	err := s.db.GetContext(ctx, &balance,
		`SELECT `+balanceExpr+` FROM credit_records WHERE user_id = $1`, userID)
	return balance, err
}

func (s *Store) ListCreditRecords(ctx context.Context, userID string) ([]*domain.CreditRecord, error) {
	recs := []*domain.CreditRecord{}
	err := s.db.SelectContext(ctx, &recs,
		`SELECT id, user_id, COALESCE(workspace_id, '') AS workspace_id, credit_amount, transaction_type, created_at, updated_at
		 FROM credit_records WHERE user_id = $1 ORDER BY created_at`, userID)
	return recs, err
}

// ============================================
// Usage audit log
// ============================================

func (s *Store) InsertUsageRecord(ctx context.Context, rec *domain.UsageRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO api_usage_records (id, user_id, workspace_id, api_type, usage_amount, credits_consumed, operation_type, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.UserID, rec.WorkspaceID, rec.APIType, rec.UsageAmount, rec.CreditsConsumed, rec.OperationType, rec.CreatedAt)
	return wrapUniqueError(err)
}

func (s *Store) ListUsageRecords(ctx context.Context, userID string) ([]*domain.UsageRecord, error) {
	recs := []*domain.UsageRecord{}
	err := s.db.SelectContext(ctx, &recs,
		`SELECT id, user_id, workspace_id, api_type, usage_amount, credits_consumed, operation_type, created_at
		 FROM api_usage_records WHERE user_id = $1 ORDER BY created_at`, userID)
	return recs, err
}

// ============================================
// Workspaces
// ============================================

func (s *Store) CreateWorkspace(ctx context.Context, ws *domain.Workspace) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO workspaces (id, name, created_by, settings, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		ws.ID, ws.Name, ws.CreatedBy, ws.Settings, ws.CreatedAt, ws.UpdatedAt)
	return wrapUniqueError(err)
}

func (s *Store) GetWorkspace(ctx context.Context, id string) (*domain.Workspace, error) {
	var ws domain.Workspace
	err := s.db.GetContext(ctx, &ws,
		`SELECT id, name, created_by, settings, created_at, updated_at
		 FROM workspaces WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return &ws, err
}

func (s *Store) ListWorkspacesByUser(ctx context.Context, userID string) ([]*domain.Workspace, error) {
	wss := []*domain.Workspace{}
	err := s.db.SelectContext(ctx, &wss,
		`SELECT id, name, created_by, settings, created_at, updated_at
		 FROM workspaces WHERE created_by = $1 ORDER BY created_at`, userID)
	return wss, err
}

func (s *Store) UpdateWorkspace(ctx context.Context, ws *domain.Workspace) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE workspaces SET name = $1, settings = $2, updated_at = $3 WHERE id = $4`,
		ws.Name, ws.Settings, ws.UpdatedAt, ws.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteWorkspace(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM workspaces WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) CountWorkspacesByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM workspaces WHERE created_by = $1`, userID)
	return count, err
}

// ============================================
// Subscriptions
// ============================================

func (s *Store) CreateSubscription(ctx context.Context, sub *domain.Subscription) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO subscriptions (id, user_id, plan_type, status, starts_at, expires_at, payment_method, auto_renewal)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		sub.ID, sub.UserID, sub.PlanType, sub.Status, sub.StartsAt, sub.ExpiresAt, sub.PaymentMethod, sub.AutoRenewal)
	return wrapUniqueError(err)
}

func (s *Store) GetSubscription(ctx context.Context, id string) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := s.db.GetContext(ctx, &sub,
		`SELECT id, user_id, plan_type, status, starts_at, expires_at, payment_method, auto_renewal
		 FROM subscriptions WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return &sub, err
}

func (s *Store) ListSubscriptionsByUser(ctx context.Context, userID string) ([]*domain.Subscription, error) {
	subs := []*domain.Subscription{}
	err := s.db.SelectContext(ctx, &subs,
		`SELECT id, user_id, plan_type, status, starts_at, expires_at, payment_method, auto_renewal
		 FROM subscriptions WHERE user_id = $1 ORDER BY starts_at`, userID)
	return subs, err
}

func (s *Store) UpdateSubscriptionStatus(ctx context.Context, id, status string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE subscriptions SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteSubscription(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
