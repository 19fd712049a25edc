package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hassanzn2023/autoblog-sub000/internal/domain"
)

// Store is an in-memory implementation of the storage interface for testing.
type Store struct {
	mu sync.RWMutex

	apiKeys       map[string]*domain.APIKey
	providerKeys  map[string]*domain.ProviderKey
	creditRecords []*domain.CreditRecord
	usageRecords  []*domain.UsageRecord
	workspaces    map[string]*domain.Workspace
	subscriptions map[string]*domain.Subscription
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		apiKeys:       make(map[string]*domain.APIKey),
		providerKeys:  make(map[string]*domain.ProviderKey),
		workspaces:    make(map[string]*domain.Workspace),
		subscriptions: make(map[string]*domain.Subscription),
	}
}

func (s *Store) Close() error { return nil }

// ============================================
// Service API keys
// ============================================

func (s *Store) CreateAPIKey(ctx context.Context, key *domain.APIKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range s.apiKeys {
		if k.KeyHash == key.KeyHash {
			return domain.ErrAlreadyExists
		}
	}
	cp := *key
	s.apiKeys[key.ID] = &cp
	return nil
}

func (s *Store) GetAPIKeyByHash(ctx context.Context, keyHash string) (*domain.APIKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, k := range s.apiKeys {
		if k.KeyHash == keyHash {
			cp := *k
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) ListAPIKeys(ctx context.Context) ([]*domain.APIKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]*domain.APIKey, 0, len(s.apiKeys))
	for _, k := range s.apiKeys {
		cp := *k
		keys = append(keys, &cp)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].CreatedAt.Before(keys[j].CreatedAt) })
	return keys, nil
}

func (s *Store) DeleteAPIKey(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.apiKeys[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.apiKeys, id)
	return nil
}

func (s *Store) UpdateAPIKeyLastUsed(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if k, ok := s.apiKeys[id]; ok {
		now := time.Now()
		k.LastUsedAt = &now
	}
	return nil
}

func (s *Store) CountAPIKeys(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.apiKeys), nil
}

// ============================================
// Provider keys
// ============================================

func (s *Store) CreateProviderKey(ctx context.Context, key *domain.ProviderKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range s.providerKeys {
		if k.UserID == key.UserID && k.WorkspaceID == key.WorkspaceID && k.APIType == key.APIType {
			k.IsActive = false
		}
	}
	cp := *key
	s.providerKeys[key.ID] = &cp
	return nil
}

func (s *Store) GetActiveProviderKey(ctx context.Context, userID, workspaceID, apiType string) (*domain.ProviderKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *domain.ProviderKey
	for _, k := range s.providerKeys {
		if k.UserID == userID && k.WorkspaceID == workspaceID && k.APIType == apiType && k.IsActive {
			if latest == nil || k.CreatedAt.After(latest.CreatedAt) {
				latest = k
			}
		}
	}
	if latest == nil {
		return nil, domain.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (s *Store) ListProviderKeys(ctx context.Context, userID string) ([]*domain.ProviderKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := []*domain.ProviderKey{}
	for _, k := range s.providerKeys {
		if k.UserID == userID {
			cp := *k
			keys = append(keys, &cp)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].CreatedAt.Before(keys[j].CreatedAt) })
	return keys, nil
}

func (s *Store) DeleteProviderKey(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.providerKeys[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.providerKeys, id)
	return nil
}

func (s *Store) UpdateProviderKeyLastUsed(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if k, ok := s.providerKeys[id]; ok {
		now := time.Now()
		k.LastUsedAt = &now
	}
	return nil
}

// ============================================
// Credit ledger
// ============================================

// balanceLocked sums the ledger for a user. Callers must hold at least a
// read lock.
func (s *Store) balanceLocked(userID string) int {
	balance := 0
	for _, r := range s.creditRecords {
		if r.UserID != userID {
			continue
		}
		if r.TransactionType == domain.CreditUsed {
			balance -= r.CreditAmount
		} else {
			balance += r.CreditAmount
		}
	}
	return balance
}

func (s *Store) InsertCreditRecord(ctx context.Context, rec *domain.CreditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	s.creditRecords = append(s.creditRecords, &cp)
	return nil
}

func (s *Store) DebitCredits(ctx context.Context, rec *domain.CreditRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.balanceLocked(rec.UserID) < rec.CreditAmount {
		return false, nil
	}
	cp := *rec
	cp.TransactionType = domain.CreditUsed
	s.creditRecords = append(s.creditRecords, &cp)
	return true, nil
}

func (s *Store) CreditBalance(ctx context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balanceLocked(userID), nil
}

func (s *Store) ListCreditRecords(ctx context.Context, userID string) ([]*domain.CreditRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := []*domain.CreditRecord{}
	for _, r := range s.creditRecords {
		if r.UserID == userID {
			cp := *r
			recs = append(recs, &cp)
		}
	}
	return recs, nil
}

// ============================================
// Usage audit log
// ============================================

func (s *Store) InsertUsageRecord(ctx context.Context, rec *domain.UsageRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	s.usageRecords = append(s.usageRecords, &cp)
	return nil
}

func (s *Store) ListUsageRecords(ctx context.Context, userID string) ([]*domain.UsageRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := []*domain.UsageRecord{}
	for _, r := range s.usageRecords {
		if r.UserID == userID {
			cp := *r
			recs = append(recs, &cp)
		}
	}
	return recs, nil
}

// ============================================
// Workspaces
// ============================================

func (s *Store) CreateWorkspace(ctx context.Context, ws *domain.Workspace) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.workspaces[ws.ID]; ok {
		return domain.ErrAlreadyExists
	}
	cp := *ws
	s.workspaces[ws.ID] = &cp
	return nil
}

func (s *Store) GetWorkspace(ctx context.Context, id string) (*domain.Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ws, ok := s.workspaces[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *ws
	return &cp, nil
}

func (s *Store) ListWorkspacesByUser(ctx context.Context, userID string) ([]*domain.Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wss := []*domain.Workspace{}
	for _, ws := range s.workspaces {
		if ws.CreatedBy == userID {
			cp := *ws
			wss = append(wss, &cp)
		}
	}
	sort.Slice(wss, func(i, j int) bool { return wss[i].CreatedAt.Before(wss[j].CreatedAt) })
	return wss, nil
}

func (s *Store) UpdateWorkspace(ctx context.Context, ws *domain.Workspace) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.workspaces[ws.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *ws
	s.workspaces[ws.ID] = &cp
	return nil
}

func (s *Store) DeleteWorkspace(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.workspaces[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.workspaces, id)
	return nil
}

func (s *Store) CountWorkspacesByUser(ctx context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, ws := range s.workspaces {
		if ws.CreatedBy == userID {
			count++
		}
	}
	return count, nil
}

// ============================================
// Subscriptions
// ============================================

func (s *Store) CreateSubscription(ctx context.Context, sub *domain.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subscriptions[sub.ID]; ok {
		return domain.ErrAlreadyExists
	}
	cp := *sub
	s.subscriptions[sub.ID] = &cp
	return nil
}

func (s *Store) GetSubscription(ctx context.Context, id string) (*domain.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.subscriptions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

func (s *Store) ListSubscriptionsByUser(ctx context.Context, userID string) ([]*domain.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	subs := []*domain.Subscription{}
	for _, sub := range s.subscriptions {
		if sub.UserID == userID {
			cp := *sub
			subs = append(subs, &cp)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].StartsAt.Before(subs[j].StartsAt) })
	return subs, nil
}

func (s *Store) UpdateSubscriptionStatus(ctx context.Context, id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subscriptions[id]
	if !ok {
		return domain.ErrNotFound
	}
	sub.Status = status
	return nil
}

func (s *Store) DeleteSubscription(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subscriptions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.subscriptions, id)
	return nil
}
