package seo

import (
	"context"
	"errors"

	"github.com/hassanzn2023/autoblog-sub000/internal/domain"
	"github.com/hassanzn2023/autoblog-sub000/internal/storage"
)

// keyResolver picks the OpenAI key for a model call: the user's active stored
// provider key wins, otherwise the server-configured fallback. Shared by the
// keyword service and the analyzer so the fallback policy cannot drift.
type keyResolver struct {
	store          storage.Storage
	fallbackAPIKey string
}

func (r keyResolver) resolve(ctx context.Context, userID, workspaceID string) (string, error) {
	key, err := r.store.GetActiveProviderKey(ctx, userID, workspaceID, domain.ProviderOpenAI)
	if err == nil {
		go func() {
			_ = r.store.UpdateProviderKeyLastUsed(context.Background(), key.ID)
		}()
		return key.APIKey, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}
	if r.fallbackAPIKey != "" {
		return r.fallbackAPIKey, nil
	}
	return "", domain.ErrNoProviderKey
}
