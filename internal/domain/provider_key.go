package domain

import "time"

// Provider API types that can be stored per user/workspace.
const (
	ProviderOpenAI     = "openai"
	ProviderGoogleLens = "google_lens"
)

// ProviderKey is a third-party API credential stored for a user within a
// workspace. Only one active key per (user, workspace, api_type) is expected;
// adding a new one deactivates the previous.
type ProviderKey struct {
	ID          string     `json:"id" db:"id"`
	UserID      string     `json:"user_id" db:"user_id"`
	WorkspaceID string     `json:"workspace_id" db:"workspace_id"`
	APIType     string     `json:"api_type" db:"api_type"`
	APIKey      string     `json:"-" db:"api_key"` // Never serialized back out
	IsActive    bool       `json:"is_active" db:"is_active"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty" db:"last_used_at"`
}

// CreateProviderKeyRequest is the request body for storing a provider key.
type CreateProviderKeyRequest struct {
	UserID      string `json:"userId"`
	WorkspaceID string `json:"workspaceId"`
	APIType     string `json:"apiType"`
	APIKey      string `json:"apiKey"`
}

// ValidProviderType reports whether t is a known provider api_type.
func ValidProviderType(t string) bool {
	return t == ProviderOpenAI || t == ProviderGoogleLens
}
