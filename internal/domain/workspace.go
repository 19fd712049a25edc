package domain

import "time"

// MaxWorkspacesPerUser is the per-user workspace cap.
const MaxWorkspacesPerUser = 3

// Workspace scopes provider keys, credits and content projects to an owner.
type Workspace struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedBy string    `json:"created_by" db:"created_by"`
	Settings  string    `json:"settings,omitempty" db:"settings"` // JSON blob, opaque to the server
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateWorkspaceRequest is the request body for creating a workspace.
type CreateWorkspaceRequest struct {
	Name   string `json:"name"`
	UserID string `json:"userId"`
}

// UpdateWorkspaceRequest is the request body for updating a workspace.
type UpdateWorkspaceRequest struct {
	Name     *string `json:"name,omitempty"`
	Settings *string `json:"settings,omitempty"`
}
