package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hassanzn2023/autoblog-sub000/internal/domain"
	"github.com/hassanzn2023/autoblog-sub000/internal/storage"
	"github.com/hassanzn2023/autoblog-sub000/internal/validation"
)

// ProviderKeyHandler handles per-user provider API key endpoints.
type ProviderKeyHandler struct {
	store storage.Storage
}

// NewProviderKeyHandler creates a new ProviderKeyHandler.
func NewProviderKeyHandler(store storage.Storage) *ProviderKeyHandler {
	return &ProviderKeyHandler{store: store}
}

// Create stores a provider key for a user within a workspace. Any previously
// active key for the same (user, workspace, api_type) is deactivated.
func (h *ProviderKeyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateProviderKeyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.UserID == "" || req.WorkspaceID == "" {
		respondError(w, http.StatusBadRequest, "userId and workspaceId are required")
		return
	}
	if err := validation.ValidateProviderType(req.APIType); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.APIKey == "" {
		respondError(w, http.StatusBadRequest, "apiKey is required")
		return
	}

	key := &domain.ProviderKey{
		ID:          generateID(),
		UserID:      req.UserID,
		WorkspaceID: req.WorkspaceID,
		APIType:     req.APIType,
		APIKey:      req.APIKey,
		IsActive:    true,
		CreatedAt:   time.Now(),
	}

	if err := h.store.CreateProviderKey(r.Context(), key); err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, key)
}

// List lists a user's provider keys. Key material is never serialized.
func (h *ProviderKeyHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	keys, err := h.store.ListProviderKeys(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, keys)
}

// Delete removes a provider key.
func (h *ProviderKeyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := h.store.DeleteProviderKey(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
