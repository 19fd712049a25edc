package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hassanzn2023/autoblog-sub000/internal/domain"
	"github.com/hassanzn2023/autoblog-sub000/internal/storage"
	"github.com/hassanzn2023/autoblog-sub000/internal/validation"
)

// WorkspaceHandler handles workspace endpoints.
type WorkspaceHandler struct {
	store storage.Storage
}

// NewWorkspaceHandler creates a new WorkspaceHandler.
func NewWorkspaceHandler(store storage.Storage) *WorkspaceHandler {
	return &WorkspaceHandler{store: store}
}

// Create creates a workspace, enforcing the per-user cap.
func (h *WorkspaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateWorkspaceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.UserID == "" {
		respondError(w, http.StatusBadRequest, "userId is required")
		return
	}
	if err := validation.ValidateName(req.Name); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	count, err := h.store.CountWorkspacesByUser(r.Context(), req.UserID)
	if err != nil {
		handleError(w, err)
		return
	}
	if count >= domain.MaxWorkspacesPerUser {
		handleError(w, domain.ErrWorkspaceLimit)
		return
	}

	now := time.Now()
	ws := &domain.Workspace{
		ID:        generateID(),
		Name:      req.Name,
		CreatedBy: req.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.store.CreateWorkspace(r.Context(), ws); err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, ws)
}

// List lists a user's workspaces.
func (h *WorkspaceHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	wss, err := h.store.ListWorkspacesByUser(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, wss)
}

// Get returns one workspace.
func (h *WorkspaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	ws, err := h.store.GetWorkspace(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ws)
}

// Update updates a workspace's name and settings.
func (h *WorkspaceHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateWorkspaceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ws, err := h.store.GetWorkspace(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, err)
		return
	}

	if req.Name != nil {
		if err := validation.ValidateName(*req.Name); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		ws.Name = *req.Name
	}
	if req.Settings != nil {
		ws.Settings = *req.Settings
	}
	ws.UpdatedAt = time.Now()

	if err := h.store.UpdateWorkspace(r.Context(), ws); err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ws)
}

// Delete removes a workspace.
func (h *WorkspaceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteWorkspace(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
