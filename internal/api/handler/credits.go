package handler

import (
	"net/http"

	"github.com/hassanzn2023/autoblog-sub000/internal/credit"
	"github.com/hassanzn2023/autoblog-sub000/internal/domain"
	"github.com/hassanzn2023/autoblog-sub000/internal/validation"
)

// CreditsHandler handles the credit ledger endpoints.
type CreditsHandler struct {
	ledger *credit.Ledger
}

// NewCreditsHandler creates a new CreditsHandler.
func NewCreditsHandler(ledger *credit.Ledger) *CreditsHandler {
	return &CreditsHandler{ledger: ledger}
}

// Balance returns the user's current credit balance.
func (h *CreditsHandler) Balance(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	balance, err := h.ledger.Balance(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, &domain.BalanceResponse{UserID: userID, Balance: balance})
}

// History returns all ledger entries for a user.
func (h *CreditsHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	records, err := h.ledger.History(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, records)
}

// Grant adds credits to a user's ledger.
func (h *CreditsHandler) Grant(w http.ResponseWriter, r *http.Request) {
	var req domain.GrantCreditsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if errs := validation.ValidateGrant(&req); errs.HasErrors() {
		respondValidationErrors(w, errs)
		return
	}

	if err := h.ledger.Grant(r.Context(), req.UserID, req.WorkspaceID, req.Amount, req.TransactionType); err != nil {
		handleError(w, err)
		return
	}

	balance, err := h.ledger.Balance(r.Context(), req.UserID)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, &domain.BalanceResponse{UserID: req.UserID, Balance: balance})
}

// Usage returns the usage audit log for a user.
func (h *CreditsHandler) Usage(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	records, err := h.ledger.Usage(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, records)
}
