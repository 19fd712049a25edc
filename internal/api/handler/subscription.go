package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hassanzn2023/autoblog-sub000/internal/credit"
	"github.com/hassanzn2023/autoblog-sub000/internal/domain"
	"github.com/hassanzn2023/autoblog-sub000/internal/storage"
	"github.com/hassanzn2023/autoblog-sub000/internal/validation"
)

// SubscriptionHandler handles subscription endpoints.
type SubscriptionHandler struct {
	store  storage.Storage
	ledger *credit.Ledger
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(store storage.Storage, ledger *credit.Ledger) *SubscriptionHandler {
	return &SubscriptionHandler{store: store, ledger: ledger}
}

// Create starts a subscription and grants the plan's initial credits.
func (h *SubscriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateSubscriptionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.UserID == "" {
		respondError(w, http.StatusBadRequest, "userId is required")
		return
	}
	if err := validation.ValidatePlanType(req.PlanType); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now()
	expires := now.AddDate(0, 1, 0)
	sub := &domain.Subscription{
		ID:            generateID(),
		UserID:        req.UserID,
		PlanType:      req.PlanType,
		Status:        domain.SubscriptionActive,
		StartsAt:      now,
		ExpiresAt:     &expires,
		PaymentMethod: req.PaymentMethod,
		AutoRenewal:   req.AutoRenewal,
	}

	if err := h.store.CreateSubscription(r.Context(), sub); err != nil {
		handleError(w, err)
		return
	}

	// The subscription only exists together with its initial credits; if the
	// grant fails, take the subscription back out before reporting the error.
	if err := h.ledger.Grant(r.Context(), req.UserID, "", domain.PlanCredits[req.PlanType], domain.CreditInitial); err != nil {
		_ = h.store.DeleteSubscription(r.Context(), sub.ID)
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, sub)
}

// List lists a user's subscriptions.
func (h *SubscriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	subs, err := h.store.ListSubscriptionsByUser(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, subs)
}

// Cancel marks a subscription cancelled.
func (h *SubscriptionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.UpdateSubscriptionStatus(r.Context(), id, domain.SubscriptionCancelled); err != nil {
		handleError(w, err)
		return
	}

	sub, err := h.store.GetSubscription(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, sub)
}
