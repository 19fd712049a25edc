package handler

import (
	"net/http"

	"github.com/hassanzn2023/autoblog-sub000/internal/domain"
	"github.com/hassanzn2023/autoblog-sub000/internal/seo"
)

// KeywordsHandler handles keyword suggestion endpoints.
type KeywordsHandler struct {
	service *seo.KeywordService
}

// NewKeywordsHandler creates a new KeywordsHandler.
func NewKeywordsHandler(service *seo.KeywordService) *KeywordsHandler {
	return &KeywordsHandler{service: service}
}

// Suggest generates primary keyword suggestions.
func (h *KeywordsHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req domain.KeywordsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.service.Suggest(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// SuggestSecondary generates keyword suggestions related to a primary keyword.
func (h *KeywordsHandler) SuggestSecondary(w http.ResponseWriter, r *http.Request) {
	var req domain.SecondaryKeywordsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.service.SuggestSecondary(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
