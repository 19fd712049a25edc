package handler

import (
	"net/http"

	"github.com/hassanzn2023/autoblog-sub000/internal/domain"
	"github.com/hassanzn2023/autoblog-sub000/internal/extract"
	"github.com/hassanzn2023/autoblog-sub000/internal/validation"
)

// ExtractHandler handles URL content extraction.
type ExtractHandler struct {
	extractor *extract.Extractor
}

// NewExtractHandler creates a new ExtractHandler.
func NewExtractHandler(extractor *extract.Extractor) *ExtractHandler {
	return &ExtractHandler{extractor: extractor}
}

// Extract fetches a URL and returns its readable content.
func (h *ExtractHandler) Extract(w http.ResponseWriter, r *http.Request) {
	var req domain.ExtractRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validation.ValidateURL(req.URL); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.extractor.Extract(r.Context(), req.URL)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
