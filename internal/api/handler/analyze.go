package handler

import (
	"net/http"

	"github.com/hassanzn2023/autoblog-sub000/internal/domain"
	"github.com/hassanzn2023/autoblog-sub000/internal/seo"
)

// AnalyzeHandler handles SEO content analysis.
type AnalyzeHandler struct {
	analyzer *seo.Analyzer
}

// NewAnalyzeHandler creates a new AnalyzeHandler.
func NewAnalyzeHandler(analyzer *seo.Analyzer) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: analyzer}
}

// Analyze scores content for SEO and reports issues.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req domain.AnalyzeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.analyzer.Analyze(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
