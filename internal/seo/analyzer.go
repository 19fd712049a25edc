package seo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hassanzn2023/autoblog-sub000/internal/credit"
	"github.com/hassanzn2023/autoblog-sub000/internal/domain"
	"github.com/hassanzn2023/autoblog-sub000/internal/llm"
	"github.com/hassanzn2023/autoblog-sub000/internal/storage"
)

// Analyzer produces SEO reports for content. The model path is primary; the
// deterministic heuristic scorer covers anonymous callers, missing provider
// keys and upstream failures.
type Analyzer struct {
	keys      keyResolver
	ledger    *credit.Ledger
	completer llm.Completer
	logger    *slog.Logger
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer(store storage.Storage, ledger *credit.Ledger, completer llm.Completer, fallbackAPIKey string, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		keys:      keyResolver{store: store, fallbackAPIKey: fallbackAPIKey},
		ledger:    ledger,
		completer: completer,
		logger:    logger,
	}
}

// Analyze scores the content and reports issues. Insufficient credits is
// returned as-is; every other model-path failure degrades to the heuristic
// scorer rather than failing the request.
func (a *Analyzer) Analyze(ctx context.Context, req *domain.AnalyzeRequest) (*domain.SEOAnalysisResult, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: content is required", domain.ErrInvalidInput)
	}

	// Anonymous callers get the free heuristic path.
	if req.UserID == "" || req.WorkspaceID == "" {
		return HeuristicAnalyze(req.Content, req.PrimaryKeyword), nil
	}

	apiKey, err := a.keys.resolve(ctx, req.UserID, req.WorkspaceID)
	if err != nil {
		if errors.Is(err, domain.ErrNoProviderKey) {
			a.logger.Info("no provider key, using heuristic analysis", "user_id", req.UserID)
			return HeuristicAnalyze(req.Content, req.PrimaryKeyword), nil
		}
		return nil, err
	}

	if err := a.ledger.Debit(ctx, req.UserID, req.WorkspaceID, CostAnalysis, OpAnalysis, domain.ProviderOpenAI); err != nil {
		return nil, err
	}

	content := Truncate(StripTags(req.Content), analysisContentBudget)
	arabic := ContainsArabic(content) || ContainsArabic(req.PrimaryKeyword) ||
		ContainsArabic(strings.Join(req.SecondaryKeywords, " "))

	raw, err := a.completer.Complete(ctx, apiKey, llm.Request{
		SystemPrompt: analysisSystemPrompt,
		UserPrompt:   buildAnalysisPrompt(content, req.PrimaryKeyword, req.SecondaryKeywords, arabic),
		Temperature:  0.5,
		MaxTokens:    2000,
		JSONOnly:     true,
	})
	if err != nil {
		a.logger.Warn("analysis model call failed, using heuristic analysis", "user_id", req.UserID, "error", err)
		return HeuristicAnalyze(req.Content, req.PrimaryKeyword), nil
	}

	result, status := parseAnalysisResponse(raw)
	if status == StatusRecovered {
		a.logger.Warn("analysis response recovered from malformed output", "user_id", req.UserID, "raw_response", result.RawResponse)
	}
	return result, nil
}
