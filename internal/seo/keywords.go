package seo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hassanzn2023/autoblog-sub000/internal/credit"
	"github.com/hassanzn2023/autoblog-sub000/internal/domain"
	"github.com/hassanzn2023/autoblog-sub000/internal/llm"
	"github.com/hassanzn2023/autoblog-sub000/internal/storage"
)

// Credit costs per operation.
const (
	CostKeywords          = 5
	CostSecondaryKeywords = 3
	CostAnalysis          = 10
)

// Operation names written to the usage audit log.
const (
	OpKeywords          = "generate_keywords"
	OpSecondaryKeywords = "generate_secondary_keywords"
	OpAnalysis          = "analyze_seo_content"
)

const (
	defaultKeywordCount = 10
	maxKeywordCount     = 20
)

// KeywordService suggests SEO keywords for content via the LLM.
type KeywordService struct {
	keys      keyResolver
	ledger    *credit.Ledger
	completer llm.Completer
	logger    *slog.Logger
}

// NewKeywordService creates a new KeywordService. fallbackAPIKey is the
// server-side OpenAI key used when the user has none stored.
func NewKeywordService(store storage.Storage, ledger *credit.Ledger, completer llm.Completer, fallbackAPIKey string, logger *slog.Logger) *KeywordService {
	return &KeywordService{
		keys:      keyResolver{store: store, fallbackAPIKey: fallbackAPIKey},
		ledger:    ledger,
		completer: completer,
		logger:    logger,
	}
}

// Suggest generates primary keyword suggestions for the content.
func (s *KeywordService) Suggest(ctx context.Context, req *domain.KeywordsRequest) (*domain.KeywordsResponse, error) {
	count := clampCount(req.Count)
	content := Truncate(StripTags(req.Content), keywordContentBudget)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", domain.ErrInvalidInput)
	}
	prompt := buildKeywordPrompt(content, count, req.Note)
	return s.generate(ctx, req.UserID, req.WorkspaceID, prompt, count, OpKeywords, CostKeywords)
}

// SuggestSecondary generates keyword suggestions related to an already chosen
// primary keyword.
func (s *KeywordService) SuggestSecondary(ctx context.Context, req *domain.SecondaryKeywordsRequest) (*domain.KeywordsResponse, error) {
	if req.PrimaryKeyword == "" {
		return nil, fmt.Errorf("%w: primaryKeyword is required", domain.ErrInvalidInput)
	}
	count := clampCount(req.Count)
	content := Truncate(StripTags(req.Content), keywordContentBudget)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", domain.ErrInvalidInput)
	}
	prompt := buildSecondaryKeywordPrompt(req.PrimaryKeyword, content, count, req.Note)
	return s.generate(ctx, req.UserID, req.WorkspaceID, prompt, count, OpSecondaryKeywords, CostSecondaryKeywords)
}

func (s *KeywordService) generate(ctx context.Context, userID, workspaceID, prompt string, count int, operation string, cost int) (*domain.KeywordsResponse, error) {
	if userID == "" || workspaceID == "" {
		return nil, fmt.Errorf("%w: userId and workspaceId are required", domain.ErrInvalidInput)
	}

	if ContainsArabic(prompt) {
		s.logger.Info("arabic content detected", "operation", operation, "user_id", userID)
	}

	apiKey, err := s.keys.resolve(ctx, userID, workspaceID)
	if err != nil {
		return nil, err
	}

	// Debit before the model call. A failed call after a successful debit
	// stays debited; the usage record is the audit trail either way.
	if err := s.ledger.Debit(ctx, userID, workspaceID, cost, operation, domain.ProviderOpenAI); err != nil {
		return nil, err
	}

	raw, err := s.completer.Complete(ctx, apiKey, llm.Request{
		SystemPrompt: keywordSystemPrompt,
		UserPrompt:   prompt,
		Temperature:  0.7,
		MaxTokens:    500,
		JSONOnly:     true,
	})
	if err != nil {
		return nil, err
	}

	parsed, err := parseKeywordResponse(raw)
	if err != nil {
		return nil, err
	}
	if parsed.Status == StatusRecovered {
		s.logger.Warn("keyword response recovered from malformed output", "operation", operation, "user_id", userID)
	}

	suggestions := make([]domain.KeywordSuggestion, 0, count)
	for _, text := range parsed.Keywords {
		if text == "" {
			continue
		}
		suggestions = append(suggestions, domain.KeywordSuggestion{
			ID:   uuid.New().String(),
			Text: text,
		})
		if len(suggestions) == count {
			break
		}
	}

	return &domain.KeywordsResponse{
		Keywords:  suggestions,
		Recovered: parsed.Status == StatusRecovered,
		Warning:   parsed.Warning,
	}, nil
}

func clampCount(count int) int {
	if count <= 0 {
		return defaultKeywordCount
	}
	if count > maxKeywordCount {
		return maxKeywordCount
	}
	return count
}
