package seo_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hassanzn2023/autoblog-sub000/internal/credit"
	"github.com/hassanzn2023/autoblog-sub000/internal/domain"
	"github.com/hassanzn2023/autoblog-sub000/internal/llm"
	"github.com/hassanzn2023/autoblog-sub000/internal/seo"
	"github.com/hassanzn2023/autoblog-sub000/internal/storage/memory"
)

// stubCompleter returns a canned response and records the key it was called
// with.
type stubCompleter struct {
	response string
	err      error
	calls    int
	lastKey  string
}

func (s *stubCompleter) Complete(ctx context.Context, apiKey string, req llm.Request) (string, error) {
	s.calls++
	s.lastKey = apiKey
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

type fixture struct {
	store     *memory.Store
	ledger    *credit.Ledger
	completer *stubCompleter
	keywords  *seo.KeywordService
	analyzer  *seo.Analyzer
}

func newFixture(t *testing.T, response string, completerErr error) *fixture {
	t.Helper()
	store := memory.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ledger := credit.NewLedger(store, logger)
	completer := &stubCompleter{response: response, err: completerErr}
	return &fixture{
		store:     store,
		ledger:    ledger,
		completer: completer,
		keywords:  seo.NewKeywordService(store, ledger, completer, "server-key", logger),
		analyzer:  seo.NewAnalyzer(store, ledger, completer, "server-key", logger),
	}
}

func (f *fixture) fund(t *testing.T, userID string, amount int) {
	t.Helper()
	require.NoError(t, f.ledger.Grant(context.Background(), userID, "ws1", amount, domain.CreditInitial))
}

func TestSuggest_HappyPath(t *testing.T) {
	f := newFixture(t, `{"keywords": ["tomato care", "home gardening", "watering schedule"]}`, nil)
	f.fund(t, "user1", 20)

	resp, err := f.keywords.Suggest(context.Background(), &domain.KeywordsRequest{
		Content:     "<p>A long article about growing tomatoes at home.</p>",
		Count:       2,
		UserID:      "user1",
		WorkspaceID: "ws1",
	})
	require.NoError(t, err)

	assert.Len(t, resp.Keywords, 2, "count caps the suggestions")
	assert.Equal(t, "tomato care", resp.Keywords[0].Text)
	assert.NotEmpty(t, resp.Keywords[0].ID)
	assert.False(t, resp.Recovered)

	balance, _ := f.ledger.Balance(context.Background(), "user1")
	assert.Equal(t, 20-seo.CostKeywords, balance)
}

func TestSuggest_RecoveredOutput(t *testing.T) {
	f := newFixture(t, "tomato care, home gardening", nil)
	f.fund(t, "user1", 20)

	resp, err := f.keywords.Suggest(context.Background(), &domain.KeywordsRequest{
		Content:     "content about gardens",
		UserID:      "user1",
		WorkspaceID: "ws1",
	})
	require.NoError(t, err)

	assert.True(t, resp.Recovered)
	assert.NotEmpty(t, resp.Warning)
	assert.Len(t, resp.Keywords, 2)
}

func TestSuggest_InsufficientCredits(t *testing.T) {
	f := newFixture(t, `{"keywords": ["a"]}`, nil)
	f.fund(t, "user1", seo.CostKeywords-1)

	_, err := f.keywords.Suggest(context.Background(), &domain.KeywordsRequest{
		Content:     "content",
		UserID:      "user1",
		WorkspaceID: "ws1",
	})
	require.ErrorIs(t, err, domain.ErrInsufficientCredits)
	assert.Zero(t, f.completer.calls, "model must not be called when the debit is refused")
}

func TestSuggest_UsesStoredProviderKey(t *testing.T) {
	f := newFixture(t, `{"keywords": ["a"]}`, nil)
	f.fund(t, "user1", 20)
	require.NoError(t, f.store.CreateProviderKey(context.Background(), &domain.ProviderKey{
		ID:          "pk1",
		UserID:      "user1",
		WorkspaceID: "ws1",
		APIType:     domain.ProviderOpenAI,
		APIKey:      "sk-user-own-key",
		IsActive:    true,
		CreatedAt:   time.Now(),
	}))

	_, err := f.keywords.Suggest(context.Background(), &domain.KeywordsRequest{
		Content:     "content",
		UserID:      "user1",
		WorkspaceID: "ws1",
	})
	require.NoError(t, err)
	assert.Equal(t, "sk-user-own-key", f.completer.lastKey)
}

func TestSuggest_FallsBackToServerKey(t *testing.T) {
	f := newFixture(t, `{"keywords": ["a"]}`, nil)
	f.fund(t, "user1", 20)

	_, err := f.keywords.Suggest(context.Background(), &domain.KeywordsRequest{
		Content:     "content",
		UserID:      "user1",
		WorkspaceID: "ws1",
	})
	require.NoError(t, err)
	assert.Equal(t, "server-key", f.completer.lastKey)
}

func TestSuggest_MissingInput(t *testing.T) {
	f := newFixture(t, `{"keywords": ["a"]}`, nil)

	_, err := f.keywords.Suggest(context.Background(), &domain.KeywordsRequest{
		Content: "content",
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput, "missing userId/workspaceId")

	_, err = f.keywords.Suggest(context.Background(), &domain.KeywordsRequest{
		UserID:      "user1",
		WorkspaceID: "ws1",
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput, "missing content")
}

func TestSuggestSecondary_RequiresPrimary(t *testing.T) {
	f := newFixture(t, `{"keywords": ["a"]}`, nil)

	_, err := f.keywords.SuggestSecondary(context.Background(), &domain.SecondaryKeywordsRequest{
		Content:     "content",
		UserID:      "user1",
		WorkspaceID: "ws1",
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSuggestSecondary_CheaperCost(t *testing.T) {
	f := newFixture(t, `{"keywords": ["related one", "related two"]}`, nil)
	f.fund(t, "user1", 20)

	_, err := f.keywords.SuggestSecondary(context.Background(), &domain.SecondaryKeywordsRequest{
		PrimaryKeyword: "gardening",
		Content:        "content about gardens",
		UserID:         "user1",
		WorkspaceID:    "ws1",
	})
	require.NoError(t, err)

	balance, _ := f.ledger.Balance(context.Background(), "user1")
	assert.Equal(t, 20-seo.CostSecondaryKeywords, balance)
}

func TestAnalyze_ModelPath(t *testing.T) {
	f := newFixture(t, `{"overallScore": 73, "categories": [{"name": "Keywords", "score": 60, "issues": []}], "summary": "decent"}`, nil)
	f.fund(t, "user1", 20)

	result, err := f.analyzer.Analyze(context.Background(), &domain.AnalyzeRequest{
		Content:     "<p>some content</p>",
		UserID:      "user1",
		WorkspaceID: "ws1",
	})
	require.NoError(t, err)
	assert.Equal(t, 73, result.OverallScore)
	assert.False(t, result.RawResponse)

	balance, _ := f.ledger.Balance(context.Background(), "user1")
	assert.Equal(t, 20-seo.CostAnalysis, balance)
}

func TestAnalyze_AnonymousUsesHeuristic(t *testing.T) {
	f := newFixture(t, "", errors.New("must not be called"))

	result, err := f.analyzer.Analyze(context.Background(), &domain.AnalyzeRequest{
		Content: "<p>short content</p>",
	})
	require.NoError(t, err)
	assert.Zero(t, f.completer.calls)
	assert.GreaterOrEqual(t, result.OverallScore, 0)
	assert.NotEmpty(t, result.Categories)
}

func TestAnalyze_ModelFailureFallsBackToHeuristic(t *testing.T) {
	f := newFixture(t, "", domain.ErrUpstream)
	f.fund(t, "user1", 20)

	result, err := f.analyzer.Analyze(context.Background(), &domain.AnalyzeRequest{
		Content:     "<p>short content</p>",
		UserID:      "user1",
		WorkspaceID: "ws1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Categories)

	// The debit happened before the model call and stays.
	balance, _ := f.ledger.Balance(context.Background(), "user1")
	assert.Equal(t, 20-seo.CostAnalysis, balance)
}

func TestAnalyze_InsufficientCredits(t *testing.T) {
	f := newFixture(t, `{"overallScore": 1, "categories": [], "summary": ""}`, nil)
	f.fund(t, "user1", seo.CostAnalysis-1)

	_, err := f.analyzer.Analyze(context.Background(), &domain.AnalyzeRequest{
		Content:     "content",
		UserID:      "user1",
		WorkspaceID: "ws1",
	})
	require.ErrorIs(t, err, domain.ErrInsufficientCredits)
}
