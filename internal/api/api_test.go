package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/hassanzn2023/autoblog-sub000/internal/api"
	"github.com/hassanzn2023/autoblog-sub000/internal/config"
	"github.com/hassanzn2023/autoblog-sub000/internal/credit"
	"github.com/hassanzn2023/autoblog-sub000/internal/domain"
	"github.com/hassanzn2023/autoblog-sub000/internal/extract"
	"github.com/hassanzn2023/autoblog-sub000/internal/llm"
	"github.com/hassanzn2023/autoblog-sub000/internal/seo"
	"github.com/hassanzn2023/autoblog-sub000/internal/storage"
	"github.com/hassanzn2023/autoblog-sub000/internal/storage/memory"
)

// stubCompleter returns a canned model response.
type stubCompleter struct {
	response string
}

func (s *stubCompleter) Complete(ctx context.Context, apiKey string, req llm.Request) (string, error) {
	return s.response, nil
}

// testServer creates a test server with in-memory storage.
type testServer struct {
	handler      http.Handler
	store        storage.Storage
	ledger       *credit.Ledger
	bootstrapKey string
}

func newTestServer(modelResponse string) *testServer {
	return newTestServerWithStore(memory.New(), modelResponse)
}

func newTestServerWithStore(store storage.Storage, modelResponse string) *testServer {
	bootstrapKey := "test-bootstrap-key"
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	completer := &stubCompleter{response: modelResponse}
	ledger := credit.NewLedger(store, logger)
	extractor := extract.New(config.ExtractConfig{
		Timeout:      5 * time.Second,
		MaxBodyBytes: 1 << 20,
		UserAgent:    "test-agent",
	}, logger)

	handler := api.NewRouter(store, &api.Services{
		Extractor: extractor,
		Keywords:  seo.NewKeywordService(store, ledger, completer, "server-key", logger),
		Analyzer:  seo.NewAnalyzer(store, ledger, completer, "server-key", logger),
		Ledger:    ledger,
	}, bootstrapKey)

	return &testServer{
		handler:      handler,
		store:        store,
		ledger:       ledger,
		bootstrapKey: bootstrapKey,
	}
}

func (ts *testServer) request(method, path string, body any, apiKey string) *httptest.ResponseRecorder {
	var reqBody io.Reader
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewReader(jsonBytes)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer("")

	rr := ts.request("GET", "/health", nil, "")

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}

	var resp map[string]string
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	if resp["status"] != "ok" {
		t.Errorf("Expected status ok, got %s", resp["status"])
	}
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer("")

	// Request without auth header
	rr := ts.request("GET", "/api/v1/keys", nil, "")
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rr.Code)
	}

	// Request with invalid auth header format
	req := httptest.NewRequest("GET", "/api/v1/keys", nil)
	req.Header.Set("Authorization", "Basic invalid")
	rr2 := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr2, req)
	if rr2.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rr2.Code)
	}

	// Bootstrap key works while no real keys exist
	rr = ts.request("GET", "/api/v1/keys", nil, ts.bootstrapKey)
	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200 with bootstrap key, got %d", rr.Code)
	}
}

func TestAPIKeyLifecycle(t *testing.T) {
	ts := newTestServer("")

	// Create a real key via the bootstrap key
	rr := ts.request("POST", "/api/v1/keys", map[string]string{"name": "ci"}, ts.bootstrapKey)
	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var created domain.CreateAPIKeyResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if created.Key == "" {
		t.Fatal("expected the key to be returned on creation")
	}

	// Bootstrap key no longer works once a real key exists
	rr = ts.request("GET", "/api/v1/keys", nil, ts.bootstrapKey)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 for bootstrap key after first real key, got %d", rr.Code)
	}

	// The real key works
	rr = ts.request("GET", "/api/v1/keys", nil, created.Key)
	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200 with real key, got %d", rr.Code)
	}
}

func TestKeywordsEndpoint(t *testing.T) {
	ts := newTestServer(`{"keywords": ["tomato care", "home gardening"]}`)
	_ = ts.ledger.Grant(context.Background(), "user1", "ws1", 20, domain.CreditInitial)

	rr := ts.request("POST", "/api/v1/keywords", map[string]any{
		"content":     "<p>an article about tomatoes</p>",
		"count":       2,
		"userId":      "user1",
		"workspaceId": "ws1",
	}, ts.bootstrapKey)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp domain.KeywordsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Keywords) != 2 {
		t.Fatalf("expected 2 keywords, got %d", len(resp.Keywords))
	}
	if resp.Keywords[0].Text != "tomato care" || resp.Keywords[0].ID == "" {
		t.Errorf("unexpected first keyword: %+v", resp.Keywords[0])
	}

	// The call cost was debited
	balance, _ := ts.ledger.Balance(context.Background(), "user1")
	if balance != 20-seo.CostKeywords {
		t.Errorf("expected balance %d, got %d", 20-seo.CostKeywords, balance)
	}
}

func TestKeywordsEndpoint_InsufficientCredits(t *testing.T) {
	ts := newTestServer(`{"keywords": ["a"]}`)

	rr := ts.request("POST", "/api/v1/keywords", map[string]any{
		"content":     "content",
		"userId":      "broke-user",
		"workspaceId": "ws1",
	}, ts.bootstrapKey)
	if rr.Code != http.StatusPaymentRequired {
		t.Errorf("Expected status 402, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestAnalyzeEndpoint_Heuristic(t *testing.T) {
	// Anonymous analysis takes the free heuristic path regardless of the
	// model stub.
	ts := newTestServer("")

	rr := ts.request("POST", "/api/v1/analyze", map[string]any{
		"content": "<h2>Title</h2><p>a short piece of content</p>",
	}, ts.bootstrapKey)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var result domain.SEOAnalysisResult
	if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if result.OverallScore < 0 || result.OverallScore > 100 {
		t.Errorf("score %d outside [0,100]", result.OverallScore)
	}
	if len(result.Categories) == 0 {
		t.Error("expected heuristic categories")
	}
}

func TestExtractEndpoint(t *testing.T) {
	page := `<html lang="en"><head><title>Post</title></head><body><article>
	<p>Plenty of readable paragraph content for the extractor to find here,
	  more than enough text to be treated as the main article body.</p>
	</article></body></html>`
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(page))
	}))
	defer origin.Close()

	ts := newTestServer("")
	rr := ts.request("POST", "/api/v1/extract", map[string]string{"url": origin.URL}, ts.bootstrapKey)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var result domain.ExtractedContent
	if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if result.TextContent == "" {
		t.Error("expected extracted text content")
	}
	if result.RTL {
		t.Error("english page flagged RTL")
	}
}

func TestExtractEndpoint_BadURL(t *testing.T) {
	ts := newTestServer("")

	rr := ts.request("POST", "/api/v1/extract", map[string]string{"url": "not a url"}, ts.bootstrapKey)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rr.Code)
	}
}

func TestWorkspaceLimit(t *testing.T) {
	ts := newTestServer("")

	for i := 0; i < domain.MaxWorkspacesPerUser; i++ {
		rr := ts.request("POST", "/api/v1/workspaces", map[string]string{
			"name":   "Workspace",
			"userId": "user1",
		}, ts.bootstrapKey)
		if rr.Code != http.StatusCreated {
			t.Fatalf("workspace %d: expected status 201, got %d", i+1, rr.Code)
		}
	}

	rr := ts.request("POST", "/api/v1/workspaces", map[string]string{
		"name":   "One too many",
		"userId": "user1",
	}, ts.bootstrapKey)
	if rr.Code != http.StatusConflict {
		t.Errorf("Expected status 409 for fourth workspace, got %d", rr.Code)
	}
}

func TestSubscriptionGrantsCredits(t *testing.T) {
	ts := newTestServer("")

	rr := ts.request("POST", "/api/v1/subscriptions", map[string]any{
		"userId":   "user1",
		"planType": "basic",
	}, ts.bootstrapKey)
	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = ts.request("GET", "/api/v1/credits/balance?userId=user1", nil, ts.bootstrapKey)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	var balance domain.BalanceResponse
	_ = json.Unmarshal(rr.Body.Bytes(), &balance)
	if balance.Balance != domain.PlanCredits[domain.PlanBasic] {
		t.Errorf("expected balance %d, got %d", domain.PlanCredits[domain.PlanBasic], balance.Balance)
	}
}

// grantFailStore fails credit inserts, so the grant that follows
// subscription creation always errors.
type grantFailStore struct {
	*memory.Store
}

func (s *grantFailStore) InsertCreditRecord(ctx context.Context, rec *domain.CreditRecord) error {
	return errors.New("insert failed")
}

func TestSubscriptionRemovedWhenGrantFails(t *testing.T) {
	ts := newTestServerWithStore(&grantFailStore{Store: memory.New()}, "")

	rr := ts.request("POST", "/api/v1/subscriptions", map[string]any{
		"userId":   "user1",
		"planType": "basic",
	}, ts.bootstrapKey)
	if rr.Code < 500 {
		t.Fatalf("Expected server error, got %d: %s", rr.Code, rr.Body.String())
	}

	// No half-created subscription is left behind.
	rr = ts.request("GET", "/api/v1/subscriptions?userId=user1", nil, ts.bootstrapKey)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	var subs []domain.Subscription
	_ = json.Unmarshal(rr.Body.Bytes(), &subs)
	if len(subs) != 0 {
		t.Errorf("expected no subscriptions, got %d", len(subs))
	}
}

func TestCreditGrantAndHistory(t *testing.T) {
	ts := newTestServer("")

	rr := ts.request("POST", "/api/v1/credits/grant", map[string]any{
		"userId":          "user1",
		"amount":          100,
		"transactionType": "purchased",
	}, ts.bootstrapKey)
	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = ts.request("GET", "/api/v1/credits/history?userId=user1", nil, ts.bootstrapKey)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	var records []domain.CreditRecord
	_ = json.Unmarshal(rr.Body.Bytes(), &records)
	if len(records) != 1 || records[0].CreditAmount != 100 {
		t.Errorf("unexpected history: %+v", records)
	}

	// Invalid grant is rejected with field errors
	rr = ts.request("POST", "/api/v1/credits/grant", map[string]any{
		"userId":          "",
		"amount":          -5,
		"transactionType": "used",
	}, ts.bootstrapKey)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rr.Code)
	}
}

func TestProviderKeyLifecycle(t *testing.T) {
	ts := newTestServer("")

	rr := ts.request("POST", "/api/v1/providers/keys", map[string]string{
		"userId":      "user1",
		"workspaceId": "ws1",
		"apiType":     "openai",
		"apiKey":      "sk-something",
	}, ts.bootstrapKey)
	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var created domain.ProviderKey
	_ = json.Unmarshal(rr.Body.Bytes(), &created)
	if created.ID == "" || !created.IsActive {
		t.Errorf("unexpected created key: %+v", created)
	}

	// The key material must not be serialized
	if bytes.Contains(rr.Body.Bytes(), []byte("sk-something")) {
		t.Error("provider key material leaked in response")
	}

	// A second key for the same slot deactivates the first
	rr = ts.request("POST", "/api/v1/providers/keys", map[string]string{
		"userId":      "user1",
		"workspaceId": "ws1",
		"apiType":     "openai",
		"apiKey":      "sk-newer",
	}, ts.bootstrapKey)
	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", rr.Code)
	}

	rr = ts.request("GET", "/api/v1/providers/keys?userId=user1", nil, ts.bootstrapKey)
	var keys []domain.ProviderKey
	_ = json.Unmarshal(rr.Body.Bytes(), &keys)
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(keys))
	}
	active := 0
	for _, k := range keys {
		if k.IsActive {
			active++
		}
	}
	if active != 1 {
		t.Errorf("expected exactly 1 active key, got %d", active)
	}

	// Unknown provider type is rejected
	rr = ts.request("POST", "/api/v1/providers/keys", map[string]string{
		"userId":      "user1",
		"workspaceId": "ws1",
		"apiType":     "bing",
		"apiKey":      "x",
	}, ts.bootstrapKey)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rr.Code)
	}
}
