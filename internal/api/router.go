package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/hassanzn2023/autoblog-sub000/internal/api/handler"
	"github.com/hassanzn2023/autoblog-sub000/internal/api/middleware"
	"github.com/hassanzn2023/autoblog-sub000/internal/credit"
	"github.com/hassanzn2023/autoblog-sub000/internal/extract"
	"github.com/hassanzn2023/autoblog-sub000/internal/seo"
	"github.com/hassanzn2023/autoblog-sub000/internal/storage"
)

// Services bundles the constructed service objects the router depends on.
// Everything is built once at startup and passed by reference.
type Services struct {
	Extractor *extract.Extractor
	Keywords  *seo.KeywordService
	Analyzer  *seo.Analyzer
	Ledger    *credit.Ledger
}

// NewRouter creates a new HTTP router with all routes configured.
func NewRouter(store storage.Storage, svcs *Services, bootstrapKey string) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	// Health check (no auth required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// API routes (auth required, JSON Content-Type)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.ContentType)
		r.Use(middleware.Auth(store, bootstrapKey))

		// Service API keys
		keyHandler := handler.NewAPIKeyHandler(store)
		r.Post("/keys", keyHandler.Create)
		r.Get("/keys", keyHandler.List)
		r.Delete("/keys/{id}", keyHandler.Delete)

		// Content pipeline
		extractHandler := handler.NewExtractHandler(svcs.Extractor)
		r.Post("/extract", extractHandler.Extract)

		keywordsHandler := handler.NewKeywordsHandler(svcs.Keywords)
		r.Post("/keywords", keywordsHandler.Suggest)
		r.Post("/keywords/secondary", keywordsHandler.SuggestSecondary)

		analyzeHandler := handler.NewAnalyzeHandler(svcs.Analyzer)
		r.Post("/analyze", analyzeHandler.Analyze)

		// Provider keys
		providerKeyHandler := handler.NewProviderKeyHandler(store)
		r.Post("/providers/keys", providerKeyHandler.Create)
		r.Get("/providers/keys", providerKeyHandler.List)
		r.Delete("/providers/keys/{id}", providerKeyHandler.Delete)

		// Credit ledger
		creditsHandler := handler.NewCreditsHandler(svcs.Ledger)
		r.Get("/credits/balance", creditsHandler.Balance)
		r.Get("/credits/history", creditsHandler.History)
		r.Post("/credits/grant", creditsHandler.Grant)
		r.Get("/usage", creditsHandler.Usage)

		// Workspaces
		workspaceHandler := handler.NewWorkspaceHandler(store)
		r.Post("/workspaces", workspaceHandler.Create)
		r.Get("/workspaces", workspaceHandler.List)
		r.Get("/workspaces/{id}", workspaceHandler.Get)
		r.Put("/workspaces/{id}", workspaceHandler.Update)
		r.Delete("/workspaces/{id}", workspaceHandler.Delete)

		// Subscriptions
		subscriptionHandler := handler.NewSubscriptionHandler(store, svcs.Ledger)
		r.Post("/subscriptions", subscriptionHandler.Create)
		r.Get("/subscriptions", subscriptionHandler.List)
		r.Post("/subscriptions/{id}/cancel", subscriptionHandler.Cancel)
	})

	return r
}
