package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JohnChood2/grimdark-scholar/internal/answer"
	"github.com/JohnChood2/grimdark-scholar/internal/config"
	"github.com/JohnChood2/grimdark-scholar/internal/model"
	"github.com/JohnChood2/grimdark-scholar/internal/processor"
	"github.com/JohnChood2/grimdark-scholar/internal/retrieval"
	"github.com/JohnChood2/grimdark-scholar/internal/stats"
	"github.com/JohnChood2/grimdark-scholar/internal/store"
	"github.com/JohnChood2/grimdark-scholar/pkg/anthropic"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		corpus, err := loadCorpus(ctx)
		if err != nil {
			return err
		}

		a := &api{
			cfg:    cfg,
			store:  st,
			svc:    answer.NewService(anthropic.NewClient(cfg.Anthropic.Key), cfg.Anthropic, cfg.Retrieval),
			corpus: corpus,
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: a.router(),
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(context.Background())
		}()

		zap.L().Info("starting server", zap.Int("port", port), zap.Int("entries", len(corpus)))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// api holds the server state. The corpus is replaced wholesale after a
// scrape; reads hold the RLock only long enough to copy the slice header.
type api struct {
	cfg   *config.Config
	store store.Store
	svc   *answer.Service

	mu     sync.RWMutex
	corpus model.Corpus

	scraping atomic.Bool
}

func (a *api) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/", a.handleRoot)
	r.Get("/health", a.handleHealth)
	r.Post("/ask", a.handleAsk)
	r.Post("/scrape", a.handleScrape)
	r.Post("/search", a.handleSearch)
	r.Get("/stats", a.handleStats)
	r.Get("/topics", a.handleTopics)

	return r
}

func (a *api) getCorpus() model.Corpus {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.corpus
}

func (a *api) setCorpus(corpus model.Corpus) {
	a.mu.Lock()
	a.corpus = corpus
	a.mu.Unlock()
}

func (a *api) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "grimdark-scholar",
		"message": "Warhammer 40K lore knowledge base",
		"endpoints": []string{
			"GET /health", "POST /ask", "POST /scrape", "POST /search",
			"GET /stats", "GET /topics",
		},
	})
}

func (a *api) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"entries": len(a.getCorpus()),
	})
}

func (a *api) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	result, err := a.svc.Ask(r.Context(), req.Question, a.getCorpus())
	if err != nil {
		zap.L().Error("ask failed", zap.String("question", req.Question), zap.Error(err))
		writeError(w, http.StatusBadGateway, "answer generation failed")
		return
	}

	if err := a.store.LogQuestion(r.Context(), model.Question{
		Question:   req.Question,
		Answer:     result.Answer,
		Confidence: result.Confidence,
		Sources:    result.Sources,
	}); err != nil {
		zap.L().Warn("question log failed", zap.Error(err))
	}

	writeJSON(w, http.StatusOK, result)
}

func (a *api) handleScrape(w http.ResponseWriter, r *http.Request) {
	if !a.scraping.CompareAndSwap(false, true) {
		writeError(w, http.StatusConflict, "scrape already in progress")
		return
	}

	// The scrape outlives the request.
	go func() {
		defer a.scraping.Store(false)
		corpus, err := runScrape(context.Background(), a.cfg)
		if err != nil {
			zap.L().Error("background scrape failed", zap.Error(err))
			return
		}
		a.setCorpus(corpus)
		zap.L().Info("background scrape complete", zap.Int("entries", len(corpus)))
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (a *api) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
		Limit int    `json:"limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	results := retrieval.Search(req.Query, a.getCorpus(), a.cfg.Search)
	if req.Limit > 0 && len(results) > req.Limit {
		results = results[:req.Limit]
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"query":   req.Query,
		"count":   len(results),
		"results": results,
	})
}

func (a *api) handleStats(w http.ResponseWriter, r *http.Request) {
	proc, err := processor.New(a.cfg.Processor)
	if err != nil {
		zap.L().Error("stats failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "stats unavailable")
		return
	}
	writeJSON(w, http.StatusOK, stats.Compute(a.getCorpus(), proc.Vocabulary(), a.cfg.Stats.TopTerms))
}

func (a *api) handleTopics(w http.ResponseWriter, r *http.Request) {
	dist := make(map[model.Bucket]int)
	for _, e := range a.getCorpus() {
		dist[e.MainCategory]++
	}
	writeJSON(w, http.StatusOK, map[string]any{"topics": dist})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
