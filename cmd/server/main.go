package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"seolens-go-analyzer/internal/config"
	"seolens-go-analyzer/internal/models"
	"seolens-go-analyzer/internal/pipeline"
	"seolens-go-analyzer/pkg/logger"
)

type urlReq struct {
	URL string `json:"url"`
}

type domainReq struct {
	Domain  string `json:"domain"`
	MaxURLs int    `json:"max_urls,omitempty"`
	Timeout int    `json:"timeout,omitempty"` // seconds, 0 uses the configured default
}

// weightStore holds the current scoring weights. Reads take a
// snapshot, so analyses started before an update keep the vector they
// began with.
type weightStore struct {
	mu sync.RWMutex
	w  models.Weights
}

func (s *weightStore) snapshot() models.Weights {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.w
}

func (s *weightStore) update(u models.WeightsUpdate) (models.Weights, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	merged := s.w.Merge(u)
	normalized, err := merged.Normalized()
	if err != nil {
		return models.Weights{}, err
	}
	s.w = normalized
	return normalized, nil
}

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.New().Errorf("config: %v", err)
		os.Exit(1)
	}
	l := logger.New()
	if cfg.LogFile != "" {
		l = logger.NewWithFile(cfg.LogFile)
	}
	defer l.Sync()

	pipe := pipeline.New(cfg, l)
	weights := &weightStore{}
	weights.w, err = cfg.Weights.Normalized()
	if err != nil {
		l.Errorf("weights: %v", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// POST /analyze-url  { "url": "https://..." }
	mux.HandleFunc("/analyze-url", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
			return
		}
		var req urlReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		result, err := pipe.AnalyzeURL(r.Context(), req.URL, weights.snapshot())
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if result.Failed() {
			writeJSON(w, http.StatusBadGateway, result)
			return
		}
		writeJSON(w, http.StatusOK, result)
	})

	// POST /analyze-domain  { "domain": "example.com", "max_urls": 50, "timeout": 120 }
	mux.HandleFunc("/analyze-domain", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
			return
		}
		var req domainReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Domain == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		report, err := pipe.AnalyzeDomain(r.Context(), req.Domain, req.MaxURLs, time.Duration(req.Timeout)*time.Second, weights.snapshot())
		if err != nil {
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, report)
	})

	// GET returns the current weights; PUT applies a partial update
	// and re-normalizes.
	mux.HandleFunc("/scoring-weights", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, weights.snapshot())
		case http.MethodPut:
			var update models.WeightsUpdate
			if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
				return
			}
			updated, err := weights.update(update)
			if err != nil {
				writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
				return
			}
			writeJSON(w, http.StatusOK, updated)
		default:
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		}
	})

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      logRequest(l, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		l.Infof("server listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			l.Errorf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	l.Infof("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	l.Infof("bye")
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func logRequest(l *logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		l.Infof("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
