package web

import (
	"context"
	"embed"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"ai-analyst/internal/analysis"
	"ai-analyst/internal/session"
	"ai-analyst/internal/storage"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

const defaultMaxUpload = 5 << 20

// Deps are the collaborators the web UI needs.
type Deps struct {
	Orchestrator *analysis.Orchestrator
	Sessions     *session.Registry
	// Recorder may be nil; /api/stats then reports 404.
	Recorder       storage.Recorder
	MaxUploadBytes int64
	Title          string
	Profile        string
}

// NewHandler builds the routed handler, wrapped with security headers.
func NewHandler(deps Deps) http.Handler {
	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		log.Fatalf("failed to create template sub-FS: %v", err)
	}
	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		log.Fatalf("failed to create static sub-FS: %v", err)
	}

	h := newHandlers(deps, NewRenderer(templateSub))

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.HandleIndex)
	mux.HandleFunc("POST /analyze", h.HandleAnalyze)
	mux.HandleFunc("POST /key", h.HandleSetKey)
	mux.HandleFunc("POST /cache/clear", h.HandleClearCache)
	mux.HandleFunc("POST /reset", h.HandleReset)
	mux.HandleFunc("GET /history/{id}", h.HandleShowHistory)
	mux.HandleFunc("POST /history/{id}/delete", h.HandleDeleteHistory)

	mux.HandleFunc("POST /api/analyze", h.HandleAPIAnalyze)
	mux.HandleFunc("GET /api/history", h.HandleAPIHistory)
	mux.HandleFunc("DELETE /api/history/{id}", h.HandleAPIDeleteHistory)
	mux.HandleFunc("DELETE /api/cache", h.HandleAPIClearCache)
	mux.HandleFunc("GET /api/status", h.HandleAPIStatus)
	mux.HandleFunc("GET /api/stats", h.HandleAPIStats)

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticSub)))

	return securityHeaders(mux)
}

func newHandlers(deps Deps, renderer *Renderer) *Handlers {
	maxUpload := deps.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = defaultMaxUpload
	}
	title := deps.Title
	if title == "" {
		title = "AI Content Analyst"
	}
	return &Handlers{
		orch:      deps.Orchestrator,
		sessions:  deps.Sessions,
		recorder:  deps.Recorder,
		renderer:  renderer,
		maxUpload: maxUpload,
		title:     title,
		profile:   deps.Profile,
		now:       time.Now,
	}
}

// NewServer creates the HTTP server for the analysis UI and API.
func NewServer(deps Deps, addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           NewHandler(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self'; style-src 'self'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts down.
func Run(ctx context.Context, srv *http.Server) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Printf("analyst UI running at http://%s", srv.Addr)
	if strings.HasPrefix(srv.Addr, ":") || strings.Contains(srv.Addr, "0.0.0.0") {
		log.Printf("WARNING: server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Println("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
