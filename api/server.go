// Package api 提供公告排版、导出、草稿保存与 AI 校对的 HTTP 接口。
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ByLCY/oshirase/config"
	"github.com/ByLCY/oshirase/layout"
	"github.com/ByLCY/oshirase/renderer"
	"github.com/ByLCY/oshirase/revise"
	"github.com/ByLCY/oshirase/store"
	"github.com/ByLCY/oshirase/theme"
)

// Reviser 是校对后端，由 revise.Client 实现。
type Reviser interface {
	Revise(ctx context.Context, mode revise.Mode, text string) (string, error)
}

// Deps 汇总服务依赖。Reviser 为 nil 时 /api/generate 返回 503。
type Deps struct {
	Catalog  theme.Catalog
	Measurer layout.Measurer
	// ExportMeasurer 用于导出时排版，应与绘制 PNG 的字体整形一致；为空时使用 Measurer。
	ExportMeasurer layout.Measurer
	// Renderers 以导出格式（png、html）为键。
	Renderers map[string]renderer.Renderer
	Reviser   Reviser
	Stats     *revise.Stats
	Store     *store.FileStore
}

// Server is the HTTP API server for oshirase.
type Server struct {
	router chi.Router
	deps   Deps
	quota  *store.Quota
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(deps Deps, log *slog.Logger, cfg config.Config) *Server {
	if len(deps.Catalog.Themes) == 0 {
		deps.Catalog = theme.Default()
	}
	s := &Server{
		deps:  deps,
		quota: store.NewQuota(deps.Store, cfg.AIDailyLimit),
		log:   log,
		cfg:   cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", s.handleCatalog)
		r.Post("/layout", s.handleLayout)
		r.Post("/export", s.handleExport)

		r.Group(func(r chi.Router) {
			r.Use(ClientID)
			r.Post("/generate", s.handleGenerate)
			r.Get("/draft", s.handleGetDraft)
			r.Put("/draft", s.handlePutDraft)
			r.Get("/usage", s.handleUsage)
		})

		r.Get("/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Catalog)
}

func (s *Server) handleLLMStats(w http.ResponseWriter, r *http.Request) {
	var snap revise.Snapshot
	if s.deps.Stats != nil {
		snap = s.deps.Stats.Snapshot()
	}
	writeJSON(w, http.StatusOK, snap)
}
