package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ByLCY/oshirase/api"
	"github.com/ByLCY/oshirase/config"
	"github.com/ByLCY/oshirase/fonts"
	"github.com/ByLCY/oshirase/layout"
	"github.com/ByLCY/oshirase/renderer"
	canvasrenderer "github.com/ByLCY/oshirase/renderer/canvas"
	"github.com/ByLCY/oshirase/renderer/markup"
	"github.com/ByLCY/oshirase/revise"
	"github.com/ByLCY/oshirase/store"
	"github.com/ByLCY/oshirase/theme"
)

// fontBackend 是需要预加载字体的测量或绘制后端。
type fontBackend interface {
	Ready(ctx context.Context) error
	Missing() map[string]error
}

func main() {
	cfg := config.Load()

	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, nil)
	if !cfg.LogJSON {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	log := slog.New(handler)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	st, err := store.Open(filepath.Join(cfg.DataDir, "store.json"))
	if err != nil {
		log.Error("open store", "error", err)
		os.Exit(1)
	}

	catalog := theme.Default()
	cr := canvasrenderer.NewRenderer(canvasrenderer.Options{
		FontDir:    cfg.FontDir,
		Sources:    canvasrenderer.DefaultSources(catalog),
		PixelRatio: cfg.PixelRatio,
	})
	// 预览排版可改用 x/image 的 OpenType 测量；导出始终用 canvas 测量，与绘制一致。
	var measurer layout.Measurer = cr
	backends := []fontBackend{cr}
	if cfg.Measurer == "opentype" {
		fm := fonts.NewFaceMeasurer(fonts.Loader{Dir: cfg.FontDir}, canvasrenderer.DefaultSources(catalog))
		measurer = fm
		backends = append(backends, fm)
	}
	readyCtx, readyCancel := context.WithTimeout(context.Background(), 30*time.Second)
	for _, m := range backends {
		if err := m.Ready(readyCtx); err != nil {
			readyCancel()
			log.Error("load fonts", "error", err)
			os.Exit(1)
		}
		for family, reason := range m.Missing() {
			log.Warn("font fallback", "family", family, "reason", reason)
		}
	}
	readyCancel()

	deps := api.Deps{
		Catalog:        catalog,
		Measurer:       measurer,
		ExportMeasurer: cr,
		Renderers: map[string]renderer.Renderer{
			"png":  cr,
			"html": markup.Renderer{},
		},
		Store: st,
	}
	var gemini *revise.Client
	if cfg.AIEnabled() {
		gemini = revise.NewClient(revise.Options{
			APIKey:   cfg.GeminiAPIKey,
			Model:    cfg.GeminiModel,
			Endpoint: cfg.GeminiEndpoint,
			Timeout:  cfg.GeminiTimeout,
			Logger:   log,
		})
		deps.Reviser = gemini
		deps.Stats = gemini.Stats()
	} else {
		log.Warn("GEMINI_API_KEY not set; /api/generate disabled")
	}

	srv := api.NewServer(deps, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if gemini != nil {
			gemini.Close()
		}
	}()

	log.Info("starting oshirase", "port", cfg.Port, "ai", cfg.AIEnabled())
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
