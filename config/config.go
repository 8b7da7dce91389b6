package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ByLCY/oshirase/announce"
	"github.com/ByLCY/oshirase/layout"
	"github.com/ByLCY/oshirase/store"
)

type Config struct {
	Port string

	// Storage
	DataDir string

	// Rendering
	FontDir    string
	Measurer   string // canvas 或 opentype
	PixelRatio float64
	Layout     layout.Metrics

	// Gemini proofreading
	GeminiAPIKey   string
	GeminiModel    string
	GeminiEndpoint string
	GeminiTimeout  time.Duration

	// Limits
	AIDailyLimit int
	MaxTextRunes int
	MaxBodyBytes int64

	// Logging
	LogJSON bool

	layoutErr error
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8080"),

		DataDir: envOr("DATA_DIR", "data"),

		FontDir:    os.Getenv("FONT_DIR"),
		Measurer:   envOr("MEASURER", "canvas"),
		PixelRatio: envFloat("PIXEL_RATIO", 2),

		GeminiAPIKey:   envOr("GEMINI_API_KEY", os.Getenv("GOOGLE_GENERATIVE_AI_API_KEY")),
		GeminiModel:    envOr("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiEndpoint: envOr("GEMINI_ENDPOINT", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiTimeout:  envDuration("GEMINI_TIMEOUT", 60*time.Second),

		AIDailyLimit: envInt("AI_DAILY_LIMIT", store.DefaultDailyLimit),
		MaxTextRunes: envInt("MAX_TEXT_RUNES", announce.DefaultMaxRunes),
		MaxBodyBytes: envInt64("MAX_BODY_BYTES", 1<<20), // 1MB

		LogJSON: envBool("LOG_JSON", true),
	}

	if cfg.PixelRatio <= 0 {
		cfg.PixelRatio = 2
	}
	if cfg.GeminiTimeout <= 0 {
		cfg.GeminiTimeout = 60 * time.Second
	}
	if cfg.AIDailyLimit <= 0 {
		cfg.AIDailyLimit = store.DefaultDailyLimit
	}
	if cfg.MaxTextRunes <= 0 {
		cfg.MaxTextRunes = announce.DefaultMaxRunes
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}

	cfg.Layout, cfg.layoutErr = loadLayout()
	return cfg
}

// loadLayout 用 LAYOUT_<KEY> 覆盖默认排版常量，例如 LAYOUT_FONT_SIZE=16px。
func loadLayout() (layout.Metrics, error) {
	m := layout.DefaultMetrics()
	var errs []error
	for _, key := range layout.MetricKeys {
		v := os.Getenv(EnvKey(key))
		if v == "" {
			continue
		}
		if err := m.Set(key, v); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvKey(key), err))
		}
	}
	return m, errors.Join(errs...)
}

// EnvKey 把排版常量键转换为环境变量名。
func EnvKey(metricKey string) string {
	return "LAYOUT_" + strings.ToUpper(strings.ReplaceAll(metricKey, "-", "_"))
}

// AIEnabled 判断是否配置了校对所需的 API key。
func (c Config) AIEnabled() bool {
	return c.GeminiAPIKey != ""
}

func (c Config) Validate() error {
	if c.layoutErr != nil {
		return fmt.Errorf("invalid layout override: %w", c.layoutErr)
	}
	if err := c.Layout.Validate(); err != nil {
		return fmt.Errorf("invalid layout metrics: %w", err)
	}
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Measurer != "canvas" && c.Measurer != "opentype" {
		return fmt.Errorf("MEASURER must be canvas or opentype, got %q", c.Measurer)
	}
	if c.PixelRatio > 8 {
		return fmt.Errorf("PIXEL_RATIO must be <= 8, got %g", c.PixelRatio)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
