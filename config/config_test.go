package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "MEASURER", "GEMINI_MODEL", "AI_DAILY_LIMIT", "PIXEL_RATIO", "LAYOUT_FONT_SIZE", "LAYOUT_CONTENT_WIDTH"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "8080" || cfg.GeminiModel != "gemini-2.5-flash" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.AIDailyLimit != 5 || cfg.PixelRatio != 2 {
		t.Fatalf("unexpected limits: daily=%d ratio=%g", cfg.AIDailyLimit, cfg.PixelRatio)
	}
	if cfg.Layout.FontSize != 15 || cfg.Layout.PageWidth() != 500 {
		t.Fatalf("unexpected layout defaults: %+v", cfg.Layout)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("AI_DAILY_LIMIT", "10")
	t.Setenv("PIXEL_RATIO", "-1")
	t.Setenv("GEMINI_TIMEOUT", "5s")
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("LAYOUT_FONT_SIZE", "12pt")
	t.Setenv("LAYOUT_LINE_HEIGHT", "32px")
	t.Setenv("LAYOUT_PADDING_LEFT", "48")

	cfg := Load()
	if cfg.Port != "9000" || cfg.AIDailyLimit != 10 || cfg.GeminiTimeout != 5*time.Second {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.PixelRatio != 2 {
		t.Fatalf("non-positive ratio should fall back, got %g", cfg.PixelRatio)
	}
	if !cfg.AIEnabled() {
		t.Fatalf("AI should be enabled with an API key")
	}
	if cfg.Layout.FontSize != 16 || cfg.Layout.LineHeight != 2 || cfg.Layout.Padding.Left != 48 {
		t.Fatalf("layout overrides not applied: %+v", cfg.Layout)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validate error: %v", err)
	}
}

func TestValidateRejectsBadLayout(t *testing.T) {
	t.Setenv("LAYOUT_FONT_SIZE", "huge")
	err := Load().Validate()
	if err == nil || !strings.Contains(err.Error(), "LAYOUT_FONT_SIZE") {
		t.Fatalf("expected LAYOUT_FONT_SIZE error, got %v", err)
	}

	t.Setenv("LAYOUT_FONT_SIZE", "")
	t.Setenv("MEASURER", "harfbuzz")
	if err := Load().Validate(); err == nil {
		t.Fatalf("expected error for unknown measurer")
	}

	t.Setenv("MEASURER", "")
	t.Setenv("LAYOUT_FONT_SIZE", "0px")
	if err := Load().Validate(); err == nil {
		t.Fatalf("expected error for zero font size")
	}
}

func TestEnvKey(t *testing.T) {
	if got := EnvKey("max-content-height"); got != "LAYOUT_MAX_CONTENT_HEIGHT" {
		t.Fatalf("unexpected env key %s", got)
	}
}
