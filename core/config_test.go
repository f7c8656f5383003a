package core

import (
	"testing"

	"github.com/gobuffalo/envy"
)

func TestConfigDefaults(t *testing.T) {
	envy.Temp(func() {
		cfg := ConfigFromEnv()
		if cfg.Time.FramesPerSecond != 60 {
			t.Errorf("default fps = %d, want 60", cfg.Time.FramesPerSecond)
		}
		if cfg.Importer.ArchivePath != "" {
			t.Errorf("default archive path = %q, want empty", cfg.Importer.ArchivePath)
		}
		if !cfg.Importer.FallbackMaterial {
			t.Error("fallback material must default to enabled")
		}
	})
}

func TestConfigFromEnv(t *testing.T) {
	envy.Temp(func() {
		envy.Set("QUOLL_FPS", "30")
		envy.Set("QUOLL_ARCHIVE", "assets.qar")
		envy.Set("QUOLL_FALLBACK_MATERIAL", "false")

		cfg := ConfigFromEnv()
		if cfg.Time.FramesPerSecond != 30 {
			t.Errorf("fps = %d, want 30", cfg.Time.FramesPerSecond)
		}
		if cfg.Importer.ArchivePath != "assets.qar" {
			t.Errorf("archive path = %q", cfg.Importer.ArchivePath)
		}
		if cfg.Importer.FallbackMaterial {
			t.Error("fallback material should be disabled")
		}
	})
}

func TestNewTime(t *testing.T) {
	tm := NewTime(TimeConfiguration{FramesPerSecond: 120})
	defer tm.Stop()

	if tm.Fps() != 120 {
		t.Errorf("fps = %d, want 120", tm.Fps())
	}
	if tm.FpsTicker() == nil {
		t.Error("fps ticker not initialized")
	}
}
