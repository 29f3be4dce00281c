package gpuscale

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/gobuffalo/envy"

	"github.com/gogpu/gpuscale/internal/filter"
	"github.com/gogpu/gpuscale/internal/list"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	if cfg.MaxListCount != list.MaxCount {
		t.Errorf("MaxListCount = %d, want %d", cfg.MaxListCount, list.MaxCount)
	}
	if cfg.LUTWidth != filter.DefaultLUTWidth {
		t.Errorf("LUTWidth = %d, want %d", cfg.LUTWidth, filter.DefaultLUTWidth)
	}
	if cfg.Backend != "" || cfg.ImageFormat != ImageNone {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestNewConfigClamps(t *testing.T) {
	cfg := NewConfig(WithMaxListCount(-3), WithLUTWidth(0))
	if cfg.MaxListCount != list.MaxCount || cfg.LUTWidth != filter.DefaultLUTWidth {
		t.Errorf("invalid values not clamped: %+v", cfg)
	}
}

func TestWithConfig(t *testing.T) {
	base := Config{Backend: "vulkan", MaxListCount: 5, LUTWidth: 32}
	cfg := NewConfig(WithConfig(base), WithLUTWidth(64))
	if cfg.Backend != "vulkan" || cfg.MaxListCount != 5 || cfg.LUTWidth != 64 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestWithLoggerInstalls(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	NewConfig(WithLogger(l))
	if Logger() != l {
		t.Error("WithLogger did not install the logger")
	}
}

func TestConfigFromEnv(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	envy.Temp(func() {
		envy.Set(EnvBackend, " Vulkan ")
		envy.Set(EnvLUTWidth, "256")
		envy.Set(EnvMaxList, "nope")
		envy.Set(EnvLogLevel, "debug")

		cfg := ConfigFromEnv()
		if cfg.Backend != "vulkan" {
			t.Errorf("Backend = %q, want vulkan", cfg.Backend)
		}
		if cfg.LUTWidth != 256 {
			t.Errorf("LUTWidth = %d, want 256", cfg.LUTWidth)
		}
		if cfg.MaxListCount != list.MaxCount {
			t.Errorf("MaxListCount = %d, want default for malformed value", cfg.MaxListCount)
		}
		if cfg.Logger == nil {
			t.Error("log level did not produce a logger")
		}
	})
}

func TestConfigFromEnvUnset(t *testing.T) {
	envy.Temp(func() {
		for _, key := range []string{EnvBackend, EnvLUTWidth, EnvMaxList, EnvLogLevel} {
			envy.Set(key, "")
		}
		cfg := ConfigFromEnv()
		if cfg.Backend != "" || cfg.LUTWidth != filter.DefaultLUTWidth || cfg.Logger != nil {
			t.Errorf("cfg = %+v, want defaults", cfg)
		}
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
		ok   bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"warning", slog.LevelWarn, true},
		{" error ", slog.LevelError, true},
		{"trace", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseLevel(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("parseLevel(%q) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
