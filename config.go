package gpuscale

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/gobuffalo/envy"

	"github.com/gogpu/gpuscale/internal/filter"
	"github.com/gogpu/gpuscale/internal/list"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvBackend  = "GPUSCALE_BACKEND"
	EnvLUTWidth = "GPUSCALE_LUT_WIDTH"
	EnvMaxList  = "GPUSCALE_MAX_LIST"
	EnvLogLevel = "GPUSCALE_LOG_LEVEL"
)

// logOutput receives logs of a logger built by ConfigFromEnv.
var logOutput io.Writer = os.Stderr

// Config holds Environment and device settings.
type Config struct {
	// Backend names the HAL backend for OpenContext ("vulkan", "metal",
	// "dx12", "gl", "software"). Empty selects the best available.
	Backend string

	// MaxListCount caps the number of entries in each resource pool.
	MaxListCount int

	// LUTWidth is the column count of the bicubic lookup texture.
	LUTWidth int

	// ImageFormat is the initial image-format tag of an Environment.
	ImageFormat ImageFormat

	// Logger, when set, is installed with SetLogger.
	Logger *slog.Logger
}

// DefaultConfig returns the default settings.
func DefaultConfig() Config {
	return Config{
		MaxListCount: list.MaxCount,
		LUTWidth:     filter.DefaultLUTWidth,
		ImageFormat:  ImageNone,
	}
}

// Option configures a Config.
type Option func(*Config)

// WithBackend selects the HAL backend by name.
func WithBackend(name string) Option {
	return func(c *Config) { c.Backend = name }
}

// WithMaxListCount sets the pool capacity.
func WithMaxListCount(n int) Option {
	return func(c *Config) { c.MaxListCount = n }
}

// WithLUTWidth sets the lookup texture width.
func WithLUTWidth(w int) Option {
	return func(c *Config) { c.LUTWidth = w }
}

// WithImageFormat sets the initial image-format tag.
func WithImageFormat(f ImageFormat) Option {
	return func(c *Config) { c.ImageFormat = f }
}

// WithLogger installs l as the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithConfig replaces every setting with cfg.
func WithConfig(cfg Config) Option {
	return func(c *Config) { *c = cfg }
}

// NewConfig applies opts to DefaultConfig and clamps invalid values.
func NewConfig(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.MaxListCount <= 0 {
		cfg.MaxListCount = list.MaxCount
	}
	if cfg.LUTWidth <= 0 {
		cfg.LUTWidth = filter.DefaultLUTWidth
	}
	if cfg.Logger != nil {
		SetLogger(cfg.Logger)
	}
	return cfg
}

// ConfigFromEnv builds a Config from GPUSCALE_* variables. A .env file in
// the working directory is honored. Malformed numbers keep their defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.Backend = strings.ToLower(strings.TrimSpace(envy.Get(EnvBackend, "")))
	cfg.LUTWidth = envInt(EnvLUTWidth, cfg.LUTWidth)
	cfg.MaxListCount = envInt(EnvMaxList, cfg.MaxListCount)
	if lvl, ok := parseLevel(envy.Get(EnvLogLevel, "")); ok {
		cfg.Logger = slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{Level: lvl}))
	}
	return cfg
}

func envInt(key string, def int) int {
	raw := envy.Get(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		Logger().Warn("gpuscale: ignoring invalid config value", "key", key, "value", raw)
		return def
	}
	return v
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return 0, false
	}
}
