package testsupport

import (
	"path/filepath"
	"testing"

	"storydl/internal/config"
)

// ConfigOption adjusts a generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig returns the default configuration rooted in a fresh temp
// directory: output under <tmp>/output, the ledger under <tmp>/state, debug
// logging.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Output.Dir = filepath.Join(base, "output")
	cfg.History.Path = filepath.Join(base, "state", "history.db")
	cfg.Logging.Level = "debug"
	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithBaseURL points the platform client at a test server.
func WithBaseURL(url string) ConfigOption {
	return func(cfg *config.Config) { cfg.Platform.BaseURL = url }
}

// WithFormat overrides output.format.
func WithFormat(format string) ConfigOption {
	return func(cfg *config.Config) { cfg.Output.Format = format }
}

// WithoutHistory disables the download ledger.
func WithoutHistory() ConfigOption {
	return func(cfg *config.Config) { cfg.History.Enabled = false }
}

// BaseDir returns the temp directory backing cfg.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Output.Dir)
}
