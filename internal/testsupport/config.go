package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults to a SQLite store inside the temp tree and applies any provided
// options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.AssetSourceDir = filepath.Join(base, "incoming")
	cfgVal.Paths.AssetDestDir = filepath.Join(base, "crests")
	cfgVal.Database.Driver = config.DriverSQLite
	cfgVal.Database.Path = filepath.Join(base, "data", "clubs.db")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithItemizeLimit overrides report.itemize_limit on the test config.
func WithItemizeLimit(limit int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Report.ItemizeLimit = limit
	}
}

// WithRulesFile points dedup.rules_path at a file written with body.
func WithRulesFile(body string) ConfigOption {
	return func(b *configBuilder) {
		path := filepath.Join(b.baseDir, "rules.yaml")
		WriteText(b.t, path, body)
		b.cfg.Dedup.RulesPath = path
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
