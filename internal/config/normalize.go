package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeDatabase(); err != nil {
		return err
	}
	if err := c.normalizeDedup(); err != nil {
		return err
	}
	c.normalizeAssets()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.AssetSourceDir, err = expandPath(strings.TrimSpace(c.Paths.AssetSourceDir)); err != nil {
		return fmt.Errorf("paths.asset_source_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.AssetDestDir) == "" {
		c.Paths.AssetDestDir = defaultAssetDestDir
	}
	if c.Paths.AssetDestDir, err = expandPath(c.Paths.AssetDestDir); err != nil {
		return fmt.Errorf("paths.asset_dest_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeDatabase() error {
	if value, ok := os.LookupEnv("CLUBMATCH_DATABASE_DRIVER"); ok && strings.TrimSpace(value) != "" {
		c.Database.Driver = value
	}
	if value, ok := os.LookupEnv("CLUBMATCH_DATABASE_URL"); ok && strings.TrimSpace(value) != "" {
		c.Database.URL = value
		if strings.TrimSpace(c.Database.Driver) == "" || c.Database.Driver == DriverSQLite {
			if strings.HasPrefix(value, "postgres://") || strings.HasPrefix(value, "postgresql://") {
				c.Database.Driver = DriverPostgres
			}
		}
	}
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	if c.Database.Driver == "" || c.Database.Driver == "sqlite3" {
		c.Database.Driver = DriverSQLite
	}
	if c.Database.Driver == "postgresql" {
		c.Database.Driver = DriverPostgres
	}
	c.Database.URL = strings.TrimSpace(c.Database.URL)

	if c.Database.Driver == DriverSQLite {
		path := strings.TrimSpace(c.Database.Path)
		if path == "" {
			path = filepath.Join(c.Paths.DataDir, defaultSQLiteFile)
		}
		var err error
		if c.Database.Path, err = expandPath(path); err != nil {
			return fmt.Errorf("database.path: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeDedup() error {
	path := strings.TrimSpace(c.Dedup.RulesPath)
	if path == "" {
		c.Dedup.RulesPath = ""
		return nil
	}
	var err error
	if c.Dedup.RulesPath, err = expandPath(path); err != nil {
		return fmt.Errorf("dedup.rules_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeAssets() {
	c.Assets.PublicPrefix = strings.TrimSpace(c.Assets.PublicPrefix)
	if c.Assets.PublicPrefix == "" {
		c.Assets.PublicPrefix = defaultPublicPrefix
	}
	if !strings.HasSuffix(c.Assets.PublicPrefix, "/") {
		c.Assets.PublicPrefix += "/"
	}

	words := make([]string, 0, len(c.Assets.NoiseWords))
	seen := make(map[string]struct{}, len(c.Assets.NoiseWords))
	for _, word := range c.Assets.NoiseWords {
		normalized := strings.ToLower(strings.TrimSpace(word))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		words = append(words, normalized)
	}
	if len(words) == 0 {
		words = append(words, defaultNoiseWords...)
	}
	c.Assets.NoiseWords = words
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	if value, ok := os.LookupEnv("CLUBMATCH_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
