package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateReport(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDatabase() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if strings.TrimSpace(c.Database.Path) == "" {
			return errors.New("database.path must be set when database.driver is sqlite")
		}
	case DriverPostgres:
		if c.Database.URL == "" {
			return errors.New("database.url must be set when database.driver is postgres (or set CLUBMATCH_DATABASE_URL)")
		}
	default:
		return fmt.Errorf("database.driver: unsupported value %q (use sqlite or postgres)", c.Database.Driver)
	}
	return nil
}

func (c *Config) validateMatching() error {
	m := c.Matching
	if m.NameWeight < 0 || m.LocationWeight < 0 {
		return errors.New("matching weights must not be negative")
	}
	if m.NameWeight == 0 && m.LocationWeight == 0 {
		return errors.New("matching.name_weight and matching.location_weight cannot both be zero")
	}
	if m.MinScore < 1 {
		return errors.New("matching.min_score must be at least 1")
	}
	if m.MinKeyLength < 1 {
		return errors.New("matching.min_key_length must be at least 1")
	}
	if m.OverlapRatio <= 0 || m.OverlapRatio > 1 {
		return errors.New("matching.overlap_ratio must be greater than 0 and at most 1")
	}
	return nil
}

func (c *Config) validateReport() error {
	if c.Report.ItemizeLimit < 0 {
		return errors.New("report.itemize_limit must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must not be negative")
	}
	return nil
}
