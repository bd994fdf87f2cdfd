// Package config loads, normalizes, and validates clubmatch configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads a .env file from the working directory,
// and honours environment fallbacks such as CLUBMATCH_DATABASE_URL. The Config
// type centralizes every knob the batch commands need: where the record store
// lives, where assets are read from and copied to, and the matching weights
// and thresholds.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
