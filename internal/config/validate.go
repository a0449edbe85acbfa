package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}

	if err := c.Log.validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := c.Dataset.validate(); err != nil {
		return fmt.Errorf("dataset: %w", err)
	}
	if err := c.Storage.validate(); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Study.validate(); err != nil {
		return fmt.Errorf("study: %w", err)
	}
	if err := c.Speech.validate(); err != nil {
		return fmt.Errorf("speech: %w", err)
	}

	if c.RateLimit.Enabled && c.RateLimit.SessionWrites <= 0 {
		return fmt.Errorf("rate_limit: session_writes must be > 0 (got %d)", c.RateLimit.SessionWrites)
	}

	return nil
}

func (l *LogConfig) validate() error {
	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown level %q", l.Level)
	}
	switch strings.ToLower(l.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("unknown format %q", l.Format)
	}
	return nil
}

func (d *DatasetConfig) validate() error {
	if d.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be > 0 (got %s)", d.FetchTimeout)
	}
	return nil
}

func (s *StorageConfig) validate() error {
	switch s.Driver {
	case DriverMemory:
	case DriverFile:
		if s.FilePath == "" {
			return fmt.Errorf("file_path is required for the %s driver", DriverFile)
		}
	case DriverSQLite:
		if s.SQLitePath == "" {
			return fmt.Errorf("sqlite_path is required for the %s driver", DriverSQLite)
		}
	case DriverPostgres:
		if s.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for the %s driver", DriverPostgres)
		}
		if s.Database.MaxConns <= 0 || s.Database.MinConns < 0 || s.Database.MinConns > s.Database.MaxConns {
			return fmt.Errorf("database: need 0 <= min_conns <= max_conns and max_conns > 0 (got %d/%d)",
				s.Database.MinConns, s.Database.MaxConns)
		}
	case DriverRedis:
		if s.Redis.Addr == "" {
			return fmt.Errorf("redis.addr is required for the %s driver", DriverRedis)
		}
	default:
		return fmt.Errorf("unknown driver %q", s.Driver)
	}
	return nil
}

func (s *StudyConfig) validate() error {
	if !slices.Contains([]string{PolicyCounter, PolicyMastery}, s.Policy) {
		return fmt.Errorf("unknown policy %q", s.Policy)
	}
	if !slices.Contains([]string{SelectionWeighted, SelectionDeterministic}, s.ScoreSelection) {
		return fmt.Errorf("unknown score_selection %q", s.ScoreSelection)
	}
	if !slices.Contains([]string{ScopeGlobal, ScopeVideo}, s.ProgressScope) {
		return fmt.Errorf("unknown progress_scope %q", s.ProgressScope)
	}
	if s.TopN <= 0 {
		return fmt.Errorf("top_n must be > 0 (got %d)", s.TopN)
	}
	if s.TransitionDelay < 0 {
		return fmt.Errorf("transition_delay must be >= 0 (got %s)", s.TransitionDelay)
	}
	if s.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be > 0 (got %s)", s.SessionTTL)
	}
	if s.JanitorInterval <= 0 {
		return fmt.Errorf("janitor_interval must be > 0 (got %s)", s.JanitorInterval)
	}
	return nil
}

func (s *SpeechConfig) validate() error {
	if !s.Enabled {
		return nil
	}
	rate, err := strconv.ParseFloat(s.Rate, 64)
	if err != nil || rate <= 0 {
		return fmt.Errorf("rate must be a positive number (got %q)", s.Rate)
	}
	if s.Lang == "" {
		return fmt.Errorf("lang is required when speech is enabled")
	}
	return nil
}
