// Package settings loads pvreview configuration from
// ~/.pvreview/settings.yaml.
//
// Everything has a default; a missing settings file is not an error.
// The analyzer base endpoint is the only external configuration this
// layer truly depends on, and it can also come from the PVREVIEW_BASE
// environment variable (env > file > default).
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultEndpoint     = "http://localhost:8000"
	DefaultTimeoutSec   = 120
	DefaultPageTTLSec   = 300
	defaultCleanupRatio = 2
)

// Settings holds pvreview configuration from ~/.pvreview/settings.yaml.
type Settings struct {
	// Endpoint is the analyzer backend base URL.
	Endpoint string `yaml:"endpoint"`
	// TimeoutSeconds bounds the analyze request (OCR can be slow).
	TimeoutSeconds int `yaml:"timeout_seconds"`
	// PageCacheTTLSeconds controls how long fetched page images stay
	// cached within the session.
	PageCacheTTLSeconds int `yaml:"page_cache_ttl_seconds"`
}

// Dir returns the ~/.pvreview directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	return filepath.Join(home, ".pvreview"), nil
}

// Load reads settings.yaml from dir. Returns nil (not an error) if the
// file does not exist.
func Load(dir string) (*Settings, error) {
	path := filepath.Join(dir, "settings.yaml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", path, err)
	}
	return &s, nil
}

// Base returns the analyzer endpoint. Safe to call on a nil receiver;
// the PVREVIEW_BASE environment variable overrides the file value.
func (s *Settings) Base() string {
	if env := os.Getenv("PVREVIEW_BASE"); env != "" {
		return env
	}
	if s != nil && s.Endpoint != "" {
		return s.Endpoint
	}
	return DefaultEndpoint
}

// Timeout returns the analyze request timeout. Nil-safe.
func (s *Settings) Timeout() time.Duration {
	if s != nil && s.TimeoutSeconds > 0 {
		return time.Duration(s.TimeoutSeconds) * time.Second
	}
	return DefaultTimeoutSec * time.Second
}

// PageTTL returns the page-image cache TTL. Nil-safe.
func (s *Settings) PageTTL() time.Duration {
	if s != nil && s.PageCacheTTLSeconds > 0 {
		return time.Duration(s.PageCacheTTLSeconds) * time.Second
	}
	return DefaultPageTTLSec * time.Second
}

// CleanupInterval returns the cache sweep interval derived from the TTL.
func (s *Settings) CleanupInterval() time.Duration {
	return s.PageTTL() * defaultCleanupRatio
}
