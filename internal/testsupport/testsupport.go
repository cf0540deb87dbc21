// Package testsupport provides shared fixtures for package tests: configs
// seeded with per-test temp directories, template writers, and catalog
// stores.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"curator/internal/catalog"
	"curator/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.SourceDir = filepath.Join(base, "sources")
	cfg.Paths.LibraryDir = filepath.Join(base, "library")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.TaxonomyPath = filepath.Join(base, "categories.yaml")
	cfg.Scan.Workers = 2

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}

// WithOrganizeMode overrides the organize mode on the test config.
func WithOrganizeMode(mode string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Organize.Mode = mode
	}
}

// WithContentWindow overrides the classification content window.
func WithContentWindow(bytes int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Classify.ContentWindowBytes = bytes
	}
}

// WriteTaxonomy writes the taxonomy document for the config.
func WriteTaxonomy(t testing.TB, cfg *config.Config, doc string) {
	t.Helper()
	WriteFile(t, cfg.Paths.TaxonomyPath, doc)
}

// WriteTemplate writes a template beneath the config's source root at
// repo/rel and returns its absolute path.
func WriteTemplate(t testing.TB, cfg *config.Config, repo, rel, content string) string {
	t.Helper()
	path := filepath.Join(cfg.Paths.SourceDir, repo, filepath.FromSlash(rel))
	WriteFile(t, path, content)
	return path
}

// WriteFile writes content at path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// MustOpenCatalog opens a catalog store for the config and registers cleanup.
func MustOpenCatalog(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()
	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}
