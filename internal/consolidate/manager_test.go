package consolidate_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"curator/internal/consolidate"
	"curator/internal/logging"
	"curator/internal/report"
	"curator/internal/taxonomy"
	"curator/internal/testsupport"
)

const taxonomyDoc = `
wordpress: ["wp-", "wordpress"]
rce: ["rce", "exec"]
cve: ["cve-"]
`

func loadTaxonomy(t *testing.T, doc string) *taxonomy.Taxonomy {
	t.Helper()
	tax, err := taxonomy.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse taxonomy: %v", err)
	}
	return tax
}

func runPipeline(t *testing.T, m *consolidate.Manager) report.Summary {
	t.Helper()
	summary, err := m.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := summary.Check(); err != nil {
		t.Fatalf("summary invariant: %v", err)
	}
	return summary
}

func TestRunDeduplicatesAndCategorizes(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	tax := loadTaxonomy(t, taxonomyDoc)

	// Identical content in two repos: one survivor expected.
	testsupport.WriteTemplate(t, cfg, "repo-a", "wp/wp-login-detect.yaml", "id: wp\ninfo:\n  tags: wordpress\n")
	testsupport.WriteTemplate(t, cfg, "repo-b", "mirror/wp-login-detect.yaml", "id: wp\ninfo:\n  tags: wordpress\n")
	// Matches both wordpress and rce; wordpress is first in the taxonomy.
	testsupport.WriteTemplate(t, cfg, "repo-a", "wordpress-rce-exec.yaml", "id: combo\n")
	// No rule matches.
	testsupport.WriteTemplate(t, cfg, "repo-b", "misc/unknown-panel.yaml", "id: misc\n")

	m := consolidate.New(cfg, tax, logging.NewNop())
	summary := runPipeline(t, m)

	if summary.Scanned != 4 {
		t.Fatalf("unexpected scanned: %d", summary.Scanned)
	}
	if summary.Duplicates != 1 {
		t.Fatalf("unexpected duplicates: %d", summary.Duplicates)
	}
	if summary.Surviving != 3 {
		t.Fatalf("unexpected surviving: %d", summary.Surviving)
	}

	counts := map[string]int{}
	for _, cat := range summary.Categories {
		counts[cat.Name] = cat.Count
	}
	if counts["wordpress"] != 2 {
		t.Fatalf("expected 2 wordpress templates, got %d", counts["wordpress"])
	}
	if counts[taxonomy.Other] != 1 {
		t.Fatalf("expected 1 other template, got %d", counts[taxonomy.Other])
	}
	if counts["rce"] != 0 {
		t.Fatalf("taxonomy order broken: rce got %d", counts["rce"])
	}

	// The first-in-scan-order representative survives: repo-a sorts first.
	if _, err := os.Stat(filepath.Join(cfg.Paths.LibraryDir, "wordpress", "wp-login-detect.yaml")); err != nil {
		t.Fatalf("expected organized wordpress template: %v", err)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	tax := loadTaxonomy(t, taxonomyDoc)

	testsupport.WriteTemplate(t, cfg, "repo-a", "cves/cve-2024-0001.yaml", "id: one\n")
	testsupport.WriteTemplate(t, cfg, "repo-a", "wp/wp-probe.yaml", "id: two\n")

	m := consolidate.New(cfg, tax, logging.NewNop())
	first := runPipeline(t, m)
	second := runPipeline(t, m)

	if first.Surviving != second.Surviving || first.Scanned != second.Scanned {
		t.Fatalf("totals changed between runs: %+v vs %+v", first, second)
	}
	if len(first.Categories) != len(second.Categories) {
		t.Fatalf("distribution changed between runs")
	}
	for i := range first.Categories {
		if first.Categories[i] != second.Categories[i] {
			t.Fatalf("category row changed: %+v vs %+v", first.Categories[i], second.Categories[i])
		}
	}

	// No stale duplicates accumulate in the library.
	entries, err := os.ReadDir(filepath.Join(cfg.Paths.LibraryDir, "cve"))
	if err != nil {
		t.Fatalf("read cve bucket: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 file after repeated runs, got %d", len(entries))
	}
}

func TestRunEmptyTaxonomyEverythingOther(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	tax := loadTaxonomy(t, "")

	testsupport.WriteTemplate(t, cfg, "repo-a", "a.yaml", "id: a\n")
	testsupport.WriteTemplate(t, cfg, "repo-a", "b.yaml", "id: b\n")

	summary := runPipeline(t, consolidate.New(cfg, tax, logging.NewNop()))
	if len(summary.Categories) != 1 || summary.Categories[0].Name != taxonomy.Other {
		t.Fatalf("expected only the other bucket, got %+v", summary.Categories)
	}
	if summary.Categories[0].Percent != 100.0 {
		t.Fatalf("expected other at 100%%, got %v", summary.Categories[0].Percent)
	}
}

func TestRunCountsUnreadableFileAsError(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are ignored for root")
	}
	cfg := testsupport.NewConfig(t)
	tax := loadTaxonomy(t, taxonomyDoc)

	testsupport.WriteTemplate(t, cfg, "repo-a", "fine.yaml", "id: fine\n")
	locked := testsupport.WriteTemplate(t, cfg, "repo-a", "locked.yaml", "id: locked\n")
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o644) })

	summary := runPipeline(t, consolidate.New(cfg, tax, logging.NewNop()))
	if summary.Scanned != 2 {
		t.Fatalf("attempted count should include the unreadable file, got %d", summary.Scanned)
	}
	if summary.Errors != 1 {
		t.Fatalf("expected 1 error, got %d", summary.Errors)
	}
	if summary.Surviving != 1 {
		t.Fatalf("unreadable file must not survive, got %d", summary.Surviving)
	}
}

func TestRunRecordsCatalogEntry(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	tax := loadTaxonomy(t, taxonomyDoc)
	store := testsupport.MustOpenCatalog(t, cfg)

	testsupport.WriteTemplate(t, cfg, "repo-a", "wp/wp-check.yaml", "id: wp\n")

	runPipeline(t, consolidate.New(cfg, tax, logging.NewNop(), consolidate.WithCatalog(store)))

	last, err := store.LastRun(context.Background())
	if err != nil {
		t.Fatalf("LastRun: %v", err)
	}
	if last == nil {
		t.Fatal("expected a recorded run")
	}
	if last.Surviving != 1 || last.Scanned != 1 {
		t.Fatalf("unexpected recorded totals: %+v", last)
	}
	categories, err := store.RunCategories(context.Background(), last.ID)
	if err != nil {
		t.Fatalf("RunCategories: %v", err)
	}
	if len(categories) != 1 || categories[0].Name != "wordpress" {
		t.Fatalf("unexpected recorded categories: %+v", categories)
	}
}

func TestRunReportsProgress(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	tax := loadTaxonomy(t, taxonomyDoc)
	testsupport.WriteTemplate(t, cfg, "repo-a", "wp/wp-check.yaml", "id: wp\n")

	stages := make(map[string]bool)
	var mu sync.Mutex
	progress := func(p consolidate.Progress) {
		mu.Lock()
		stages[p.Stage] = true
		mu.Unlock()
	}

	runPipeline(t, consolidate.New(cfg, tax, logging.NewNop(), consolidate.WithProgress(progress)))
	for _, stage := range []string{consolidate.StageFingerprint, consolidate.StageClassify, consolidate.StageOrganize} {
		if !stages[stage] {
			t.Fatalf("expected progress events for stage %q", stage)
		}
	}
}

func TestRunCancelledContext(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	tax := loadTaxonomy(t, taxonomyDoc)
	testsupport.WriteTemplate(t, cfg, "repo-a", "wp/wp-check.yaml", "id: wp\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := consolidate.New(cfg, tax, logging.NewNop()).Run(ctx); err == nil {
		t.Fatal("expected cancellation error")
	}
}
