package report_test

import (
	"testing"

	"curator/internal/report"
)

func TestBuildSortsByDescendingCount(t *testing.T) {
	counts := map[string]int{"wordpress": 30, "rce": 50, "other": 20}
	summary := report.Build(counts, 120, 15, 5)

	if summary.Surviving != 100 {
		t.Fatalf("unexpected surviving: %d", summary.Surviving)
	}
	if got := summary.Categories[0].Name; got != "rce" {
		t.Fatalf("expected rce first, got %q", got)
	}
	if got := summary.Categories[0].Percent; got != 50.0 {
		t.Fatalf("unexpected percent: %v", got)
	}
	if err := summary.Check(); err != nil {
		t.Fatalf("Check: %v", err)
	}
}

func TestBuildTiesSortedByName(t *testing.T) {
	counts := map[string]int{"bbb": 1, "aaa": 1}
	summary := report.Build(counts, 2, 0, 0)
	if summary.Categories[0].Name != "aaa" {
		t.Fatalf("expected name tiebreak, got %q first", summary.Categories[0].Name)
	}
}

func TestCheckRejectsBrokenInvariant(t *testing.T) {
	summary := report.Build(map[string]int{"cve": 10}, 12, 1, 0)
	// 10 surviving + 1 duplicate + 0 errors != 12 scanned.
	if err := summary.Check(); err == nil {
		t.Fatal("expected invariant violation")
	}
}

func TestLargeScaleInvariant(t *testing.T) {
	// 800,331 scanned with 538,447 duplicates leaves 261,884 surviving.
	counts := map[string]int{
		"cve":       100000,
		"wordpress": 80000,
		"rce":       50000,
		"other":     31884,
	}
	summary := report.Build(counts, 800331, 538447, 0)
	if summary.Surviving != 261884 {
		t.Fatalf("unexpected surviving: %d", summary.Surviving)
	}
	if err := summary.Check(); err != nil {
		t.Fatalf("Check: %v", err)
	}
}

func TestOnlyOtherIsHundredPercent(t *testing.T) {
	summary := report.Build(map[string]int{"other": 7}, 7, 0, 0)
	if len(summary.Categories) != 1 || summary.Categories[0].Percent != 100.0 {
		t.Fatalf("expected other at 100%%, got %+v", summary.Categories)
	}
}

func TestEmptyRun(t *testing.T) {
	summary := report.Build(nil, 0, 0, 0)
	if summary.Surviving != 0 || len(summary.Categories) != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if err := summary.Check(); err != nil {
		t.Fatalf("Check on empty run: %v", err)
	}
}

func TestFormatCount(t *testing.T) {
	if got := report.FormatCount(800331); got != "800,331" {
		t.Fatalf("unexpected formatting: %q", got)
	}
}

func TestFormatPercent(t *testing.T) {
	if got := report.FormatPercent(42.35); got != "42.3%" && got != "42.4%" {
		t.Fatalf("unexpected formatting: %q", got)
	}
}
