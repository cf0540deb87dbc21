package taxonomy_test

import (
	"os"
	"path/filepath"
	"testing"

	"curator/internal/taxonomy"
)

func TestParsePreservesDocumentOrder(t *testing.T) {
	doc := []byte(`
zz-last-alphabetically: ["zz"]
wordpress: ["wp-", "wordpress"]
rce: ["rce", "exec"]
`)
	tax, err := taxonomy.Parse(doc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	names := tax.Names()
	want := []string{"zz-last-alphabetically", "wordpress", "rce"}
	if len(names) != len(want) {
		t.Fatalf("expected %d categories, got %v", len(want), names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("order not preserved: got %v", names)
		}
	}
	if kws := tax.Categories()[1].Keywords; len(kws) != 2 || kws[0] != "wp-" {
		t.Fatalf("unexpected wordpress keywords: %v", kws)
	}
}

func TestParseLowercasesNamesAndKeywords(t *testing.T) {
	tax, err := taxonomy.Parse([]byte(`WordPress: ["WP-Login", " ADMIN "]`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cat := tax.Categories()[0]
	if cat.Name != "wordpress" {
		t.Fatalf("name not lowercased: %q", cat.Name)
	}
	if cat.Keywords[0] != "wp-login" || cat.Keywords[1] != "admin" {
		t.Fatalf("keywords not normalized: %v", cat.Keywords)
	}
}

func TestParseScalarKeyword(t *testing.T) {
	tax, err := taxonomy.Parse([]byte(`sqli: sql-injection`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if kws := tax.Categories()[0].Keywords; len(kws) != 1 || kws[0] != "sql-injection" {
		t.Fatalf("unexpected keywords: %v", kws)
	}
}

func TestParseEmptyDocument(t *testing.T) {
	tax, err := taxonomy.Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tax.Len() != 0 {
		t.Fatalf("expected empty taxonomy, got %d categories", tax.Len())
	}
}

func TestParseRejectsDuplicateCategory(t *testing.T) {
	_, err := taxonomy.Parse([]byte("rce: [\"rce\"]\nRCE: [\"exec\"]\n"))
	if err == nil {
		t.Fatal("expected duplicate category error")
	}
}

func TestParseRejectsReservedOther(t *testing.T) {
	if _, err := taxonomy.Parse([]byte(`other: ["misc"]`)); err == nil {
		t.Fatal("expected reserved-category error")
	}
}

func TestParseRejectsPathEscapingNames(t *testing.T) {
	// Category names become library subdirectories; separators and dot
	// segments would let a taxonomy write outside the bucket tree.
	for _, doc := range []string{
		`../escape: ["wp-"]`,
		`web/cms: ["wordpress"]`,
		`web\cms: ["wordpress"]`,
		`.: ["dot"]`,
		`..: ["dotdot"]`,
	} {
		if _, err := taxonomy.Parse([]byte(doc)); err == nil {
			t.Fatalf("expected rejection of %q", doc)
		}
	}
}

func TestValidName(t *testing.T) {
	for name, want := range map[string]bool{
		"wordpress": true,
		"cve":       true,
		"other":     true,
		"":          false,
		".":         false,
		"..":        false,
		"../escape": false,
		"web/cms":   false,
		`web\cms`:   false,
	} {
		if got := taxonomy.ValidName(name); got != want {
			t.Fatalf("ValidName(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestParseRejectsNonMappingRoot(t *testing.T) {
	if _, err := taxonomy.Parse([]byte("- wordpress\n- rce\n")); err == nil {
		t.Fatal("expected error for sequence root")
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	if _, err := taxonomy.Parse([]byte("{invalid")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := taxonomy.Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing taxonomy")
	}
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	if err := os.WriteFile(path, []byte(`cve: ["cve-"]`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tax, err := taxonomy.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tax.Len() != 1 || tax.Categories()[0].Name != "cve" {
		t.Fatalf("unexpected taxonomy: %v", tax.Names())
	}
}
