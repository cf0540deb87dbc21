package scan_test

import (
	"os"
	"path/filepath"
	"testing"

	"curator/internal/scan"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestWalkFindsTemplatesInLexicalOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "repo-b", "cves", "late.yaml"), "b")
	writeFile(t, filepath.Join(root, "repo-a", "exposures", "early.yml"), "a")
	writeFile(t, filepath.Join(root, "repo-a", "README.md"), "not a template")

	files, skipped, err := scan.Walk(root, []string{".yaml", ".yml"})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(skipped) != 0 {
		t.Fatalf("unexpected skips: %v", skipped)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 templates, got %d", len(files))
	}
	if files[0].Repo != "repo-a" || files[1].Repo != "repo-b" {
		t.Fatalf("unexpected repo order: %q then %q", files[0].Repo, files[1].Repo)
	}
	if files[0].Seq != 0 || files[1].Seq != 1 {
		t.Fatalf("unexpected sequence numbers: %d, %d", files[0].Seq, files[1].Seq)
	}
	if files[0].Rel != filepath.ToSlash(filepath.Join("exposures", "early.yml")) {
		t.Fatalf("unexpected repo-relative path: %q", files[0].Rel)
	}
	if files[0].Name() != "early.yml" {
		t.Fatalf("unexpected name: %q", files[0].Name())
	}
}

func TestWalkExtensionFilterIsCaseInsensitive(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "repo", "upper.YAML"), "x")

	files, _, err := scan.Walk(root, []string{".yaml"})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected upper-case extension to match, got %d files", len(files))
	}
}

func TestWalkMissingRootFails(t *testing.T) {
	if _, _, err := scan.Walk(filepath.Join(t.TempDir(), "absent"), []string{".yaml"}); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestWalkSkipsUnreadableDirectories(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are ignored for root")
	}
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "repo", "ok.yaml"), "x")
	locked := filepath.Join(root, "repo", "locked")
	if err := os.MkdirAll(locked, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(locked, "hidden.yaml"), "y")
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	files, skipped, err := scan.Walk(root, []string{".yaml"})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected 1 readable template, got %d", len(files))
	}
	if len(skipped) != 1 {
		t.Fatalf("expected 1 skipped entry, got %v", skipped)
	}
}
