package dedup_test

import (
	"fmt"
	"sync"
	"testing"

	"curator/internal/dedup"
	"curator/internal/fingerprint"
	"curator/internal/scan"
)

func entry(seq int, path, content string) dedup.Entry {
	return dedup.Entry{
		File:        scan.File{Path: path, Rel: path, Seq: seq},
		Fingerprint: fingerprint.Bytes([]byte(content)),
	}
}

func TestResolveKeepsOnePerFingerprint(t *testing.T) {
	entries := []dedup.Entry{
		entry(0, "repo-a/wp.yaml", "same"),
		entry(1, "repo-b/copy-of-wp.yaml", "same"),
		entry(2, "repo-b/unique.yaml", "different"),
	}
	survivors, duplicates := dedup.Resolve(entries)
	if len(survivors) != 2 {
		t.Fatalf("expected 2 survivors, got %d", len(survivors))
	}
	if duplicates != 1 {
		t.Fatalf("expected 1 duplicate, got %d", duplicates)
	}
	if survivors[0].File.Path != "repo-a/wp.yaml" {
		t.Fatalf("first in scan order should survive, got %q", survivors[0].File.Path)
	}
}

func TestResolveFirstInScanOrderWinsRegardlessOfInputOrder(t *testing.T) {
	// Entries arrive out of sequence, as they would from parallel workers.
	entries := []dedup.Entry{
		entry(5, "repo-c/late.yaml", "same"),
		entry(1, "repo-a/early.yaml", "same"),
		entry(3, "repo-b/middle.yaml", "same"),
	}
	survivors, duplicates := dedup.Resolve(entries)
	if len(survivors) != 1 || duplicates != 2 {
		t.Fatalf("expected 1 survivor and 2 duplicates, got %d and %d", len(survivors), duplicates)
	}
	if survivors[0].File.Seq != 1 {
		t.Fatalf("expected sequence 1 to survive, got %d", survivors[0].File.Seq)
	}
}

func TestResolveDistinctContentAllSurvive(t *testing.T) {
	entries := make([]dedup.Entry, 0, 50)
	for i := 0; i < 50; i++ {
		entries = append(entries, entry(i, fmt.Sprintf("repo/t%d.yaml", i), fmt.Sprintf("content %d", i)))
	}
	survivors, duplicates := dedup.Resolve(entries)
	if len(survivors) != 50 || duplicates != 0 {
		t.Fatalf("expected all 50 to survive, got %d survivors and %d duplicates", len(survivors), duplicates)
	}
	for i, s := range survivors {
		if s.File.Seq != i {
			t.Fatalf("survivors not in scan order at %d: seq %d", i, s.File.Seq)
		}
	}
}

func TestIndexConcurrentObserve(t *testing.T) {
	index := dedup.NewIndex()
	fp := fingerprint.Bytes([]byte("shared"))

	var wg sync.WaitGroup
	for seq := 0; seq < 64; seq++ {
		wg.Add(1)
		go func(seq int) {
			defer wg.Done()
			index.Observe(fp, seq)
		}(seq)
	}
	wg.Wait()

	keeper, ok := index.Keeper(fp)
	if !ok || keeper != 0 {
		t.Fatalf("expected smallest sequence 0 to win, got %d (ok=%v)", keeper, ok)
	}
	if index.Unique() != 1 {
		t.Fatalf("expected one unique fingerprint, got %d", index.Unique())
	}
}
