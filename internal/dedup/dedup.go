package dedup

import (
	"sort"
	"sync"

	"curator/internal/fingerprint"
	"curator/internal/scan"
)

// Entry pairs a discovered file with its content fingerprint.
type Entry struct {
	File        scan.File
	Fingerprint fingerprint.Fingerprint
}

// Index is a concurrency-safe fingerprint-seen table shared by fingerprinting
// workers.
type Index struct {
	mu     sync.Mutex
	keeper map[fingerprint.Fingerprint]int
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{keeper: make(map[fingerprint.Fingerprint]int)}
}

// Observe records that fp was seen at the given scan sequence, keeping the
// smallest sequence per fingerprint.
func (i *Index) Observe(fp fingerprint.Fingerprint, seq int) {
	i.mu.Lock()
	defer i.mu.Unlock()
	current, ok := i.keeper[fp]
	if !ok || seq < current {
		i.keeper[fp] = seq
	}
}

// Keeper returns the surviving scan sequence for fp.
func (i *Index) Keeper(fp fingerprint.Fingerprint) (int, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	seq, ok := i.keeper[fp]
	return seq, ok
}

// Unique returns the number of distinct fingerprints observed.
func (i *Index) Unique() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.keeper)
}

// Resolve filters entries down to the surviving representative per
// fingerprint and reports how many duplicates were discarded. Survivors are
// returned in scan order.
func Resolve(entries []Entry) (survivors []Entry, duplicates int) {
	index := NewIndex()
	for _, entry := range entries {
		index.Observe(entry.Fingerprint, entry.File.Seq)
	}
	return ResolveWith(index, entries)
}

// ResolveWith selects survivors using a pre-populated index, for callers that
// already observed fingerprints during a parallel pass.
func ResolveWith(index *Index, entries []Entry) (survivors []Entry, duplicates int) {
	survivors = make([]Entry, 0, index.Unique())
	for _, entry := range entries {
		keeper, ok := index.Keeper(entry.Fingerprint)
		if !ok {
			// Entries are only built from observed fingerprints.
			continue
		}
		if keeper == entry.File.Seq {
			survivors = append(survivors, entry)
		} else {
			duplicates++
		}
	}
	sort.Slice(survivors, func(a, b int) bool {
		return survivors[a].File.Seq < survivors[b].File.Seq
	})
	return survivors, duplicates
}
