// Package consolidate drives the full template consolidation pipeline.
//
// A run walks the source tree, fingerprints files across a bounded worker
// pool, resolves duplicates deterministically, classifies survivors against
// the taxonomy, organizes them into category buckets, and aggregates the
// summary. Per-file failures at any stage are tallied and logged without
// aborting the batch; only configuration problems (missing taxonomy, invalid
// directories, a concurrent run holding the library lock) abort a run.
// Completed runs are recorded in the catalog when one is attached.
package consolidate
