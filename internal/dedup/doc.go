// Package dedup retains exactly one representative per distinct content
// fingerprint.
//
// Fingerprinting runs across parallel workers, so arrival order at the shared
// index is nondeterministic. The index therefore keeps the smallest scan
// sequence observed per fingerprint, and Resolve selects survivors from that
// record afterwards; the first file in scan order always wins regardless of
// worker interleaving. Memory is proportional to the number of unique
// fingerprints, with average O(1) index operations.
package dedup
