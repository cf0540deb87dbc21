// Package organize places surviving templates into their category buckets
// beneath the library root.
//
// Each template lands under exactly one <library>/<category>/ directory.
// Placement is idempotent: a destination that already holds the same
// fingerprint is skipped, so repeated runs over the same deduplicated set
// never accumulate copies. Distinct templates competing for the same file
// name are disambiguated with a short fingerprint fragment; a fragment
// collision with yet another fingerprint is surfaced as a per-file error,
// never a silent overwrite. Write failures are reported per file and do not
// abort the pass.
package organize
