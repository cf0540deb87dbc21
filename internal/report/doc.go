// Package report aggregates per-category counts into the run summary.
//
// Percentages are computed against the surviving (post-dedup) total and sum
// to 100% within rounding tolerance across all categories including "other".
// The summary also carries the arithmetic invariant of a run: surviving +
// duplicates removed + errors = templates scanned.
package report
