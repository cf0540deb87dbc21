// Package catalog persists consolidation run history in SQLite.
//
// Each run records its identifier, timing, and totals alongside the
// per-category distribution, so `curator history` can compare runs and tests
// can assert idempotence across repeated pipelines. The database is an
// archive of summaries, not of templates; the library tree on disk remains
// the source of truth for organized files. Schema changes bump the version
// in schema.go; users clear the database to adopt the new schema.
package catalog
