// Package services defines the shared error taxonomy for pipeline stages.
//
// Stage code wraps failures with a sentinel marker plus stage/operation
// context so the CLI and the pipeline driver can classify outcomes without
// string matching. Configuration and validation failures are fatal to a run;
// storage and transient failures are recoverable per file and only tallied.
//
// Always wrap stage errors through this package so the final report and exit
// codes stay consistent across components.
package services
