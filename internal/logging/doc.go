// Package logging assembles the structured slog loggers used across curator.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes typed attribute constructors so components emit log
// lines with a consistent shape. A no-op logger is provided for tests and
// wiring code that cannot fail.
package logging
