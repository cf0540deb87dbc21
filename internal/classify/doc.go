// Package classify assigns each surviving template to exactly one taxonomy
// category.
//
// Matching is deterministic: categories are tested in taxonomy document
// order and the first category with any satisfied keyword wins. A keyword is
// satisfied by an exact match against the template's parsed nuclei info.tags
// or by a case-insensitive substring match against the repo-relative path,
// the file name, or a bounded window of raw content bytes. Matching never
// fails; templates matching nothing land in the "other" bucket. Content is
// treated as raw bytes throughout, so binary or non-UTF8 templates degrade
// to path-and-name matching rather than erroring.
package classify
