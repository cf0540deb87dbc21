// Package taxonomy loads the ordered category-to-keyword mapping that drives
// classification.
//
// The taxonomy is a YAML document mapping category names to keyword lists.
// Document order is authoritative: when a template matches several
// categories, the first one in the document wins, so the taxonomy is
// represented as an ordered slice of categories, never a Go map. The
// fallback category "other" is reserved and may not be declared explicitly.
package taxonomy
