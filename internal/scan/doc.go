// Package scan discovers template files beneath the source root.
//
// The root contains one top-level directory per fetched repository; every
// file matching a configured extension is enumerated in lexical walk order
// and tagged with its repository directory for provenance. The walk order
// defines the scan sequence used for deterministic duplicate tie-breaking:
// the lowest sequence number among identical files survives deduplication.
package scan
