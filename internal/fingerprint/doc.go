// Package fingerprint computes content-addressed identities for template
// files.
//
// A fingerprint is the SHA-256 digest of a file's raw bytes, so identical
// content always yields the same identity regardless of path or originating
// repository, and distinct content collides only with cryptographically
// negligible probability at the target scale.
package fingerprint
