package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Size is the digest length in bytes.
const Size = sha256.Size

// Fingerprint is a fixed-size content digest.
type Fingerprint [Size]byte

// Hex returns the lowercase hexadecimal form.
func (f Fingerprint) Hex() string {
	return hex.EncodeToString(f[:])
}

// Short returns the first eight hex characters, used for collision-safe
// destination naming.
func (f Fingerprint) Short() string {
	return f.Hex()[:8]
}

func (f Fingerprint) String() string { return f.Hex() }

// Compute digests the full reader contents.
func Compute(r io.Reader) (Fingerprint, error) {
	hasher := sha256.New()
	if _, err := io.Copy(hasher, r); err != nil {
		return Fingerprint{}, err
	}
	var fp Fingerprint
	copy(fp[:], hasher.Sum(nil))
	return fp, nil
}

// Bytes digests an in-memory payload.
func Bytes(data []byte) Fingerprint {
	return Fingerprint(sha256.Sum256(data))
}

// File digests the file at path without loading it into memory.
func File(path string) (Fingerprint, error) {
	file, err := os.Open(path)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	fp, err := Compute(file)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("digest %s: %w", path, err)
	}
	return fp, nil
}

// Parse converts a hex string back into a Fingerprint.
func Parse(s string) (Fingerprint, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("parse fingerprint %q: %w", s, err)
	}
	if len(raw) != Size {
		return Fingerprint{}, fmt.Errorf("parse fingerprint %q: expected %d bytes, got %d", s, Size, len(raw))
	}
	var fp Fingerprint
	copy(fp[:], raw)
	return fp, nil
}
