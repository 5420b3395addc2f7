// Package key defines the content-addressed identity used throughout the
// Merkle-DAG: a 32-byte BLAKE2b-256 digest of an oxide's canonical CBOR
// encoding.
package key

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Size is the length in bytes of a Key.
const Size = 32

// Key is the content-hash identity of an oxide's canonical encoding.
// Two oxides with the same canonical bytes have the same Key; this is the
// sole notion of equality the DAG relies on for deduplication.
type Key [Size]byte

// Zero is the all-zero key. It is never produced by Hash and is used as a
// sentinel for "no key" in call sites that need one (e.g. unset fields in
// test fixtures).
var Zero Key

// Hash computes the Key of a canonical byte encoding.
func Hash(canonicalBytes []byte) Key {
	digest := blake2b.Sum256(canonicalBytes)
	var k Key
	copy(k[:], digest[:Size])
	return k
}

// IsZero reports whether k is the zero key.
func (k Key) IsZero() bool {
	return k == Zero
}

// Bytes returns the key's raw bytes.
func (k Key) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, k[:])
	return b
}

// String renders the key as lowercase hex, the form used in logs and in
// debug dumps.
func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

// FromBytes builds a Key from exactly Size raw bytes.
func FromBytes(b []byte) (Key, error) {
	var k Key
	if len(b) != Size {
		return k, fmt.Errorf("key: expected %d bytes, got %d", Size, len(b))
	}
	copy(k[:], b)
	return k, nil
}

// Parse decodes a hex-encoded key, as produced by String.
func Parse(s string) (Key, error) {
	var k Key
	b, err := hex.DecodeString(s)
	if err != nil {
		return k, fmt.Errorf("key: invalid hex %q: %w", s, err)
	}
	return FromBytes(b)
}
