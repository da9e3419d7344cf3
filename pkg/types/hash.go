// Package types defines the fixed-size value types shared by the key
// derivation packages.
package types

import (
	"encoding/json"
	"fmt"

	"github.com/Klingon-tech/klingnet-keys/pkg/encoding"
)

// HashSize is the length of a BLAKE3-256 hash in bytes.
const HashSize = 32

// DigestSize is the length of a SHA3-384 digest in bytes.
const DigestSize = 48

// Hash represents a 256-bit hash value.
type Hash [HashSize]byte

// Digest represents a 384-bit digest value.
type Digest [DigestSize]byte

// IsZero returns true if the hash is all zeros.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// String returns the hex-encoded hash.
func (h Hash) String() string {
	return encoding.HexEncode(h[:])
}

// Bytes returns a copy of the hash as a byte slice.
func (h Hash) Bytes() []byte {
	b := make([]byte, HashSize)
	copy(b, h[:])
	return b
}

// MarshalJSON encodes the hash as a hex string.
func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// UnmarshalJSON decodes a hex string into a hash.
func (h *Hash) UnmarshalJSON(data []byte) error {
	return unmarshalHex(data, h[:])
}

// HexToHash converts a 64-character hex string to a Hash.
func HexToHash(s string) (Hash, error) {
	var h Hash
	b, err := encoding.HexDecodeFixed(s, HashSize)
	if err != nil {
		return h, fmt.Errorf("parse hash: %w", err)
	}
	copy(h[:], b)
	return h, nil
}

// IsZero returns true if the digest is all zeros.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// String returns the 96-character lowercase hex digest.
func (d Digest) String() string {
	return encoding.HexEncode(d[:])
}

// Bytes returns a copy of the digest as a byte slice.
func (d Digest) Bytes() []byte {
	b := make([]byte, DigestSize)
	copy(b, d[:])
	return b
}

// MarshalJSON encodes the digest as a hex string.
func (d Digest) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a hex string into a digest.
func (d *Digest) UnmarshalJSON(data []byte) error {
	return unmarshalHex(data, d[:])
}

// HexToDigest converts a 96-character hex string to a Digest.
func HexToDigest(s string) (Digest, error) {
	var d Digest
	b, err := encoding.HexDecodeFixed(s, DigestSize)
	if err != nil {
		return d, fmt.Errorf("parse digest: %w", err)
	}
	copy(d[:], b)
	return d, nil
}

// unmarshalHex fills dst from a JSON hex string. An empty string zeroes dst.
func unmarshalHex(data []byte, dst []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		clear(dst)
		return nil
	}
	b, err := encoding.HexDecodeFixed(s, len(dst))
	if err != nil {
		return err
	}
	copy(dst, b)
	return nil
}
