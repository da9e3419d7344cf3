// Package encoding provides the text encodings used to display and
// transport key material: lowercase hex and checksummed bech32.
package encoding

import (
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrInvalidEncoding is returned when text cannot be decoded.
var ErrInvalidEncoding = errors.New("invalid encoding")

// HexEncode returns the lowercase hex encoding of b, without a 0x prefix.
// It never fails.
func HexEncode(b []byte) string {
	return hex.EncodeToString(b)
}

// HexDecode decodes a hex string. Odd-length input and any character
// outside [0-9a-fA-F] yield ErrInvalidEncoding.
func HexDecode(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: odd hex length %d", ErrInvalidEncoding, len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return b, nil
}

// HexDecodeFixed decodes a hex string that must hold exactly size bytes.
func HexDecodeFixed(s string, size int) ([]byte, error) {
	b, err := HexDecode(s)
	if err != nil {
		return nil, err
	}
	if len(b) != size {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidEncoding, size, len(b))
	}
	return b, nil
}
