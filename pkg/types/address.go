package types

import (
	"encoding/json"
	"fmt"

	"github.com/Klingon-tech/klingnet-keys/pkg/encoding"
)

// AddressSize is the length of an address in bytes.
const AddressSize = 20

// Address HRP (human-readable part) constants for bech32 encoding.
const (
	MainnetHRP = "kgx"
	TestnetHRP = "tkgx"
)

// Address is the 160-bit public key hash that identifies a wallet key.
type Address [AddressSize]byte

// IsZero returns true if the address is all zeros.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Encode returns the bech32 encoding of the address under hrp.
func (a Address) Encode(hrp string) (string, error) {
	return encoding.Bech32Encode(hrp, a[:])
}

// String returns the mainnet bech32 address (e.g. "kgx1...").
func (a Address) String() string {
	s, err := a.Encode(MainnetHRP)
	if err != nil {
		return MainnetHRP + ":" + a.Hex()
	}
	return s
}

// Hex returns the raw hex-encoded address without prefix.
func (a Address) Hex() string {
	return encoding.HexEncode(a[:])
}

// Bytes returns a copy of the address as a byte slice.
func (a Address) Bytes() []byte {
	b := make([]byte, AddressSize)
	copy(b, a[:])
	return b
}

// MarshalJSON encodes the address as a mainnet bech32 string.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts a bech32 or raw hex address string.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*a = Address{}
		return nil
	}
	parsed, _, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAddress parses a bech32 address ("kgx1...", "tkgx1...") or a raw
// 40-character hex address, returning the HRP it was encoded under.
// Raw hex addresses report an empty HRP.
func ParseAddress(s string) (Address, string, error) {
	var a Address
	if s == "" {
		return a, "", fmt.Errorf("%w: empty address", encoding.ErrInvalidEncoding)
	}

	if len(s) == AddressSize*2 {
		if b, err := encoding.HexDecode(s); err == nil {
			copy(a[:], b)
			return a, "", nil
		}
	}

	hrp, data, err := encoding.Bech32Decode(s)
	if err != nil {
		return a, "", fmt.Errorf("parse address: %w", err)
	}
	if hrp != MainnetHRP && hrp != TestnetHRP {
		return a, "", fmt.Errorf("%w: unknown address prefix %q", encoding.ErrInvalidEncoding, hrp)
	}
	if len(data) != AddressSize {
		return a, "", fmt.Errorf("%w: address must be %d bytes, got %d", encoding.ErrInvalidEncoding, AddressSize, len(data))
	}
	copy(a[:], data)
	return a, hrp, nil
}
