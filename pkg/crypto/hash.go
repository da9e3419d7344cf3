// Package crypto provides the hashing, signing and zeroization primitives
// used by the key derivation packages.
package crypto

import (
	"github.com/Klingon-tech/klingnet-keys/pkg/types"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/sha3"
)

// FingerprintSize is the length of a key fingerprint in bytes.
const FingerprintSize = 4

// Digest computes the SHA3-384 digest of the input data.
// It backs mnemonic checksums and is exposed as a general integrity primitive.
func Digest(data []byte) types.Digest {
	return sha3.Sum384(data)
}

// Hash computes a BLAKE3-256 hash of the input data.
func Hash(data []byte) types.Hash {
	return blake3.Sum256(data)
}

// AddressFromPubKey derives an address from a public key.
// Address = BLAKE3(pubkey)[:20].
func AddressFromPubKey(pubKey []byte) types.Address {
	h := Hash(pubKey)
	var addr types.Address
	copy(addr[:], h[:types.AddressSize])
	return addr
}

// Fingerprint returns the first four bytes of BLAKE3(pubkey). It identifies
// a key in logs and parent links without revealing the key itself.
func Fingerprint(pubKey []byte) [FingerprintSize]byte {
	h := Hash(pubKey)
	var fp [FingerprintSize]byte
	copy(fp[:], h[:FingerprintSize])
	return fp
}
