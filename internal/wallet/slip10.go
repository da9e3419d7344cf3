package wallet

import (
	"crypto/hmac"
	"crypto/sha512"

	"github.com/Klingon-tech/klingnet-keys/pkg/crypto"
)

// SLIP-10 master key HMAC key for the ed25519 curve.
const ed25519SeedKey = "ed25519 seed"

// masterEd25519 expands a seed into the SLIP-10 ed25519 master key:
// I = HMAC-SHA512("ed25519 seed", seed), secret = I[:32], chain = I[32:].
func masterEd25519(seed []byte) (*KeyPair, error) {
	mac := hmac.New(sha512.New, []byte(ed25519SeedKey))
	mac.Write(seed)
	return splitEd25519(mac.Sum(nil), 0, 0, [crypto.FingerprintSize]byte{})
}

// deriveEd25519 computes a hardened SLIP-10 child:
// I = HMAC-SHA512(chain, 0x00 || secret || ser32(index)).
func (k *KeyPair) deriveEd25519(index uint32) (*KeyPair, error) {
	if index < HardenedOffset {
		return nil, ErrNonHardenedIndex
	}

	data := make([]byte, 0, 1+len(k.secret)+4)
	data = append(data, 0x00)
	data = append(data, k.secret...)
	data = append(data, ser32(index)...)
	defer crypto.ZeroBytes(data)

	mac := hmac.New(sha512.New, k.chainCode)
	mac.Write(data)
	return splitEd25519(mac.Sum(nil), k.depth+1, index, k.Fingerprint())
}

// splitEd25519 turns a 64-byte HMAC output into a key pair and wipes it.
func splitEd25519(sum []byte, depth uint8, index uint32, parentFP [crypto.FingerprintSize]byte) (*KeyPair, error) {
	defer crypto.ZeroBytes(sum)
	secret := append([]byte(nil), sum[:32]...)
	chain := append([]byte(nil), sum[32:]...)
	return newKeyPair(SchemeEd25519, secret, chain, depth, index, parentFP)
}
