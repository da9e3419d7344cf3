package wallet

import (
	"fmt"

	"github.com/Klingon-tech/klingnet-keys/pkg/crypto"
	"github.com/tyler-smith/go-bip32"
)

// masterSecp256k1 creates a BIP-32 master key from a seed.
func masterSecp256k1(seed []byte) (*KeyPair, error) {
	master, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("create master key: %w", err)
	}
	defer wipeBIP32(master)
	return fromBIP32(master, 0, 0, [crypto.FingerprintSize]byte{})
}

// deriveSecp256k1 derives a BIP-32 child. Both hardened and normal
// indices are supported.
func (k *KeyPair) deriveSecp256k1(index uint32) (*KeyPair, error) {
	parent := k.toBIP32()
	defer wipeBIP32(parent)

	child, err := parent.NewChildKey(index)
	if err != nil {
		return nil, err
	}
	defer wipeBIP32(child)
	return fromBIP32(child, k.depth+1, index, k.Fingerprint())
}

// toBIP32 builds a go-bip32 private key from copies of this key's material.
// Callers wipe the result with wipeBIP32.
func (k *KeyPair) toBIP32() *bip32.Key {
	return &bip32.Key{
		Version:     bip32.PrivateWalletVersion,
		Depth:       k.depth,
		ChildNumber: ser32(k.index),
		FingerPrint: append([]byte(nil), k.parentFP[:]...),
		ChainCode:   append([]byte(nil), k.chainCode...),
		Key:         append([]byte(nil), k.secret...),
		IsPrivate:   true,
	}
}

// fromBIP32 copies a go-bip32 private key into a KeyPair.
func fromBIP32(key *bip32.Key, depth uint8, index uint32, parentFP [crypto.FingerprintSize]byte) (*KeyPair, error) {
	if !key.IsPrivate {
		return nil, ErrPublicOnly
	}
	secret, err := scalar32(key.Key)
	if err != nil {
		return nil, err
	}
	chain := append([]byte(nil), key.ChainCode...)
	if len(chain) != chainCodeSize {
		crypto.ZeroBytes(secret)
		crypto.ZeroBytes(chain)
		return nil, fmt.Errorf("chain code must be %d bytes, got %d", chainCodeSize, len(chain))
	}
	return newKeyPair(SchemeSecp256k1, secret, chain, depth, index, parentFP)
}

// scalar32 normalizes a go-bip32 private key to 32 bytes. The library may
// hand back 33 bytes with a leading zero, or fewer than 32 when the scalar
// has leading zero bytes.
func scalar32(raw []byte) ([]byte, error) {
	if len(raw) == 33 && raw[0] == 0 {
		raw = raw[1:]
	}
	if len(raw) > crypto.SecretSize {
		return nil, fmt.Errorf("private key must be at most %d bytes, got %d", crypto.SecretSize, len(raw))
	}
	out := make([]byte, crypto.SecretSize)
	copy(out[crypto.SecretSize-len(raw):], raw)
	return out, nil
}

func wipeBIP32(key *bip32.Key) {
	if key == nil {
		return
	}
	crypto.ZeroBytes(key.Key)
	crypto.ZeroBytes(key.ChainCode)
}
