package wallet

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/binary"
	"fmt"

	"github.com/Klingon-tech/klingnet-keys/pkg/crypto"
)

// sealVersion tags the sealed key payload layout.
const sealVersion = 1

// Sealed payload: version(1) | scheme(1) | depth(1) | index(4) |
// parentFP(4) | chainCode(32) | secret(32).
const sealedPayloadSize = 1 + 1 + 1 + 4 + crypto.FingerprintSize + chainCodeSize + crypto.SecretSize

// SealKeyPair encrypts a private key pair, including its chain code and
// position, under password. The blob is returned to the caller; nothing is
// written to disk.
func SealKeyPair(k *KeyPair, password []byte, params EncryptionParams) ([]byte, error) {
	if k.secret == nil {
		return nil, ErrPublicOnly
	}
	if k.chainCode == nil {
		return nil, ErrNotDerivable
	}

	payload := make([]byte, 0, sealedPayloadSize)
	payload = append(payload, sealVersion, byte(k.scheme), k.depth)
	payload = binary.BigEndian.AppendUint32(payload, k.index)
	payload = append(payload, k.parentFP[:]...)
	payload = append(payload, k.chainCode...)
	payload = append(payload, k.secret...)
	defer crypto.ZeroBytes(payload)

	return Encrypt(payload, password, params)
}

// OpenKeyPair decrypts a blob produced by SealKeyPair.
func OpenKeyPair(sealed, password []byte) (*KeyPair, error) {
	payload, err := Decrypt(sealed, password)
	if err != nil {
		return nil, err
	}
	defer crypto.ZeroBytes(payload)

	if len(payload) != sealedPayloadSize {
		return nil, fmt.Errorf("%w: payload is %d bytes, want %d", ErrDecrypt, len(payload), sealedPayloadSize)
	}
	if payload[0] != sealVersion {
		return nil, fmt.Errorf("%w: unknown payload version %d", ErrDecrypt, payload[0])
	}

	scheme := Scheme(payload[1])
	depth := payload[2]
	index := binary.BigEndian.Uint32(payload[3:7])
	var parentFP [crypto.FingerprintSize]byte
	off := 7
	copy(parentFP[:], payload[off:off+crypto.FingerprintSize])
	off += crypto.FingerprintSize
	chain := append([]byte(nil), payload[off:off+chainCodeSize]...)
	off += chainCodeSize
	secret := append([]byte(nil), payload[off:off+crypto.SecretSize]...)

	return newKeyPair(scheme, secret, chain, depth, index, parentFP)
}

// MarshalPKCS8 encodes an ed25519 private key as PKCS#8 DER. The caller
// owns and must wipe the result. Secp256k1 keys are not representable.
func MarshalPKCS8(k *KeyPair) ([]byte, error) {
	if k.scheme != SchemeEd25519 {
		return nil, fmt.Errorf("%w: PKCS#8 export supports ed25519 only", ErrUnsupportedScheme)
	}
	if k.secret == nil {
		return nil, ErrPublicOnly
	}
	priv := ed25519.NewKeyFromSeed(k.secret)
	defer crypto.ZeroBytes(priv)
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, fmt.Errorf("marshal pkcs8: %w", err)
	}
	return der, nil
}

// ParsePKCS8 imports an ed25519 PKCS#8 key. The result can sign but not
// derive children, since PKCS#8 carries no chain code.
func ParsePKCS8(der []byte) (*KeyPair, error) {
	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("parse pkcs8: %w", err)
	}
	priv, ok := key.(ed25519.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedScheme, key)
	}
	defer crypto.ZeroBytes(priv)
	return newKeyPair(SchemeEd25519, append([]byte(nil), priv.Seed()...), nil, 0, 0, [crypto.FingerprintSize]byte{})
}
