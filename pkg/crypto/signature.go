package crypto

import (
	"crypto/ed25519"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/schnorr"
)

// SecretSize is the length of a private key secret for both supported
// curves: an Ed25519 seed or a secp256k1 scalar.
const SecretSize = 32

// Verifier checks signatures produced by one signature scheme.
type Verifier interface {
	// Verify checks signature over msg against publicKey.
	Verify(msg, signature, publicKey []byte) bool
}

// SchnorrKey wraps a secp256k1 private key for Schnorr signing.
type SchnorrKey struct {
	key *secp256k1.PrivateKey
}

// NewSchnorrKey creates a SchnorrKey from a 32-byte scalar.
// The scalar is copied; callers remain responsible for wiping their copy.
func NewSchnorrKey(b []byte) (*SchnorrKey, error) {
	if len(b) != SecretSize {
		return nil, fmt.Errorf("private key must be %d bytes, got %d", SecretSize, len(b))
	}
	return &SchnorrKey{key: secp256k1.PrivKeyFromBytes(b)}, nil
}

// Sign produces a Schnorr signature over a 32-byte hash.
func (k *SchnorrKey) Sign(hash []byte) ([]byte, error) {
	if len(hash) != 32 {
		return nil, fmt.Errorf("hash must be 32 bytes, got %d", len(hash))
	}
	sig, err := schnorr.Sign(k.key, hash)
	if err != nil {
		return nil, fmt.Errorf("schnorr sign: %w", err)
	}
	return sig.Serialize(), nil
}

// PublicKey returns the compressed 33-byte public key.
func (k *SchnorrKey) PublicKey() []byte {
	return k.key.PubKey().SerializeCompressed()
}

// Zero securely zeroes the private key memory.
func (k *SchnorrKey) Zero() {
	k.key.Zero()
}

// Secp256k1PublicKey returns the compressed public key for a 32-byte scalar.
func Secp256k1PublicKey(secret []byte) ([]byte, error) {
	k, err := NewSchnorrKey(secret)
	if err != nil {
		return nil, err
	}
	defer k.Zero()
	return k.PublicKey(), nil
}

// VerifySchnorr checks a Schnorr signature against a 32-byte hash
// and a compressed public key. Returns false on any error.
func VerifySchnorr(hash, signature, publicKey []byte) bool {
	pubKey, err := secp256k1.ParsePubKey(publicKey)
	if err != nil {
		return false
	}
	sig, err := schnorr.ParseSignature(signature)
	if err != nil {
		return false
	}
	return sig.Verify(hash, pubKey)
}

// SchnorrVerifier verifies Schnorr signatures over BLAKE3(msg).
type SchnorrVerifier struct{}

// Verify hashes msg with BLAKE3-256 and checks the Schnorr signature.
func (SchnorrVerifier) Verify(msg, signature, publicKey []byte) bool {
	h := Hash(msg)
	return VerifySchnorr(h[:], signature, publicKey)
}

// Ed25519PublicKey returns the 32-byte public key for an Ed25519 seed.
func Ed25519PublicKey(secret []byte) ([]byte, error) {
	if len(secret) != ed25519.SeedSize {
		return nil, fmt.Errorf("ed25519 seed must be %d bytes, got %d", ed25519.SeedSize, len(secret))
	}
	priv := ed25519.NewKeyFromSeed(secret)
	defer ZeroBytes(priv)
	pub := make([]byte, ed25519.PublicKeySize)
	copy(pub, priv[ed25519.SeedSize:])
	return pub, nil
}

// SignEd25519 signs msg with the Ed25519 key expanded from secret.
// The expanded private key is wiped before returning.
func SignEd25519(secret, msg []byte) ([]byte, error) {
	if len(secret) != ed25519.SeedSize {
		return nil, fmt.Errorf("ed25519 seed must be %d bytes, got %d", ed25519.SeedSize, len(secret))
	}
	priv := ed25519.NewKeyFromSeed(secret)
	defer ZeroBytes(priv)
	return ed25519.Sign(priv, msg), nil
}

// VerifyEd25519 checks an Ed25519 signature. Returns false on malformed input.
func VerifyEd25519(msg, signature, publicKey []byte) bool {
	if len(publicKey) != ed25519.PublicKeySize || len(signature) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(publicKey), msg, signature)
}

// Ed25519Verifier verifies Ed25519 signatures over the raw message.
type Ed25519Verifier struct{}

// Verify checks an Ed25519 signature over msg.
func (Ed25519Verifier) Verify(msg, signature, publicKey []byte) bool {
	return VerifyEd25519(msg, signature, publicKey)
}
