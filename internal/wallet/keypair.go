package wallet

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/Klingon-tech/klingnet-keys/config"
	"github.com/Klingon-tech/klingnet-keys/pkg/crypto"
	"github.com/Klingon-tech/klingnet-keys/pkg/encoding"
	"github.com/Klingon-tech/klingnet-keys/pkg/types"
	"github.com/rs/zerolog"
)

// Scheme selects the signature curve of a key pair.
type Scheme uint8

const (
	// SchemeEd25519 derives keys with SLIP-10 and signs with Ed25519.
	SchemeEd25519 Scheme = iota + 1
	// SchemeSecp256k1 derives keys with BIP-32 and signs with Schnorr.
	SchemeSecp256k1
)

// String returns the configuration name of the scheme.
func (s Scheme) String() string {
	switch s {
	case SchemeEd25519:
		return config.SchemeEd25519
	case SchemeSecp256k1:
		return config.SchemeSecp256k1
	default:
		return fmt.Sprintf("scheme(%d)", uint8(s))
	}
}

// ParseScheme maps a wallet.scheme setting to a Scheme.
func ParseScheme(name string) (Scheme, error) {
	switch strings.ToLower(name) {
	case config.SchemeEd25519, "":
		return SchemeEd25519, nil
	case config.SchemeSecp256k1:
		return SchemeSecp256k1, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedScheme, name)
	}
}

// chainCodeSize is the length of a derivation chain code.
const chainCodeSize = 32

// KeyPair is a derived signing key. The private secret is only reachable
// through WithPrivateKey and is wiped by Zero. A KeyPair is owned by the
// caller that derived it.
type KeyPair struct {
	scheme    Scheme
	secret    []byte // nil for public-only copies
	public    []byte
	chainCode []byte // nil when the key cannot derive children
	depth     uint8
	index     uint32
	parentFP  [crypto.FingerprintSize]byte
}

// newKeyPair takes ownership of secret and chainCode and computes the
// public key from the secret.
func newKeyPair(scheme Scheme, secret, chainCode []byte, depth uint8, index uint32, parentFP [crypto.FingerprintSize]byte) (*KeyPair, error) {
	var (
		pub []byte
		err error
	)
	switch scheme {
	case SchemeEd25519:
		pub, err = crypto.Ed25519PublicKey(secret)
	case SchemeSecp256k1:
		pub, err = crypto.Secp256k1PublicKey(secret)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedScheme, scheme)
	}
	if err != nil {
		crypto.ZeroBytes(secret)
		crypto.ZeroBytes(chainCode)
		return nil, err
	}
	return &KeyPair{
		scheme:    scheme,
		secret:    secret,
		public:    pub,
		chainCode: chainCode,
		depth:     depth,
		index:     index,
		parentFP:  parentFP,
	}, nil
}

// DeriveMaster builds the master key pair of a seed. The same seed and
// scheme always give the same key pair.
func DeriveMaster(seed *Seed, scheme Scheme) (*KeyPair, error) {
	if seed == nil {
		return nil, fmt.Errorf("%w: nil seed", ErrInvalidSeed)
	}
	switch scheme {
	case SchemeEd25519:
		return masterEd25519(seed.b[:])
	case SchemeSecp256k1:
		return masterSecp256k1(seed.b[:])
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, scheme)
	}
}

// DeriveChild derives the child key at index. Add HardenedOffset for
// hardened derivation; ed25519 keys accept hardened indices only.
func (k *KeyPair) DeriveChild(index uint32) (*KeyPair, error) {
	if k.secret == nil {
		return nil, ErrPublicOnly
	}
	if k.chainCode == nil {
		return nil, ErrNotDerivable
	}
	if k.depth == math.MaxUint8 {
		return nil, fmt.Errorf("%w: maximum depth %d reached", ErrInvalidPath, math.MaxUint8)
	}
	var (
		child *KeyPair
		err   error
	)
	switch k.scheme {
	case SchemeEd25519:
		child, err = k.deriveEd25519(index)
	case SchemeSecp256k1:
		child, err = k.deriveSecp256k1(index)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedScheme, k.scheme)
	}
	if err != nil {
		return nil, fmt.Errorf("derive child %s: %w", formatIndex(index), err)
	}
	return child, nil
}

// DerivePath derives a key along path. Intermediate keys are wiped.
func (k *KeyPair) DerivePath(path Path) (*KeyPair, error) {
	current := k
	for _, idx := range path {
		child, err := current.DeriveChild(idx)
		if current != k {
			current.Zero()
		}
		if err != nil {
			return nil, err
		}
		current = child
	}
	if current == k {
		return k.clone(), nil
	}
	return current, nil
}

// Scheme returns the key's signature scheme.
func (k *KeyPair) Scheme() Scheme {
	return k.scheme
}

// PublicKey returns a copy of the public key: 32 bytes for ed25519,
// 33 compressed bytes for secp256k1.
func (k *KeyPair) PublicKey() []byte {
	return append([]byte(nil), k.public...)
}

// PublicKeyHex returns the lowercase hex public key.
func (k *KeyPair) PublicKeyHex() string {
	return encoding.HexEncode(k.public)
}

// Depth returns the derivation depth (0 for master).
func (k *KeyPair) Depth() uint8 {
	return k.depth
}

// Index returns the child index this key was derived at.
func (k *KeyPair) Index() uint32 {
	return k.index
}

// ParentFingerprint returns the fingerprint of the parent key (zero for
// master keys).
func (k *KeyPair) ParentFingerprint() [crypto.FingerprintSize]byte {
	return k.parentFP
}

// Fingerprint returns BLAKE3(public key)[:4].
func (k *KeyPair) Fingerprint() [crypto.FingerprintSize]byte {
	return crypto.Fingerprint(k.public)
}

// Address returns BLAKE3(public key)[:20].
func (k *KeyPair) Address() types.Address {
	return crypto.AddressFromPubKey(k.public)
}

// IsPrivate reports whether the key still holds private material.
func (k *KeyPair) IsPrivate() bool {
	return k.secret != nil
}

// WithPrivateKey calls fn with the 32-byte private secret. fn must not
// retain the slice after it returns.
func (k *KeyPair) WithPrivateKey(fn func(secret []byte) error) error {
	if k.secret == nil {
		return ErrPublicOnly
	}
	return fn(k.secret)
}

// Sign signs msg. Ed25519 signs the message directly; secp256k1 produces
// a Schnorr signature over BLAKE3-256(msg).
func (k *KeyPair) Sign(msg []byte) ([]byte, error) {
	if k.secret == nil {
		return nil, ErrPublicOnly
	}
	switch k.scheme {
	case SchemeEd25519:
		return crypto.SignEd25519(k.secret, msg)
	case SchemeSecp256k1:
		signer, err := crypto.NewSchnorrKey(k.secret)
		if err != nil {
			return nil, err
		}
		defer signer.Zero()
		h := crypto.Hash(msg)
		return signer.Sign(h[:])
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, k.scheme)
	}
}

// Verifier returns the signature verifier matching the key's scheme.
func (k *KeyPair) Verifier() crypto.Verifier {
	if k.scheme == SchemeSecp256k1 {
		return crypto.SchnorrVerifier{}
	}
	return crypto.Ed25519Verifier{}
}

// Verify checks a signature produced by Sign against this key.
func (k *KeyPair) Verify(msg, signature []byte) bool {
	return k.Verifier().Verify(msg, signature, k.public)
}

// Public returns a copy holding only the public key and position.
func (k *KeyPair) Public() *KeyPair {
	return &KeyPair{
		scheme:   k.scheme,
		public:   k.PublicKey(),
		depth:    k.depth,
		index:    k.index,
		parentFP: k.parentFP,
	}
}

// Zero wipes the private secret and chain code. The key keeps its public
// half and stops being able to sign or derive.
func (k *KeyPair) Zero() {
	if k == nil {
		return
	}
	crypto.ZeroBytes(k.secret)
	crypto.ZeroBytes(k.chainCode)
	k.secret = nil
	k.chainCode = nil
}

// String describes the key without revealing private material.
func (k *KeyPair) String() string {
	fp := k.Fingerprint()
	return fmt.Sprintf("%s key %s depth=%d index=%s", k.scheme, encoding.HexEncode(fp[:]), k.depth, formatIndex(k.index))
}

// MarshalZerologObject logs public metadata only.
func (k *KeyPair) MarshalZerologObject(ev *zerolog.Event) {
	fp := k.Fingerprint()
	ev.Str("scheme", k.scheme.String()).
		Str("fingerprint", encoding.HexEncode(fp[:])).
		Uint8("depth", k.depth).
		Str("index", formatIndex(k.index)).
		Bool("private", k.secret != nil)
}

func (k *KeyPair) clone() *KeyPair {
	c := *k
	c.secret = append([]byte(nil), k.secret...)
	c.public = append([]byte(nil), k.public...)
	if k.chainCode != nil {
		c.chainCode = append([]byte(nil), k.chainCode...)
	}
	return &c
}

// ser32 encodes a child index big-endian.
func ser32(i uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], i)
	return b[:]
}
