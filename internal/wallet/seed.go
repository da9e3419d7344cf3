package wallet

import (
	"crypto/sha512"
	"crypto/subtle"
	"fmt"

	"github.com/Klingon-tech/klingnet-keys/pkg/crypto"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/text/unicode/norm"
)

// SeedSize is the length of a derived seed in bytes (512 bits).
const SeedSize = 64

// Key stretching parameters (BIP-39).
const (
	seedIterations = 2048
	seedSaltPrefix = "mnemonic"
)

// Seed is the 64-byte input to key derivation. Hold it by pointer and call
// Zero once the master key has been derived.
type Seed struct {
	b [SeedSize]byte
}

// DeriveSeed stretches a mnemonic and optional passphrase into a seed using
// PBKDF2-HMAC-SHA512 with 2048 iterations. Phrase and passphrase are
// NFKD-normalized; the salt is "mnemonic" followed by the passphrase.
// The function is pure: equal inputs always give equal seeds.
func DeriveSeed(m *Mnemonic, passphrase string) *Seed {
	phrase := m.phraseBytes()
	defer crypto.ZeroBytes(phrase)

	// Bytes may return its argument unchanged; both are wiped.
	password := norm.NFKD.Bytes(phrase)
	defer crypto.ZeroBytes(password)

	salt := append([]byte(seedSaltPrefix), norm.NFKD.String(passphrase)...)
	defer crypto.ZeroBytes(salt)

	key := pbkdf2.Key(password, salt, seedIterations, SeedSize, sha512.New)
	defer crypto.ZeroBytes(key)

	s := &Seed{}
	copy(s.b[:], key)
	return s
}

// SeedFromPhrase validates phrase with codec and derives its seed.
func SeedFromPhrase(codec *Codec, phrase, passphrase string) (*Seed, error) {
	m, err := ParseMnemonic(phrase)
	if err != nil {
		return nil, fmt.Errorf("parse mnemonic: %w", err)
	}
	defer m.Zero()

	e, err := codec.Decode(m)
	if err != nil {
		return nil, fmt.Errorf("decode mnemonic: %w", err)
	}
	e.Zero()

	return DeriveSeed(m, passphrase), nil
}

// SeedFromBytes copies a 64-byte seed.
func SeedFromBytes(b []byte) (*Seed, error) {
	if len(b) != SeedSize {
		return nil, fmt.Errorf("%w: must be %d bytes, got %d", ErrInvalidSeed, SeedSize, len(b))
	}
	s := &Seed{}
	copy(s.b[:], b)
	return s, nil
}

// Bytes returns a copy of the seed. The caller owns and must wipe it.
func (s *Seed) Bytes() []byte {
	out := make([]byte, SeedSize)
	copy(out, s.b[:])
	return out
}

// Equal reports whether two seeds match, in constant time.
func (s *Seed) Equal(other *Seed) bool {
	if s == nil || other == nil {
		return s == other
	}
	return subtle.ConstantTimeCompare(s.b[:], other.b[:]) == 1
}

// Zero wipes the seed.
func (s *Seed) Zero() {
	if s == nil {
		return
	}
	crypto.ZeroBytes(s.b[:])
}

// MarshalZerologObject logs the seed size only.
func (s *Seed) MarshalZerologObject(ev *zerolog.Event) {
	ev.Int("bytes", SeedSize)
}
