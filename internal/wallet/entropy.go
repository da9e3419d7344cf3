package wallet

import (
	"crypto/subtle"
	"fmt"
	"io"

	"github.com/Klingon-tech/klingnet-keys/pkg/crypto"
	"github.com/rs/zerolog"
	"github.com/tyler-smith/go-bip39"
)

// Supported entropy sizes in bytes and the mnemonic length each produces.
var entropyWordCounts = map[int]int{
	16: 12,
	20: 15,
	24: 18,
	28: 21,
	32: 24,
}

// Entropy is the random root of a derivation chain. It owns its bytes;
// call Zero once the mnemonic has been produced.
type Entropy struct {
	b []byte
}

// GenerateEntropy reads byteLength bytes from the operating system CSPRNG.
// byteLength must be 16, 20, 24, 28 or 32.
func GenerateEntropy(byteLength int) (*Entropy, error) {
	if _, ok := entropyWordCounts[byteLength]; !ok {
		return nil, fmt.Errorf("%w: %d bytes", ErrUnsupportedLength, byteLength)
	}
	b, err := bip39.NewEntropy(byteLength * 8)
	if err != nil {
		return nil, fmt.Errorf("generate entropy: %w", err)
	}
	return &Entropy{b: b}, nil
}

// GenerateEntropyFrom reads byteLength bytes from r. It has the same length
// contract as GenerateEntropy; r must be a cryptographically secure source
// outside of tests.
func GenerateEntropyFrom(r io.Reader, byteLength int) (*Entropy, error) {
	if _, ok := entropyWordCounts[byteLength]; !ok {
		return nil, fmt.Errorf("%w: %d bytes", ErrUnsupportedLength, byteLength)
	}
	b := make([]byte, byteLength)
	if _, err := io.ReadFull(r, b); err != nil {
		crypto.ZeroBytes(b)
		return nil, fmt.Errorf("read entropy: %w", err)
	}
	return &Entropy{b: b}, nil
}

// EntropyFromBytes copies b into a new Entropy after checking its length.
func EntropyFromBytes(b []byte) (*Entropy, error) {
	if _, ok := entropyWordCounts[len(b)]; !ok {
		return nil, fmt.Errorf("%w: %d bytes", ErrUnsupportedLength, len(b))
	}
	return &Entropy{b: append([]byte(nil), b...)}, nil
}

// EntropyBytesForWords returns the entropy size behind a mnemonic length.
func EntropyBytesForWords(words int) (int, error) {
	for n, w := range entropyWordCounts {
		if w == words {
			return n, nil
		}
	}
	return 0, fmt.Errorf("%w: %d", ErrInvalidWordCount, words)
}

// WordsForEntropyBytes returns the mnemonic length for an entropy size.
func WordsForEntropyBytes(byteLength int) (int, error) {
	w, ok := entropyWordCounts[byteLength]
	if !ok {
		return 0, fmt.Errorf("%w: %d bytes", ErrUnsupportedLength, byteLength)
	}
	return w, nil
}

// Len returns the entropy size in bytes.
func (e *Entropy) Len() int {
	return len(e.b)
}

// Bytes returns a copy of the entropy. The caller owns and must wipe it.
func (e *Entropy) Bytes() []byte {
	return append([]byte(nil), e.b...)
}

// Equal reports whether two entropy values match, in constant time.
func (e *Entropy) Equal(other *Entropy) bool {
	if e == nil || other == nil {
		return e == other
	}
	return subtle.ConstantTimeCompare(e.b, other.b) == 1
}

// Zero wipes the entropy bytes.
func (e *Entropy) Zero() {
	if e == nil {
		return
	}
	crypto.ZeroBytes(e.b)
}

// MarshalZerologObject logs the entropy size only.
func (e *Entropy) MarshalZerologObject(ev *zerolog.Event) {
	ev.Int("bytes", len(e.b))
}
