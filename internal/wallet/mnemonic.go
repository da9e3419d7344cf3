// Package wallet implements deterministic wallet identities: entropy,
// mnemonic phrases, seed stretching and hierarchical key derivation.
package wallet

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"strings"
	"sync"

	"github.com/Klingon-tech/klingnet-keys/config"
	"github.com/Klingon-tech/klingnet-keys/pkg/crypto"
	"github.com/rs/zerolog"
	"github.com/tyler-smith/go-bip39/wordlists"
	"golang.org/x/text/unicode/norm"
)

// wordBits is the number of bits encoded by one mnemonic word.
const wordBits = 11

// ChecksumFunc returns a digest of the entropy. The mnemonic embeds the
// first ENT/32 bits of it, so the digest must be at least one byte long.
type ChecksumFunc func(entropy []byte) []byte

// ChecksumSHA3 takes the checksum from the SHA3-384 digest.
func ChecksumSHA3(entropy []byte) []byte {
	d := crypto.Digest(entropy)
	return d[:]
}

// ChecksumBIP39 takes the checksum from SHA-256, producing phrases that
// standard BIP-39 wallets accept.
func ChecksumBIP39(entropy []byte) []byte {
	h := sha256.Sum256(entropy)
	return h[:]
}

// Codec converts between entropy and mnemonics. It is immutable and safe
// for concurrent use.
type Codec struct {
	name     string
	checksum ChecksumFunc
}

// NewCodec creates a codec with a custom checksum function.
func NewCodec(name string, checksum ChecksumFunc) (*Codec, error) {
	if checksum == nil {
		return nil, fmt.Errorf("codec %q: nil checksum function", name)
	}
	return &Codec{name: name, checksum: checksum}, nil
}

var (
	sha3Codec  = &Codec{name: config.ChecksumSHA3, checksum: ChecksumSHA3}
	bip39Codec = &Codec{name: config.ChecksumBIP39, checksum: ChecksumBIP39}
)

// DefaultCodec returns the SHA3-384 checksum codec.
func DefaultCodec() *Codec {
	return sha3Codec
}

// BIP39Codec returns the SHA-256 checksum codec.
func BIP39Codec() *Codec {
	return bip39Codec
}

// CodecByName returns the codec for a wallet.checksum setting.
func CodecByName(name string) (*Codec, error) {
	switch name {
	case config.ChecksumSHA3, "":
		return sha3Codec, nil
	case config.ChecksumBIP39:
		return bip39Codec, nil
	default:
		return nil, fmt.Errorf("unknown mnemonic checksum %q", name)
	}
}

// Name returns the checksum name.
func (c *Codec) Name() string {
	return c.name
}

// Encode converts entropy into a mnemonic. The same entropy always yields
// the same words.
func (c *Codec) Encode(e *Entropy) (*Mnemonic, error) {
	if e == nil {
		return nil, fmt.Errorf("%w: nil entropy", ErrUnsupportedLength)
	}
	words, ok := entropyWordCounts[len(e.b)]
	if !ok {
		return nil, fmt.Errorf("%w: %d bytes", ErrUnsupportedLength, len(e.b))
	}

	// At most 8 checksum bits, so one digest byte after the entropy
	// covers the whole bit stream.
	cs, err := c.checksumByte(e.b)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, len(e.b)+1)
	copy(buf, e.b)
	buf[len(e.b)] = cs
	defer crypto.ZeroBytes(buf)

	idx := make([]uint16, words)
	for i := range idx {
		idx[i] = readBits(buf, i*wordBits, wordBits)
	}
	return &Mnemonic{idx: idx}, nil
}

// Decode recovers the entropy from a mnemonic, verifying the embedded
// checksum.
func (c *Codec) Decode(m *Mnemonic) (*Entropy, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil mnemonic", ErrInvalidWordCount)
	}
	entLen, err := EntropyBytesForWords(len(m.idx))
	if err != nil {
		return nil, err
	}
	csBits := entLen * 8 / 32

	buf := make([]byte, entLen+1)
	defer crypto.ZeroBytes(buf)
	for i, v := range m.idx {
		writeBits(buf, i*wordBits, wordBits, v)
	}

	ent := buf[:entLen]
	got := buf[entLen] >> (8 - csBits)
	cs, err := c.checksumByte(ent)
	if err != nil {
		return nil, err
	}
	want := cs >> (8 - csBits)
	if subtle.ConstantTimeByteEq(got, want) != 1 {
		return nil, ErrChecksumMismatch
	}
	return &Entropy{b: append([]byte(nil), ent...)}, nil
}

// checksumByte returns the first digest byte, which holds every checksum
// bit for supported entropy sizes.
func (c *Codec) checksumByte(ent []byte) (byte, error) {
	if c.checksum == nil {
		return 0, fmt.Errorf("codec %q: nil checksum function", c.name)
	}
	digest := c.checksum(ent)
	if len(digest) == 0 {
		return 0, fmt.Errorf("codec %q: empty checksum digest", c.name)
	}
	return digest[0], nil
}

// DecodePhrase parses and decodes a mnemonic phrase.
func (c *Codec) DecodePhrase(phrase string) (*Entropy, error) {
	m, err := ParseMnemonic(phrase)
	if err != nil {
		return nil, err
	}
	defer m.Zero()
	return c.Decode(m)
}

// Validate checks word count, words and checksum of a phrase.
func (c *Codec) Validate(phrase string) error {
	e, err := c.DecodePhrase(phrase)
	if err != nil {
		return err
	}
	e.Zero()
	return nil
}

// Generate creates a mnemonic of the given length from fresh OS entropy.
// The entropy is wiped before returning.
func (c *Codec) Generate(words int) (*Mnemonic, error) {
	n, err := EntropyBytesForWords(words)
	if err != nil {
		return nil, err
	}
	e, err := GenerateEntropy(n)
	if err != nil {
		return nil, err
	}
	defer e.Zero()
	return c.Encode(e)
}

// Mnemonic is an ordered sequence of word indices into the English
// BIP-39 wordlist.
type Mnemonic struct {
	idx []uint16
}

// ParseMnemonic splits a phrase on whitespace and resolves each word.
// Input is NFKD-normalized and lowercased first.
func ParseMnemonic(phrase string) (*Mnemonic, error) {
	return NewMnemonic(strings.Fields(strings.ToLower(norm.NFKD.String(phrase))))
}

// NewMnemonic resolves words against the wordlist. The word count is
// checked before any word lookup.
func NewMnemonic(words []string) (*Mnemonic, error) {
	if _, err := EntropyBytesForWords(len(words)); err != nil {
		return nil, err
	}
	idx := make([]uint16, len(words))
	for i, w := range words {
		v, ok := lookupWord(strings.ToLower(norm.NFKD.String(w)))
		if !ok {
			return nil, fmt.Errorf("%w at position %d", ErrUnknownWord, i+1)
		}
		idx[i] = uint16(v)
	}
	return &Mnemonic{idx: idx}, nil
}

// Len returns the number of words.
func (m *Mnemonic) Len() int {
	return len(m.idx)
}

// Words returns the mnemonic words in order.
func (m *Mnemonic) Words() []string {
	list := wordlists.English
	out := make([]string, len(m.idx))
	for i, v := range m.idx {
		out[i] = list[v]
	}
	return out
}

// Phrase returns the words joined by single spaces.
func (m *Mnemonic) Phrase() string {
	return strings.Join(m.Words(), " ")
}

// phraseBytes renders the phrase into a byte slice the caller can wipe.
func (m *Mnemonic) phraseBytes() []byte {
	list := wordlists.English
	var out []byte
	for i, v := range m.idx {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, list[v]...)
	}
	return out
}

// Equal reports whether two mnemonics hold the same words.
func (m *Mnemonic) Equal(other *Mnemonic) bool {
	if m == nil || other == nil {
		return m == other
	}
	if len(m.idx) != len(other.idx) {
		return false
	}
	var diff uint16
	for i := range m.idx {
		diff |= m.idx[i] ^ other.idx[i]
	}
	return diff == 0
}

// Zero wipes the word indices.
func (m *Mnemonic) Zero() {
	if m == nil {
		return
	}
	clear(m.idx)
}

// String redacts the phrase; use Phrase to display it deliberately.
func (m *Mnemonic) String() string {
	return fmt.Sprintf("mnemonic(%d words)", len(m.idx))
}

// MarshalZerologObject logs the word count only.
func (m *Mnemonic) MarshalZerologObject(ev *zerolog.Event) {
	ev.Int("words", len(m.idx))
}

var (
	wordIndexOnce sync.Once
	wordIndex     map[string]int
)

func lookupWord(w string) (int, bool) {
	wordIndexOnce.Do(func() {
		wordIndex = make(map[string]int, len(wordlists.English))
		for i, word := range wordlists.English {
			wordIndex[word] = i
		}
	})
	i, ok := wordIndex[w]
	return i, ok
}

// readBits reads n bits MSB-first starting at bit offset off.
func readBits(buf []byte, off, n int) uint16 {
	var v uint16
	for i := 0; i < n; i++ {
		p := off + i
		v = v<<1 | uint16(buf[p/8]>>(7-p%8)&1)
	}
	return v
}

// writeBits writes the low n bits of v MSB-first at bit offset off.
func writeBits(buf []byte, off, n int, v uint16) {
	for i := 0; i < n; i++ {
		p := off + i
		if v>>(n-1-i)&1 == 1 {
			buf[p/8] |= 1 << (7 - p%8)
		}
	}
}
