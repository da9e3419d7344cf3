package wallet

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Klingon-tech/klingnet-keys/config"
	"github.com/Klingon-tech/klingnet-keys/internal/log"
	"github.com/rs/zerolog"
)

// Generator creates and restores identities with a fixed set of wallet
// settings. It is immutable after construction and safe for concurrent use.
type Generator struct {
	codec   *Codec
	scheme  Scheme
	words   int
	account uint32
	hrp     string
	rand    io.Reader // nil reads from the OS CSPRNG
	logger  zerolog.Logger
}

// NewGenerator validates wallet settings and builds a generator.
func NewGenerator(cfg config.WalletConfig) (*Generator, error) {
	if err := config.ValidateWallet(&cfg); err != nil {
		return nil, err
	}
	codec, err := CodecByName(cfg.Checksum)
	if err != nil {
		return nil, err
	}
	scheme, err := ParseScheme(cfg.Scheme)
	if err != nil {
		return nil, err
	}
	return &Generator{
		codec:   codec,
		scheme:  scheme,
		words:   cfg.WordCount,
		account: cfg.Account,
		hrp:     cfg.HRP,
		logger:  log.Wallet,
	}, nil
}

// GeneratorFromConfig validates cfg, initializes logging from its log
// settings and builds a generator whose log lines carry the network. With
// log.file unset, logs go to keys.log under the data directory.
func GeneratorFromConfig(cfg *config.Config) (*Generator, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	g, err := NewGenerator(cfg.Wallet)
	if err != nil {
		return nil, err
	}

	logFile := cfg.LogFile()
	if err := os.MkdirAll(filepath.Dir(logFile), 0700); err != nil {
		return nil, fmt.Errorf("creating logs dir: %w", err)
	}
	if err := log.Init(cfg.Log.Level, cfg.Log.JSON, logFile); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	g.logger = log.WithNetwork(string(cfg.Network)).With().Str("component", "wallet").Logger()
	return g, nil
}

// Codec returns the generator's mnemonic codec.
func (g *Generator) Codec() *Codec {
	return g.codec
}

// Scheme returns the generator's key scheme.
func (g *Generator) Scheme() Scheme {
	return g.scheme
}

// Create generates a new identity: fresh entropy, its mnemonic and the
// master key of the resulting seed. Entropy and seed are wiped before
// returning. The caller owns the mnemonic and key and must Zero both.
func (g *Generator) Create(passphrase string) (*Mnemonic, *KeyPair, error) {
	n, err := EntropyBytesForWords(g.words)
	if err != nil {
		return nil, nil, err
	}

	var e *Entropy
	if g.rand != nil {
		e, err = GenerateEntropyFrom(g.rand, n)
	} else {
		e, err = GenerateEntropy(n)
	}
	if err != nil {
		return nil, nil, err
	}
	defer e.Zero()

	m, err := g.codec.Encode(e)
	if err != nil {
		return nil, nil, fmt.Errorf("encode mnemonic: %w", err)
	}

	master, err := g.master(m, passphrase)
	if err != nil {
		m.Zero()
		return nil, nil, err
	}

	g.logger.Info().
		Object("mnemonic", m).
		Object("key", master).
		Str("checksum", g.codec.Name()).
		Msg("Identity created")
	return m, master, nil
}

// Restore rebuilds the master key of an existing phrase. The phrase is
// validated against the generator's checksum first.
func (g *Generator) Restore(phrase, passphrase string) (*KeyPair, error) {
	m, err := ParseMnemonic(phrase)
	if err != nil {
		return nil, fmt.Errorf("parse mnemonic: %w", err)
	}
	defer m.Zero()

	e, err := g.codec.Decode(m)
	if err != nil {
		return nil, fmt.Errorf("decode mnemonic: %w", err)
	}
	e.Zero()

	master, err := g.master(m, passphrase)
	if err != nil {
		return nil, err
	}

	g.logger.Info().
		Object("mnemonic", m).
		Object("key", master).
		Msg("Identity restored")
	return master, nil
}

// DeriveAccount derives the key at DefaultPath(scheme, account,
// ChangeExternal, index) below master.
func (g *Generator) DeriveAccount(master *KeyPair, account, index uint32) (*KeyPair, error) {
	if master.Depth() != 0 {
		return nil, fmt.Errorf("%w: account keys derive from a master key", ErrInvalidPath)
	}
	if account >= HardenedOffset || index >= HardenedOffset {
		return nil, fmt.Errorf("%w: account and index must be below 2^31", ErrInvalidPath)
	}
	path := DefaultPath(master.Scheme(), account, ChangeExternal, index)
	k, err := master.DerivePath(path)
	if err != nil {
		return nil, err
	}
	g.logger.Debug().
		Str("path", path.String()).
		Object("key", k).
		Msg("Account key derived")
	return k, nil
}

// DeriveDefault derives the key for the configured account at index.
func (g *Generator) DeriveDefault(master *KeyPair, index uint32) (*KeyPair, error) {
	return g.DeriveAccount(master, g.account, index)
}

// Address renders the bech32 address of k under the configured prefix.
func (g *Generator) Address(k *KeyPair) (string, error) {
	return k.Address().Encode(g.hrp)
}

// master stretches the mnemonic and derives the master key, wiping the
// seed on every path.
func (g *Generator) master(m *Mnemonic, passphrase string) (*KeyPair, error) {
	done := log.Benchmark("seed stretching")
	seed := DeriveSeed(m, passphrase)
	done()
	defer seed.Zero()

	master, err := DeriveMaster(seed, g.scheme)
	if err != nil {
		return nil, fmt.Errorf("derive master: %w", err)
	}
	return master, nil
}
