package wallet

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Klingon-tech/klingnet-keys/config"
	"github.com/Klingon-tech/klingnet-keys/internal/log"
	"github.com/rs/zerolog"
)

func testWalletConfig() config.WalletConfig {
	cfg := config.DefaultMainnet().Wallet
	cfg.WordCount = 12
	return cfg
}

// newTestGenerator returns a generator that draws entropy from src and
// logs JSON into buf.
func newTestGenerator(t *testing.T, cfg config.WalletConfig, src []byte, buf *bytes.Buffer) *Generator {
	t.Helper()
	g, err := NewGenerator(cfg)
	if err != nil {
		t.Fatalf("NewGenerator() error: %v", err)
	}
	if src != nil {
		g.rand = bytes.NewReader(src)
	}
	if buf != nil {
		g.logger = zerolog.New(buf).Level(zerolog.DebugLevel)
	}
	return g
}

func TestGenerator_CreateRestore(t *testing.T) {
	for _, scheme := range []string{config.SchemeEd25519, config.SchemeSecp256k1} {
		t.Run(scheme, func(t *testing.T) {
			cfg := testWalletConfig()
			cfg.Scheme = scheme
			g := newTestGenerator(t, cfg, make([]byte, 16), nil)

			m, master, err := g.Create("passphrase")
			if err != nil {
				t.Fatalf("Create() error: %v", err)
			}
			if want := repeatWord("abandon", 11) + " access"; m.Phrase() != want {
				t.Errorf("Create() phrase = %q, want %q", m.Phrase(), want)
			}

			restored, err := g.Restore(m.Phrase(), "passphrase")
			if err != nil {
				t.Fatalf("Restore() error: %v", err)
			}
			if !bytes.Equal(restored.PublicKey(), master.PublicKey()) {
				t.Error("Restore() should rebuild the created master key")
			}

			other, err := g.Restore(m.Phrase(), "different")
			if err != nil {
				t.Fatalf("Restore() error: %v", err)
			}
			if bytes.Equal(other.PublicKey(), master.PublicKey()) {
				t.Error("a different passphrase should give a different identity")
			}
		})
	}
}

func TestGenerator_CreateFromOS(t *testing.T) {
	g, err := NewGenerator(config.DefaultMainnet().Wallet)
	if err != nil {
		t.Fatalf("NewGenerator() error: %v", err)
	}
	m, master, err := g.Create("")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	defer m.Zero()
	defer master.Zero()

	if m.Len() != 24 {
		t.Errorf("word count = %d, want 24", m.Len())
	}
	if err := g.Codec().Validate(m.Phrase()); err != nil {
		t.Errorf("created phrase should validate: %v", err)
	}
	if g.Scheme() != SchemeEd25519 || master.Scheme() != SchemeEd25519 {
		t.Error("default scheme should be ed25519")
	}
}

func TestGenerator_RestoreBIP39Vector(t *testing.T) {
	cfg := testWalletConfig()
	cfg.Checksum = config.ChecksumBIP39
	cfg.Scheme = config.SchemeSecp256k1
	g := newTestGenerator(t, cfg, nil, nil)

	master, err := g.Restore(repeatWord("abandon", 11)+" about", "TREZOR")
	if err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	want, err := DeriveMaster(testSeed(t), SchemeSecp256k1)
	if err != nil {
		t.Fatalf("DeriveMaster() error: %v", err)
	}
	if !bytes.Equal(master.PublicKey(), want.PublicKey()) {
		t.Error("Restore() should match the TREZOR seed master key")
	}
}

func TestGenerator_RestoreErrors(t *testing.T) {
	g := newTestGenerator(t, testWalletConfig(), nil, nil)

	tests := []struct {
		name   string
		phrase string
		want   error
	}{
		{"word count", repeatWord("abandon", 11), ErrInvalidWordCount},
		{"unknown word", repeatWord("abandon", 11) + " qqq", ErrUnknownWord},
		{"checksum", repeatWord("abandon", 11) + " about", ErrChecksumMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := g.Restore(tt.phrase, ""); !errors.Is(err, tt.want) {
				t.Errorf("Restore() err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGenerator_DeriveAccount(t *testing.T) {
	for _, scheme := range []string{config.SchemeEd25519, config.SchemeSecp256k1} {
		t.Run(scheme, func(t *testing.T) {
			cfg := testWalletConfig()
			cfg.Scheme = scheme
			cfg.Account = 2
			g := newTestGenerator(t, cfg, make([]byte, 16), nil)

			_, master, err := g.Create("")
			if err != nil {
				t.Fatalf("Create() error: %v", err)
			}

			k, err := g.DeriveAccount(master, 2, 7)
			if err != nil {
				t.Fatalf("DeriveAccount() error: %v", err)
			}
			if k.Depth() != 5 {
				t.Errorf("Depth() = %d, want 5", k.Depth())
			}

			path := DefaultPath(master.Scheme(), 2, ChangeExternal, 7)
			direct, err := master.DerivePath(path)
			if err != nil {
				t.Fatalf("DerivePath() error: %v", err)
			}
			if !bytes.Equal(k.PublicKey(), direct.PublicKey()) {
				t.Error("DeriveAccount() should follow DefaultPath")
			}

			def, err := g.DeriveDefault(master, 7)
			if err != nil {
				t.Fatalf("DeriveDefault() error: %v", err)
			}
			if !bytes.Equal(def.PublicKey(), k.PublicKey()) {
				t.Error("DeriveDefault() should use the configured account")
			}

			if _, err := g.DeriveAccount(k, 0, 0); !errors.Is(err, ErrInvalidPath) {
				t.Errorf("DeriveAccount(non-master) err = %v, want ErrInvalidPath", err)
			}
			if _, err := g.DeriveAccount(master, HardenedOffset, 0); !errors.Is(err, ErrInvalidPath) {
				t.Errorf("DeriveAccount(hardened account) err = %v, want ErrInvalidPath", err)
			}
		})
	}
}

func TestGenerator_Address(t *testing.T) {
	mainnet := newTestGenerator(t, testWalletConfig(), make([]byte, 16), nil)
	_, master, err := mainnet.Create("")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	addr, err := mainnet.Address(master)
	if err != nil {
		t.Fatalf("Address() error: %v", err)
	}
	if !strings.HasPrefix(addr, "kgx1") {
		t.Errorf("mainnet address = %s, want kgx1 prefix", addr)
	}

	cfg := config.DefaultTestnet()
	cfg.DataDir = t.TempDir()
	testnet, err := GeneratorFromConfig(cfg)
	defer log.Init("info", false, "")
	if err != nil {
		t.Fatalf("GeneratorFromConfig() error: %v", err)
	}
	taddr, err := testnet.Address(master)
	if err != nil {
		t.Fatalf("Address() error: %v", err)
	}
	if !strings.HasPrefix(taddr, "tkgx1") {
		t.Errorf("testnet address = %s, want tkgx1 prefix", taddr)
	}
}

func TestGenerator_LogsNoSecrets(t *testing.T) {
	var buf bytes.Buffer
	src := bytes.Repeat([]byte{0x7f}, 16)
	g := newTestGenerator(t, testWalletConfig(), src, &buf)

	m, master, err := g.Create("hunter2")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if _, err := g.Restore(m.Phrase(), "hunter2"); err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	if _, err := g.DeriveAccount(master, 0, 0); err != nil {
		t.Fatalf("DeriveAccount() error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Identity created") || !strings.Contains(out, "fingerprint") {
		t.Errorf("expected identity log lines, got: %s", out)
	}
	words := m.Words()
	for i := 0; i+1 < len(words); i++ {
		if strings.Contains(out, words[i]+" "+words[i+1]) {
			t.Fatalf("log output leaks mnemonic words at position %d", i+1)
		}
	}
	if strings.Contains(out, "hunter2") {
		t.Error("log output leaks the passphrase")
	}
	var secretHex string
	_ = master.WithPrivateKey(func(secret []byte) error {
		secretHex = hex.EncodeToString(secret)
		return nil
	})
	if strings.Contains(out, secretHex) {
		t.Error("log output leaks the private key")
	}
}

func TestNewGenerator_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.WalletConfig)
	}{
		{"words", func(c *config.WalletConfig) { c.WordCount = 13 }},
		{"scheme", func(c *config.WalletConfig) { c.Scheme = "rsa" }},
		{"checksum", func(c *config.WalletConfig) { c.Checksum = "md5" }},
		{"hrp", func(c *config.WalletConfig) { c.HRP = "btc" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testWalletConfig()
			tt.mutate(&cfg)
			if _, err := NewGenerator(cfg); err == nil {
				t.Error("NewGenerator() should reject the config")
			}
		})
	}
}

func TestGeneratorFromConfig_InitsLogging(t *testing.T) {
	cfg := config.DefaultMainnet()
	cfg.DataDir = t.TempDir()
	cfg.Wallet.WordCount = 12
	cfg.Log.Level = "debug"
	cfg.Log.JSON = true

	g, err := GeneratorFromConfig(cfg)
	defer log.Init("info", false, "")
	if err != nil {
		t.Fatalf("GeneratorFromConfig() error: %v", err)
	}
	if got := log.Logger.GetLevel(); got != zerolog.DebugLevel {
		t.Errorf("global level = %v, want debug", got)
	}

	_, master, err := g.Create("")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if _, err := g.DeriveAccount(master, 0, 0); err != nil {
		t.Fatalf("DeriveAccount() error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(cfg.LogsDir(), "keys.log"))
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	var sawDebug bool
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("log line is not JSON: %v (%q)", err, line)
		}
		if entry["component"] == "wallet" && entry["network"] != "mainnet" {
			t.Errorf("log line missing network field: %q", line)
		}
		if entry["message"] == "Account key derived" {
			sawDebug = entry["level"] == "debug"
		}
	}
	if !sawDebug {
		t.Errorf("debug account line not written: %s", data)
	}
}

func TestGeneratorFromConfig_InvalidLogLevel(t *testing.T) {
	cfg := config.DefaultMainnet()
	cfg.DataDir = t.TempDir()
	cfg.Log.Level = "verbose"
	if _, err := GeneratorFromConfig(cfg); err == nil {
		t.Error("GeneratorFromConfig() should reject an unknown log level")
	}
}
