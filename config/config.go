// Package config handles configuration for key generation and logging.
//
// Settings are operator choices (word count, curve, checksum hash). They
// never contain secrets: passphrases and mnemonics are always supplied by
// the caller at run time.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// NetworkType identifies mainnet or testnet.
type NetworkType string

const (
	Mainnet NetworkType = "mainnet"
	Testnet NetworkType = "testnet"
)

// Scheme names accepted for wallet.scheme.
const (
	SchemeEd25519   = "ed25519"
	SchemeSecp256k1 = "secp256k1"
)

// Checksum names accepted for wallet.checksum.
const (
	ChecksumSHA3  = "sha3-384"
	ChecksumBIP39 = "bip39"
)

// Config holds key tooling configuration.
type Config struct {
	Network NetworkType `conf:"network"`
	DataDir string      `conf:"datadir"`

	// Wallet
	Wallet WalletConfig

	// Logging
	Log LogConfig
}

// WalletConfig controls how identities are generated and derived.
type WalletConfig struct {
	WordCount int    `conf:"wallet.words"`    // 12, 15, 18, 21 or 24
	Scheme    string `conf:"wallet.scheme"`   // ed25519 or secp256k1
	Checksum  string `conf:"wallet.checksum"` // sha3-384 or bip39
	Account   uint32 `conf:"wallet.account"`  // default BIP-44 account
	HRP       string // address prefix, derived from Network
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.klingnet-keys
//	macOS:   ~/Library/Application Support/KlingnetKeys
//	Windows: %APPDATA%\KlingnetKeys
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".klingnet-keys"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "KlingnetKeys")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "KlingnetKeys")
		}
		return filepath.Join(home, "AppData", "Roaming", "KlingnetKeys")
	default:
		return filepath.Join(home, ".klingnet-keys")
	}
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "keys.conf")
}

// LogsDir returns the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// LogFile returns the configured log file, or keys.log under LogsDir when
// log.file is unset.
func (c *Config) LogFile() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(c.LogsDir(), "keys.log")
}
