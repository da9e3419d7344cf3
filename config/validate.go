package config

import (
	"fmt"

	"github.com/Klingon-tech/klingnet-keys/pkg/types"
)

// Validate checks the configuration for operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Network != Mainnet && cfg.Network != Testnet {
		return fmt.Errorf("network must be %q or %q", Mainnet, Testnet)
	}
	if err := ValidateWallet(&cfg.Wallet); err != nil {
		return err
	}
	return ValidateLog(&cfg.Log)
}

// ValidateLog checks logging settings.
func ValidateLog(l *LogConfig) error {
	switch l.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", l.Level)
	}
	return nil
}

// ValidateWallet checks wallet settings.
func ValidateWallet(w *WalletConfig) error {
	switch w.WordCount {
	case 12, 15, 18, 21, 24:
	default:
		return fmt.Errorf("wallet.words must be 12, 15, 18, 21 or 24, got %d", w.WordCount)
	}
	switch w.Scheme {
	case SchemeEd25519, SchemeSecp256k1:
	default:
		return fmt.Errorf("wallet.scheme must be %q or %q, got %q", SchemeEd25519, SchemeSecp256k1, w.Scheme)
	}
	switch w.Checksum {
	case ChecksumSHA3, ChecksumBIP39:
	default:
		return fmt.Errorf("wallet.checksum must be %q or %q, got %q", ChecksumSHA3, ChecksumBIP39, w.Checksum)
	}
	if w.Account >= 1<<31 {
		return fmt.Errorf("wallet.account must be below 2^31")
	}
	if w.HRP != types.MainnetHRP && w.HRP != types.TestnetHRP {
		return fmt.Errorf("wallet.hrp must be %q or %q, got %q", types.MainnetHRP, types.TestnetHRP, w.HRP)
	}
	return nil
}
