package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Klingon-tech/klingnet-keys/internal/log"
)

// LoadFile loads configuration values from a .conf file.
// Format: key = value (one per line, # for comments).
// A missing file yields an empty map.
func LoadFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: invalid format (expected key = value)", lineNum)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		// Remove quotes if present
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		values[key] = value
	}

	return values, scanner.Err()
}

// Load builds a validated configuration: network defaults, overlaid with
// the values from path (if it exists).
func Load(path string, network NetworkType) (*Config, error) {
	return loadInto(Default(network), path)
}

// loadInto overlays the values from path onto cfg and validates the result.
func loadInto(cfg *Config, path string) (*Config, error) {
	values, err := LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := ApplyFileConfig(cfg, values); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	log.Config.Debug().
		Str("path", path).
		Str("network", string(cfg.Network)).
		Int("keys", len(values)).
		Msg("configuration loaded")
	return cfg, nil
}

// LoadFromFile loads defaults plus the config file under dataDir (the
// platform default when empty). The data directory and a default config
// file are created on first use.
func LoadFromFile(dataDir string, network NetworkType) (*Config, error) {
	cfg := Default(network)
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if err := EnsureDataDirs(cfg); err != nil {
		return nil, fmt.Errorf("ensuring data dirs: %w", err)
	}
	return loadInto(cfg, cfg.ConfigFile())
}

// EnsureDataDirs creates the data and logs directories and writes a default
// config file if none exists. It is idempotent.
func EnsureDataDirs(cfg *Config) error {
	for _, dir := range []string{cfg.DataDir, cfg.LogsDir()} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	configPath := cfg.ConfigFile()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := WriteDefaultConfig(configPath, cfg.Network); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}
	}
	return nil
}

// ApplyFileConfig applies file configuration to a Config struct.
func ApplyFileConfig(cfg *Config, values map[string]string) error {
	for key, value := range values {
		if err := setConfigValue(cfg, key, value); err != nil {
			return fmt.Errorf("config key %q: %w", key, err)
		}
	}
	// The address prefix follows the network unless it was set explicitly.
	if _, ok := values["network"]; ok {
		if _, set := values["wallet.hrp"]; !set {
			cfg.Wallet.HRP = Default(cfg.Network).Wallet.HRP
		}
	}
	return nil
}

// setConfigValue sets a config value by key.
func setConfigValue(cfg *Config, key, value string) error {
	switch key {
	// Core
	case "network":
		cfg.Network = NetworkType(strings.ToLower(value))
	case "datadir":
		cfg.DataDir = value

	// Wallet
	case "wallet.words":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.Wallet.WordCount = n
	case "wallet.scheme":
		cfg.Wallet.Scheme = strings.ToLower(value)
	case "wallet.checksum":
		cfg.Wallet.Checksum = strings.ToLower(value)
	case "wallet.account":
		n, err := strconv.ParseUint(value, 10, 31)
		if err != nil {
			return err
		}
		cfg.Wallet.Account = uint32(n)
	case "wallet.hrp":
		cfg.Wallet.HRP = value

	// Logging
	case "log.level":
		cfg.Log.Level = value
	case "log.file":
		cfg.Log.File = value
	case "log.json":
		cfg.Log.JSON = parseBool(value)

	default:
		log.Config.Warn().Str("key", key).Msg("ignoring unknown config key")
	}
	return nil
}

// parseBool parses a boolean value.
func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// WriteDefaultConfig writes a default configuration file.
func WriteDefaultConfig(path string, network NetworkType) error {
	content := `# Klingnet key tooling configuration
#
# No secrets belong in this file. Passphrases and mnemonics are always
# entered at run time.

# Network: mainnet or testnet (selects the address prefix)
network = ` + string(network) + `

# ============================================================================
# Wallet
# ============================================================================

# Mnemonic length: 12, 15, 18, 21 or 24 words
wallet.words = 24

# Signature scheme: ed25519 or secp256k1
wallet.scheme = ed25519

# Mnemonic checksum hash: sha3-384, or bip39 for standard BIP-39 phrases
wallet.checksum = sha3-384

# Default BIP-44 account index
# wallet.account = 0

# ============================================================================
# Logging
# ============================================================================

log.level = info
# log.file =
log.json = false
`
	return os.WriteFile(path, []byte(content), 0600)
}
