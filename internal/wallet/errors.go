package wallet

import "errors"

// Sentinel errors. Callers match them with errors.Is; messages never
// carry secret material such as mnemonic words.
var (
	ErrUnsupportedLength = errors.New("unsupported entropy length")
	ErrInvalidWordCount  = errors.New("invalid mnemonic word count")
	ErrUnknownWord       = errors.New("unknown mnemonic word")
	ErrChecksumMismatch  = errors.New("mnemonic checksum mismatch")
	ErrInvalidSeed       = errors.New("invalid seed")
	ErrNonHardenedIndex  = errors.New("ed25519 derivation requires a hardened index")
	ErrInvalidPath       = errors.New("invalid derivation path")
	ErrUnsupportedScheme = errors.New("unsupported key scheme")
	ErrPublicOnly        = errors.New("key has no private material")
	ErrNotDerivable      = errors.New("key has no chain code")
	ErrDecrypt           = errors.New("decryption failed")
)
