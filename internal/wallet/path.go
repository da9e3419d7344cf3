package wallet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tyler-smith/go-bip32"
)

// HardenedOffset is added to an index to request hardened derivation.
const HardenedOffset = bip32.FirstHardenedChild

// BIP-44 derivation path constants.
// Full path: m/44'/CoinType'/account'/change/index
const (
	// PurposeBIP44 is the BIP-44 purpose field (hardened).
	PurposeBIP44 = HardenedOffset + 44

	// CoinType is the placeholder coin type used in derivation paths.
	CoinType = 8888

	// ChangeExternal is for receiving addresses.
	ChangeExternal = 0

	// ChangeInternal is for change addresses.
	ChangeInternal = 1
)

// Path is a sequence of child indices below a master key.
type Path []uint32

// ParsePath parses paths like "m", "m/0'" or "m/44'/8888'/0'/0/1".
// Hardened components take a ', h or H suffix.
func ParsePath(s string) (Path, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if parts[0] != "m" && parts[0] != "M" {
		return nil, fmt.Errorf("%w: must start with m", ErrInvalidPath)
	}
	path := make(Path, 0, len(parts)-1)
	for i, part := range parts[1:] {
		hardened := false
		if n := len(part); n > 0 && (part[n-1] == '\'' || part[n-1] == 'h' || part[n-1] == 'H') {
			hardened = true
			part = part[:n-1]
		}
		v, err := strconv.ParseUint(part, 10, 32)
		if err != nil || part == "" || part[0] == '+' {
			return nil, fmt.Errorf("%w: component %d %q", ErrInvalidPath, i+1, parts[i+1])
		}
		if v >= uint64(HardenedOffset) {
			return nil, fmt.Errorf("%w: component %d out of range", ErrInvalidPath, i+1)
		}
		idx := uint32(v)
		if hardened {
			idx += HardenedOffset
		}
		path = append(path, idx)
	}
	return path, nil
}

// String renders the path with ' marking hardened components.
func (p Path) String() string {
	var sb strings.Builder
	sb.WriteByte('m')
	for _, idx := range p {
		sb.WriteByte('/')
		sb.WriteString(formatIndex(idx))
	}
	return sb.String()
}

// DefaultPath returns the account path for scheme. Ed25519 hardens every
// level: m/44'/8888'/account'/change'/index'. Secp256k1 follows BIP-44:
// m/44'/8888'/account'/change/index.
func DefaultPath(scheme Scheme, account, change, index uint32) Path {
	p := Path{PurposeBIP44, HardenedOffset + CoinType, HardenedOffset + account}
	if scheme == SchemeEd25519 {
		return append(p, HardenedOffset+change, HardenedOffset+index)
	}
	return append(p, change, index)
}

func formatIndex(i uint32) string {
	if i >= HardenedOffset {
		return strconv.FormatUint(uint64(i-HardenedOffset), 10) + "'"
	}
	return strconv.FormatUint(uint64(i), 10)
}
