package encoding

import (
	"fmt"
	"strings"
)

// Bech32 charset (BIP-173).
const bech32Charset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

// bech32ChecksumLen is the number of 5-bit checksum groups.
const bech32ChecksumLen = 6

// bech32Rev maps charset bytes to 5-bit values; -1 marks invalid bytes.
var bech32Rev = func() [128]int8 {
	var rev [128]int8
	for i := range rev {
		rev[i] = -1
	}
	for i := 0; i < len(bech32Charset); i++ {
		rev[bech32Charset[i]] = int8(i)
	}
	return rev
}()

func bech32Err(format string, args ...any) error {
	return fmt.Errorf("%w: bech32: %s", ErrInvalidEncoding, fmt.Sprintf(format, args...))
}

// Bech32Encode encodes data under the human-readable part hrp.
// The result is lowercase and carries a six character checksum.
func Bech32Encode(hrp string, data []byte) (string, error) {
	if hrp == "" {
		return "", bech32Err("empty HRP")
	}
	for i := 0; i < len(hrp); i++ {
		if c := hrp[i]; c < 33 || c > 126 || (c >= 'A' && c <= 'Z') {
			return "", bech32Err("invalid HRP character %q", c)
		}
	}

	groups, err := regroup(data, 8, 5, true)
	if err != nil {
		return "", bech32Err("%v", err)
	}
	chk := bech32Checksum(hrp, groups)

	var sb strings.Builder
	sb.Grow(len(hrp) + 1 + len(groups) + bech32ChecksumLen)
	sb.WriteString(hrp)
	sb.WriteByte('1')
	for _, g := range groups {
		sb.WriteByte(bech32Charset[g])
	}
	for _, g := range chk {
		sb.WriteByte(bech32Charset[g])
	}
	return sb.String(), nil
}

// Bech32Decode splits a bech32 string into its human-readable part and
// payload, verifying the checksum. Mixed-case input is rejected.
func Bech32Decode(s string) (string, []byte, error) {
	if s == "" {
		return "", nil, bech32Err("empty string")
	}
	lower := strings.ToLower(s)
	if lower != s && strings.ToUpper(s) != s {
		return "", nil, bech32Err("mixed case")
	}
	s = lower

	sep := strings.LastIndexByte(s, '1')
	if sep < 1 {
		return "", nil, bech32Err("missing separator")
	}
	if sep+1+bech32ChecksumLen > len(s) {
		return "", nil, bech32Err("too short")
	}

	hrp, payload := s[:sep], s[sep+1:]
	groups := make([]byte, len(payload))
	for i := 0; i < len(payload); i++ {
		c := payload[i]
		if c >= 128 || bech32Rev[c] < 0 {
			return "", nil, bech32Err("invalid character %q", c)
		}
		groups[i] = byte(bech32Rev[c])
	}

	if bech32Polymod(append(hrpExpand(hrp), groups...)) != 1 {
		return "", nil, bech32Err("invalid checksum")
	}

	data, err := regroup(groups[:len(groups)-bech32ChecksumLen], 5, 8, false)
	if err != nil {
		return "", nil, bech32Err("%v", err)
	}
	return hrp, data, nil
}

func bech32Polymod(values []byte) uint32 {
	gen := [5]uint32{0x3b6a57b2, 0x26508e6d, 0x1ea119fa, 0x3d4233dd, 0x2a1462b3}
	chk := uint32(1)
	for _, v := range values {
		top := chk >> 25
		chk = (chk&0x1ffffff)<<5 ^ uint32(v)
		for i := 0; i < 5; i++ {
			if (top>>uint(i))&1 == 1 {
				chk ^= gen[i]
			}
		}
	}
	return chk
}

func hrpExpand(hrp string) []byte {
	out := make([]byte, 0, len(hrp)*2+1)
	for i := 0; i < len(hrp); i++ {
		out = append(out, hrp[i]>>5)
	}
	out = append(out, 0)
	for i := 0; i < len(hrp); i++ {
		out = append(out, hrp[i]&31)
	}
	return out
}

func bech32Checksum(hrp string, groups []byte) []byte {
	values := append(hrpExpand(hrp), groups...)
	values = append(values, make([]byte, bech32ChecksumLen)...)
	mod := bech32Polymod(values) ^ 1
	out := make([]byte, bech32ChecksumLen)
	for i := range out {
		out[i] = byte(mod>>uint(5*(5-i))) & 31
	}
	return out
}

// regroup repacks a bit stream from fromBits-wide groups into toBits-wide
// groups. With pad set, a trailing partial group is zero-filled;
// otherwise leftover bits must be zero and shorter than fromBits.
func regroup(data []byte, fromBits, toBits uint, pad bool) ([]byte, error) {
	var acc uint32
	var bits uint
	maxv := uint32(1)<<toBits - 1
	out := make([]byte, 0, (uint(len(data))*fromBits+toBits-1)/toBits)

	for _, b := range data {
		if uint32(b)>>fromBits != 0 {
			return nil, fmt.Errorf("value %d exceeds %d bits", b, fromBits)
		}
		acc = acc<<fromBits | uint32(b)
		bits += fromBits
		for bits >= toBits {
			bits -= toBits
			out = append(out, byte(acc>>bits&maxv))
		}
	}

	switch {
	case pad && bits > 0:
		out = append(out, byte(acc<<(toBits-bits)&maxv))
	case !pad && (bits >= fromBits || acc<<(toBits-bits)&maxv != 0):
		return nil, fmt.Errorf("non-zero padding")
	}
	return out, nil
}
