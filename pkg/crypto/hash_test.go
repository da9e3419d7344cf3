package crypto

import (
	"encoding/hex"
	"testing"

	"github.com/Klingon-tech/klingnet-keys/pkg/types"
)

func hexToHash(t *testing.T, s string) types.Hash {
	t.Helper()
	h, err := types.HexToHash(s)
	if err != nil {
		t.Fatalf("bad hex: %v", err)
	}
	return h
}

func TestHash(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{
			name:  "empty input",
			input: []byte{},
			want:  "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262",
		},
		{
			name:  "hello",
			input: []byte("hello"),
			want:  "ea8f163db38682925e4491c5e58d4bb3506ef8c14eb78a86e908c5624a67200f",
		},
		{
			name:  "klingnet",
			input: []byte("klingnet"),
			want:  "677c013a662a24fb62497787316a59230409463ee36a1d7a57ba32607e20f467",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Hash(tt.input)
			want := hexToHash(t, tt.want)
			if got != want {
				t.Errorf("Hash(%q) = %x, want %x", tt.input, got, want)
			}
		})
	}
}

func TestDigest(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{
			name:  "empty input",
			input: []byte{},
			want:  "0c63a75b845e4f7d01107d852e4c2485c51a50aaaa94fc61995e71bbee983a2ac3713831264adb47fb6bd1e058d5f004",
		},
		{
			name:  "112",
			input: []byte("112"),
			want:  "f392375ca0bdb9b4ebfbde52b5ceb23d4325db5d89ae917c18cb8c8391a7d8567636b41c3ef956b1caa37e4e50d2d3dd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Digest(tt.input)
			if got.String() != tt.want {
				t.Errorf("Digest(%q) = %s, want %s", tt.input, got, tt.want)
			}
			if len(got.String()) != 96 {
				t.Errorf("digest hex length = %d, want 96", len(got.String()))
			}
		})
	}
}

func TestDigest_Deterministic(t *testing.T) {
	data := []byte("deterministic test input")
	if Digest(data) != Digest(data) {
		t.Error("Digest is not deterministic")
	}
	if Digest([]byte("input A")) == Digest([]byte("input B")) {
		t.Error("different inputs produced the same digest")
	}
}

func TestAddressFromPubKey(t *testing.T) {
	pub := []byte("public key bytes")
	h := Hash(pub)
	addr := AddressFromPubKey(pub)
	if hex.EncodeToString(addr[:]) != hex.EncodeToString(h[:types.AddressSize]) {
		t.Errorf("address = %x, want hash prefix %x", addr, h[:types.AddressSize])
	}
}

func TestFingerprint(t *testing.T) {
	pub := []byte("public key bytes")
	h := Hash(pub)
	fp := Fingerprint(pub)
	for i := range fp {
		if fp[i] != h[i] {
			t.Fatalf("Fingerprint() = %x, want %x", fp, h[:FingerprintSize])
		}
	}
	if Fingerprint([]byte("other")) == fp {
		t.Error("different keys should have different fingerprints")
	}
}
