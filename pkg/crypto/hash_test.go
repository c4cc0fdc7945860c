package crypto

import (
	"encoding/hex"
	"testing"
)

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
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Hash(tt.input)
			if got.String() != tt.want {
				t.Errorf("Hash(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestBlake2b256_Empty(t *testing.T) {
	got := Blake2b256()
	want := "0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8"
	if hex.EncodeToString(got[:]) != want {
		t.Errorf("Blake2b256() = %x, want %s", got, want)
	}
}

func TestBlake2b256_Chunked(t *testing.T) {
	whole := Blake2b256([]byte("TransactionData::payload"))
	parts := Blake2b256([]byte("TransactionData::"), []byte("payload"))
	if whole != parts {
		t.Error("chunked input should hash like the concatenation")
	}
}

func TestAddressFromPubKey_SchemeMatters(t *testing.T) {
	pub := make([]byte, 32)
	a := AddressFromPubKey(SchemeEd25519, pub)
	b := AddressFromPubKey(SchemeSecp256k1, pub)
	if a == b {
		t.Error("different scheme flags must give different addresses")
	}
	want := Blake2b256([]byte{0x00}, pub)
	if a != want {
		t.Errorf("address = %x, want %x", a, want)
	}
}
