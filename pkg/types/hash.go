// Package types defines core primitive types for the Sui network.
package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mr-tron/base58"
)

// HashSize is the length of a hash or digest in bytes.
const HashSize = 32

// Hash represents a 256-bit local hash value (hex encoded).
type Hash [HashSize]byte

// Digest is a 256-bit on-chain digest (object or transaction), base58 encoded.
type Digest [HashSize]byte

// IsZero returns true if the hash is all zeros.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// String returns the hex-encoded hash.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Bytes returns a copy of the hash as a byte slice.
func (h Hash) Bytes() []byte {
	b := make([]byte, HashSize)
	copy(b, h[:])
	return b
}

// IsZero returns true if the digest is all zeros.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// String returns the base58-encoded digest.
func (d Digest) String() string {
	return base58.Encode(d[:])
}

// MarshalJSON encodes the digest as a base58 string.
func (d Digest) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a base58 string into a digest.
func (d *Digest) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Digest{}
		return nil
	}
	parsed, err := ParseDigest(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDigest decodes a base58 digest string.
func ParseDigest(s string) (Digest, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return Digest{}, fmt.Errorf("invalid digest: %w", err)
	}
	if len(b) != HashSize {
		return Digest{}, fmt.Errorf("digest must be %d bytes, got %d", HashSize, len(b))
	}
	var d Digest
	copy(d[:], b)
	return d, nil
}

// SequenceNumber is an object version. The RPC encodes it as a decimal
// string or a bare number depending on the endpoint.
type SequenceNumber uint64

// MarshalJSON encodes the version as a decimal string.
func (v SequenceNumber) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatUint(uint64(v), 10))
}

// UnmarshalJSON accepts either a decimal string or a JSON number.
func (v *SequenceNumber) UnmarshalJSON(data []byte) error {
	n, err := parseUintJSON(data)
	if err != nil {
		return fmt.Errorf("invalid sequence number: %w", err)
	}
	*v = SequenceNumber(n)
	return nil
}

// ObjectRef pins an object at a specific version.
type ObjectRef struct {
	ObjectID ObjectID       `json:"objectId"`
	Version  SequenceNumber `json:"version"`
	Digest   Digest         `json:"digest"`
}

// String returns "id@version".
func (r ObjectRef) String() string {
	return fmt.Sprintf("%s@%d", r.ObjectID, r.Version)
}

// parseUintJSON reads a uint64 from a quoted decimal string or a JSON number.
func parseUintJSON(data []byte) (uint64, error) {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return strconv.ParseUint(s, 10, 64)
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return 0, err
	}
	return strconv.ParseUint(n.String(), 10, 64)
}

// BigUint is a u64 that the RPC encodes as a decimal string (balances, gas).
type BigUint uint64

// MarshalJSON encodes the value as a decimal string.
func (u BigUint) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatUint(uint64(u), 10))
}

// UnmarshalJSON accepts either a decimal string or a JSON number.
func (u *BigUint) UnmarshalJSON(data []byte) error {
	n, err := parseUintJSON(data)
	if err != nil {
		return fmt.Errorf("invalid u64: %w", err)
	}
	*u = BigUint(n)
	return nil
}
