package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// AddressSize is the length of an address or object ID in bytes.
const AddressSize = 32

// Address is a 256-bit Sui account address.
type Address [AddressSize]byte

// ObjectID identifies an on-chain object. It shares the address space.
type ObjectID Address

// Well-known framework addresses.
var (
	FrameworkAddress = Address{31: 0x02}
	SystemAddress    = Address{31: 0x03}
)

// IsZero returns true if the address is all zeros.
func (a Address) IsZero() bool {
	return a == Address{}
}

// String returns the canonical 0x-prefixed, 64-digit hex form.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// Hex returns the hex-encoded address without prefix.
func (a Address) Hex() string {
	return hex.EncodeToString(a[:])
}

// Short returns an abbreviated form for display (0xabcd…1234).
func (a Address) Short() string {
	h := a.Hex()
	return "0x" + h[:4] + "…" + h[len(h)-4:]
}

// Bytes returns a copy of the address as a byte slice.
func (a Address) Bytes() []byte {
	b := make([]byte, AddressSize)
	copy(b, a[:])
	return b
}

// MarshalJSON encodes the address as a canonical hex string.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes a 0x-prefixed or raw hex string into an address.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*a = Address{}
		return nil
	}
	parsed, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAddress parses a hex address. The 0x prefix is optional and short
// forms are left-padded with zeros, so "0x2" is the framework address.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Address{}, fmt.Errorf("empty address")
	}
	hexStr := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if hexStr == "" {
		return Address{}, fmt.Errorf("invalid address %q", s)
	}
	if len(hexStr) > AddressSize*2 {
		return Address{}, fmt.Errorf("address must be at most %d hex digits, got %d", AddressSize*2, len(hexStr))
	}
	if len(hexStr) < AddressSize*2 {
		hexStr = strings.Repeat("0", AddressSize*2-len(hexStr)) + hexStr
	}
	decoded, err := hex.DecodeString(hexStr)
	if err != nil {
		return Address{}, fmt.Errorf("invalid address: %w", err)
	}
	var a Address
	copy(a[:], decoded)
	return a, nil
}

// MustParseAddress is ParseAddress for constants and tests. It panics on error.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// IsZero returns true if the object ID is all zeros.
func (id ObjectID) IsZero() bool {
	return Address(id).IsZero()
}

// String returns the canonical hex form of the object ID.
func (id ObjectID) String() string {
	return Address(id).String()
}

// Short returns an abbreviated form for display.
func (id ObjectID) Short() string {
	return Address(id).Short()
}

// MarshalJSON encodes the object ID as a hex string.
func (id ObjectID) MarshalJSON() ([]byte, error) {
	return Address(id).MarshalJSON()
}

// UnmarshalJSON decodes a hex string into an object ID.
func (id *ObjectID) UnmarshalJSON(data []byte) error {
	return (*Address)(id).UnmarshalJSON(data)
}

// ParseObjectID parses a hex object ID with the same rules as ParseAddress.
func ParseObjectID(s string) (ObjectID, error) {
	a, err := ParseAddress(s)
	if err != nil {
		return ObjectID{}, fmt.Errorf("invalid object id: %w", err)
	}
	return ObjectID(a), nil
}

// MustParseObjectID is ParseObjectID for constants and tests. It panics on error.
func MustParseObjectID(s string) ObjectID {
	id, err := ParseObjectID(s)
	if err != nil {
		panic(err)
	}
	return id
}
