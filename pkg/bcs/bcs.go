// Package bcs builds Binary Canonical Serialization output for Sui
// transactions on top of go-bcs: little-endian integers, ULEB128 lengths,
// length-prefixed byte strings and sequences, written in call order.
package bcs

import (
	gobcs "github.com/fardream/go-bcs/bcs"
)

// Encoder appends BCS-encoded values to an internal buffer. The first
// encoding error is kept and reported by Err; later writes are dropped.
type Encoder struct {
	buf []byte
	err error
}

// NewEncoder creates an empty encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Bytes returns the encoded bytes.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Len returns the number of bytes encoded so far.
func (e *Encoder) Len() int {
	return len(e.buf)
}

// Err returns the first encoding error, if any.
func (e *Encoder) Err() error {
	return e.err
}

// Value appends the BCS encoding of v as go-bcs defines it for Go types.
func (e *Encoder) Value(v any) *Encoder {
	if e.err != nil {
		return e
	}
	b, err := gobcs.Marshal(v)
	if err != nil {
		e.err = err
		return e
	}
	e.buf = append(e.buf, b...)
	return e
}

// U8 appends a single byte.
func (e *Encoder) U8(v uint8) *Encoder { return e.Value(v) }

// U16 appends a little-endian uint16.
func (e *Encoder) U16(v uint16) *Encoder { return e.Value(v) }

// U32 appends a little-endian uint32.
func (e *Encoder) U32(v uint32) *Encoder { return e.Value(v) }

// U64 appends a little-endian uint64.
func (e *Encoder) U64(v uint64) *Encoder { return e.Value(v) }

// Bool appends 0x01 for true and 0x00 for false.
func (e *Encoder) Bool(v bool) *Encoder { return e.Value(v) }

// ULEB128 appends an unsigned LEB128 value (used for lengths and enum tags).
func (e *Encoder) ULEB128(v uint32) *Encoder {
	if e.err == nil {
		e.buf = AppendULEB128(e.buf, v)
	}
	return e
}

// Variant appends an enum variant tag.
func (e *Encoder) Variant(tag uint32) *Encoder {
	return e.ULEB128(tag)
}

// Length appends a sequence length prefix.
func (e *Encoder) Length(n int) *Encoder {
	return e.ULEB128(uint32(n))
}

// Fixed appends raw bytes without a length prefix (fixed-size arrays).
func (e *Encoder) Fixed(b []byte) *Encoder {
	if e.err == nil {
		e.buf = append(e.buf, b...)
	}
	return e
}

// ByteVector appends a length-prefixed byte vector (vector<u8>).
func (e *Encoder) ByteVector(b []byte) *Encoder {
	if b == nil {
		b = []byte{}
	}
	return e.Value(b)
}

// String appends a length-prefixed UTF-8 string.
func (e *Encoder) String(s string) *Encoder { return e.Value(s) }

// Strings appends a vector<string>.
func (e *Encoder) Strings(ss []string) *Encoder {
	if ss == nil {
		ss = []string{}
	}
	return e.Value(ss)
}

// AppendULEB128 appends v as unsigned LEB128 to buf.
func AppendULEB128(buf []byte, v uint32) []byte {
	return append(buf, gobcs.ULEB128Encode(v)...)
}
