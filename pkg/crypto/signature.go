package crypto

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/Klingon-tech/hashcase/pkg/types"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/hdevalence/ed25519consensus"
)

// Scheme is the one-byte signature scheme flag Sui prefixes to public keys
// and serialized signatures.
type Scheme byte

const (
	SchemeEd25519   Scheme = 0x00
	SchemeSecp256k1 Scheme = 0x01
)

// String returns the scheme name used in config and keystore files.
func (s Scheme) String() string {
	switch s {
	case SchemeEd25519:
		return "ed25519"
	case SchemeSecp256k1:
		return "secp256k1"
	default:
		return fmt.Sprintf("scheme(%d)", byte(s))
	}
}

// ParseScheme converts a scheme name to its flag.
func ParseScheme(s string) (Scheme, error) {
	switch s {
	case "ed25519", "":
		return SchemeEd25519, nil
	case "secp256k1":
		return SchemeSecp256k1, nil
	default:
		return 0, fmt.Errorf("unknown signature scheme %q", s)
	}
}

// Signature sizes.
const (
	SignatureSize          = 64
	Ed25519PublicKeySize   = ed25519.PublicKeySize
	Secp256k1PublicKeySize = 33
)

// ErrInvalidSignature is returned when a serialized signature is malformed.
var ErrInvalidSignature = errors.New("invalid signature")

// Signer signs 32-byte intent digests.
type Signer interface {
	// Scheme returns the signature scheme flag.
	Scheme() Scheme
	// PublicKey returns the raw public key (32 bytes Ed25519, 33 bytes compressed Secp256k1).
	PublicKey() []byte
	// Sign produces a 64-byte signature over a digest.
	Sign(digest []byte) ([]byte, error)
}

// SignerAddress returns the Sui address controlled by a signer.
func SignerAddress(s Signer) types.Address {
	return AddressFromPubKey(s.Scheme(), s.PublicKey())
}

// Ed25519PrivateKey signs with Ed25519.
type Ed25519PrivateKey struct {
	key ed25519.PrivateKey
}

// Ed25519FromSeed creates a key from a 32-byte seed.
func Ed25519FromSeed(seed []byte) (*Ed25519PrivateKey, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("ed25519 seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	return &Ed25519PrivateKey{key: ed25519.NewKeyFromSeed(seed)}, nil
}

// GenerateEd25519 creates a new random Ed25519 key.
func GenerateEd25519() (*Ed25519PrivateKey, error) {
	_, key, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return &Ed25519PrivateKey{key: key}, nil
}

// Scheme returns SchemeEd25519.
func (k *Ed25519PrivateKey) Scheme() Scheme { return SchemeEd25519 }

// PublicKey returns the 32-byte public key.
func (k *Ed25519PrivateKey) PublicKey() []byte {
	pub := k.key.Public().(ed25519.PublicKey)
	out := make([]byte, len(pub))
	copy(out, pub)
	return out
}

// Sign signs the digest directly (Ed25519 hashes internally).
func (k *Ed25519PrivateKey) Sign(digest []byte) ([]byte, error) {
	return ed25519.Sign(k.key, digest), nil
}

// Seed returns the 32-byte seed.
func (k *Ed25519PrivateKey) Seed() []byte {
	return k.key.Seed()
}

// Zero clears the key material.
func (k *Ed25519PrivateKey) Zero() {
	for i := range k.key {
		k.key[i] = 0
	}
}

// Secp256k1PrivateKey signs with ECDSA over secp256k1.
type Secp256k1PrivateKey struct {
	key *secp256k1.PrivateKey
}

// Secp256k1FromBytes creates a key from a 32-byte secret.
func Secp256k1FromBytes(b []byte) (*Secp256k1PrivateKey, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("private key must be 32 bytes, got %d", len(b))
	}
	return &Secp256k1PrivateKey{key: secp256k1.PrivKeyFromBytes(b)}, nil
}

// GenerateSecp256k1 creates a new random secp256k1 key.
func GenerateSecp256k1() (*Secp256k1PrivateKey, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return &Secp256k1PrivateKey{key: key}, nil
}

// Scheme returns SchemeSecp256k1.
func (k *Secp256k1PrivateKey) Scheme() Scheme { return SchemeSecp256k1 }

// PublicKey returns the compressed 33-byte public key.
func (k *Secp256k1PrivateKey) PublicKey() []byte {
	return k.key.PubKey().SerializeCompressed()
}

// Sign produces a 64-byte r||s signature over SHA-256(digest) with low S.
func (k *Secp256k1PrivateKey) Sign(digest []byte) ([]byte, error) {
	h := sha256.Sum256(digest)
	// Compact form is [recovery byte][r][s]; Sui wants r||s only.
	compact := ecdsa.SignCompact(k.key, h[:], true)
	if len(compact) != SignatureSize+1 {
		return nil, fmt.Errorf("unexpected compact signature length %d", len(compact))
	}
	return compact[1:], nil
}

// Serialize returns the 32-byte private key scalar.
func (k *Secp256k1PrivateKey) Serialize() []byte {
	return k.key.Serialize()
}

// Zero securely zeroes the private key memory.
func (k *Secp256k1PrivateKey) Zero() {
	k.key.Zero()
}

// VerifySignature checks a raw signature against a digest for the given
// scheme and public key. Returns false on any error.
func VerifySignature(scheme Scheme, digest, signature, publicKey []byte) bool {
	if len(signature) != SignatureSize {
		return false
	}
	switch scheme {
	case SchemeEd25519:
		if len(publicKey) != Ed25519PublicKeySize {
			return false
		}
		return ed25519consensus.Verify(publicKey, digest, signature)
	case SchemeSecp256k1:
		pub, err := secp256k1.ParsePubKey(publicKey)
		if err != nil {
			return false
		}
		var r, s secp256k1.ModNScalar
		if overflow := r.SetByteSlice(signature[:32]); overflow {
			return false
		}
		if overflow := s.SetByteSlice(signature[32:]); overflow {
			return false
		}
		h := sha256.Sum256(digest)
		return ecdsa.NewSignature(&r, &s).Verify(h[:], pub)
	default:
		return false
	}
}

// SerializeSignature encodes flag || signature || pubkey as base64, the form
// sui_executeTransactionBlock expects.
func SerializeSignature(scheme Scheme, signature, publicKey []byte) string {
	buf := make([]byte, 0, 1+len(signature)+len(publicKey))
	buf = append(buf, byte(scheme))
	buf = append(buf, signature...)
	buf = append(buf, publicKey...)
	return base64.StdEncoding.EncodeToString(buf)
}

// ParsedSignature is a decoded serialized signature.
type ParsedSignature struct {
	Scheme    Scheme
	Signature []byte
	PublicKey []byte
}

// ParseSerializedSignature decodes the output of SerializeSignature.
func ParseSerializedSignature(s string) (*ParsedSignature, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if len(raw) < 1+SignatureSize {
		return nil, fmt.Errorf("%w: too short (%d bytes)", ErrInvalidSignature, len(raw))
	}
	scheme := Scheme(raw[0])
	var pubLen int
	switch scheme {
	case SchemeEd25519:
		pubLen = Ed25519PublicKeySize
	case SchemeSecp256k1:
		pubLen = Secp256k1PublicKeySize
	default:
		return nil, fmt.Errorf("%w: unsupported scheme flag %d", ErrInvalidSignature, raw[0])
	}
	if len(raw) != 1+SignatureSize+pubLen {
		return nil, fmt.Errorf("%w: length %d for %s", ErrInvalidSignature, len(raw), scheme)
	}
	return &ParsedSignature{
		Scheme:    scheme,
		Signature: raw[1 : 1+SignatureSize],
		PublicKey: raw[1+SignatureSize:],
	}, nil
}
