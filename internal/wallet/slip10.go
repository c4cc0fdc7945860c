package wallet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Klingon-tech/hashcase/pkg/crypto"
	"github.com/anyproto/go-slip10"
	"github.com/tyler-smith/go-bip32"
)

// Ed25519Key is a SLIP-0010 Ed25519 extended private key. Ed25519 only
// supports hardened derivation.
type Ed25519Key struct {
	seed []byte
	path []uint32
}

// NewEd25519MasterKey creates a SLIP-0010 master key from a 64-byte seed.
func NewEd25519MasterKey(seed []byte) (*Ed25519Key, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", SeedSize, len(seed))
	}
	return newEd25519Key(seed), nil
}

func newEd25519Key(seed []byte) *Ed25519Key {
	return &Ed25519Key{seed: append([]byte(nil), seed...)}
}

// DeriveChild derives the hardened child at index. Indices below
// bip32.FirstHardenedChild are rejected.
func (k *Ed25519Key) DeriveChild(index uint32) (*Ed25519Key, error) {
	if index < bip32.FirstHardenedChild {
		return nil, fmt.Errorf("derive child %d: ed25519 requires hardened derivation", index)
	}
	path := make([]uint32, len(k.path), len(k.path)+1)
	copy(path, k.path)
	return &Ed25519Key{seed: k.seed, path: append(path, index)}, nil
}

// DerivePath derives a key along a sequence of hardened indices.
func (k *Ed25519Key) DerivePath(indices ...uint32) (*Ed25519Key, error) {
	current := k
	for _, idx := range indices {
		child, err := current.DeriveChild(idx)
		if err != nil {
			return nil, err
		}
		current = child
	}
	return current, nil
}

// DeriveAccount derives the key at m/44'/784'/account'/0'/index'.
func (k *Ed25519Key) DeriveAccount(account, index uint32) (*Ed25519Key, error) {
	return k.DerivePath(
		PurposeEd25519,
		CoinTypeSui,
		bip32.FirstHardenedChild+account,
		bip32.FirstHardenedChild,
		bip32.FirstHardenedChild+index,
	)
}

// Path returns the derivation path in m/44'/784'/... notation.
func (k *Ed25519Key) Path() string {
	var sb strings.Builder
	sb.WriteString("m")
	for _, idx := range k.path {
		sb.WriteString("/")
		sb.WriteString(strconv.FormatUint(uint64(idx-bip32.FirstHardenedChild), 10))
		sb.WriteString("'")
	}
	return sb.String()
}

// keypair runs the SLIP-0010 derivation for the key's path.
func (k *Ed25519Key) keypair() (pub, seed []byte, err error) {
	node, err := slip10.DeriveForPath(k.Path(), k.seed)
	if err != nil {
		return nil, nil, fmt.Errorf("slip10 derive %s: %w", k.Path(), err)
	}
	pubKey, privKey := node.Keypair()
	return pubKey, privKey.Seed(), nil
}

// PrivateKeyBytes returns the 32-byte Ed25519 seed.
func (k *Ed25519Key) PrivateKeyBytes() ([]byte, error) {
	_, seed, err := k.keypair()
	return seed, err
}

// PublicKeyBytes returns the 32-byte Ed25519 public key.
func (k *Ed25519Key) PublicKeyBytes() ([]byte, error) {
	pub, _, err := k.keypair()
	return pub, err
}

// Depth returns the derivation depth (0 for master).
func (k *Ed25519Key) Depth() uint8 {
	return uint8(len(k.path))
}

// Signer returns the Ed25519 signing key.
func (k *Ed25519Key) Signer() (*crypto.Ed25519PrivateKey, error) {
	_, seed, err := k.keypair()
	if err != nil {
		return nil, err
	}
	return crypto.Ed25519FromSeed(seed)
}

// Zero clears the seed held by the key. Keys derived from it share the
// seed and become unusable too.
func (k *Ed25519Key) Zero() {
	for i := range k.seed {
		k.seed[i] = 0
	}
}
