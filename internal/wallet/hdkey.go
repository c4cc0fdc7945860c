package wallet

import (
	"fmt"

	"github.com/Klingon-tech/hashcase/pkg/crypto"
	"github.com/Klingon-tech/hashcase/pkg/types"
	"github.com/tyler-smith/go-bip32"
)

// Derivation path constants used by Sui wallets.
//
//	Ed25519:   m/44'/784'/account'/0'/index'  (SLIP-0010, all hardened)
//	Secp256k1: m/54'/784'/account'/0/index    (BIP-32)
const (
	// PurposeEd25519 is the BIP-44 purpose field (hardened).
	PurposeEd25519 = bip32.FirstHardenedChild + 44

	// PurposeSecp256k1 is the purpose Sui assigns to secp256k1 keys (hardened).
	PurposeSecp256k1 = bip32.FirstHardenedChild + 54

	// CoinTypeSui is the SLIP-44 coin type for Sui (hardened).
	CoinTypeSui = bip32.FirstHardenedChild + 784
)

// HDKey represents a secp256k1 hierarchical deterministic key (BIP-32).
type HDKey struct {
	key *bip32.Key
}

// NewMasterKey creates a master HD key from a 64-byte seed.
func NewMasterKey(seed []byte) (*HDKey, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", SeedSize, len(seed))
	}
	master, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("create master key: %w", err)
	}
	return &HDKey{key: master}, nil
}

// DeriveChild derives a child key at the given index.
// For hardened derivation, add bip32.FirstHardenedChild to the index.
func (k *HDKey) DeriveChild(index uint32) (*HDKey, error) {
	child, err := k.key.NewChildKey(index)
	if err != nil {
		return nil, fmt.Errorf("derive child %d: %w", index, err)
	}
	return &HDKey{key: child}, nil
}

// DerivePath derives a key along a sequence of indices.
func (k *HDKey) DerivePath(indices ...uint32) (*HDKey, error) {
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

// DeriveAccount derives the key at m/54'/784'/account'/0/index.
func (k *HDKey) DeriveAccount(account, index uint32) (*HDKey, error) {
	return k.DerivePath(
		PurposeSecp256k1,
		CoinTypeSui,
		bip32.FirstHardenedChild+account,
		0,
		index,
	)
}

// PrivateKeyBytes returns the raw 32-byte private key.
// Returns nil if this is a public-only key.
func (k *HDKey) PrivateKeyBytes() []byte {
	if !k.key.IsPrivate {
		return nil
	}
	// bip32 Key.Key is 33 bytes with a leading 0x00 for private keys.
	raw := k.key.Key
	if len(raw) == 33 && raw[0] == 0 {
		return raw[1:]
	}
	return raw
}

// PublicKeyBytes returns the compressed 33-byte public key.
func (k *HDKey) PublicKeyBytes() []byte {
	pub := k.key.PublicKey()
	return pub.Key
}

// Signer returns the secp256k1 signing key.
// Returns error if this is a public-only key.
func (k *HDKey) Signer() (*crypto.Secp256k1PrivateKey, error) {
	priv := k.PrivateKeyBytes()
	if priv == nil {
		return nil, fmt.Errorf("cannot create signer from public key")
	}
	return crypto.Secp256k1FromBytes(priv)
}

// Address returns the Sui address of this key:
// BLAKE2b-256(0x01 || compressed_pubkey).
func (k *HDKey) Address() types.Address {
	return crypto.AddressFromPubKey(crypto.SchemeSecp256k1, k.PublicKeyBytes())
}

// IsPrivate returns true if this key contains a private key.
func (k *HDKey) IsPrivate() bool {
	return k.key.IsPrivate
}

// Depth returns the derivation depth (0 for master).
func (k *HDKey) Depth() uint8 {
	return k.key.Depth
}

// Neuter returns a public-key-only copy (for watch-only wallets).
func (k *HDKey) Neuter() *HDKey {
	return &HDKey{key: k.key.PublicKey()}
}
