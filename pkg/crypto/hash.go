// Package crypto provides the hashing and signing primitives used to
// authenticate Sui transactions.
package crypto

import (
	"github.com/Klingon-tech/hashcase/pkg/types"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
)

// Hash computes a BLAKE3-256 hash of the input data. Used for local
// fingerprints only; nothing on chain depends on it.
func Hash(data []byte) types.Hash {
	return blake3.Sum256(data)
}

// Blake2b256 computes the BLAKE2b-256 hash Sui uses for digests and addresses.
func Blake2b256(data ...[]byte) [32]byte {
	h, _ := blake2b.New256(nil) // only fails for keys longer than 64 bytes
	for _, d := range data {
		h.Write(d)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// AddressFromPubKey derives a Sui address from a public key.
// Address = BLAKE2b-256(scheme_flag || pubkey).
func AddressFromPubKey(scheme Scheme, pubKey []byte) types.Address {
	return types.Address(Blake2b256([]byte{byte(scheme)}, pubKey))
}
