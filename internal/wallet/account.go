package wallet

import (
	"fmt"

	"github.com/Klingon-tech/hashcase/pkg/crypto"
	"github.com/Klingon-tech/hashcase/pkg/types"
)

// Account represents a derived wallet account.
type Account struct {
	Index   uint32
	Name    string
	Scheme  crypto.Scheme
	Address types.Address
}

// DeriveSigner derives the signing key for (account, index) from a BIP-39
// seed using the derivation path of scheme.
func DeriveSigner(seed []byte, scheme crypto.Scheme, account, index uint32) (crypto.Signer, error) {
	switch scheme {
	case crypto.SchemeEd25519:
		master, err := NewEd25519MasterKey(seed)
		if err != nil {
			return nil, err
		}
		defer master.Zero()
		key, err := master.DeriveAccount(account, index)
		if err != nil {
			return nil, err
		}
		return key.Signer()
	case crypto.SchemeSecp256k1:
		master, err := NewMasterKey(seed)
		if err != nil {
			return nil, err
		}
		key, err := master.DeriveAccount(account, index)
		if err != nil {
			return nil, err
		}
		return key.Signer()
	default:
		return nil, fmt.Errorf("unsupported signature scheme %s", scheme)
	}
}

// DeriveAddress returns the address DeriveSigner would sign for.
func DeriveAddress(seed []byte, scheme crypto.Scheme, account, index uint32) (types.Address, error) {
	signer, err := DeriveSigner(seed, scheme, account, index)
	if err != nil {
		return types.Address{}, err
	}
	return crypto.SignerAddress(signer), nil
}
