// derive_key.go prints the Sui addresses derived from a mnemonic file for
// both key schemes, to cross-check against other Sui wallets.
// Usage: go run scripts/derive_key.go <mnemonicfile> [count]
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"

	"github.com/Klingon-tech/hashcase/internal/wallet"
	"github.com/Klingon-tech/hashcase/pkg/crypto"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: derive_key <mnemonicfile> [count]")
		os.Exit(1)
	}
	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fail(err)
	}
	count := 1
	if len(os.Args) > 2 {
		if count, err = strconv.Atoi(os.Args[2]); err != nil || count < 1 {
			fail(fmt.Errorf("invalid count %q", os.Args[2]))
		}
	}

	mnemonic := wallet.NormalizeMnemonic(string(data))
	if !wallet.ValidateMnemonic(mnemonic) {
		fail(fmt.Errorf("invalid mnemonic"))
	}
	seed, err := wallet.SeedFromMnemonic(mnemonic, "")
	if err != nil {
		fail(err)
	}

	for _, scheme := range []crypto.Scheme{crypto.SchemeEd25519, crypto.SchemeSecp256k1} {
		for i := 0; i < count; i++ {
			signer, err := wallet.DeriveSigner(seed, scheme, 0, uint32(i))
			if err != nil {
				fail(err)
			}
			fmt.Printf("%s[%d] pubkey=%s address=%s\n", scheme, i,
				hex.EncodeToString(signer.PublicKey()), crypto.SignerAddress(signer))
		}
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
