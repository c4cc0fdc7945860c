package wallet

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/Klingon-tech/hashcase/pkg/crypto"
	"github.com/tyler-smith/go-bip32"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("hex.DecodeString(%q): %v", s, err)
	}
	return b
}

// SLIP-0010 test vector 1 for ed25519 uses a 16-byte seed, so it starts
// from newEd25519Key rather than NewEd25519MasterKey.
func TestSLIP10_Vector1(t *testing.T) {
	h := uint32(bip32.FirstHardenedChild)
	steps := []struct {
		index uint32
		path  string
		priv  string
		pub   string
	}{
		{0, "m", "2b4be7f19ee27bbf30c667b642d5f4aa69fd169872f8fc3059c08ebae2eb19e7", "a4b2856bfec510abab89753fac1ac0e1112364e7d250545963f135f2a33188ed"},
		{h, "m/0'", "68e0fe46dfb67e368c75379acec591dad19df3cde26e63b93a8e704f1dade7a3", "8c8a13df77a28f3445213a0f432fde644acaa215fc72dcdf300d5efaa85d350c"},
		{h + 1, "m/0'/1'", "b1d0bad404bf35da785a64ca1ac54b2617211d2777696fbffaf208f746ae84f2", "1932a5270f335bed617d5b935c80aedb1a35bd9fc1e31acafd5372c30f5c1187"},
		{h + 2, "m/0'/1'/2'", "92a5b23c0b8a99e37d07df3fb9966917f5d06e02ddbd909c7e184371463e9fc9", "ae98736566d30ed0e9d2f4486a64bc95740d89c7db33f52121f8ea8f76ff0fc1"},
		{h + 2, "m/0'/1'/2'/2'", "30d1dc7e5fc04c31219ab25a27ae00b50f6fd66622f6e9c913253d6511d1e662", "8abae2d66361c879b900d204ad2cc4984fa2aa344dd7ddc46007329ac76c429c"},
		{h + 1000000000, "m/0'/1'/2'/2'/1000000000'", "8f94d394a8e8fd6b1bc2f3f49f5c47e385281d5c17e65324b0f62483e37e8793", "3c24da049451555d51a7014a37337aa4e12d41e485abccfa46b47dfb2af54b7a"},
	}

	key := newEd25519Key(mustHex(t, "000102030405060708090a0b0c0d0e0f"))
	for i, step := range steps {
		if i > 0 {
			child, err := key.DeriveChild(step.index)
			if err != nil {
				t.Fatalf("DeriveChild(%s) error: %v", step.path, err)
			}
			key = child
		}
		if key.Path() != step.path {
			t.Errorf("Path() = %q, want %q", key.Path(), step.path)
		}
		if int(key.Depth()) != i {
			t.Errorf("%s depth = %d, want %d", step.path, key.Depth(), i)
		}
		priv, err := key.PrivateKeyBytes()
		if err != nil {
			t.Fatalf("PrivateKeyBytes(%s) error: %v", step.path, err)
		}
		if !bytes.Equal(priv, mustHex(t, step.priv)) {
			t.Errorf("%s private key = %x, want %s", step.path, priv, step.priv)
		}
		pub, err := key.PublicKeyBytes()
		if err != nil {
			t.Fatalf("PublicKeyBytes(%s) error: %v", step.path, err)
		}
		if !bytes.Equal(pub, mustHex(t, step.pub)) {
			t.Errorf("%s public key = %x, want %s", step.path, pub, step.pub)
		}
	}
}

func TestSLIP10_RejectsNonHardened(t *testing.T) {
	master, err := NewEd25519MasterKey(testSeed(t))
	if err != nil {
		t.Fatalf("NewEd25519MasterKey() error: %v", err)
	}
	if _, err := master.DeriveChild(0); err == nil {
		t.Error("non-hardened ed25519 derivation should fail")
	}
}

func TestNewEd25519MasterKey_InvalidSeedLength(t *testing.T) {
	if _, err := NewEd25519MasterKey(make([]byte, 32)); err == nil {
		t.Error("32-byte seed should be rejected")
	}
}

func TestEd25519Key_DeriveAccountPath(t *testing.T) {
	master, err := NewEd25519MasterKey(testSeed(t))
	if err != nil {
		t.Fatalf("NewEd25519MasterKey() error: %v", err)
	}
	key, err := master.DeriveAccount(2, 7)
	if err != nil {
		t.Fatalf("DeriveAccount() error: %v", err)
	}
	if key.Path() != "m/44'/784'/2'/0'/7'" {
		t.Errorf("Path() = %q", key.Path())
	}
	if master.Path() != "m" {
		t.Errorf("master path changed to %q", master.Path())
	}
}

// The address DeriveAddress reports must be the Sui address of the key
// at m/44'/784'/0'/0'/0'.
func TestDeriveAddress_MatchesAccountKey(t *testing.T) {
	seed := testSeed(t)
	master, err := NewEd25519MasterKey(seed)
	if err != nil {
		t.Fatalf("NewEd25519MasterKey() error: %v", err)
	}
	key, err := master.DeriveAccount(0, 0)
	if err != nil {
		t.Fatalf("DeriveAccount() error: %v", err)
	}
	pub, err := key.PublicKeyBytes()
	if err != nil {
		t.Fatalf("PublicKeyBytes() error: %v", err)
	}

	addr, err := DeriveAddress(seed, crypto.SchemeEd25519, 0, 0)
	if err != nil {
		t.Fatalf("DeriveAddress() error: %v", err)
	}
	if want := crypto.AddressFromPubKey(crypto.SchemeEd25519, pub); addr != want {
		t.Errorf("DeriveAddress() = %s, want %s", addr, want)
	}
}

func TestDeriveSigner_Schemes(t *testing.T) {
	seed := testSeed(t)
	for _, scheme := range []crypto.Scheme{crypto.SchemeEd25519, crypto.SchemeSecp256k1} {
		t.Run(scheme.String(), func(t *testing.T) {
			s1, err := DeriveSigner(seed, scheme, 0, 0)
			if err != nil {
				t.Fatalf("DeriveSigner() error: %v", err)
			}
			if s1.Scheme() != scheme {
				t.Errorf("Scheme() = %s, want %s", s1.Scheme(), scheme)
			}
			s2, err := DeriveSigner(seed, scheme, 0, 1)
			if err != nil {
				t.Fatalf("DeriveSigner() error: %v", err)
			}
			if bytes.Equal(s1.PublicKey(), s2.PublicKey()) {
				t.Error("different indices should give different keys")
			}
			again, _ := DeriveSigner(seed, scheme, 0, 0)
			if !bytes.Equal(s1.PublicKey(), again.PublicKey()) {
				t.Error("derivation should be deterministic")
			}
		})
	}

	if _, err := DeriveSigner(seed, crypto.Scheme(0x09), 0, 0); err == nil {
		t.Error("unknown scheme should fail")
	}
}
