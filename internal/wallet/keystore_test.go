package wallet

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Klingon-tech/hashcase/pkg/crypto"
)

func testKeystore(t *testing.T) *Keystore {
	t.Helper()
	dir := t.TempDir()
	ks, err := NewKeystore(dir)
	if err != nil {
		t.Fatalf("NewKeystore() error: %v", err)
	}
	return ks
}

func testSeedBytes(t *testing.T) []byte {
	t.Helper()
	mnemonic := "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	seed, err := SeedFromMnemonic(mnemonic, "")
	if err != nil {
		t.Fatalf("SeedFromMnemonic() error: %v", err)
	}
	return seed
}

func TestKeystore_CreateAndLoad(t *testing.T) {
	ks := testKeystore(t)
	seed := testSeedBytes(t)
	password := []byte("test-password-123")

	err := ks.Create("mywallet", seed, password, crypto.SchemeEd25519, fastParams())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	loaded, err := ks.Load("mywallet", password)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !bytes.Equal(loaded, seed) {
		t.Error("loaded seed does not match original")
	}

	scheme, err := ks.Scheme("mywallet")
	if err != nil {
		t.Fatalf("Scheme() error: %v", err)
	}
	if scheme != crypto.SchemeEd25519 {
		t.Errorf("Scheme() = %s, want ed25519", scheme)
	}
}

func TestKeystore_CreateDuplicate(t *testing.T) {
	ks := testKeystore(t)
	seed := testSeedBytes(t)

	err := ks.Create("dup", seed, []byte("pass"), crypto.SchemeEd25519, fastParams())
	if err != nil {
		t.Fatalf("first Create() error: %v", err)
	}

	err = ks.Create("dup", seed, []byte("pass"), crypto.SchemeEd25519, fastParams())
	if err == nil {
		t.Error("second Create() should fail for duplicate name")
	}
}

func TestKeystore_CreateInvalid(t *testing.T) {
	ks := testKeystore(t)
	seed := testSeedBytes(t)

	for _, name := range []string{"", "../escape", "a/b", ".hidden"} {
		if err := ks.Create(name, seed, []byte("p"), crypto.SchemeEd25519, fastParams()); err == nil {
			t.Errorf("Create(%q) should fail", name)
		}
	}
	if err := ks.Create("short", seed[:32], []byte("p"), crypto.SchemeEd25519, fastParams()); err == nil {
		t.Error("Create with a 32-byte seed should fail")
	}
}

func TestKeystore_LoadWrongPassword(t *testing.T) {
	ks := testKeystore(t)
	seed := testSeedBytes(t)

	ks.Create("wallet", seed, []byte("correct"), crypto.SchemeEd25519, fastParams())

	_, err := ks.Load("wallet", []byte("wrong"))
	if !errors.Is(err, ErrWrongPassword) {
		t.Errorf("Load() with wrong password error = %v, want ErrWrongPassword", err)
	}
}

func TestKeystore_RenamedFileDoesNotDecrypt(t *testing.T) {
	ks := testKeystore(t)
	seed := testSeedBytes(t)
	if err := ks.Create("original", seed, []byte("p"), crypto.SchemeEd25519, fastParams()); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if err := os.Rename(ks.walletPath("original"), ks.walletPath("copy")); err != nil {
		t.Fatalf("Rename() error: %v", err)
	}

	if _, err := ks.Load("copy", []byte("p")); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("Load() renamed wallet error = %v, want ErrWrongPassword", err)
	}
}

func TestKeystore_LoadNonexistent(t *testing.T) {
	ks := testKeystore(t)

	_, err := ks.Load("ghost", []byte("pass"))
	if !errors.Is(err, ErrWalletNotFound) {
		t.Errorf("Load() nonexistent error = %v, want ErrWalletNotFound", err)
	}
}

func TestKeystore_List(t *testing.T) {
	ks := testKeystore(t)
	seed := testSeedBytes(t)

	names, err := ks.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("expected empty list, got %v", names)
	}

	ks.Create("alpha", seed, []byte("p"), crypto.SchemeEd25519, fastParams())
	ks.Create("beta", seed, []byte("p"), crypto.SchemeSecp256k1, fastParams())

	names, err = ks.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(names) != 2 {
		t.Errorf("expected 2 wallets, got %d: %v", len(names), names)
	}
}

func TestKeystore_Delete(t *testing.T) {
	ks := testKeystore(t)
	seed := testSeedBytes(t)

	ks.Create("todelete", seed, []byte("p"), crypto.SchemeEd25519, fastParams())

	if err := ks.Delete("todelete"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}

	_, err := ks.Load("todelete", []byte("p"))
	if err == nil {
		t.Error("Load() after Delete() should fail")
	}

	if err := ks.Delete("todelete"); !errors.Is(err, ErrWalletNotFound) {
		t.Errorf("second Delete() error = %v, want ErrWalletNotFound", err)
	}
}

func TestKeystore_AddAccount(t *testing.T) {
	ks := testKeystore(t)
	seed := testSeedBytes(t)

	ks.Create("wallet", seed, []byte("p"), crypto.SchemeEd25519, fastParams())

	err := ks.AddAccount("wallet", AccountEntry{Index: 0, Name: "default", Address: "0xaa"})
	if err != nil {
		t.Fatalf("AddAccount() error: %v", err)
	}

	accounts, err := ks.ListAccounts("wallet")
	if err != nil {
		t.Fatalf("ListAccounts() error: %v", err)
	}
	if len(accounts) != 1 || accounts[0].Name != "default" {
		t.Fatalf("accounts = %+v", accounts)
	}

	next, err := ks.NextIndex("wallet")
	if err != nil {
		t.Fatalf("NextIndex() error: %v", err)
	}
	if next != 1 {
		t.Errorf("NextIndex() = %d, want 1", next)
	}

	// Same entry again is a no-op.
	if err := ks.AddAccount("wallet", AccountEntry{Index: 0, Name: "default", Address: "0xaa"}); err != nil {
		t.Errorf("idempotent AddAccount() error: %v", err)
	}
	if err := ks.AddAccount("wallet", AccountEntry{Index: 0, Name: "second", Address: "0xbb"}); err == nil {
		t.Error("should reject duplicate account index")
	}

	if err := ks.AddAccount("wallet", AccountEntry{Index: 4, Name: "far", Address: "0xcc"}); err != nil {
		t.Fatalf("AddAccount() error: %v", err)
	}
	if next, _ := ks.NextIndex("wallet"); next != 5 {
		t.Errorf("NextIndex() = %d, want 5", next)
	}
}

func TestKeystore_FilePermissions(t *testing.T) {
	ks := testKeystore(t)
	seed := testSeedBytes(t)

	ks.Create("secure", seed, []byte("p"), crypto.SchemeEd25519, fastParams())

	path := filepath.Join(ks.Dir(), "secure.wallet")
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error: %v", err)
	}

	perm := info.Mode().Perm()
	if perm&0077 != 0 {
		t.Errorf("wallet file should be 0600, got %o", perm)
	}
}

func TestKeystore_Signer(t *testing.T) {
	ks := testKeystore(t)
	seed := testSeedBytes(t)
	password := []byte("pw")

	for _, scheme := range []crypto.Scheme{crypto.SchemeEd25519, crypto.SchemeSecp256k1} {
		name := "w-" + scheme.String()
		if err := ks.Create(name, seed, password, scheme, fastParams()); err != nil {
			t.Fatalf("Create() error: %v", err)
		}
		signer, err := ks.Signer(name, password, 2)
		if err != nil {
			t.Fatalf("Signer() error: %v", err)
		}
		want, err := DeriveAddress(seed, scheme, 0, 2)
		if err != nil {
			t.Fatalf("DeriveAddress() error: %v", err)
		}
		if got := crypto.SignerAddress(signer); got != want {
			t.Errorf("%s: signer address = %s, want %s", scheme, got, want)
		}
	}

	if _, err := ks.Signer("w-ed25519", []byte("bad"), 0); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("Signer() with wrong password error = %v", err)
	}
}

func TestKeystore_FullFlow(t *testing.T) {
	ks := testKeystore(t)
	password := []byte("strong-password")

	mnemonic, _ := GenerateMnemonic()
	seed, _ := SeedFromMnemonic(mnemonic, "")

	if err := ks.Create("main", seed, password, crypto.SchemeEd25519, fastParams()); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	addr, err := DeriveAddress(seed, crypto.SchemeEd25519, 0, 0)
	if err != nil {
		t.Fatalf("DeriveAddress() error: %v", err)
	}
	if err := ks.AddAccount("main", AccountEntry{Index: 0, Name: "default", Address: addr.String()}); err != nil {
		t.Fatalf("AddAccount() error: %v", err)
	}

	loaded, err := ks.Load("main", password)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !bytes.Equal(loaded, seed) {
		t.Error("loaded seed mismatch")
	}

	accounts, _ := ks.ListAccounts("main")
	if len(accounts) != 1 || accounts[0].Address != addr.String() {
		t.Error("account not persisted correctly")
	}
}
