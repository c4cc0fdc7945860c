package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	klog "github.com/Klingon-tech/hashcase/internal/log"
	"github.com/Klingon-tech/hashcase/pkg/crypto"
)

// ErrWalletNotFound is returned for operations on a missing wallet file.
var ErrWalletNotFound = errors.New("wallet not found")

const keystoreVersion = 2

// sealLabel binds an encrypted seed to the wallet it was created for, so a
// renamed file or an edited scheme no longer decrypts.
func sealLabel(name, scheme string) string {
	return "hashcase-wallet:" + name + ":" + scheme
}

// keystoreFile is the on-disk JSON format for an encrypted wallet.
type keystoreFile struct {
	Version       int            `json:"version"`
	CreatedAt     time.Time      `json:"created_at"`
	Scheme        string         `json:"scheme"`
	EncryptedSeed []byte         `json:"encrypted_seed"`
	Accounts      []AccountEntry `json:"accounts"`
	NextIndex     uint32         `json:"next_index"`
}

// AccountEntry stores metadata for a derived account. Index is the last
// path component; the account component is always 0.
type AccountEntry struct {
	Index   uint32 `json:"index"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Keystore manages encrypted key storage on disk.
type Keystore struct {
	path string
}

// NewKeystore creates a keystore that reads/writes to the given directory.
// The directory is created if it doesn't exist.
func NewKeystore(path string) (*Keystore, error) {
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, fmt.Errorf("create keystore dir: %w", err)
	}
	return &Keystore{path: path}, nil
}

// Dir returns the keystore directory.
func (ks *Keystore) Dir() string {
	return ks.path
}

func validName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("invalid wallet name %q", name)
	}
	return nil
}

// walletPath returns the file path for a wallet by name.
func (ks *Keystore) walletPath(name string) string {
	return filepath.Join(ks.path, name+".wallet")
}

// Create creates a new encrypted wallet file from a mnemonic seed.
func (ks *Keystore) Create(name string, seed, password []byte, scheme crypto.Scheme, params EncryptionParams) error {
	if err := validName(name); err != nil {
		return err
	}
	if len(seed) != SeedSize {
		return fmt.Errorf("seed must be %d bytes, got %d", SeedSize, len(seed))
	}
	path := ks.walletPath(name)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("wallet %q already exists", name)
	}

	encrypted, err := Seal(seed, password, sealLabel(name, scheme.String()), params)
	if err != nil {
		return fmt.Errorf("encrypt seed: %w", err)
	}

	kf := keystoreFile{
		Version:       keystoreVersion,
		CreatedAt:     time.Now().UTC(),
		Scheme:        scheme.String(),
		EncryptedSeed: encrypted,
		Accounts:      []AccountEntry{},
	}
	if err := ks.writeFile(path, &kf); err != nil {
		return err
	}
	klog.Wallet.Info().Str("wallet", name).Str("scheme", kf.Scheme).Msg("Wallet created")
	return nil
}

// Load decrypts a wallet and returns the seed bytes.
func (ks *Keystore) Load(name string, password []byte) ([]byte, error) {
	kf, err := ks.read(name)
	if err != nil {
		return nil, err
	}

	seed, err := Open(kf.EncryptedSeed, password, sealLabel(name, kf.Scheme))
	if err != nil {
		return nil, fmt.Errorf("decrypt wallet: %w", err)
	}

	return seed, nil
}

// Scheme returns the signature scheme a wallet derives keys for.
func (ks *Keystore) Scheme(name string) (crypto.Scheme, error) {
	kf, err := ks.read(name)
	if err != nil {
		return 0, err
	}
	return crypto.ParseScheme(kf.Scheme)
}

// Signer decrypts a wallet and derives the signing key at index.
func (ks *Keystore) Signer(name string, password []byte, index uint32) (crypto.Signer, error) {
	kf, err := ks.read(name)
	if err != nil {
		return nil, err
	}
	scheme, err := crypto.ParseScheme(kf.Scheme)
	if err != nil {
		return nil, err
	}
	seed, err := Open(kf.EncryptedSeed, password, sealLabel(name, kf.Scheme))
	if err != nil {
		return nil, fmt.Errorf("decrypt wallet: %w", err)
	}
	defer zero(seed)
	return DeriveSigner(seed, scheme, 0, index)
}

// AddAccount records a derived account in the wallet metadata and advances
// the next index past it.
func (ks *Keystore) AddAccount(walletName string, acct AccountEntry) error {
	kf, err := ks.read(walletName)
	if err != nil {
		return err
	}

	for _, existing := range kf.Accounts {
		if existing.Index == acct.Index {
			// Idempotent insert if metadata points to the same address.
			if existing.Address == acct.Address {
				return nil
			}
			return fmt.Errorf("account index %d already exists", acct.Index)
		}
		if existing.Address != "" && existing.Address == acct.Address {
			return nil
		}
	}

	kf.Accounts = append(kf.Accounts, acct)
	if acct.Index >= kf.NextIndex {
		kf.NextIndex = acct.Index + 1
	}
	return ks.writeFile(ks.walletPath(walletName), kf)
}

// ListAccounts returns the account entries for a wallet.
func (ks *Keystore) ListAccounts(walletName string) ([]AccountEntry, error) {
	kf, err := ks.read(walletName)
	if err != nil {
		return nil, err
	}
	return kf.Accounts, nil
}

// NextIndex returns the next unused account index for a wallet.
func (ks *Keystore) NextIndex(name string) (uint32, error) {
	kf, err := ks.read(name)
	if err != nil {
		return 0, err
	}
	return kf.NextIndex, nil
}

// List returns the names of all wallet files in the keystore.
func (ks *Keystore) List() ([]string, error) {
	entries, err := os.ReadDir(ks.path)
	if err != nil {
		return nil, fmt.Errorf("read keystore dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if ext := filepath.Ext(name); ext == ".wallet" {
			names = append(names, name[:len(name)-len(ext)])
		}
	}
	return names, nil
}

// Delete removes a wallet file.
func (ks *Keystore) Delete(name string) error {
	if err := validName(name); err != nil {
		return err
	}
	path := ks.walletPath(name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("%w: %q", ErrWalletNotFound, name)
	}
	return os.Remove(path)
}

func (ks *Keystore) read(name string) (*keystoreFile, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	return ks.readFile(ks.walletPath(name))
}

func (ks *Keystore) writeFile(path string, kf *keystoreFile) error {
	data, err := json.MarshalIndent(kf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal wallet: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write wallet: %w", err)
	}
	return nil
}

func (ks *Keystore) readFile(path string) (*keystoreFile, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrWalletNotFound, filepath.Base(path))
	}
	if err != nil {
		return nil, fmt.Errorf("read wallet: %w", err)
	}
	var kf keystoreFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("parse wallet: %w", err)
	}
	if kf.Version != keystoreVersion {
		return nil, fmt.Errorf("unsupported wallet version: %d", kf.Version)
	}
	return &kf, nil
}
