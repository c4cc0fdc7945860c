package main

import (
	"flag"
	"fmt"

	"github.com/Klingon-tech/hashcase/internal/wallet"
	"github.com/Klingon-tech/hashcase/pkg/crypto"
)

// ── wallet ──────────────────────────────────────────────────────────────

const walletUsage = "Usage: hashcase-cli wallet <create|import|list|address|new-address> [flags]"

func (a *app) cmdWallet(args []string) {
	if len(args) < 1 {
		fatal(walletUsage)
	}

	switch args[0] {
	case "create":
		a.cmdWalletCreate(args[1:])
	case "import":
		a.cmdWalletImport(args[1:])
	case "list":
		a.cmdWalletList()
	case "address":
		a.cmdWalletAddress(args[1:])
	case "new-address":
		a.cmdWalletNewAddress(args[1:])
	default:
		fatal("Unknown wallet command: %s\n%s", args[0], walletUsage)
	}
}

func (a *app) cmdWalletCreate(args []string) {
	fs := flag.NewFlagSet("wallet create", flag.ExitOnError)
	name := fs.String("name", a.cfg.Wallet.Name, "Wallet name")
	schemeName := fs.String("scheme", "ed25519", "Key scheme: ed25519 or secp256k1")
	fs.Parse(args)

	scheme, err := crypto.ParseScheme(*schemeName)
	if err != nil {
		fatal("%v", err)
	}

	mnemonic, err := wallet.GenerateMnemonic()
	if err != nil {
		fatal("generate mnemonic: %v", err)
	}

	fmt.Println("Mnemonic (write this down!):")
	fmt.Printf("  %s\n\n", mnemonic)

	a.storeWallet(*name, mnemonic, scheme)
	fmt.Printf("\nWallet created: %s\n", *name)
}

func (a *app) cmdWalletImport(args []string) {
	fs := flag.NewFlagSet("wallet import", flag.ExitOnError)
	name := fs.String("name", a.cfg.Wallet.Name, "Wallet name")
	mnemonic := fs.String("mnemonic", "", "BIP-39 mnemonic")
	schemeName := fs.String("scheme", "ed25519", "Key scheme: ed25519 or secp256k1")
	fs.Parse(args)

	if *mnemonic == "" {
		fatal("Usage: hashcase-cli wallet import --name <name> --mnemonic \"word1 word2 ...\" [--scheme ed25519|secp256k1]")
	}
	if !wallet.ValidateMnemonic(*mnemonic) {
		fatal("invalid mnemonic")
	}
	scheme, err := crypto.ParseScheme(*schemeName)
	if err != nil {
		fatal("%v", err)
	}

	a.storeWallet(*name, *mnemonic, scheme)
	fmt.Printf("Wallet imported: %s\n", *name)
}

// storeWallet encrypts the seed of mnemonic under a new password and
// records account 0.
func (a *app) storeWallet(name, mnemonic string, scheme crypto.Scheme) {
	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	if string(password) != string(confirm) {
		fatal("passwords do not match")
	}

	seed, err := wallet.SeedFromMnemonic(mnemonic, "")
	if err != nil {
		fatal("derive seed: %v", err)
	}
	defer zero(seed)

	// Derive account 0 address before encrypting.
	addr, err := wallet.DeriveAddress(seed, scheme, 0, 0)
	if err != nil {
		fatal("derive address: %v", err)
	}

	ks := a.keystore()
	if err := ks.Create(name, seed, password, scheme, wallet.DefaultParams()); err != nil {
		fatal("create wallet: %v", err)
	}
	if err := ks.AddAccount(name, wallet.AccountEntry{
		Index:   0,
		Name:    "Default",
		Address: addr.String(),
	}); err != nil {
		fatal("add account: %v", err)
	}
	fmt.Printf("Scheme:  %s\n", scheme)
	fmt.Printf("Address: %s\n", addr)
}

func (a *app) cmdWalletList() {
	names, err := a.keystore().List()
	if err != nil {
		fatal("list wallets: %v", err)
	}

	if len(names) == 0 {
		fmt.Println("No wallets found.")
		return
	}

	for _, name := range names {
		marker := " "
		if name == a.cfg.Wallet.Name {
			marker = "*"
		}
		fmt.Printf("%s %s\n", marker, name)
	}
}

func (a *app) cmdWalletAddress(args []string) {
	fs := flag.NewFlagSet("wallet address", flag.ExitOnError)
	walletName := fs.String("wallet", a.cfg.Wallet.Name, "Wallet name")
	fs.Parse(args)

	ks := a.keystore()
	scheme, err := ks.Scheme(*walletName)
	if err != nil {
		fatal("open wallet: %v", err)
	}
	accounts, err := ks.ListAccounts(*walletName)
	if err != nil {
		fatal("list accounts: %v", err)
	}

	if len(accounts) == 0 {
		fmt.Println("No addresses found.")
		return
	}

	fmt.Printf("%s (%s)\n", *walletName, scheme)
	for _, acct := range accounts {
		fmt.Printf("  [%d] %s\n", acct.Index, acct.Address)
	}
}

func (a *app) cmdWalletNewAddress(args []string) {
	fs := flag.NewFlagSet("wallet new-address", flag.ExitOnError)
	walletName := fs.String("wallet", a.cfg.Wallet.Name, "Wallet name")
	fs.Parse(args)

	ks := a.keystore()
	scheme, err := ks.Scheme(*walletName)
	if err != nil {
		fatal("open wallet: %v", err)
	}
	index, err := ks.NextIndex(*walletName)
	if err != nil {
		fatal("read wallet: %v", err)
	}

	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	seed, err := ks.Load(*walletName, password)
	zero(password)
	if err != nil {
		fatal("unlock wallet: %v", err)
	}
	defer zero(seed)

	addr, err := wallet.DeriveAddress(seed, scheme, 0, index)
	if err != nil {
		fatal("derive address: %v", err)
	}
	if err := ks.AddAccount(*walletName, wallet.AccountEntry{
		Index:   index,
		Name:    fmt.Sprintf("Account %d", index),
		Address: addr.String(),
	}); err != nil {
		fatal("add account: %v", err)
	}

	fmt.Printf("New address [%d]: %s\n", index, addr)
}
