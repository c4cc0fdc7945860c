// hashcase-cli is a command-line client for the Hashcase NFT and
// loyalty-points contracts on a Sui network.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Klingon-tech/hashcase/config"
	"github.com/Klingon-tech/hashcase/internal/executor"
	klog "github.com/Klingon-tech/hashcase/internal/log"
	"github.com/Klingon-tech/hashcase/internal/points"
	"github.com/Klingon-tech/hashcase/internal/rpcclient"
	"github.com/Klingon-tech/hashcase/internal/storage"
	"github.com/Klingon-tech/hashcase/internal/sui"
	"github.com/Klingon-tech/hashcase/internal/wallet"
	"github.com/Klingon-tech/hashcase/pkg/types"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

// balancePrefix namespaces the last-known balance cache in the cache DB.
var balancePrefix = []byte("points/")

// app carries the resolved configuration and fullnode client into commands.
type app struct {
	cfg    *config.Config
	client *sui.Client
}

func main() {
	cfg, flags, err := config.Load(os.Args[1:])
	if err != nil {
		fatal("%v", err)
	}
	if flags.Version {
		fmt.Printf("hashcase-cli %s\n", version)
		return
	}
	if flags.Help {
		usage()
		return
	}
	if len(flags.Args) == 0 {
		usage()
		os.Exit(1)
	}

	if err := klog.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		fatal("init logging: %v", err)
	}

	a := &app{
		cfg:    cfg,
		client: sui.New(rpcclient.NewWithTimeout(cfg.RPC.URL, cfg.RPC.Timeout)),
	}
	cmd := flags.Args[0]
	cmdArgs := flags.Args[1:]

	switch cmd {
	case "balance":
		a.cmdBalance(cmdArgs)
	case "tokens":
		a.cmdTokens(cmdArgs)
	case "watch":
		a.cmdWatch(cmdArgs)
	case "spend":
		a.cmdSpend(cmdArgs)
	case "points":
		a.cmdPoints(cmdArgs)
	case "nft":
		a.cmdNFT(cmdArgs)
	case "wallet":
		a.cmdWallet(cmdArgs)
	case "cache":
		a.cmdCache(cmdArgs)
	case "config":
		a.cmdConfig(cmdArgs)
	case "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: hashcase-cli [global flags] <command> [flags]

Global flags:
  --network <net>       mainnet (default), testnet, devnet or localnet
  --testnet             Shorthand for --network testnet
  --datadir <path>      Data directory (default: ~/.hashcase)
  --config, -c <file>   Config file (default: <datadir>/hashcase.conf)
  --rpc <url>           Fullnode JSON-RPC URL (default: public fullnode of the network)
  --rpc-timeout <d>     RPC request timeout (default: 30s)
  --package <id>        Hashcase package ID
  --points-type <type>  Loyalty points token struct type
  --merge <mode>        How spends consolidate tokens: coin or move
  --gas-budget <mist>   Gas budget per transaction
  --wallet <name>       Wallet used for signing (default: default)
  --index <n>           Account index within the wallet
  --interval <d>        Refresh interval for watch
  --log-level <lvl>     trace, debug, info, warn, error, off
  --log-file <path>     Also write JSON logs to a file
  --log-json            JSON console logs
  --version             Show version

Loyalty points:
  balance [--owner <addr>]        Total points balance across all tokens
  tokens [--owner <addr>]         List points tokens in listing order
  watch [--owner <addr>]          Refresh the balance until interrupted
  spend --treasury-cap <id> --amount <n> [--dry-run]
                                  Merge/split tokens and spend an exact amount
  points create --treasury-cap <id> --amount <n> [--recipient <addr>]
  points add --treasury-cap <id> --token <id> --amount <n>
  points spend-token --treasury-cap <id> --token <id> --amount <n>

NFTs (hashcase_module):
  nft owner-cap --admin-cap <id> [--owner <addr>]
  nft collection --owner-cap <id> --registry <id> --name <n> [opts]
  nft mint --admin-cap <id> --collection <id> --name <n> [--recipient <addr>]
  nft update --collection <id> --nft <id> --name <n>
  nft mint-fixed --collection <id> --price <sui> --name <n>
  nft mint-dynamic --collection <id> --price <sui> --name <n>
  nft claim --collection <id> --nft <id>
  nft transfer --object <id> --to <addr>

Wallet:
  wallet create --name <n> [--scheme ed25519|secp256k1]
  wallet import --name <n> --mnemonic "..." [--scheme ed25519|secp256k1]
  wallet list                     List wallets
  wallet address [--wallet <w>]   List derived addresses
  wallet new-address [--wallet <w>]
                                  Derive the next address

Other:
  cache clear                     Forget last-known balances
  config show                     Print the effective configuration

Transaction commands accept --dry-run to simulate without signing.
`)
}

// ── Shared setup ────────────────────────────────────────────────────────

// signalContext is cancelled on interrupt or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func (a *app) keystore() *wallet.Keystore {
	ks, err := wallet.NewKeystore(a.cfg.KeystoreDir())
	if err != nil {
		fatal("open keystore: %v", err)
	}
	return ks
}

// defaultAddress returns the recorded address of the configured wallet
// account without decrypting the wallet.
func (a *app) defaultAddress() types.Address {
	accounts, err := a.keystore().ListAccounts(a.cfg.Wallet.Name)
	if err != nil {
		fatal("wallet %q: %v (pass --owner or create a wallet)", a.cfg.Wallet.Name, err)
	}
	for _, acct := range accounts {
		if acct.Index != a.cfg.Wallet.Index {
			continue
		}
		addr, err := types.ParseAddress(acct.Address)
		if err != nil {
			fatal("wallet %q: stored address: %v", a.cfg.Wallet.Name, err)
		}
		return addr
	}
	fatal("wallet %q has no account %d (run wallet new-address)", a.cfg.Wallet.Name, a.cfg.Wallet.Index)
	return types.Address{}
}

// owner resolves an --owner flag, falling back to the wallet address.
func (a *app) owner(flagValue string) string {
	if flagValue == "" {
		return a.defaultAddress().String()
	}
	addr, err := types.ParseAddress(flagValue)
	if err != nil {
		fatal("invalid owner: %v", err)
	}
	return addr.String()
}

func (a *app) packageID() types.ObjectID {
	pkg, err := a.cfg.PackageID()
	if err != nil {
		fatal("%v (set contract.package or --package)", err)
	}
	return pkg
}

func (a *app) pointsType() string {
	typeTag, err := a.cfg.PointsType()
	if err != nil {
		fatal("%v (set points.type or --points-type)", err)
	}
	return typeTag
}

func (a *app) lister() *sui.OwnedLister {
	return sui.NewOwnedLister(a.client, a.cfg.Points.PageSize)
}

// openCache opens the on-disk balance cache. Callers close the returned DB.
func (a *app) openCache(typeTag string) (*storage.BadgerDB, points.Cache) {
	db, err := storage.NewBadger(a.cfg.CacheDir())
	if err != nil {
		fatal("open cache: %v", err)
	}
	prefixed := storage.NewPrefixDB(db, balancePrefix)
	return db, points.NewStoreCache(prefixed, typeTag, a.cfg.Points.CacheTTL)
}

// executor unlocks the configured wallet account and returns an executor
// signing as it. Dry runs use the recorded account address and never ask
// for the password.
func (a *app) executor(dryRun bool) *executor.Executor {
	opts := executor.Options{
		GasBudget: a.cfg.Gas.Budget,
		DryRun:    dryRun,
	}
	if dryRun {
		return executor.NewSimulator(a.client, a.defaultAddress(), opts)
	}
	password, err := readPassword(fmt.Sprintf("Password for wallet %q: ", a.cfg.Wallet.Name))
	if err != nil {
		fatal("read password: %v", err)
	}
	signer, err := a.keystore().Signer(a.cfg.Wallet.Name, password, a.cfg.Wallet.Index)
	zero(password)
	if err != nil {
		fatal("unlock wallet: %v", err)
	}
	return executor.New(a.client, signer, opts)
}

// execute runs build and prints the outcome. It exits on failure after
// printing whatever result the node returned.
func (a *app) execute(ex *executor.Executor, build executor.BuildFunc) *executor.Result {
	ctx, cancel := signalContext()
	defer cancel()

	res, err := ex.Execute(ctx, build)
	if res != nil {
		printResult(res)
	}
	if err != nil {
		fatal("%v", err)
	}
	return res
}

// ── cache ───────────────────────────────────────────────────────────────

func (a *app) cmdCache(args []string) {
	if len(args) < 1 || args[0] != "clear" {
		fatal("Usage: hashcase-cli cache clear")
	}
	db, err := storage.NewBadger(a.cfg.CacheDir())
	if err != nil {
		fatal("open cache: %v", err)
	}
	defer db.Close()

	if err := storage.NewPrefixDB(db, balancePrefix).DeleteAll(); err != nil {
		fatal("clear cache: %v", err)
	}
	fmt.Println("Balance cache cleared.")
}

// ── config ──────────────────────────────────────────────────────────────

func (a *app) cmdConfig(args []string) {
	if len(args) < 1 || args[0] != "show" {
		fatal("Usage: hashcase-cli config show")
	}
	fmt.Printf("# %s\n", a.cfg.ConfigFile())
	fmt.Print(a.cfg.String())
}
