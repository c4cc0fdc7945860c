package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Klingon-tech/hashcase/internal/contract"
	"github.com/Klingon-tech/hashcase/internal/monitor"
	"github.com/Klingon-tech/hashcase/internal/points"
	"github.com/Klingon-tech/hashcase/pkg/types"
)

// ── balance ─────────────────────────────────────────────────────────────

func (a *app) cmdBalance(args []string) {
	fs := flag.NewFlagSet("balance", flag.ExitOnError)
	ownerFlag := fs.String("owner", "", "Owner address (default: wallet address)")
	fs.Parse(args)

	owner := a.owner(*ownerFlag)
	typeTag := a.pointsType()
	db, cache := a.openCache(typeTag)
	defer db.Close()

	ctx, cancel := signalContext()
	defer cancel()

	total, err := points.NewAggregator(a.lister(), typeTag, cache).TotalBalance(ctx, owner)
	fmt.Printf("Owner:   %s\n", owner)
	if err != nil {
		if !errors.Is(err, points.ErrQueryFailure) {
			fatal("%v", err)
		}
		fmt.Printf("Balance: %d (stale)\n", total)
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return
	}
	fmt.Printf("Balance: %d\n", total)
}

// ── tokens ──────────────────────────────────────────────────────────────

func (a *app) cmdTokens(args []string) {
	fs := flag.NewFlagSet("tokens", flag.ExitOnError)
	ownerFlag := fs.String("owner", "", "Owner address (default: wallet address)")
	fs.Parse(args)

	owner := a.owner(*ownerFlag)
	ctx, cancel := signalContext()
	defer cancel()

	handles, err := points.NewAggregator(a.lister(), a.pointsType(), nil).ListHandles(ctx, owner)
	if err != nil {
		fatal("%v", err)
	}
	if len(handles) == 0 {
		fmt.Println("No points tokens found.")
		return
	}

	var total uint64
	for i, h := range handles {
		fmt.Printf("  [%d] %s  %d\n", i, h.ID, h.Balance)
		total += h.Balance
	}
	fmt.Printf("%d tokens, %d points\n", len(handles), total)
}

// ── watch ───────────────────────────────────────────────────────────────

func (a *app) cmdWatch(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	ownerFlag := fs.String("owner", "", "Owner address (default: wallet address)")
	interval := fs.Duration("interval", a.cfg.Refresh.Interval, "Refresh interval")
	fs.Parse(args)

	owner := a.owner(*ownerFlag)
	typeTag := a.pointsType()
	db, cache := a.openCache(typeTag)
	defer db.Close()

	ctx, cancel := signalContext()
	defer cancel()

	refresher := monitor.NewRefresher(points.NewAggregator(a.lister(), typeTag, cache), nil)
	fmt.Printf("Watching %s every %s (Ctrl+C to stop)\n", owner, *interval)
	err := refresher.Run(ctx, owner, *interval, func(r monitor.Reading) {
		line := fmt.Sprintf("[%s] #%d balance %d", r.At.Format(time.TimeOnly), r.Seq, r.Balance)
		if r.Stale() {
			line += fmt.Sprintf(" (stale: %v)", r.Err)
		}
		fmt.Println(line)
	})
	if err != nil {
		fatal("%v", err)
	}
}

// ── spend ───────────────────────────────────────────────────────────────

func (a *app) cmdSpend(args []string) {
	fs := flag.NewFlagSet("spend", flag.ExitOnError)
	capID := fs.String("treasury-cap", "", "Treasury cap object ID")
	amountStr := fs.String("amount", "", "Exact amount of points to spend")
	dryRun := fs.Bool("dry-run", false, "Simulate without submitting")
	fs.Parse(args)

	if *capID == "" || *amountStr == "" {
		fatal("Usage: hashcase-cli spend --treasury-cap <id> --amount <n> [--dry-run]")
	}
	amount, err := points.ParseAmount(*amountStr)
	if err != nil {
		fatal("%v", err)
	}
	treasuryCap := parseObjectID("treasury-cap", *capID)
	pkg := a.packageID()
	typeTag := a.pointsType()
	consolidation := a.consolidation()

	ex := a.executor(*dryRun)
	ctx, cancel := signalContext()
	defer cancel()

	plan, err := points.NewPlanner(a.lister(), typeTag).PlanSpend(ctx, ex.Sender().String(), amount)
	if err != nil {
		var short *points.InsufficientFundsError
		if errors.As(err, &short) {
			fatal("insufficient points: have %d, need %d", short.Have, short.Need)
		}
		fatal("%v", err)
	}

	fmt.Printf("Plan %s: %d tokens totalling %d", plan.ID(), len(plan.Selected), plan.Total)
	if plan.Split {
		fmt.Printf(", split %d", plan.SplitAmount)
	}
	fmt.Println()

	a.execute(ex, contract.BuildFunc(pkg, contract.SpendExact{
		TreasuryCap:   treasuryCap,
		Plan:          plan,
		Consolidation: consolidation,
	}))
}

// consolidation resolves the configured merge mode and its functions.
func (a *app) consolidation() contract.Consolidation {
	mode, err := contract.ParseMergeMode(a.cfg.Points.Merge)
	if err != nil {
		fatal("%v", err)
	}
	c := contract.Consolidation{Mode: mode}
	if mode != contract.MergeMove {
		return c
	}
	if c.Join, err = a.cfg.MoveTarget(a.cfg.Points.JoinFn); err != nil {
		fatal("points.join_fn: %v", err)
	}
	if c.Split, err = a.cfg.MoveTarget(a.cfg.Points.SplitFn); err != nil {
		fatal("points.split_fn: %v", err)
	}
	return c
}

// ── points ──────────────────────────────────────────────────────────────

func (a *app) cmdPoints(args []string) {
	if len(args) < 1 {
		fatal("Usage: hashcase-cli points <create|add|spend-token> [flags]")
	}

	switch args[0] {
	case "create":
		a.cmdPointsCreate(args[1:])
	case "add":
		a.cmdPointsAdd(args[1:])
	case "spend-token":
		a.cmdPointsSpendToken(args[1:])
	default:
		fatal("Unknown points command: %s\nUsage: hashcase-cli points <create|add|spend-token> [flags]", args[0])
	}
}

func (a *app) cmdPointsCreate(args []string) {
	fs := flag.NewFlagSet("points create", flag.ExitOnError)
	capID := fs.String("treasury-cap", "", "Treasury cap object ID")
	amount := fs.Uint64("amount", 0, "Initial points")
	recipient := fs.String("recipient", "", "Recipient address (default: sender)")
	dryRun := fs.Bool("dry-run", false, "Simulate without submitting")
	fs.Parse(args)

	if *capID == "" || *amount == 0 {
		fatal("Usage: hashcase-cli points create --treasury-cap <id> --amount <n> [--recipient <addr>]")
	}
	call := contract.CreateUserPoints{
		TreasuryCap: parseObjectID("treasury-cap", *capID),
		Amount:      *amount,
		Recipient:   parseOptionalAddress("recipient", *recipient),
	}
	a.execute(a.executor(*dryRun), contract.BuildFunc(a.packageID(), call))
}

func (a *app) cmdPointsAdd(args []string) {
	fs := flag.NewFlagSet("points add", flag.ExitOnError)
	capID := fs.String("treasury-cap", "", "Treasury cap object ID")
	token := fs.String("token", "", "User points token object ID")
	amount := fs.Uint64("amount", 0, "Points to add")
	dryRun := fs.Bool("dry-run", false, "Simulate without submitting")
	fs.Parse(args)

	if *capID == "" || *token == "" || *amount == 0 {
		fatal("Usage: hashcase-cli points add --treasury-cap <id> --token <id> --amount <n>")
	}
	call := contract.AddPoints{
		TreasuryCap: parseObjectID("treasury-cap", *capID),
		UserToken:   parseObjectID("token", *token),
		Amount:      *amount,
	}
	a.execute(a.executor(*dryRun), contract.BuildFunc(a.packageID(), call))
}

func (a *app) cmdPointsSpendToken(args []string) {
	fs := flag.NewFlagSet("points spend-token", flag.ExitOnError)
	capID := fs.String("treasury-cap", "", "Treasury cap object ID")
	token := fs.String("token", "", "Points token object ID")
	amount := fs.Uint64("amount", 0, "Points to spend")
	dryRun := fs.Bool("dry-run", false, "Simulate without submitting")
	fs.Parse(args)

	if *capID == "" || *token == "" || *amount == 0 {
		fatal("Usage: hashcase-cli points spend-token --treasury-cap <id> --token <id> --amount <n>")
	}
	call := contract.SpendPoints{
		TreasuryCap: parseObjectID("treasury-cap", *capID),
		Token:       parseObjectID("token", *token),
		Amount:      *amount,
	}
	a.execute(a.executor(*dryRun), contract.BuildFunc(a.packageID(), call))
}

func parseObjectID(name, s string) types.ObjectID {
	id, err := types.ParseObjectID(s)
	if err != nil {
		fatal("--%s: %v", name, err)
	}
	return id
}

// parseOptionalAddress returns the zero address for an empty flag, which
// contract calls treat as the sender.
func parseOptionalAddress(name, s string) types.Address {
	if s == "" {
		return types.Address{}
	}
	addr, err := types.ParseAddress(s)
	if err != nil {
		fatal("--%s: %v", name, err)
	}
	return addr
}
