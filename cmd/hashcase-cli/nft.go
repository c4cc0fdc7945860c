package main

import (
	"flag"
	"fmt"

	"github.com/Klingon-tech/hashcase/internal/contract"
	"github.com/Klingon-tech/hashcase/internal/executor"
	"github.com/Klingon-tech/hashcase/pkg/tx"
	"github.com/Klingon-tech/hashcase/pkg/types"
)

// nftTypeSuffix matches the NFT struct of any published Hashcase package.
const nftTypeSuffix = "::" + contract.NFTModule + "::NFT"

// ── nft ─────────────────────────────────────────────────────────────────

const nftUsage = "Usage: hashcase-cli nft <owner-cap|collection|mint|update|mint-fixed|mint-dynamic|claim|transfer> [flags]"

func (a *app) cmdNFT(args []string) {
	if len(args) < 1 {
		fatal(nftUsage)
	}

	switch args[0] {
	case "owner-cap":
		a.cmdNFTOwnerCap(args[1:])
	case "collection":
		a.cmdNFTCollection(args[1:])
	case "mint":
		a.cmdNFTMint(args[1:])
	case "update":
		a.cmdNFTUpdate(args[1:])
	case "mint-fixed":
		a.cmdNFTPricedMint(args[1:], false)
	case "mint-dynamic":
		a.cmdNFTPricedMint(args[1:], true)
	case "claim":
		a.cmdNFTClaim(args[1:])
	case "transfer":
		a.cmdNFTTransfer(args[1:])
	default:
		fatal("Unknown nft command: %s\n%s", args[0], nftUsage)
	}
}

// metadataFlags registers the NFT metadata flags on fs.
type metadataFlags struct {
	name, description, image, attributes *string
}

func addMetadataFlags(fs *flag.FlagSet) metadataFlags {
	return metadataFlags{
		name:        fs.String("name", "", "NFT name"),
		description: fs.String("description", "", "NFT description"),
		image:       fs.String("image", "", "Image URL"),
		attributes:  fs.String("attributes", "", "Comma-separated attributes"),
	}
}

func (m metadataFlags) metadata() contract.Metadata {
	return contract.Metadata{
		Name:        *m.name,
		Description: *m.description,
		ImageURL:    *m.image,
		Attributes:  contract.ParseAttributes(*m.attributes),
	}
}

// runNFT validates call before unlocking the wallet, executes it and
// prints the IDs of any NFTs it created.
func (a *app) runNFT(call contract.Call, dryRun bool) {
	if err := call.Validate(); err != nil {
		fatal("%v", err)
	}
	res := a.execute(a.executor(dryRun), contract.BuildFunc(a.packageID(), call))
	printCreatedNFTs(res)
}

func printCreatedNFTs(res *executor.Result) {
	for _, ch := range res.CreatedOfType(nftTypeSuffix) {
		fmt.Printf("NFT:     %s\n", ch.ObjectID)
	}
}

func (a *app) cmdNFTOwnerCap(args []string) {
	fs := flag.NewFlagSet("nft owner-cap", flag.ExitOnError)
	adminCap := fs.String("admin-cap", "", "Admin cap object ID")
	owner := fs.String("owner", "", "Owner of the new cap (default: sender)")
	dryRun := fs.Bool("dry-run", false, "Simulate without submitting")
	fs.Parse(args)

	if *adminCap == "" {
		fatal("Usage: hashcase-cli nft owner-cap --admin-cap <id> [--owner <addr>]")
	}
	a.runNFT(contract.CreateOwnerCap{
		AdminCap: parseObjectID("admin-cap", *adminCap),
		Owner:    parseOptionalAddress("owner", *owner),
	}, *dryRun)
}

func (a *app) cmdNFTCollection(args []string) {
	fs := flag.NewFlagSet("nft collection", flag.ExitOnError)
	ownerCap := fs.String("owner-cap", "", "Owner cap object ID")
	registry := fs.String("registry", "", "Collection registry object ID")
	name := fs.String("name", "", "Collection name")
	description := fs.String("description", "", "Collection description")
	mintType := fs.String("mint-type", "free", "Mint type: free, fixed or dynamic (or 0, 1, 2)")
	price := fs.String("price", "0", "Base mint price in SUI")
	openEdition := fs.Bool("open-edition", false, "No supply cap")
	maxSupply := fs.Uint64("max-supply", 0, "Maximum supply (ignored for open editions)")
	dynamic := fs.Bool("dynamic", false, "Allow metadata updates")
	claimable := fs.Bool("claimable", false, "Allow claiming")
	image := fs.String("image", "", "Base image URL")
	attributes := fs.String("attributes", "", "Comma-separated base attributes")
	dryRun := fs.Bool("dry-run", false, "Simulate without submitting")
	fs.Parse(args)

	if *ownerCap == "" || *registry == "" || *name == "" {
		fatal("Usage: hashcase-cli nft collection --owner-cap <id> --registry <id> --name <n> [opts]")
	}
	mt, err := contract.ParseMintType(*mintType)
	if err != nil {
		fatal("%v", err)
	}
	basePrice, err := parseSUI(*price)
	if err != nil {
		fatal("--price: %v", err)
	}
	a.runNFT(contract.CreateCollection{
		OwnerCap:       parseObjectID("owner-cap", *ownerCap),
		Registry:       parseObjectID("registry", *registry),
		Name:           *name,
		Description:    *description,
		MintType:       mt,
		BaseMintPrice:  basePrice,
		OpenEdition:    *openEdition,
		MaxSupply:      *maxSupply,
		Dynamic:        *dynamic,
		Claimable:      *claimable,
		BaseImageURL:   *image,
		BaseAttributes: contract.ParseAttributes(*attributes),
	}, *dryRun)
}

func (a *app) cmdNFTMint(args []string) {
	fs := flag.NewFlagSet("nft mint", flag.ExitOnError)
	adminCap := fs.String("admin-cap", "", "Admin cap object ID")
	collection := fs.String("collection", "", "Collection object ID")
	recipient := fs.String("recipient", "", "Recipient address (default: sender)")
	meta := addMetadataFlags(fs)
	dryRun := fs.Bool("dry-run", false, "Simulate without submitting")
	fs.Parse(args)

	if *adminCap == "" || *collection == "" {
		fatal("Usage: hashcase-cli nft mint --admin-cap <id> --collection <id> --name <n> [--recipient <addr>]")
	}
	a.runNFT(contract.FreeMint{
		AdminCap:   parseObjectID("admin-cap", *adminCap),
		Collection: parseObjectID("collection", *collection),
		Recipient:  parseOptionalAddress("recipient", *recipient),
		Metadata:   meta.metadata(),
	}, *dryRun)
}

func (a *app) cmdNFTUpdate(args []string) {
	fs := flag.NewFlagSet("nft update", flag.ExitOnError)
	collection := fs.String("collection", "", "Collection object ID")
	nft := fs.String("nft", "", "NFT object ID")
	meta := addMetadataFlags(fs)
	dryRun := fs.Bool("dry-run", false, "Simulate without submitting")
	fs.Parse(args)

	if *collection == "" || *nft == "" {
		fatal("Usage: hashcase-cli nft update --collection <id> --nft <id> --name <n>")
	}
	a.runNFT(contract.UpdateMetadata{
		Collection: parseObjectID("collection", *collection),
		NFT:        parseObjectID("nft", *nft),
		Metadata:   meta.metadata(),
	}, *dryRun)
}

func (a *app) cmdNFTPricedMint(args []string, dynamic bool) {
	name := "nft mint-fixed"
	if dynamic {
		name = "nft mint-dynamic"
	}
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	collection := fs.String("collection", "", "Collection object ID")
	price := fs.String("price", "", "Mint price in SUI, paid from the gas coin")
	payer := fs.String("payer", "", "Receiver of the payment coin (default: sender)")
	meta := addMetadataFlags(fs)
	dryRun := fs.Bool("dry-run", false, "Simulate without submitting")
	fs.Parse(args)

	if *collection == "" || *price == "" {
		fatal("Usage: hashcase-cli %s --collection <id> --price <sui> --name <n>", name)
	}
	mist, err := parseSUI(*price)
	if err != nil {
		fatal("--price: %v", err)
	}
	call := contract.FixedPriceMint{
		Collection: parseObjectID("collection", *collection),
		Price:      mist,
		Metadata:   meta.metadata(),
		Payer:      parseOptionalAddress("payer", *payer),
	}
	if dynamic {
		a.runNFT(contract.DynamicPriceMint(call), *dryRun)
		return
	}
	a.runNFT(call, *dryRun)
}

func (a *app) cmdNFTClaim(args []string) {
	fs := flag.NewFlagSet("nft claim", flag.ExitOnError)
	collection := fs.String("collection", "", "Collection object ID")
	nft := fs.String("nft", "", "NFT object ID")
	dryRun := fs.Bool("dry-run", false, "Simulate without submitting")
	fs.Parse(args)

	if *collection == "" || *nft == "" {
		fatal("Usage: hashcase-cli nft claim --collection <id> --nft <id>")
	}
	a.runNFT(contract.ClaimNFT{
		Collection: parseObjectID("collection", *collection),
		NFT:        parseObjectID("nft", *nft),
	}, *dryRun)
}

func (a *app) cmdNFTTransfer(args []string) {
	fs := flag.NewFlagSet("nft transfer", flag.ExitOnError)
	object := fs.String("object", "", "Object ID to transfer")
	to := fs.String("to", "", "Recipient address")
	dryRun := fs.Bool("dry-run", false, "Simulate without submitting")
	fs.Parse(args)

	if *object == "" || *to == "" {
		fatal("Usage: hashcase-cli nft transfer --object <id> --to <addr>")
	}
	call := contract.TransferObject{
		Object:    parseObjectID("object", *object),
		Recipient: parseOptionalAddress("to", *to),
	}
	if err := call.Validate(); err != nil {
		fatal("%v", err)
	}
	// Transfers are not package calls, so no package ID is required.
	a.execute(a.executor(*dryRun), func(b *tx.Builder) error {
		return call.Build(b, types.ObjectID{})
	})
}
