package contract

import (
	"github.com/Klingon-tech/hashcase/pkg/tx"
	"github.com/Klingon-tech/hashcase/pkg/types"
)

// MintType selects how a collection is minted.
type MintType uint8

const (
	MintFree    MintType = 0
	MintFixed   MintType = 1
	MintDynamic MintType = 2
)

func (t MintType) String() string {
	switch t {
	case MintFree:
		return "free"
	case MintFixed:
		return "fixed"
	case MintDynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// ParseMintType accepts a name or the numeric value.
func ParseMintType(s string) (MintType, error) {
	switch s {
	case "free", "0":
		return MintFree, nil
	case "fixed", "1":
		return MintFixed, nil
	case "dynamic", "2":
		return MintDynamic, nil
	}
	return 0, invalid("mint type %q: want free, fixed or dynamic", s)
}

func nftTarget(pkg types.ObjectID, fn string) tx.MoveTarget {
	return tx.NewMoveTarget(pkg, NFTModule, fn)
}

// CreateOwnerCap grants a collection owner capability to Owner.
type CreateOwnerCap struct {
	AdminCap types.ObjectID
	Owner    types.Address
}

func (c CreateOwnerCap) Validate() error {
	if err := requireID("admin cap", c.AdminCap); err != nil {
		return err
	}
	if c.Owner.IsZero() {
		return invalid("owner address is required")
	}
	return nil
}

func (c CreateOwnerCap) Build(b *tx.Builder, pkg types.ObjectID) error {
	b.MoveCall(nftTarget(pkg, "create_owner_cap"),
		b.Object(c.AdminCap, true),
		b.PureAddress(c.Owner),
	)
	return nil
}

// CreateCollection creates a collection in the registry.
type CreateCollection struct {
	OwnerCap       types.ObjectID
	Registry       types.ObjectID
	Name           string
	Description    string
	MintType       MintType
	BaseMintPrice  uint64
	OpenEdition    bool
	MaxSupply      uint64
	Dynamic        bool
	Claimable      bool
	BaseImageURL   string
	BaseAttributes []string
}

func (c CreateCollection) Validate() error {
	if err := requireID("owner cap", c.OwnerCap); err != nil {
		return err
	}
	if err := requireID("registry", c.Registry); err != nil {
		return err
	}
	if c.MintType > MintDynamic {
		return invalid("mint type %d: want 0, 1 or 2", c.MintType)
	}
	if c.MintType == MintFixed && c.BaseMintPrice == 0 {
		return invalid("fixed-price collection needs a base mint price")
	}
	if !c.OpenEdition && c.MaxSupply == 0 {
		return invalid("max supply is required unless the collection is an open edition")
	}
	return Metadata{Name: c.Name, Description: c.Description, ImageURL: c.BaseImageURL, Attributes: c.BaseAttributes}.Validate()
}

func (c CreateCollection) Build(b *tx.Builder, pkg types.ObjectID) error {
	b.MoveCall(nftTarget(pkg, "create_collection"),
		b.Object(c.OwnerCap, true),
		b.Object(c.Registry, true),
		b.PureString(c.Name),
		b.PureString(c.Description),
		b.PureU8(uint8(c.MintType)),
		b.PureU64(c.BaseMintPrice),
		b.PureBool(c.OpenEdition),
		b.PureU64(c.MaxSupply),
		b.PureBool(c.Dynamic),
		b.PureBool(c.Claimable),
		b.PureBytes([]byte(c.BaseImageURL)),
		b.PureStrings(c.BaseAttributes),
	)
	return nil
}

// FreeMint mints an NFT at no cost. A zero Recipient mints to the sender.
type FreeMint struct {
	AdminCap   types.ObjectID
	Collection types.ObjectID
	Recipient  types.Address
	Metadata   Metadata
}

func (c FreeMint) Validate() error {
	if err := requireID("admin cap", c.AdminCap); err != nil {
		return err
	}
	if err := requireID("collection", c.Collection); err != nil {
		return err
	}
	return c.Metadata.Validate()
}

func (c FreeMint) Build(b *tx.Builder, pkg types.ObjectID) error {
	args := []tx.Argument{b.Object(c.AdminCap, true), b.Object(c.Collection, true)}
	args = append(args, c.Metadata.args(b)...)
	args = append(args, b.PureAddress(orSender(b, c.Recipient)))
	b.MoveCall(nftTarget(pkg, "admin_free_mint_nft"), args...)
	return nil
}

// UpdateMetadata replaces an NFT's metadata.
type UpdateMetadata struct {
	Collection types.ObjectID
	NFT        types.ObjectID
	Metadata   Metadata
}

func (c UpdateMetadata) Validate() error {
	if err := requireID("collection", c.Collection); err != nil {
		return err
	}
	if err := requireID("nft", c.NFT); err != nil {
		return err
	}
	return c.Metadata.Validate()
}

func (c UpdateMetadata) Build(b *tx.Builder, pkg types.ObjectID) error {
	args := []tx.Argument{b.Object(c.Collection, true), b.Object(c.NFT, true)}
	args = append(args, c.Metadata.args(b)...)
	b.MoveCall(nftTarget(pkg, "update_nft_metadata"), args...)
	return nil
}

// FixedPriceMint pays Price from the gas coin and mints at the collection's
// fixed price. The payment coin is returned to Payer (the sender when zero)
// after the call.
type FixedPriceMint struct {
	Collection types.ObjectID
	Price      uint64
	Metadata   Metadata
	Payer      types.Address
}

func (c FixedPriceMint) Validate() error {
	if err := requireID("collection", c.Collection); err != nil {
		return err
	}
	if err := requireAmount("price", c.Price); err != nil {
		return err
	}
	return c.Metadata.Validate()
}

func (c FixedPriceMint) Build(b *tx.Builder, pkg types.ObjectID) error {
	payment := b.SplitCoins(tx.GasCoin, b.PureU64(c.Price))[0]
	args := []tx.Argument{b.Object(c.Collection, true), payment}
	args = append(args, c.Metadata.args(b)...)
	b.MoveCall(nftTarget(pkg, "admin_fixed_price_mint_nft"), args...)
	b.TransferObjects([]tx.Argument{payment}, b.PureAddress(orSender(b, c.Payer)))
	return nil
}

// DynamicPriceMint is FixedPriceMint with the price also passed to the
// contract.
type DynamicPriceMint struct {
	Collection types.ObjectID
	Price      uint64
	Metadata   Metadata
	Payer      types.Address
}

func (c DynamicPriceMint) Validate() error {
	return FixedPriceMint(c).Validate()
}

func (c DynamicPriceMint) Build(b *tx.Builder, pkg types.ObjectID) error {
	payment := b.SplitCoins(tx.GasCoin, b.PureU64(c.Price))[0]
	args := []tx.Argument{b.Object(c.Collection, true), payment}
	args = append(args, c.Metadata.args(b)...)
	args = append(args, b.PureU64(c.Price))
	b.MoveCall(nftTarget(pkg, "admin_dynamic_price_mint_nft"), args...)
	b.TransferObjects([]tx.Argument{payment}, b.PureAddress(orSender(b, c.Payer)))
	return nil
}

// ClaimNFT claims an NFT from a claimable collection.
type ClaimNFT struct {
	Collection types.ObjectID
	NFT        types.ObjectID
}

func (c ClaimNFT) Validate() error {
	if err := requireID("collection", c.Collection); err != nil {
		return err
	}
	return requireID("nft", c.NFT)
}

func (c ClaimNFT) Build(b *tx.Builder, pkg types.ObjectID) error {
	b.MoveCall(nftTarget(pkg, "claim_nft"), b.Object(c.Collection, true), b.Object(c.NFT, true))
	return nil
}

// TransferObject sends an owned object to Recipient.
type TransferObject struct {
	Object    types.ObjectID
	Recipient types.Address
}

func (c TransferObject) Validate() error {
	if err := requireID("object", c.Object); err != nil {
		return err
	}
	if c.Recipient.IsZero() {
		return invalid("recipient is required")
	}
	return nil
}

// Build ignores pkg; transfers need no Move call.
func (c TransferObject) Build(b *tx.Builder, _ types.ObjectID) error {
	b.TransferObjects([]tx.Argument{b.Object(c.Object, true)}, b.PureAddress(c.Recipient))
	return nil
}
