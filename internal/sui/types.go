package sui

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Klingon-tech/hashcase/pkg/tx"
	"github.com/Klingon-tech/hashcase/pkg/types"
)

// SuiCoinType is the type tag of the native gas coin.
const SuiCoinType = "0x2::sui::SUI"

// Owner describes who owns an object. Exactly one field is set.
type Owner struct {
	AddressOwner *types.Address
	ObjectOwner  *types.Address
	Shared       *SharedOwner
	Immutable    bool
}

// SharedOwner carries the version at which an object became shared.
type SharedOwner struct {
	InitialSharedVersion types.SequenceNumber `json:"initial_shared_version"`
}

// UnmarshalJSON handles the RPC owner encoding: either the string
// "Immutable" or a single-key object.
func (o *Owner) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s != "Immutable" {
			return fmt.Errorf("unknown owner %q", s)
		}
		*o = Owner{Immutable: true}
		return nil
	}
	var raw struct {
		AddressOwner *types.Address `json:"AddressOwner"`
		ObjectOwner  *types.Address `json:"ObjectOwner"`
		Shared       *SharedOwner   `json:"Shared"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*o = Owner{AddressOwner: raw.AddressOwner, ObjectOwner: raw.ObjectOwner, Shared: raw.Shared}
	return nil
}

// MoveContent is the parsed Move struct of an object.
type MoveContent struct {
	DataType string                     `json:"dataType"`
	Type     string                     `json:"type"`
	Fields   map[string]json.RawMessage `json:"fields"`
}

// ObjectData is one object as returned with showType/showOwner/showContent.
type ObjectData struct {
	ObjectID types.ObjectID       `json:"objectId"`
	Version  types.SequenceNumber `json:"version"`
	Digest   types.Digest         `json:"digest"`
	Type     string               `json:"type"`
	Owner    *Owner               `json:"owner"`
	Content  *MoveContent         `json:"content"`
}

// Ref returns the object's reference at its current version.
func (d *ObjectData) Ref() types.ObjectRef {
	return types.ObjectRef{ObjectID: d.ObjectID, Version: d.Version, Digest: d.Digest}
}

// ObjectResponseError explains why an object could not be returned.
type ObjectResponseError struct {
	Code     string         `json:"code"`
	ObjectID types.ObjectID `json:"object_id"`
}

// ObjectResponse wraps a single object lookup.
type ObjectResponse struct {
	Data  *ObjectData          `json:"data"`
	Error *ObjectResponseError `json:"error"`
}

// ObjectDataOptions selects which object fields the node returns.
type ObjectDataOptions struct {
	ShowType    bool `json:"showType,omitempty"`
	ShowOwner   bool `json:"showOwner,omitempty"`
	ShowContent bool `json:"showContent,omitempty"`
}

// ObjectResponseQuery filters and shapes suix_getOwnedObjects.
type ObjectResponseQuery struct {
	Filter  *ObjectFilter      `json:"filter,omitempty"`
	Options *ObjectDataOptions `json:"options,omitempty"`
}

// ObjectFilter restricts owned objects by their struct type.
type ObjectFilter struct {
	StructType string `json:"StructType,omitempty"`
}

// ObjectsPage is a page of owned objects.
type ObjectsPage struct {
	Data        []ObjectResponse `json:"data"`
	NextCursor  *string          `json:"nextCursor"`
	HasNextPage bool             `json:"hasNextPage"`
}

// Coin is one coin object as returned by suix_getCoins.
type Coin struct {
	CoinType     string               `json:"coinType"`
	CoinObjectID types.ObjectID       `json:"coinObjectId"`
	Version      types.SequenceNumber `json:"version"`
	Digest       types.Digest         `json:"digest"`
	Balance      types.BigUint        `json:"balance"`
}

// Ref returns the coin's object reference.
func (c Coin) Ref() types.ObjectRef {
	return types.ObjectRef{ObjectID: c.CoinObjectID, Version: c.Version, Digest: c.Digest}
}

// CoinPage is a page of coins.
type CoinPage struct {
	Data        []Coin  `json:"data"`
	NextCursor  *string `json:"nextCursor"`
	HasNextPage bool    `json:"hasNextPage"`
}

// ExecutionStatus is the effects status of a transaction.
type ExecutionStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Succeeded reports whether the transaction executed successfully.
func (s ExecutionStatus) Succeeded() bool {
	return s.Status == "success"
}

// OwnedObjectRef is an object reference with its owner, as in effects.
type OwnedObjectRef struct {
	Owner     Owner           `json:"owner"`
	Reference types.ObjectRef `json:"reference"`
}

// TransactionEffects is the subset of effects this client uses.
type TransactionEffects struct {
	Status  ExecutionStatus   `json:"status"`
	GasUsed tx.GasCostSummary `json:"gasUsed"`
	Created []OwnedObjectRef  `json:"created"`
	Mutated []OwnedObjectRef  `json:"mutated"`
	Deleted []types.ObjectRef `json:"deleted"`
}

// Event is an event emitted by a Move call.
type Event struct {
	PackageID         types.ObjectID  `json:"packageId"`
	TransactionModule string          `json:"transactionModule"`
	Sender            types.Address   `json:"sender"`
	Type              string          `json:"type"`
	ParsedJSON        json.RawMessage `json:"parsedJson"`
}

// ObjectChange is one entry of a transaction's object changes.
type ObjectChange struct {
	Type       string               `json:"type"`
	ObjectType string               `json:"objectType"`
	ObjectID   types.ObjectID       `json:"objectId"`
	Version    types.SequenceNumber `json:"version"`
	Digest     types.Digest         `json:"digest"`
}

// TransactionBlockResponse is returned by execute and dry-run.
type TransactionBlockResponse struct {
	Digest        types.Digest        `json:"digest"`
	Effects       *TransactionEffects `json:"effects"`
	Events        []Event             `json:"events"`
	ObjectChanges []ObjectChange      `json:"objectChanges"`
}

// TransactionBlockResponseOptions selects which parts of the response are returned.
type TransactionBlockResponseOptions struct {
	ShowEffects       bool `json:"showEffects,omitempty"`
	ShowEvents        bool `json:"showEvents,omitempty"`
	ShowObjectChanges bool `json:"showObjectChanges,omitempty"`
}
