package crypto

import (
	"fmt"

	"github.com/Klingon-tech/hashcase/pkg/types"
)

// IntentScope identifies what kind of message is being signed.
type IntentScope byte

const (
	IntentTransactionData IntentScope = 0
	IntentPersonalMessage IntentScope = 3
)

// Intent version and app id are always V0 / Sui.
const (
	intentVersionV0 = 0
	intentAppSui    = 0
)

// IntentMessage prefixes BCS bytes with the three-byte intent header.
func IntentMessage(scope IntentScope, msg []byte) []byte {
	out := make([]byte, 0, 3+len(msg))
	out = append(out, byte(scope), intentVersionV0, intentAppSui)
	return append(out, msg...)
}

// IntentDigest returns BLAKE2b-256 of the intent message. This is what the
// signer signs.
func IntentDigest(scope IntentScope, msg []byte) [32]byte {
	return Blake2b256(IntentMessage(scope, msg))
}

// SignTransaction signs BCS transaction data and returns the serialized
// signature expected by sui_executeTransactionBlock.
func SignTransaction(s Signer, txBytes []byte) (string, error) {
	digest := IntentDigest(IntentTransactionData, txBytes)
	sig, err := s.Sign(digest[:])
	if err != nil {
		return "", fmt.Errorf("sign transaction: %w", err)
	}
	return SerializeSignature(s.Scheme(), sig, s.PublicKey()), nil
}

// VerifyTransaction checks a serialized signature over BCS transaction data
// and returns the signer's address.
func VerifyTransaction(txBytes []byte, serialized string) (types.Address, error) {
	parsed, err := ParseSerializedSignature(serialized)
	if err != nil {
		return types.Address{}, err
	}
	digest := IntentDigest(IntentTransactionData, txBytes)
	if !VerifySignature(parsed.Scheme, digest[:], parsed.Signature, parsed.PublicKey) {
		return types.Address{}, ErrInvalidSignature
	}
	return AddressFromPubKey(parsed.Scheme, parsed.PublicKey), nil
}
