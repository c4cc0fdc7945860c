package executor

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/hashcase/pkg/types"
)

// ErrTransaction matches every *TransactionError.
var ErrTransaction = errors.New("transaction failed")

// ErrNoSigner is returned when an executor built without a signing key is
// asked to submit rather than simulate.
var ErrNoSigner = errors.New("no signing key; only dry runs are possible")

// Stages at which a transaction can fail.
const (
	StageBuild   = "build"
	StageResolve = "resolve"
	StageGas     = "gas"
	StageSign    = "sign"
	StageSubmit  = "submit"
	StageExecute = "execute"
)

// TransactionError reports a failed build, submission or execution. It is
// shown to the user as is; nothing retries automatically.
type TransactionError struct {
	Stage  string
	Digest types.Digest
	Err    error
}

func (e *TransactionError) Error() string {
	if !e.Digest.IsZero() {
		return fmt.Sprintf("%s at %s (digest %s): %v", ErrTransaction, e.Stage, e.Digest, e.Err)
	}
	return fmt.Sprintf("%s at %s: %v", ErrTransaction, e.Stage, e.Err)
}

// Unwrap returns both ErrTransaction and the cause.
func (e *TransactionError) Unwrap() []error {
	return []error{ErrTransaction, e.Err}
}

func txError(stage string, err error) *TransactionError {
	return &TransactionError{Stage: stage, Err: err}
}
