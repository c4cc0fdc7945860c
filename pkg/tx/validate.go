package tx

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/hashcase/pkg/types"
)

// Protocol limits enforced before submission.
const (
	MaxInputs      = 2048
	MaxCommands    = 1024
	MaxPureSize    = 16 * 1024
	MaxGasPayments = 256
)

// Validation errors.
var (
	ErrNoCommands        = errors.New("transaction has no commands")
	ErrTooManyInputs     = errors.New("too many inputs")
	ErrTooManyCommands   = errors.New("too many commands")
	ErrPureTooLarge      = errors.New("pure input too large")
	ErrNoSender          = errors.New("transaction has no sender")
	ErrNoGasPayment      = errors.New("no gas payment")
	ErrTooManyGasCoins   = errors.New("too many gas payment coins")
	ErrZeroGasBudget     = errors.New("gas budget is zero")
	ErrZeroGasPrice      = errors.New("gas price is zero")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrDuplicateObject   = errors.New("duplicate object input")
	ErrGasCoinIsArgument = errors.New("gas payment coin also used as input")
)

// Validate checks transaction structure. It does not check object
// ownership or balances; the network does that.
func (t *TransactionData) Validate() error {
	if t.Sender.IsZero() {
		return ErrNoSender
	}
	if len(t.Kind.Commands) == 0 {
		return ErrNoCommands
	}
	if len(t.Kind.Inputs) > MaxInputs {
		return fmt.Errorf("%w: %d inputs, max %d", ErrTooManyInputs, len(t.Kind.Inputs), MaxInputs)
	}
	if len(t.Kind.Commands) > MaxCommands {
		return fmt.Errorf("%w: %d commands, max %d", ErrTooManyCommands, len(t.Kind.Commands), MaxCommands)
	}
	if len(t.Gas.Payment) == 0 {
		return ErrNoGasPayment
	}
	if len(t.Gas.Payment) > MaxGasPayments {
		return fmt.Errorf("%w: %d, max %d", ErrTooManyGasCoins, len(t.Gas.Payment), MaxGasPayments)
	}
	if t.Gas.Budget == 0 {
		return ErrZeroGasBudget
	}
	if t.Gas.Price == 0 {
		return ErrZeroGasPrice
	}

	seen := make(map[types.ObjectID]bool, len(t.Kind.Inputs))
	for i, in := range t.Kind.Inputs {
		if in.Object == nil {
			if len(in.Pure) > MaxPureSize {
				return fmt.Errorf("input %d: %w: %d bytes", i, ErrPureTooLarge, len(in.Pure))
			}
			continue
		}
		id := in.Object.ObjectID()
		if seen[id] {
			return fmt.Errorf("input %d (%s): %w", i, id, ErrDuplicateObject)
		}
		seen[id] = true
	}
	for _, ref := range t.Gas.Payment {
		if seen[ref.ObjectID] {
			return fmt.Errorf("%s: %w", ref.ObjectID, ErrGasCoinIsArgument)
		}
	}

	for ci, c := range t.Kind.Commands {
		for _, a := range c.arguments() {
			if err := t.checkArgument(a, ci); err != nil {
				return fmt.Errorf("command %d: %w", ci, err)
			}
		}
	}
	return nil
}

// checkArgument verifies an argument refers to an existing input or an
// earlier command.
func (t *TransactionData) checkArgument(a Argument, cmd int) error {
	switch a.Kind {
	case ArgGasCoin:
		return nil
	case ArgInput:
		if int(a.Index) >= len(t.Kind.Inputs) {
			return fmt.Errorf("%w: %s out of range (%d inputs)", ErrInvalidArgument, a, len(t.Kind.Inputs))
		}
	case ArgResult, ArgNestedResult:
		if int(a.Index) >= cmd {
			return fmt.Errorf("%w: %s refers to a later command", ErrInvalidArgument, a)
		}
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidArgument, a.Kind)
	}
	return nil
}
