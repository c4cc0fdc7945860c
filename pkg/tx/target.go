package tx

import (
	"fmt"
	"strings"

	"github.com/Klingon-tech/hashcase/pkg/types"
)

// MoveTarget names a Move function as package::module::function.
type MoveTarget struct {
	Package  types.ObjectID
	Module   string
	Function string
}

// NewMoveTarget creates a target in the given package.
func NewMoveTarget(pkg types.ObjectID, module, function string) MoveTarget {
	return MoveTarget{Package: pkg, Module: module, Function: function}
}

// String returns the canonical "0x…::module::function" form.
func (t MoveTarget) String() string {
	return t.Package.String() + "::" + t.Module + "::" + t.Function
}

// ParseMoveTarget parses "package::module::function".
func ParseMoveTarget(s string) (MoveTarget, error) {
	parts := strings.Split(strings.TrimSpace(s), "::")
	if len(parts) != 3 {
		return MoveTarget{}, fmt.Errorf("invalid move target %q: want package::module::function", s)
	}
	pkg, err := types.ParseObjectID(parts[0])
	if err != nil {
		return MoveTarget{}, fmt.Errorf("invalid move target %q: %w", s, err)
	}
	for _, ident := range parts[1:] {
		if !isIdentifier(ident) {
			return MoveTarget{}, fmt.Errorf("invalid move identifier %q in %q", ident, s)
		}
	}
	return MoveTarget{Package: pkg, Module: parts[1], Function: parts[2]}, nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
