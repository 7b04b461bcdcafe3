package width

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/dreamware/flowlower/internal/ir"
)

// constValue returns the numeric value carried in a constant node's name.
// It is used to read shift offsets, which must be compile-time constants.
func constValue(a *ir.Arena, id ir.NodeID) (uint64, error) {
	n := a.Node(id)
	if !n.IsConst {
		return 0, errors.Wrapf(ir.ErrInputViolation, "expected a constant operand, got %q", n.Name)
	}
	v, err := strconv.ParseUint(n.Name, 0, 64)
	if err != nil {
		return 0, errors.Wrapf(ir.ErrInputViolation, "constant %q is not a valid integer literal", n.Name)
	}
	return v, nil
}
