package width

import (
	"github.com/dreamware/flowlower/internal/ir"
	"github.com/dreamware/flowlower/internal/shard"
)

// lowerNEG rewrites NEG s as SUB(0, s) and recurses.
func lowerNEG(table *shard.Table, op ir.Op, depth int) ([]ir.Op, error) {
	width := table.Arena().Node(op.S()).Width
	zero, err := table.Const(ir.Wide, width, 0)
	if err != nil {
		return nil, err
	}
	subOp := ir.NewOp(ir.SUB, op.D, zero, op.S())
	return lower(table, subOp, depth+1, true)
}
