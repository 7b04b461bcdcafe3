package width

import (
	"github.com/dreamware/flowlower/internal/ir"
	"github.com/dreamware/flowlower/internal/shard"
)

// lowerLog2 computes a per-shard LOG2, offsets each by the shard's bit
// position, and folds from the lowest shard up, letting the highest-index
// shard that isn't zero win (LOG2 of a multi-word value is dominated by its
// most significant non-zero word, so it must be the last write into the
// accumulator, not the first). The scalar result lands in destination
// shard 0; every higher destination shard is zero, the extension of a
// non-negative result.
func lowerLog2(table *shard.Table, op ir.Op) ([]ir.Op, error) {
	sShards, err := table.Narrow(op.S())
	if err != nil {
		return nil, err
	}
	dShards, err := table.Narrow(op.D)
	if err != nil {
		return nil, err
	}

	a := table.Arena()
	w := table.Config().Word
	resultWidth := a.Node(dShards[0]).Width

	var ops []ir.Op
	acc, err := table.Const(ir.Narrow, resultWidth, 0)
	if err != nil {
		return nil, err
	}

	for i := 0; i < len(sShards); i++ {
		local, err := table.TempWidth(ir.Narrow, resultWidth)
		if err != nil {
			return nil, err
		}
		ops = append(ops, ir.NewOp(ir.LOG2, local, sShards[i]))

		offset, err := table.Const(ir.Narrow, resultWidth, uint64(i*w))
		if err != nil {
			return nil, err
		}
		withOffset, err := table.TempWidth(ir.Narrow, resultWidth)
		if err != nil {
			return nil, err
		}
		ops = append(ops, ir.NewOp(ir.ADD, withOffset, local, offset))

		zero, err := table.Const(ir.Narrow, a.Node(sShards[i]).Width, 0)
		if err != nil {
			return nil, err
		}
		nonZero, err := table.TempWidth(ir.Narrow, 1)
		if err != nil {
			return nil, err
		}
		ops = append(ops, ir.NewOp(ir.NEQ, nonZero, sShards[i], zero))

		next, err := table.TempWidth(ir.Narrow, resultWidth)
		if err != nil {
			return nil, err
		}
		ops = append(ops, ir.NewOp(ir.MUX, next, nonZero, withOffset, acc))
		acc = next
	}

	ops = append(ops, ir.NewOp(ir.MOV, dShards[0], acc))
	for _, d := range dShards[1:] {
		zero, err := table.Const(ir.Narrow, a.Node(d).Width, 0)
		if err != nil {
			return nil, err
		}
		ops = append(ops, ir.NewOp(ir.MOV, d, zero))
	}
	return ops, nil
}
