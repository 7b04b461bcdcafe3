package width

import (
	"github.com/dreamware/flowlower/internal/ir"
	"github.com/dreamware/flowlower/internal/shard"
)

// lowerEqNeq reduces EQ/NEQ over shard pairs: EQ folds per-shard equality
// with AND starting from 1; NEQ folds per-shard inequality with OR starting
// from 0. The final bit lands in destination shard 0.
func lowerEqNeq(table *shard.Table, op ir.Op) ([]ir.Op, error) {
	sShards, err := table.Narrow(op.S())
	if err != nil {
		return nil, err
	}
	tShards, err := table.Narrow(op.T())
	if err != nil {
		return nil, err
	}
	dShards, err := table.Narrow(op.D)
	if err != nil {
		return nil, err
	}

	perShard, fold, init := ir.EQ, ir.AND, uint64(1)
	if op.Opcode == ir.NEQ {
		perShard, fold, init = ir.NEQ, ir.OR, uint64(0)
	}

	acc, err := table.Const(ir.Narrow, 1, init)
	if err != nil {
		return nil, err
	}
	var ops []ir.Op
	for i := range sShards {
		cmp, err := table.TempWidth(ir.Narrow, 1)
		if err != nil {
			return nil, err
		}
		ops = append(ops, ir.NewOp(perShard, cmp, sShards[i], tShards[i]))

		next, err := table.TempWidth(ir.Narrow, 1)
		if err != nil {
			return nil, err
		}
		ops = append(ops, ir.NewOp(fold, next, acc, cmp))
		acc = next
	}
	ops = append(ops, ir.NewOp(ir.MOV, dShards[0], acc))
	return ops, nil
}

// lowerCompare reduces LT/GTE least-significant shard first with a
// carry-through-equality pattern: the per-shard comparison is a candidate
// verdict, and per-shard equality decides whether to keep the running
// accumulator (equal, so a higher shard still might decide it) or adopt the
// candidate.
func lowerCompare(table *shard.Table, op ir.Op) ([]ir.Op, error) {
	sShards, err := table.Narrow(op.S())
	if err != nil {
		return nil, err
	}
	tShards, err := table.Narrow(op.T())
	if err != nil {
		return nil, err
	}
	dShards, err := table.Narrow(op.D)
	if err != nil {
		return nil, err
	}

	init := uint64(0)
	if op.Opcode == ir.GTE {
		init = 1
	}
	acc, err := table.Const(ir.Narrow, 1, init)
	if err != nil {
		return nil, err
	}

	var ops []ir.Op
	for i := range sShards {
		candidate, err := table.TempWidth(ir.Narrow, 1)
		if err != nil {
			return nil, err
		}
		ops = append(ops, ir.NewOp(op.Opcode, candidate, sShards[i], tShards[i]))

		eq, err := table.TempWidth(ir.Narrow, 1)
		if err != nil {
			return nil, err
		}
		ops = append(ops, ir.NewOp(ir.EQ, eq, sShards[i], tShards[i]))

		next, err := table.TempWidth(ir.Narrow, 1)
		if err != nil {
			return nil, err
		}
		ops = append(ops, ir.NewOp(ir.MUX, next, eq, acc, candidate))
		acc = next
	}
	ops = append(ops, ir.NewOp(ir.MOV, dShards[0], acc))
	return ops, nil
}
