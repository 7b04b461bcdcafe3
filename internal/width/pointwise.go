package width

import (
	"github.com/dreamware/flowlower/internal/ir"
	"github.com/dreamware/flowlower/internal/shard"
)

// lowerPointwise handles every opcode whose narrow rewrite is "do the same
// thing once per destination shard": AND, OR, XOR, NOT, MOV, MUX, OUT, IN,
// RD, WR. A source that narrows to a single shard (selects, enables,
// addresses, and anything else already one word wide) is broadcast to every
// destination shard index rather than re-indexed.
func lowerPointwise(table *shard.Table, op ir.Op) ([]ir.Op, error) {
	dShards, err := table.Narrow(op.D)
	if err != nil {
		return nil, err
	}

	srcShards := make([][]ir.NodeID, len(op.Src))
	for i, s := range op.Src {
		shards, err := table.Narrow(s)
		if err != nil {
			return nil, err
		}
		srcShards[i] = shards
	}

	ops := make([]ir.Op, 0, len(dShards))
	for i, d := range dShards {
		src := make([]ir.NodeID, len(op.Src))
		for j, shards := range srcShards {
			src[j] = pick(shards, i)
		}
		ops = append(ops, ir.NewOp(op.Opcode, d, src...))
	}
	return ops, nil
}

// pick broadcasts a single-shard operand to every destination index and
// otherwise indexes shards in lock step with the destination.
func pick(shards []ir.NodeID, i int) ir.NodeID {
	if len(shards) == 1 {
		return shards[0]
	}
	return shards[i]
}

// lowerReg rewrites REG, which carries only its next-state source in the
// wide operation; the narrow rewrite injects a constant-1 write-enable as
// the new leading source.
func lowerReg(table *shard.Table, op ir.Op) ([]ir.Op, error) {
	dShards, err := table.Narrow(op.D)
	if err != nil {
		return nil, err
	}
	tShards, err := table.Narrow(op.S())
	if err != nil {
		return nil, err
	}
	enable, err := table.Const(ir.Narrow, 1, 1)
	if err != nil {
		return nil, err
	}

	ops := make([]ir.Op, 0, len(dShards))
	for i, d := range dShards {
		ops = append(ops, ir.NewOp(ir.REG, d, enable, pick(tShards, i)))
	}
	return ops, nil
}
