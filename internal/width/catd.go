package width

import (
	"github.com/dreamware/flowlower/internal/config"
	"github.com/dreamware/flowlower/internal/ir"
	"github.com/dreamware/flowlower/internal/shard"
)

// appendCATDTrailer appends the debug reassembly chain for op, unless the
// policy, the opcode, or the caller suppresses it. REG's chain reassembles
// its next-state source rather than its destination, since that's the
// value a register exposes in debug form; IN and WR never get a chain; a
// single-shard destination needs no chain either.
func appendCATDTrailer(table *shard.Table, op ir.Op, ops []ir.Op, suppressCATD bool) ([]ir.Op, error) {
	if suppressCATD || op.Opcode == ir.IN || op.Opcode == ir.WR {
		return ops, nil
	}
	policy := table.Config().CATD
	if policy == config.CATDNone {
		return ops, nil
	}
	if policy == config.CATDOnChainExceptWR && op.Opcode == ir.WR {
		return ops, nil
	}

	chainSource := op.D
	if op.Opcode == ir.REG {
		chainSource = op.S()
	}

	shards, err := table.CATD(chainSource)
	if err != nil {
		return nil, err
	}
	if len(shards) <= 1 {
		return ops, nil
	}

	srcShards, err := table.Narrow(chainSource)
	if err != nil {
		return nil, err
	}

	ops = append(ops, ir.NewOp(ir.MOV, shards[0], srcShards[0]))
	for i := 1; i < len(shards); i++ {
		ops = append(ops, ir.NewOp(ir.CATD, shards[i], pick(srcShards, i), shards[i-1]))
	}
	return ops, nil
}
