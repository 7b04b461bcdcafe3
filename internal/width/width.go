package width

import (
	"github.com/pkg/errors"

	"github.com/dreamware/flowlower/internal/ir"
	"github.com/dreamware/flowlower/internal/shard"
)

// maxRecursion bounds the MUL/NEG/variable-LSH self-recursion. The rewrite
// strictly reduces operand width at every recursive step, so this is a
// defensive backstop rather than a limit expected to bite in practice.
const maxRecursion = 64

// Lower rewrites a single wide operation into an ordered sequence of
// word-legal operations, appending a trailing CATD reassembly chain when
// the table's config.CATDPolicy calls for one.
func Lower(table *shard.Table, op ir.Op) ([]ir.Op, error) {
	return lower(table, op, 0, false)
}

func lower(table *shard.Table, op ir.Op, depth int, suppressCATD bool) ([]ir.Op, error) {
	if depth > maxRecursion {
		return nil, errors.Wrapf(ir.ErrInvariant, "width lowering recursion exceeded %d levels for opcode %s", maxRecursion, op.Opcode)
	}

	if wordLegal(table, op) {
		ops, err := fastPath(table, op)
		if err != nil {
			return nil, err
		}
		return appendCATDTrailer(table, op, ops, suppressCATD)
	}

	ops, err := lowerWide(table, op, depth)
	if err != nil {
		return nil, err
	}
	return appendCATDTrailer(table, op, ops, suppressCATD)
}

func wordLegal(table *shard.Table, op ir.Op) bool {
	w := table.Config().Word
	a := table.Arena()
	for _, id := range op.Operands() {
		if a.Node(id).Width > w {
			return false
		}
	}
	return true
}

// fastPath clone-shards every operand (each already has exactly one narrow
// shard) and emits a single operation of the same opcode.
func fastPath(table *shard.Table, op ir.Op) ([]ir.Op, error) {
	d, err := shardZero(table, op.D)
	if err != nil {
		return nil, err
	}
	src := make([]ir.NodeID, 0, len(op.Src))
	for _, s := range op.Src {
		sd, err := shardZero(table, s)
		if err != nil {
			return nil, err
		}
		src = append(src, sd)
	}
	return []ir.Op{ir.NewOp(op.Opcode, d, src...)}, nil
}

func shardZero(table *shard.Table, id ir.NodeID) (ir.NodeID, error) {
	shards, err := table.Narrow(id)
	if err != nil {
		return 0, err
	}
	return shards[0], nil
}

func lowerWide(table *shard.Table, op ir.Op, depth int) ([]ir.Op, error) {
	switch op.Opcode {
	case ir.AND, ir.OR, ir.XOR, ir.NOT, ir.MOV, ir.MUX, ir.OUT, ir.IN, ir.RD, ir.WR:
		return lowerPointwise(table, op)
	case ir.REG:
		return lowerReg(table, op)
	case ir.ADD, ir.SUB:
		return lowerAddSub(table, op)
	case ir.RSH:
		return lowerRSH(table, op)
	case ir.LSH:
		return lowerLSH(table, op, depth)
	case ir.CAT:
		return lowerCAT(table, op)
	case ir.MUL:
		return lowerMUL(table, op, depth)
	case ir.NEG:
		return lowerNEG(table, op, depth)
	case ir.EQ, ir.NEQ:
		return lowerEqNeq(table, op)
	case ir.LT, ir.GTE:
		return lowerCompare(table, op)
	case ir.LOG2:
		return lowerLog2(table, op)
	case ir.CATD, ir.RSHD:
		return nil, errors.Wrapf(ir.ErrInputViolation, "%s may not appear in input", op.Opcode)
	default:
		return nil, errors.Wrapf(ir.ErrUnsupportedOpcode, "%s has no width-lowering rewrite", op.Opcode)
	}
}
