package width

import (
	"github.com/dreamware/flowlower/internal/ir"
	"github.com/dreamware/flowlower/internal/shard"
)

// lowerAddSub threads a carry (ADD) or borrow (SUB) chain shard by shard,
// least-significant first.
func lowerAddSub(table *shard.Table, op ir.Op) ([]ir.Op, error) {
	dShards, err := table.Narrow(op.D)
	if err != nil {
		return nil, err
	}
	sShards, err := table.Narrow(op.S())
	if err != nil {
		return nil, err
	}
	tShards, err := table.Narrow(op.T())
	if err != nil {
		return nil, err
	}

	a := table.Arena()
	var ops []ir.Op

	w0 := a.Node(sShards[0]).Width
	carry, err := table.TempWidth(ir.Narrow, w0)
	if err != nil {
		return nil, err
	}
	ops = append(ops, ir.NewOp(ir.XOR, carry, sShards[0], sShards[0]))

	zeroAmt, err := table.Const(ir.Narrow, table.Config().Word, 0)
	if err != nil {
		return nil, err
	}

	for i, d := range dShards {
		width := a.Node(d).Width
		s, t := sShards[i], tShards[i]

		partial, err := table.TempWidth(ir.Narrow, width)
		if err != nil {
			return nil, err
		}
		ops = append(ops, ir.NewOp(op.Opcode, partial, s, t))

		wideCarry, err := table.TempWidth(ir.Narrow, width)
		if err != nil {
			return nil, err
		}
		ops = append(ops, ir.NewOp(ir.RSH, wideCarry, carry, zeroAmt))

		ops = append(ops, ir.NewOp(op.Opcode, d, partial, wideCarry))

		if i == len(dShards)-1 {
			break
		}

		next, nextOps, err := nextCarry(table, op.Opcode, s, t, d, carry, width)
		if err != nil {
			return nil, err
		}
		ops = append(ops, nextOps...)
		carry = next
	}

	return ops, nil
}

func nextCarry(table *shard.Table, opcode ir.Opcode, s, t, d, carry ir.NodeID, width int) (ir.NodeID, []ir.Op, error) {
	var ops []ir.Op

	newCarry, err := table.TempWidth(ir.Narrow, width)
	if err != nil {
		return 0, nil, err
	}

	if opcode == ir.ADD {
		sAndT, err := table.TempWidth(ir.Narrow, width)
		if err != nil {
			return 0, nil, err
		}
		ops = append(ops, ir.NewOp(ir.AND, sAndT, s, t))

		sOrT, err := table.TempWidth(ir.Narrow, width)
		if err != nil {
			return 0, nil, err
		}
		ops = append(ops, ir.NewOp(ir.OR, sOrT, s, t))

		notD, err := table.TempWidth(ir.Narrow, width)
		if err != nil {
			return 0, nil, err
		}
		ops = append(ops, ir.NewOp(ir.NOT, notD, d))

		sOrTAndNotD, err := table.TempWidth(ir.Narrow, width)
		if err != nil {
			return 0, nil, err
		}
		ops = append(ops, ir.NewOp(ir.AND, sOrTAndNotD, sOrT, notD))

		orAll, err := table.TempWidth(ir.Narrow, width)
		if err != nil {
			return 0, nil, err
		}
		ops = append(ops, ir.NewOp(ir.OR, orAll, sAndT, sOrTAndNotD))

		shiftAmt, err := table.Const(ir.Narrow, table.Config().Word, uint64(width-1))
		if err != nil {
			return 0, nil, err
		}
		ops = append(ops, ir.NewOp(ir.RSH, newCarry, orAll, shiftAmt))
		return newCarry, ops, nil
	}

	// SUB: carry_here = (s < t) widened; eq = (s = t) widened;
	// c' = carry_here OR (eq AND c).
	zeroAmt, err := table.Const(ir.Narrow, table.Config().Word, 0)
	if err != nil {
		return 0, nil, err
	}

	lt, err := table.TempWidth(ir.Narrow, 1)
	if err != nil {
		return 0, nil, err
	}
	ops = append(ops, ir.NewOp(ir.LT, lt, s, t))
	wideLt, err := table.TempWidth(ir.Narrow, width)
	if err != nil {
		return 0, nil, err
	}
	ops = append(ops, ir.NewOp(ir.RSH, wideLt, lt, zeroAmt))

	eq, err := table.TempWidth(ir.Narrow, 1)
	if err != nil {
		return 0, nil, err
	}
	ops = append(ops, ir.NewOp(ir.EQ, eq, s, t))
	wideEq, err := table.TempWidth(ir.Narrow, width)
	if err != nil {
		return 0, nil, err
	}
	ops = append(ops, ir.NewOp(ir.RSH, wideEq, eq, zeroAmt))

	eqAndC, err := table.TempWidth(ir.Narrow, width)
	if err != nil {
		return 0, nil, err
	}
	ops = append(ops, ir.NewOp(ir.AND, eqAndC, wideEq, carry))

	ops = append(ops, ir.NewOp(ir.OR, newCarry, wideLt, eqAndC))
	return newCarry, ops, nil
}
