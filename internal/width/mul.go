package width

import (
	"github.com/pkg/errors"

	"github.com/dreamware/flowlower/internal/bitfield"
	"github.com/dreamware/flowlower/internal/ir"
	"github.com/dreamware/flowlower/internal/shard"
)

// lowerMUL supports only single-word-operand-to-double-word multiply: both
// operands must have the same width and that width must fit in one word.
// The cross-products are built as wide intermediate operations and
// recursed through Lower.
func lowerMUL(table *shard.Table, op ir.Op, depth int) ([]ir.Op, error) {
	a := table.Arena()
	w := table.Config().Word
	sWidth := a.Node(op.S()).Width
	tWidth := a.Node(op.T()).Width

	if sWidth != tWidth {
		return nil, errors.Wrapf(ir.ErrInputViolation, "MUL operands have unequal widths %d and %d", sWidth, tWidth)
	}
	if sWidth > w {
		return nil, errors.Wrapf(ir.ErrInputViolation, "MUL only supports single-word operands, got width %d with W=%d", sWidth, w)
	}

	half := sWidth / 2
	var ops []ir.Op

	extract := func(src ir.NodeID, off, count int) (ir.NodeID, error) {
		srcShards, err := table.Narrow(src)
		if err != nil {
			return 0, err
		}
		dest, err := table.TempWidth(ir.Narrow, count)
		if err != nil {
			return 0, err
		}
		extractOps, err := bitfield.Extract(table, srcShards, off, count, dest)
		if err != nil {
			return 0, err
		}
		ops = append(ops, extractOps...)
		return dest, nil
	}

	sl, err := extract(op.S(), 0, half)
	if err != nil {
		return nil, err
	}
	sh, err := extract(op.S(), half, sWidth-half)
	if err != nil {
		return nil, err
	}
	tl, err := extract(op.T(), 0, half)
	if err != nil {
		return nil, err
	}
	th, err := extract(op.T(), half, sWidth-half)
	if err != nil {
		return nil, err
	}

	dWidth := a.Node(op.D).Width

	wideMul := func(x, y ir.NodeID) (ir.NodeID, error) {
		xWide, err := a.CloneFrom(table.Config(), ir.Wide, x)
		if err != nil {
			return 0, err
		}
		yWide, err := a.CloneFrom(table.Config(), ir.Wide, y)
		if err != nil {
			return 0, err
		}
		dest, err := table.TempWidth(ir.Wide, sWidth)
		if err != nil {
			return 0, err
		}
		mulOp := ir.NewOp(ir.MUL, dest, xWide, yWide)
		mulOps, err := lower(table, mulOp, depth+1, true)
		if err != nil {
			return 0, err
		}
		ops = append(ops, mulOps...)
		return dest, nil
	}

	slTl, err := wideMul(sl, tl)
	if err != nil {
		return nil, err
	}
	shTl, err := wideMul(sh, tl)
	if err != nil {
		return nil, err
	}
	slTh, err := wideMul(sl, th)
	if err != nil {
		return nil, err
	}
	shTh, err := wideMul(sh, th)
	if err != nil {
		return nil, err
	}

	wideAdd := func(x, y ir.NodeID) (ir.NodeID, error) {
		dest, err := table.TempWidth(ir.Wide, dWidth)
		if err != nil {
			return 0, err
		}
		addOp := ir.NewOp(ir.ADD, dest, x, y)
		addOps, err := lower(table, addOp, depth+1, true)
		if err != nil {
			return 0, err
		}
		ops = append(ops, addOps...)
		return dest, nil
	}

	wideShift := func(x ir.NodeID, amount int) (ir.NodeID, error) {
		dest, err := table.TempWidth(ir.Wide, dWidth)
		if err != nil {
			return 0, err
		}
		amt, err := table.Const(ir.Wide, dWidth, uint64(amount))
		if err != nil {
			return 0, err
		}
		shiftOp := ir.NewOp(ir.LSH, dest, x, amt)
		shiftOps, err := lower(table, shiftOp, depth+1, true)
		if err != nil {
			return 0, err
		}
		ops = append(ops, shiftOps...)
		return dest, nil
	}

	crossSum, err := wideAdd(shTl, slTh)
	if err != nil {
		return nil, err
	}
	crossShifted, err := wideShift(crossSum, half)
	if err != nil {
		return nil, err
	}
	highShifted, err := wideShift(shTh, sWidth)
	if err != nil {
		return nil, err
	}

	sum1, err := wideAdd(slTl, crossShifted)
	if err != nil {
		return nil, err
	}
	total, err := wideAdd(sum1, highShifted)
	if err != nil {
		return nil, err
	}

	movOp := ir.NewOp(ir.MOV, op.D, total)
	movOps, err := lower(table, movOp, depth+1, true)
	if err != nil {
		return nil, err
	}
	return append(ops, movOps...), nil
}
