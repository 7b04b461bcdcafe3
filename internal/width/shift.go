package width

import (
	"github.com/pkg/errors"

	"github.com/dreamware/flowlower/internal/bitfield"
	"github.com/dreamware/flowlower/internal/ir"
	"github.com/dreamware/flowlower/internal/shard"
)

// lowerRSH supports only constant shift offsets: each destination shard is
// exactly the bit-field extraction of the corresponding source window.
func lowerRSH(table *shard.Table, op ir.Op) ([]ir.Op, error) {
	off, err := constValue(table.Arena(), op.T())
	if err != nil {
		return nil, errors.Wrapf(err, "RSH requires a constant shift offset")
	}

	dShards, err := table.Narrow(op.D)
	if err != nil {
		return nil, err
	}
	sShards, err := table.Narrow(op.S())
	if err != nil {
		return nil, err
	}

	w := table.Config().Word
	a := table.Arena()
	var ops []ir.Op
	for i, d := range dShards {
		width := a.Node(d).Width
		lo := i*w + int(off)
		extractOps, err := bitfield.Extract(table, sShards, lo, width, d)
		if err != nil {
			return nil, err
		}
		ops = append(ops, extractOps...)
	}
	return ops, nil
}

// lowerLSH handles the constant-offset case directly (a chain of LSH-on-
// shard-0 plus CAT-stitched spill for higher shards) and falls back to a
// variable-offset barrel shifter, built from wide conditional shifts and
// recursed through Lower, when the shift amount isn't a compile-time
// constant.
func lowerLSH(table *shard.Table, op ir.Op, depth int) ([]ir.Op, error) {
	if table.Arena().Node(op.T()).IsConst {
		return lowerLSHConst(table, op)
	}
	return lowerLSHVariable(table, op, depth)
}

func lowerLSHConst(table *shard.Table, op ir.Op) ([]ir.Op, error) {
	off64, err := constValue(table.Arena(), op.T())
	if err != nil {
		return nil, err
	}
	off := int(off64)

	dShards, err := table.Narrow(op.D)
	if err != nil {
		return nil, err
	}
	sShards, err := table.Narrow(op.S())
	if err != nil {
		return nil, err
	}

	a := table.Arena()
	w := table.Config().Word
	var ops []ir.Op

	ops = append(ops, ir.NewOp(ir.LSH, dShards[0], sShards[0], op.T()))

	for i := 1; i < len(dShards); i++ {
		d := dShards[i]
		width := a.Node(d).Width

		bottomWidth := width - off
		if bottomWidth < 0 {
			bottomWidth = 0
		}
		spillWidth := width - bottomWidth

		spillPart, spillOps, err := shiftSpill(table, sShards[i-1], w, off, spillWidth)
		if err != nil {
			return nil, err
		}
		ops = append(ops, spillOps...)

		if bottomWidth == 0 {
			resized, resizeOps, err := resize(table, spillPart, width)
			if err != nil {
				return nil, err
			}
			ops = append(ops, resizeOps...)
			ops = append(ops, ir.NewOp(ir.MOV, d, resized))
			continue
		}

		bottomPart, bottomOps, err := shiftBottom(table, sShards, i, bottomWidth)
		if err != nil {
			return nil, err
		}
		ops = append(ops, bottomOps...)

		ops = append(ops, ir.NewOp(ir.CAT, d, bottomPart, spillPart))
	}

	return ops, nil
}

// shiftSpill extracts the top `spillWidth` bits of a shard-width source
// shard, the bits that spill upward into the next destination shard.
func shiftSpill(table *shard.Table, src ir.NodeID, shardWidth, off, spillWidth int) (ir.NodeID, []ir.Op, error) {
	if spillWidth == 0 {
		zero, err := table.Const(ir.Narrow, 0, 0)
		return zero, nil, err
	}
	full, err := table.TempWidth(ir.Narrow, off)
	if err != nil {
		return 0, nil, err
	}
	amt, err := table.Const(ir.Narrow, table.Config().Word, uint64(shardWidth-off))
	if err != nil {
		return 0, nil, err
	}
	op := ir.NewOp(ir.RSH, full, src, amt)
	if spillWidth == off {
		return full, []ir.Op{op}, nil
	}
	resized, resizeOps, err := resize(table, full, spillWidth)
	if err != nil {
		return 0, nil, err
	}
	return resized, append([]ir.Op{op}, resizeOps...), nil
}

// shiftBottom extracts the low `bottomWidth` bits of source shard i, or a
// constant zero if that shard doesn't exist (the source ran out before the
// destination did).
func shiftBottom(table *shard.Table, sShards []ir.NodeID, i, bottomWidth int) (ir.NodeID, []ir.Op, error) {
	if i >= len(sShards) {
		zero, err := table.Const(ir.Narrow, bottomWidth, 0)
		return zero, nil, err
	}
	dest, err := table.TempWidth(ir.Narrow, bottomWidth)
	if err != nil {
		return 0, nil, err
	}
	zeroAmt, err := table.Const(ir.Narrow, table.Config().Word, 0)
	if err != nil {
		return 0, nil, err
	}
	return dest, []ir.Op{ir.NewOp(ir.RSH, dest, sShards[i], zeroAmt)}, nil
}

func resize(table *shard.Table, src ir.NodeID, width int) (ir.NodeID, []ir.Op, error) {
	dest, err := table.TempWidth(ir.Narrow, width)
	if err != nil {
		return 0, nil, err
	}
	zeroAmt, err := table.Const(ir.Narrow, table.Config().Word, 0)
	if err != nil {
		return 0, nil, err
	}
	return dest, []ir.Op{ir.NewOp(ir.RSH, dest, src, zeroAmt)}, nil
}

// lowerLSHVariable decomposes a non-constant-offset left shift into a
// barrel shifter: one conditional-shift-then-mux stage per bit of the shift
// amount, each stage built as a wide operation and recursed through Lower.
func lowerLSHVariable(table *shard.Table, op ir.Op, depth int) ([]ir.Op, error) {
	a := table.Arena()
	offWidth := a.Node(op.T()).Width
	dWidth := a.Node(op.D).Width

	cfg := table.Config()
	current := op.S()
	var ops []ir.Op

	offShards, err := table.Narrow(op.T())
	if err != nil {
		return nil, err
	}

	for j := 0; j < offWidth; j++ {
		bit, err := table.TempWidth(ir.Narrow, 1)
		if err != nil {
			return nil, err
		}
		bitOps, err := bitfield.Extract(table, offShards, j, 1, bit)
		if err != nil {
			return nil, err
		}
		ops = append(ops, bitOps...)

		selWide, err := a.CloneFrom(cfg, ir.Wide, bit)
		if err != nil {
			return nil, err
		}

		shiftAmt, err := table.Const(ir.Wide, dWidth, uint64(1)<<uint(j))
		if err != nil {
			return nil, err
		}
		shifted, err := table.TempWidth(ir.Wide, dWidth)
		if err != nil {
			return nil, err
		}
		shiftOp := ir.NewOp(ir.LSH, shifted, current, shiftAmt)
		shiftOps, err := lower(table, shiftOp, depth+1, true)
		if err != nil {
			return nil, err
		}
		ops = append(ops, shiftOps...)

		next, err := table.TempWidth(ir.Wide, dWidth)
		if err != nil {
			return nil, err
		}
		muxOp := ir.NewOp(ir.MUX, next, selWide, shifted, current)
		muxOps, err := lower(table, muxOp, depth+1, true)
		if err != nil {
			return nil, err
		}
		ops = append(ops, muxOps...)

		current = next
	}

	movOp := ir.NewOp(ir.MOV, op.D, current)
	movOps, err := lower(table, movOp, depth+1, true)
	if err != nil {
		return nil, err
	}
	return append(ops, movOps...), nil
}
