package bitfield

import (
	"github.com/pkg/errors"

	"github.com/dreamware/flowlower/internal/ir"
	"github.com/dreamware/flowlower/internal/shard"
)

// Extract returns the operations that compute dest := shards[off:off+count],
// a zero-indexed, low-to-high bit range over the narrow shard list of some
// wide source (as returned by a prior shard.Table.Narrow or shard.Table.CATD
// call). dest must already exist with width count.
//
// The range off the high end of the source (startShard beyond the end of
// shards, or the single shard case generally) is covered by RSH's own
// zero-extension: a shard that doesn't exist contributes a constant zero,
// and a shard that exists but is narrower than off+count still zero-extends
// above its own width once read through RSH.
func Extract(table *shard.Table, shards []ir.NodeID, off, count int, dest ir.NodeID) ([]ir.Op, error) {
	w := table.Config().Word
	startShard := off / w
	endShard := (off + count - 1) / w

	if startShard >= len(shards) {
		zero, err := table.Const(ir.Narrow, count, 0)
		if err != nil {
			return nil, err
		}
		return []ir.Op{ir.NewOp(ir.MOV, dest, zero)}, nil
	}

	if endShard == startShard || endShard >= len(shards) {
		localOff := off - startShard*w
		amt, err := table.Const(ir.Narrow, w, uint64(localOff))
		if err != nil {
			return nil, err
		}
		return []ir.Op{ir.NewOp(ir.RSH, dest, shards[startShard], amt)}, nil
	}

	if endShard-startShard > 1 {
		return nil, errors.Wrapf(ir.ErrInvariant,
			"bit-field [%d,%d) spans source shards %d..%d, want at most two", off, off+count, startShard, endShard)
	}

	localOff := off - startShard*w
	lowWidth := w - localOff
	highWidth := count - lowWidth

	lowDest, err := table.TempWidth(ir.Narrow, lowWidth)
	if err != nil {
		return nil, err
	}
	lowAmt, err := table.Const(ir.Narrow, w, uint64(localOff))
	if err != nil {
		return nil, err
	}
	lowOp := ir.NewOp(ir.RSH, lowDest, shards[startShard], lowAmt)

	highDest, err := table.TempWidth(ir.Narrow, highWidth)
	if err != nil {
		return nil, err
	}
	highAmt, err := table.Const(ir.Narrow, w, 0)
	if err != nil {
		return nil, err
	}
	highOp := ir.NewOp(ir.RSH, highDest, shards[endShard], highAmt)

	catOp := ir.NewOp(ir.CAT, dest, highDest, lowDest)

	return []ir.Op{lowOp, highOp, catOp}, nil
}
