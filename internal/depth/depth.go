package depth

import (
	"github.com/pkg/errors"

	"github.com/dreamware/flowlower/internal/ir"
	"github.com/dreamware/flowlower/internal/shard"
)

// Split rewrites a single narrow operation into depth-legal shallow
// operations.
func Split(table *shard.Table, op ir.Op) ([]ir.Op, error) {
	if depthLegal(table, op) {
		return fastPath(table, op)
	}

	switch op.Opcode {
	case ir.RD:
		return splitRD(table, op)
	case ir.WR:
		return splitWR(table, op)
	default:
		return nil, errors.Wrapf(ir.ErrInvariant, "%s is still depth-illegal after width lowering", op.Opcode)
	}
}

func depthLegal(table *shard.Table, op ir.Op) bool {
	d := table.Config().Depth
	a := table.Arena()
	for _, id := range op.Operands() {
		if a.Node(id).Depth > d {
			return false
		}
	}
	return true
}

// fastPath clone-shards every operand into the Shallow family: memory
// operands go through the memoized bank split (a no-op split when depth is
// already legal, so the bank always carries the same suffixed name on
// every reference); scalar operands are cloned directly, since a
// non-memory node's depth is always 0.
func fastPath(table *shard.Table, op ir.Op) ([]ir.Op, error) {
	d, err := shallowOperand(table, op.D)
	if err != nil {
		return nil, err
	}
	src := make([]ir.NodeID, 0, len(op.Src))
	for _, s := range op.Src {
		sd, err := shallowOperand(table, s)
		if err != nil {
			return nil, err
		}
		src = append(src, sd)
	}
	return []ir.Op{ir.NewOp(op.Opcode, d, src...)}, nil
}

func shallowOperand(table *shard.Table, id ir.NodeID) (ir.NodeID, error) {
	if table.Arena().Node(id).IsMem {
		shards, err := table.Shallow(id)
		if err != nil {
			return 0, err
		}
		return shards[0], nil
	}
	return table.Arena().CloneFrom(table.Config(), ir.Shallow, id)
}

// ceilLog2 returns the number of low address bits needed to index D
// distinct entries, i.e. the smallest n with 2^n >= n_entries.
func ceilLog2(nEntries int) int {
	if nEntries <= 1 {
		return 0
	}
	bits := 0
	v := nEntries - 1
	for v > 0 {
		v >>= 1
		bits++
	}
	return bits
}

// bankAddrWidths splits an address width into (low bits addressing within a
// bank, high bits selecting the bank), given the configured bank depth.
func bankAddrWidths(table *shard.Table, addrWidth int) (lo, hi int) {
	lo = ceilLog2(table.Config().Depth)
	hi = addrWidth - lo
	if hi < 1 {
		hi = 1
	}
	return lo, hi
}

// splitAddr emits the low/high address decomposition shared by RD and WR:
// aLo addresses within a bank, aHi selects which bank.
func splitAddr(table *shard.Table, addr ir.NodeID) (aLo, aHi ir.NodeID, ops []ir.Op, err error) {
	a := table.Arena()
	addrWidth := a.Node(addr).Width
	loWidth, hiWidth := bankAddrWidths(table, addrWidth)

	aLo, err = table.TempWidth(ir.Shallow, loWidth)
	if err != nil {
		return 0, 0, nil, err
	}
	zeroAmt, err := table.Const(ir.Shallow, a.Node(addr).Width, 0)
	if err != nil {
		return 0, 0, nil, err
	}
	ops = append(ops, ir.NewOp(ir.RSH, aLo, addr, zeroAmt))

	aHi, err = table.TempWidth(ir.Shallow, hiWidth)
	if err != nil {
		return 0, 0, nil, err
	}
	shiftAmt, err := table.Const(ir.Shallow, a.Node(addr).Width, uint64(loWidth))
	if err != nil {
		return 0, 0, nil, err
	}
	ops = append(ops, ir.NewOp(ir.RSH, aHi, addr, shiftAmt))

	return aLo, aHi, ops, nil
}

// splitRD rewrites RD d, mem, addr into a linear mux chain over the memory's
// banks, steered by the address's high bits.
func splitRD(table *shard.Table, op ir.Op) ([]ir.Op, error) {
	mem := op.S()
	addr := op.T()

	memShards, err := table.Shallow(mem)
	if err != nil {
		return nil, err
	}

	aLo, aHi, ops, err := splitAddr(table, addr)
	if err != nil {
		return nil, err
	}

	a := table.Arena()
	valueWidth := a.Node(op.D).Width

	var acc ir.NodeID
	for i, bank := range memShards {
		r, err := table.TempWidth(ir.Shallow, valueWidth)
		if err != nil {
			return nil, err
		}
		ops = append(ops, ir.NewOp(ir.RD, r, bank, aLo))

		if i == 0 {
			acc = r
			continue
		}

		bankIdx, err := table.Const(ir.Shallow, a.Node(aHi).Width, uint64(i))
		if err != nil {
			return nil, err
		}
		match, err := table.TempWidth(ir.Shallow, 1)
		if err != nil {
			return nil, err
		}
		ops = append(ops, ir.NewOp(ir.EQ, match, aHi, bankIdx))

		next, err := table.TempWidth(ir.Shallow, valueWidth)
		if err != nil {
			return nil, err
		}
		ops = append(ops, ir.NewOp(ir.MUX, next, match, r, acc))
		acc = next
	}

	ops = append(ops, ir.NewOp(ir.MOV, op.D, acc))
	return ops, nil
}

// splitWR rewrites WR mem, enable, addr, value into a fanout of per-bank
// writes, each gated by an AND of the caller's enable with that bank's
// address match.
func splitWR(table *shard.Table, op ir.Op) ([]ir.Op, error) {
	mem := op.D
	enable := op.S()
	addr := op.T()
	value := op.U()

	memShards, err := table.Shallow(mem)
	if err != nil {
		return nil, err
	}

	aLo, aHi, ops, err := splitAddr(table, addr)
	if err != nil {
		return nil, err
	}

	a := table.Arena()
	for i, bank := range memShards {
		bankIdx, err := table.Const(ir.Shallow, a.Node(aHi).Width, uint64(i))
		if err != nil {
			return nil, err
		}
		match, err := table.TempWidth(ir.Shallow, 1)
		if err != nil {
			return nil, err
		}
		ops = append(ops, ir.NewOp(ir.EQ, match, aHi, bankIdx))

		enableI, err := table.TempWidth(ir.Shallow, 1)
		if err != nil {
			return nil, err
		}
		ops = append(ops, ir.NewOp(ir.AND, enableI, match, enable))

		ops = append(ops, ir.NewOp(ir.WR, bank, enableI, aLo, value))
	}
	return ops, nil
}
