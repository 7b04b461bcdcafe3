package width

import (
	"strconv"
	"testing"

	"github.com/dreamware/flowlower/internal/config"
	"github.com/dreamware/flowlower/internal/ir"
	"github.com/dreamware/flowlower/internal/shard"
)

func newTable(t *testing.T, word, depth int) (*shard.Table, *ir.Arena) {
	t.Helper()
	cfg, err := config.New(word, depth, config.CATDNone)
	if err != nil {
		t.Fatalf("config.New: %v", err)
	}
	a := ir.NewArena()
	return shard.New(a, cfg), a
}

func maskTo(v uint64, width int) uint64 {
	if width >= 64 {
		return v
	}
	return v & ((uint64(1) << uint(width)) - 1)
}

// interp interprets a flat operation list against an explicit input binding,
// used to check semantic equivalence between a wide operation and its
// narrow rewrite.
type interp struct {
	a      *ir.Arena
	dmap   map[ir.NodeID]ir.Op
	values map[ir.NodeID]uint64
}

func newInterp(a *ir.Arena, ops []ir.Op, inputs map[ir.NodeID]uint64) *interp {
	dmap := make(map[ir.NodeID]ir.Op, len(ops))
	for _, op := range ops {
		dmap[op.D] = op
	}
	values := make(map[ir.NodeID]uint64, len(inputs))
	for k, v := range inputs {
		values[k] = v
	}
	return &interp{a: a, dmap: dmap, values: values}
}

// bindWide assigns fullValue to a wide node by splitting it across the
// narrow shards table.Narrow already assigned it, so later lookups of
// those shard IDs (made internally by the lowered operations) resolve
// without needing a defining op.
func (in *interp) bindWide(table *shard.Table, id ir.NodeID, fullValue uint64) {
	shards, err := table.Narrow(id)
	if err != nil {
		panic(err)
	}
	w := table.Config().Word
	for i, sh := range shards {
		width := in.a.Node(sh).Width
		in.values[sh] = maskTo(fullValue>>uint(i*w), width)
	}
}

// wideValue reassembles a wide node's value from its narrow shards.
func (in *interp) wideValue(table *shard.Table, id ir.NodeID) uint64 {
	shards, err := table.Narrow(id)
	if err != nil {
		panic(err)
	}
	w := table.Config().Word
	var v uint64
	for i, sh := range shards {
		v |= in.get(sh) << uint(i*w)
	}
	return v
}

func (in *interp) get(id ir.NodeID) uint64 {
	if v, ok := in.values[id]; ok {
		return v
	}
	n := in.a.Node(id)
	if n.IsConst {
		v, err := strconv.ParseUint(n.Name, 0, 64)
		if err != nil {
			panic(err)
		}
		v = maskTo(v, n.Width)
		in.values[id] = v
		return v
	}
	op, ok := in.dmap[id]
	if !ok {
		panic("interp: no binding and no defining op for node " + n.Name)
	}
	v := in.evalOp(op)
	in.values[id] = v
	return v
}

func (in *interp) evalOp(op ir.Op) uint64 {
	width := in.a.Node(op.D).Width
	switch op.Opcode {
	case ir.ADD:
		return maskTo(in.get(op.S())+in.get(op.T()), width)
	case ir.SUB:
		return maskTo(in.get(op.S())-in.get(op.T()), width)
	case ir.AND:
		return maskTo(in.get(op.S())&in.get(op.T()), width)
	case ir.OR:
		return maskTo(in.get(op.S())|in.get(op.T()), width)
	case ir.XOR:
		return maskTo(in.get(op.S())^in.get(op.T()), width)
	case ir.NOT:
		return maskTo(^in.get(op.S()), width)
	case ir.MOV:
		return maskTo(in.get(op.S()), width)
	case ir.MUX:
		if in.get(op.S()) != 0 {
			return maskTo(in.get(op.T()), width)
		}
		return maskTo(in.get(op.U()), width)
	case ir.RSH:
		return maskTo(in.get(op.S())>>in.get(op.T()), width)
	case ir.LSH:
		return maskTo(in.get(op.S())<<in.get(op.T()), width)
	case ir.CAT:
		lowWidth := in.a.Node(op.T()).Width
		return maskTo(in.get(op.S())<<uint(lowWidth)|in.get(op.T()), width)
	case ir.EQ:
		return boolUint(in.get(op.S()) == in.get(op.T()))
	case ir.NEQ:
		return boolUint(in.get(op.S()) != in.get(op.T()))
	case ir.LT:
		return boolUint(in.get(op.S()) < in.get(op.T()))
	case ir.GTE:
		return boolUint(in.get(op.S()) >= in.get(op.T()))
	case ir.MUL:
		return maskTo(in.get(op.S())*in.get(op.T()), width)
	case ir.LOG2:
		v := in.get(op.S())
		if v == 0 {
			return 0
		}
		var n uint64
		for v > 1 {
			v >>= 1
			n++
		}
		return maskTo(n, width)
	case ir.CATD:
		lowWidth := in.a.Node(op.T()).Width
		return maskTo(in.get(op.S())<<uint(lowWidth)|in.get(op.T()), width)
	case ir.REG:
		return maskTo(in.get(op.T()), width)
	default:
		panic("interp: unsupported opcode " + op.Opcode.String())
	}
}

func boolUint(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
