package driver

import (
	"io"
	"log"

	"github.com/pkg/errors"

	"github.com/dreamware/flowlower/internal/config"
	"github.com/dreamware/flowlower/internal/depth"
	"github.com/dreamware/flowlower/internal/netlist"
	"github.com/dreamware/flowlower/internal/shard"
	"github.com/dreamware/flowlower/internal/width"
)

// Run parses a wide netlist from r, lowers every operation to cfg's word
// and depth limits, and emits the result to w. A single shard.Table backs
// the whole run so a node's shards are computed once, however many
// operations reference it.
func Run(cfg config.Lowering, r io.Reader, w io.Writer) error {
	return run(cfg, r, w, true)
}

// RunWidthOnly is Run without the depth-lowering stage, for the width-only
// tool: cfg.Depth is never consulted by internal/width, so callers that
// have no meaningful depth limit to offer can pass any value config.New
// accepts.
func RunWidthOnly(cfg config.Lowering, r io.Reader, w io.Writer) error {
	return run(cfg, r, w, false)
}

func run(cfg config.Lowering, r io.Reader, w io.Writer, lowerDepth bool) error {
	nl, err := netlist.Parse(r)
	if err != nil {
		return errors.Wrap(err, "parsing netlist")
	}

	table := shard.New(nl.Arena, cfg)
	out := &netlist.Netlist{Arena: nl.Arena}

	for _, op := range nl.Ops {
		narrowOps, err := width.Lower(table, op)
		if err != nil {
			return errors.Wrapf(err, "width-lowering %s %s", op.Opcode, nl.Arena.Node(op.D).Name)
		}

		if !lowerDepth {
			out.Ops = append(out.Ops, narrowOps...)
			continue
		}

		for _, narrowOp := range narrowOps {
			shallowOps, err := depth.Split(table, narrowOp)
			if err != nil {
				return errors.Wrapf(err, "depth-lowering %s %s", narrowOp.Opcode, nl.Arena.Node(narrowOp.D).Name)
			}
			out.Ops = append(out.Ops, shallowOps...)
		}
	}

	for _, msg := range table.Truncations() {
		log.Printf("flowlower: %s", msg)
	}

	return errors.Wrap(netlist.Emit(w, out), "emitting netlist")
}
