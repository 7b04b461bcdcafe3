package width

import (
	"github.com/dreamware/flowlower/internal/bitfield"
	"github.com/dreamware/flowlower/internal/ir"
	"github.com/dreamware/flowlower/internal/shard"
)

// lowerCAT rewrites CAT d, s, t (d = s concatenated above t) shard by
// shard. Each destination shard's bit window either falls entirely inside
// t, entirely inside s (past t's width), or straddles the s/t boundary.
func lowerCAT(table *shard.Table, op ir.Op) ([]ir.Op, error) {
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
	tWidth := a.Node(op.T()).Width
	w := table.Config().Word

	var ops []ir.Op
	for i, d := range dShards {
		width := a.Node(d).Width
		lo := i * w
		hi := lo + width

		switch {
		case hi <= tWidth:
			ops = append(ops, ir.NewOp(ir.MOV, d, pick(tShards, i)))
		case lo >= tWidth:
			extractOps, err := bitfield.Extract(table, sShards, lo-tWidth, width, d)
			if err != nil {
				return nil, err
			}
			ops = append(ops, extractOps...)
		default:
			lowWidth := tWidth - lo
			highWidth := width - lowWidth

			lowPart, lowOps, err := resize(table, pick(tShards, i), lowWidth)
			if err != nil {
				return nil, err
			}
			ops = append(ops, lowOps...)

			highPart, err := table.TempWidth(ir.Narrow, highWidth)
			if err != nil {
				return nil, err
			}
			highOps, err := bitfield.Extract(table, sShards, 0, highWidth, highPart)
			if err != nil {
				return nil, err
			}
			ops = append(ops, highOps...)

			ops = append(ops, ir.NewOp(ir.CAT, d, highPart, lowPart))
		}
	}
	return ops, nil
}
