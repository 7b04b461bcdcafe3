package shard

import (
	"strconv"

	"github.com/dreamware/flowlower/internal/ir"
)

// Shallow returns S(x), the ⌈depth(x)/D⌉ shallow shards of narrow memory
// node x, in bank order. Width is preserved on every shard; shard i has
// depth D except the last, which has depth ((depth-1) mod D) + 1. Two
// calls with the same id return the identical slice of NodeIDs.
func (t *Table) Shallow(id ir.NodeID) ([]ir.NodeID, error) {
	t.mu.Lock()
	if cached, ok := t.shallow[id]; ok {
		t.mu.Unlock()
		return cached, nil
	}
	t.mu.Unlock()

	n := t.arena.Node(id)
	d := t.cfg.Depth
	count := ceilDiv(n.Depth, d)

	shards := make([]ir.NodeID, 0, count)
	for i := 0; i < count; i++ {
		depth := d
		if i == count-1 {
			depth = ((n.Depth - 1) % d) + 1
		}

		name := n.Name + ".c" + strconv.Itoa(i)
		sid, err := t.arena.NewShallowNode(t.cfg, name, n.Width, depth, n.IsMem, n.IsConst, n.CATDEscape)
		if err != nil {
			return nil, err
		}
		shards = append(shards, sid)
	}

	t.mu.Lock()
	t.shallow[id] = shards
	t.mu.Unlock()
	return shards, nil
}
