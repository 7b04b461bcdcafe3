package shard

import (
	"strconv"

	"github.com/dreamware/flowlower/internal/ir"
)

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// Narrow returns N(x), the ⌈width(x)/W⌉ narrow shards of wide node x, in
// low-to-high order. Two calls with the same id return the identical
// slice of NodeIDs, so repeated references to the same logical node always
// resolve to the same physical shards.
func (t *Table) Narrow(id ir.NodeID) ([]ir.NodeID, error) {
	t.mu.Lock()
	if cached, ok := t.narrow[id]; ok {
		t.mu.Unlock()
		return cached, nil
	}
	t.mu.Unlock()

	n := t.arena.Node(id)
	w := t.cfg.Word
	count := ceilDiv(n.Width, w)

	shards := make([]ir.NodeID, 0, count)
	for i := 0; i < count; i++ {
		name := n.Name
		if count > 1 {
			name = n.Name + "." + strconv.Itoa(i)
		}

		width := w
		if i == count-1 {
			width = ((n.Width - 1) % w) + 1
		}

		isConst := n.IsConst
		if isConst {
			if i == 0 {
				name = n.Name
			} else {
				name = "0"
			}
		}

		sid, err := t.arena.NewNarrowNode(t.cfg, name, width, n.Depth, n.IsMem, isConst, false)
		if err != nil {
			return nil, err
		}
		shards = append(shards, sid)
	}

	if n.IsConst && count > 1 {
		t.recordTruncation(id, n.Name)
	}

	t.mu.Lock()
	t.narrow[id] = shards
	t.mu.Unlock()
	return shards, nil
}

// CATD returns C(x), the monotonically-growing CATD reassembly shards of
// wide node x: shard i has width (i+1)*W except the last, which equals
// width(x). These narrow nodes are marked CATDEscape since their width may
// legally exceed W.
func (t *Table) CATD(id ir.NodeID) ([]ir.NodeID, error) {
	t.mu.Lock()
	if cached, ok := t.catd[id]; ok {
		t.mu.Unlock()
		return cached, nil
	}
	t.mu.Unlock()

	n := t.arena.Node(id)
	w := t.cfg.Word
	count := ceilDiv(n.Width, w)

	shards := make([]ir.NodeID, 0, count)
	for i := 0; i < count; i++ {
		name := n.Name
		if count > 1 && i != count-1 {
			name = n.Name + ".c" + strconv.Itoa(i)
		}

		width := n.Width
		if i != count-1 {
			width = (i + 1) * w
		}

		isConst := n.IsConst
		if isConst {
			if i == 0 {
				name = n.Name
			} else {
				name = "0"
			}
		}

		sid, err := t.arena.NewNarrowNode(t.cfg, name, width, n.Depth, n.IsMem, isConst, true)
		if err != nil {
			return nil, err
		}
		shards = append(shards, sid)
	}

	t.mu.Lock()
	t.catd[id] = shards
	t.mu.Unlock()
	return shards, nil
}

func (t *Table) recordTruncation(id ir.NodeID, name string) {
	if t.truncated[id] {
		return
	}
	t.truncated[id] = true
	t.truncations = append(t.truncations, "constant "+name+" is wider than one word; high shards truncated to 0")
}
