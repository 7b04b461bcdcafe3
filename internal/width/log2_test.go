package width

import (
	"testing"

	"github.com/dreamware/flowlower/internal/ir"
)

func TestLowerLOG2HighShardDominates(t *testing.T) {
	table, a := newTable(t, 32, 16)
	s := a.NewWideNode("s", 64, 0, false, false)
	d := a.NewWideNode("d", 8, 0, false, false)

	ops, err := Lower(table, ir.NewOp(ir.LOG2, d, s))
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}

	in := newInterp(a, ops, nil)
	// high shard = 5, so LOG2 = floor(log2(5)) + 32 = 2 + 32 = 34.
	in.bindWide(table, s, uint64(5)<<32)

	dShards, err := table.Narrow(d)
	if err != nil {
		t.Fatalf("Narrow: %v", err)
	}
	if got := in.get(dShards[0]); got != 34 {
		t.Errorf("LOG2 = %d, want 34", got)
	}
}

func TestLowerLOG2BothShardsNonZero(t *testing.T) {
	table, a := newTable(t, 32, 16)
	s := a.NewWideNode("s", 64, 0, false, false)
	d := a.NewWideNode("d", 8, 0, false, false)

	ops, err := Lower(table, ir.NewOp(ir.LOG2, d, s))
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}

	in := newInterp(a, ops, nil)
	// low shard = 3, high shard = 5, so the fold must not let the low
	// shard's own LOG2(3)+0=1 survive over the high shard's LOG2(5)+32=34.
	in.bindWide(table, s, (uint64(5)<<32)|3)

	dShards, err := table.Narrow(d)
	if err != nil {
		t.Fatalf("Narrow: %v", err)
	}
	if got := in.get(dShards[0]); got != 34 {
		t.Errorf("LOG2 = %d, want 34", got)
	}
}

func TestLowerLOG2LowShardOnly(t *testing.T) {
	table, a := newTable(t, 32, 16)
	s := a.NewWideNode("s", 64, 0, false, false)
	d := a.NewWideNode("d", 8, 0, false, false)

	ops, err := Lower(table, ir.NewOp(ir.LOG2, d, s))
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}

	in := newInterp(a, ops, nil)
	in.bindWide(table, s, 9)

	dShards, err := table.Narrow(d)
	if err != nil {
		t.Fatalf("Narrow: %v", err)
	}
	if got := in.get(dShards[0]); got != 3 {
		t.Errorf("LOG2 = %d, want 3", got)
	}
}
