package width

import (
	"testing"

	"github.com/dreamware/flowlower/internal/config"
	"github.com/dreamware/flowlower/internal/ir"
	"github.com/dreamware/flowlower/internal/shard"
)

func newTableWithPolicy(t *testing.T, word, depth int, policy config.CATDPolicy) (*shard.Table, *ir.Arena) {
	t.Helper()
	cfg, err := config.New(word, depth, policy)
	if err != nil {
		t.Fatalf("config.New: %v", err)
	}
	a := ir.NewArena()
	return shard.New(a, cfg), a
}

func countCATD(ops []ir.Op) int {
	n := 0
	for _, o := range ops {
		if o.Opcode == ir.CATD {
			n++
		}
	}
	return n
}

func TestCATDChainAppendedOnMultiShardDestination(t *testing.T) {
	table, a := newTableWithPolicy(t, 32, 16, config.CATDOnChain)
	s := a.NewWideNode("s", 64, 0, false, false)
	tn := a.NewWideNode("t", 64, 0, false, false)
	d := a.NewWideNode("d", 64, 0, false, false)

	ops, err := Lower(table, ir.NewOp(ir.ADD, d, s, tn))
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	if got := countCATD(ops); got != 1 {
		t.Errorf("CATD count = %d, want 1", got)
	}
}

func TestCATDNonePolicySuppressesChain(t *testing.T) {
	table, a := newTableWithPolicy(t, 32, 16, config.CATDNone)
	s := a.NewWideNode("s", 64, 0, false, false)
	tn := a.NewWideNode("t", 64, 0, false, false)
	d := a.NewWideNode("d", 64, 0, false, false)

	ops, err := Lower(table, ir.NewOp(ir.ADD, d, s, tn))
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	if got := countCATD(ops); got != 0 {
		t.Errorf("CATD count = %d, want 0", got)
	}
}

func TestCATDSingleShardDestinationHasNoChain(t *testing.T) {
	table, a := newTableWithPolicy(t, 32, 16, config.CATDOnChain)
	s := a.NewWideNode("s", 32, 0, false, false)
	tn := a.NewWideNode("t", 32, 0, false, false)
	d := a.NewWideNode("d", 32, 0, false, false)

	ops, err := Lower(table, ir.NewOp(ir.ADD, d, s, tn))
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	if got := countCATD(ops); got != 0 {
		t.Errorf("CATD count = %d, want 0", got)
	}
}

func TestCATDWROpcodeNeverChains(t *testing.T) {
	table, a := newTableWithPolicy(t, 32, 16, config.CATDOnChain)
	mem := a.NewWideNode("mem", 32, 1024, true, false)
	addr := a.NewWideNode("addr", 10, 0, false, false)
	enable := a.NewWideNode("enable", 1, 0, false, false)
	val := a.NewWideNode("val", 64, 0, false, false)

	ops, err := Lower(table, ir.NewOp(ir.WR, mem, enable, addr, val))
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	if got := countCATD(ops); got != 0 {
		t.Errorf("WR CATD count = %d, want 0", got)
	}
}

func TestCATDOnChainExceptWRSuppressesOnlyWR(t *testing.T) {
	table, a := newTableWithPolicy(t, 32, 16, config.CATDOnChainExceptWR)
	mem := a.NewWideNode("mem", 32, 1024, true, false)
	addr := a.NewWideNode("addr", 10, 0, false, false)
	enable := a.NewWideNode("enable", 1, 0, false, false)
	val := a.NewWideNode("val", 64, 0, false, false)

	wrOps, err := Lower(table, ir.NewOp(ir.WR, mem, enable, addr, val))
	if err != nil {
		t.Fatalf("Lower(WR): %v", err)
	}
	if got := countCATD(wrOps); got != 0 {
		t.Errorf("WR CATD count = %d, want 0", got)
	}

	s := a.NewWideNode("s", 64, 0, false, false)
	tn := a.NewWideNode("t", 64, 0, false, false)
	d := a.NewWideNode("d", 64, 0, false, false)
	addOps, err := Lower(table, ir.NewOp(ir.ADD, d, s, tn))
	if err != nil {
		t.Fatalf("Lower(ADD): %v", err)
	}
	if got := countCATD(addOps); got != 1 {
		t.Errorf("ADD CATD count = %d, want 1", got)
	}
}

func TestCATDRegChainsNextStateNotDestination(t *testing.T) {
	table, a := newTableWithPolicy(t, 32, 16, config.CATDOnChain)
	next := a.NewWideNode("next", 64, 0, false, false)
	d := a.NewWideNode("d", 64, 0, false, false)

	ops, err := Lower(table, ir.NewOp(ir.REG, d, next))
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	if got := countCATD(ops); got != 1 {
		t.Fatalf("CATD count = %d, want 1", got)
	}

	nextShards, err := table.CATD(next)
	if err != nil {
		t.Fatalf("CATD(next): %v", err)
	}
	found := false
	for _, o := range ops {
		if o.Opcode == ir.CATD && o.D == nextShards[len(nextShards)-1] {
			found = true
		}
	}
	if !found {
		t.Error("CATD chain does not terminate at next-state's top catdnode shard")
	}
}

func TestCATDInOpcodeNeverChains(t *testing.T) {
	table, a := newTableWithPolicy(t, 32, 16, config.CATDOnChain)
	ext := a.NewWideNode("ext", 64, 0, false, false)
	d := a.NewWideNode("d", 64, 0, false, false)

	ops, err := Lower(table, ir.NewOp(ir.IN, d, ext))
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	if got := countCATD(ops); got != 0 {
		t.Errorf("IN CATD count = %d, want 0", got)
	}
}
