package ir

import (
	"testing"

	"github.com/dreamware/flowlower/internal/config"
)

func mustConfig(t *testing.T, word, depth int) config.Lowering {
	t.Helper()
	cfg, err := config.New(word, depth, config.CATDOnChain)
	if err != nil {
		t.Fatalf("config.New: %v", err)
	}
	return cfg
}

func TestNewNarrowNodeRejectsOverWideWithoutEscape(t *testing.T) {
	cfg := mustConfig(t, 32, 16)
	a := NewArena()

	if _, err := a.NewNarrowNode(cfg, "x", 33, 0, false, false, false); err == nil {
		t.Fatal("expected an error building a 33-bit narrow node with W=32")
	}

	id, err := a.NewNarrowNode(cfg, "x", 33, 0, false, false, true)
	if err != nil {
		t.Fatalf("unexpected error with catdEscape=true: %v", err)
	}
	if got := a.Node(id).Width; got != 33 {
		t.Errorf("Width = %d, want 33", got)
	}
}

func TestNewShallowNodeRejectsOverDeep(t *testing.T) {
	cfg := mustConfig(t, 32, 16)
	a := NewArena()

	if _, err := a.NewShallowNode(cfg, "m", 8, 17, true, false, false); err == nil {
		t.Fatal("expected an error building a depth-17 shallow node with D=16")
	}
	if _, err := a.NewShallowNode(cfg, "m", 33, 4, false, false, false); err == nil {
		t.Fatal("expected an error building a width-33 shallow node with W=32")
	}

	id, err := a.NewShallowNode(cfg, "m", 8, 16, true, false, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n := a.Node(id)
	if n.Width != 8 || n.Depth != 16 || n.Kind != Shallow {
		t.Errorf("got %+v, want width=8 depth=16 kind=Shallow", n)
	}
}

func TestNewShallowNodeAllowsOverWordWithCATDEscape(t *testing.T) {
	cfg := mustConfig(t, 32, 16)
	a := NewArena()

	id, err := a.NewShallowNode(cfg, "d.c1", 64, 0, false, false, true)
	if err != nil {
		t.Fatalf("unexpected error with catdEscape=true: %v", err)
	}
	if got := a.Node(id).Width; got != 64 {
		t.Errorf("Width = %d, want 64", got)
	}
}

func TestCloneFromPreservesIdentityFields(t *testing.T) {
	cfg := mustConfig(t, 32, 16)
	a := NewArena()

	wide := a.NewWideNode("acc", 32, 0, false, false)
	a.nodes[wide].HasCycle = true
	a.nodes[wide].Cycle = 3

	narrow, err := a.CloneFrom(cfg, Narrow, wide)
	if err != nil {
		t.Fatalf("CloneFrom: %v", err)
	}
	got := a.Node(narrow)
	if got.Name != "acc" || got.Width != 32 || !got.HasCycle || got.Cycle != 3 {
		t.Errorf("got %+v, want name=acc width=32 cycle=3", got)
	}
	if got.Kind != Narrow {
		t.Errorf("Kind = %v, want Narrow", got.Kind)
	}
}

func TestArenaIDsAreStableAndOrdered(t *testing.T) {
	a := NewArena()
	a1 := a.NewWideNode("a", 8, 0, false, false)
	a2 := a.NewWideNode("b", 8, 0, false, false)

	if a1 == a2 {
		t.Fatal("expected distinct IDs for distinct nodes")
	}
	if a1 == 0 || a2 == 0 {
		t.Fatal("zero NodeID must never be handed out")
	}
	if got := a.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
	ids := a.All()
	if len(ids) != 2 || ids[0] != a1 || ids[1] != a2 {
		t.Errorf("All() = %v, want [%d %d]", ids, a1, a2)
	}
}
