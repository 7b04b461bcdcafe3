package width

import (
	"testing"

	"github.com/dreamware/flowlower/internal/ir"
)

func TestLowerMULDoubleWord(t *testing.T) {
	table, a := newTable(t, 64, 16)
	s := a.NewWideNode("s", 64, 0, false, false)
	tn := a.NewWideNode("t", 64, 0, false, false)
	d := a.NewWideNode("d", 128, 0, false, false)

	ops, err := Lower(table, ir.NewOp(ir.MUL, d, s, tn))
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}

	const sVal = uint64(0x0000000100000001)
	const tVal = uint64(0x0000000100000001)

	in := newInterp(a, ops, nil)
	in.bindWide(table, s, sVal)
	in.bindWide(table, tn, tVal)

	dShards, err := table.Narrow(d)
	if err != nil {
		t.Fatalf("Narrow: %v", err)
	}
	var got [2]uint64
	for i, sh := range dShards {
		got[i] = in.get(sh)
	}

	// s = t = 0x00000001_00000001; (2^32+1)^2 = 2^64 + 2^33 + 1, which lands
	// as 64-bit shards [0x0000000200000001, 0x0000000000000001] low to high.
	want := [2]uint64{0x0000000200000001, 0x0000000000000001}
	if got != want {
		t.Errorf("MUL shards = %#x, want %#x", got, want)
	}
}

func TestLowerMULRejectsUnequalWidths(t *testing.T) {
	table, a := newTable(t, 32, 16)
	s := a.NewWideNode("s", 32, 0, false, false)
	tn := a.NewWideNode("t", 16, 0, false, false)
	d := a.NewWideNode("d", 64, 0, false, false)

	_, err := Lower(table, ir.NewOp(ir.MUL, d, s, tn))
	if err == nil {
		t.Fatal("Lower: want error for unequal MUL operand widths")
	}
	if !ir.IsInputViolation(err) {
		t.Errorf("Lower error = %v, want an input violation", err)
	}
}

func TestLowerMULRejectsMultiWordOperand(t *testing.T) {
	table, a := newTable(t, 32, 16)
	s := a.NewWideNode("s", 40, 0, false, false)
	tn := a.NewWideNode("t", 40, 0, false, false)
	d := a.NewWideNode("d", 80, 0, false, false)

	_, err := Lower(table, ir.NewOp(ir.MUL, d, s, tn))
	if err == nil {
		t.Fatal("Lower: want error for a multi-word MUL operand")
	}
	if !ir.IsInputViolation(err) {
		t.Errorf("Lower error = %v, want an input violation", err)
	}
}
