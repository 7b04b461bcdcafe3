package netlist

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"github.com/dreamware/flowlower/internal/ir"
)

// Netlist is a parsed or about-to-be-emitted program: every node lives in
// Arena, and Ops holds the operations that produce them, in textual order.
type Netlist struct {
	Arena *ir.Arena
	Ops   []ir.Op
}

// Parse reads the line-oriented textual form into a fresh Netlist. Every
// failure is wrapped with the offending line number.
func Parse(r io.Reader) (*Netlist, error) {
	nl := &Netlist{Arena: ir.NewArena()}
	nodes := make(map[string]ir.NodeID)
	consts := make(map[string]ir.NodeID)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		if err := parseLine(nl, nodes, consts, line); err != nil {
			return nil, errors.Wrapf(err, "netlist line %d", lineNo)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading netlist")
	}
	return nl, nil
}

func parseLine(nl *Netlist, nodes, consts map[string]ir.NodeID, line string) error {
	eq := strings.IndexByte(line, '=')
	if eq < 0 {
		return errors.Errorf("missing '=' in %q", line)
	}
	name := strings.TrimSpace(line[:eq])
	if name == "" {
		return errors.Errorf("empty node name in %q", line)
	}
	rhs := strings.TrimSpace(line[eq+1:])
	tokens := strings.Fields(strings.ReplaceAll(rhs, ",", " "))
	if len(tokens) == 0 {
		return errors.Errorf("empty right-hand side for %q", name)
	}

	switch {
	case strings.HasPrefix(tokens[0], "mem/"):
		width, err := typeWidth(tokens[0], "mem/")
		if err != nil {
			return err
		}
		if len(tokens) != 2 {
			return errors.Errorf("mem declaration %q wants exactly a depth after the width", name)
		}
		depth, err := strconv.Atoi(tokens[1])
		if err != nil {
			return errors.Wrapf(err, "mem %q depth", name)
		}
		nodes[name] = nl.Arena.NewWideNode(name, width, depth, true, false)
		return nil

	case strings.HasPrefix(tokens[0], "reg/"):
		width, err := typeWidth(tokens[0], "reg/")
		if err != nil {
			return err
		}
		if len(tokens) != 1 {
			return errors.Errorf("reg declaration %q takes no extra fields", name)
		}
		nodes[name] = nl.Arena.NewWideNode(name, width, 0, false, false)
		return nil

	case strings.HasPrefix(tokens[0], "wire/"):
		width, err := typeWidth(tokens[0], "wire/")
		if err != nil {
			return err
		}
		if len(tokens) != 1 {
			return errors.Errorf("wire declaration %q takes no extra fields", name)
		}
		nodes[name] = nl.Arena.NewWideNode(name, width, 0, false, false)
		return nil

	default:
		return parseOpLine(nl, nodes, consts, name, tokens)
	}
}

func typeWidth(token, prefix string) (int, error) {
	width, err := strconv.Atoi(strings.TrimPrefix(token, prefix))
	if err != nil {
		return 0, errors.Wrapf(err, "malformed %swidth in %q", prefix, token)
	}
	return width, nil
}

func parseOpLine(nl *Netlist, nodes, consts map[string]ir.NodeID, dstName string, tokens []string) error {
	opcode, ok := ir.ParseOpcode(tokens[0])
	if !ok {
		return errors.Errorf("unknown opcode %q", tokens[0])
	}
	if len(tokens) < 2 {
		return errors.Errorf("operation %q is missing its width", dstName)
	}
	width, err := strconv.Atoi(tokens[1])
	if err != nil {
		return errors.Wrapf(err, "operation %q width", dstName)
	}

	dst, ok := nodes[dstName]
	if !ok {
		dst = nl.Arena.NewWideNode(dstName, width, 0, false, false)
		nodes[dstName] = dst
	}

	src := make([]ir.NodeID, 0, len(tokens)-2)
	for _, operand := range tokens[2:] {
		id, err := resolveOperand(nl, nodes, consts, operand, width)
		if err != nil {
			return errors.Wrapf(err, "operation %q", dstName)
		}
		src = append(src, id)
	}

	nl.Ops = append(nl.Ops, ir.NewOp(opcode, dst, src...))
	return nil
}

// resolveOperand looks operand up as a previously declared identifier, or,
// failing that, parses it as an integer literal and materialises a
// constant node named after its own literal text, at the width of the
// operation referencing it. Repeated literals at the same width share a
// node, matching the reuse callers get for free when declaring by name.
func resolveOperand(nl *Netlist, nodes, consts map[string]ir.NodeID, operand string, width int) (ir.NodeID, error) {
	if id, ok := nodes[operand]; ok {
		return id, nil
	}
	if _, err := strconv.ParseUint(operand, 0, 64); err == nil {
		key := operand + "/" + strconv.Itoa(width)
		if id, ok := consts[key]; ok {
			return id, nil
		}
		id := nl.Arena.NewWideNode(operand, width, 0, false, true)
		consts[key] = id
		return id, nil
	}
	return 0, errors.Errorf("undeclared identifier %q", operand)
}

// Emit writes memory declarations first, sorted by name for determinism,
// then every operation in input order. Only memories actually referenced
// by an operation are declared, so a working arena that still carries
// earlier wide/narrow copies of a memory alongside its final depth-split
// banks doesn't emit stale duplicate declarations.
func Emit(w io.Writer, nl *Netlist) error {
	bw := bufio.NewWriter(w)

	memByName := make(map[string]ir.NodeID)
	memNames := make([]string, 0)
	record := func(id ir.NodeID) {
		n := nl.Arena.Node(id)
		if !n.IsMem {
			return
		}
		if _, seen := memByName[n.Name]; seen {
			return
		}
		memByName[n.Name] = id
		memNames = append(memNames, n.Name)
	}
	for _, op := range nl.Ops {
		record(op.D)
		for _, s := range op.Src {
			record(s)
		}
	}
	slices.Sort(memNames)

	for _, name := range memNames {
		n := nl.Arena.Node(memByName[name])
		if _, err := fmt.Fprintf(bw, "%s = mem/%d %d\n", name, n.Width, n.Depth); err != nil {
			return errors.Wrap(err, "writing mem declaration")
		}
	}

	for _, op := range nl.Ops {
		if err := emitOp(bw, nl.Arena, op); err != nil {
			return err
		}
	}

	return errors.Wrap(bw.Flush(), "flushing netlist output")
}

func emitOp(w *bufio.Writer, a *ir.Arena, op ir.Op) error {
	d := a.Node(op.D)
	parts := make([]string, 0, len(op.Src))
	for _, s := range op.Src {
		parts = append(parts, a.Node(s).Name)
	}
	_, err := fmt.Fprintf(w, "%s = %s %d %s\n", d.Name, op.Opcode.String(), d.Width, strings.Join(parts, ", "))
	return errors.Wrap(err, "writing operation")
}
