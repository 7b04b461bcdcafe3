package ir

import "github.com/pkg/errors"

// The pass has a flat, three-way error taxonomy. Every error raised by
// internal/ir, internal/shard, internal/width, internal/depth, and
// internal/bitfield wraps one of these sentinels with
// github.com/pkg/errors.Wrapf so that errors.Is still matches the category
// after context (opcode, operand, line) is attached.
var (
	// ErrUnsupportedOpcode marks an opcode the lowerer has no rewrite for.
	ErrUnsupportedOpcode = errors.New("unsupported opcode")

	// ErrInputViolation marks an input netlist that violates a documented
	// precondition (CATD/RSHD present in input, MUL shape mismatch, a
	// non-constant shift offset, a narrow node built wider than a word
	// without the CATD escape, and similar).
	ErrInputViolation = errors.New("input violation")

	// ErrInvariant marks a condition the pass's own contract should have
	// already ruled out (a non-contiguous bit-field span, a depth-illegal
	// operand reaching internal/depth on an opcode other than RD/WR).
	ErrInvariant = errors.New("internal invariant violated")
)

// IsUnsupportedOpcode reports whether err wraps ErrUnsupportedOpcode.
func IsUnsupportedOpcode(err error) bool { return errors.Is(err, ErrUnsupportedOpcode) }

// IsInputViolation reports whether err wraps ErrInputViolation.
func IsInputViolation(err error) bool { return errors.Is(err, ErrInputViolation) }

// IsInvariant reports whether err wraps ErrInvariant.
func IsInvariant(err error) bool { return errors.Is(err, ErrInvariant) }
