package align

import (
	"fmt"
	"strings"

	"github.com/TuftsBCB/seq"
)

// A PartialSeq is a run of residues anchored at an offset within a
// parent sequence of known total length. hhsuite output never shows a
// whole sequence at once; each alignment covers some window of the
// query and template, so the window is stored as an explicit
// (offset, length, content) triple rather than a padded string.
type PartialSeq struct {
	// Offset is the 0-based position of the first residue within the
	// parent sequence.
	Offset int

	// Length is the total length of the parent sequence.
	Length int

	// Residues is the ungapped residue content of the window.
	Residues []seq.Residue
}

// NewPartialSeq creates a PartialSeq from an ungapped string of
// residues. The window must fit within the declared total length.
func NewPartialSeq(offset int, residues string, length int) (PartialSeq, error) {
	if offset < 0 {
		return PartialSeq{}, fmt.Errorf("Negative sequence offset %d.", offset)
	}
	if offset+len(residues) > length {
		return PartialSeq{}, fmt.Errorf(
			"Sequence window [%d, %d) overruns declared length %d.",
			offset, offset+len(residues), length)
	}
	rs := make([]seq.Residue, len(residues))
	for i := 0; i < len(residues); i++ {
		rs[i] = seq.Residue(residues[i])
	}
	return PartialSeq{Offset: offset, Length: length, Residues: rs}, nil
}

// End returns the 0-based position one past the last residue of the
// window within the parent sequence.
func (p PartialSeq) End() int {
	return p.Offset + len(p.Residues)
}

// String materializes the window as a string of the full declared
// length: spaces before the offset, the residues, and spaces after.
func (p PartialSeq) String() string {
	rs := make([]byte, len(p.Residues))
	for i, r := range p.Residues {
		rs[i] = byte(r)
	}
	return PadString(p.Offset, p.Length, string(rs))
}

// PadString places s at the given offset within a string of the given
// total length, padding with spaces on both sides. If s is too long to
// fit it is still emitted whole, matching a left-justified format.
func PadString(offset, length int, s string) string {
	if offset < 0 {
		offset = 0
	}
	pad := length - offset - len(s)
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", offset) + s + strings.Repeat(" ", pad)
}
