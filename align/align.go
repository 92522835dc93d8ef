package align

import (
	"github.com/TuftsBCB/seq"
)

// A Record is one participant of a pairwise alignment: a named,
// offset-anchored sequence window along with its annotations.
//
// Annotations hold whole-record values (e.g. the template HMM's name
// and description). LetterAnnotations hold per-residue strings padded
// to the parent sequence's full length so that position i of the
// annotation lines up with position i of the parent sequence; see
// PadString.
type Record struct {
	Name              string
	Seq               PartialSeq
	Annotations       map[string]string
	LetterAnnotations map[string]string
}

// NewRecord creates a Record with empty annotation maps.
func NewRecord(name string, ps PartialSeq) Record {
	return Record{
		Name:              name,
		Seq:               ps,
		Annotations:       map[string]string{},
		LetterAnnotations: map[string]string{},
	}
}

// Sequence returns the record's ungapped residue window as a plain
// sequence, for use with the rest of the seq package.
func (r Record) Sequence() seq.Sequence {
	rs := make([]seq.Residue, len(r.Seq.Residues))
	copy(rs, r.Seq.Residues)
	return seq.Sequence{Name: r.Name, Residues: rs}
}

// An Alignment is a pairwise alignment of a target (template) record
// against a query record.
//
// Coordinates is the 2xK map produced by InferCoordinates over the
// gapped target and query strings, with each row shifted by that
// record's start offset: row 0 addresses target positions, row 1 query
// positions. Annotations hold whole-alignment scalar values (scores,
// probabilities). ColumnAnnotations hold strings with one character
// per alignment column.
type Alignment struct {
	Target            Record
	Query             Record
	Coordinates       [][]int
	Annotations       map[string]float64
	ColumnAnnotations map[string]string
}

// NewAlignment creates an Alignment with empty annotation maps.
func NewAlignment(target, query Record, coords [][]int) *Alignment {
	return &Alignment{
		Target:            target,
		Query:             query,
		Coordinates:       coords,
		Annotations:       map[string]float64{},
		ColumnAnnotations: map[string]string{},
	}
}
