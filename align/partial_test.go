package align

import (
	"testing"

	"github.com/TuftsBCB/seq"
)

func TestPartialSeqString(t *testing.T) {
	ps, err := NewPartialSeq(3, "NVKAAW", 12)
	if err != nil {
		t.Fatalf("%s", err)
	}
	if ps.End() != 9 {
		t.Fatalf("End should be 9, but we got %d", ps.End())
	}
	answer := "   NVKAAW   "
	if s := ps.String(); s != answer {
		t.Fatalf("String should be '%s' but we got '%s'", answer, s)
	}
}

func TestPartialSeqOverrun(t *testing.T) {
	if _, err := NewPartialSeq(3, "NVKAAW", 8); err == nil {
		t.Fatalf("Expected an error for a window overrunning its length.")
	}
	if _, err := NewPartialSeq(-1, "NVKAAW", 8); err == nil {
		t.Fatalf("Expected an error for a negative offset.")
	}
}

func TestPadString(t *testing.T) {
	if s := PadString(2, 6, "AB"); s != "  AB  " {
		t.Fatalf("PadString gave '%s'", s)
	}
	if s := PadString(0, 4, ""); s != "    " {
		t.Fatalf("PadString of an empty value gave '%s'", s)
	}
	// Oversized content is emitted whole rather than truncated.
	if s := PadString(1, 3, "ABCD"); s != " ABCD" {
		t.Fatalf("PadString of an oversized value gave '%s'", s)
	}
}

func TestRecordSequence(t *testing.T) {
	ps, err := NewPartialSeq(0, "NVKAAW", 6)
	if err != nil {
		t.Fatalf("%s", err)
	}
	rec := NewRecord("query", ps)
	s := rec.Sequence()
	if s.Name != "query" {
		t.Fatalf("Sequence name should be 'query' but we got '%s'", s.Name)
	}
	if got := string(residueBytes(s.Residues)); got != "NVKAAW" {
		t.Fatalf("Sequence residues should be 'NVKAAW' but we got '%s'", got)
	}
}

func residueBytes(rs []seq.Residue) []byte {
	bs := make([]byte, len(rs))
	for i, r := range rs {
		bs[i] = byte(r)
	}
	return bs
}
