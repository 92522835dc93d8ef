package hhr

import (
	"io"
	"strings"
	"testing"
)

const miniMeta = `Query         testq
Match_columns 8
`

var miniHits = hitRow(1, "t1 description",
	"  99.9 1.2E-10 3.4E-15   80.1   0.0    8     1-8       1-8   (8)")

const miniBody = `
No 1
>t1 description
Probability=99.9 E-value=1.2e-10 Score=80.1 Aligned_cols=8 Identities=50% Similarity=0.8 Sum_probs=6.0

Q testq             1 NVKAAWGK    8 (8)
Q Consensus         1 nvkaawgk    8 (8)
                      ||||||||
T Consensus         1 nvkaawgk    8 (8)
T t1                1 NVKAAWGK    8 (8)
Confidence            89999998

Done!
`

// mini builds a one-hit hhr file around the given alignment body.
func mini(body string) string {
	return miniMeta + "\n" + testTableHeader + miniHits + body
}

func readOne(contents string) error {
	r, err := NewReader(strings.NewReader(contents))
	if err != nil {
		return err
	}
	_, err = r.ReadAll()
	return err
}

func wantErr(t *testing.T, err error, substr string) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected an error containing %q, got none.", substr)
	}
	if !strings.Contains(err.Error(), substr) {
		t.Fatalf("Expected an error containing %q, got: %s", substr, err)
	}
}

func TestSingleAlignment(t *testing.T) {
	r := newTestReader(t, mini(miniBody))
	aln, err := r.Read()
	if err != nil {
		t.Fatalf("%s", err)
	}
	if got := residues(aln.Query.Seq); got != "NVKAAWGK" {
		t.Fatalf("Bad query residues '%s'", got)
	}
	if aln.Target.Name != "t1" {
		t.Fatalf("Bad target name '%s'", aln.Target.Name)
	}
	if _, err := r.Read(); err != io.EOF {
		t.Fatalf("Expected io.EOF after the only alignment, got %v", err)
	}
}

// A search with no hits has an empty summary table and no alignment
// bodies; iteration ends immediately.
func TestNoHits(t *testing.T) {
	r := newTestReader(t, miniMeta+"\n"+testTableHeader+"\n")
	alns, err := r.ReadAll()
	if err != nil {
		t.Fatalf("%s", err)
	}
	if len(alns) != 0 {
		t.Fatalf("Expected no alignments but we got %d", len(alns))
	}
}

// A body whose first block has no sequence lines yields no alignment
// for that slot; the reader keeps consuming instead of ending
// iteration with alignments outstanding.
func TestEmptyBlockSkipped(t *testing.T) {
	hits := miniHits + hitRow(2, "t2 description",
		"  57.1    0.24 0.00011   34.3   0.0    8     1-8       1-8   (8)")
	body := `
No 1
>t1 description
Probability=99.9 E-value=1.2e-10 Score=80.1

No 2
>t2 description
Probability=57.1 E-value=0.24 Score=34.3 Identities=50% Similarity=0.8 Sum_probs=6.0

Q testq             1 NVKAAWGK    8 (8)
T t2                1 NVKAAWGK    8 (8)

Done!
`
	r := newTestReader(t, miniMeta+"\n"+testTableHeader+hits+body)
	aln, err := r.Read()
	if err != nil {
		t.Fatalf("%s", err)
	}
	if aln.Target.Name != "t2" {
		t.Fatalf("Expected the second block's alignment, got target '%s'",
			aln.Target.Name)
	}
	if _, err := r.Read(); err != io.EOF {
		t.Fatalf("Expected io.EOF after the only non-empty block, got %v", err)
	}
}

// A table declaring three hits over a body with only two blocks must
// yield both alignments and then fail.
func TestCountMismatch(t *testing.T) {
	threeHits := testHits + hitRow(3, "d3aaaA_ a third domain",
		"  40.0     1.2  0.0021   20.3   0.0   10    1-10      1-10  (60)")
	contents := testMeta + "\n" + testTableHeader + threeHits + testBody

	r := newTestReader(t, contents)
	if _, err := r.Read(); err != nil {
		t.Fatalf("%s", err)
	}
	if _, err := r.Read(); err != nil {
		t.Fatalf("%s", err)
	}
	_, err := r.Read()
	wantErr(t, err, "Expected 3 alignments, found 2")
}

func TestUnknownHeaderKey(t *testing.T) {
	_, err := NewReader(strings.NewReader(
		"Query testq\nFrobnicate 1\n" + "\n" + testTableHeader))
	wantErr(t, err, "Unknown key 'Frobnicate'")
}

func TestTruncatedHeader(t *testing.T) {
	_, err := NewReader(strings.NewReader(
		"Query testq\nMatch_columns 8\n"))
	wantErr(t, err, "Truncated file")
}

func TestBadTableHeader(t *testing.T) {
	_, err := NewReader(strings.NewReader(
		miniMeta + "\n" + " No Hit Prob Wrong Columns\n"))
	wantErr(t, err, "hit table header")
}

func TestBadHitRow(t *testing.T) {
	_, err := NewReader(strings.NewReader(
		miniMeta + "\n" + testTableHeader + hitRow(2, "t1 description",
			"  99.9 1.2E-10 3.4E-15   80.1   0.0    8     1-8       1-8   (8)")))
	wantErr(t, err, "Hit number 2, expected 1")
}

func TestIdentitiesMissingSuffix(t *testing.T) {
	body := strings.Replace(miniBody, "Identities=50%", "Identities=50", 1)
	wantErr(t, readOne(mini(body)), "Identities")
}

func TestDataAfterDone(t *testing.T) {
	body := strings.Replace(miniBody, "Done!\n", "Done!\ntrailing\n", 1)
	wantErr(t, readOne(mini(body)), "after 'Done!'")
}

func TestUnparsableLine(t *testing.T) {
	body := strings.Replace(miniBody, "Confidence            89999998",
		"XYZZY not an alignment line", 1)
	wantErr(t, readOne(mini(body)), "Failed to parse line")
}

func TestSequenceLengthMismatch(t *testing.T) {
	body := strings.Replace(miniBody,
		"T t1                1 NVKAAWGK    8 (8)",
		"T t1                1 NVKAAWG     7 (7)", 1)
	wantErr(t, readOne(mini(body)), "columns")
}

func TestMarkerOutOfOrder(t *testing.T) {
	body := strings.Replace(miniBody, "No 1", "No 2", 1)
	wantErr(t, readOne(mini(body)), "marker 2, expected 1")
}

func TestQueryNameMismatch(t *testing.T) {
	body := strings.Replace(miniBody,
		"Q testq             1 NVKAAWGK    8 (8)",
		"Q wrong             1 NVKAAWGK    8 (8)", 1)
	wantErr(t, readOne(mini(body)), "does not match header query")
}

func TestQueryLengthMismatch(t *testing.T) {
	body := strings.Replace(miniBody,
		"Q testq             1 NVKAAWGK    8 (8)",
		"Q testq             1 NVKAAWGK    8 (9)", 1)
	wantErr(t, readOne(mini(body)), "Match_columns")
}
