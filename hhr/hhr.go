package hhr

import (
	"github.com/TuftsBCB/seq"
)

// Metadata corresponds to the header block of an hhr file, up to the
// first blank line. Every key the header may carry is represented; an
// unrecognized key is a parse error, since it would mean the format
// has grown beyond what this package understands.
type Metadata struct {
	// The query name, verbatim, including any description text.
	Query string

	// Number of match columns in the query HMM. Every query sequence
	// line in the alignment bodies declares this same total length.
	MatchColumns int

	// How many sequences the query alignment was filtered down to,
	// out of how many were found. From the 'No_of_seqs' key, which
	// has the form '5 out of 200'.
	NumSeqs NumSeqs

	// Diversity of the query alignment and of the template alignments.
	Neff         seq.Prob
	TemplateNeff seq.Prob

	// Number of HMMs in the searched database.
	SearchedHMMs int

	// Date the search was run, e.g. 'Sat Nov 10 21:31:12 2012'.
	// From the 'Date' key.
	Rundate string

	// Command that was used to generate the file.
	CommandLine string
}

// NumSeqs is the used/total pair from the 'No_of_seqs' header key.
type NumSeqs struct {
	Used  int
	Total int
}

// A Hit is one row of the hit summary table. The table repeats, in
// fixed-width columns, the headline numbers of each alignment body
// that follows.
type Hit struct {
	// 1-based rank of the hit. Rows are numbered consecutively.
	Num int

	// The name column, trimmed. It holds the template name followed by
	// as much of its description as fits in the fixed-width field.
	Name string

	// Probability that the hit is homologous to the query, in [0, 1].
	Prob float64

	EValue       float64
	PValue       float64
	ViterbiScore float64
	SSScore      float64

	// Number of aligned (both-residue) columns.
	NumAlignedCols int

	// 1-based residue ranges covered by the alignment.
	QueryStart    int
	QueryEnd      int
	TemplateStart int
	TemplateEnd   int

	// Total number of match columns in the template HMM.
	NumTemplateCols int
}
