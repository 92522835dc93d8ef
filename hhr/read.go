package hhr

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/TuftsBCB/seq"

	"github.com/TuftsBCB/hhsuite/align"
)

// The exact column header of the hit summary table. If this row is
// missing or different, the file is either truncated or not hhr.
var hitTableHeader = []string{
	"No", "Hit", "Prob", "E-value", "P-value", "Score",
	"SS", "Cols", "Query", "HMM", "Template", "HMM",
}

// A Reader reads the alignments of a single hhr file, one per call
// to Read.
//
// The header is consumed when the Reader is created, so Meta and Hits
// are available immediately. Alignment bodies are then read lazily:
// each body is wrapped over several physical blocks, and the parser
// carries its accumulated state on the Reader between calls so that
// the marker line opening the next body can finish the previous one.
//
// A Reader is a single-pass consumer of its input and is not safe for
// use from multiple goroutines.
type Reader struct {
	// Meta holds the header block of the file.
	Meta Metadata

	// Hits holds the parsed hit summary table. The alignments yielded
	// by Read appear in the same order, one per hit.
	Hits []Hit

	src     io.Reader
	buf     *bufio.Reader
	line    int
	num     int
	counter int
	done    bool
	closed  bool
}

// NewReader creates a Reader over hhr-formatted input, consuming the
// file header. If r is an io.Closer, it is closed when the last
// alignment has been read, or when Close is called, whichever comes
// first.
func NewReader(r io.Reader) (*Reader, error) {
	rd := &Reader{src: r, buf: bufio.NewReader(r)}
	if err := rd.readHeader(); err != nil {
		return nil, err
	}
	return rd, nil
}

// readLine reads the next line, dropping the newline and any trailing
// whitespace. Leading whitespace is preserved: the alignment bodies
// distinguish line kinds by indentation (a column-score line starts
// with a space). Returns io.EOF only when no bytes remain.
func (r *Reader) readLine() ([]byte, error) {
	line, err := r.buf.ReadBytes('\n')
	if err == io.EOF && len(line) == 0 {
		return nil, io.EOF
	}
	if err != nil && err != io.EOF {
		return nil, err
	}
	r.line++
	return bytes.TrimRight(line, " \t\r\n"), nil
}

func (r *Reader) errf(format string, v ...interface{}) error {
	return fmt.Errorf("Error on line %d: %s",
		r.line, fmt.Sprintf(format, v...))
}

// readHeader consumes the metadata block, the hit table header row and
// the hit summary rows. The number of summary rows is the number of
// alignments the body must contain.
func (r *Reader) readHeader() error {
	for {
		line, err := r.readLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		s := string(bytes.TrimSpace(line))
		if len(s) == 0 {
			break
		}
		key, value := splitFirst(s)
		switch key {
		case "Query":
			r.Meta.Query = value
		case "Match_columns":
			n, err := strconv.Atoi(value)
			if err != nil {
				return r.errf("Cannot parse Match_columns '%s': %s",
					value, err)
			}
			r.Meta.MatchColumns = n
		case "No_of_seqs":
			parts := strings.SplitN(value, " out of ", 2)
			if len(parts) != 2 {
				return r.errf("Cannot parse No_of_seqs '%s'.", value)
			}
			used, err := strconv.Atoi(strings.TrimSpace(parts[0]))
			if err != nil {
				return r.errf("Cannot parse No_of_seqs '%s': %s", value, err)
			}
			total, err := strconv.Atoi(strings.TrimSpace(parts[1]))
			if err != nil {
				return r.errf("Cannot parse No_of_seqs '%s': %s", value, err)
			}
			r.Meta.NumSeqs = NumSeqs{Used: used, Total: total}
		case "Neff", "Template_Neff":
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return r.errf("Cannot parse %s '%s': %s", key, value, err)
			}
			if key == "Neff" {
				r.Meta.Neff = seq.Prob(f)
			} else {
				r.Meta.TemplateNeff = seq.Prob(f)
			}
		case "Searched_HMMs":
			n, err := strconv.Atoi(value)
			if err != nil {
				return r.errf("Cannot parse Searched_HMMs '%s': %s",
					value, err)
			}
			r.Meta.SearchedHMMs = n
		case "Date":
			r.Meta.Rundate = value
		case "Command":
			r.Meta.CommandLine = value
		default:
			return r.errf("Unknown key '%s'.", key)
		}
	}

	line, err := r.readLine()
	if err == io.EOF {
		return fmt.Errorf("Truncated file.")
	}
	if err != nil {
		return err
	}
	if !tokensEqual(strings.Fields(string(line)), hitTableHeader) {
		return r.errf("Expected the hit table header, got '%s'.",
			snippet(string(bytes.TrimSpace(line))))
	}

	for {
		line, err := r.readLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		trimmed := bytes.TrimSpace(line)
		if len(trimmed) == 0 {
			break
		}
		hit, err := r.parseHit(trimmed, len(r.Hits)+1)
		if err != nil {
			return err
		}
		r.Hits = append(r.Hits, hit)
	}
	r.num = len(r.Hits)
	r.counter = 0
	return nil
}

// accum holds one alignment body's accumulated state. A fresh accum is
// used per body; the hhr format wraps each body over several physical
// blocks, and every field here grows a little with each block.
type accum struct {
	hmmName     string
	hmmDesc     string
	annotations map[string]float64

	targetName   string
	queryStart   int // -1 until the first query sequence line
	targetStart  int // -1 until the first template sequence line
	queryLength  int
	targetLength int

	querySeq       string
	queryConsensus string
	querySSPred    string

	targetSeq       string
	targetConsensus string
	targetSSPred    string
	targetSSDssp    string

	colScore   string
	confidence string
}

func newAccum() *accum {
	return &accum{
		queryStart:  -1,
		targetStart: -1,
		annotations: map[string]float64{},
	}
}

// Read returns the next alignment in the file, or io.EOF once all of
// the alignments declared by the hit summary table have been read.
//
// An alignment body is finished either by the 'No N' marker that opens
// the next body or by the end of the stream; if the stream ends before
// the declared number of alignments have been produced, Read fails
// with a count mismatch.
func (r *Reader) Read() (*align.Alignment, error) {
	if r.done {
		return nil, io.EOF
	}
	acc := newAccum()
	for {
		line, err := r.readLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		s := string(line)
		switch {
		case len(s) == 0:
			// Blank lines separate the wrapped blocks.

		case strings.HasPrefix(s, ">"):
			acc.hmmName, acc.hmmDesc = splitFirst(s[1:])
			if err := r.readHitStats(acc); err != nil {
				return nil, err
			}

		case s == "Done!":
			if _, err := r.readLine(); err != io.EOF {
				if err != nil {
					return nil, err
				}
				return nil, r.errf(
					"Found additional data after 'Done!'; corrupt file?")
			}

		case strings.HasPrefix(s, " "):
			acc.colScore += strings.TrimSpace(s)

		case strings.HasPrefix(s, "No "):
			first, err := r.readMarker(s)
			if err != nil {
				return nil, err
			}
			if !first {
				aln, err := r.finish(acc)
				if err != nil {
					return nil, err
				}
				if aln != nil {
					return aln, nil
				}
				// The finished body was empty. Keep reading rather
				// than ending iteration with alignments outstanding.
				acc = newAccum()
			}

		case strings.HasPrefix(s, "Confidence"):
			_, value := splitFirst(s)
			acc.confidence += value

		case strings.HasPrefix(s, "Q ss_pred "):
			fields := strings.Fields(s)
			acc.querySSPred += fields[len(fields)-1]

		case strings.HasPrefix(s, "Q Consensus "):
			consensus, _, _, err := r.parseSeqLine(s)
			if err != nil {
				return nil, err
			}
			acc.queryConsensus += consensus

		case strings.HasPrefix(s, "Q "):
			if err := r.readQuerySeq(s, acc); err != nil {
				return nil, err
			}

		case strings.HasPrefix(s, "T ss_pred "):
			fields := strings.Fields(s)
			acc.targetSSPred += fields[len(fields)-1]

		case strings.HasPrefix(s, "T ss_dssp "):
			fields := strings.Fields(s)
			acc.targetSSDssp += fields[len(fields)-1]

		case strings.HasPrefix(s, "T Consensus "):
			consensus, _, _, err := r.parseSeqLine(s)
			if err != nil {
				return nil, err
			}
			acc.targetConsensus += consensus

		case strings.HasPrefix(s, "T "):
			if err := r.readTargetSeq(s, acc); err != nil {
				return nil, err
			}

		default:
			return nil, r.errf("Failed to parse line '%s...'", snippet(s))
		}
	}

	// End of stream: finish whatever body was in progress.
	aln, err := r.finish(acc)
	if err != nil {
		return nil, err
	}
	if r.counter == r.num {
		r.done = true
		if err := r.Close(); err != nil {
			return nil, err
		}
	}
	if aln == nil {
		if r.num > 0 {
			return nil, fmt.Errorf("Expected %d alignments, found %d",
				r.num, r.counter)
		}
		r.done = true
		return nil, io.EOF
	}
	return aln, nil
}

// ReadAll reads every remaining alignment in the file.
func (r *Reader) ReadAll() ([]*align.Alignment, error) {
	alns := make([]*align.Alignment, 0, r.num)
	for {
		aln, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		alns = append(alns, aln)
	}
	return alns, nil
}

// Close releases the underlying source if it is an io.Closer. It is
// called automatically once the last declared alignment has been read;
// closing an already-closed Reader is a no-op, and any subsequent Read
// reports io.EOF.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.done = true
	if c, ok := r.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// readMarker handles a 'No N' line. N is checked against the running
// 1-based counter after incrementing it, and against the total declared
// by the hit summary table. Reports whether this was the file's first
// marker, i.e. whether there is no previous body to finish.
func (r *Reader) readMarker(s string) (first bool, err error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return false, r.errf("Cannot parse alignment marker '%s'.", s)
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		return false, r.errf("Cannot parse alignment marker '%s': %s", s, err)
	}
	first = r.counter == 0
	r.counter++
	if n != r.counter {
		return false, r.errf("Alignment marker %d, expected %d.", n, r.counter)
	}
	if r.counter > r.num {
		return false, fmt.Errorf("Expected %d alignments, found %d",
			r.num, r.counter)
	}
	return first, nil
}

// readHitStats reads the 'key=value' line that follows a '>' hit
// header. All values are floats. Aligned_cols is skipped since it can
// be derived from the coordinates; the Identities percentage is stored
// without its '%' suffix.
func (r *Reader) readHitStats(acc *accum) error {
	line, err := r.readLine()
	if err == io.EOF {
		return fmt.Errorf("Truncated file: no scores after hit '%s'.",
			acc.hmmName)
	}
	if err != nil {
		return err
	}
	acc.annotations = map[string]float64{}
	for _, field := range strings.Fields(string(line)) {
		kv := strings.SplitN(field, "=", 2)
		if len(kv) != 2 {
			return r.errf("Cannot parse hit score '%s'.", field)
		}
		key, value := kv[0], kv[1]
		if key == "Aligned_cols" {
			continue
		}
		if key == "Identities" {
			if !strings.HasSuffix(value, "%") {
				return r.errf(
					"Identities value '%s' is missing its '%%' suffix.",
					value)
			}
			value = strings.TrimSuffix(value, "%")
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return r.errf("Cannot parse hit score '%s': %s", field, err)
		}
		acc.annotations[key] = f
	}
	return nil
}

// parseSeqLine splits one sequence or consensus line of an alignment
// block. The layout is: two leading labels, a 1-based start, the
// (gapped) residue text, a 1-based end and the parenthesized total
// length of the parent sequence. The start is returned 0-based.
func (r *Reader) parseSeqLine(s string) (text string, start, total int, err error) {
	fields := strings.Fields(s)
	if len(fields) != 6 {
		return "", 0, 0, r.errf("Failed to parse line '%s...'", snippet(s))
	}
	start, err = strconv.Atoi(fields[2])
	if err != nil {
		return "", 0, 0, r.errf("Cannot parse start '%s': %s", fields[2], err)
	}
	if _, err = strconv.Atoi(fields[4]); err != nil {
		return "", 0, 0, r.errf("Cannot parse end '%s': %s", fields[4], err)
	}
	total, err = parseParen(fields[5])
	if err != nil {
		return "", 0, 0, r.errf("Cannot parse total length: %s", err)
	}
	return fields[3], start - 1, total, nil
}

func (r *Reader) readQuerySeq(s string, acc *accum) error {
	fields := strings.Fields(s)
	if len(fields) != 6 {
		return r.errf("Failed to parse line '%s...'", snippet(s))
	}
	if !strings.HasPrefix(r.Meta.Query, fields[1]) {
		return r.errf("Query name '%s' does not match header query '%s'.",
			fields[1], r.Meta.Query)
	}
	text, start, total, err := r.parseSeqLine(s)
	if err != nil {
		return err
	}
	if total != r.Meta.MatchColumns {
		return r.errf("Query length %d does not match Match_columns %d.",
			total, r.Meta.MatchColumns)
	}
	acc.queryLength = total
	if acc.queryStart < 0 {
		acc.queryStart = start
	}
	acc.querySeq += text
	return nil
}

func (r *Reader) readTargetSeq(s string, acc *accum) error {
	fields := strings.Fields(s)
	if len(fields) != 6 {
		return r.errf("Failed to parse line '%s...'", snippet(s))
	}
	text, start, total, err := r.parseSeqLine(s)
	if err != nil {
		return err
	}
	acc.targetName = fields[1]
	acc.targetLength = total
	if acc.targetStart < 0 {
		acc.targetStart = start
	}
	acc.targetSeq += text
	return nil
}

// finish builds the alignment from an accumulated body. A body whose
// sequences are empty yields (nil, nil): the slot produced no
// alignment.
func (r *Reader) finish(acc *accum) (*align.Alignment, error) {
	n := len(acc.targetSeq)
	if len(acc.querySeq) != n {
		return nil, r.errf(
			"Query alignment has %d columns but template has %d.",
			len(acc.querySeq), n)
	}
	if n == 0 {
		return nil, nil
	}

	coords, err := align.InferCoordinates([]string{acc.targetSeq, acc.querySeq})
	if err != nil {
		return nil, r.errf("%s", err)
	}
	for k := range coords[0] {
		coords[0][k] += acc.targetStart
	}
	for k := range coords[1] {
		coords[1][k] += acc.queryStart
	}

	qseq, err := align.NewPartialSeq(acc.queryStart,
		ungap(acc.querySeq), acc.queryLength)
	if err != nil {
		return nil, r.errf("Bad query window: %s", err)
	}
	query := align.NewRecord(r.Meta.Query, qseq)
	query.LetterAnnotations["Consensus"] = align.PadString(
		acc.queryStart, acc.queryLength, ungap(acc.queryConsensus))
	query.LetterAnnotations["ss_pred"] = align.PadString(
		acc.queryStart, acc.queryLength, ungap(acc.querySSPred))

	tseq, err := align.NewPartialSeq(acc.targetStart,
		ungap(acc.targetSeq), acc.targetLength)
	if err != nil {
		return nil, r.errf("Bad template window: %s", err)
	}
	target := align.NewRecord(acc.targetName, tseq)
	target.Annotations["hmm_name"] = acc.hmmName
	target.Annotations["hmm_description"] = acc.hmmDesc
	target.LetterAnnotations["Consensus"] = align.PadString(
		acc.targetStart, acc.targetLength, ungap(acc.targetConsensus))
	target.LetterAnnotations["ss_pred"] = align.PadString(
		acc.targetStart, acc.targetLength, ungap(acc.targetSSPred))
	target.LetterAnnotations["ss_dssp"] = align.PadString(
		acc.targetStart, acc.targetLength, ungap(acc.targetSSDssp))
	target.LetterAnnotations["Confidence"] = align.PadString(
		acc.targetStart, acc.targetLength,
		strings.ReplaceAll(acc.confidence, " ", ""))

	aln := align.NewAlignment(target, query, coords)
	aln.Annotations = acc.annotations
	aln.ColumnAnnotations["column score"] = acc.colScore
	return aln, nil
}

// ungap strips alignment gaps from a fragment of sequence, consensus
// or secondary structure text.
func ungap(s string) string {
	return strings.ReplaceAll(s, "-", "")
}

// splitFirst splits off the first whitespace-delimited token. The
// remainder has surrounding whitespace trimmed but keeps any internal
// spacing (confidence values have spaces at unaligned columns).
func splitFirst(s string) (string, string) {
	s = strings.TrimSpace(s)
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i+1:])
}

func tokensEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// snippet truncates a line for use in an error message.
func snippet(s string) string {
	if len(s) > 30 {
		return s[:30]
	}
	return s
}

func str(bs []byte) string {
	return string(bytes.TrimSpace(bs))
}
