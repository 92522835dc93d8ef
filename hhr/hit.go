package hhr

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Width of the name column in the hit summary table. hhsuite writes
// each row as '%3i %-30.30s' followed by the numeric columns.
const hitNameWidth = 30

// parseHit parses one row of the hit summary table. The line must
// already be trimmed of surrounding whitespace, and its row number is
// checked against num, the 1-based count of rows seen so far.
//
// The row mixes one variable-width field (the rank) with a fixed-width
// name field that may itself contain spaces and parentheses, so the
// name is taken by width and only the numeric tail is split on
// whitespace.
func (r *Reader) parseHit(line []byte, num int) (Hit, error) {
	hit := Hit{}

	numRest := bytes.SplitN(line, []byte{' '}, 2)
	if len(numRest) != 2 {
		return hit, r.errf("Cannot parse hit '%s'.", str(line))
	}
	n, err := strconv.Atoi(str(numRest[0]))
	if err != nil {
		return hit, r.errf("Cannot parse hit number '%s': %s",
			str(numRest[0]), err)
	}
	if n != num {
		return hit, r.errf("Hit number %d, expected %d.", n, num)
	}
	hit.Num = n

	rest := numRest[1]
	if len(rest) <= hitNameWidth {
		return hit, r.errf("Hit '%s' is missing its score columns.", str(line))
	}
	hit.Name = str(rest[:hitNameWidth])

	// The template range is written as '%4i-%-4i(%i)', so a 4-digit
	// template end abuts the parenthesized length with no space in
	// between (e.g. '100-1024(1138)'). '(' has to delimit columns too.
	delim := func(c rune) bool {
		return unicode.IsSpace(c) || c == '('
	}
	fields := strings.FieldsFunc(string(rest[hitNameWidth:]), delim)
	if len(fields) != 9 {
		return hit, r.errf("Hit '%s' has %d score columns, expected 9.",
			str(line), len(fields))
	}

	if hit.Prob, err = strconv.ParseFloat(fields[0], 64); err != nil {
		return hit, r.errf("Cannot parse hit probability '%s': %s",
			fields[0], err)
	}
	hit.Prob /= 100.0

	if hit.EValue, err = strconv.ParseFloat(fields[1], 64); err != nil {
		return hit, r.errf("Cannot parse hit E-value '%s': %s", fields[1], err)
	}
	if hit.PValue, err = strconv.ParseFloat(fields[2], 64); err != nil {
		return hit, r.errf("Cannot parse hit P-value '%s': %s", fields[2], err)
	}
	if hit.ViterbiScore, err = strconv.ParseFloat(fields[3], 64); err != nil {
		return hit, r.errf("Cannot parse hit score '%s': %s", fields[3], err)
	}
	if hit.SSScore, err = strconv.ParseFloat(fields[4], 64); err != nil {
		return hit, r.errf("Cannot parse hit SS score '%s': %s",
			fields[4], err)
	}
	if hit.NumAlignedCols, err = strconv.Atoi(fields[5]); err != nil {
		return hit, r.errf("Cannot parse hit columns '%s': %s", fields[5], err)
	}

	hit.QueryStart, hit.QueryEnd, err = parseRange(fields[6])
	if err != nil {
		return hit, r.errf("Cannot parse hit query range: %s", err)
	}
	hit.TemplateStart, hit.TemplateEnd, err = parseRange(fields[7])
	if err != nil {
		return hit, r.errf("Cannot parse hit template range: %s", err)
	}

	// The '(' was consumed as a delimiter, leaving e.g. '1138)'.
	last := fields[8]
	if !strings.HasSuffix(last, ")") {
		return hit, r.errf("Cannot parse hit template columns '%s'.", last)
	}
	hit.NumTemplateCols, err = strconv.Atoi(strings.TrimSuffix(last, ")"))
	if err != nil {
		return hit, r.errf("Cannot parse hit template columns '%s': %s",
			last, err)
	}
	return hit, nil
}

// parseRange parses a 1-based residue range of the form '{start}-{end}'.
func parseRange(s string) (start, end int, err error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("Expected a range, got '%s'.", s)
	}
	if start, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, err
	}
	if end, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// parseParen parses a parenthesized integer like '(45)'.
func parseParen(s string) (int, error) {
	if !strings.HasPrefix(s, "(") || !strings.HasSuffix(s, ")") {
		return 0, fmt.Errorf("Expected a parenthesized length, got '%s'.", s)
	}
	return strconv.Atoi(s[1 : len(s)-1])
}
