package align

import (
	"fmt"
	"strings"
)

// InferCoordinates computes a coordinate map from a set of equal-length
// gapped sequence strings. The result has one row per input sequence.
// Each row is a monotone list of ungapped positions, and each adjacent
// pair of entries delimits a run of columns over which the gap pattern
// (which sequences have a residue) does not change. The first and last
// positions are always included, so every row has the same number of
// entries K, with K-1 runs covering the whole alignment.
//
// Gaps are '-' characters. All rows must have the same length.
func InferCoordinates(rows []string) ([][]int, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("Cannot infer coordinates of zero sequences.")
	}
	n := len(rows[0])
	for _, row := range rows[1:] {
		if len(row) != n {
			return nil, fmt.Errorf(
				"Cannot infer coordinates: sequence lengths %d and %d differ.",
				n, len(row))
		}
	}

	coords := make([][]int, len(rows))
	pos := make([]int, len(rows))
	prev := -1
	for c := 0; c < n; c++ {
		pat := 0
		for i, row := range rows {
			if row[c] != '-' {
				pat |= 1 << uint(i)
			}
		}
		if pat != prev {
			for i := range rows {
				coords[i] = append(coords[i], pos[i])
			}
			prev = pat
		}
		for i, row := range rows {
			if row[c] != '-' {
				pos[i]++
			}
		}
	}
	for i := range rows {
		coords[i] = append(coords[i], pos[i])
	}
	return coords, nil
}

// ExpandCoordinates is the inverse of InferCoordinates: given a
// coordinate map and the ungapped sequences, it reconstructs the gapped
// sequence strings. The coordinate rows may carry a constant offset
// (e.g. a start position within a parent sequence); only the deltas
// between adjacent entries are used, with ungapped[i] addressed
// relative to each row's first entry.
func ExpandCoordinates(coords [][]int, ungapped []string) ([]string, error) {
	if len(coords) != len(ungapped) {
		return nil, fmt.Errorf(
			"Cannot expand coordinates: %d rows but %d sequences.",
			len(coords), len(ungapped))
	}
	if len(coords) == 0 {
		return nil, fmt.Errorf("Cannot expand zero coordinate rows.")
	}
	k := len(coords[0])
	for _, row := range coords {
		if len(row) != k {
			return nil, fmt.Errorf(
				"Cannot expand coordinates: ragged rows (%d != %d).",
				len(row), k)
		}
	}

	gapped := make([]strings.Builder, len(coords))
	for seg := 0; seg+1 < k; seg++ {
		segLen := 0
		for i, row := range coords {
			d := row[seg+1] - row[seg]
			if d < 0 {
				return nil, fmt.Errorf(
					"Cannot expand coordinates: row %d decreases at %d.",
					i, seg)
			}
			if d > segLen {
				segLen = d
			}
		}
		for i, row := range coords {
			d := row[seg+1] - row[seg]
			switch d {
			case 0:
				gapped[i].WriteString(strings.Repeat("-", segLen))
			case segLen:
				start := row[seg] - row[0]
				if start+d > len(ungapped[i]) {
					return nil, fmt.Errorf(
						"Cannot expand coordinates: row %d overruns its "+
							"sequence (%d residues).", i, len(ungapped[i]))
				}
				gapped[i].WriteString(ungapped[i][start : start+d])
			default:
				return nil, fmt.Errorf(
					"Cannot expand coordinates: row %d advances %d in a "+
						"run of %d columns.", i, d, segLen)
			}
		}
	}

	out := make([]string, len(gapped))
	for i := range gapped {
		out[i] = gapped[i].String()
	}
	return out, nil
}
