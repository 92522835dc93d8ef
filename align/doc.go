/*
Package align provides the data structures produced by parsing pairwise
alignment output: sequences anchored at an offset within a longer parent
sequence, records carrying per-residue annotations, and pairwise
alignments with explicit gapped/ungapped coordinate maps.

Coordinates follow the convention used by hhsuite output: a 2xK matrix
where row 0 is the target, row 1 is the query, and each adjacent pair of
columns delimits a run in which the gap pattern is constant.
*/
package align
