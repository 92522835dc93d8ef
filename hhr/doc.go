/*
Package hhr provides routines for reading (but not writing) hhr files,
which are the output produced by hhsuite's hhsearch and hhblits
programs.

The file header (query metadata and the hit summary table) is read
eagerly when a Reader is created. The alignment bodies are read lazily,
one per call to Read, since a single hhr file can carry hundreds of
alignments and each one is wrapped over many physical blocks.

The alignment-body format is not documented by hhsuite and this package
reverse engineers it from real output; treat the per-residue annotation
handling as experimental.
*/
package hhr
