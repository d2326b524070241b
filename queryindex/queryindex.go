// Package queryindex builds a query name→position index from a FASTA or
// FASTQ read file (component L), the external collaborator spec.md §6
// calls a "mapping builder": the packer's dialect parsers consult it
// through the shared dialect.Index contract, never parsing reads
// themselves. Unpack-time printers take query names from block headers.
package queryindex

import (
	"bufio"
	"fmt"
	"io"

	"github.com/tmaklin/alignment-writer/dialect"
)

// FromReads scans r as either FASTA (">") or FASTQ ("@") records,
// determined by the first non-blank line, and returns a dialect.Index
// mapping each read name, in order of appearance, to its position. The
// name is the header line up to the first whitespace, with the leading
// marker stripped.
//
// FASTQ quality strings can themselves start with '@', so records are
// counted positionally (one header every 4 lines) rather than by
// re-testing every line's leading byte the way FASTA's arbitrarily-long
// sequence blocks allow.
func FromReads(r io.Reader) (*dialect.MapIndex, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 64*1024*1024)

	var names []string
	fastq := false
	determined := false
	lineInRecord := 0

	for sc.Scan() {
		line := sc.Text()
		if !determined {
			if len(line) == 0 {
				continue
			}
			determined = true
			fastq = line[0] == '@'
		}

		switch {
		case fastq:
			if lineInRecord == 0 {
				names = append(names, headerName(line[1:]))
			}
			lineInRecord = (lineInRecord + 1) % 4
		case len(line) > 0 && line[0] == '>':
			names = append(names, headerName(line[1:]))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("queryindex: scan reads: %w", err)
	}
	return dialect.NewMapIndex(names), nil
}

func headerName(rest string) string {
	for i, c := range rest {
		if c == ' ' || c == '\t' {
			return rest[:i]
		}
	}
	return rest
}
