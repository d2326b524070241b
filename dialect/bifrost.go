package dialect

import (
	"fmt"
	"io"
	"strings"

	"github.com/bits-and-blooms/bitset"

	alignmentwriter "github.com/tmaklin/alignment-writer"
	"github.com/tmaklin/alignment-writer/align"
)

func init() {
	register(Dialect{
		Name:   "bifrost",
		Parser: bifrostParser{},
		Printer: bifrostPrinter{},
		// bifrost prints a dense matrix with a target-column preamble; it
		// needs every query's row known up front, so streaming decode
		// falls back to full decode for this dialect (spec §4.F).
		Streaming: false,
	})
}

type bifrostParser struct{}

// ConsumePreamble reads bifrost's one preamble line (query_name followed
// by target names in column order) and validates it against tIndex. A
// mismatch is an UnknownName failure, implementing the "strong
// implementation" the design notes call for (spec §9).
func (bifrostParser) ConsumePreamble(lr *LineReader, tIndex Index) error {
	line, ok := lr.Next()
	if !ok {
		return &alignmentwriter.ErrTruncated{Detail: "bifrost preamble"}
	}
	fields := strings.Split(line, "\t")
	if len(fields) < 1 {
		return &alignmentwriter.ErrMalformedHeader{Detail: "bifrost preamble: no fields"}
	}
	for i, name := range fields[1:] {
		pos, ok := tIndex.Pos(name)
		if !ok || pos != i {
			return &alignmentwriter.ErrUnknownName{Name: name, Line: 1, Kind: "target"}
		}
	}
	return nil
}

func (bifrostParser) ParseLine(line string, lineNo int, qIndex, tIndex Index, nTargets int, insert Inserter, seen map[int]string) (int, error) {
	fields := strings.Split(line, "\t")
	if len(fields) == 0 {
		return 0, nil
	}

	qName := fields[0]
	qPos, ok := qIndex.Pos(qName)
	if !ok {
		return 0, &alignmentwriter.ErrUnknownName{Name: qName, Line: lineNo, Kind: "query"}
	}
	seen[qPos] = qName

	nHits := 0
	flags := fields[1:]
	for col := 0; col < nTargets && col < len(flags); col++ {
		if flags[col] != "1" {
			continue
		}
		pos := uint64(qPos)*uint64(nTargets) + uint64(col)
		if err := insert(pos); err != nil {
			return nHits, err
		}
		nHits++
	}
	return nHits, nil
}

type bifrostPrinter struct{}

func (bifrostPrinter) Print(w io.Writer, a *align.Alignment, blockIndex int) error {
	var header strings.Builder
	header.WriteString("query_name")
	for _, t := range a.TargetNames {
		header.WriteByte('\t')
		header.WriteString(t)
	}
	header.WriteByte('\n')
	if _, err := io.WriteString(w, header.String()); err != nil {
		return fmt.Errorf("bifrost: write header: %w", err)
	}

	rows := GroupRows(a.Bitmap.Enumerate(), a.NTargets)
	for _, pos := range a.SortedQueryPositions() {
		bs := bitset.New(uint(a.NTargets))
		for _, col := range rows[pos] {
			bs.Set(uint(col))
		}

		var sb strings.Builder
		sb.WriteString(a.QueryNames[pos])
		for j := 0; j < a.NTargets; j++ {
			sb.WriteByte('\t')
			if bs.Test(uint(j)) {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
		sb.WriteByte('\n')
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return fmt.Errorf("bifrost: write row %d: %w", pos, err)
		}
	}
	return nil
}
