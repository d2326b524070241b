package dialect

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	alignmentwriter "github.com/tmaklin/alignment-writer"
	"github.com/tmaklin/alignment-writer/align"
)

func init() {
	register(Dialect{
		Name:      "themisto",
		Parser:    themistoParser{},
		Printer:   themistoPrinter{},
		Streaming: true,
	})
}

type themistoParser struct{}

func (themistoParser) ConsumePreamble(*LineReader, Index) error { return nil }

func (themistoParser) ParseLine(line string, lineNo int, qIndex, tIndex Index, nTargets int, insert Inserter, seen map[int]string) (int, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return 0, nil
	}

	qPos, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, &alignmentwriter.ErrUnknownName{Name: fields[0], Line: lineNo, Kind: "query"}
	}
	qName, ok := qIndex.Name(qPos)
	if !ok {
		return 0, &alignmentwriter.ErrUnknownName{Name: fields[0], Line: lineNo, Kind: "query"}
	}
	seen[qPos] = qName

	nHits := 0
	for _, f := range fields[1:] {
		tPos, err := strconv.Atoi(f)
		if err != nil {
			return nHits, &alignmentwriter.ErrUnknownName{Name: f, Line: lineNo, Kind: "target"}
		}
		if _, ok := tIndex.Name(tPos); !ok {
			return nHits, &alignmentwriter.ErrUnknownName{Name: f, Line: lineNo, Kind: "target"}
		}
		pos := uint64(qPos)*uint64(nTargets) + uint64(tPos)
		if err := insert(pos); err != nil {
			return nHits, err
		}
		nHits++
	}
	return nHits, nil
}

type themistoPrinter struct{}

// Print writes one line per query index in [0, a.NQueries), per spec §4.B:
// a query with no recorded hits still gets a newline-terminated, empty
// row, rather than being skipped because it never made it into any
// block's query annotations.
func (themistoPrinter) Print(w io.Writer, a *align.Alignment, blockIndex int) error {
	rows := GroupRows(a.Bitmap.Enumerate(), a.NTargets)
	for pos := 0; pos < a.NQueries; pos++ {
		var sb strings.Builder
		sb.WriteString(strconv.Itoa(pos))
		for _, col := range rows[pos] {
			sb.WriteByte(' ')
			sb.WriteString(strconv.Itoa(col))
		}
		sb.WriteString(" \n")
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return fmt.Errorf("themisto: write row %d: %w", pos, err)
		}
	}
	return nil
}
