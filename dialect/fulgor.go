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
		Name:      "fulgor",
		Parser:    fulgorParser{},
		Printer:   fulgorPrinter{},
		Streaming: true,
	})
}

type fulgorParser struct{}

func (fulgorParser) ConsumePreamble(*LineReader, Index) error { return nil }

func (fulgorParser) ParseLine(line string, lineNo int, qIndex, tIndex Index, nTargets int, insert Inserter, seen map[int]string) (int, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 2 {
		return 0, &alignmentwriter.ErrMalformedHeader{Detail: fmt.Sprintf("fulgor line %d: expected at least 2 fields", lineNo)}
	}

	qName := fields[0]
	qPos, ok := qIndex.Pos(qName)
	if !ok {
		return 0, &alignmentwriter.ErrUnknownName{Name: qName, Line: lineNo, Kind: "query"}
	}
	seen[qPos] = qName

	// fields[1] is the advertised hit count; the tail is authoritative
	// (spec §9), so the field is skipped without being parsed.

	nHits := 0
	for _, f := range fields[2:] {
		if f == "" {
			continue
		}
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

type fulgorPrinter struct{}

func (fulgorPrinter) Print(w io.Writer, a *align.Alignment, blockIndex int) error {
	rows := GroupRows(a.Bitmap.Enumerate(), a.NTargets)
	for _, pos := range a.SortedQueryPositions() {
		cols := rows[pos]
		var sb strings.Builder
		sb.WriteString(a.QueryNames[pos])
		sb.WriteByte('\t')
		sb.WriteString(strconv.Itoa(len(cols)))
		for _, col := range cols {
			sb.WriteByte('\t')
			sb.WriteString(strconv.Itoa(col))
		}
		sb.WriteByte('\n')
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return fmt.Errorf("fulgor: write row %d: %w", pos, err)
		}
	}
	return nil
}
