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
		Name:      "metagraph",
		Parser:    metagraphParser{},
		Printer:   metagraphPrinter{},
		Streaming: true,
	})
}

type metagraphParser struct{}

func (metagraphParser) ConsumePreamble(*LineReader, Index) error { return nil }

func (metagraphParser) ParseLine(line string, lineNo int, qIndex, tIndex Index, nTargets int, insert Inserter, seen map[int]string) (int, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 2 {
		return 0, &alignmentwriter.ErrMalformedHeader{Detail: fmt.Sprintf("metagraph line %d: expected at least 2 fields", lineNo)}
	}

	qName := fields[1]
	qPos, ok := qIndex.Pos(qName)
	if !ok {
		return 0, &alignmentwriter.ErrUnknownName{Name: qName, Line: lineNo, Kind: "query"}
	}
	seen[qPos] = qName

	nHits := 0
	if len(fields) >= 3 && fields[2] != "" {
		for _, tName := range strings.Split(fields[2], ":") {
			tPos, ok := tIndex.Pos(tName)
			if !ok {
				return nHits, &alignmentwriter.ErrUnknownName{Name: tName, Line: lineNo, Kind: "target"}
			}
			pos := uint64(qPos)*uint64(nTargets) + uint64(tPos)
			if err := insert(pos); err != nil {
				return nHits, err
			}
			nHits++
		}
	}
	return nHits, nil
}

type metagraphPrinter struct{}

func (metagraphPrinter) Print(w io.Writer, a *align.Alignment, blockIndex int) error {
	rows := GroupRows(a.Bitmap.Enumerate(), a.NTargets)
	for _, pos := range a.SortedQueryPositions() {
		cols := rows[pos]
		names := make([]string, len(cols))
		for i, col := range cols {
			names[i] = a.TargetNames[col]
		}
		line := strconv.Itoa(pos) + "\t" + a.QueryNames[pos] + "\t" + strings.Join(names, ":") + "\n"
		if _, err := io.WriteString(w, line); err != nil {
			return fmt.Errorf("metagraph: write row %d: %w", pos, err)
		}
	}
	return nil
}
