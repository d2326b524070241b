package dialect

import (
	"fmt"
	"io"
	"strings"

	alignmentwriter "github.com/tmaklin/alignment-writer"
	"github.com/tmaklin/alignment-writer/align"
)

// version is reported in the @PG line's VN field.
const version = "1.0"

func init() {
	register(Dialect{
		Name:      "sam",
		Parser:    samParser{},
		Printer:   samPrinter{},
		Streaming: true,
	})
}

type samParser struct{}

// ConsumePreamble skips SAM's `@`-prefixed header block, leaving lr
// positioned at the first data line.
func (samParser) ConsumePreamble(lr *LineReader, tIndex Index) error {
	for {
		line, ok := lr.Next()
		if !ok {
			return nil
		}
		if !strings.HasPrefix(line, "@") {
			lr.Push(line)
			return nil
		}
	}
}

func (samParser) ParseLine(line string, lineNo int, qIndex, tIndex Index, nTargets int, insert Inserter, seen map[int]string) (int, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 3 {
		return 0, &alignmentwriter.ErrMalformedHeader{Detail: fmt.Sprintf("sam line %d: expected at least 3 fields", lineNo)}
	}

	qName := fields[0]
	qPos, ok := qIndex.Pos(qName)
	if !ok {
		return 0, &alignmentwriter.ErrUnknownName{Name: qName, Line: lineNo, Kind: "query"}
	}
	seen[qPos] = qName

	rName := fields[2]
	if rName == "*" {
		return 0, nil
	}

	tPos, ok := tIndex.Pos(rName)
	if !ok {
		return 0, &alignmentwriter.ErrUnknownName{Name: rName, Line: lineNo, Kind: "target"}
	}
	pos := uint64(qPos)*uint64(nTargets) + uint64(tPos)
	if err := insert(pos); err != nil {
		return 0, err
	}
	return 1, nil
}

type samPrinter struct{}

// Print writes a.TargetNames as `@SQ` lines and one `@PG` line ahead of the
// data rows, but only for blockIndex == 0: unpack.Stream calls Print once
// per block for a streaming dialect, and SAM's header block belongs once
// at the top of the file, not once per block.
func (samPrinter) Print(w io.Writer, a *align.Alignment, blockIndex int) error {
	if blockIndex == 0 {
		for _, t := range a.TargetNames {
			if _, err := fmt.Fprintf(w, "@SQ\tSN:%s\n", t); err != nil {
				return fmt.Errorf("sam: write @SQ: %w", err)
			}
		}
		if _, err := fmt.Fprintf(w, "@PG\tID:%s\tPN:alignment-writer\tVN:%s\n", a.Format, version); err != nil {
			return fmt.Errorf("sam: write @PG: %w", err)
		}
	}

	rows := GroupRows(a.Bitmap.Enumerate(), a.NTargets)
	for _, pos := range a.SortedQueryPositions() {
		name := a.QueryNames[pos]
		cols := rows[pos]
		if len(cols) == 0 {
			if _, err := fmt.Fprintf(w, "%s\t0\t*\t0\t255\t*\t*\t0\t0\t*\t*\n", name); err != nil {
				return fmt.Errorf("sam: write row %d: %w", pos, err)
			}
			continue
		}
		for _, col := range cols {
			if _, err := fmt.Fprintf(w, "%s\t0\t%s\t1\t255\t*\t*\t0\t0\t*\t*\n", name, a.TargetNames[col]); err != nil {
				return fmt.Errorf("sam: write row %d: %w", pos, err)
			}
		}
	}
	return nil
}
