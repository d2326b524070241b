package dialect

import (
	"bytes"
	"strings"
	"testing"

	alignmentwriter "github.com/tmaklin/alignment-writer"
	"github.com/tmaklin/alignment-writer/align"
)

// parseAll drives a dialect's parser over in, inserting hits into a freshly
// constructed Alignment and returning it.
func parseAll(t *testing.T, d Dialect, in string, qIndex, tIndex Index, nQueries, nTargets int, targetNames []string) *align.Alignment {
	t.Helper()
	a, err := align.New(nQueries, nTargets, targetNames, d.Name)
	if err != nil {
		t.Fatalf("align.New failed: %v", err)
	}
	lr := NewLineReader(strings.NewReader(in))
	if err := d.Parser.ConsumePreamble(lr, tIndex); err != nil {
		t.Fatalf("ConsumePreamble failed: %v", err)
	}
	lineNo := 0
	for {
		line, ok := lr.Next()
		if !ok {
			break
		}
		lineNo++
		if _, err := d.Parser.ParseLine(line, lineNo, qIndex, tIndex, nTargets, func(pos uint64) error {
			return a.Bitmap.BulkInsert(pos)
		}, a.QueryNames); err != nil {
			t.Fatalf("ParseLine(%q) failed: %v", line, err)
		}
	}
	return a
}

// S1 — themisto round-trip.
func TestScenarioS1ThemistoRoundTrip(t *testing.T) {
	d, ok := ByName("themisto")
	if !ok {
		t.Fatal("themisto dialect not registered")
	}
	qIndex := NewMapIndex([]string{"0", "1"})
	tIndex := NewMapIndex([]string{"t0", "t1", "t2"})

	in := "0 0 2\n1\n"
	a := parseAll(t, d, in, qIndex, tIndex, 2, 3, []string{"t0", "t1", "t2"})

	card, _ := a.Bitmap.Cardinality()
	if card != 2 {
		t.Fatalf("got cardinality %d, want 2", card)
	}

	var buf bytes.Buffer
	if err := d.Printer.Print(&buf, a, 0); err != nil {
		t.Fatalf("Print failed: %v", err)
	}
	want := "0 0 2 \n1 \n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

// S2 — fulgor with unknown name.
func TestScenarioS2FulgorUnknownName(t *testing.T) {
	d, ok := ByName("fulgor")
	if !ok {
		t.Fatal("fulgor dialect not registered")
	}
	qIndex := NewMapIndex([]string{"readA"})
	tIndex := NewMapIndex([]string{"t0", "t1"})

	a, err := align.New(1, 2, []string{"t0", "t1"}, "fulgor")
	if err != nil {
		t.Fatalf("align.New failed: %v", err)
	}
	_, err = d.Parser.ParseLine("readX\t1\t0", 1, qIndex, tIndex, 2, func(pos uint64) error {
		return a.Bitmap.BulkInsert(pos)
	}, a.QueryNames)

	var une *alignmentwriter.ErrUnknownName
	if err == nil {
		t.Fatal("expected ErrUnknownName, got nil")
	}
	if !asUnknownName(err, &une) {
		t.Fatalf("got %v, want ErrUnknownName", err)
	}
	if une.Name != "readX" || une.Line != 1 {
		t.Fatalf("got %+v, want Name=readX Line=1", une)
	}
}

func asUnknownName(err error, target **alignmentwriter.ErrUnknownName) bool {
	if e, ok := err.(*alignmentwriter.ErrUnknownName); ok {
		*target = e
		return true
	}
	return false
}

// S3 — bifrost preamble, then pack+unpack as themisto.
func TestScenarioS3BifrostPreambleThenThemisto(t *testing.T) {
	bf, ok := ByName("bifrost")
	if !ok {
		t.Fatal("bifrost dialect not registered")
	}
	qIndex := NewMapIndex([]string{"readA", "readB"})
	tIndex := NewMapIndex([]string{"t0", "t1", "t2"})

	in := "query_name\tt0\tt1\tt2\nreadA\t1\t0\t1\nreadB\t0\t0\t0\n"
	a := parseAll(t, bf, in, qIndex, tIndex, 2, 3, []string{"t0", "t1", "t2"})

	th, ok := ByName("themisto")
	if !ok {
		t.Fatal("themisto dialect not registered")
	}
	a.Format = "themisto"
	var buf bytes.Buffer
	if err := th.Printer.Print(&buf, a, 0); err != nil {
		t.Fatalf("Print failed: %v", err)
	}
	want := "0 0 2 \n1 \n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

// S4 — SAM unmapped, then pack+unpack as themisto.
func TestScenarioS4SamUnmappedThenThemisto(t *testing.T) {
	sam, ok := ByName("sam")
	if !ok {
		t.Fatal("sam dialect not registered")
	}
	qIndex := NewMapIndex([]string{"readA", "readB"})
	tIndex := NewMapIndex([]string{"t0", "t1"})

	in := "@HD\tVN:1.6\nreadA\t0\tt1\t1\t255\t*\t*\t0\t0\t*\t*\nreadB\t4\t*\t0\t0\t*\t*\t0\t0\t*\t*\n"
	a := parseAll(t, sam, in, qIndex, tIndex, 2, 2, []string{"t0", "t1"})

	th, ok := ByName("themisto")
	if !ok {
		t.Fatal("themisto dialect not registered")
	}
	a.Format = "themisto"
	var buf bytes.Buffer
	if err := th.Printer.Print(&buf, a, 0); err != nil {
		t.Fatalf("Print failed: %v", err)
	}
	want := "0 1 \n1 \n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}
