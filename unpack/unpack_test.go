package unpack

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"

	alignmentwriter "github.com/tmaklin/alignment-writer"
	"github.com/tmaklin/alignment-writer/align"
	"github.com/tmaklin/alignment-writer/dialect"
	"github.com/tmaklin/alignment-writer/pack"
)

func packThemisto(t *testing.T, text string, nQueries, nTargets int, targetNames []string, opts ...alignmentwriter.Option) *bytes.Buffer {
	t.Helper()
	qNames := make([]string, nQueries)
	for i := range qNames {
		qNames[i] = string(rune('0' + i))
	}
	qIndex := dialect.NewMapIndex(qNames)
	tIndex := dialect.NewMapIndex(targetNames)
	in := pack.Input{
		Format:      "themisto",
		QIndex:      qIndex,
		TIndex:      tIndex,
		NQueries:    nQueries,
		NTargets:    nTargets,
		TargetNames: targetNames,
	}
	var buf bytes.Buffer
	if err := pack.Pack(context.Background(), &buf, strings.NewReader(text), in, opts...); err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	return &buf
}

func TestDecodeRoundTrip(t *testing.T) {
	text := "0 0 2\n1\n2 1\n"
	buf := packThemisto(t, text, 3, 3, []string{"t0", "t1", "t2"})

	a, err := Decode(context.Background(), buf, 1)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if a.NQueries != 3 || a.NTargets != 3 {
		t.Fatalf("got dims %d x %d", a.NQueries, a.NTargets)
	}
	got := map[uint64]bool{}
	for pos := range a.Bitmap.Enumerate() {
		got[pos] = true
	}
	if !got[0] || !got[2] {
		t.Fatalf("expected cells 0 and 2 set, got %v", got)
	}
	if len(a.QueryNames) != 3 {
		t.Fatalf("expected 3 query annotations, got %d", len(a.QueryNames))
	}
}

func TestDecodeBlockSizeInvariance(t *testing.T) {
	text := "0 0 1\n1 0\n2 1\n3 0 1\n"
	targetNames := []string{"t0", "t1"}

	small := packThemisto(t, text, 4, 2, targetNames, alignmentwriter.WithBufferSize(1))
	large := packThemisto(t, text, 4, 2, targetNames, alignmentwriter.WithBufferSize(1000))

	aSmall, err := Decode(context.Background(), small, 1)
	if err != nil {
		t.Fatalf("Decode(small) failed: %v", err)
	}
	aLarge, err := Decode(context.Background(), large, 1)
	if err != nil {
		t.Fatalf("Decode(large) failed: %v", err)
	}

	bitsEqual(t, aSmall, aLarge)
}

func TestDecodeParallelEquivalence(t *testing.T) {
	var sb strings.Builder
	nQueries := 40
	nTargets := 5
	for q := 0; q < nQueries; q++ {
		sb.WriteString(strconv.Itoa(q))
		for target := 0; target < nTargets; target++ {
			if (q+target)%3 == 0 {
				sb.WriteString(" ")
				sb.WriteString(strconv.Itoa(target))
			}
		}
		sb.WriteString("\n")
	}
	targetNames := make([]string, nTargets)
	for i := range targetNames {
		targetNames[i] = "t" + strconv.Itoa(i)
	}

	qNames := make([]string, nQueries)
	for i := range qNames {
		qNames[i] = strconv.Itoa(i)
	}
	qIndex := dialect.NewMapIndex(qNames)
	tIndex := dialect.NewMapIndex(targetNames)
	in := pack.Input{
		Format:      "themisto",
		QIndex:      qIndex,
		TIndex:      tIndex,
		NQueries:    nQueries,
		NTargets:    nTargets,
		TargetNames: targetNames,
	}
	var packed bytes.Buffer
	if err := pack.Pack(context.Background(), &packed, strings.NewReader(sb.String()), in, alignmentwriter.WithBufferSize(3)); err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	packedBytes := packed.Bytes()

	aSeq, err := Decode(context.Background(), bytes.NewReader(packedBytes), 1)
	if err != nil {
		t.Fatalf("Decode(threads=1) failed: %v", err)
	}
	aPar, err := Decode(context.Background(), bytes.NewReader(packedBytes), 4)
	if err != nil {
		t.Fatalf("Decode(threads=4) failed: %v", err)
	}

	bitsEqual(t, aSeq, aPar)
	if len(aSeq.QueryNames) != len(aPar.QueryNames) {
		t.Fatalf("query annotation count differs: %d vs %d", len(aSeq.QueryNames), len(aPar.QueryNames))
	}
}

func TestStreamThemistoFallsThroughToPrinting(t *testing.T) {
	text := "0 0 2\n1\n"
	buf := packThemisto(t, text, 2, 3, []string{"t0", "t1", "t2"})

	var out bytes.Buffer
	if err := Stream(context.Background(), &out, buf, "themisto", 1); err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
	want := "0 0 2 \n1 \n"
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}

func TestStreamBifrostFallsBackToFullDecode(t *testing.T) {
	text := "0 0 1\n1 0\n"
	buf := packThemisto(t, text, 2, 2, []string{"t0", "t1"})

	var out bytes.Buffer
	if err := Stream(context.Background(), &out, buf, "bifrost", 1); err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
	if !strings.Contains(out.String(), "t0\tt1") {
		t.Fatalf("expected bifrost header in output, got %q", out.String())
	}
}

func TestStreamSamHeaderWrittenOnce(t *testing.T) {
	text := "0 0\n1 1\n2 0\n3 1\n"
	targetNames := []string{"t0", "t1"}
	buf := packThemisto(t, text, 4, 2, targetNames, alignmentwriter.WithBufferSize(1))

	var out bytes.Buffer
	if err := Stream(context.Background(), &out, buf, "sam", 1); err != nil {
		t.Fatalf("Stream failed: %v", err)
	}

	got := out.String()
	if n := strings.Count(got, "@SQ\tSN:t0"); n != 1 {
		t.Fatalf("got %d @SQ\\tSN:t0 lines, want 1 (output:\n%s)", n, got)
	}
	if n := strings.Count(got, "@SQ\tSN:t1"); n != 1 {
		t.Fatalf("got %d @SQ\\tSN:t1 lines, want 1 (output:\n%s)", n, got)
	}
	if n := strings.Count(got, "@PG\t"); n != 1 {
		t.Fatalf("got %d @PG lines, want 1 (output:\n%s)", n, got)
	}
	if !strings.HasPrefix(got, "@SQ\tSN:t0\n@SQ\tSN:t1\n@PG\t") {
		t.Fatalf("expected header block at top of output, got %q", got)
	}
}

func bitsEqual(t *testing.T, a, b *align.Alignment) {
	t.Helper()
	left := map[uint64]bool{}
	for pos := range a.Bitmap.Enumerate() {
		left[pos] = true
	}
	right := map[uint64]bool{}
	for pos := range b.Bitmap.Enumerate() {
		right[pos] = true
	}
	if len(left) != len(right) {
		t.Fatalf("bitmap cardinalities differ: %d vs %d", len(left), len(right))
	}
	for pos := range left {
		if !right[pos] {
			t.Fatalf("position %d present in a but not b", pos)
		}
	}
}

