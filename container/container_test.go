package container

import (
	"bytes"
	"errors"
	"io"
	"testing"

	alignmentwriter "github.com/tmaklin/alignment-writer"
	"github.com/tmaklin/alignment-writer/codec"
)

func TestFileHeaderRoundTrip(t *testing.T) {
	h := FileHeader{
		NQueries:    2,
		NTargets:    3,
		InputFormat: "themisto",
		Targets: []TargetEntry{
			{Target: "t0", Pos: 0},
			{Target: "t1", Pos: 1},
			{Target: "t2", Pos: 2},
		},
	}

	var buf bytes.Buffer
	if err := WriteFileHeader(&buf, h, nil); err != nil {
		t.Fatalf("WriteFileHeader failed: %v", err)
	}

	got, err := ReadFileHeader(&buf, nil)
	if err != nil {
		t.Fatalf("ReadFileHeader failed: %v", err)
	}
	if got.NQueries != h.NQueries || got.NTargets != h.NTargets || got.InputFormat != h.InputFormat {
		t.Fatalf("got %+v, want %+v", got, h)
	}
	if len(got.Targets) != len(h.Targets) {
		t.Fatalf("got %d targets, want %d", len(got.Targets), len(h.Targets))
	}
}

func TestBlockRoundTrip(t *testing.T) {
	queries := []QueryEntry{{Query: "readA", Pos: 0}, {Query: "readB", Pos: 1}}
	payload := []byte{0x01, 0x02, 0x03, 0x04}

	var buf bytes.Buffer
	if err := WriteBlock(&buf, queries, payload, nil); err != nil {
		t.Fatalf("WriteBlock failed: %v", err)
	}

	blk, err := ReadBlock(&buf, nil)
	if err != nil {
		t.Fatalf("ReadBlock failed: %v", err)
	}
	if !bytes.Equal(blk.Payload, payload) {
		t.Fatalf("got payload %v, want %v", blk.Payload, payload)
	}
	if len(blk.Queries) != len(queries) {
		t.Fatalf("got %d queries, want %d", len(blk.Queries), len(queries))
	}
}

func TestReadBlockEOFAtBoundary(t *testing.T) {
	var buf bytes.Buffer
	if _, err := ReadBlock(&buf, nil); err != io.EOF {
		t.Fatalf("got %v, want io.EOF", err)
	}
}

func TestMultipleBlocksInOrder(t *testing.T) {
	var buf bytes.Buffer
	blocks := [][]byte{{0xAA}, {0xBB, 0xCC}, {0xDD, 0xEE, 0xFF}}
	for i, payload := range blocks {
		queries := []QueryEntry{{Query: "q", Pos: i}}
		if err := WriteBlock(&buf, queries, payload, nil); err != nil {
			t.Fatalf("WriteBlock(%d) failed: %v", i, err)
		}
	}

	for i, want := range blocks {
		blk, err := ReadBlock(&buf, nil)
		if err != nil {
			t.Fatalf("ReadBlock(%d) failed: %v", i, err)
		}
		if !bytes.Equal(blk.Payload, want) {
			t.Fatalf("block %d: got %v, want %v", i, blk.Payload, want)
		}
	}
	if _, err := ReadBlock(&buf, nil); err != io.EOF {
		t.Fatalf("got %v, want io.EOF at end", err)
	}
}

type countingCodec struct {
	codec.Codec
	marshals int
}

func (c *countingCodec) Marshal(v any) ([]byte, error) {
	c.marshals++
	return c.Codec.Marshal(v)
}

func TestWriteBlockUsesGivenCodec(t *testing.T) {
	cc := &countingCodec{Codec: codec.JSON{}}
	queries := []QueryEntry{{Query: "readA", Pos: 0}}
	payload := []byte{0x01}

	var buf bytes.Buffer
	if err := WriteBlock(&buf, queries, payload, cc); err != nil {
		t.Fatalf("WriteBlock failed: %v", err)
	}
	if cc.marshals != 2 {
		t.Fatalf("got %d Marshal calls, want 2 (inner + outer header)", cc.marshals)
	}

	blk, err := ReadBlock(&buf, codec.JSON{})
	if err != nil {
		t.Fatalf("ReadBlock failed: %v", err)
	}
	if !bytes.Equal(blk.Payload, payload) {
		t.Fatalf("got payload %v, want %v", blk.Payload, payload)
	}
}

func TestReadBlockTruncatedPayload(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteBlock(&buf, nil, []byte{1, 2, 3, 4, 5}, nil); err != nil {
		t.Fatalf("WriteBlock failed: %v", err)
	}
	truncated := buf.Bytes()[:buf.Len()-2]

	_, err := ReadBlock(bytes.NewReader(truncated), nil)
	var te *alignmentwriter.ErrTruncated
	if !errors.As(err, &te) {
		t.Fatalf("got %v, want ErrTruncated", err)
	}
}
