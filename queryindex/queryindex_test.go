package queryindex

import (
	"strings"
	"testing"
)

func TestFromReadsFasta(t *testing.T) {
	idx, err := FromReads(strings.NewReader(">readA description\nACGT\n>readB\nTTTT\nGGGG\n"))
	if err != nil {
		t.Fatalf("FromReads failed: %v", err)
	}
	if idx.Len() != 2 {
		t.Fatalf("got %d entries, want 2", idx.Len())
	}
	pos, ok := idx.Pos("readA")
	if !ok || pos != 0 {
		t.Fatalf("got pos=%d ok=%v for readA", pos, ok)
	}
	pos, ok = idx.Pos("readB")
	if !ok || pos != 1 {
		t.Fatalf("got pos=%d ok=%v for readB", pos, ok)
	}
}

func TestFromReadsFastqWithAtInQuality(t *testing.T) {
	in := "@readA\nACGT\n+\n@@@@\n@readB\nTTTT\n+\n!!!!\n"
	idx, err := FromReads(strings.NewReader(in))
	if err != nil {
		t.Fatalf("FromReads failed: %v", err)
	}
	if idx.Len() != 2 {
		t.Fatalf("got %d entries, want 2", idx.Len())
	}
	pos, ok := idx.Pos("readB")
	if !ok || pos != 1 {
		t.Fatalf("got pos=%d ok=%v for readB", pos, ok)
	}
}
