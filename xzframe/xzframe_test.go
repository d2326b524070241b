package xzframe

import (
	"bytes"
	"testing"
)

func TestCompressScanDecompressRoundTrip(t *testing.T) {
	payload := []byte(`{"n_queries":3,"n_targets":5}`)

	compressed, err := Compress(payload)
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}

	// A second, unrelated stream follows immediately; ScanStream must stop
	// exactly at the first stream's footer and leave the second untouched.
	second, err := Compress([]byte("trailing"))
	if err != nil {
		t.Fatalf("Compress (second) failed: %v", err)
	}
	combined := append(append([]byte{}, compressed...), second...)

	r := bytes.NewReader(combined)
	raw, err := ScanStream(r)
	if err != nil {
		t.Fatalf("ScanStream failed: %v", err)
	}
	if !bytes.Equal(raw, compressed) {
		t.Fatalf("ScanStream returned %d bytes, want exactly the first stream (%d bytes)", len(raw), len(compressed))
	}

	got, err := Decompress(raw)
	if err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("got %q, want %q", got, payload)
	}

	rest, err := ScanStream(r)
	if err != nil {
		t.Fatalf("ScanStream (second stream) failed: %v", err)
	}
	gotSecond, err := Decompress(rest)
	if err != nil {
		t.Fatalf("Decompress (second stream) failed: %v", err)
	}
	if string(gotSecond) != "trailing" {
		t.Fatalf("got %q, want %q", gotSecond, "trailing")
	}
}

func TestScanStreamNotXz(t *testing.T) {
	r := bytes.NewReader([]byte("not an xz stream at all"))
	if _, err := ScanStream(r); err != ErrNotXz {
		t.Fatalf("got %v, want ErrNotXz", err)
	}
}

func TestScanStreamTruncated(t *testing.T) {
	compressed, err := Compress([]byte("hello world"))
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	truncated := compressed[:len(compressed)/2]

	r := bytes.NewReader(truncated)
	if _, err := ScanStream(r); err != ErrTruncated {
		t.Fatalf("got %v, want ErrTruncated", err)
	}
}

func TestScanAndDecompress(t *testing.T) {
	payload := []byte("round trip via convenience wrapper")
	compressed, err := Compress(payload)
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	got, err := ScanAndDecompress(bytes.NewReader(compressed))
	if err != nil {
		t.Fatalf("ScanAndDecompress failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("got %q, want %q", got, payload)
	}
}
