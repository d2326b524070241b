// Package transcode sniffs the leading bytes of an input stream and wraps
// it in the matching decompressor (component M). It sits ahead of a
// dialect parser in cmd/alignment-writer; the pack package itself only
// ever consumes an already-decompressed io.Reader.
package transcode

import (
	"bufio"
	"compress/bzip2"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"
)

var (
	gzipMagic  = [2]byte{0x1F, 0x8B}
	bzip2Magic = [3]byte{0x42, 0x5A, 0x68}
	xzMagic    = [6]byte{0xFD, 0x37, 0x7A, 0x58, 0x5A, 0x00}
)

// Open sniffs r's leading bytes and returns a reader over its decompressed
// contents. Streams matching no known magic are returned unwrapped, still
// positioned at their first byte.
func Open(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	// Peek returns whatever bytes are available even when the stream is
	// shorter than the longest magic (xz's 6 bytes); hasPrefix treats a
	// too-short head as a non-match rather than an error.
	head, _ := br.Peek(len(xzMagic))

	switch {
	case hasPrefix(head, xzMagic[:]):
		zr, err := xz.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("transcode: open xz stream: %w", err)
		}
		return zr, nil
	case hasPrefix(head, gzipMagic[:]):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("transcode: open gzip stream: %w", err)
		}
		return zr, nil
	case hasPrefix(head, bzip2Magic[:]):
		return bzip2.NewReader(br), nil
	default:
		return br, nil
	}
}

func hasPrefix(head, magic []byte) bool {
	if len(head) < len(magic) {
		return false
	}
	for i, b := range magic {
		if head[i] != b {
			return false
		}
	}
	return true
}
