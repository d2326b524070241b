// Package xzframe implements the XZ framing helper (component D): locating
// the boundaries of a self-delimiting XZ stream embedded in a larger byte
// stream, and decompressing the bytes it captures.
//
// Every header section in the packed file format (spec §4.C) is an
// independent XZ stream. Readers do not know its compressed length in
// advance; they recover it by scanning for the stream footer. This package
// reads the stream one byte at a time, feeding every byte to a real XZ
// reader that validates the data, and stops at the first 4-byte-aligned
// position where the bytes read so far end in a stream footer: footer
// magic "YZ", stream flags equal to the header's, and a matching footer
// CRC32. Footer magic bytes inside compressed data that do not also pass
// the CRC32 and flags check do not end the scan.
package xzframe

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/ulikunitz/xz"
)

// Magic is the 6-byte header every XZ stream begins with.
var Magic = [6]byte{0xFD, 0x37, 0x7A, 0x58, 0x5A, 0x00}

// ErrNotXz is returned when the expected XZ magic is absent at the current
// reader position.
var ErrNotXz = errors.New("xzframe: not an xz stream")

// ErrTruncated is returned when EOF is reached before a complete XZ stream
// (including its footer) has been observed.
var ErrTruncated = errors.New("xzframe: truncated xz stream")

// ScanStream reads one complete, self-delimiting XZ stream starting at the
// reader's current position and returns its raw (still-compressed) bytes,
// including the magic and footer. r is left positioned immediately after
// the footer. It returns io.EOF if r has no bytes left at all.
func ScanStream(r io.Reader) ([]byte, error) {
	var magic [6]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrTruncated
		}
		return nil, fmt.Errorf("xzframe: read magic: %w", err)
	}
	if magic != Magic {
		return nil, ErrNotXz
	}

	var raw bytes.Buffer
	raw.Write(magic[:])

	// Feed the stream to a real XZ reader one byte at a time through a pipe,
	// and stop reading r as soon as the bytes read so far end in a valid
	// stream footer, so no byte of whatever frame follows is consumed.
	pr, pw := io.Pipe()
	decodeDone := make(chan error, 1)
	go func() {
		zr, err := xz.NewReader(pr)
		if err != nil {
			_, _ = io.Copy(io.Discard, pr)
			decodeDone <- err
			return
		}
		_, err = io.Copy(io.Discard, zr)
		_ = pr.Close()
		decodeDone <- err
	}()

	if _, err := pw.Write(magic[:]); err != nil {
		pw.Close()
		decErr := <-decodeDone
		return finishScan(&raw, decErr, nil)
	}

	var b [1]byte
	var feedErr error
feed:
	for {
		select {
		case decErr := <-decodeDone:
			return finishScan(&raw, decErr, nil)
		default:
		}

		n, err := r.Read(b[:])
		if n > 0 {
			raw.WriteByte(b[0])
			if _, werr := pw.Write(b[:1]); werr != nil {
				break feed
			}
			if k := raw.Len(); k >= 24 && k%4 == 0 {
				s := raw.Bytes()
				f := s[k-12:]
				if f[10] == 'Y' && f[11] == 'Z' && bytes.Equal(f[8:10], s[6:8]) &&
					crc32.ChecksumIEEE(f[4:10]) == binary.LittleEndian.Uint32(f[:4]) {
					break feed
				}
			}
		}
		if err != nil {
			feedErr = err
			break feed
		}
	}
	pw.Close()

	decErr := <-decodeDone
	return finishScan(&raw, decErr, feedErr)
}

func finishScan(raw *bytes.Buffer, decErr, feedErr error) ([]byte, error) {
	if decErr == nil {
		return raw.Bytes(), nil
	}
	if errors.Is(decErr, io.EOF) || errors.Is(decErr, io.ErrClosedPipe) {
		return raw.Bytes(), nil
	}
	if errors.Is(feedErr, io.EOF) || errors.Is(feedErr, io.ErrUnexpectedEOF) {
		return nil, ErrTruncated
	}
	return nil, fmt.Errorf("xzframe: decode: %w", decErr)
}

// Decompress decodes a complete XZ stream (as returned by ScanStream) to
// its uncompressed payload.
func Decompress(streamBytes []byte) ([]byte, error) {
	zr, err := xz.NewReader(bytes.NewReader(streamBytes))
	if err != nil {
		return nil, fmt.Errorf("xzframe: decompress: %w", err)
	}
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("xzframe: decompress: %w", err)
	}
	return out, nil
}

// ScanAndDecompress is a convenience wrapper combining ScanStream and
// Decompress.
func ScanAndDecompress(r io.Reader) ([]byte, error) {
	raw, err := ScanStream(r)
	if err != nil {
		return nil, err
	}
	return Decompress(raw)
}

// Compress writes data as a new XZ stream using the default preset.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("xzframe: compress: %w", err)
	}
	if _, err := zw.Write(data); err != nil {
		_ = zw.Close()
		return nil, fmt.Errorf("xzframe: compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("xzframe: compress: %w", err)
	}
	return buf.Bytes(), nil
}
