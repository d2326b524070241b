// Package container implements the block-structured file container
// (component C): the file header and the per-block double-header framing
// described in spec §4.C, built on top of the XZ framing helper and the
// JSON codec.
package container

import (
	"fmt"
	"io"

	alignmentwriter "github.com/tmaklin/alignment-writer"
	"github.com/tmaklin/alignment-writer/codec"
	"github.com/tmaklin/alignment-writer/xzframe"
)

// TargetEntry is one element of the file header's ordered target list.
type TargetEntry struct {
	Target string `json:"target"`
	Pos    int    `json:"pos"`
}

// FileHeader is the file header payload (spec §3): written once at the
// start of a pack, read once at the start of an unpack.
type FileHeader struct {
	NQueries    int           `json:"n_queries"`
	NTargets    int           `json:"n_targets"`
	InputFormat string        `json:"input_format"`
	Targets     []TargetEntry `json:"targets"`
}

// QueryEntry is one element of a block header's ordered query-annotation
// list.
type QueryEntry struct {
	Query string `json:"query"`
	Pos   int    `json:"pos"`
}

// outerBlockHeader is the first, self-delimiting XZ stream of a block: it
// tells the reader exactly how many bytes make up the inner header and the
// raw bitmap payload that follow it.
type outerBlockHeader struct {
	HeaderSize int `json:"header_size"`
	BlockSize  int `json:"block_size"`
}

// innerBlockHeader is the second XZ stream of a block, exactly
// outerBlockHeader.HeaderSize compressed bytes long.
type innerBlockHeader struct {
	Queries []QueryEntry `json:"queries"`
}

// resolveCodec substitutes codec.Default for a nil Codec, so callers that
// don't care about header codec selection (most of the test suite) can
// pass nil.
func resolveCodec(c codec.Codec) codec.Codec {
	if c == nil {
		return codec.Default
	}
	return c
}

// WriteFileHeader XZ-compresses and writes h as the file's first frame,
// using c to marshal the header payload. A nil c falls back to
// codec.Default.
func WriteFileHeader(w io.Writer, h FileHeader, c codec.Codec) error {
	c = resolveCodec(c)
	payload, err := c.Marshal(h)
	if err != nil {
		return fmt.Errorf("container: marshal file header: %w", err)
	}
	compressed, err := xzframe.Compress(payload)
	if err != nil {
		return fmt.Errorf("container: compress file header: %w", err)
	}
	if _, err := w.Write(compressed); err != nil {
		return fmt.Errorf("container: write file header: %w", err)
	}
	return nil
}

// ReadFileHeader scans and decodes the file's first frame using c. A nil c
// falls back to codec.Default; since every built-in codec speaks plain
// JSON on the wire, a reader can use any of them regardless of which one
// wrote the file.
func ReadFileHeader(r io.Reader, c codec.Codec) (FileHeader, error) {
	c = resolveCodec(c)
	var h FileHeader
	raw, err := xzframe.ScanStream(r)
	if err != nil {
		return h, translateScanErr(err)
	}
	payload, err := xzframe.Decompress(raw)
	if err != nil {
		return h, err
	}
	if err := c.Unmarshal(payload, &h); err != nil {
		return h, &alignmentwriter.ErrMalformedHeader{Detail: err.Error()}
	}
	return h, nil
}

// WriteBlock XZ-compresses and writes the outer header, inner header, and
// raw bitmap payload for one block, in that order, using c to marshal both
// header payloads. A nil c falls back to codec.Default.
func WriteBlock(w io.Writer, queries []QueryEntry, payload []byte, c codec.Codec) error {
	c = resolveCodec(c)
	innerPayload, err := c.Marshal(innerBlockHeader{Queries: queries})
	if err != nil {
		return fmt.Errorf("container: marshal block header: %w", err)
	}
	innerCompressed, err := xzframe.Compress(innerPayload)
	if err != nil {
		return fmt.Errorf("container: compress block header: %w", err)
	}

	outerPayload, err := c.Marshal(outerBlockHeader{
		HeaderSize: len(innerCompressed),
		BlockSize:  len(payload),
	})
	if err != nil {
		return fmt.Errorf("container: marshal outer block header: %w", err)
	}
	outerCompressed, err := xzframe.Compress(outerPayload)
	if err != nil {
		return fmt.Errorf("container: compress outer block header: %w", err)
	}

	if _, err := w.Write(outerCompressed); err != nil {
		return fmt.Errorf("container: write outer block header: %w", err)
	}
	if _, err := w.Write(innerCompressed); err != nil {
		return fmt.Errorf("container: write block header: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("container: write block payload: %w", err)
	}
	return nil
}

// Block is one decoded block: the query annotations read from its inner
// header and the raw, still-serialized bitmap payload.
type Block struct {
	Queries []QueryEntry
	Payload []byte
}

// ReadBlock reads and fully decodes one block from r: the outer header,
// the inner header, and exactly block_size bytes of bitmap payload, using
// c to unmarshal both header payloads. A nil c falls back to
// codec.Default. It returns io.EOF (unwrapped) when r has no more bytes
// at a block boundary — callers use this to detect the end of the block
// loop.
func ReadBlock(r io.Reader, c codec.Codec) (Block, error) {
	var blk Block

	innerCompressed, payload, err := ReadRawBlock(r, c)
	if err != nil {
		return blk, err
	}
	queries, err := DecodeRawBlock(innerCompressed, c)
	if err != nil {
		return blk, err
	}
	blk.Queries = queries
	blk.Payload = payload
	return blk, nil
}

// ReadRawBlock reads one block's outer header (decoding it with c, or
// codec.Default if c is nil, to learn the byte lengths that follow) and
// then the inner header and payload bytes verbatim, without decompressing
// either. This lets a caller do the sequential, single-threaded I/O up
// front and hand the CPU-bound decompression of (innerCompressed, payload)
// pairs to a worker pool — see package unpack's parallel decode path. It
// returns io.EOF (unwrapped) at a block boundary once r is exhausted.
func ReadRawBlock(r io.Reader, c codec.Codec) (innerCompressed, payload []byte, err error) {
	c = resolveCodec(c)
	outerRaw, err := xzframe.ScanStream(r)
	if err != nil {
		if err == io.EOF {
			return nil, nil, io.EOF
		}
		return nil, nil, translateScanErr(err)
	}
	outerPayload, err := xzframe.Decompress(outerRaw)
	if err != nil {
		return nil, nil, err
	}
	var outer outerBlockHeader
	if err := c.Unmarshal(outerPayload, &outer); err != nil {
		return nil, nil, &alignmentwriter.ErrMalformedHeader{Detail: err.Error()}
	}

	innerCompressed = make([]byte, outer.HeaderSize)
	if _, err := io.ReadFull(r, innerCompressed); err != nil {
		return nil, nil, &alignmentwriter.ErrTruncated{Detail: "inner block header"}
	}

	payload = make([]byte, outer.BlockSize)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, nil, &alignmentwriter.ErrTruncated{Detail: "block payload"}
	}

	return innerCompressed, payload, nil
}

// DecodeRawBlock decompresses and parses an inner block header previously
// read by ReadRawBlock, using c to unmarshal it. A nil c falls back to
// codec.Default.
func DecodeRawBlock(innerCompressed []byte, c codec.Codec) ([]QueryEntry, error) {
	c = resolveCodec(c)
	innerPayload, err := xzframe.Decompress(innerCompressed)
	if err != nil {
		return nil, err
	}
	var inner innerBlockHeader
	if err := c.Unmarshal(innerPayload, &inner); err != nil {
		return nil, &alignmentwriter.ErrMalformedHeader{Detail: err.Error()}
	}
	return inner.Queries, nil
}

func translateScanErr(err error) error {
	switch err {
	case xzframe.ErrNotXz:
		return &alignmentwriter.ErrMalformedFrame{}
	case xzframe.ErrTruncated, io.EOF:
		return &alignmentwriter.ErrTruncated{Detail: "xz stream"}
	default:
		return err
	}
}
