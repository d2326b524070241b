// Package unpack implements the Unpacker (component F): it parses the
// file header, iterates block headers and payloads, decodes them
// (optionally across a bounded worker pool), and either returns the fully
// materialized Alignment or streams text to a printer block by block.
package unpack

import (
	"context"
	"io"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	alignmentwriter "github.com/tmaklin/alignment-writer"
	"github.com/tmaklin/alignment-writer/align"
	"github.com/tmaklin/alignment-writer/codec"
	"github.com/tmaklin/alignment-writer/container"
	"github.com/tmaklin/alignment-writer/dialect"
)

var timeNow = time.Now

func targetNames(h container.FileHeader) []string {
	names := make([]string, h.NTargets)
	for _, t := range h.Targets {
		if t.Pos >= 0 && t.Pos < len(names) {
			names[t.Pos] = t.Target
		}
	}
	return names
}

func resolveThreads(threads int) int {
	if threads <= 0 {
		return runtime.NumCPU()
	}
	return threads
}

// decodeBlock turns one raw (innerCompressed, payload) pair into a
// block-local Alignment: its bitmap has bits set only within the rows
// named in its query annotations, since the packer never splits a query's
// hits across blocks.
func decodeBlock(innerCompressed, payload []byte, nQueries, nTargets int, format string, c codec.Codec) (*align.Alignment, error) {
	queries, err := container.DecodeRawBlock(innerCompressed, c)
	if err != nil {
		return nil, err
	}
	a, err := align.New(nQueries, nTargets, nil, format)
	if err != nil {
		return nil, err
	}
	if err := a.Bitmap.DeserializeInto(payload); err != nil {
		return nil, &alignmentwriter.ErrCorruptPayload{}
	}
	for _, q := range queries {
		a.QueryNames[q.Pos] = q.Query
	}
	return a, nil
}

// Decode performs the in-memory decode entry point: the file header is
// read, every block is decoded, and the result is folded into a single
// accumulated Alignment. With threads > 1, raw block bytes are read
// sequentially (the source reader is not seekable) and dispatched to a
// bounded worker pool; results are folded into the accumulator on a single
// goroutine in completion order, which is safe because OR-merge is
// associative and commutative (spec §4.F/§5).
func Decode(ctx context.Context, r io.Reader, threads int, opts ...alignmentwriter.Option) (*align.Alignment, error) {
	cfg := alignmentwriter.ApplyOptions(opts)
	logger := cfg.Logger
	start := timeNow()

	header, err := container.ReadFileHeader(r, cfg.Codec)
	if err != nil {
		return nil, err
	}
	names := targetNames(header)
	acc, err := align.New(header.NQueries, header.NTargets, names, header.InputFormat)
	if err != nil {
		return nil, err
	}
	logger.LogUnpackStarted(ctx, header.InputFormat, threads)

	nBlocks := 0
	threads = resolveThreads(threads)

	if threads <= 1 {
		for {
			blk, err := container.ReadBlock(r, cfg.Codec)
			if err == io.EOF {
				break
			}
			if err != nil {
				logger.LogUnpackFailed(ctx, nBlocks, err)
				cfg.MetricsCollector.RecordUnpack(timeNow().Sub(start), nBlocks, err)
				return nil, err
			}
			blockAlign, err := blockFromDecoded(blk, header.NQueries, header.NTargets, header.InputFormat)
			if err != nil {
				logger.LogUnpackFailed(ctx, nBlocks, err)
				cfg.MetricsCollector.RecordUnpack(timeNow().Sub(start), nBlocks, err)
				return nil, err
			}
			if err := acc.Merge(blockAlign); err != nil {
				return nil, err
			}
			logger.LogBlockDecoded(ctx, nBlocks, len(blk.Queries))
			nBlocks++
		}
		logger.LogUnpackCompleted(ctx, nBlocks)
		cfg.MetricsCollector.RecordUnpack(timeNow().Sub(start), nBlocks, nil)
		return acc, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)

	type rawBlock struct {
		innerCompressed, payload []byte
	}
	type decoded struct {
		a   *align.Alignment
		err error
	}
	results := make(chan decoded)
	mergeErrCh := make(chan error, 1)

	go func() {
		var mergeErr error
		for d := range results {
			if mergeErr != nil {
				continue
			}
			if d.err != nil {
				mergeErr = d.err
				continue
			}
			if err := acc.Merge(d.a); err != nil {
				mergeErr = err
				continue
			}
			nBlocks++
		}
		mergeErrCh <- mergeErr
	}()

	readErr := func() error {
		for {
			innerCompressed, payload, err := container.ReadRawBlock(r, cfg.Codec)
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			blk := rawBlock{innerCompressed, payload}
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			g.Go(func() error {
				blockAlign, derr := decodeBlock(blk.innerCompressed, blk.payload, header.NQueries, header.NTargets, header.InputFormat, cfg.Codec)
				results <- decoded{a: blockAlign, err: derr}
				return derr
			})
		}
	}()

	waitErr := g.Wait()
	close(results)
	mergeErr := <-mergeErrCh

	if readErr != nil {
		logger.LogUnpackFailed(ctx, nBlocks, readErr)
		cfg.MetricsCollector.RecordUnpack(timeNow().Sub(start), nBlocks, readErr)
		return nil, readErr
	}
	if waitErr != nil {
		logger.LogUnpackFailed(ctx, nBlocks, waitErr)
		cfg.MetricsCollector.RecordUnpack(timeNow().Sub(start), nBlocks, waitErr)
		return nil, waitErr
	}
	if mergeErr != nil {
		logger.LogUnpackFailed(ctx, nBlocks, mergeErr)
		cfg.MetricsCollector.RecordUnpack(timeNow().Sub(start), nBlocks, mergeErr)
		return nil, mergeErr
	}

	logger.LogUnpackCompleted(ctx, nBlocks)
	cfg.MetricsCollector.RecordUnpack(timeNow().Sub(start), nBlocks, nil)
	return acc, nil
}

func blockFromDecoded(blk container.Block, nQueries, nTargets int, format string) (*align.Alignment, error) {
	a, err := align.New(nQueries, nTargets, nil, format)
	if err != nil {
		return nil, err
	}
	if err := a.Bitmap.DeserializeInto(blk.Payload); err != nil {
		return nil, &alignmentwriter.ErrCorruptPayload{}
	}
	for _, q := range blk.Queries {
		a.QueryNames[q.Pos] = q.Query
	}
	return a, nil
}

// Stream decodes a packed file and prints it in outputFormat to w. Row-wise
// dialects (themisto, fulgor, metagraph, sam) print block by block, keeping
// memory bounded at roughly one block; bifrost requires a full matrix and
// falls back to Decode followed by one Print call (spec §4.F). threads is
// passed to Decode on the bifrost path only; row-wise dialects decode
// their blocks sequentially on the calling goroutine.
func Stream(ctx context.Context, w io.Writer, r io.Reader, outputFormat string, threads int, opts ...alignmentwriter.Option) error {
	d, ok := dialect.ByName(outputFormat)
	if !ok {
		return &alignmentwriter.ErrUnknownFormat{Format: outputFormat}
	}

	if !d.Streaming {
		a, err := Decode(ctx, r, threads, opts...)
		if err != nil {
			return err
		}
		a.Format = outputFormat
		return d.Printer.Print(w, a, 0)
	}

	cfg := alignmentwriter.ApplyOptions(opts)
	logger := cfg.Logger
	start := timeNow()

	header, err := container.ReadFileHeader(r, cfg.Codec)
	if err != nil {
		return err
	}
	names := targetNames(header)
	logger.LogUnpackStarted(ctx, header.InputFormat, threads)

	nBlocks := 0
	for {
		blk, err := container.ReadBlock(r, cfg.Codec)
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.LogUnpackFailed(ctx, nBlocks, err)
			cfg.MetricsCollector.RecordUnpack(timeNow().Sub(start), nBlocks, err)
			return err
		}
		blockAlign, err := blockFromDecoded(blk, header.NQueries, header.NTargets, outputFormat)
		if err != nil {
			logger.LogUnpackFailed(ctx, nBlocks, err)
			cfg.MetricsCollector.RecordUnpack(timeNow().Sub(start), nBlocks, err)
			return err
		}
		blockAlign.TargetNames = names
		if err := d.Printer.Print(w, blockAlign, nBlocks); err != nil {
			return alignmentwriter.WrapIO(err)
		}
		logger.LogBlockDecoded(ctx, nBlocks, len(blk.Queries))
		nBlocks++
	}

	logger.LogUnpackCompleted(ctx, nBlocks)
	cfg.MetricsCollector.RecordUnpack(timeNow().Sub(start), nBlocks, nil)
	return nil
}
