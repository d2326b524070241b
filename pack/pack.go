// Package pack implements the Packer (component E): it drives a dialect
// parser against an input text stream, fills a bitmap and a query
// annotation set, flushes blocks when the configured hit threshold is
// reached, and writes the packed file.
package pack

import (
	"context"
	"io"
	"sort"
	"time"

	alignmentwriter "github.com/tmaklin/alignment-writer"
	"github.com/tmaklin/alignment-writer/bitmap"
	"github.com/tmaklin/alignment-writer/container"
	"github.com/tmaklin/alignment-writer/dialect"
	"github.com/tmaklin/alignment-writer/manifest"
)

// countingWriter tracks the number of bytes written through it, so Pack can
// report the packed file's final size to the manifest without requiring a
// seekable destination.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// Input bundles everything the packer needs to know about the data it is
// about to consume: the dialect to parse, the query/target index spaces,
// and the target column order recorded in the file header.
type Input struct {
	Format      string
	QIndex      dialect.Index
	TIndex      dialect.Index
	NQueries    int
	NTargets    int
	TargetNames []string
}

// Pack reads text in in.Format from r and writes the packed binary file to
// w, following the algorithm in spec §4.E.
func Pack(ctx context.Context, w io.Writer, r io.Reader, in Input, opts ...alignmentwriter.Option) error {
	cfg := alignmentwriter.ApplyOptions(opts)
	logger := cfg.Logger
	start := timeNow()
	cw := &countingWriter{w: w}
	w = cw

	capacity := uint64(in.NQueries) * uint64(in.NTargets)
	if capacity > bitmap.MaxCapacityBits {
		err := &alignmentwriter.ErrCapacityExceeded{NQueries: in.NQueries, NTargets: in.NTargets}
		logger.LogPackFailed(ctx, 0, err)
		cfg.MetricsCollector.RecordPack(timeNow().Sub(start), 0, err)
		return err
	}

	d, ok := dialect.ByName(in.Format)
	if !ok {
		return &alignmentwriter.ErrUnknownFormat{Format: in.Format}
	}

	targets := make([]container.TargetEntry, len(in.TargetNames))
	for i, name := range in.TargetNames {
		targets[i] = container.TargetEntry{Target: name, Pos: i}
	}
	header := container.FileHeader{
		NQueries:    in.NQueries,
		NTargets:    in.NTargets,
		InputFormat: in.Format,
		Targets:     targets,
	}
	if err := container.WriteFileHeader(w, header, cfg.Codec); err != nil {
		return alignmentwriter.WrapIO(err)
	}
	logger.LogPackStarted(ctx, in.Format, in.NQueries, in.NTargets)

	lr := dialect.NewLineReader(r)
	if err := d.Parser.ConsumePreamble(lr, in.TIndex); err != nil {
		logger.LogPackFailed(ctx, 0, err)
		return err
	}

	bm, err := bitmap.New(capacity)
	if err != nil {
		return err
	}
	seen := make(map[int]string)
	n := 0
	lineNo := 0
	nBlocks := 0

	flush := func() error {
		blockStart := timeNow()
		payload, err := bm.Serialize()
		if err != nil {
			return err
		}
		queries := make([]container.QueryEntry, 0, len(seen))
		positions := make([]int, 0, len(seen))
		for pos := range seen {
			positions = append(positions, pos)
		}
		sort.Ints(positions)
		for _, pos := range positions {
			queries = append(queries, container.QueryEntry{Query: seen[pos], Pos: pos})
		}
		if err := container.WriteBlock(w, queries, payload, cfg.Codec); err != nil {
			return alignmentwriter.WrapIO(err)
		}
		cfg.MetricsCollector.RecordBlock(timeNow().Sub(blockStart), n)
		logger.LogBlockFlushed(ctx, nBlocks, n, len(seen))
		nBlocks++

		bm, err = bitmap.New(capacity)
		if err != nil {
			return err
		}
		seen = make(map[int]string)
		n = 0
		return nil
	}

	for {
		line, ok := lr.Next()
		if !ok {
			break
		}
		lineNo++

		hits, err := d.Parser.ParseLine(line, lineNo, in.QIndex, in.TIndex, in.NTargets, bm.BulkInsert, seen)
		if err != nil {
			logger.LogPackFailed(ctx, lineNo, err)
			cfg.MetricsCollector.RecordPack(timeNow().Sub(start), nBlocks, err)
			return err
		}
		n += hits

		if n > cfg.BufferSize {
			if err := flush(); err != nil {
				logger.LogPackFailed(ctx, lineNo, err)
				cfg.MetricsCollector.RecordPack(timeNow().Sub(start), nBlocks, err)
				return err
			}
		}
	}
	if err := lr.Err(); err != nil {
		wrapped := alignmentwriter.WrapIO(err)
		logger.LogPackFailed(ctx, lineNo, wrapped)
		return wrapped
	}

	if len(seen) > 0 {
		if err := flush(); err != nil {
			logger.LogPackFailed(ctx, lineNo, err)
			cfg.MetricsCollector.RecordPack(timeNow().Sub(start), nBlocks, err)
			return err
		}
	}

	logger.LogPackCompleted(ctx, nBlocks)
	cfg.MetricsCollector.RecordPack(timeNow().Sub(start), nBlocks, nil)

	if cfg.ManifestStore != nil {
		entry := manifest.Entry{
			Key:         cfg.ManifestKey,
			NQueries:    in.NQueries,
			NTargets:    in.NTargets,
			InputFormat: in.Format,
			Size:        cw.n,
			CreatedAt:   timeNow().Unix(),
		}
		if err := cfg.ManifestStore.Record(ctx, entry); err != nil {
			return alignmentwriter.WrapIO(err)
		}
	}
	return nil
}

// timeNow is a seam for measuring block/pack durations.
var timeNow = time.Now
