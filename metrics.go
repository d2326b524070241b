package alignmentwriter

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics
// about pack and unpack runs. Implement this interface to integrate with
// monitoring systems.
type MetricsCollector interface {
	// RecordPack is called once after a pack operation completes.
	// duration is the total time taken, nBlocks is the number of blocks
	// written, err is nil if successful.
	RecordPack(duration time.Duration, nBlocks int, err error)

	// RecordUnpack is called once after an unpack operation completes.
	RecordUnpack(duration time.Duration, nBlocks int, err error)

	// RecordBlock is called by the packer after each individual block is
	// flushed; the unpacker does not call it. nHits is the number of hits
	// the dialect parser reported for the block's lines.
	RecordBlock(duration time.Duration, nHits int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordPack(time.Duration, int, error)   {}
func (NoopMetricsCollector) RecordUnpack(time.Duration, int, error) {}
func (NoopMetricsCollector) RecordBlock(time.Duration, int)         {}

// BasicMetricsCollector provides simple in-memory metrics collection using
// atomic counters, useful for debugging without an external dependency.
type BasicMetricsCollector struct {
	PackCount       atomic.Int64
	PackErrors      atomic.Int64
	PackTotalNanos  atomic.Int64
	UnpackCount     atomic.Int64
	UnpackErrors    atomic.Int64
	UnpackTotalNanos atomic.Int64
	BlockCount      atomic.Int64
	BlockTotalHits  atomic.Int64
	BlockTotalNanos atomic.Int64
}

// RecordPack implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPack(duration time.Duration, nBlocks int, err error) {
	b.PackCount.Add(1)
	b.PackTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.PackErrors.Add(1)
	}
}

// RecordUnpack implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUnpack(duration time.Duration, nBlocks int, err error) {
	b.UnpackCount.Add(1)
	b.UnpackTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.UnpackErrors.Add(1)
	}
}

// RecordBlock implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBlock(duration time.Duration, nHits int) {
	b.BlockCount.Add(1)
	b.BlockTotalHits.Add(int64(nHits))
	b.BlockTotalNanos.Add(duration.Nanoseconds())
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		PackCount:    b.PackCount.Load(),
		PackErrors:   b.PackErrors.Load(),
		UnpackCount:  b.UnpackCount.Load(),
		UnpackErrors: b.UnpackErrors.Load(),
		BlockCount:   b.BlockCount.Load(),
		BlockTotalHits: b.BlockTotalHits.Load(),
	}
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	PackCount      int64
	PackErrors     int64
	UnpackCount    int64
	UnpackErrors   int64
	BlockCount     int64
	BlockTotalHits int64
}
