// Package bitmap implements the sparse bitmap component of the pseudoalignment
// codec (component A): a compressed variable-length bitmap over a fixed
// logical length, with buffered bulk insertion, ascending enumeration,
// in-place OR-merge, and a serialized form whose deserialize-into operation
// is a set-union.
//
// The backing representation is a 64-bit Roaring bitmap
// (github.com/RoaringBitmap/roaring/v2/roaring64), chosen because cell
// positions range over [0, 2^47) — beyond the 32-bit addressing the plain
// roaring.Bitmap used elsewhere in this codebase's lineage supports.
package bitmap

import (
	"bytes"
	"fmt"
	"iter"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// MaxCapacityBits is the hard ceiling on N_q * N_t enforced at pack time.
const MaxCapacityBits = 1 << 47

// ErrCapacityExceeded is returned when a position is inserted at or beyond
// the bitmap's configured capacity, or when a requested capacity itself
// exceeds MaxCapacityBits.
type ErrCapacityExceeded struct {
	Position   uint64
	Capacity   uint64
	RequestNew bool // true when the capacity itself was rejected, not an insert
}

func (e *ErrCapacityExceeded) Error() string {
	if e.RequestNew {
		return fmt.Sprintf("bitmap: requested capacity %d exceeds maximum %d", e.Capacity, MaxCapacityBits)
	}
	return fmt.Sprintf("bitmap: position %d exceeds capacity %d", e.Position, e.Capacity)
}

// bulkInsertBatch is the number of buffered positions accumulated before an
// automatic flush into the underlying Roaring bitmap. Flushing in batches
// amortizes the cost of AddMany, which is the O(1)-amortized part of the
// bulk_insert/flush contract in the spec.
const bulkInsertBatch = 4096

// Bitmap is a compressed bitmap over the fixed logical range [0, capacity).
//
// Bitmap is not safe for concurrent use; callers that decode blocks in
// parallel build one Bitmap per block and OR them into an accumulator on a
// single goroutine (see package unpack).
type Bitmap struct {
	rb       *roaring64.Bitmap
	capacity uint64
	pending  []uint64
}

// New constructs an empty Bitmap with the given fixed logical length.
func New(capacityBits uint64) (*Bitmap, error) {
	if capacityBits > MaxCapacityBits {
		return nil, &ErrCapacityExceeded{Capacity: capacityBits, RequestNew: true}
	}
	return &Bitmap{
		rb:       roaring64.New(),
		capacity: capacityBits,
	}, nil
}

// Capacity returns the bitmap's fixed logical length.
func (b *Bitmap) Capacity() uint64 {
	return b.capacity
}

// BulkInsert marks position as set. The insert may be buffered internally;
// call Flush to guarantee visibility to Enumerate/OrInPlace/Serialize.
func (b *Bitmap) BulkInsert(position uint64) error {
	if position >= b.capacity {
		return &ErrCapacityExceeded{Position: position, Capacity: b.capacity}
	}
	b.pending = append(b.pending, position)
	if len(b.pending) >= bulkInsertBatch {
		return b.Flush()
	}
	return nil
}

// Flush makes all prior BulkInsert calls visible to readers of the bitmap.
func (b *Bitmap) Flush() error {
	if len(b.pending) == 0 {
		return nil
	}
	b.rb.AddMany(b.pending)
	b.pending = b.pending[:0]
	return nil
}

// Cardinality returns the number of set positions. Implicitly flushes.
func (b *Bitmap) Cardinality() (uint64, error) {
	if err := b.Flush(); err != nil {
		return 0, err
	}
	return b.rb.GetCardinality(), nil
}

// OrInPlace unions other into b. Both bitmaps are flushed first.
func (b *Bitmap) OrInPlace(other *Bitmap) error {
	if err := b.Flush(); err != nil {
		return err
	}
	if err := other.Flush(); err != nil {
		return err
	}
	b.rb.Or(other.rb)
	return nil
}

// Enumerate returns a lazy ascending iterator over set positions. It is not
// restartable: each call produces a fresh sequence starting from the
// smallest set position at the time the iterator is obtained.
func (b *Bitmap) Enumerate() iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		if err := b.Flush(); err != nil {
			return
		}
		it := b.rb.Iterator()
		for it.HasNext() {
			if !yield(it.Next()) {
				return
			}
		}
	}
}

// Serialize writes the bitmap's compact binary form. The capacity is not
// part of the serialized form; callers reconstruct it from the file header.
func (b *Bitmap) Serialize() ([]byte, error) {
	if err := b.Flush(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := b.rb.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("bitmap: serialize: %w", err)
	}
	return buf.Bytes(), nil
}

// DeserializeInto unions the bitmap encoded in data into b, i.e.
// b := b ∪ deserialize(data). This is the operation that lets multiple
// independently-compressed blocks accumulate into one destination bitmap.
func (b *Bitmap) DeserializeInto(data []byte) error {
	scratch := roaring64.New()
	if _, err := scratch.ReadFrom(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("bitmap: deserialize: %w", err)
	}
	if err := b.Flush(); err != nil {
		return err
	}
	b.rb.Or(scratch)
	return nil
}
