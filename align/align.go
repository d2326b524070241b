// Package align defines the runtime Alignment object (component G): the
// in-memory bundle of a sparse bitmap, its dimensions, the target-name
// column order, the union of query annotations seen so far, and the
// dialect the data originated from or will be printed as.
package align

import (
	"sort"

	"github.com/tmaklin/alignment-writer/bitmap"
)

// Alignment owns the sparse bitmap sized N_q * N_t, the target-name vector
// in column order, the set of query annotations accumulated from block
// headers, and the originating dialect tag.
//
// An Alignment produced by a full (in-memory) unpack carries every query
// that appears anywhere in the file. An Alignment produced for one block
// during streaming decode carries only that block's queries; its bitmap
// has bits set only within those queries' rows, since the packer
// guarantees a query's hits never span more than one block.
type Alignment struct {
	NQueries    int
	NTargets    int
	TargetNames []string // index = target position, length NTargets
	QueryNames  map[int]string
	Format      string // dialect tag: themisto, fulgor, bifrost, metagraph, or sam
	Bitmap      *bitmap.Bitmap
}

// New constructs an empty Alignment sized NQueries * NTargets for the given
// dialect and target-name column order.
func New(nQueries, nTargets int, targetNames []string, format string) (*Alignment, error) {
	bm, err := bitmap.New(uint64(nQueries) * uint64(nTargets))
	if err != nil {
		return nil, err
	}
	return &Alignment{
		NQueries:    nQueries,
		NTargets:    nTargets,
		TargetNames: targetNames,
		QueryNames:  make(map[int]string),
		Format:      format,
		Bitmap:      bm,
	}, nil
}

// Merge folds other into a: the bitmap is OR-merged and other's query
// annotations are added to a's annotation set. This is the per-block fold
// step used by the unpacker (spec §4.F/§5): OR-merge is associative and
// commutative, so Merge may be called in any completion order.
func (a *Alignment) Merge(other *Alignment) error {
	if err := a.Bitmap.OrInPlace(other.Bitmap); err != nil {
		return err
	}
	for pos, name := range other.QueryNames {
		a.QueryNames[pos] = name
	}
	return nil
}

// SortedQueryPositions returns the positions present in QueryNames in
// ascending order.
func (a *Alignment) SortedQueryPositions() []int {
	positions := make([]int, 0, len(a.QueryNames))
	for pos := range a.QueryNames {
		positions = append(positions, pos)
	}
	sort.Ints(positions)
	return positions
}
