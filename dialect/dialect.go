// Package dialect implements the parser/printer contract and the five
// concrete text dialects (component B): themisto, fulgor, bifrost,
// metagraph, and SAM.
package dialect

import (
	"bufio"
	"io"

	"github.com/tmaklin/alignment-writer/align"
)

// Index maps query or target names to their [0, N) position and back. The
// queryindex and targetindex packages build concrete implementations from
// external reads/target-list files; MapIndex is a minimal implementation
// usable directly in tests.
type Index interface {
	Pos(name string) (int, bool)
	Name(pos int) (string, bool)
}

// MapIndex is a name<->position index backed by a slice in position order.
type MapIndex struct {
	names []string
	pos   map[string]int
}

// NewMapIndex builds a MapIndex from names in position order; names[i] has
// position i.
func NewMapIndex(names []string) *MapIndex {
	pos := make(map[string]int, len(names))
	for i, n := range names {
		pos[n] = i
	}
	return &MapIndex{names: names, pos: pos}
}

func (m *MapIndex) Pos(name string) (int, bool) {
	p, ok := m.pos[name]
	return p, ok
}

func (m *MapIndex) Name(pos int) (string, bool) {
	if pos < 0 || pos >= len(m.names) {
		return "", false
	}
	return m.names[pos], true
}

// Len returns the number of names in the index.
func (m *MapIndex) Len() int {
	return len(m.names)
}

// Names returns the index's names in position order. The returned slice
// must not be mutated by the caller.
func (m *MapIndex) Names() []string {
	return m.names
}

// LineReader is a bufio.Scanner wrapper that supports pushing one line
// back, so preamble parsers can peek ahead (SAM's header block) without
// losing the first data line.
type LineReader struct {
	sc      *bufio.Scanner
	pending *string
}

// NewLineReader wraps r for line-oriented parsing. Long dense bifrost rows
// (one field per target) can exceed bufio.Scanner's default 64KiB token
// limit, so the buffer is grown well past it.
func NewLineReader(r io.Reader) *LineReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	return &LineReader{sc: sc}
}

// Next returns the next line, or ok=false at EOF.
func (l *LineReader) Next() (string, bool) {
	if l.pending != nil {
		line := *l.pending
		l.pending = nil
		return line, true
	}
	if l.sc.Scan() {
		return l.sc.Text(), true
	}
	return "", false
}

// Push makes line the next value returned by Next.
func (l *LineReader) Push(line string) {
	l.pending = &line
}

// Err returns the first non-EOF error encountered by the underlying
// scanner, if any.
func (l *LineReader) Err() error {
	return l.sc.Err()
}

// Inserter records a hit at a 1-D bitmap position.
type Inserter func(pos uint64) error

// Parser implements the per-dialect half of the shared contract in spec
// §4.B: consume any preamble, then interpret data lines one at a time.
type Parser interface {
	// ConsumePreamble reads and processes any dialect-specific header
	// lines at the start of the stream (bifrost's column line, SAM's `@`
	// block). It must leave lr positioned at the first data line. Dialects
	// without a preamble are no-ops.
	ConsumePreamble(lr *LineReader, tIndex Index) error

	// ParseLine interprets one data line, inserting a bitmap position for
	// every (query, target) hit and recording the query's position and
	// name into seen. It returns the number of hits found on the line.
	ParseLine(line string, lineNo int, qIndex, tIndex Index, nTargets int, insert Inserter, seen map[int]string) (int, error)
}

// Printer implements the per-dialect half of the output contract: given a
// (possibly block-local) Alignment, write its text representation.
// blockIndex is the 0-based index of the block being printed (always 0 for
// a dialect whose Dialect.Streaming is false, since those always print a
// single, fully-accumulated Alignment); dialects with a one-shot preamble
// that must not repeat across blocks, such as SAM's `@SQ`/`@PG` lines,
// gate that preamble on blockIndex == 0.
type Printer interface {
	Print(w io.Writer, a *align.Alignment, blockIndex int) error
}

// Dialect bundles a parser and printer under a stable name, plus whether
// the dialect can be printed incrementally, block by block, during
// streaming decode (spec §4.F). Only bifrost cannot: it emits a dense
// matrix with a preamble over every target, so it requires the full
// accumulated Alignment.
type Dialect struct {
	Name      string
	Parser    Parser
	Printer   Printer
	Streaming bool
}

var registry = map[string]Dialect{}

func register(d Dialect) {
	registry[d.Name] = d
}

// ByName returns the registered dialect for name, if any.
func ByName(name string) (Dialect, bool) {
	d, ok := registry[name]
	return d, ok
}

// GroupRows groups ascending bitmap positions into per-query-row column
// lists. Because bits is guaranteed to yield positions in ascending order
// and nTargets is fixed, each row's columns arrive already sorted.
func GroupRows(bits func(yield func(uint64) bool), nTargets int) map[int][]int {
	rows := make(map[int][]int)
	bits(func(pos uint64) bool {
		row := int(pos / uint64(nTargets))
		col := int(pos % uint64(nTargets))
		rows[row] = append(rows[row], col)
		return true
	})
	return rows
}
