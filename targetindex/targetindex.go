// Package targetindex builds a target name→position index from a plain
// target-list file (component L): one name per line, in order, blank
// lines skipped.
package targetindex

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/tmaklin/alignment-writer/dialect"
)

// FromList scans r for one target name per line and returns a
// dialect.Index mapping each name, in order of appearance, to its
// position.
func FromList(r io.Reader) (*dialect.MapIndex, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 64*1024*1024)

	var names []string
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		names = append(names, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("targetindex: scan target list: %w", err)
	}
	return dialect.NewMapIndex(names), nil
}
