// Package manifest records operational metadata about packed files
// (component O): dimensions, dialect, size, and creation time, kept
// independent of the packed file's own self-describing header so a
// catalog can be listed without opening every file.
package manifest

import (
	"context"
)

// Entry is one packed file's operational record.
type Entry struct {
	Key         string `json:"key"`
	NQueries    int    `json:"n_queries"`
	NTargets    int    `json:"n_targets"`
	InputFormat string `json:"input_format"`
	Size        int64  `json:"size"`
	CreatedAt   int64  `json:"created_at"` // unix seconds
}

// Store records and lists manifest entries.
type Store interface {
	Record(ctx context.Context, e Entry) error
	List(ctx context.Context) ([]Entry, error)
}
