// Package alignmentwriter provides the ambient configuration, logging,
// metrics, and error types shared by the pack and unpack paths of the
// pseudoalignment matrix codec.
//
// The codec itself — the container framing, XZ helper, sparse bitmap, and
// dialect parsers/printers — lives in the container, xzframe, bitmap, and
// dialect subpackages; pack and unpack wire those pieces together into the
// two user-visible operations.
//
// # Quick start
//
//	cfg := alignmentwriter.ApplyOptions([]alignmentwriter.Option{
//		alignmentwriter.WithBufferSize(256_000),
//		alignmentwriter.WithLogLevel(slog.LevelInfo),
//	})
//
// # Error kinds
//
// Pack and unpack report failures as one of the typed errors in errors.go
// (ErrCapacityExceeded, ErrUnknownFormat, ErrUnknownName, ErrMalformedFrame,
// ErrTruncated, ErrMalformedHeader, ErrCorruptPayload, ErrIO), matching the
// error table in the packed file format's design notes.
package alignmentwriter
