package alignmentwriter

import "fmt"

// ErrCapacityExceeded is returned when N_q * N_t exceeds the hard ceiling
// of 2^47. A bulk insert at or beyond a bitmap's configured capacity is
// reported as a *bitmap.ErrCapacityExceeded instead.
type ErrCapacityExceeded struct {
	NQueries int
	NTargets int
}

func (e *ErrCapacityExceeded) Error() string {
	return fmt.Sprintf("capacity exceeded: %d queries * %d targets > 2^47", e.NQueries, e.NTargets)
}

// ErrUnknownFormat is returned when the CLI or API receives a dialect tag
// that is not one of themisto, fulgor, bifrost, metagraph, or SAM.
type ErrUnknownFormat struct {
	Format string
}

func (e *ErrUnknownFormat) Error() string {
	return fmt.Sprintf("unknown format %q", e.Format)
}

// ErrUnknownName is returned when a dialect parser encounters a query or
// target name absent from its index, or when bifrost's preamble column
// order disagrees with the target index.
type ErrUnknownName struct {
	Name string
	Line int
	Kind string // "query" or "target"
}

func (e *ErrUnknownName) Error() string {
	return fmt.Sprintf("unknown %s name %q on line %d", e.Kind, e.Name, e.Line)
}

// ErrMalformedFrame is returned when the XZ magic is absent at a position
// where a frame boundary was expected.
type ErrMalformedFrame struct{}

func (e *ErrMalformedFrame) Error() string {
	return "malformed frame: xz magic absent at expected boundary"
}

// ErrTruncated is returned when EOF is reached before a required byte
// count, or before an XZ stream's footer, has been observed.
type ErrTruncated struct {
	Detail string
}

func (e *ErrTruncated) Error() string {
	return fmt.Sprintf("truncated: %s", e.Detail)
}

// ErrMalformedHeader is returned when a structured header payload fails
// to parse as JSON or is missing required keys.
type ErrMalformedHeader struct {
	Detail string
}

func (e *ErrMalformedHeader) Error() string {
	return fmt.Sprintf("malformed header: %s", e.Detail)
}

// ErrCorruptPayload is returned when a block's bitmap payload fails to
// deserialize.
type ErrCorruptPayload struct {
	cause error
}

func (e *ErrCorruptPayload) Error() string {
	return fmt.Sprintf("corrupt payload: %v", e.cause)
}

func (e *ErrCorruptPayload) Unwrap() error { return e.cause }

// ErrIO wraps an underlying reader/writer error encountered at an I/O
// point not otherwise classified above.
type ErrIO struct {
	cause error
}

func (e *ErrIO) Error() string {
	return fmt.Sprintf("io error: %v", e.cause)
}

func (e *ErrIO) Unwrap() error { return e.cause }

// WrapIO wraps err as an ErrIO. It returns nil if err is nil.
func WrapIO(err error) error {
	if err == nil {
		return nil
	}
	return &ErrIO{cause: err}
}
