package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tmaklin/alignment-writer/remoteio"
)

// isRemote reports whether location names an s3:// or minio:// object
// rather than a local path.
func isRemote(location string) bool {
	return strings.HasPrefix(location, "s3://") || strings.HasPrefix(location, "minio://")
}

// openInput resolves the positional input argument (or stdin, when absent)
// into a stream plus a label usable for deriving an output path.
func openInput(ctx context.Context, args []string) (io.ReadCloser, string, error) {
	if len(args) == 0 {
		return io.NopCloser(os.Stdin), "", nil
	}
	if len(args) > 1 {
		return nil, "", fmt.Errorf("at most one input path expected, got %d", len(args))
	}
	path := args[0]
	r, err := remoteio.Open(ctx, path)
	if err != nil {
		return nil, "", err
	}
	return r, path, nil
}

// resolveOutput picks the output stream for a run: stdout when toStdout is
// set or there is no usable input-derived path, otherwise the given
// destination path. When binaryOutput is set (packed bytes), writing to a
// terminal is refused unless force is set.
func resolveOutput(ctx context.Context, destPath string, toStdout, force, binaryOutput bool) (io.WriteCloser, error) {
	if toStdout || destPath == "" {
		if binaryOutput && !force && isTerminal(os.Stdout) {
			return nil, fmt.Errorf("refusing to write binary output to a terminal (use -f/--force or redirect)")
		}
		return nopWriteCloser{os.Stdout}, nil
	}
	if !force && !isRemote(destPath) {
		if _, err := os.Stat(destPath); err == nil {
			return nil, fmt.Errorf("output %s already exists (use -f/--force to overwrite)", destPath)
		}
	}
	return remoteio.Create(ctx, destPath)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// isTerminal reports whether f is connected to a character device, the
// stdlib-only signal available without pulling in a terminal-detection
// library; no example in the corpus does this check.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// removeInput deletes the local input file named by inputPath, unless keep
// is set or the path is remote or empty (stdin).
func removeInput(inputPath string, keep bool) {
	if !keep && inputPath != "" && !isRemote(inputPath) {
		os.Remove(inputPath)
	}
}
