package remoteio

import (
	"io"
	"os"
)

// pipeWriteCloser adapts a background upload goroutine draining an
// io.Pipe into an io.WriteCloser: Close blocks until the upload either
// completes or fails, mirroring the teacher's s3WritableBlob/
// minioWritableBlob Close contract.
type pipeWriteCloser struct {
	pw   *io.PipeWriter
	done chan error
}

func (p *pipeWriteCloser) Write(b []byte) (int, error) {
	return p.pw.Write(b)
}

func (p *pipeWriteCloser) Close() error {
	if err := p.pw.Close(); err != nil {
		return err
	}
	return <-p.done
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
