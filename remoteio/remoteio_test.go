package remoteio

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalFallbackRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "packed.bin")

	w, err := Create(context.Background(), path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	r, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("got %q, want %q", data, "hello")
	}
}

func TestOpenMissingLocalFile(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "missing.bin"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !os.IsNotExist(errUnwrapNotExist(err)) {
		t.Fatalf("expected a not-exist error, got %v", err)
	}
}

func errUnwrapNotExist(err error) error {
	type unwrapper interface{ Unwrap() error }
	for err != nil {
		if os.IsNotExist(err) {
			return err
		}
		u, ok := err.(unwrapper)
		if !ok {
			return err
		}
		err = u.Unwrap()
	}
	return err
}

func TestParseS3Location(t *testing.T) {
	bucket, key, err := parseS3Location("s3://my-bucket/path/to/object.bin")
	if err != nil {
		t.Fatalf("parseS3Location failed: %v", err)
	}
	if bucket != "my-bucket" || key != "path/to/object.bin" {
		t.Fatalf("got bucket=%q key=%q", bucket, key)
	}
}

func TestParseMinioLocation(t *testing.T) {
	endpoint, bucket, key, err := parseMinioLocation("minio://localhost:9000/my-bucket/path/to/object.bin")
	if err != nil {
		t.Fatalf("parseMinioLocation failed: %v", err)
	}
	if endpoint != "localhost:9000" || bucket != "my-bucket" || key != "path/to/object.bin" {
		t.Fatalf("got endpoint=%q bucket=%q key=%q", endpoint, bucket, key)
	}
}
