package remoteio

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// parseMinioLocation splits "minio://endpoint/bucket/key/with/slashes"
// into its three parts.
func parseMinioLocation(location string) (endpoint, bucket, key string, err error) {
	rest := strings.TrimPrefix(location, "minio://")
	i := strings.IndexByte(rest, '/')
	if i < 0 {
		return "", "", "", fmt.Errorf("remoteio: minio location missing bucket/key: %q", location)
	}
	endpoint = rest[:i]
	bucket, key, err = splitBucketKey(rest[i+1:])
	return endpoint, bucket, key, err
}

func newMinioClient(endpoint string) (*minio.Client, error) {
	accessKey := envOr("MINIO_ACCESS_KEY", "")
	secretKey := envOr("MINIO_SECRET_KEY", "")
	useSSL := envOr("MINIO_USE_SSL", "true") == "true"
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("remoteio: new minio client for %s: %w", endpoint, err)
	}
	return client, nil
}

// openMinio streams an object directly, grounded on the teacher's
// blobstore/minio.Store.Open/minioBlob, adapted from ranged ReaderAt
// access to a single sequential GetObject stream.
func openMinio(ctx context.Context, location string) (io.ReadCloser, error) {
	endpoint, bucket, key, err := parseMinioLocation(location)
	if err != nil {
		return nil, err
	}
	client, err := newMinioClient(endpoint)
	if err != nil {
		return nil, err
	}
	obj, err := client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("remoteio: get minio://%s/%s/%s: %w", endpoint, bucket, key, err)
	}
	return obj, nil
}

// createMinio streams to MinIO through an io.Pipe fed to PutObject with an
// unknown content length, grounded on the teacher's
// blobstore/minio.Store.Create/minioWritableBlob.
func createMinio(ctx context.Context, location string) (io.WriteCloser, error) {
	endpoint, bucket, key, err := parseMinioLocation(location)
	if err != nil {
		return nil, err
	}
	client, err := newMinioClient(endpoint)
	if err != nil {
		return nil, err
	}

	pr, pw := io.Pipe()
	done := make(chan error, 1)

	go func() {
		_, err := client.PutObject(ctx, bucket, key, pr, -1, minio.PutObjectOptions{})
		_ = pr.CloseWithError(err)
		done <- err
	}()

	return &pipeWriteCloser{pw: pw, done: done}, nil
}
