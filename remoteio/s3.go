package remoteio

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func parseS3Location(location string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(location, "s3://")
	return splitBucketKey(rest)
}

func newS3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("remoteio: load AWS config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// openS3 streams an object's body directly, grounded on the teacher's
// blobstore/s3.Store.Open/s3Blob, adapted from ranged ReaderAt access to a
// single sequential GetObject stream.
func openS3(ctx context.Context, location string) (io.ReadCloser, error) {
	bucket, key, err := parseS3Location(location)
	if err != nil {
		return nil, err
	}
	client, err := newS3Client(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("remoteio: get s3://%s/%s: %w", bucket, key, err)
	}
	return resp.Body, nil
}

// createS3 streams to S3 through an io.Pipe fed to s3manager.Uploader,
// grounded on the teacher's blobstore/s3.Store.Create/s3WritableBlob.
func createS3(ctx context.Context, location string) (io.WriteCloser, error) {
	bucket, key, err := parseS3Location(location)
	if err != nil {
		return nil, err
	}
	client, err := newS3Client(ctx)
	if err != nil {
		return nil, err
	}

	pr, pw := io.Pipe()
	done := make(chan error, 1)
	uploader := manager.NewUploader(client)

	go func() {
		_, err := uploader.Upload(ctx, &s3.PutObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
			Body:   pr,
		})
		_ = pr.CloseWithError(err)
		done <- err
	}()

	return &pipeWriteCloser{pw: pw, done: done}, nil
}
