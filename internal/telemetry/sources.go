package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// FileSource reads the payload from a local JSON file
type FileSource struct {
	Path string
}

// NewFileSource returns a source for path
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (f *FileSource) Open(_ context.Context) (io.ReadCloser, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: file not found: %s", ErrSourceUnavailable, f.Path)
		}
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return file, nil
}

func (f *FileSource) Name() string {
	return "file://" + f.Path
}

// ObjectGetter is the part of the S3 client used by S3Source
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads the payload from an S3 object
type S3Source struct {
	client ObjectGetter
	Bucket string
	Key    string
}

// NewS3Source builds a source with the default AWS credential chain
func NewS3Source(ctx context.Context, bucket, key string) (*S3Source, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewS3SourceWithClient(s3.NewFromConfig(cfg), bucket, key), nil
}

// NewS3SourceWithClient builds a source around an existing client
func NewS3SourceWithClient(client ObjectGetter, bucket, key string) *S3Source {
	return &S3Source{client: client, Bucket: bucket, Key: key}
}

// Open returns the object body; the caller closes it.
func (s *S3Source) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("%w: object not found: %s", ErrSourceUnavailable, s.Name())
		}
		return nil, fmt.Errorf("%w: get %s: %v", ErrSourceUnavailable, s.Name(), err)
	}
	return resp.Body, nil
}

func (s *S3Source) Name() string {
	return fmt.Sprintf("s3://%s/%s", s.Bucket, s.Key)
}
