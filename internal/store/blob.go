package store

import (
	"context"
	"fmt"
	"os"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/gcerrors"
)

// BlobKV stores each key as an object in a gocloud bucket.
type BlobKV struct {
	bucket *blob.Bucket
}

// OpenBlobKV opens a file-backed bucket in dir, creating it when needed.
func OpenBlobKV(dir string) (*BlobKV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	bucket, err := fileblob.OpenBucket(dir, &fileblob.Options{
		NoTempDir: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open bucket: %w", err)
	}
	return NewBlobKV(bucket), nil
}

// NewBlobKV wraps an already opened bucket. The KV takes ownership.
func NewBlobKV(bucket *blob.Bucket) *BlobKV {
	return &BlobKV{bucket: bucket}
}

func objectKey(key string) string {
	return key + ".json"
}

func (s *BlobKV) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.bucket.ReadAll(ctx, objectKey(key))
	if gcerrors.Code(err) == gcerrors.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

func (s *BlobKV) Put(ctx context.Context, key string, value []byte) error {
	if err := s.bucket.WriteAll(ctx, objectKey(key), value, &blob.WriterOptions{
		ContentType: "application/json",
	}); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *BlobKV) Close() error {
	return s.bucket.Close()
}
