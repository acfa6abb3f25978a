// Package export writes generated bitmaps to a bucket.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"

	"github.com/glassqr/glassqr/internal/qr"
)

const timestampLayout = "2006-01-02-15-04-05"

// FileName returns QR-Code-<size>-<timestamp>.png with the time in UTC.
func FileName(size qr.Size, at time.Time) string {
	if _, err := qr.ParseSize(string(size)); err != nil {
		size = qr.DefaultSize
	}
	return fmt.Sprintf("QR-Code-%s-%s.png", size, at.UTC().Format(timestampLayout))
}

// Exporter saves PNG files.
type Exporter struct {
	bucket *blob.Bucket
	dir    string
}

// OpenDir returns an exporter writing into dir.
func OpenDir(dir string) (*Exporter, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	bucket, err := fileblob.OpenBucket(abs, &fileblob.Options{
		CreateDir: true,
		NoTempDir: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open export bucket: %w", err)
	}
	return &Exporter{bucket: bucket, dir: abs}, nil
}

// New wraps an opened bucket. dir is only used to report locations.
func New(bucket *blob.Bucket, dir string) *Exporter {
	return &Exporter{bucket: bucket, dir: dir}
}

// SavePNG writes data under name and returns the resulting location.
func (e *Exporter) SavePNG(ctx context.Context, name string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("nothing to write for %s", name)
	}
	if err := e.bucket.WriteAll(ctx, name, data, &blob.WriterOptions{
		ContentType: "image/png",
	}); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return filepath.Join(e.dir, name), nil
}

func (e *Exporter) Close() error {
	return e.bucket.Close()
}
