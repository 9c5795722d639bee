package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

var ErrInvalidName = errors.New("Invalid blob name")
var ErrTooLarge = errors.New("Blob is too large")

// Storage is a read-only view of a blob store (eg GCS)
type Storage interface {
	// When finished, you must close File.Reader
	ReadFile(ctx context.Context, name string) (*File, error)
}

// File is an element in blob storage.
type File struct {
	Reader     io.ReadCloser
	ModifiedAt time.Time
	Size       int64
}

// Download copies the blob 'name' into the local file dstFilename.
// If maxBytes is not zero, then blobs larger than maxBytes are rejected with ErrTooLarge.
// If the copy fails, the partial file is deleted.
func Download(ctx context.Context, s Storage, name, dstFilename string, maxBytes int64) (int64, error) {
	f, err := s.ReadFile(ctx, name)
	if err != nil {
		return 0, err
	}
	defer f.Reader.Close()
	if maxBytes != 0 && f.Size > maxBytes {
		return 0, fmt.Errorf("%w: %v is %v bytes", ErrTooLarge, name, f.Size)
	}

	dst, err := os.Create(dstFilename)
	if err != nil {
		return 0, err
	}
	var src io.Reader = f.Reader
	if maxBytes != 0 {
		// Size is only a hint for some stores, so enforce the limit on the stream too
		src = io.LimitReader(f.Reader, maxBytes+1)
	}
	n, err := io.Copy(dst, src)
	errClose := dst.Close()
	if err == nil {
		err = errClose
	}
	if err == nil && maxBytes != 0 && n > maxBytes {
		err = fmt.Errorf("%w: %v is more than %v bytes", ErrTooLarge, name, maxBytes)
	}
	if err != nil {
		os.Remove(dstFilename)
		return 0, err
	}
	return n, nil
}
