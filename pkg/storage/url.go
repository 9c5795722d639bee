package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/tracklabel/pkg/track"
)

var ErrInvalidURL = errors.New("Invalid blob URL")

const GCSScheme = "gs://"

// Location is a parsed blob URL such as gs://ucf-crime-dataset/Abuse/Abuse001_x264.mp4
type Location struct {
	Bucket string // ucf-crime-dataset
	Path   string // Abuse/Abuse001_x264.mp4
	Name   string // Abuse001_x264.mp4
}

func (l Location) String() string {
	return GCSScheme + l.Bucket + "/" + l.Path
}

// ParseURL splits a gs:// URL into bucket, object path, and file name
func ParseURL(url string) (Location, error) {
	if !strings.HasPrefix(url, GCSScheme) {
		return Location{}, fmt.Errorf("%w: '%v' does not start with %v", ErrInvalidURL, url, GCSScheme)
	}
	bucket, objectPath, _ := strings.Cut(url[len(GCSScheme):], "/")
	if bucket == "" || objectPath == "" || strings.HasSuffix(objectPath, "/") {
		return Location{}, fmt.Errorf("%w: '%v' needs a bucket and an object path", ErrInvalidURL, url)
	}
	return Location{
		Bucket: bucket,
		Path:   objectPath,
		Name:   path.Base(objectPath),
	}, nil
}

// Open opens a local file, or a gs:// object from a public bucket.
// Any failure is reported as track.ErrResourceUnavailable.
func Open(ctx context.Context, log logs.Log, src string) (io.ReadCloser, error) {
	if !strings.HasPrefix(src, GCSScheme) {
		f, err := os.Open(src)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", track.ErrResourceUnavailable, err)
		}
		return f, nil
	}
	loc, err := ParseURL(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", track.ErrResourceUnavailable, err)
	}
	s, err := NewStorageGCS(log, loc.Bucket, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", track.ErrResourceUnavailable, err)
	}
	f, err := s.ReadFile(ctx, loc.Path)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("%w: %v: %v", track.ErrResourceUnavailable, loc, err)
	}
	return &gcsFileReader{ReadCloser: f.Reader, storage: s}, nil
}

// Closes the GCS client along with the object reader
type gcsFileReader struct {
	io.ReadCloser
	storage *StorageGCS
}

func (r *gcsFileReader) Close() error {
	err := r.ReadCloser.Close()
	r.storage.Close()
	return err
}
