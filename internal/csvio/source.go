package csvio

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Opener opens a table location for reading.
type Opener interface {
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}

// FileOpener opens local files. Relative locations are resolved against
// BaseDir; an empty BaseDir means the working directory.
type FileOpener struct {
	BaseDir string
}

// Resolve returns the path a location refers to.
func (f FileOpener) Resolve(location string) string {
	if f.BaseDir == "" || filepath.IsAbs(location) {
		return location
	}
	return filepath.Join(f.BaseDir, location)
}

// Open opens the file for the location.
func (f FileOpener) Open(_ context.Context, location string) (io.ReadCloser, error) {
	file, err := os.Open(f.Resolve(location))
	if err != nil {
		return nil, err
	}
	return file, nil
}

// S3Scheme prefixes locations served from S3.
const S3Scheme = "s3://"

// Sources routes a location to the opener for its scheme.
type Sources struct {
	Files FileOpener

	// S3 serves s3:// locations. Nil means s3:// locations fail to open.
	S3 Opener
}

// Open opens the location with the matching opener.
func (s *Sources) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	if strings.HasPrefix(location, S3Scheme) {
		if s.S3 == nil {
			return nil, fmt.Errorf("no S3 client configured for %s", location)
		}
		return s.S3.Open(ctx, location)
	}
	return s.Files.Open(ctx, location)
}
