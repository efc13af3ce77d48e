// Package archive uploads exported files to Google Cloud Storage.
package archive

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"

	"github.com/fsecamp/reimburse/export"
)

// Uploader stores exported files and returns their URIs.
type Uploader interface {
	Upload(ctx context.Context, file export.File) (string, error)
}

// Location is a bucket and an object prefix.
type Location struct {
	Bucket string
	Prefix string
}

// ParseURI parses gs://bucket/prefix. The prefix may be empty.
func ParseURI(uri string) (Location, error) {
	if !strings.HasPrefix(uri, "gs://") {
		return Location{}, fmt.Errorf("invalid GCS URI: %s", uri)
	}
	bucket, prefix, _ := strings.Cut(strings.TrimPrefix(uri, "gs://"), "/")
	if bucket == "" {
		return Location{}, fmt.Errorf("invalid GCS URI (no bucket): %s", uri)
	}
	return Location{Bucket: bucket, Prefix: strings.Trim(prefix, "/")}, nil
}

// ObjectName returns the object name of filename under the prefix.
func (l Location) ObjectName(filename string) string {
	if l.Prefix == "" {
		return filename
	}
	return path.Join(l.Prefix, filename)
}

// URI returns the gs:// URI of filename under the location.
func (l Location) URI(filename string) string {
	return "gs://" + l.Bucket + "/" + l.ObjectName(filename)
}

// GCS uploads files to a bucket. It assumes Application Default Credentials
// are configured.
type GCS struct {
	client   *storage.Client
	location Location
	timeout  time.Duration
}

var _ Uploader = (*GCS)(nil)

// NewGCS creates an uploader with its own client for the gs:// URI.
func NewGCS(ctx context.Context, uri string) (*GCS, error) {
	loc, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCS{client: client, location: loc, timeout: 2 * time.Minute}, nil
}

// Close closes the storage client.
func (g *GCS) Close() error {
	return g.client.Close()
}

// Upload writes file to the bucket and returns its URI.
func (g *GCS) Upload(ctx context.Context, file export.File) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	obj := g.client.Bucket(g.location.Bucket).Object(g.location.ObjectName(file.Name))
	w := obj.NewWriter(ctx)
	w.ContentType = file.ContentType

	if _, err := w.Write(file.Data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write %s to GCS: %w", file.Name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize upload of %s: %w", file.Name, err)
	}
	return g.location.URI(file.Name), nil
}

// UploadAll uploads files in order and returns their URIs. It stops at the
// first failure.
func UploadAll(ctx context.Context, u Uploader, files []export.File) ([]string, error) {
	uris := make([]string, 0, len(files))
	for _, f := range files {
		uri, err := u.Upload(ctx, f)
		if err != nil {
			return uris, err
		}
		uris = append(uris, uri)
	}
	return uris, nil
}
