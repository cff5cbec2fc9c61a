package upload

import (
	"context"
	"io"
	"net/url"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSBackend writes uploads to a Cloud Storage bucket. Objects must be
// publicly readable for the generated links to resolve.
type GCSBackend struct {
	client *storage.Client
	bucket *storage.BucketHandle
	prefix string
}

func NewGCSBackend(ctx context.Context, bucket, prefix string, opts ...option.ClientOption) (*GCSBackend, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &GCSBackend{client: client, bucket: client.Bucket(bucket), prefix: prefix}, nil
}

func (g *GCSBackend) Put(ctx context.Context, key string, r io.Reader) (int64, error) {
	w := g.bucket.Object(g.prefix + key).NewWriter(ctx)
	n, err := io.Copy(w, r)
	if err != nil {
		_ = w.Close()
		return n, err
	}
	return n, w.Close()
}

func (g *GCSBackend) URL(_, key string) string {
	return "https://storage.googleapis.com/" + g.bucket.BucketName() + "/" + (&url.URL{Path: g.prefix + key}).EscapedPath()
}

func (g *GCSBackend) Close() error { return g.client.Close() }
