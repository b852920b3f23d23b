package files

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
)

// GCS stores blobs in a public-read Google Cloud Storage bucket, the object
// store the hosted deployment uses. URLs are stable storage.googleapis.com
// links.
type GCS struct {
	bucket     *storage.BucketHandle
	bucketName string
}

func NewGCS(ctx context.Context, bucketName string) (*GCS, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage client: %w", err)
	}
	return &GCS{
		bucket:     client.Bucket(bucketName),
		bucketName: bucketName,
	}, nil
}

func (g *GCS) Put(ctx context.Context, pathHint, contentType string, r io.Reader) (string, error) {
	name := objectName(pathHint)

	w := g.bucket.Object(name).NewWriter(ctx)
	w.ACL = []storage.ACLRule{{Entity: storage.AllUsers, Role: storage.RoleReader}}
	w.ContentType = contentType
	w.CacheControl = "public, max-age=86400"

	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("write object %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize object %s: %w", name, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucketName, name), nil
}
