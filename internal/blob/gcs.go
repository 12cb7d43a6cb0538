package blob

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
)

type implUploader struct {
	client *storage.Client
	bucket string
}

// New creates a Cloud Storage backed Uploader writing into the given
// bucket. Returns nil when no bucket is configured, which disables image
// persistence.
func New(ctx context.Context, bucket string) (Uploader, error) {
	if bucket == "" {
		return nil, nil
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &implUploader{client: client, bucket: bucket}, nil
}

func (u *implUploader) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	writer := u.client.Bucket(u.bucket).Object(key).NewWriter(ctx)
	writer.ContentType = contentType

	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return "", fmt.Errorf("write object %s: %w", key, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finalize object %s: %w", key, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", u.bucket, key), nil
}
