package blob

import "context"

// Uploader persists generated artifacts and returns their public URL.
// Re-uploading the same key overwrites the previous artifact, so image
// regeneration stays idempotent.
type Uploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
