package illustrate

import "context"

// Illustrator derives the two visual artifacts for an article. Both calls
// return the persisted public URL, or nil on any failure - illustration is
// always best-effort and never fails the pipeline.
type Illustrator interface {
	// Thumbnail renders the wide list image. The prompt forbids any
	// rendered text.
	Thumbnail(ctx context.Context, articleID, title, summary string) *string
	// Infographic renders the in-article process illustration.
	Infographic(ctx context.Context, articleID, summary string) *string
}
