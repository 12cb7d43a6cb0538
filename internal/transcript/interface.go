package transcript

import "context"

// Acquirer resolves the spoken-word transcript for a source video. An empty
// string means no usable transcript, which is not an error; a non-nil error
// means the speech-recognition backend itself failed and the invocation
// should stop.
type Acquirer interface {
	Acquire(ctx context.Context, youtubeVideoID string) (string, error)
}
