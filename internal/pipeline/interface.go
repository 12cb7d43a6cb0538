package pipeline

import (
	"context"
	"errors"
)

// ErrUpstream marks a failure of an external collaborator call that is
// fatal to the invocation. The handler maps it to a 502.
var ErrUpstream = errors.New("upstream call failed")

// Result reports what a pipeline invocation produced.
type Result struct {
	Message     string `json:"message"`
	ArticleID   string `json:"articleId"`
	Summary     bool   `json:"summary"`
	Thumbnail   bool   `json:"thumbnail"`
	Infographic bool   `json:"infographic"`
}

// Pipeline drives a video through transcription, summarization, and
// illustration to a publishable article, persisting status after every
// transition so a crashed invocation resumes where it stopped.
type Pipeline interface {
	Process(ctx context.Context, videoID string) (*Result, error)
	// RegenerateSummaries re-runs summarization for every article that has
	// a stored transcript.
	RegenerateSummaries(ctx context.Context) (updated, failed int, err error)
}
