package summarize

import "context"

// Result is the structured article produced from a transcript. Every field
// is optional: a parse miss leaves the field empty rather than failing.
type Result struct {
	Title       string
	Body        string
	SessionType *string
	Tags        []string
}

// Summarizer turns a raw transcript plus the live council roster into a
// structured article grounded on the domain glossary.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string, councilNames []string) (*Result, error)
}
