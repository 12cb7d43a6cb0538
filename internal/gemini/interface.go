package gemini

import "context"

// Image is an inline image payload returned by an image-generation call.
type Image struct {
	Data     []byte
	MIMEType string
}

// Client wraps the Gemini API for the three generative calls the pipeline
// makes. Implementations rotate API keys on quota errors.
type Client interface {
	// GenerateText sends a text prompt and returns the concatenated text of
	// the first candidate.
	GenerateText(ctx context.Context, model, prompt string) (string, error)
	// TranscribeVideo passes a remote video URL plus an instruction and
	// returns the transcription text. No local download happens; the backend
	// fetches the media itself.
	TranscribeVideo(ctx context.Context, model, videoURL, prompt string) (string, error)
	// GenerateImage requests an image and returns the first inline image
	// part, ignoring any accompanying text parts. Returns an error when the
	// response carries no image data.
	GenerateImage(ctx context.Context, model, prompt string) (*Image, error)
}
