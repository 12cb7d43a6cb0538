package transcript

import (
	"context"
	"fmt"
	"strings"
)

const transcribePrompt = `Transcribe the audio of this video verbatim in its original language.
Write down exactly what is spoken, nothing else.
Do not summarize, comment, or describe the video. Output the spoken words only.`

// Acquire resolves a transcript for the video. The caption path is tried
// first because it is free and fast; its failures are logged and treated as
// "no captions". Only a hard failure of the Gemini call is surfaced.
func (a *implAcquirer) Acquire(ctx context.Context, youtubeVideoID string) (string, error) {
	captions, err := a.fetchCaptions(ctx, youtubeVideoID)
	if err != nil {
		a.logger.Warn(ctx, "Caption extraction failed for %s: %v", youtubeVideoID, err)
	}
	if strings.TrimSpace(captions) != "" {
		a.logger.Info(ctx, "Transcript from captions: %s", youtubeVideoID)
		return captions, nil
	}

	if a.gemini == nil {
		a.logger.Info(ctx, "No Gemini key configured, skipping speech recognition for %s", youtubeVideoID)
		return "", nil
	}

	a.logger.Info(ctx, "Transcribing with Gemini: %s", youtubeVideoID)
	videoURL := "https://www.youtube.com/watch?v=" + youtubeVideoID
	text, err := a.gemini.TranscribeVideo(ctx, a.model, videoURL, transcribePrompt)
	if err != nil {
		return "", fmt.Errorf("gemini transcription: %w", err)
	}
	return strings.TrimSpace(text), nil
}
