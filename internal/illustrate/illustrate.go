package illustrate

import (
	"context"
	"fmt"
)

const (
	thumbnailMaxSummaryChars   = 800
	infographicMaxSummaryChars = 2000
)

const thumbnailPromptFmt = `Create a YouTube-thumbnail style image for a city council news article.

Art direction:
- Cute illustrated characters at the center of the composition
- Absolutely no text of any kind, in any language
- Bright palette built on orange, white, and yellow
- Pop, eye-catching look
- 16:9 aspect ratio
- Express the council topic through symbolic illustration only
- People drawn as simple cartoon characters

Article content:
Title: %s
Overview: %s

Illustration hints by topic:
- Budget / money: coins, piggy banks, charts with characters
- Education: schools, books, studying characters
- Welfare: hearts, people holding hands, smiling characters
- Environment: trees, sunshine, characters in nature
- Infrastructure: buildings, roads, construction characters
- Tourism: sea, boats, scenery
- Disaster prevention: shields, helmets, protective characters

Convey everything with illustration and characters; never render text.`

const infographicPromptFmt = `Create an illustrated infographic that explains the following city council
content to residents at a glance.

Art direction:
- Cute illustrations and icons explaining the content visually
- People as simple cartoon characters (council members, residents, the mayor)
- Speech bubbles and arrows to make the flow easy to follow
- Warm palette built on orange, white, and yellow
- Keep text to a minimum; let icons and illustration carry the message
- Pop, approachable mood
- Express three to five key points as illustrations

Summary:
%s`

func (i *implIllustrator) Thumbnail(ctx context.Context, articleID, title, summary string) *string {
	if title == "" {
		title = "City council news"
	}
	prompt := fmt.Sprintf(thumbnailPromptFmt, title, truncate(summary, thumbnailMaxSummaryChars))
	return i.generateAndUpload(ctx, "thumbnails", articleID, prompt)
}

func (i *implIllustrator) Infographic(ctx context.Context, articleID, summary string) *string {
	prompt := fmt.Sprintf(infographicPromptFmt, truncate(summary, infographicMaxSummaryChars))
	return i.generateAndUpload(ctx, "infographics", articleID, prompt)
}

// generateAndUpload runs one image generation plus upload. Every failure
// path logs and returns nil; the article simply goes out without that
// artifact.
func (i *implIllustrator) generateAndUpload(ctx context.Context, partition, articleID, prompt string) *string {
	if i.gemini == nil {
		i.logger.Info(ctx, "No Gemini key configured, skipping %s generation", partition)
		return nil
	}
	if i.uploader == nil {
		i.logger.Info(ctx, "No storage bucket configured, skipping %s generation", partition)
		return nil
	}

	img, err := i.gemini.GenerateImage(ctx, i.model, prompt)
	if err != nil {
		i.logger.Error(ctx, "Image generation failed (%s, article %s): %v", partition, articleID, err)
		return nil
	}

	// Content-addressed by article id: regenerating overwrites the old file.
	key := fmt.Sprintf("%s/%s.%s", partition, articleID, extensionFor(img.MIMEType))
	url, err := i.uploader.Upload(ctx, key, img.Data, img.MIMEType)
	if err != nil {
		i.logger.Error(ctx, "Image upload failed (%s, article %s): %v", partition, articleID, err)
		return nil
	}

	i.logger.Info(ctx, "Uploaded %s for article %s: %s", partition, articleID, url)
	return &url
}

func extensionFor(mimeType string) string {
	if mimeType == "image/jpeg" {
		return "jpg"
	}
	return "png"
}

// truncate caps s at max characters, never splitting a multi-byte rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
