package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

func (c *implClient) GenerateText(ctx context.Context, model, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.3),
		MaxOutputTokens: 4096,
	}
	result, err := c.generate(ctx, model, genai.Text(prompt), cfg)
	if err != nil {
		return "", err
	}
	text := candidateText(result)
	if text == "" {
		return "", fmt.Errorf("empty response from Gemini")
	}
	return text, nil
}

func (c *implClient) TranscribeVideo(ctx context.Context, model, videoURL, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromURI(videoURL, "video/mp4"),
			genai.NewPartFromText(prompt),
		}, genai.RoleUser),
	}
	result, err := c.generate(ctx, model, contents, nil)
	if err != nil {
		return "", err
	}
	return candidateText(result), nil
}

func (c *implClient) GenerateImage(ctx context.Context, model, prompt string) (*Image, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	}
	result, err := c.generate(ctx, model, genai.Text(prompt), cfg)
	if err != nil {
		return nil, err
	}

	// The response is multi-part: take the first inline image, skip any
	// text parts alongside it.
	for _, part := range candidateParts(result) {
		if part.InlineData != nil && strings.HasPrefix(part.InlineData.MIMEType, "image/") {
			return &Image{
				Data:     part.InlineData.Data,
				MIMEType: part.InlineData.MIMEType,
			}, nil
		}
	}
	return nil, fmt.Errorf("response contained no image data")
}

// generate performs one GenerateContent call, rotating API keys on quota
// errors until every key has been tried.
func (c *implClient) generate(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	attempts := len(c.apiKeys)
	var lastErr error

	for range attempts {
		idx, key := c.key()

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			c.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, model, contents, cfg)
		if err != nil {
			if isQuotaError(err) {
				c.logger.Warn(ctx, "Gemini key %d rate limited, rotating...", idx+1)
				c.rotateKey()
				lastErr = err
				continue
			}
			return nil, fmt.Errorf("generate content: %w", err)
		}
		return result, nil
	}

	return nil, fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (c *implClient) key() (int, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentKey, c.apiKeys[c.currentKey]
}

func (c *implClient) rotateKey() {
	c.mu.Lock()
	c.currentKey = (c.currentKey + 1) % len(c.apiKeys)
	c.mu.Unlock()
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func candidateParts(result *genai.GenerateContentResponse) []*genai.Part {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return nil
	}
	return result.Candidates[0].Content.Parts
}

func candidateText(result *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, part := range candidateParts(result) {
		if part.Text != "" {
			text.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(text.String())
}
