package transcript

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// timedText mirrors the XML payload of YouTube's caption endpoint.
type timedText struct {
	XMLName xml.Name `xml:"transcript"`
	Lines   []struct {
		Text string `xml:",chardata"`
	} `xml:"text"`
}

// fetchCaptions pulls pre-existing captions for the video. Returns an empty
// string when the video has no caption track.
func (a *implAcquirer) fetchCaptions(ctx context.Context, youtubeVideoID string) (string, error) {
	endpoint := fmt.Sprintf("%s?lang=%s&v=%s",
		a.captionBaseURL, url.QueryEscape(a.captionLang), url.QueryEscape(youtubeVideoID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build caption request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch captions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("caption endpoint returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read caption body: %w", err)
	}

	// Videos without a caption track answer with an empty body.
	if len(body) == 0 {
		return "", nil
	}

	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return "", fmt.Errorf("parse caption xml: %w", err)
	}

	var lines []string
	for _, line := range tt.Lines {
		if text := strings.TrimSpace(html.UnescapeString(line.Text)); text != "" {
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, "\n"), nil
}
