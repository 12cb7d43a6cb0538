package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/KEIAN12/gamagori-shigikai/internal/model"
)

// searchResponse mirrors the subset of the YouTube Data API search.list
// payload the discoverer reads.
type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title       string `json:"title"`
			PublishedAt string `json:"publishedAt"`
			ChannelID   string `json:"channelId"`
		} `json:"snippet"`
	} `json:"items"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (d *implDiscoverer) FetchLatest(ctx context.Context) (int, error) {
	if d.apiKey == "" || d.channelID == "" {
		d.logger.Info(ctx, "YouTube API not configured, skipping discovery")
		return 0, nil
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("channelId", d.channelID)
	params.Set("maxResults", fmt.Sprintf("%d", d.maxResults))
	params.Set("order", "date")
	params.Set("type", "video")
	params.Set("key", d.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		d.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("build search request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("call youtube search: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read search response: %w", err)
	}

	var search searchResponse
	if err := json.Unmarshal(body, &search); err != nil {
		return 0, fmt.Errorf("parse search response: %w", err)
	}
	if search.Error != nil {
		return 0, fmt.Errorf("youtube api: %s", search.Error.Message)
	}

	created := 0
	for _, item := range search.Items {
		if item.ID.VideoID == "" {
			continue
		}

		publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
		if err != nil {
			publishedAt = time.Now()
		}

		isNew, err := d.store.UpsertVideo(ctx, &model.Video{
			YoutubeVideoID: item.ID.VideoID,
			Title:          item.Snippet.Title,
			ChannelID:      item.Snippet.ChannelID,
			PublishedAt:    publishedAt,
			Status:         model.StatusPending,
		})
		if err != nil {
			d.logger.Error(ctx, "Failed to register video %s: %v", item.ID.VideoID, err)
			continue
		}
		if isNew {
			created++
		}
	}

	d.logger.Info(ctx, "Discovery complete: %d new of %d fetched", created, len(search.Items))
	return created, nil
}
