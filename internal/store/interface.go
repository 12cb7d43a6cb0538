package store

import (
	"context"
	"errors"
	"time"

	"github.com/KEIAN12/gamagori-shigikai/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ArticleQuery filters the public article listing.
type ArticleQuery struct {
	Search      string
	SessionType string
	Tag         string
}

// Counts summarizes record totals per pipeline status.
type Counts struct {
	TotalVideos    int64 `json:"total_videos"`
	PendingVideos  int64 `json:"pending_videos"`
	DoneVideos     int64 `json:"done_videos"`
	ErrorVideos    int64 `json:"error_videos"`
	TotalArticles  int64 `json:"total_articles"`
	PublishedCount int64 `json:"published_count"`
}

// Store is the content store shared by discovery, the pipeline, and the
// read-side handlers. All mutations are keyed by record id and are
// last-writer-wins.
type Store interface {
	// Videos
	GetVideo(ctx context.Context, id string) (*model.Video, error)
	ListVideos(ctx context.Context, statuses []model.VideoStatus) ([]model.Video, error)
	// NextPending returns the newest pending video, or ErrNotFound.
	NextPending(ctx context.Context) (*model.Video, error)
	// UpsertVideo inserts a discovered video, silently ignoring an existing
	// row with the same youtube_video_id. Reports whether a row was created.
	UpsertVideo(ctx context.Context, v *model.Video) (bool, error)
	SetVideoStatus(ctx context.Context, id string, status model.VideoStatus) error

	// Articles
	// UpsertArticle creates or resets the article for a video with a fresh
	// transcript. An empty transcript is stored as NULL.
	UpsertArticle(ctx context.Context, videoID, transcript string) (*model.Article, error)
	GetArticleByVideo(ctx context.Context, videoID string) (*model.Article, error)
	ListArticlesWithTranscript(ctx context.Context) ([]model.Article, error)
	UpdateArticleSummary(ctx context.Context, id string, title, summary, sessionType *string, tags []string) error
	UpdateArticleImages(ctx context.Context, id string, thumbnailURL, infographicURL *string) error
	MarkArticleProcessed(ctx context.Context, id string, at time.Time) error

	// Read side. Published means video status is done AND the summary is
	// non-empty; nothing else ever leaves these two methods.
	ListPublished(ctx context.Context, q ArticleQuery) ([]model.Article, error)
	GetPublished(ctx context.Context, id string) (*model.Article, error)

	CouncilMemberNames(ctx context.Context) ([]string, error)
	GetCounts(ctx context.Context) (*Counts, error)
}
