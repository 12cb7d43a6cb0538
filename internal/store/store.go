package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/KEIAN12/gamagori-shigikai/internal/model"
)

func (s *implStore) GetVideo(ctx context.Context, id string) (*model.Video, error) {
	var v model.Video
	err := s.db.WithContext(ctx).First(&v, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get video: %w", err)
	}
	return &v, nil
}

func (s *implStore) ListVideos(ctx context.Context, statuses []model.VideoStatus) ([]model.Video, error) {
	q := s.db.WithContext(ctx).Order("published_at DESC")
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	var videos []model.Video
	if err := q.Find(&videos).Error; err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	return videos, nil
}

func (s *implStore) NextPending(ctx context.Context) (*model.Video, error) {
	var v model.Video
	err := s.db.WithContext(ctx).
		Where("status = ?", model.StatusPending).
		Order("published_at DESC").
		First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("next pending: %w", err)
	}
	return &v, nil
}

func (s *implStore) UpsertVideo(ctx context.Context, v *model.Video) (bool, error) {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "youtube_video_id"}},
			DoNothing: true,
		}).
		Create(v)
	if res.Error != nil {
		return false, fmt.Errorf("upsert video: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *implStore) SetVideoStatus(ctx context.Context, id string, status model.VideoStatus) error {
	res := s.db.WithContext(ctx).
		Model(&model.Video{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("set video status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *implStore) UpsertArticle(ctx context.Context, videoID, transcript string) (*model.Article, error) {
	var transcriptVal *string
	if strings.TrimSpace(transcript) != "" {
		transcriptVal = &transcript
	}

	article := model.Article{
		VideoID:    videoID,
		Transcript: transcriptVal,
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "video_id"}},
			// A fresh transcript invalidates everything derived from the old
			// one, so every generated field resets alongside it.
			DoUpdates: clause.Assignments(map[string]interface{}{
				"transcript":      transcriptVal,
				"title":           nil,
				"summary":         nil,
				"session_type":    nil,
				"tags":            nil,
				"thumbnail_url":   nil,
				"infographic_url": nil,
				"processed_at":    nil,
				"updated_at":      time.Now(),
			}),
		}).
		Create(&article).Error
	if err != nil {
		return nil, fmt.Errorf("upsert article: %w", err)
	}

	// Re-read so the caller gets the persisted row (the id differs from the
	// in-memory one when the insert hit the conflict path).
	return s.GetArticleByVideo(ctx, videoID)
}

func (s *implStore) GetArticleByVideo(ctx context.Context, videoID string) (*model.Article, error) {
	var a model.Article
	err := s.db.WithContext(ctx).First(&a, "video_id = ?", videoID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get article by video: %w", err)
	}
	return &a, nil
}

func (s *implStore) ListArticlesWithTranscript(ctx context.Context) ([]model.Article, error) {
	var articles []model.Article
	err := s.db.WithContext(ctx).
		Where("transcript IS NOT NULL AND transcript != ''").
		Find(&articles).Error
	if err != nil {
		return nil, fmt.Errorf("list articles with transcript: %w", err)
	}
	return articles, nil
}

func (s *implStore) UpdateArticleSummary(ctx context.Context, id string, title, summary, sessionType *string, tags []string) error {
	var tagsVal interface{}
	if len(tags) > 0 {
		tagsVal = model.Tags(tags)
	}
	res := s.db.WithContext(ctx).
		Model(&model.Article{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"title":        title,
			"summary":      summary,
			"session_type": sessionType,
			"tags":         tagsVal,
			"updated_at":   time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("update article summary: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *implStore) UpdateArticleImages(ctx context.Context, id string, thumbnailURL, infographicURL *string) error {
	res := s.db.WithContext(ctx).
		Model(&model.Article{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"thumbnail_url":   thumbnailURL,
			"infographic_url": infographicURL,
			"updated_at":      time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("update article images: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *implStore) MarkArticleProcessed(ctx context.Context, id string, at time.Time) error {
	res := s.db.WithContext(ctx).
		Model(&model.Article{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"processed_at": at,
			"updated_at":   at,
		})
	if res.Error != nil {
		return fmt.Errorf("mark article processed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// publishedQuery restricts articles to the publishable set: parent video
// done and a non-empty summary.
func (s *implStore) publishedQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&model.Article{}).
		Joins("JOIN videos ON videos.id = articles.video_id").
		Where("videos.status = ?", model.StatusDone).
		Where("articles.summary IS NOT NULL AND TRIM(articles.summary) != ''").
		Preload("Video")
}

func (s *implStore) ListPublished(ctx context.Context, q ArticleQuery) ([]model.Article, error) {
	query := s.publishedQuery(ctx).Order("videos.published_at DESC")

	if model.ValidSessionType(q.SessionType) {
		query = query.Where("articles.session_type = ?", q.SessionType)
	}
	if tag := strings.TrimSpace(q.Tag); tag != "" {
		// Tags are stored as a JSON array in a text column.
		query = query.Where("articles.tags LIKE ?", "%\""+tag+"\"%")
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		// Cap by runes so a long Japanese query is not cut mid-character.
		if r := []rune(search); len(r) > 200 {
			search = string(r[:200])
		}
		like := "%" + search + "%"
		query = query.Where("articles.summary LIKE ? OR articles.transcript LIKE ? OR articles.title LIKE ?", like, like, like)
	}

	var articles []model.Article
	if err := query.Find(&articles).Error; err != nil {
		return nil, fmt.Errorf("list published: %w", err)
	}
	return articles, nil
}

func (s *implStore) GetPublished(ctx context.Context, id string) (*model.Article, error) {
	var a model.Article
	err := s.publishedQuery(ctx).Where("articles.id = ?", id).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get published: %w", err)
	}
	return &a, nil
}

func (s *implStore) CouncilMemberNames(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).
		Model(&model.CouncilMember{}).
		Order("kana").
		Pluck("name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("council member names: %w", err)
	}
	return names, nil
}

func (s *implStore) GetCounts(ctx context.Context) (*Counts, error) {
	var c Counts
	db := s.db.WithContext(ctx)

	db.Model(&model.Video{}).Count(&c.TotalVideos)
	db.Model(&model.Video{}).Where("status = ?", model.StatusPending).Count(&c.PendingVideos)
	db.Model(&model.Video{}).Where("status = ?", model.StatusDone).Count(&c.DoneVideos)
	db.Model(&model.Video{}).Where("status = ?", model.StatusError).Count(&c.ErrorVideos)
	db.Model(&model.Article{}).Count(&c.TotalArticles)

	err := s.publishedQuery(ctx).Count(&c.PublishedCount).Error
	if err != nil {
		return nil, fmt.Errorf("get counts: %w", err)
	}
	return &c, nil
}
