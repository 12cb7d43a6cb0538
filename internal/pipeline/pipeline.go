package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/KEIAN12/gamagori-shigikai/internal/model"
	"github.com/KEIAN12/gamagori-shigikai/internal/summarize"
)

// stage is where an invocation enters the pipeline, derived from the
// persisted video status.
type stage int

const (
	stageTranscribe stage = iota
	stageSummarize
	stageIllustrate
)

// Process runs the state machine for one video. Each transition is
// persisted before the stage runs, so a crash leaves the record resumable.
// Fatal-vs-absorbed policy lives here and nowhere else: only transcription
// backend failures (and content-store writes) abort; summarization and
// illustration failures degrade to partial output.
func (p *implPipeline) Process(ctx context.Context, videoID string) (*Result, error) {
	video, err := p.store.GetVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}

	if video.Status == model.StatusDone {
		result := &Result{Message: "already processed"}
		if article, err := p.store.GetArticleByVideo(ctx, videoID); err == nil {
			result.ArticleID = article.ID
		}
		return result, nil
	}

	p.logger.Info(ctx, "Processing video %s (status %s)", videoID, video.Status)

	article, from, err := p.entryPoint(ctx, video)
	if err != nil {
		return nil, err
	}

	var title, summary string
	var sessionType *string
	var tags []string

	if from == stageIllustrate {
		// Summarization already ran in a previous invocation.
		title = deref(article.Title)
		summary = deref(article.Summary)
	} else {
		transcript := deref(article.Transcript)
		if strings.TrimSpace(transcript) != "" {
			if err := p.store.SetVideoStatus(ctx, videoID, model.StatusSummarizing); err != nil {
				return nil, err
			}

			res := p.trySummarize(ctx, transcript)
			if res != nil {
				title = res.Title
				summary = res.Body
				sessionType = res.SessionType
				tags = res.Tags
			}

			// Persist whatever we got, partial or empty.
			err := p.store.UpdateArticleSummary(ctx, article.ID,
				strPtr(title), strPtr(summary), sessionType, tags)
			if err != nil {
				return nil, err
			}
		} else {
			p.logger.Info(ctx, "Empty transcript for video %s, skipping summarization", videoID)
		}
	}

	if err := p.store.SetVideoStatus(ctx, videoID, model.StatusGeneratingImage); err != nil {
		return nil, err
	}

	var thumbnailURL, infographicURL *string
	if title != "" || summary != "" {
		thumbnailURL, infographicURL = p.illustrate(ctx, article.ID, title, summary)
		if err := p.store.UpdateArticleImages(ctx, article.ID, thumbnailURL, infographicURL); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	if err := p.store.MarkArticleProcessed(ctx, article.ID, now); err != nil {
		return nil, err
	}
	if err := p.store.SetVideoStatus(ctx, videoID, model.StatusDone); err != nil {
		return nil, err
	}

	p.logger.Info(ctx, "Video %s done (summary=%v thumbnail=%v infographic=%v)",
		videoID, summary != "", thumbnailURL != nil, infographicURL != nil)

	return &Result{
		Message:     "processing complete",
		ArticleID:   article.ID,
		Summary:     summary != "",
		Thumbnail:   thumbnailURL != nil,
		Infographic: infographicURL != nil,
	}, nil
}

// entryPoint decides where to resume and runs transcription when needed.
// A record stuck in summarizing or generating_image picks up mid-flow from
// its persisted article instead of repeating earlier stages.
func (p *implPipeline) entryPoint(ctx context.Context, video *model.Video) (*model.Article, stage, error) {
	switch video.Status {
	case model.StatusSummarizing, model.StatusGeneratingImage:
		article, err := p.store.GetArticleByVideo(ctx, video.ID)
		if err == nil {
			if video.Status == model.StatusGeneratingImage {
				return article, stageIllustrate, nil
			}
			return article, stageSummarize, nil
		}
		// Status says mid-flow but the article is gone: start over.
		p.logger.Warn(ctx, "Video %s in status %s without article, restarting: %v",
			video.ID, video.Status, err)
	}

	if err := p.store.SetVideoStatus(ctx, video.ID, model.StatusTranscribing); err != nil {
		return nil, 0, err
	}

	text, err := p.acquirer.Acquire(ctx, video.YoutubeVideoID)
	if err != nil {
		// The one fatal stage: mark the record and surface the failure so
		// an operator can re-trigger.
		if serr := p.store.SetVideoStatus(ctx, video.ID, model.StatusError); serr != nil {
			p.logger.Error(ctx, "Failed to persist error status for %s: %v", video.ID, serr)
		}
		return nil, 0, fmt.Errorf("%w: transcription: %v", ErrUpstream, err)
	}

	article, err := p.store.UpsertArticle(ctx, video.ID, text)
	if err != nil {
		return nil, 0, err
	}
	return article, stageSummarize, nil
}

// trySummarize absorbs summarization failures: the pipeline publishes
// partial content instead of getting stuck.
func (p *implPipeline) trySummarize(ctx context.Context, transcript string) *summarize.Result {
	names, err := p.store.CouncilMemberNames(ctx)
	if err != nil {
		p.logger.Warn(ctx, "Could not load council roster: %v", err)
	}

	res, err := p.summarizer.Summarize(ctx, transcript, names)
	if err != nil {
		p.logger.Error(ctx, "Summarization failed, continuing with empty summary: %v", err)
		return nil
	}
	return res
}

// illustrate runs both image generations concurrently. The two artifacts
// are independent: one failing never blocks the other.
func (p *implPipeline) illustrate(ctx context.Context, articleID, title, summary string) (thumbnailURL, infographicURL *string) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		thumbnailURL = p.illustrator.Thumbnail(gctx, articleID, title, summary)
		return nil
	})
	if summary != "" {
		g.Go(func() error {
			infographicURL = p.illustrator.Infographic(gctx, articleID, summary)
			return nil
		})
	}

	_ = g.Wait() // goroutines never return errors; failures yield nil URLs
	return thumbnailURL, infographicURL
}

func (p *implPipeline) RegenerateSummaries(ctx context.Context) (updated, failed int, err error) {
	articles, err := p.store.ListArticlesWithTranscript(ctx)
	if err != nil {
		return 0, 0, err
	}

	for _, article := range articles {
		res := p.trySummarize(ctx, deref(article.Transcript))
		if res == nil {
			failed++
			continue
		}
		err := p.store.UpdateArticleSummary(ctx, article.ID,
			strPtr(res.Title), strPtr(res.Body), res.SessionType, res.Tags)
		if err != nil {
			p.logger.Error(ctx, "Failed to persist regenerated summary for %s: %v", article.ID, err)
			failed++
			continue
		}
		updated++
	}

	p.logger.Info(ctx, "Summary regeneration complete: %d updated, %d failed", updated, failed)
	return updated, failed, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
