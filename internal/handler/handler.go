package handler

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KEIAN12/gamagori-shigikai/internal/discovery"
	"github.com/KEIAN12/gamagori-shigikai/internal/export"
	"github.com/KEIAN12/gamagori-shigikai/internal/logger"
	"github.com/KEIAN12/gamagori-shigikai/internal/model"
	"github.com/KEIAN12/gamagori-shigikai/internal/pipeline"
	"github.com/KEIAN12/gamagori-shigikai/internal/store"
)

type Handler struct {
	store      store.Store
	pipeline   pipeline.Pipeline
	discoverer discovery.Discoverer
	secret     string
	logger     logger.Logger
	nextRun    func() time.Time
}

// New creates the HTTP handler. secret guards the mutating endpoints; an
// empty secret leaves them open (local development).
func New(st store.Store, pl pipeline.Pipeline, disc discovery.Discoverer, secret string, log logger.Logger) *Handler {
	return &Handler{
		store:      st,
		pipeline:   pl,
		discoverer: disc,
		secret:     secret,
		logger:     log,
	}
}

// SetScheduler lets the status endpoint report the next cron run.
func (h *Handler) SetScheduler(nextRun func() time.Time) {
	h.nextRun = nextRun
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/videos", h.ListVideos)
		api.POST("/videos", h.requireSecret(), h.DiscoverVideos)
		api.POST("/process/:videoId", h.requireSecret(), h.ProcessVideo)
		api.POST("/regenerate-summaries", h.requireSecret(), h.RegenerateSummaries)

		api.GET("/articles", h.ListArticles)
		api.GET("/articles/:id", h.GetArticle)
		api.GET("/articles/:id/export", h.ExportArticle)

		api.GET("/tags", h.ListTags)
		api.GET("/status", h.GetStatus)
	}
}

// ===== Videos =====

func (h *Handler) ListVideos(c *gin.Context) {
	var statuses []model.VideoStatus
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				statuses = append(statuses, model.VideoStatus(s))
			}
		}
	}

	videos, err := h.store.ListVideos(c.Request.Context(), statuses)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"videos": videos})
}

func (h *Handler) DiscoverVideos(c *gin.Context) {
	created, err := h.discoverer.FetchLatest(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "discovery complete, existing videos skipped",
		"created": created,
	})
}

// ===== Pipeline =====

func (h *Handler) ProcessVideo(c *gin.Context) {
	videoID := c.Param("videoId")
	if videoID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "videoId required"})
		return
	}

	result, err := h.pipeline.Process(c.Request.Context(), videoID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "video not found"})
	case errors.Is(err, pipeline.ErrUpstream):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case err != nil:
		h.logger.Error(c.Request.Context(), "Process %s failed: %v", videoID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	default:
		c.JSON(http.StatusOK, result)
	}
}

func (h *Handler) RegenerateSummaries(c *gin.Context) {
	updated, failed, err := h.pipeline.RegenerateSummaries(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated, "failed": failed})
}

// ===== Articles (read side) =====

func (h *Handler) ListArticles(c *gin.Context) {
	articles, err := h.store.ListPublished(c.Request.Context(), store.ArticleQuery{
		Search:      c.Query("q"),
		SessionType: c.Query("session_type"),
		Tag:         c.Query("tag"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": articles})
}

func (h *Handler) GetArticle(c *gin.Context) {
	article, err := h.store.GetPublished(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, article)
}

func (h *Handler) ExportArticle(c *gin.Context) {
	article, err := h.store.GetPublished(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	tmp, err := os.CreateTemp("", "article-*.docx")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	title := "City council article"
	if article.Title != nil {
		title = *article.Title
	}
	summary := ""
	if article.Summary != nil {
		summary = *article.Summary
	}

	if err := export.ArticleDocx(title, summary, tmpPath); err != nil {
		h.logger.Error(c.Request.Context(), "DOCX export failed for %s: %v", article.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	c.FileAttachment(tmpPath, fmt.Sprintf("article-%s.docx", article.ID))
}

// ===== Misc =====

func (h *Handler) ListTags(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tags": model.AvailableTags})
}

func (h *Handler) GetStatus(c *gin.Context) {
	counts, err := h.store.GetCounts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{"counts": counts}
	if h.nextRun != nil {
		resp["next_run"] = h.nextRun()
	}
	c.JSON(http.StatusOK, resp)
}
