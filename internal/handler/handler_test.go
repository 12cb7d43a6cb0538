package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/KEIAN12/gamagori-shigikai/internal/logger"
	"github.com/KEIAN12/gamagori-shigikai/internal/model"
	"github.com/KEIAN12/gamagori-shigikai/internal/pipeline"
	"github.com/KEIAN12/gamagori-shigikai/internal/store"
)

type fakePipeline struct {
	result *pipeline.Result
	err    error
}

func (f *fakePipeline) Process(context.Context, string) (*pipeline.Result, error) {
	return f.result, f.err
}

func (f *fakePipeline) RegenerateSummaries(context.Context) (int, int, error) {
	return 0, 0, nil
}

type fakeDiscoverer struct {
	created int
	err     error
}

func (f *fakeDiscoverer) FetchLatest(context.Context) (int, error) {
	return f.created, f.err
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := store.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store.New(db)
}

func newTestEngine(t *testing.T, st store.Store, pl pipeline.Pipeline, secret string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	New(st, pl, &fakeDiscoverer{created: 3}, secret, logger.New("error")).RegisterRoutes(engine)
	return engine
}

// serve issues a request from a non-loopback address so the secret check
// actually applies.
func serve(engine *gin.Engine, method, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = "203.0.113.7:40000"
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestAuthRejectsWithoutSecret(t *testing.T) {
	engine := newTestEngine(t, newTestStore(t), &fakePipeline{}, "topsecret")

	for _, path := range []string{"/api/videos", "/api/process/v1", "/api/regenerate-summaries"} {
		if w := serve(engine, http.MethodPost, path, ""); w.Code != http.StatusUnauthorized {
			t.Errorf("POST %s without token = %d, want 401", path, w.Code)
		}
		if w := serve(engine, http.MethodPost, path, "wrong"); w.Code != http.StatusUnauthorized {
			t.Errorf("POST %s with wrong token = %d, want 401", path, w.Code)
		}
	}
}

func TestAuthAcceptsBearerToken(t *testing.T) {
	engine := newTestEngine(t, newTestStore(t), &fakePipeline{result: &pipeline.Result{}}, "topsecret")

	if w := serve(engine, http.MethodPost, "/api/videos", "topsecret"); w.Code != http.StatusOK {
		t.Errorf("authorized discovery = %d, want 200", w.Code)
	}
}

func TestAuthTrustsLoopback(t *testing.T) {
	engine := newTestEngine(t, newTestStore(t), &fakePipeline{}, "topsecret")

	req := httptest.NewRequest(http.MethodPost, "/api/videos", nil)
	req.RemoteAddr = "127.0.0.1:40000"
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("loopback discovery = %d, want 200", w.Code)
	}
}

func TestAuthOpenWithoutConfiguredSecret(t *testing.T) {
	engine := newTestEngine(t, newTestStore(t), &fakePipeline{}, "")

	if w := serve(engine, http.MethodPost, "/api/videos", ""); w.Code != http.StatusOK {
		t.Errorf("no secret configured = %d, want 200", w.Code)
	}
}

func TestProcessVideoStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		pl   *fakePipeline
		want int
	}{
		{"success", &fakePipeline{result: &pipeline.Result{Message: "processing complete"}}, http.StatusOK},
		{"unknown video", &fakePipeline{err: store.ErrNotFound}, http.StatusNotFound},
		{"upstream failure", &fakePipeline{err: pipeline.ErrUpstream}, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine(t, newTestStore(t), tt.pl, "")
			if w := serve(engine, http.MethodPost, "/api/process/v1", ""); w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestGetArticleNotFound(t *testing.T) {
	engine := newTestEngine(t, newTestStore(t), &fakePipeline{}, "")

	if w := serve(engine, http.MethodGet, "/api/articles/nope", ""); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestListArticlesOnlyPublished(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	v := &model.Video{YoutubeVideoID: "yt1", Status: model.StatusPending}
	if _, err := st.UpsertVideo(ctx, v); err != nil {
		t.Fatalf("seed video: %v", err)
	}
	a, err := st.UpsertArticle(ctx, v.ID, "transcript")
	if err != nil {
		t.Fatalf("seed article: %v", err)
	}
	title, summary := "title", "summary"
	if err := st.UpdateArticleSummary(ctx, a.ID, &title, &summary, nil, nil); err != nil {
		t.Fatalf("seed summary: %v", err)
	}
	if err := st.SetVideoStatus(ctx, v.ID, model.StatusDone); err != nil {
		t.Fatalf("seed status: %v", err)
	}

	engine := newTestEngine(t, st, &fakePipeline{}, "")
	w := serve(engine, http.MethodGet, "/api/articles", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Articles []model.Article `json:"articles"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Articles) != 1 || resp.Articles[0].ID != a.ID {
		t.Errorf("articles = %v", resp.Articles)
	}
}

func TestListTags(t *testing.T) {
	engine := newTestEngine(t, newTestStore(t), &fakePipeline{}, "")

	w := serve(engine, http.MethodGet, "/api/tags", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Tags []model.Tag `json:"tags"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Tags) != len(model.AvailableTags) {
		t.Errorf("got %d tags, want %d", len(resp.Tags), len(model.AvailableTags))
	}
}

func TestGetStatus(t *testing.T) {
	engine := newTestEngine(t, newTestStore(t), &fakePipeline{}, "")

	w := serve(engine, http.MethodGet, "/api/status", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Counts *store.Counts `json:"counts"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Counts == nil {
		t.Error("counts missing from status payload")
	}
}
