package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KEIAN12/gamagori-shigikai/internal/logger"
	"github.com/KEIAN12/gamagori-shigikai/internal/model"
	"github.com/KEIAN12/gamagori-shigikai/internal/store"
	"github.com/KEIAN12/gamagori-shigikai/internal/summarize"
)

// ===== Fakes =====

type fakeStore struct {
	videos   map[string]*model.Video
	articles map[string]*model.Article // keyed by video id
	names    []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		videos:   map[string]*model.Video{},
		articles: map[string]*model.Article{},
	}
}

func (f *fakeStore) addVideo(id string, status model.VideoStatus) *model.Video {
	v := &model.Video{ID: id, YoutubeVideoID: "yt-" + id, Status: status}
	f.videos[id] = v
	return v
}

func (f *fakeStore) GetVideo(_ context.Context, id string) (*model.Video, error) {
	v, ok := f.videos[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return v, nil
}

func (f *fakeStore) ListVideos(context.Context, []model.VideoStatus) ([]model.Video, error) {
	return nil, nil
}

func (f *fakeStore) NextPending(context.Context) (*model.Video, error) {
	return nil, store.ErrNotFound
}

func (f *fakeStore) UpsertVideo(context.Context, *model.Video) (bool, error) {
	return false, nil
}

func (f *fakeStore) SetVideoStatus(_ context.Context, id string, status model.VideoStatus) error {
	v, ok := f.videos[id]
	if !ok {
		return store.ErrNotFound
	}
	v.Status = status
	return nil
}

func (f *fakeStore) UpsertArticle(_ context.Context, videoID, transcript string) (*model.Article, error) {
	a := &model.Article{ID: "article-" + videoID, VideoID: videoID}
	if transcript != "" {
		a.Transcript = &transcript
	}
	f.articles[videoID] = a
	return a, nil
}

func (f *fakeStore) GetArticleByVideo(_ context.Context, videoID string) (*model.Article, error) {
	a, ok := f.articles[videoID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return a, nil
}

func (f *fakeStore) ListArticlesWithTranscript(context.Context) ([]model.Article, error) {
	var out []model.Article
	for _, a := range f.articles {
		if a.Transcript != nil {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateArticleSummary(_ context.Context, id string, title, summary, sessionType *string, tags []string) error {
	for _, a := range f.articles {
		if a.ID == id {
			a.Title = title
			a.Summary = summary
			a.SessionType = sessionType
			a.Tags = tags
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) UpdateArticleImages(_ context.Context, id string, thumbnailURL, infographicURL *string) error {
	for _, a := range f.articles {
		if a.ID == id {
			a.ThumbnailURL = thumbnailURL
			a.InfographicURL = infographicURL
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) MarkArticleProcessed(_ context.Context, id string, at time.Time) error {
	for _, a := range f.articles {
		if a.ID == id {
			a.ProcessedAt = &at
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) ListPublished(context.Context, store.ArticleQuery) ([]model.Article, error) {
	return nil, nil
}

func (f *fakeStore) GetPublished(context.Context, string) (*model.Article, error) {
	return nil, store.ErrNotFound
}

func (f *fakeStore) CouncilMemberNames(context.Context) ([]string, error) {
	return f.names, nil
}

func (f *fakeStore) GetCounts(context.Context) (*store.Counts, error) {
	return &store.Counts{}, nil
}

type fakeAcquirer struct {
	text  string
	err   error
	calls int
}

func (f *fakeAcquirer) Acquire(context.Context, string) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeSummarizer struct {
	result *summarize.Result
	err    error
	calls  int
}

func (f *fakeSummarizer) Summarize(context.Context, string, []string) (*summarize.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeIllustrator struct {
	thumbnail    *string
	infographic  *string
	thumbCalls   int
	infoCalls    int
	infoSummary  string
}

func (f *fakeIllustrator) Thumbnail(context.Context, string, string, string) *string {
	f.thumbCalls++
	return f.thumbnail
}

func (f *fakeIllustrator) Infographic(_ context.Context, _ string, summary string) *string {
	f.infoCalls++
	f.infoSummary = summary
	return f.infographic
}

func url(s string) *string { return &s }

// ===== Tests =====

func TestProcessHappyPath(t *testing.T) {
	st := newFakeStore()
	st.addVideo("v1", model.StatusPending)

	session := model.SessionRegular
	acq := &fakeAcquirer{text: "the transcript"}
	sum := &fakeSummarizer{result: &summarize.Result{
		Title: "水道料金", Body: "summary body", SessionType: &session, Tags: []string{"suidou"},
	}}
	ill := &fakeIllustrator{thumbnail: url("https://cdn/t.png"), infographic: url("https://cdn/i.png")}

	p := New(st, acq, sum, ill, logger.New("error"))
	result, err := p.Process(context.Background(), "v1")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if !result.Summary || !result.Thumbnail || !result.Infographic {
		t.Errorf("result = %+v, want all artifacts", result)
	}
	if st.videos["v1"].Status != model.StatusDone {
		t.Errorf("status = %s, want done", st.videos["v1"].Status)
	}
	a := st.articles["v1"]
	if a.Summary == nil || *a.Summary != "summary body" {
		t.Errorf("summary not persisted: %v", a.Summary)
	}
	if a.ProcessedAt == nil {
		t.Error("processed_at not set")
	}
}

func TestProcessDoneIsIdempotent(t *testing.T) {
	st := newFakeStore()
	st.addVideo("v1", model.StatusDone)
	st.articles["v1"] = &model.Article{ID: "article-v1", VideoID: "v1"}

	acq := &fakeAcquirer{text: "t"}
	sum := &fakeSummarizer{result: &summarize.Result{Body: "b"}}
	ill := &fakeIllustrator{}

	p := New(st, acq, sum, ill, logger.New("error"))
	result, err := p.Process(context.Background(), "v1")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if result.Message != "already processed" {
		t.Errorf("message = %q", result.Message)
	}
	if result.ArticleID != "article-v1" {
		t.Errorf("article id = %q", result.ArticleID)
	}
	if acq.calls != 0 || sum.calls != 0 || ill.thumbCalls != 0 {
		t.Error("done video must not touch any backend")
	}
}

func TestProcessMissingVideo(t *testing.T) {
	p := New(newFakeStore(), &fakeAcquirer{}, &fakeSummarizer{}, &fakeIllustrator{}, logger.New("error"))

	if _, err := p.Process(context.Background(), "nope"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestProcessTranscriptionFailureIsFatal(t *testing.T) {
	st := newFakeStore()
	st.addVideo("v1", model.StatusPending)
	acq := &fakeAcquirer{err: errors.New("gemini down")}
	sum := &fakeSummarizer{}

	p := New(st, acq, sum, &fakeIllustrator{}, logger.New("error"))
	_, err := p.Process(context.Background(), "v1")

	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
	if st.videos["v1"].Status != model.StatusError {
		t.Errorf("status = %s, want error", st.videos["v1"].Status)
	}
	if sum.calls != 0 {
		t.Error("summarizer must not run after fatal transcription failure")
	}
}

func TestProcessSummarizerFailureDegrades(t *testing.T) {
	st := newFakeStore()
	st.addVideo("v1", model.StatusPending)
	acq := &fakeAcquirer{text: "transcript"}
	sum := &fakeSummarizer{err: errors.New("model unavailable")}
	ill := &fakeIllustrator{}

	p := New(st, acq, sum, ill, logger.New("error"))
	result, err := p.Process(context.Background(), "v1")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if result.Summary {
		t.Error("result should report missing summary")
	}
	if st.videos["v1"].Status != model.StatusDone {
		t.Errorf("status = %s, want done despite summarizer failure", st.videos["v1"].Status)
	}
}

func TestProcessEmptyTranscriptSkipsSummarization(t *testing.T) {
	st := newFakeStore()
	st.addVideo("v1", model.StatusPending)
	acq := &fakeAcquirer{text: ""}
	sum := &fakeSummarizer{result: &summarize.Result{Body: "should not run"}}
	ill := &fakeIllustrator{thumbnail: url("https://cdn/t.png")}

	p := New(st, acq, sum, ill, logger.New("error"))
	result, err := p.Process(context.Background(), "v1")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if sum.calls != 0 {
		t.Error("summarizer must not run on empty transcript")
	}
	if result.Summary {
		t.Error("result should report no summary")
	}
	if st.videos["v1"].Status != model.StatusDone {
		t.Errorf("status = %s, want done", st.videos["v1"].Status)
	}
	if ill.thumbCalls != 0 {
		t.Error("no title and no summary leaves nothing to illustrate")
	}
}

func TestProcessResumesFromSummarizing(t *testing.T) {
	st := newFakeStore()
	st.addVideo("v1", model.StatusSummarizing)
	transcript := "persisted transcript"
	st.articles["v1"] = &model.Article{ID: "article-v1", VideoID: "v1", Transcript: &transcript}

	acq := &fakeAcquirer{text: "fresh transcript"}
	sum := &fakeSummarizer{result: &summarize.Result{Title: "t", Body: "b"}}

	p := New(st, acq, sum, &fakeIllustrator{}, logger.New("error"))
	if _, err := p.Process(context.Background(), "v1"); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if acq.calls != 0 {
		t.Error("resume from summarizing must not re-transcribe")
	}
	if sum.calls != 1 {
		t.Errorf("summarizer ran %d times, want 1", sum.calls)
	}
}

func TestProcessResumesFromGeneratingImage(t *testing.T) {
	st := newFakeStore()
	st.addVideo("v1", model.StatusGeneratingImage)
	title, summary := "persisted title", "persisted summary"
	st.articles["v1"] = &model.Article{ID: "article-v1", VideoID: "v1", Title: &title, Summary: &summary}

	acq := &fakeAcquirer{}
	sum := &fakeSummarizer{}
	ill := &fakeIllustrator{infographic: url("https://cdn/i.png")}

	p := New(st, acq, sum, ill, logger.New("error"))
	if _, err := p.Process(context.Background(), "v1"); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if acq.calls != 0 || sum.calls != 0 {
		t.Error("resume from generating_image must not repeat earlier stages")
	}
	if ill.infoSummary != "persisted summary" {
		t.Errorf("infographic got summary %q", ill.infoSummary)
	}
}

func TestProcessMidFlowWithoutArticleRestarts(t *testing.T) {
	st := newFakeStore()
	st.addVideo("v1", model.StatusSummarizing)
	// No article row despite mid-flow status.

	acq := &fakeAcquirer{text: "transcript"}
	sum := &fakeSummarizer{result: &summarize.Result{Body: "b"}}

	p := New(st, acq, sum, &fakeIllustrator{}, logger.New("error"))
	if _, err := p.Process(context.Background(), "v1"); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if acq.calls != 1 {
		t.Errorf("acquirer ran %d times, want 1 (restart)", acq.calls)
	}
}

func TestProcessSkipsInfographicWithoutSummary(t *testing.T) {
	st := newFakeStore()
	st.addVideo("v1", model.StatusPending)
	acq := &fakeAcquirer{text: "transcript"}
	// Title survives but the body comes back empty.
	sum := &fakeSummarizer{result: &summarize.Result{Title: "only a title"}}
	ill := &fakeIllustrator{thumbnail: url("https://cdn/t.png")}

	p := New(st, acq, sum, ill, logger.New("error"))
	if _, err := p.Process(context.Background(), "v1"); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if ill.thumbCalls != 1 {
		t.Errorf("thumbnail ran %d times, want 1", ill.thumbCalls)
	}
	if ill.infoCalls != 0 {
		t.Error("infographic needs a summary")
	}
}

func TestRegenerateSummaries(t *testing.T) {
	st := newFakeStore()
	tr := "transcript"
	st.articles["v1"] = &model.Article{ID: "a1", VideoID: "v1", Transcript: &tr}
	st.articles["v2"] = &model.Article{ID: "a2", VideoID: "v2"} // no transcript

	sum := &fakeSummarizer{result: &summarize.Result{Title: "t", Body: "new summary"}}
	p := New(st, &fakeAcquirer{}, sum, &fakeIllustrator{}, logger.New("error"))

	updated, failed, err := p.RegenerateSummaries(context.Background())
	if err != nil {
		t.Fatalf("RegenerateSummaries: %v", err)
	}
	if updated != 1 || failed != 0 {
		t.Errorf("updated=%d failed=%d, want 1/0", updated, failed)
	}
	if got := st.articles["v1"].Summary; got == nil || *got != "new summary" {
		t.Errorf("summary = %v", got)
	}
}
