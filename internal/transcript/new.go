package transcript

import (
	"net/http"
	"time"

	"github.com/KEIAN12/gamagori-shigikai/internal/config"
	"github.com/KEIAN12/gamagori-shigikai/internal/gemini"
	"github.com/KEIAN12/gamagori-shigikai/internal/logger"
)

type implAcquirer struct {
	captionBaseURL string
	captionLang    string
	gemini         gemini.Client
	model          string
	client         *http.Client
	logger         logger.Logger
}

// New creates an Acquirer that tries free caption extraction first and
// falls back to Gemini speech recognition. A nil gemini client limits it to
// the caption path.
func New(cfg config.YouTubeConfig, geminiCfg config.GeminiConfig, gem gemini.Client, log logger.Logger) Acquirer {
	return &implAcquirer{
		captionBaseURL: cfg.CaptionBaseURL,
		captionLang:    cfg.CaptionLang,
		gemini:         gem,
		model:          geminiCfg.TranscribeModel,
		client:         &http.Client{Timeout: 30 * time.Second},
		logger:         log,
	}
}
