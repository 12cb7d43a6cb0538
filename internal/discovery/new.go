package discovery

import (
	"net/http"
	"time"

	"github.com/KEIAN12/gamagori-shigikai/internal/config"
	"github.com/KEIAN12/gamagori-shigikai/internal/logger"
	"github.com/KEIAN12/gamagori-shigikai/internal/store"
)

type implDiscoverer struct {
	apiKey     string
	channelID  string
	maxResults int
	baseURL    string
	client     *http.Client
	store      store.Store
	logger     logger.Logger
}

// New creates a Discoverer backed by the YouTube Data API. Missing
// credentials disable discovery rather than erroring.
func New(cfg config.YouTubeConfig, st store.Store, log logger.Logger) Discoverer {
	return &implDiscoverer{
		apiKey:     cfg.APIKey,
		channelID:  cfg.ChannelID,
		maxResults: cfg.MaxResults,
		baseURL:    cfg.APIBaseURL,
		client:     &http.Client{Timeout: 30 * time.Second},
		store:      st,
		logger:     log,
	}
}
