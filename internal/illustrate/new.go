package illustrate

import (
	"github.com/KEIAN12/gamagori-shigikai/internal/blob"
	"github.com/KEIAN12/gamagori-shigikai/internal/config"
	"github.com/KEIAN12/gamagori-shigikai/internal/gemini"
	"github.com/KEIAN12/gamagori-shigikai/internal/logger"
)

type implIllustrator struct {
	gemini   gemini.Client
	model    string
	uploader blob.Uploader
	logger   logger.Logger
}

// New creates an Illustrator. With a nil gemini client or nil uploader the
// capability is disabled and both calls return nil URLs.
func New(cfg config.GeminiConfig, gem gemini.Client, uploader blob.Uploader, log logger.Logger) Illustrator {
	return &implIllustrator{
		gemini:   gem,
		model:    cfg.ImageModel,
		uploader: uploader,
		logger:   log,
	}
}
