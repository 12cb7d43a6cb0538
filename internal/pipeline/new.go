package pipeline

import (
	"github.com/KEIAN12/gamagori-shigikai/internal/illustrate"
	"github.com/KEIAN12/gamagori-shigikai/internal/logger"
	"github.com/KEIAN12/gamagori-shigikai/internal/store"
	"github.com/KEIAN12/gamagori-shigikai/internal/summarize"
	"github.com/KEIAN12/gamagori-shigikai/internal/transcript"
)

type implPipeline struct {
	store       store.Store
	acquirer    transcript.Acquirer
	summarizer  summarize.Summarizer
	illustrator illustrate.Illustrator
	logger      logger.Logger
}

// New wires the pipeline orchestrator.
func New(st store.Store, acq transcript.Acquirer, sum summarize.Summarizer, ill illustrate.Illustrator, log logger.Logger) Pipeline {
	return &implPipeline{
		store:       st,
		acquirer:    acq,
		summarizer:  sum,
		illustrator: ill,
		logger:      log,
	}
}
