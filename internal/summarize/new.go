package summarize

import (
	"github.com/KEIAN12/gamagori-shigikai/internal/config"
	"github.com/KEIAN12/gamagori-shigikai/internal/gemini"
	"github.com/KEIAN12/gamagori-shigikai/internal/logger"
	"github.com/KEIAN12/gamagori-shigikai/internal/reference"
)

type implSummarizer struct {
	gemini   gemini.Client
	model    string
	openai   *openaiClient
	ref      *reference.Library
	maxChars int
	logger   logger.Logger
}

// New creates a Summarizer using Gemini as the primary backend and OpenAI
// chat completions as the fallback. Either client may be absent; with
// neither configured every call fails.
func New(geminiCfg config.GeminiConfig, openaiCfg config.OpenAIConfig, sumCfg config.SummarizeConfig, gem gemini.Client, ref *reference.Library, log logger.Logger) Summarizer {
	return &implSummarizer{
		gemini:   gem,
		model:    geminiCfg.TextModel,
		openai:   newOpenAIClient(openaiCfg),
		ref:      ref,
		maxChars: sumCfg.MaxTranscriptChars,
		logger:   log,
	}
}
