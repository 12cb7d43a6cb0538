package gemini

import (
	"sync"

	"github.com/KEIAN12/gamagori-shigikai/internal/logger"
)

type implClient struct {
	apiKeys []string
	logger  logger.Logger

	// mu guards currentKey: the pipeline fans image generations out to
	// concurrent goroutines sharing one client.
	mu         sync.Mutex
	currentKey int
}

// New creates a Client that rotates through the supplied API keys when one
// hits its quota. Returns nil when no keys are configured, which disables
// every Gemini-backed capability.
func New(apiKeys []string, log logger.Logger) Client {
	if len(apiKeys) == 0 {
		return nil
	}
	return &implClient{
		apiKeys: apiKeys,
		logger:  log,
	}
}
