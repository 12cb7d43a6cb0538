package discovery

import "context"

// Discoverer enumerates new source videos and registers them as pending
// records. Re-running with an overlapping result set never duplicates.
type Discoverer interface {
	// FetchLatest returns how many new videos were registered.
	FetchLatest(ctx context.Context) (int, error)
}
