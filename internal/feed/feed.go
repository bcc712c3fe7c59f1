// Package feed defines the contract between the digest pipeline and
// whatever fetches raw channel content. Implementations are thin I/O
// adapters; the pipeline never depends on a concrete one.
package feed

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Resolve for unknown channels.
var ErrNotFound = errors.New("channel not found")

// Item is one piece of channel content within the aggregation window.
type Item struct {
	ID         string
	Timestamp  time.Time
	Text       string
	Source     string
	Popularity int
}

// Info describes a resolved channel.
type Info struct {
	Title       string
	CanonicalID string
}

// Reader fetches channel content. Fetch returns items newer than since,
// in the adapter's own order (preserved downstream). Resolve validates a
// channel identifier and returns display metadata.
type Reader interface {
	Fetch(ctx context.Context, channel string, since time.Time) ([]Item, error)
	Resolve(ctx context.Context, channel string) (Info, error)
}
