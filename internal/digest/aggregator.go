package digest

import (
	"context"
	"log"
	"time"

	"github.com/mohsen-qasemi/herald/internal/feed"
	"github.com/mohsen-qasemi/herald/internal/store"
)

// ChannelLister is the slice of the store the aggregator needs.
type ChannelLister interface {
	ListActiveChannels(ctx context.Context) ([]store.Channel, error)
	TouchChannel(ctx context.Context, username string, at time.Time) error
}

// SourceGroup holds one channel's items in adapter order.
type SourceGroup struct {
	Name  string
	Title string
	Items []feed.Item
}

// Result is one aggregation pass. Sources keeps channel insertion order;
// a channel that yielded nothing still appears with an empty item list.
// Results are built fresh per call and never cached.
type Result struct {
	Sources     []SourceGroup
	TotalItems  int
	WindowHours int
	CollectedAt time.Time
}

// Aggregator collects fresh items from every active channel.
type Aggregator struct {
	channels ChannelLister
	reader   feed.Reader
	logger   *log.Logger
}

func NewAggregator(channels ChannelLister, reader feed.Reader, logger *log.Logger) *Aggregator {
	if logger == nil {
		logger = log.New(log.Writer(), "[AGGREGATE] ", log.LstdFlags)
	}
	return &Aggregator{channels: channels, reader: reader, logger: logger}
}

// Aggregate fetches items newer than now-windowHours from every active
// channel. A single channel's failure is logged and contributes zero
// items; only the channel listing itself can fail the call. A result with
// TotalItems == 0 is a valid terminal state callers must branch on before
// summarizing.
func (a *Aggregator) Aggregate(ctx context.Context, windowHours int) (*Result, error) {
	channels, err := a.channels.ListActiveChannels(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	since := now.Add(-time.Duration(windowHours) * time.Hour)
	result := &Result{WindowHours: windowHours, CollectedAt: now}

	for _, ch := range channels {
		group := SourceGroup{Name: ch.Username, Title: ch.Title}
		if group.Title == "" {
			group.Title = ch.Username
		}

		items, err := a.reader.Fetch(ctx, ch.Username, since)
		if err != nil {
			a.logger.Printf("fetch %s failed: %v", ch.Username, err)
		} else {
			group.Items = items
			if err := a.channels.TouchChannel(ctx, ch.Username, now); err != nil {
				a.logger.Printf("touch %s failed: %v", ch.Username, err)
			}
		}
		result.Sources = append(result.Sources, group)
	}

	for _, g := range result.Sources {
		result.TotalItems += len(g.Items)
	}
	return result, nil
}
