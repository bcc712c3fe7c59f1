package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/mohsen-qasemi/herald/internal/digest"
	"github.com/mohsen-qasemi/herald/internal/store"
)

// scheduled digests always cover the trailing half day
const scheduledWindowHours = 12

// Deliverer pushes a finished digest to one recipient. The chat transport
// implements it.
type Deliverer interface {
	Send(ctx context.Context, recipient, text string) error
}

// DigestJob is the aggregate → budget → generate → deliver sequence the
// triggers invoke. Stages run strictly in order; each stage's output is
// the next one's only input.
type DigestJob struct {
	Aggregator      *digest.Aggregator
	Generator       *digest.Generator
	Deliverer       Deliverer
	Recipients      []string
	MaxItems        int
	MaxCharsPerItem int
	Logger          *log.Logger
}

// Run executes one scheduled digest. Scheduled digests are always the
// full kind. A window with no items ends the run quietly; generation
// failures propagate. One recipient's delivery failure never blocks the
// others.
func (j *DigestJob) Run(ctx context.Context) error {
	logger := j.Logger
	if logger == nil {
		logger = log.New(log.Writer(), "[SCHED] ", log.LstdFlags)
	}

	result, err := j.Aggregator.Aggregate(ctx, scheduledWindowHours)
	if err != nil {
		return fmt.Errorf("scheduled aggregation: %w", err)
	}
	if result.TotalItems == 0 {
		logger.Printf("no news to digest")
		return nil
	}

	budgeted := digest.FormatForLLM(result, j.MaxItems, j.MaxCharsPerItem)
	d, err := j.Generator.Generate(ctx, budgeted, store.DigestFull, true)
	if err != nil {
		return err
	}

	message := fmt.Sprintf("News digest for the last %d hours\nMessages processed: %d\n\n%s",
		scheduledWindowHours, result.TotalItems, d.Content)

	for _, recipient := range j.Recipients {
		if err := j.Deliverer.Send(ctx, recipient, message); err != nil {
			deliveryFailures.Inc()
			logger.Printf("delivery to %s failed: %v", recipient, err)
			continue
		}
		logger.Printf("delivered scheduled digest to %s", recipient)
	}
	return nil
}
