package digest

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mohsen-qasemi/herald/internal/store"
	"github.com/mohsen-qasemi/herald/provider"
)

const generateTemperature = 0.3

var digestsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "herald_digests_generated_total",
	Help: "Digests generated, by kind.",
}, []string{"kind"})

// GenerationError is the one failure in the pipeline that is surfaced
// explicitly instead of degrading: an empty digest with no explanation is
// worse than an error. Unreachable hints whether the oracle was down
// rather than rejecting the request.
type GenerationError struct {
	Unreachable bool
	Err         error
}

func (e *GenerationError) Error() string {
	if e.Unreachable {
		return fmt.Sprintf("digest generation failed, llm unreachable: %v", e.Err)
	}
	return fmt.Sprintf("digest generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Persister is the slice of the store the generator needs.
type Persister interface {
	SaveDigest(ctx context.Context, d store.Digest) error
}

// Generator turns budgeted content into a persisted digest.
type Generator struct {
	oracle  provider.Provider
	digests Persister
	logger  *log.Logger
}

func NewGenerator(oracle provider.Provider, digests Persister, logger *log.Logger) *Generator {
	if logger == nil {
		logger = log.New(log.Writer(), "[DIGEST] ", log.LstdFlags)
	}
	return &Generator{oracle: oracle, digests: digests, logger: logger}
}

// Generate invokes the oracle with the template for kind over the budgeted
// text, persists the result and returns it. MessageCount is the
// approximate item-marker count of the input, not a ground-truth count.
func (g *Generator) Generate(ctx context.Context, budgeted string, kind store.DigestKind, scheduled bool) (store.Digest, error) {
	template := briefDigestPrompt
	if kind == store.DigestFull {
		template = fullDigestPrompt
	}

	content, err := g.oracle.Complete(ctx, fmt.Sprintf(template, budgeted), generateTemperature)
	if err != nil {
		return store.Digest{}, &GenerationError{Unreachable: provider.IsUnreachable(err), Err: err}
	}

	d := store.Digest{
		ID:           uuid.NewString(),
		Kind:         kind,
		Scheduled:    scheduled,
		Content:      content,
		MessageCount: CountItemMarkers(budgeted),
		CreatedAt:    time.Now().UTC(),
	}
	if err := g.digests.SaveDigest(ctx, d); err != nil {
		// the digest exists; persistence is bookkeeping
		g.logger.Printf("persist digest failed: %v", err)
	}
	digestsGenerated.WithLabelValues(string(kind)).Inc()
	return d, nil
}
