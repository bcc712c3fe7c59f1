package digest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/mohsen-qasemi/herald/internal/store"
	"github.com/mohsen-qasemi/herald/provider"
)

type fakeOracle struct {
	reply   string
	err     error
	prompts []string
	temps   []float64
}

func (f *fakeOracle) Complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.temps = append(f.temps, temperature)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeOracle) Chat(ctx context.Context, history []provider.Message, prompt string, temperature float64) (string, error) {
	return f.Complete(ctx, prompt, temperature)
}

type fakePersister struct {
	saved []store.Digest
	err   error
}

func (f *fakePersister) SaveDigest(ctx context.Context, d store.Digest) error {
	f.saved = append(f.saved, d)
	return f.err
}

func TestGeneratePersistsDigest(t *testing.T) {
	oracle := &fakeOracle{reply: "summary text"}
	persister := &fakePersister{}
	g := NewGenerator(oracle, persister, quietLogger())

	budgeted := "Collected 2 messages over the last 12 hours:\n\n### a\nMessages: 2\n\n[01.03 09:00] one\n\n[01.03 09:01] two\n"
	d, err := g.Generate(context.Background(), budgeted, store.DigestFull, true)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if d.Content != "summary text" || d.Kind != store.DigestFull || !d.Scheduled {
		t.Fatalf("digest: %+v", d)
	}
	if d.MessageCount != 2 {
		t.Fatalf("MessageCount = %d, want 2", d.MessageCount)
	}
	if d.ID == "" || d.CreatedAt.IsZero() {
		t.Fatalf("missing metadata: %+v", d)
	}
	if len(persister.saved) != 1 {
		t.Fatalf("expected one persisted digest")
	}
	if !strings.Contains(oracle.prompts[0], "DETAILED") {
		t.Fatal("full kind must use the detailed template")
	}
	if oracle.temps[0] != generateTemperature {
		t.Fatalf("temperature: %v", oracle.temps[0])
	}
}

func TestGenerateBriefTemplate(t *testing.T) {
	oracle := &fakeOracle{reply: "brief"}
	g := NewGenerator(oracle, &fakePersister{}, quietLogger())
	if _, err := g.Generate(context.Background(), "x", store.DigestBrief, false); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(oracle.prompts[0], "BRIEF") {
		t.Fatal("brief kind must use the brief template")
	}
}

func TestGenerateUnreachableOracle(t *testing.T) {
	oracle := &fakeOracle{err: fmt.Errorf("%w: dial tcp refused", provider.ErrUnreachable)}
	g := NewGenerator(oracle, &fakePersister{}, quietLogger())

	_, err := g.Generate(context.Background(), "x", store.DigestFull, false)
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
	if !genErr.Unreachable {
		t.Fatal("unreachable hint not set")
	}
}

func TestGenerateRejectedOracle(t *testing.T) {
	oracle := &fakeOracle{err: errors.New("status 400: bad request")}
	g := NewGenerator(oracle, &fakePersister{}, quietLogger())

	_, err := g.Generate(context.Background(), "x", store.DigestBrief, false)
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
	if genErr.Unreachable {
		t.Fatal("rejection must not be marked unreachable")
	}
}
