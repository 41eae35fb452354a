package engine

import (
	"context"
	"errors"

	"github.com/yangwenmai/prodpage/internal/model"
)

// ModelClient abstracts LLM calls. Implementations can wrap OpenAI, local
// models, etc.
type ModelClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Generator is the external fallback collaborator: it produces an artifact
// of the requested kind from facts alone when the deterministic path
// reports an incomplete result. Implementations must validate their own
// output shape and retry a bounded number of times before returning an
// error.
type Generator interface {
	GeneratePage(ctx context.Context, facts *model.Facts) (*model.ProductPage, error)
	GenerateFAQ(ctx context.Context, facts *model.Facts) ([]model.FAQItem, error)
	GenerateComparison(ctx context.Context, facts *model.Facts) (*model.ComparisonReport, error)
}

// ErrIncomplete signals that a deterministic generation stage produced a
// structurally incomplete artifact. It is a recoverable condition: the
// pipeline responds by invoking the fallback Generator for that stage,
// never by aborting the run.
var ErrIncomplete = errors.New("incomplete artifact")

// StageError wraps an error with the pipeline stage that failed. It is
// returned only when the fallback collaborator itself fails; deterministic
// failures are absorbed by the fallback.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return e.Stage + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// StageName returns the name of the failed stage.
func (e *StageError) StageName() string {
	return e.Stage
}
