package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/yangwenmai/prodpage/internal/engine"
	"github.com/yangwenmai/prodpage/internal/model"
	"github.com/yangwenmai/prodpage/internal/store"
)

// Processor runs the generation pipeline for one product record.
type Processor interface {
	Run(ctx context.Context, product model.ProductRecord) (*engine.State, error)
}

// RunClaimer provides atomic claim and status update operations.
type RunClaimer interface {
	ClaimNextQueued(ctx context.Context) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, id, newStatus string, errorInfo *string) error
	UpdateRunResult(ctx context.Context, id string, isValid bool, validationErrors *string, retryCount int) error
}

// ArtifactSink persists generated artifacts.
type ArtifactSink interface {
	UpsertArtifact(ctx context.Context, a model.Artifact) error
}

// Worker polls for QUEUED runs and executes the pipeline.
type Worker struct {
	claimer   RunClaimer
	artifacts ArtifactSink
	processor Processor
	interval  time.Duration
}

// New creates a new Worker.
func New(claimer RunClaimer, artifacts ArtifactSink, processor Processor, interval time.Duration) *Worker {
	return &Worker{claimer: claimer, artifacts: artifacts, processor: processor, interval: interval}
}

// Start begins the polling loop. It blocks until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	slog.Info("worker started", "interval", w.interval.String())
	for {
		select {
		case <-ctx.Done():
			slog.Info("worker stopped")
			return
		default:
		}

		run, err := w.claimer.ClaimNextQueued(ctx)
		if err != nil {
			slog.Error("worker claim error", "error", err)
			w.sleep(ctx)
			continue
		}
		if run == nil {
			w.sleep(ctx)
			continue
		}

		slog.Info("processing run", "run_id", run.ID, "product", run.ProductName)
		w.process(ctx, run)
	}
}

// process executes one claimed run and records its outcome.
func (w *Worker) process(ctx context.Context, run *model.Run) {
	product, err := model.ProductFromJSON([]byte(run.Payload))
	if err != nil {
		w.fail(ctx, run.ID, "ingest", err, false)
		return
	}

	state, err := w.processor.Run(ctx, product)
	if err != nil {
		w.fail(ctx, run.ID, stageOf(err), err, true)
		return
	}

	if err := w.saveArtifacts(ctx, run.ID, state); err != nil {
		w.fail(ctx, run.ID, "persist", err, true)
		return
	}

	reasons := state.Reason()
	var reasonsPtr *string
	if reasons != "" {
		reasonsPtr = &reasons
	}
	if err := w.claimer.UpdateRunResult(ctx, run.ID, state.Valid, reasonsPtr, state.RetryCount); err != nil {
		slog.Error("failed to record run result", "run_id", run.ID, "error", err)
	}

	status := model.StatusCompleted
	if !state.Valid {
		// Gate exhausted: a reported invalid result, not a crash.
		status = model.StatusInvalid
	}
	if err := w.claimer.UpdateRunStatus(ctx, run.ID, status, nil); err != nil {
		slog.Error("failed to set final status", "run_id", run.ID, "error", err)
		return
	}
	slog.Info("run finished", "run_id", run.ID, "status", status, "retries", state.RetryCount)
}

// saveArtifacts persists whatever artifacts the final state carries.
func (w *Worker) saveArtifacts(ctx context.Context, runID string, state *engine.State) error {
	save := func(artifactType string, v any) error {
		payload, err := json.Marshal(v)
		if err != nil {
			return err
		}
		a := model.NewArtifact(uuid.New().String(), runID, artifactType, string(payload))
		return w.artifacts.UpsertArtifact(ctx, a)
	}

	if state.Page != nil {
		if err := save(model.ArtifactPage, state.Page); err != nil {
			return err
		}
	}
	if state.FAQ != nil {
		if err := save(model.ArtifactFAQ, state.FAQ); err != nil {
			return err
		}
	}
	if state.Comparison != nil {
		if err := save(model.ArtifactComparison, state.Comparison); err != nil {
			return err
		}
	}
	return nil
}

func (w *Worker) fail(ctx context.Context, runID, stage string, err error, retryable bool) {
	slog.Error("run failed", "run_id", runID, "stage", stage, "error", err)
	info := model.ErrorInfo{
		FailedStage: stage,
		Message:     err.Error(),
		Retryable:   retryable,
		FailedAt:    time.Now().UTC().Format(time.RFC3339),
	}.ToJSON()
	if sErr := w.claimer.UpdateRunStatus(ctx, runID, model.StatusFailed, &info); sErr != nil {
		slog.Error("failed to set FAILED status", "run_id", runID, "error", sErr)
	}
}

func (w *Worker) sleep(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(w.interval):
	}
}

// stageNamer is implemented by errors that carry a pipeline stage name.
type stageNamer interface {
	StageName() string
}

func stageOf(err error) string {
	var sn stageNamer
	if errors.As(err, &sn) {
		return sn.StageName()
	}
	return "unknown"
}

// Interface checks against the concrete store.
var (
	_ RunClaimer   = (*store.Store)(nil)
	_ ArtifactSink = (*store.Store)(nil)
)
