package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/yangwenmai/prodpage/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s, err := New(db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func makeRun(id string) model.Run {
	return model.NewRun(id, "Product "+id, `{"name": "Product `+id+`"}`)
}

func TestCreateAndGetRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateRun(ctx, makeRun("run-1")); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	got, err := s.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.ID != "run-1" {
		t.Errorf("ID = %q, want run-1", got.ID)
	}
	if got.Status != model.StatusQueued {
		t.Errorf("Status = %q, want QUEUED", got.Status)
	}
	if len(got.Artifacts) != 0 {
		t.Errorf("Artifacts len = %d, want 0", len(got.Artifacts))
	}
}

func TestGetRun_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetRun(context.Background(), "nonexistent")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("err = %v, want sql.ErrNoRows", err)
	}
}

func TestListRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i, id := range []string{"a", "b", "c"} {
		run := makeRun(id)
		if i == 2 {
			run.Status = model.StatusCompleted
		}
		if err := s.CreateRun(ctx, run); err != nil {
			t.Fatalf("CreateRun: %v", err)
		}
	}

	all, err := s.ListRuns(ctx, model.RunFilter{})
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("ListRuns all = %d, want 3", len(all))
	}

	queued, err := s.ListRuns(ctx, model.RunFilter{Status: []string{model.StatusQueued}})
	if err != nil {
		t.Fatalf("ListRuns queued: %v", err)
	}
	if len(queued) != 2 {
		t.Errorf("ListRuns queued = %d, want 2", len(queued))
	}
}

func TestCountByStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.CreateRun(ctx, makeRun("a"))
	s.CreateRun(ctx, makeRun("b"))
	done := makeRun("c")
	done.Status = model.StatusCompleted
	s.CreateRun(ctx, done)

	counts, err := s.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	if counts[model.StatusQueued] != 2 {
		t.Errorf("QUEUED = %d, want 2", counts[model.StatusQueued])
	}
	if counts[model.StatusCompleted] != 1 {
		t.Errorf("COMPLETED = %d, want 1", counts[model.StatusCompleted])
	}
}

func TestUpdateRunStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	s.CreateRun(ctx, makeRun("run-1"))

	info := `{"failed_stage": "page"}`
	if err := s.UpdateRunStatus(ctx, "run-1", model.StatusFailed, &info); err != nil {
		t.Fatalf("UpdateRunStatus: %v", err)
	}

	got, _ := s.GetRun(ctx, "run-1")
	if got.Status != model.StatusFailed {
		t.Errorf("Status = %q, want FAILED", got.Status)
	}
	if got.ErrorInfo == nil || *got.ErrorInfo != info {
		t.Errorf("ErrorInfo = %v, want %q", got.ErrorInfo, info)
	}
}

func TestUpdateRunStatus_NotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.UpdateRunStatus(context.Background(), "missing", model.StatusFailed, nil)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("err = %v, want sql.ErrNoRows", err)
	}
}

func TestUpdateRunResult(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	s.CreateRun(ctx, makeRun("run-1"))

	reasons := "FAQ missing or < 15 items"
	if err := s.UpdateRunResult(ctx, "run-1", false, &reasons, 2); err != nil {
		t.Fatalf("UpdateRunResult: %v", err)
	}

	got, _ := s.GetRun(ctx, "run-1")
	if got.IsValid {
		t.Error("IsValid = true, want false")
	}
	if got.ValidationErrors == nil || *got.ValidationErrors != reasons {
		t.Errorf("ValidationErrors = %v", got.ValidationErrors)
	}
	if got.RetryCount != 2 {
		t.Errorf("RetryCount = %d, want 2", got.RetryCount)
	}

	if err := s.UpdateRunResult(ctx, "run-1", true, nil, 0); err != nil {
		t.Fatalf("UpdateRunResult valid: %v", err)
	}
	got, _ = s.GetRun(ctx, "run-1")
	if !got.IsValid {
		t.Error("IsValid = false, want true")
	}
	if got.ValidationErrors != nil {
		t.Errorf("ValidationErrors = %v, want nil", got.ValidationErrors)
	}
}

func TestClaimNextQueued(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// No runs → nil
	got, err := s.ClaimNextQueued(ctx)
	if err != nil {
		t.Fatalf("ClaimNextQueued: %v", err)
	}
	if got != nil {
		t.Error("expected nil when no runs are queued")
	}

	run1 := makeRun("run-1")
	run2 := makeRun("run-2")
	run2.CreatedAt = time.Now().UTC().Add(time.Second).Format(time.RFC3339)
	s.CreateRun(ctx, run1)
	s.CreateRun(ctx, run2)

	// Claim should get the oldest.
	claimed, err := s.ClaimNextQueued(ctx)
	if err != nil {
		t.Fatalf("ClaimNextQueued: %v", err)
	}
	if claimed == nil || claimed.ID != "run-1" {
		t.Fatalf("claimed = %v, want run-1", claimed)
	}
	if claimed.Status != model.StatusProcessing {
		t.Errorf("claimed status = %q, want PROCESSING", claimed.Status)
	}

	// The claimed run is no longer claimable.
	next, _ := s.ClaimNextQueued(ctx)
	if next == nil || next.ID != "run-2" {
		t.Errorf("next claim = %v, want run-2", next)
	}
}

func TestClaimNextQueued_SkipsNonQueued(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for id, status := range map[string]string{
		"run-1": model.StatusProcessing,
		"run-2": model.StatusCompleted,
		"run-3": model.StatusFailed,
	} {
		run := makeRun(id)
		run.Status = status
		if err := s.CreateRun(ctx, run); err != nil {
			t.Fatalf("CreateRun(%s): %v", id, err)
		}
	}

	got, err := s.ClaimNextQueued(ctx)
	if err != nil {
		t.Fatalf("ClaimNextQueued: %v", err)
	}
	if got != nil {
		t.Errorf("claimed %v, want nil when nothing is QUEUED", got)
	}

	// The existing rows are untouched.
	run, err := s.GetRun(ctx, "run-2")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.Status != model.StatusCompleted {
		t.Errorf("run-2 status = %q, want COMPLETED", run.Status)
	}
}

func TestResetStaleProcessing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	stale := makeRun("run-1")
	stale.Status = model.StatusProcessing
	s.CreateRun(ctx, stale)
	s.CreateRun(ctx, makeRun("run-2"))

	n, err := s.ResetStaleProcessing(ctx)
	if err != nil {
		t.Fatalf("ResetStaleProcessing: %v", err)
	}
	if n != 1 {
		t.Errorf("reset count = %d, want 1", n)
	}

	got, _ := s.GetRun(ctx, "run-1")
	if got.Status != model.StatusQueued {
		t.Errorf("Status = %q, want QUEUED", got.Status)
	}
}

func TestUpsertArtifact(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	s.CreateRun(ctx, makeRun("run-1"))

	a1 := model.NewArtifact("a-1", "run-1", model.ArtifactPage, `{"title": "v1"}`)
	if err := s.UpsertArtifact(ctx, a1); err != nil {
		t.Fatalf("UpsertArtifact: %v", err)
	}

	got, _ := s.GetRun(ctx, "run-1")
	if len(got.Artifacts) != 1 {
		t.Fatalf("Artifacts len = %d, want 1", len(got.Artifacts))
	}
	if got.Artifacts[0].ArtifactType != model.ArtifactPage {
		t.Errorf("ArtifactType = %q, want page", got.Artifacts[0].ArtifactType)
	}

	// Upsert replaces the payload for the same run and type.
	a2 := model.NewArtifact("a-2", "run-1", model.ArtifactPage, `{"title": "v2"}`)
	if err := s.UpsertArtifact(ctx, a2); err != nil {
		t.Fatalf("UpsertArtifact replace: %v", err)
	}

	got, _ = s.GetRun(ctx, "run-1")
	if len(got.Artifacts) != 1 {
		t.Fatalf("Artifacts len after upsert = %d, want 1", len(got.Artifacts))
	}
	if got.Artifacts[0].Payload != `{"title": "v2"}` {
		t.Errorf("payload = %q, want replaced", got.Artifacts[0].Payload)
	}

	// A different type is a second row.
	a3 := model.NewArtifact("a-3", "run-1", model.ArtifactFAQ, `[]`)
	if err := s.UpsertArtifact(ctx, a3); err != nil {
		t.Fatalf("UpsertArtifact faq: %v", err)
	}
	got, _ = s.GetRun(ctx, "run-1")
	if len(got.Artifacts) != 2 {
		t.Errorf("Artifacts len = %d, want 2", len(got.Artifacts))
	}
}

func TestMigration(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate.db")
	db, err := OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if _, err := New(db); err != nil {
		t.Fatalf("New: %v", err)
	}

	var version int
	if err := db.QueryRow("SELECT version FROM schema_version").Scan(&version); err != nil {
		t.Fatalf("read version: %v", err)
	}
	if version != currentSchemaVersion {
		t.Errorf("schema version = %d, want %d", version, currentSchemaVersion)
	}

	// Running New again is idempotent.
	if _, err := New(db); err != nil {
		t.Fatalf("New (second time): %v", err)
	}
}
