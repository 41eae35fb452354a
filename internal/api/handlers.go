package api

import (
	"database/sql"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/yangwenmai/prodpage/internal/model"
)

// ---------------------------------------------------------------------------
// POST /api/products
// ---------------------------------------------------------------------------

// handleSubmit accepts a product JSON document (optionally wrapped in
// {"product": {...}}) and queues a pipeline run for it.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}

	product, err := model.ProductFromJSON(payload)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	run := model.NewRun(uuid.New().String(), product.Name, string(payload))
	if err := s.store.CreateRun(r.Context(), run); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create run")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"id":     run.ID,
		"status": run.Status,
	})
}

// ---------------------------------------------------------------------------
// GET /api/runs
// ---------------------------------------------------------------------------

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	filter := model.RunFilter{
		Status: splitComma(r.URL.Query().Get("status")),
	}

	runs, err := s.store.ListRuns(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	if runs == nil {
		runs = []model.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

// ---------------------------------------------------------------------------
// GET /api/runs/{id}
// ---------------------------------------------------------------------------

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	run, err := s.store.GetRun(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get run")
		return
	}

	writeJSON(w, http.StatusOK, run)
}

// ---------------------------------------------------------------------------
// POST /api/runs/{id}/requeue
// ---------------------------------------------------------------------------

// handleRequeue puts a finished FAILED or INVALID run back in the queue.
func (s *Server) handleRequeue(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	run, err := s.store.GetRun(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get run")
		return
	}

	if run.Status != model.StatusFailed && run.Status != model.StatusInvalid {
		writeError(w, http.StatusConflict, "only FAILED or INVALID runs can be requeued")
		return
	}

	if err := s.store.UpdateRunStatus(r.Context(), id, model.StatusQueued, nil); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update status")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": model.StatusQueued})
}

// ---------------------------------------------------------------------------
// GET /api/stats
// ---------------------------------------------------------------------------

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	counts, err := s.store.CountByStatus(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to count runs")
		return
	}
	writeJSON(w, http.StatusOK, counts)
}
