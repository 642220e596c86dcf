package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	applog "finanzas/internal/log"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toGoalViews(s.app.Goals()))
}

// handleUpsertGoal replaces the goal with the path id, creating it when
// absent. The payload is the full record; there is no partial merge.
func (s *Server) handleUpsertGoal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req goalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	goal, err := req.toCore(id)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.app.UpsertGoal(r.Context(), goal); err != nil {
		slog.ErrorContext(r.Context(), "Goal upsert failed",
			applog.FieldError, err,
			applog.FieldGoalID, id,
			applog.FieldOperation, applog.OpUpsert)
		writeError(w, statusForStateError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toGoalView(goal))
}
