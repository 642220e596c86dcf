package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"finanzas/internal/core"
	applog "finanzas/internal/log"

	"github.com/go-chi/chi/v5"
)

// criteriaFromQuery builds filter criteria from query parameters. Absent
// parameters fall back to the default view: current month, both halves,
// every category and type.
func criteriaFromQuery(r *http.Request) (core.Criteria, error) {
	c := core.DefaultCriteria(core.Date{Time: time.Now()})

	q := r.URL.Query()
	if q.Has("month") {
		// month= (empty) clears the month constraint
		c.Month = strings.TrimSpace(q.Get("month"))
	}
	if v := strings.TrimSpace(q.Get("half")); v != "" {
		c.Half = core.Half(v)
	}
	if v := strings.TrimSpace(q.Get("category")); v != "" {
		c.Category = v
	}
	if v := strings.TrimSpace(q.Get("type")); v != "" {
		c.Type = core.TypeFilter(v)
	}

	if err := c.Validate(); err != nil {
		return core.Criteria{}, err
	}
	return c, nil
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	filtered := core.Filter(s.app.Transactions(), criteria)
	writeJSON(w, http.StatusOK, toTransactionViews(filtered))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, err := req.toCore()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.app.AddTransaction(r.Context(), tx); err != nil {
		slog.ErrorContext(r.Context(), "Transaction create failed",
			applog.FieldError, err,
			applog.FieldTxID, tx.ID,
			applog.FieldOperation, applog.OpCreate)
		writeError(w, statusForStateError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, toTransactionView(tx))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.ID = id

	tx, err := req.toCore()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	applied, err := s.app.UpdateTransaction(r.Context(), tx)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction update failed",
			applog.FieldError, err,
			applog.FieldTxID, id,
			applog.FieldOperation, applog.OpUpdate)
		writeError(w, statusForStateError(err), err.Error())
		return
	}
	if !applied {
		// Absent ids are a silent no-op in the ledger rules; the API
		// still reports the miss to its caller.
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}

	writeJSON(w, http.StatusOK, toTransactionView(tx))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	applied, err := s.app.DeleteTransaction(r.Context(), id)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction delete failed",
			applog.FieldError, err,
			applog.FieldTxID, id,
			applog.FieldOperation, applog.OpDelete)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !applied {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// statusForStateError maps state-layer failures: validation problems are
// the client's fault, persistence problems are ours.
func statusForStateError(err error) int {
	switch {
	case strings.Contains(err.Error(), "persist"):
		return http.StatusInternalServerError
	case strings.Contains(err.Error(), "already exists"):
		return http.StatusConflict
	default:
		return http.StatusUnprocessableEntity
	}
}
