package http

import (
	"log/slog"
	"net/http"

	"finanzas/internal/core"
)

// handleDashboardSummary computes totals, the 50/30/20 breakdown, category
// totals and the trend series for the filtered ledger. Results are cached
// per criteria; any committed mutation clears the cache.
func (s *Server) handleDashboardSummary(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := summaryCacheKey(criteria)
	if view, found := s.summaryCache.Get(key); found {
		slog.DebugContext(r.Context(), "Summary cache hit", "key", key)
		writeJSON(w, http.StatusOK, view)
		return
	}

	filtered := core.Filter(s.app.Transactions(), criteria)
	view := buildSummaryView(filtered)

	s.summaryCache.Set(key, view)
	slog.DebugContext(r.Context(), "Summary cached", "key", key, "transactions", len(filtered))

	writeJSON(w, http.StatusOK, view)
}

func summaryCacheKey(c core.Criteria) string {
	return c.Month + "|" + string(c.Half) + "|" + c.Category + "|" + string(c.Type)
}
