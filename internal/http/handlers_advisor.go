package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"finanzas/internal/advisor"
	"finanzas/internal/core"
)

type chatRequest struct {
	Query string `json:"query"`
}

type chatResponse struct {
	Reply   string `json:"reply"`
	IsError bool   `json:"is_error,omitempty"`
}

// handleAdvisorChat forwards the query plus a ledger/goal snapshot to the
// advice service. The user message is appended at submission, the reply at
// completion: overlapping queries interleave in completion order.
func (s *Server) handleAdvisorChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		writeError(w, http.StatusUnprocessableEntity, "query cannot be empty")
		return
	}

	s.appendMessage(core.ChatMessage{Role: "user", Text: query})

	reply, isErr := s.adviser.Advise(r.Context(), query, s.app.Transactions(), s.app.Goals())

	s.appendMessage(core.ChatMessage{Role: "model", Text: reply, IsError: isErr})

	writeJSON(w, http.StatusOK, chatResponse{Reply: reply, IsError: isErr})
}

func (s *Server) handleAdvisorMessages(w http.ResponseWriter, r *http.Request) {
	s.transcriptMu.Lock()
	out := make([]core.ChatMessage, len(s.transcript))
	copy(out, s.transcript)
	s.transcriptMu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

type categorizeRequest struct {
	Description string `json:"description"`
}

type categorizeResponse struct {
	Category string `json:"category"`
}

// handleAdvisorCategorize suggests a single-word category for a
// description. Failures degrade to the fixed placeholder, never an error
// status.
func (s *Server) handleAdvisorCategorize(w http.ResponseWriter, r *http.Request) {
	var req categorizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		writeJSON(w, http.StatusOK, categorizeResponse{Category: advisor.Uncategorized})
		return
	}

	category := s.adviser.Categorize(r.Context(), req.Description)
	writeJSON(w, http.StatusOK, categorizeResponse{Category: category})
}

func (s *Server) appendMessage(m core.ChatMessage) {
	s.transcriptMu.Lock()
	s.transcript = append(s.transcript, m)
	s.transcriptMu.Unlock()
}
