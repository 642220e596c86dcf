// Package advisor is the client for the external generative-language API.
// It builds a financial-context prompt from the ledger and goals, walks an
// ordered model fallback list, and maps every failure to a fixed
// user-facing Spanish message instead of propagating errors.
package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"finanzas/internal/core"
)

// contextTransactionLimit bounds how many ledger entries are serialized
// into the prompt. The ledger is most-recent-first, so the prefix is the
// most relevant slice.
const contextTransactionLimit = 20

type Client struct {
	apiKey     string
	baseURL    string
	models     []string
	retryDelay time.Duration
	httpClient *http.Client
}

func NewClient(apiKey, baseURL string, models []string, retryDelay, timeout time.Duration) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		models:     models,
		retryDelay: retryDelay,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Enabled reports whether a credential is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type generateRequest struct {
	SystemInstruction *content  `json:"system_instruction,omitempty"`
	Contents          []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// rateLimited reports whether an error from generate indicates a quota or
// rate-limit condition. Only these failures earn the fixed delay before
// trying the next model.
func rateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "status 429") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

// Advise answers a free-text query with the ledger prefix and full goal
// list as context. The second return flags the text as an error message
// for the chat transcript; the error itself is never propagated.
func (c *Client) Advise(ctx context.Context, query string, txs []core.Transaction, goals []core.Goal) (string, bool) {
	if !c.Enabled() {
		return MsgUnavailable, true
	}

	prompt := fmt.Sprintf("Contexto: %s\n\nConsulta del Usuario: %s", financialContext(txs, goals), query)

	var lastErr error
	for i, model := range c.models {
		text, err := c.generate(ctx, model, systemInstruction, prompt)
		if err == nil {
			if text == "" {
				return MsgEmptyResponse, false
			}
			return text, false
		}
		lastErr = err

		slog.WarnContext(ctx, "Advisor model failed",
			"model", model,
			"remaining", len(c.models)-i-1,
			"rate_limited", rateLimited(err),
			"error", err)

		if rateLimited(err) && i < len(c.models)-1 {
			select {
			case <-ctx.Done():
				return fmt.Sprintf(msgAllModelsFailedFormat, ctx.Err()), true
			case <-time.After(c.retryDelay):
			}
		}
	}

	return fmt.Sprintf(msgAllModelsFailedFormat, lastErr), true
}

// Categorize maps a transaction description to a single-word Spanish
// category. Single best-effort attempt on the first model; any failure
// yields the fixed placeholder.
func (c *Client) Categorize(ctx context.Context, description string) string {
	if !c.Enabled() || len(c.models) == 0 {
		return Uncategorized
	}

	text, err := c.generate(ctx, c.models[0], "", fmt.Sprintf(categorizePromptFormat, description))
	if err != nil {
		slog.WarnContext(ctx, "Categorization failed", "error", err)
		return Uncategorized
	}
	if text = strings.TrimSpace(text); text == "" {
		return Uncategorized
	}
	return text
}

func (c *Client) generate(ctx context.Context, model, system, prompt string) (string, error) {
	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}
	if system != "" {
		reqBody.SystemInstruction = &content{Parts: []part{{Text: system}}}
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call advice service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var genResp generateResponse
		if json.Unmarshal(body, &genResp) == nil && genResp.Error != nil {
			return "", fmt.Errorf("advice service error (status %d, %s): %s",
				resp.StatusCode, genResp.Error.Status, genResp.Error.Message)
		}
		return "", fmt.Errorf("advice service error (status %d): %s", resp.StatusCode, string(body))
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}

	var sb strings.Builder
	for _, p := range genResp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}

// contextTransaction and contextGoal are the prompt-facing shapes: decimal
// amounts and ISO dates, matching what a person would write.
type contextTransaction struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Type        string  `json:"type"`
	User        string  `json:"user,omitempty"`
}

type contextGoal struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	TargetAmount  float64 `json:"targetAmount"`
	CurrentAmount float64 `json:"currentAmount"`
	Deadline      string  `json:"deadline"`
}

func financialContext(txs []core.Transaction, goals []core.Goal) string {
	limit := len(txs)
	truncated := false
	if limit > contextTransactionLimit {
		limit = contextTransactionLimit
		truncated = true
	}

	ctxTxs := make([]contextTransaction, 0, limit)
	for _, t := range txs[:limit] {
		ctxTxs = append(ctxTxs, contextTransaction{
			ID:          t.ID,
			Date:        t.Date.ISO(),
			Description: t.Description,
			Amount:      t.Amount.Decimal(),
			Category:    t.Category,
			Type:        t.Type.String(),
			User:        t.User,
		})
	}

	ctxGoals := make([]contextGoal, 0, len(goals))
	for _, g := range goals {
		ctxGoals = append(ctxGoals, contextGoal{
			ID:            g.ID,
			Name:          g.Name,
			TargetAmount:  g.TargetAmount.Decimal(),
			CurrentAmount: g.CurrentAmount.Decimal(),
			Deadline:      g.Deadline.ISO(),
		})
	}

	txJSON, _ := json.Marshal(ctxTxs)
	goalJSON, _ := json.Marshal(ctxGoals)

	suffix := ""
	if truncated {
		suffix = "... (truncado por brevedad)"
	}
	return fmt.Sprintf("\nDatos actuales del usuario:\nTransacciones: %s%s\nMetas: %s\n",
		txJSON, suffix, goalJSON)
}
