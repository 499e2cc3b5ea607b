// Package assistant wraps the external Suggestion Service behind PlanPal,
// the conversational planning helper. The contract is "prompt -> text"; the
// retry/fallback policy lives here, on the caller side: without an API key
// or on any upstream failure PlanPal degrades to clearly labeled offline
// replies and canned suggestions instead of surfacing an error to the user.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/planmyoutings/outings/internal/metrics"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// ErrOffline is returned by Generate when no API key is configured.
var ErrOffline = errors.New("assistant is offline: no API key configured")

// OfflineReply is the chat response shown when the assistant is not
// configured.
const OfflineReply = "(PlanPal offline) Set GEMINI_API_KEY on the server to enable live AI."

// Suggestion is one structured event idea from the assistant.
type Suggestion struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	EstimatedCost string `json:"estimated_cost,omitempty"`
	Duration      string `json:"duration,omitempty"`
}

// PlanPal is a client for the generative-language API.
type PlanPal struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

// New creates a PlanPal client. An empty apiKey yields an offline assistant
// that still answers with degraded replies.
func New(apiKey, model string, timeout time.Duration) *PlanPal {
	return &PlanPal{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Online reports whether a live model is configured.
func (p *PlanPal) Online() bool { return p.apiKey != "" }

// Generate calls the model with the prompt and returns its text output.
func (p *PlanPal) Generate(ctx context.Context, prompt string) (string, error) {
	if !p.Online() {
		return "", ErrOffline
	}

	body, err := json.Marshal(map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode prompt: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", p.baseURL, p.model, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("suggestion service unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("suggestion service returned status %d", resp.StatusCode)
	}

	var out struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode suggestion response: %w", err)
	}

	var sb strings.Builder
	for _, c := range out.Candidates {
		for _, part := range c.Content.Parts {
			sb.WriteString(part.Text)
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("suggestion service returned no text")
	}
	return sb.String(), nil
}

// Chat produces a friendly planning reply. Failures never reach the end
// user as errors; they become labeled degraded messages.
func (p *PlanPal) Chat(ctx context.Context, message string) string {
	if !p.Online() {
		return OfflineReply
	}

	prompt := fmt.Sprintf(
		"As PlanPal, a friendly event planning assistant, respond briefly and helpfully to: %s",
		message,
	)
	reply, err := p.Generate(ctx, prompt)
	if err != nil {
		slog.Warn("assistant chat failed", "error", err)
		metrics.UpstreamErrors.WithLabelValues("assistant").Inc()
		return fmt.Sprintf("(PlanPal error calling model: %v)", err)
	}
	return reply
}

// EventSuggestions asks the model for structured event ideas and falls back
// to canned suggestions whenever the call or the parse fails.
func (p *PlanPal) EventSuggestions(ctx context.Context, location string, groupSize int, mood string) []Suggestion {
	if !p.Online() {
		return cannedSuggestions(location)
	}

	prompt := fmt.Sprintf(
		"Suggest 3 concise event ideas for a group of %d people in %s with mood '%s'. "+
			"Return the results as JSON array of objects with keys: name, description, estimated_cost, duration.",
		groupSize, location, mood,
	)

	text, err := p.Generate(ctx, prompt)
	if err != nil {
		slog.Warn("assistant suggestions failed", "error", err)
		metrics.UpstreamErrors.WithLabelValues("assistant").Inc()
		return cannedSuggestions(location)
	}

	if suggestions := parseSuggestions(text); len(suggestions) > 0 {
		return suggestions
	}
	// Model answered but not in the requested shape; keep its text.
	return []Suggestion{{Name: "Suggestion", Description: text}}
}

// parseSuggestions extracts the first JSON array embedded in the model's
// reply. Models wrap JSON in prose and code fences often enough that a
// plain Unmarshal of the whole text is not good enough.
func parseSuggestions(text string) []Suggestion {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil
	}

	var suggestions []Suggestion
	if err := json.Unmarshal([]byte(text[start:end+1]), &suggestions); err != nil {
		return nil
	}
	return suggestions
}

func cannedSuggestions(location string) []Suggestion {
	return []Suggestion{
		{Name: "Café Hangout", Description: fmt.Sprintf("Chill café near %s", location), EstimatedCost: "₹300", Duration: "2 hours"},
		{Name: "Park Picnic", Description: "Relaxing picnic in a nearby park", EstimatedCost: "₹150", Duration: "3 hours"},
		{Name: "Food Crawl", Description: "Try popular local eateries", EstimatedCost: "₹800", Duration: "4 hours"},
	}
}
