package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// modelReply builds the generateContent response envelope around text.
func modelReply(text string) string {
	out := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]string{{"text": text}}}},
		},
	}
	b, _ := json.Marshal(out)
	return string(b)
}

func newTestPlanPal(t *testing.T, handler http.HandlerFunc) *PlanPal {
	t.Helper()

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	p := New("test-key", "test-model", time.Second)
	p.baseURL = ts.URL
	return p
}

func TestOffline(t *testing.T) {
	ctx := context.Background()
	p := New("", "test-model", time.Second)

	if p.Online() {
		t.Error("expected offline without an API key")
	}

	if _, err := p.Generate(ctx, "hi"); !errors.Is(err, ErrOffline) {
		t.Errorf("expected ErrOffline, got %v", err)
	}

	if reply := p.Chat(ctx, "plan my weekend"); reply != OfflineReply {
		t.Errorf("expected the offline reply, got %q", reply)
	}

	suggestions := p.EventSuggestions(ctx, "Bengaluru", 4, "Chill")
	if len(suggestions) != 3 {
		t.Fatalf("expected 3 canned suggestions, got %d", len(suggestions))
	}
	if !strings.Contains(suggestions[0].Description, "Bengaluru") {
		t.Errorf("expected the location in the canned suggestion, got %q", suggestions[0].Description)
	}
}

func TestChat(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the model's reply", func(t *testing.T) {
		p := newTestPlanPal(t, func(w http.ResponseWriter, r *http.Request) {
			if !strings.Contains(r.URL.Path, "test-model:generateContent") {
				t.Errorf("unexpected path %q", r.URL.Path)
			}
			w.Write([]byte(modelReply("How about a picnic?")))
		})

		if reply := p.Chat(ctx, "ideas?"); reply != "How about a picnic?" {
			t.Errorf("expected the model reply, got %q", reply)
		}
	})

	t.Run("upstream failure becomes a labeled message", func(t *testing.T) {
		p := newTestPlanPal(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		reply := p.Chat(ctx, "ideas?")
		if !strings.HasPrefix(reply, "(PlanPal error") {
			t.Errorf("expected a degraded reply, got %q", reply)
		}
	})
}

func TestEventSuggestions(t *testing.T) {
	ctx := context.Background()

	t.Run("parses structured ideas", func(t *testing.T) {
		text := "Here you go:\n```json\n" +
			`[{"name":"Bowling","description":"Strike night","estimated_cost":"₹500","duration":"2 hours"}]` +
			"\n```"
		p := newTestPlanPal(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(modelReply(text)))
		})

		suggestions := p.EventSuggestions(ctx, "Bengaluru", 4, "Chill")
		if len(suggestions) != 1 || suggestions[0].Name != "Bowling" {
			t.Fatalf("expected the parsed suggestion, got %+v", suggestions)
		}
	})

	t.Run("unstructured reply kept as a single suggestion", func(t *testing.T) {
		p := newTestPlanPal(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(modelReply("Go bowling, it's fun.")))
		})

		suggestions := p.EventSuggestions(ctx, "Bengaluru", 4, "Chill")
		if len(suggestions) != 1 || suggestions[0].Description != "Go bowling, it's fun." {
			t.Fatalf("expected the raw text preserved, got %+v", suggestions)
		}
	})

	t.Run("falls back to canned ideas on failure", func(t *testing.T) {
		p := newTestPlanPal(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		suggestions := p.EventSuggestions(ctx, "Mysuru", 4, "Foodie")
		if len(suggestions) != 3 {
			t.Fatalf("expected 3 canned suggestions, got %d", len(suggestions))
		}
		if suggestions[1].Name != "Park Picnic" {
			t.Errorf("unexpected canned set: %+v", suggestions)
		}
	})
}

func TestParseSuggestions(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"bare array", `[{"name":"A"},{"name":"B"}]`, 2},
		{"fenced array", "```json\n[{\"name\":\"A\"}]\n```", 1},
		{"prose around array", `Sure! [{"name":"A"}] Enjoy.`, 1},
		{"no array", "just words", 0},
		{"broken json", `[{"name":}]`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseSuggestions(tt.text); len(got) != tt.want {
				t.Errorf("expected %d suggestions, got %d", tt.want, len(got))
			}
		})
	}
}
