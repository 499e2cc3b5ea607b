package grouptoken

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		token, err := New()
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		if len(token) != Length {
			t.Fatalf("expected %d chars, got %q", Length, token)
		}
		if token != strings.ToUpper(token) {
			t.Errorf("expected uppercase token, got %q", token)
		}
		if strings.Trim(token, "0123456789ABCDEF") != "" {
			t.Errorf("token %q contains non-hex characters", token)
		}
		if seen[token] {
			t.Errorf("duplicate token %q after %d draws", token, i)
		}
		seen[token] = true
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  ab12cd34 "); got != "AB12CD34" {
		t.Errorf("Normalize: expected AB12CD34, got %q", got)
	}
}
