package suggest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"weekplan/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	t.Setenv("TEST_SUGGEST_KEY", "test-key")
	return New(config.SuggestConfig{
		Endpoint:       srv.URL,
		Model:          "gemini-2.0-flash",
		APIKeyEnv:      "TEST_SUGGEST_KEY",
		TimeoutSeconds: 5,
	})
}

func generateReply(text string) []byte {
	reply := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]string{{"text": text}}}},
		},
	}
	data, _ := json.Marshal(reply)
	return data
}

func TestBreakdown(t *testing.T) {
	var gotPath, gotKey string
	var gotBody generateRequest

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write(generateReply("* Pack gym bag\n* Warm up\n\n- Lift weights\nStretch\n"))
	})

	subtasks, err := c.Breakdown(context.Background(), "Go to gym")
	if err != nil {
		t.Fatalf("Breakdown() error = %v", err)
	}

	want := []string{"Pack gym bag", "Warm up", "Lift weights", "Stretch"}
	if !reflect.DeepEqual(subtasks, want) {
		t.Errorf("subtasks = %v, want %v", subtasks, want)
	}

	if gotPath != "/gemini-2.0-flash:generateContent" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("key = %q", gotKey)
	}
	if len(gotBody.Contents) != 1 || len(gotBody.Contents[0].Parts) == 0 {
		t.Fatalf("request body = %+v", gotBody)
	}
	prompt := gotBody.Contents[0].Parts[0].Text
	if want := `Task: "Go to gym"`; !strings.Contains(prompt, want) {
		t.Errorf("prompt %q missing %q", prompt, want)
	}
}

func TestBreakdown_Errors(t *testing.T) {
	t.Run("blank task", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
		if _, err := c.Breakdown(context.Background(), "   "); err == nil {
			t.Error("expected error for blank task text")
		}
	})

	t.Run("missing api key", func(t *testing.T) {
		c := New(config.SuggestConfig{Endpoint: "http://localhost", Model: "m", APIKeyEnv: "UNSET_SUGGEST_KEY"})
		if _, err := c.Breakdown(context.Background(), "Go to gym"); err == nil {
			t.Error("expected error when API key env is unset")
		}
	})

	t.Run("http error status", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
		})
		if _, err := c.Breakdown(context.Background(), "Go to gym"); err == nil {
			t.Error("expected error for non-200 status")
		}
	})

	t.Run("empty candidates", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"candidates":[]}`))
		})
		if _, err := c.Breakdown(context.Background(), "Go to gym"); err == nil {
			t.Error("expected error for empty candidates")
		}
	})

	t.Run("only blank lines", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(generateReply("\n  \n*\n"))
		})
		if _, err := c.Breakdown(context.Background(), "Go to gym"); err == nil {
			t.Error("expected error when no usable sub-tasks come back")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(generateReply("* A"))
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := c.Breakdown(ctx, "Go to gym"); err == nil {
			t.Error("expected error for cancelled context")
		}
	})
}

func TestParseSubtasks(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"bullets", "* one\n* two", []string{"one", "two"}},
		{"dashes", "- one\n- two", []string{"one", "two"}},
		{"mixed and plain", "* one\ntwo\n- three", []string{"one", "two", "three"}},
		{"blank lines dropped", "\n* one\n\n\n* two\n", []string{"one", "two"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseSubtasks(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseSubtasks(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
