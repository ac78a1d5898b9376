// Package suggest breaks a high-level task down into smaller sub-tasks by
// calling a Gemini-style generateContent endpoint.
package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"weekplan/internal/config"
)

// Client calls the generation API. The zero value is not usable; use New.
type Client struct {
	endpoint string
	model    string
	apiKey   string
	http     *http.Client
}

// New builds a Client from the suggest configuration. The API key is read
// from the environment variable the config names.
func New(cfg config.SuggestConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		model:    cfg.Model,
		apiKey:   os.Getenv(cfg.APIKeyEnv),
		http:     &http.Client{Timeout: timeout},
	}
}

// SetHTTPClient overrides the underlying HTTP client. Used by tests.
func (c *Client) SetHTTPClient(hc *http.Client) {
	if hc != nil {
		c.http = hc
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Breakdown asks the model to split taskText into 3-5 sub-tasks and
// returns them as cleaned lines with any bullet markers stripped.
func (c *Client) Breakdown(ctx context.Context, taskText string) ([]string, error) {
	taskText = strings.TrimSpace(taskText)
	if taskText == "" {
		return nil, fmt.Errorf("task text is required")
	}
	if c.apiKey == "" {
		return nil, fmt.Errorf("no API key configured for suggestions")
	}

	prompt := fmt.Sprintf("Break down the following high-level task into 3-5 actionable, smaller sub-tasks. "+
		"List them as a bulleted list. Each sub-task should be concise.\n\nTask: %q", taskText)

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.endpoint, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call generation API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("generation API returned %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var gen generateResponse
	if err := json.Unmarshal(data, &gen); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if len(gen.Candidates) == 0 || len(gen.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no content generated")
	}

	subtasks := ParseSubtasks(gen.Candidates[0].Content.Parts[0].Text)
	if len(subtasks) == 0 {
		return nil, fmt.Errorf("no valid sub-tasks in generated content")
	}
	return subtasks, nil
}

// ParseSubtasks splits generated text into one sub-task per line, removing
// leading "*" or "-" bullet markers and blank lines.
func ParseSubtasks(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "*-")
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
