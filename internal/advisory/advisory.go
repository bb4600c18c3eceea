// Package advisory provides the external text-generation capability used by
// the AI-detection advisory signal. The default implementation talks to a
// local Ollama server; Static provides a deterministic stand-in for offline
// runs and tests.
package advisory

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
)

const defaultModel = "llama3.2"

// Client calls an Ollama-compatible /api/generate endpoint.
type Client struct {
	endpoint string
	model    string
	client   *http.Client
}

// NewClient resolves the endpoint from OLLAMA_URL when endpoint is empty and
// the model from ADVISORY_MODEL when model is empty.
func NewClient(endpoint, model string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = generateEndpoint()
	}
	if model == "" {
		model = strings.TrimSpace(os.Getenv("ADVISORY_MODEL"))
	}
	if model == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		model:    model,
		client:   &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate sends the prompt and returns the raw model text. Temperature is
// pinned to zero so repeated calls stay comparable.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	payload := generateRequest{
		Model:   c.model,
		Prompt:  prompt,
		Stream:  false,
		Options: map[string]any{"temperature": 0},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call %s: %w", c.endpoint, err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("status %d from %s", resp.StatusCode, c.endpoint)
	}

	var out generateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if strings.TrimSpace(out.Response) == "" {
		return "", fmt.Errorf("empty model response")
	}
	return out.Response, nil
}

func generateEndpoint() string {
	base := strings.TrimSpace(os.Getenv("OLLAMA_URL"))
	if base == "" {
		return "http://127.0.0.1:11434/api/generate"
	}
	if strings.Contains(base, "/api/generate") {
		return base
	}
	return strings.TrimSuffix(base, "/") + "/api/generate"
}

// Static always returns the same response. Used when no advisory endpoint is
// configured and in tests that need determinism.
type Static struct {
	Response string
	Err      error
}

func (s Static) Generate(context.Context, string) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	return s.Response, nil
}
