package roleplay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/floorcast/floorcast-server/internal/store"
)

// Generator is the opaque text-generation capability the engine speaks to.
// It is a potentially slow, potentially failing remote call.
type Generator interface {
	Generate(ctx context.Context, persona string, history []store.SessionMessage, temperature float64) (string, error)
}

// HTTPGenerator calls a remote completion endpoint.
type HTTPGenerator struct {
	url    string
	client *http.Client
}

// NewHTTPGenerator builds a generator against the given endpoint.
func NewHTTPGenerator(url string, timeout time.Duration) *HTTPGenerator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPGenerator{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Persona     string                 `json:"persona"`
	History     []store.SessionMessage `json:"history"`
	Temperature float64                `json:"temperature"`
}

type generateResponse struct {
	Text string `json:"text"`
}

// Generate posts the persona and transcript and returns the completion.
func (g *HTTPGenerator) Generate(ctx context.Context, persona string, history []store.SessionMessage, temperature float64) (string, error) {
	body, err := json.Marshal(generateRequest{
		Persona:     persona,
		History:     history,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call generator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generator returned status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if out.Text == "" {
		return "", fmt.Errorf("generator returned empty text")
	}
	return out.Text, nil
}

// ScriptedGenerator cycles through canned prospect lines. Used when no
// generator endpoint is configured, and in tests.
type ScriptedGenerator struct {
	Lines []string
}

var defaultScript = []string{
	"Hm, I wasn't expecting anyone. What's this about?",
	"Alright, I'm listening. Keep it short though.",
	"And what would that cost me?",
	"I'd have to think about it. Anything else?",
}

// Generate returns the next scripted line based on transcript length.
func (g *ScriptedGenerator) Generate(_ context.Context, _ string, history []store.SessionMessage, _ float64) (string, error) {
	lines := g.Lines
	if len(lines) == 0 {
		lines = defaultScript
	}
	turn := 0
	for _, m := range history {
		if m.Role == store.RoleAssistant {
			turn++
		}
	}
	return lines[turn%len(lines)], nil
}
