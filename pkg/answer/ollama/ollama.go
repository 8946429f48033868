// Package ollama implements a text generator backed by an Ollama
// server.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/papershelf/papershelf/pkg/answer"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "llama3:8b"

	defaultTimeout = 300 * time.Second
)

// Generator talks to the Ollama generate endpoint.
type Generator struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// GeneratorConfig holds the Ollama connection settings.
type GeneratorConfig struct {
	// TargetURL is the Ollama server base URL, e.g. http://localhost:11434.
	TargetURL string

	// Model names the model to generate with. Empty means DefaultModel.
	Model string
}

func NewGenerator(cfg GeneratorConfig) (*Generator, error) {
	if cfg.TargetURL == "" {
		return nil, fmt.Errorf("ollama target url is required")
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Generator{
		baseURL: cfg.TargetURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}, nil
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Model:  g.model,
		Prompt: prompt,
		Stream: false,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling generate request: %w", err)
	}

	url := g.baseURL + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, string(body))
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("decoding generate response: %w", err)
	}

	return genResp.Response, nil
}

func (g *Generator) Close() error {
	g.httpClient.CloseIdleConnections()
	return nil
}

var _ answer.Generator = (*Generator)(nil)
