package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hotaru-ai/promptchat/pkg/prompt"
)

const defaultGenerateTimeout = 120 * time.Second

// HTTPLoader talks to an ollama-compatible inference server. Load pulls the
// model into server memory; the returned generator posts raw prompts to
// /api/generate.
type HTTPLoader struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPLoader(baseURL string) *HTTPLoader {
	return &HTTPLoader{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultGenerateTimeout},
	}
}

func (l *HTTPLoader) Load(ctx context.Context, modelName string) (Generator, error) {
	if l.baseURL == "" {
		return nil, fmt.Errorf("backend base URL not configured")
	}

	body, err := json.Marshal(map[string]string{"model": modelName})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.baseURL+"/api/show", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("model %q not found on backend", modelName)
	}
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("backend load failed:\n  Status: %d\n  Body:   %s", resp.StatusCode, string(raw))
	}

	return &httpGenerator{
		baseURL:    l.baseURL,
		model:      modelName,
		httpClient: l.httpClient,
	}, nil
}

type httpGenerator struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Raw     bool            `json:"raw"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	NumPredict    int     `json:"num_predict,omitempty"`
	Temperature   float64 `json:"temperature,omitempty"`
	TopP          float64 `json:"top_p,omitempty"`
	TopK          int     `json:"top_k,omitempty"`
	RepeatPenalty float64 `json:"repeat_penalty,omitempty"`
	RepeatLastN   int     `json:"repeat_last_n,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func (g *httpGenerator) Generate(ctx context.Context, promptText string, profile prompt.Profile) (string, error) {
	payload := generateRequest{
		Model:  g.model,
		Prompt: promptText,
		// The prompt is already rendered with the model's chat template.
		Raw:    true,
		Stream: false,
		Options: generateOptions{
			NumPredict:    profile.MaxNewTokens,
			Temperature:   profile.Temperature,
			TopP:          profile.TopP,
			TopK:          profile.TopK,
			RepeatPenalty: profile.RepetitionPenalty,
			RepeatLastN:   profile.NoRepeatNgramSize,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("backend generate failed:\n  Status: %d\n  Body:   %s", resp.StatusCode, string(raw))
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return strings.TrimSpace(parsed.Response), nil
}
