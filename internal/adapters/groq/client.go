// Package groq provides the scoring adapter. It sends the aggregated
// sentiment summary to an OpenAI-compatible chat completions API configured
// for deterministic JSON output and validates the four bounded scores.
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/pitchcoach-labs/pitchcoach/backend/internal/core/domain"
	"github.com/pitchcoach-labs/pitchcoach/backend/internal/core/ports"
)

const (
	defaultBaseURL = "https://api.groq.com/openai/v1"
	defaultModel   = "deepseek-r1-distill-llama-70b"
)

// Client is an HTTP client for the scoring model.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	model       string
	maxRetries  int
	baseBackoff time.Duration
}

// compile-time interface assertion
var _ ports.PitchScorer = (*Client)(nil)

// NewClient constructs a scoring client. The API key is injected as a
// bearer token through an oauth2 static token source.
func NewClient(apiKey, baseURL, model string) *Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey})
	httpClient := oauth2.NewClient(context.Background(), src)
	httpClient.Timeout = 90 * time.Second

	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}
	return &Client{
		httpClient:  httpClient,
		baseURL:     baseURL,
		model:       model,
		maxRetries:  defaultMaxRetries,
		baseBackoff: time.Duration(defaultBackoffMs) * time.Millisecond,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// scoresWire uses pointers so a missing field is distinguishable from zero.
type scoresWire struct {
	Tone        *float64 `json:"tone"`
	Fluency     *float64 `json:"fluency"`
	Clarity     *float64 `json:"clarity"`
	Confidence  *float64 `json:"confidence"`
	Explanation string   `json:"explanation"`
}

// ScorePitch renders the analysis summary into the fixed prompt template and
// requests a zero-temperature structured completion. Transport failures are
// retried a bounded number of times inside doRequestWithRetry; validation
// failures are never retried.
func (c *Client) ScorePitch(ctx context.Context, analysis domain.Analysis) (domain.PitchScores, error) {
	payload := chatRequest{
		Model:       c.model,
		Temperature: 0,
		ResponseFormat: &responseFormat{
			Type: "json_object",
		},
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: renderUserPrompt(analysis)},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return domain.PitchScores{}, fmt.Errorf("groq adapter: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return domain.PitchScores{}, fmt.Errorf("groq adapter: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return domain.PitchScores{}, &ports.ScoringUnavailableError{Reason: "model request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.PitchScores{}, &ports.ScoringUnavailableError{Reason: fmt.Sprintf("model returned status %d", resp.StatusCode)}
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return domain.PitchScores{}, &ports.ScoringUnavailableError{Reason: "decode model response", Err: err}
	}
	if parsed.Error != nil {
		return domain.PitchScores{}, &ports.ScoringUnavailableError{Reason: parsed.Error.Message}
	}
	if len(parsed.Choices) == 0 {
		return domain.PitchScores{}, &ports.ScoringUnavailableError{Reason: "model returned no choices"}
	}

	return parseScores(parsed.Choices[0].Message.Content)
}

// parseScores validates the model output against the structured-output
// contract: four numeric fields in [0,100] plus a non-empty explanation.
func parseScores(content string) (domain.PitchScores, error) {
	content = stripCodeFences(content)
	if content == "" {
		return domain.PitchScores{}, &ports.ScoringUnavailableError{Reason: "model returned empty content"}
	}

	var wire scoresWire
	if err := json.Unmarshal([]byte(content), &wire); err != nil {
		return domain.PitchScores{}, &ports.ScoringUnavailableError{Reason: "model output is not valid JSON", Err: err}
	}

	missing := []string{}
	if wire.Tone == nil {
		missing = append(missing, "tone")
	}
	if wire.Fluency == nil {
		missing = append(missing, "fluency")
	}
	if wire.Clarity == nil {
		missing = append(missing, "clarity")
	}
	if wire.Confidence == nil {
		missing = append(missing, "confidence")
	}
	if len(missing) > 0 {
		return domain.PitchScores{}, &ports.ScoringUnavailableError{
			Reason: fmt.Sprintf("model output missing fields: %s", strings.Join(missing, ", ")),
		}
	}
	if strings.TrimSpace(wire.Explanation) == "" {
		return domain.PitchScores{}, &ports.ScoringUnavailableError{Reason: "model output missing explanation"}
	}

	scores := domain.PitchScores{
		Tone:        *wire.Tone,
		Fluency:     *wire.Fluency,
		Clarity:     *wire.Clarity,
		Confidence:  *wire.Confidence,
		Explanation: wire.Explanation,
	}
	if err := scores.Validate(); err != nil {
		return domain.PitchScores{}, &ports.ScoringUnavailableError{Reason: "model output out of bounds", Err: err}
	}

	return scores, nil
}

// stripCodeFences removes a surrounding markdown fence some models emit even
// in JSON mode.
func stripCodeFences(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}
