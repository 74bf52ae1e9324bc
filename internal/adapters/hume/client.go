// Package hume provides an adapter for the Hume expression-measurement
// batch API. It submits audio for prosody + language inference, reports job
// state and fetches the raw prediction tree for aggregation.
package hume

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/pitchcoach-labs/pitchcoach/backend/internal/core/domain"
	"github.com/pitchcoach-labs/pitchcoach/backend/internal/core/ports"
)

const defaultBaseURL = "https://api.hume.ai/v0/batch"

const apiKeyHeader = "X-Hume-Api-Key"

// Client is an HTTP client for the expression-measurement batch API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// compile-time interface assertion
var _ ports.ExpressionProvider = (*Client)(nil)

// NewClient constructs a batch API client.
func NewClient(httpClient *http.Client, baseURL, apiKey string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// StartJob submits one inference job with a fixed model configuration
// (prosody + language) and the audio payload, returning the job identifier.
func (c *Client) StartJob(ctx context.Context, audio []byte, filename string) (string, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	configJSON, err := json.Marshal(inferenceRequest{
		Models: modelConfig{
			Prosody:  &prosodyConfig{},
			Language: &languageConfig{Granularity: "utterance"},
		},
	})
	if err != nil {
		return "", fmt.Errorf("hume adapter: marshal job config: %w", err)
	}
	if err := form.WriteField("json", string(configJSON)); err != nil {
		return "", fmt.Errorf("hume adapter: write job config: %w", err)
	}

	filePart, err := form.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("hume adapter: create file part: %w", err)
	}
	if _, err := filePart.Write(audio); err != nil {
		return "", fmt.Errorf("hume adapter: write file part: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("hume adapter: finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/jobs", &body)
	if err != nil {
		return "", fmt.Errorf("hume adapter: build request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &ports.TransportError{Op: "start job", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ports.TransportError{Op: "start job", Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var parsed startJobResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &ports.TransportError{Op: "start job", Err: fmt.Errorf("decode response: %w", err)}
	}
	if parsed.JobID == "" {
		return "", &ports.TransportError{Op: "start job", Err: fmt.Errorf("empty job id")}
	}

	return parsed.JobID, nil
}

// JobState fetches the current lifecycle state of a job.
func (c *Client) JobState(ctx context.Context, jobID string) (ports.JobState, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/jobs/"+jobID, nil)
	if err != nil {
		return ports.JobState{}, fmt.Errorf("hume adapter: build request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ports.JobState{}, &ports.TransportError{Op: "job state", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ports.JobState{}, &ports.TransportError{Op: "job state", Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var parsed jobDetailsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return ports.JobState{}, &ports.TransportError{Op: "job state", Err: fmt.Errorf("decode response: %w", err)}
	}

	return ports.JobState{
		Status:  mapJobStatus(parsed.State.Status),
		Message: parsed.State.Message,
	}, nil
}

// JobPredictions fetches the raw prediction tree for a completed job.
func (c *Client) JobPredictions(ctx context.Context, jobID string) (domain.RawPredictions, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/jobs/"+jobID+"/predictions", nil)
	if err != nil {
		return domain.RawPredictions{}, fmt.Errorf("hume adapter: build request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.RawPredictions{}, &ports.TransportError{Op: "job predictions", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.RawPredictions{}, &ports.TransportError{Op: "job predictions", Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var parsed []sourceResultWire
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return domain.RawPredictions{}, &ports.TransportError{Op: "job predictions", Err: fmt.Errorf("decode response: %w", err)}
	}

	return mapPredictionsToDomain(parsed), nil
}

// mapJobStatus normalizes the provider's job states onto the port values.
// Anything unrecognized is treated as still in progress so the poller keeps
// waiting until its budget runs out.
func mapJobStatus(status string) ports.JobStatus {
	switch strings.ToUpper(status) {
	case "QUEUED":
		return ports.StatusQueued
	case "COMPLETED":
		return ports.StatusCompleted
	case "FAILED":
		return ports.StatusFailed
	default:
		return ports.StatusProcessing
	}
}
