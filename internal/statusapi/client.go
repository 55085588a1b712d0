package statusapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client talks to the GymAI backend that runs workout and diet plan
// generation. Thread-safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// GenerationStatus fetches the current state of a generation job.
//
// On a non-2xx response the body is still decoded when possible, so the
// caller can surface the structured failure payload; the returned error is
// non-nil in that case.
func (c *Client) GenerationStatus(ctx context.Context, taskID string) (*JobStatus, error) {
	endpoint := c.baseURL + "/api/generation-status/?task_id=" + url.QueryEscape(taskID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create status request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read status response: %w", err)
	}

	var status JobStatus
	decodeErr := json.Unmarshal(body, &status)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr != nil {
			return nil, fmt.Errorf("status request returned %d", resp.StatusCode)
		}
		return &status, fmt.Errorf("status request returned %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("parse status response: %w", decodeErr)
	}
	return &status, nil
}

// RequestGeneration asks the backend to start generating a plan for the
// given feature ("workout" or "diet") and returns the task id of the
// accepted job. The request payload is backend-defined and passed through
// as-is.
func (c *Client) RequestGeneration(ctx context.Context, feature string, payload any) (string, error) {
	feature = strings.TrimSpace(feature)
	if feature == "" {
		return "", fmt.Errorf("feature is required")
	}
	endpoint := fmt.Sprintf("%s/api/generate-%s/", c.baseURL, url.PathEscape(feature))

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return "", fmt.Errorf("marshal generation request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return "", fmt.Errorf("create generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read generation response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("generation request returned %d: %s", resp.StatusCode, string(respBody))
	}

	var accepted GenerateResponse
	if err := json.Unmarshal(respBody, &accepted); err != nil {
		return "", fmt.Errorf("parse generation response: %w", err)
	}
	if accepted.TaskID == "" {
		return "", fmt.Errorf("backend accepted generation without a task id")
	}
	return accepted.TaskID, nil
}
