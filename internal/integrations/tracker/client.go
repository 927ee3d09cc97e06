// Package tracker is a thin client for the GPS relay that fronts the
// bikes' tracking devices. The relay's transport is its own concern; this
// client only knows the two commands the dashboard needs.
package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the GPS relay service
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a tracker relay client. All calls share one timeout;
// callers pass a context for per-request cancellation.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Enabled reports whether a relay endpoint is configured
func (c *Client) Enabled() bool {
	return c.baseURL != ""
}

// Locate returns the last reported position for a device
func (c *Client) Locate(ctx context.Context, deviceID string) (*Position, error) {
	url := fmt.Sprintf("%s/devices/%s/position", c.baseURL, deviceID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrDeviceNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var position Position
	if err := json.NewDecoder(resp.Body).Decode(&position); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return &position, nil
}

// SetEngine asks the relay to switch the ignition cutoff. The returned
// state is the relay's confirmation, which may disagree with the request
// if the device is unreachable on its side.
func (c *Client) SetEngine(ctx context.Context, deviceID string, on bool) (*EngineState, error) {
	url := fmt.Sprintf("%s/devices/%s/engine", c.baseURL, deviceID)

	command := "engine_off"
	if on {
		command = "engine_on"
	}
	payload, err := json.Marshal(engineCommandRequest{Command: command})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrDeviceNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var state EngineState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return &state, nil
}
