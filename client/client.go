// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package client provides an A2A client for the tutor agent.
package client

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	json "github.com/bytedance/sonic"
	"github.com/google/uuid"

	"github.com/go-a2a/tutor-agent/a2a"
)

// Client represents an A2A API client.
type Client struct {
	// BaseURL is the base URL for the A2A API.
	BaseURL *url.URL
	// HTTPClient is the HTTP client used for API requests.
	HTTPClient *http.Client
	// RequestTimeout is the timeout for API requests.
	RequestTimeout time.Duration
	// UserAgent is the user agent to use for API requests.
	UserAgent string
}

// NewClient creates a new A2A client with the given baseURL.
func NewClient(baseURL string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	return &Client{
		BaseURL:        u,
		HTTPClient:     http.DefaultClient,
		RequestTimeout: 300 * time.Second,
		UserAgent:      "tutor-agent/" + a2a.Version,
	}, nil
}

// GetAgentCard fetches the agent card from the server.
func (c *Client) GetAgentCard(ctx context.Context) (*a2a.AgentCard, error) {
	u := *c.BaseURL
	u.Path = a2a.AgentCardWellKnownPath

	ctx, cancel := context.WithTimeout(ctx, c.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var card a2a.AgentCard
	if err := json.ConfigFastest.NewDecoder(resp.Body).Decode(&card); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &card, nil
}

// SendRequest sends a JSON-RPC request to the server.
func (c *Client) SendRequest(ctx context.Context, request any, response any) error {
	requestBytes, err := json.ConfigFastest.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL.String(), bytes.NewReader(requestBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.ConfigFastest.NewDecoder(resp.Body).Decode(response); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// SendTask sends a task to the server.
func (c *Client) SendTask(ctx context.Context, params a2a.TaskSendParams) (*a2a.Task, error) {
	request := a2a.NewSendTaskRequest(generateID(), params)

	var response a2a.SendTaskResponse
	if err := c.SendRequest(ctx, request, &response); err != nil {
		return nil, err
	}

	if response.Error != nil {
		return nil, fmt.Errorf("JSON-RPC error: %d - %s", response.Error.Code, response.Error.Message)
	}

	return response.Result, nil
}

// GetTask retrieves a task from the server.
func (c *Client) GetTask(ctx context.Context, id string, historyLength *int) (*a2a.Task, error) {
	params := a2a.TaskQueryParams{
		ID:            id,
		HistoryLength: historyLength,
	}
	request := a2a.NewGetTaskRequest(generateID(), params)

	var response a2a.GetTaskResponse
	if err := c.SendRequest(ctx, request, &response); err != nil {
		return nil, err
	}

	if response.Error != nil {
		return nil, fmt.Errorf("JSON-RPC error: %d - %s", response.Error.Code, response.Error.Message)
	}

	return response.Result, nil
}

// Generate a unique ID for JSON-RPC requests.
func generateID() string {
	return uuid.NewString()
}
