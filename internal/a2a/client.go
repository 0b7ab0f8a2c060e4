package a2a

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tlycode/multi-agent-system/pkg/models"
)

// Client calls remote agents over HTTP/JSON.
type Client struct {
	http *http.Client
}

// NewClient creates a Client. A nil httpClient uses a client with a 30s timeout.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{http: httpClient}
}

// FetchCard requests the agent card served at address.
func (c *Client) FetchCard(ctx context.Context, address string) (models.AgentCard, error) {
	var card models.AgentCard
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, joinURL(address, PathAgentCard), nil)
	if err != nil {
		return card, fmt.Errorf("build request: %w", err)
	}

	if err := c.do(req, &card); err != nil {
		return card, fmt.Errorf("fetch agent card from %s: %w", address, err)
	}
	return card, nil
}

// Process sends a task to the agent and returns its result payload.
// A failure envelope is returned as an error wrapping ErrAgentFailure.
func (c *Client) Process(ctx context.Context, card models.AgentCard, message string, taskTypes []string) (json.RawMessage, error) {
	body, err := json.Marshal(NewProcessRequest(message, taskTypes))
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, joinURL(card.Endpoint, PathProcess), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var resp ProcessResponse
	if err := c.do(req, &resp); err != nil {
		return nil, fmt.Errorf("communicate with agent %s: %w", card.Name, err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("agent %s: %w: %s", card.Name, ErrAgentFailure, resp.Error)
	}
	return resp.Result, nil
}

// Capabilities lists the tools and resources an agent exposes.
func (c *Client) Capabilities(ctx context.Context, card models.AgentCard) (Capabilities, error) {
	var caps Capabilities
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, joinURL(card.Endpoint, PathCapabilities), nil)
	if err != nil {
		return caps, fmt.Errorf("build request: %w", err)
	}
	if err := c.do(req, &caps); err != nil {
		return caps, fmt.Errorf("fetch capabilities of %s: %w", card.Name, err)
	}
	return caps, nil
}

// do executes req and decodes the JSON body into out. Non-2xx responses that
// carry a failure envelope are decoded too, so the caller sees the agent's error.
func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if env, ok := out.(*ProcessResponse); ok {
			if json.Unmarshal(data, env) == nil && env.Error != "" {
				return nil
			}
		}
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + path
}
