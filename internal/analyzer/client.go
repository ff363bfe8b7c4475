package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/inveskit/journal/internal/model"
)

// ErrUpstream wraps every failure of the outbound analysis call.
var ErrUpstream = errors.New("analysis service call failed")

// Client posts aggregate payloads to the external analysis service.
//
// Unlike the price fetch path, failures here are never swallowed: the caller
// explicitly asked for an analysis, and a silent empty result would be
// misleading.
type Client struct {
	HTTP *http.Client
}

// NewClient creates a client with optional proxy support.
func NewClient(proxyURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &Client{
		HTTP: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// Analyze sends the request to target's /api/analyze endpoint and returns
// the response body verbatim. Any transport or status failure is wrapped
// with the underlying cause and propagated.
func (c *Client) Analyze(ctx context.Context, target string, req *model.AnalysisRequest) (*model.AnalysisResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %w", ErrUpstream, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", target+"/api/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrUpstream, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d, body: %s", ErrUpstream, resp.StatusCode, string(respBody))
	}

	return &model.AnalysisResult{Raw: respBody}, nil
}
