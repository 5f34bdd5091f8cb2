package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	carveauth "github.com/carve-stack/carveauth"
)

const defaultClientTimeout = 5 * time.Second

// Client calls the auth server's validation endpoint. Every call carries a
// bounded timeout: a hung auth server must never stall the caller's request
// indefinitely, and a timed-out call reads as remote rejection, never as an
// authenticated identity.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient returns a client for the auth server at baseURL. A zero timeout
// selects the default of 5 seconds.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultClientTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		timeout:    timeout,
	}
}

// ValidateToken posts the bearer token to /api/validate-jwt and returns the
// parsed response. Transport failures, timeouts, and unexpected statuses
// are all [carveauth.ErrRemoteUnavailable]; a well-formed 401 is not an
// error but a response with Valid=false. Cancelling ctx cancels the
// in-flight call.
func (c *Client) ValidateToken(ctx context.Context, token string) (*ValidateTokenResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/validate-jwt", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", carveauth.ErrRemoteUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", carveauth.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusUnauthorized {
		return nil, fmt.Errorf("%w: unexpected status %d", carveauth.ErrRemoteUnavailable, resp.StatusCode)
	}

	var out ValidateTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", carveauth.ErrRemoteUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		// A 401 body never reads as valid, whatever it claims.
		out.Valid = false
	}
	return &out, nil
}
