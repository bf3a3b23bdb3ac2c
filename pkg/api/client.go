// Package api provides the typed HTTP client for the GitForum REST backend.
//
// The client mirrors the backend's endpoint groups (auth, posts, comments,
// users, tags, notifications) with strongly-typed methods, automatic JSON
// serialization, and bearer-token authentication drawn from a tokens.Store.
//
// # Token refresh
//
// A 401 response is handed to the client's AuthInterceptor. The default
// interceptor performs at most one refresh attempt: it exchanges the refresh
// token for a new access token and has the original request retried exactly
// once with it. A failed refresh clears the token pair and the original 401
// is propagated. No retry happens for any other failure class, and concurrent
// 401s refresh independently (the refresh endpoint is idempotent from the
// client's perspective). Alternate policies plug in via SetAuthInterceptor.
//
// # Errors
//
// Non-2xx final responses become *HTTPError carrying the status code and raw
// body. Credential rejections on the auth endpoints become *AuthError.
// Payloads failing client-side validation become *ValidationError and are
// never sent.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/gitforum/gitforum.go/pkg/logger"
	"github.com/gitforum/gitforum.go/pkg/tokens"
)

const defaultTimeout = 30 * time.Second

// RetryDecision is an AuthInterceptor's verdict on a 401 response.
type RetryDecision int

const (
	// Abort surfaces the original 401 to the caller.
	Abort RetryDecision = iota
	// Retry re-issues the original request once with fresh credentials.
	Retry
)

// AuthInterceptor decides what happens when a request comes back 401. It
// runs between the rejected response and any retry, so a policy can refresh
// credentials, queue concurrent requests, or sign the session out without
// the transport knowing which.
type AuthInterceptor interface {
	OnUnauthorized(ctx context.Context, method, path string) RetryDecision
}

// Client is the GitForum API client. Safe for concurrent use by multiple
// goroutines; token state lives in the injected tokens.Store.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     *tokens.Store
	validate   *validator.Validate
	auth       AuthInterceptor
	log        logger.Logger
}

// NewClient creates a client for the backend at baseURL (including the API
// prefix, e.g. "http://localhost:8000/api") using ts for token persistence.
// The default AuthInterceptor is the single-shot refresh policy.
func NewClient(baseURL string, ts *tokens.Store) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		tokens:     ts,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		log:        logger.Nop{},
	}
	c.auth = &refreshInterceptor{c: c}
	return c
}

// SetHTTPClient replaces the underlying HTTP client.
func (c *Client) SetHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// SetTimeout adjusts the request timeout on the underlying HTTP client.
func (c *Client) SetTimeout(d time.Duration) *Client {
	c.httpClient.Timeout = d
	return c
}

// SetLogger installs a logger for request diagnostics.
func (c *Client) SetLogger(l logger.Logger) *Client {
	c.log = l
	return c
}

// SetAuthInterceptor replaces the 401 handling policy.
func (c *Client) SetAuthInterceptor(ai AuthInterceptor) *Client {
	c.auth = ai
	return c
}

// Tokens exposes the token store the client authenticates with.
func (c *Client) Tokens() *tokens.Store {
	return c.tokens
}

// checkRequest applies the payload's validate tags before it goes anywhere
// near the network.
func (c *Client) checkRequest(payload any) error {
	if err := c.validate.Struct(payload); err != nil {
		return newValidationError(err)
	}
	return nil
}

// newRequest builds an authenticated JSON request. body is pre-marshaled so
// the 401 retry can reuse it byte for byte.
func (c *Client) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.tokens.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// do performs one API call with the single-shot refresh-and-retry behavior.
// A nil out skips response decoding; 204 responses decode to nothing.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	req, err := c.newRequest(ctx, method, path, payload)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		original := readBody(resp)
		if c.auth.OnUnauthorized(ctx, method, path) != Retry {
			return &HTTPError{StatusCode: http.StatusUnauthorized, Body: original}
		}

		retry, err := c.newRequest(ctx, method, path, payload)
		if err != nil {
			return err
		}
		retryResp, err := c.httpClient.Do(retry)
		if err != nil {
			return fmt.Errorf("retry request failed: %w", err)
		}
		return decodeResponse(retryResp, out)
	}

	return decodeResponse(resp, out)
}

// refreshInterceptor is the default 401 policy: one refresh attempt, then
// one retry of the original request. Requests carrying no refresh token
// (anonymous sessions) abort immediately.
type refreshInterceptor struct {
	c *Client
}

func (ri *refreshInterceptor) OnUnauthorized(ctx context.Context, method, path string) RetryDecision {
	if ri.c.tokens.RefreshToken() == "" {
		return Abort
	}
	ri.c.log.Debug("access token rejected, attempting refresh", "method", method, "path", path)
	if err := ri.c.refreshAccessToken(ctx); err != nil {
		// Tokens are cleared at this point; the original 401 is surfaced.
		ri.c.log.Warn("token refresh failed", "error", err)
		return Abort
	}
	return Retry
}

// refreshAccessToken exchanges the refresh token for a new access token. Any
// failure clears the token pair: an unusable refresh token means the session
// is over.
func (c *Client) refreshAccessToken(ctx context.Context) error {
	payload, err := json.Marshal(map[string]string{"refresh": c.tokens.RefreshToken()})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/token/refresh/", bytes.NewReader(payload))
	if err != nil {
		c.tokens.ClearTokens()
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.tokens.ClearTokens()
		return fmt.Errorf("refresh request failed: %w", err)
	}

	var result struct {
		Access string `json:"access"`
	}
	if err := decodeResponse(resp, &result); err != nil {
		c.tokens.ClearTokens()
		return err
	}
	c.tokens.SetAccessToken(result.Access)
	return nil
}

// decodeResponse consumes resp: non-2xx becomes *HTTPError with the raw body,
// 204 resolves without decoding, anything else is decoded into out.
func decodeResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// readBody drains and closes a response body, returning it as text.
func readBody(resp *http.Response) string {
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return string(body)
}
