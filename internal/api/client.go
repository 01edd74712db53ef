// Package api is the single outbound gateway to the backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"issuepilot/internal/apperror"
	"issuepilot/internal/logger"
)

// TokenSource yields the current session token, or "" when there is none.
type TokenSource interface {
	Token() string
}

// Client attaches the session token to every call and turns non-2xx replies
// into *apperror.AppError. It never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

func NewClient(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
	}
}

// BaseURL returns the configured API prefix.
func (c *Client) BaseURL() string { return c.baseURL }

// Do sends one request. body (if non-nil) is JSON-encoded; out (if non-nil)
// receives the decoded JSON response.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	data, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apperror.Transport(fmt.Errorf("decoding %s %s: %w", method, path, err))
	}
	return nil
}

// Raw sends one request and returns the undecoded response body.
func (c *Client) Raw(ctx context.Context, method, path string) ([]byte, error) {
	return c.send(ctx, method, path, nil)
}

func (c *Client) send(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, apperror.Transport(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn().Err(err).
			Str("request_id", reqID).
			Str("method", method).
			Str("path", path).
			Msg("api: transport failure")
		return nil, apperror.Transport(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperror.Transport(fmt.Errorf("reading body: %w", err))
	}

	event := logger.Debug()
	if resp.StatusCode >= 400 {
		event = logger.Warn()
	}
	event.
		Str("request_id", reqID).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("api")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperror.Response(resp.StatusCode, errorMessage(resp.Header.Get("Content-Type"), data))
	}
	return data, nil
}

// errorBody is the backend's error envelope: {status, message}.
type errorBody struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// maxPlainMessage bounds plain-text bodies shown to the user.
const maxPlainMessage = 300

// errorMessage extracts the server-supplied message: the JSON "message"
// field, or a short text/plain body (the signup endpoints reply with bare
// strings). Anything else yields "".
func errorMessage(contentType string, data []byte) string {
	var eb errorBody
	if err := json.Unmarshal(data, &eb); err == nil {
		return strings.TrimSpace(eb.Message)
	}

	mediaType, _, _ := mime.ParseMediaType(contentType)
	if mediaType != "text/plain" {
		return ""
	}
	msg := strings.TrimSpace(string(data))
	if len(msg) > maxPlainMessage {
		return ""
	}
	return msg
}
