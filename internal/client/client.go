// Package client is a typed client for the Collabridge REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// FallbackMessage is reported when the server gives no usable message.
const FallbackMessage = "Unexpected error occurred"

var ErrNotLoggedIn = errors.New("not logged in")

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
	// Err is the transport or decoding failure behind a fallback message.
	Err error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Client talks to one API server on behalf of one session.
type Client struct {
	baseURL string
	http    *http.Client
	storage SessionStorage

	mu      sync.Mutex
	session *Session
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New restores any stored session from storage.
func New(baseURL string, storage SessionStorage, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		storage: storage,
	}
	for _, opt := range opts {
		opt(c)
	}

	session, err := storage.Load()
	if err != nil {
		return nil, err
	}
	c.session = session
	return c, nil
}

// Session returns a copy of the current session, or nil.
func (c *Client) Session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	s := *c.session
	return &s
}

func (c *Client) setSession(session *Session) error {
	c.mu.Lock()
	c.session = session
	c.mu.Unlock()

	if session == nil {
		return c.storage.Clear()
	}
	return c.storage.Save(session)
}

func (c *Client) token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ""
	}
	return c.session.Token
}

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// do sends body as JSON and decodes the data member of the response into
// out. A 401 drops the stored session.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Message: FallbackMessage, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Status: resp.StatusCode, Message: FallbackMessage, Err: err}
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusUnauthorized {
			if err := c.setSession(nil); err != nil {
				return err
			}
		}
		message := env.Message
		if decodeErr != nil || message == "" {
			message = FallbackMessage
		}
		return &APIError{Status: resp.StatusCode, Message: message}
	}

	if decodeErr != nil {
		return &APIError{Status: resp.StatusCode, Message: FallbackMessage, Err: decodeErr}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
