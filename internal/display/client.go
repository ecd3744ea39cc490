// Package display is the kiosk side of Display Mode: an API client that
// doubles as the session provider for the bootstrap, and a text renderer.
package display

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"guidelight-backend/internal/domains/board"
	"guidelight-backend/internal/session"
)

const apiPrefix = "/api/v1"

// Client talks to the Guidelight API. It keeps the signed-in session in
// memory and notifies subscribers when it changes.
type Client struct {
	baseURL      string
	displayToken string
	http         *http.Client

	mu        sync.Mutex
	current   *session.Session
	listeners map[int]func(*session.Session)
	nextID    int
}

var (
	_ session.Provider       = (*Client)(nil)
	_ session.ProfileFetcher = (*Client)(nil)
)

func NewClient(baseURL, displayToken string, timeout time.Duration) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		displayToken: displayToken,
		http:         &http.Client{Timeout: timeout},
		listeners:    make(map[int]func(*session.Session)),
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// do sends the request and decodes the data field into out. Non-2xx answers
// become *session.StatusError so the bootstrap can classify them.
func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(body, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &session.StatusError{StatusCode: resp.StatusCode}
		if decodeErr == nil && env.Error != nil {
			statusErr.Code, statusErr.Message = env.Error.Code, env.Error.Message
		}
		return statusErr
	}
	if decodeErr != nil {
		return fmt.Errorf("decode response: %w", decodeErr)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) GetSession(context.Context) (*session.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil, nil
	}
	s := *c.current
	return &s, nil
}

func (c *Client) OnSessionChange(fn func(*session.Session)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *Client) setSession(s *session.Session) {
	c.mu.Lock()
	c.current = s
	listeners := make([]func(*session.Session), 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(s)
	}
}

type tokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// SignIn handles POST /auth/login
func (c *Client) SignIn(ctx context.Context, email, password string) (*session.Session, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	var tokens tokenResponse
	if err := c.do(req, &tokens); err != nil {
		return nil, err
	}

	s := &session.Session{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken, ExpiresAt: tokens.ExpiresAt}
	c.setSession(s)
	return s, nil
}

// SignOut revokes the refresh token. The local session is dropped even when
// the API call fails.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	current := c.current
	c.mu.Unlock()
	if current == nil {
		return nil
	}

	var callErr error
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/logout", map[string]string{"refresh_token": current.RefreshToken})
	if err == nil {
		callErr = c.do(req, nil)
	} else {
		callErr = err
	}
	c.setSession(nil)
	return callErr
}

// FetchProfile handles GET /staff/me
func (c *Client) FetchProfile(ctx context.Context, s *session.Session) (*session.Profile, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/staff/me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.AccessToken)

	var p session.Profile
	if err := c.do(req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// FetchBoard loads the display view of a board
func (c *Client) FetchBoard(ctx context.Context, slug string) (*board.View, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/display/boards/"+url.PathEscape(slug), nil)
	if err != nil {
		return nil, err
	}
	if c.displayToken != "" {
		req.Header.Set("X-Display-Token", c.displayToken)
	}

	var view board.View
	if err := c.do(req, &view); err != nil {
		return nil, err
	}
	return &view, nil
}
