// Package client is a Go SDK for the DevLog REST API.
//
// Every authenticated call takes an explicit *Session obtained from Login or
// Register; the Client itself holds no per-user state and is safe to share.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrLoggedOut = errors.New("session is logged out")

// APIError is a non-2xx response decoded from the API error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if e.Message == "" && len(e.Fields) > 0 {
		return fmt.Sprintf("devlog: %d %s: %v", e.Status, e.Code, e.Fields)
	}
	return fmt.Sprintf("devlog: %d %s: %s", e.Status, e.Code, e.Message)
}

// IsCode reports whether err is an APIError carrying code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type authResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

func (c *Client) Register(ctx context.Context, username, email, password string) (*Session, error) {
	var resp authResponse
	body := map[string]string{"username": username, "email": email, "password": password}
	if err := c.do(ctx, nil, http.MethodPost, "/api/auth/register", body, &resp); err != nil {
		return nil, err
	}
	return newSession(resp.Token, resp.User), nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var resp authResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, nil, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return nil, err
	}
	return newSession(resp.Token, resp.User), nil
}

// ToggleLike flips the session user's like on a project and returns the
// resulting set of likers.
func (c *Client) ToggleLike(ctx context.Context, s *Session, projectID uuid.UUID) ([]uuid.UUID, error) {
	var likes []uuid.UUID
	err := c.do(ctx, s, http.MethodPut, "/api/projects/like/"+projectID.String(), nil, &likes)
	return likes, err
}

func (c *Client) Follow(ctx context.Context, s *Session, userID uuid.UUID) error {
	return c.do(ctx, s, http.MethodPut, "/api/users/follow/"+userID.String(), nil, nil)
}

func (c *Client) Unfollow(ctx context.Context, s *Session, userID uuid.UUID) error {
	return c.do(ctx, s, http.MethodPut, "/api/users/unfollow/"+userID.String(), nil, nil)
}

func (c *Client) SendMessage(ctx context.Context, s *Session, receiverID uuid.UUID, content string) (*Message, error) {
	var msg Message
	body := map[string]any{"receiver": receiverID, "content": content}
	if err := c.do(ctx, s, http.MethodPost, "/api/chat", body, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// History returns the conversation between the session user and other,
// oldest first.
func (c *Client) History(ctx context.Context, s *Session, other uuid.UUID) ([]Message, error) {
	var msgs []Message
	err := c.do(ctx, s, http.MethodGet, "/api/chat/"+other.String(), nil, &msgs)
	return msgs, err
}

func (c *Client) Mutuals(ctx context.Context, s *Session) ([]Profile, error) {
	var profiles []Profile
	err := c.do(ctx, s, http.MethodGet, "/api/chat/mutuals", nil, &profiles)
	return profiles, err
}

func (c *Client) Notifications(ctx context.Context, s *Session) ([]Notification, error) {
	var list []Notification
	err := c.do(ctx, s, http.MethodGet, "/api/notifications", nil, &list)
	return list, err
}

func (c *Client) MarkNotificationsRead(ctx context.Context, s *Session) error {
	return c.do(ctx, s, http.MethodPut, "/api/notifications/read", nil, nil)
}

func (c *Client) Projects(ctx context.Context, search string) ([]Project, error) {
	path := "/api/projects"
	if search != "" {
		path += "?search=" + url.QueryEscape(search)
	}
	var projects []Project
	err := c.do(ctx, nil, http.MethodGet, path, nil, &projects)
	return projects, err
}

func (c *Client) CreateProject(ctx context.Context, s *Session, input NewProject) (*Project, error) {
	var p Project
	if err := c.do(ctx, s, http.MethodPost, "/api/projects", input, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// do sends one request. A nil session sends it unauthenticated; a logged out
// session fails without touching the network.
func (c *Client) do(ctx context.Context, s *Session, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s != nil {
		token, ok := s.token()
		if !ok {
			return ErrLoggedOut
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var envelope struct {
		Error struct {
			Code    string            `json:"code"`
			Message string            `json:"message"`
			Fields  map[string]string `json:"fields"`
		} `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Code != "" {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
		apiErr.Fields = envelope.Error.Fields
		return apiErr
	}

	apiErr.Code = http.StatusText(resp.StatusCode)
	apiErr.Message = strings.TrimSpace(string(raw))
	return apiErr
}
