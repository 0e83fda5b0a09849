// Package api provides the HTTP client for the parley chat backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/saravenpi/parley/internal/models"
	"github.com/saravenpi/parley/internal/session"
)

// ClientConfig holds configuration options for the API client.
type ClientConfig struct {
	// BaseURL is the backend base URL (default: http://localhost:3000)
	BaseURL string

	// Timeout for requests (default: 30s)
	Timeout time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL: "http://localhost:3000",
		Timeout: 30 * time.Second,
	}
}

// Client talks to the chat backend. Authenticated calls read the bearer
// token from the session store at call time, so a login performed after the
// client is constructed is picked up without rebuilding anything.
//
// The Client is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	session    *session.Store
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

// NewClient creates an API client bound to a session store.
func NewClient(config *ClientConfig, sess *session.Store, logger *zap.SugaredLogger) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:3000"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &Client{
		config:  config,
		session: sess,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger,
	}
}

// Login authenticates with email and password. On success the returned
// access and refresh tokens are persisted to the session store.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var result AuthResponse
	if err := c.do(ctx, http.MethodPost, "/login", loginRequest{Email: email, Password: password}, false, &result); err != nil {
		return nil, err
	}

	if result.Status != http.StatusOK {
		return nil, &APIError{Status: result.Status, Description: result.Description}
	}

	if err := c.session.SetTokens(result.AccessToken, result.RefreshToken); err != nil {
		return nil, &ClientError{Kind: ErrKindUnknown, Message: "failed to persist tokens", Cause: err}
	}

	c.logger.Infow("logged in", "email", email)
	return &result, nil
}

// Register creates a new account. On success the returned tokens are
// persisted like Login does.
func (c *Client) Register(ctx context.Context, username, email, password string) (*AuthResponse, error) {
	var result AuthResponse
	if err := c.do(ctx, http.MethodPost, "/register", registerRequest{Username: username, Email: email, Password: password}, false, &result); err != nil {
		return nil, err
	}

	if result.Status != http.StatusCreated {
		return nil, &APIError{Status: result.Status, Description: result.Description}
	}

	if err := c.session.SetTokens(result.AccessToken, result.RefreshToken); err != nil {
		return nil, &ClientError{Kind: ErrKindUnknown, Message: "failed to persist tokens", Cause: err}
	}

	c.logger.Infow("registered", "username", username)
	return &result, nil
}

// CurrentUser fetches the authenticated caller's profile.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var result models.User
	if err := c.do(ctx, http.MethodPost, "/users/", nil, true, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UserChats fetches the caller's chat list.
func (c *Client) UserChats(ctx context.Context) ([]models.Chat, error) {
	var result userChatsResponse
	if err := c.do(ctx, http.MethodGet, "/users/chats", nil, true, &result); err != nil {
		return nil, err
	}

	if result.Status != http.StatusOK {
		return nil, &APIError{Status: result.Status, Description: result.Description}
	}

	return result.ChatIDs, nil
}

// Chat fetches one chat by id.
func (c *Client) Chat(ctx context.Context, id string) (*ChatDetail, error) {
	var result ChatDetail
	if err := c.do(ctx, http.MethodGet, "/chats/"+url.PathEscape(id), nil, true, &result); err != nil {
		return nil, err
	}

	if result.Status != http.StatusOK {
		return nil, &APIError{Status: result.Status, Description: result.Description}
	}

	return &result, nil
}

// CreateChat resolves the current user, then asks the backend for a direct
// chat between them and the given member.
func (c *Client) CreateChat(ctx context.Context, memberID string) (*CreateChatResponse, error) {
	current, err := c.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	reqBody := createChatRequest{
		MemberIDs: []string{memberID, current.ID},
		Direct:    true,
		Name:      current.Username,
		CreatedBy: current.ID,
	}

	var result CreateChatResponse
	if err := c.do(ctx, http.MethodPost, "/chats/create", reqBody, true, &result); err != nil {
		return nil, err
	}

	if result.Status != http.StatusCreated {
		return nil, &APIError{Status: result.Status, Description: result.Description}
	}

	return &result, nil
}

// SearchUser looks up a user by exact username.
func (c *Client) SearchUser(ctx context.Context, username string) (*models.User, error) {
	path := "/users/search?username=" + url.QueryEscape(username)

	var result searchUserResponse
	if err := c.do(ctx, http.MethodGet, path, nil, true, &result); err != nil {
		return nil, err
	}

	if result.Status != http.StatusOK {
		return nil, &APIError{Status: result.Status, Description: result.Description}
	}

	if result.User == nil {
		return nil, &ClientError{Kind: ErrKindInvalidResponse, Message: "search response missing user"}
	}

	return result.User, nil
}

// do issues one JSON request and decodes the body into out. Body-level
// status checks stay with the callers; do only reports transport and
// decoding failures.
func (c *Client) do(ctx context.Context, method, path string, body any, authed bool, out any) error {
	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &ClientError{Kind: ErrKindInvalidResponse, Message: "failed to marshal request", Cause: err}
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reqBody)
	if err != nil {
		return &ClientError{Kind: ErrKindConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.session.AccessToken())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return ErrTimeout
		}
		return &ClientError{Kind: ErrKindConnection, Message: "server unreachable", Cause: err}
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Warnw("undecodable response", "method", method, "path", path, "code", resp.StatusCode)
		return &ClientError{Kind: ErrKindInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	return nil
}

func isTimeout(err error) bool {
	var urlErr *url.Error
	return errors.As(err, &urlErr) && urlErr.Timeout()
}
