package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophident/internal/common"
)

const apiPrefix = "/api/v1"

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

type accessToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type createUserResponse struct {
	User  User         `json:"user"`
	Token *accessToken `json:"token"`
}

type errorResponse struct {
	Detail []struct {
		Msg string `json:"msg"`
	} `json:"detail"`
}

type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu          sync.RWMutex
	accessToken string
}

func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url %q: scheme must be http or https", baseURL)
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/") + apiPrefix,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

func (c *HTTPClient) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

func (c *HTTPClient) setToken(t string) {
	c.mu.Lock()
	c.accessToken = t
	c.mu.Unlock()
}

func (c *HTTPClient) LoggedIn() bool { return c.token() != "" }

func (c *HTTPClient) Logout() { c.setToken("") }

func (c *HTTPClient) Ping(ctx context.Context) error {
	var resp struct {
		Success bool `json:"success"`
	}
	if err := c.do(ctx, http.MethodGet, "/health", nil, false, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return ErrUnavailable
	}
	return nil
}

// Register creates the account and keeps the returned token, so the new
// user is logged in right away.
func (c *HTTPClient) Register(ctx context.Context, reg Registration) (*User, error) {
	form := url.Values{
		"first_name":      {reg.FirstName},
		"email":           {reg.Email},
		"hashed_password": {reg.Password},
	}
	if reg.LastName != nil {
		form.Set("last_name", *reg.LastName)
	}

	var resp createUserResponse
	if err := c.do(ctx, http.MethodPost, "/auth/create-user", form, false, &resp); err != nil {
		return nil, err
	}
	if resp.Token != nil {
		c.setToken(resp.Token.AccessToken)
	}
	return &resp.User, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) error {
	form := url.Values{"username": {email}, "password": {password}}

	var resp accessToken
	if err := c.do(ctx, http.MethodPost, "/auth/token", form, false, &resp); err != nil {
		return err
	}
	if !strings.EqualFold(resp.TokenType, common.TokenTypeBearer) {
		return fmt.Errorf("unexpected token type %q", resp.TokenType)
	}
	if resp.AccessToken == "" {
		return errors.New("empty access token")
	}
	c.setToken(resp.AccessToken)
	return nil
}

func (c *HTTPClient) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/user/me", nil, true, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) ChangePassword(ctx context.Context, currentPassword, newPassword string) (*User, error) {
	form := url.Values{"current_password": {currentPassword}, "new_password": {newPassword}}
	return c.updateUser(ctx, "/user/change-password", form)
}

func (c *HTTPClient) ChangeFirstName(ctx context.Context, firstName string) (*User, error) {
	return c.updateUser(ctx, "/user/change-first-name", url.Values{"first_name": {firstName}})
}

// ChangeLastName clears the last name when lastName is nil.
func (c *HTTPClient) ChangeLastName(ctx context.Context, lastName *string) (*User, error) {
	form := url.Values{"last_name": {""}}
	if lastName != nil {
		form.Set("last_name", *lastName)
	}
	return c.updateUser(ctx, "/user/change-last-name", form)
}

func (c *HTTPClient) updateUser(ctx context.Context, path string, form url.Values) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodPost, path, form, true, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, form url.Values, authorized bool, out any) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if authorized {
		token := c.token()
		if token == "" {
			return ErrNotLoggedIn
		}
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body errorResponse
	if json.Unmarshal(data, &body) == nil {
		for _, d := range body.Detail {
			if d.Msg != "" {
				apiErr.Messages = append(apiErr.Messages, d.Msg)
			}
		}
	}
	return apiErr
}
