package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Registration struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName,omitempty"`
}

type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
}

type Tokens struct {
	IDToken      string    `json:"idToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// AuthResult is the answer to register and login.
type AuthResult struct {
	User   User    `json:"user"`
	Tokens *Tokens `json:"tokens"`
}

type UserSummary struct {
	Username    string  `json:"username"`
	DisplayName string  `json:"displayName"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatarUrl"`
	Theme       string  `json:"theme"`
}

type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

type DirectoryPage struct {
	Users      []UserSummary `json:"users"`
	Pagination Pagination    `json:"pagination"`
}

type AvatarUpload struct {
	Key       string `json:"key"`
	UploadURL string `json:"uploadUrl"`
	AvatarURL string `json:"avatarUrl"`
}

// APIClient is a JSON client of the linkfolio HTTP API.
type APIClient struct {
	baseURL string
	http    *http.Client
}

func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *APIClient) Register(ctx context.Context, r Registration) (*AuthResult, error) {
	var out AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", "", r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	in := map[string]string{"email": email, "password": password}
	var out AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	in := map[string]string{"refreshToken": refreshToken}
	var out struct {
		Tokens Tokens `json:"tokens"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/refresh", "", in, &out); err != nil {
		return nil, err
	}
	return &out.Tokens, nil
}

// Logout revokes refreshToken, or every session of the caller when it is empty.
func (c *APIClient) Logout(ctx context.Context, token, refreshToken string) error {
	var in any
	if refreshToken != "" {
		in = map[string]string{"refreshToken": refreshToken}
	}
	return c.do(ctx, http.MethodPost, "/api/auth/logout", token, in, nil)
}

func (c *APIClient) Me(ctx context.Context, token string) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", token, nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *APIClient) Search(ctx context.Context, term string, page, limit int) (*DirectoryPage, error) {
	q := url.Values{}
	if term != "" {
		q.Set("search", term)
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	path := "/api/users"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out DirectoryPage
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) StartAvatarUpload(ctx context.Context, token, contentType string) (*AvatarUpload, error) {
	in := map[string]string{"contentType": contentType}
	var out AvatarUpload
	if err := c.do(ctx, http.MethodPost, "/api/profile/avatar", token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) ConfirmAvatar(ctx context.Context, token, key string) error {
	in := map[string]string{"key": key}
	return c.do(ctx, http.MethodPut, "/api/profile/avatar", token, in, nil)
}

func (c *APIClient) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		apiErr.StatusCode = resp.StatusCode
		if apiErr.Kind == "" {
			apiErr.Kind = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}
	return nil
}
