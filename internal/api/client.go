package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TokenSource supplies the opaque session token attached to protected
// requests. An empty token means no session; the request is sent without an
// Authorization header and the backend answers 401.
type TokenSource interface {
	Token() string
}

// BookService is the catalog surface of the client, implemented by *Client.
// Controllers depend on this interface so tests can substitute fakes.
type BookService interface {
	ListBooks(ctx context.Context, filter Filter) ([]Book, error)
	GetBook(ctx context.Context, id int64) (Book, error)
	CreateBook(ctx context.Context, payload BookPayload) (Book, error)
	UpdateBook(ctx context.Context, id int64, payload BookPayload) (Book, error)
	DeleteBook(ctx context.Context, id int64) error
}

var _ BookService = (*Client)(nil)

// Client talks to the Novelia backend REST API. It performs network I/O
// only: no caching, no retries. Failures map onto the package's error
// taxonomy so callers can decide policy.
type Client struct {
	baseURL   string
	http      *http.Client
	userAgent string
	tokens    TokenSource
}

const (
	defaultUserAgent = "novelia/0.1"
	requestTimeout   = 15 * time.Second
)

// NewClient builds a Client for the given API base URL, e.g.
// "http://127.0.0.1:8000/api". tokens may be nil for an unauthenticated
// client.
func NewClient(baseURL string, tokens TokenSource) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("api base url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", baseURL, err)
	}
	return &Client{
		baseURL: trimmed,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		tokens:    tokens,
	}, nil
}

// ListBooks retrieves the catalog, optionally narrowed by a server-side
// search or genre filter.
func (c *Client) ListBooks(ctx context.Context, filter Filter) ([]Book, error) {
	values := url.Values{}
	if search := strings.TrimSpace(filter.Search); search != "" {
		values.Set("search", search)
	}
	if genre := strings.TrimSpace(filter.Genre); genre != "" {
		values.Set("genre", genre)
	}
	path := "/books/"
	if len(values) > 0 {
		path += "?" + values.Encode()
	}

	var payload bookListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &payload, false); err != nil {
		return nil, err
	}
	return payload.Books, nil
}

// GetBook retrieves a single record by its server-assigned identifier.
func (c *Client) GetBook(ctx context.Context, id int64) (Book, error) {
	var book Book
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/books/%d/", id), nil, &book, false); err != nil {
		return Book{}, err
	}
	return book, nil
}

// CreateBook persists a new record. Admin only.
func (c *Client) CreateBook(ctx context.Context, payload BookPayload) (Book, error) {
	var envelope bookEnvelope
	if err := c.do(ctx, http.MethodPost, "/books/create/", payload, &envelope, true); err != nil {
		return Book{}, err
	}
	return envelope.Book, nil
}

// UpdateBook persists changes to an existing record. Omitted asset fields
// keep their prior value on the server. Admin only.
func (c *Client) UpdateBook(ctx context.Context, id int64, payload BookPayload) (Book, error) {
	var envelope bookEnvelope
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/books/%d/update/", id), payload, &envelope, true); err != nil {
		return Book{}, err
	}
	return envelope.Book, nil
}

// DeleteBook removes a record by identifier. Admin only.
func (c *Client) DeleteBook(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/books/%d/delete/", id), nil, nil, true)
}

// Login exchanges credentials for a session token and the cached profile.
func (c *Client) Login(ctx context.Context, email, password string) (Credentials, error) {
	body := map[string]string{"email": email, "password": password}
	var creds Credentials
	if err := c.do(ctx, http.MethodPost, "/auth/login/", body, &creds, false); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

// Signup registers a new account and returns its first session.
func (c *Client) Signup(ctx context.Context, payload SignupPayload) (Credentials, error) {
	var creds Credentials
	if err := c.do(ctx, http.MethodPost, "/auth/signup/", payload, &creds, false); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

// Logout revokes the current token server-side. The caller clears local
// state regardless of the outcome.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout/", nil, nil, true)
}

// CurrentUser fetches the profile for the current session.
func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/auth/user/", nil, &user, true); err != nil {
		return User{}, err
	}
	return user, nil
}

// ListUsers retrieves all registered accounts. Admin only.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var payload userListResponse
	if err := c.do(ctx, http.MethodGet, "/auth/users/", nil, &payload, true); err != nil {
		return nil, err
	}
	return payload.Users, nil
}

// DownloadBook resolves the book's proxied download URL and streams the PDF
// into w. Requires a session; a book without a PDF reports ErrNotFound.
func (c *Client) DownloadBook(ctx context.Context, id int64, w io.Writer) error {
	var payload downloadResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/books/%d/download/", id), nil, &payload, true); err != nil {
		return err
	}
	if payload.DownloadURL == "" {
		return fmt.Errorf("book %d: %w", id, ErrNotFound)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, payload.DownloadURL, nil)
	if err != nil {
		return fmt.Errorf("create download request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetch pdf: %w: %w", ErrUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("fetch pdf: media host returned status %d", resp.StatusCode)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("save pdf: %w", err)
	}
	return nil
}

// do performs one request against the backend. body is marshalled as JSON
// when non-nil; dest is decoded from the response when non-nil. auth
// attaches the session token.
func (c *Client) do(ctx context.Context, method, path string, body, dest any, auth bool) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth && c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Token "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w: %w", method, path, ErrUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return c.statusError(method, path, resp)
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("%s %s: decode response: %w: %w", method, path, ErrUnreachable, err)
	}
	return nil
}

// statusError maps an HTTP failure onto the error taxonomy, preserving the
// backend's message where one is present.
func (c *Client) statusError(method, path string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
	case http.StatusForbidden:
		return fmt.Errorf("%s %s: %w", method, path, ErrForbidden)
	case http.StatusNotFound:
		if msg := errorMessage(raw); msg != "" {
			return fmt.Errorf("%s %s: %s: %w", method, path, msg, ErrNotFound)
		}
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	case http.StatusBadRequest:
		if verr := parseValidationError(raw); verr != nil {
			return verr
		}
		return fmt.Errorf("%s %s: backend rejected request: %s", method, path, strings.TrimSpace(string(raw)))
	default:
		return fmt.Errorf("%s %s: backend returned status %d", method, path, resp.StatusCode)
	}
}

// errorMessage extracts the {"error": "..."} shape the backend uses for
// simple failures.
func errorMessage(raw []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return body.Error
}

// parseValidationError decodes a 400 body into field-level messages. The
// backend serializer reports either {"field": ["msg", ...]} or
// {"error": "msg"}.
func parseValidationError(raw []byte) *ValidationError {
	var generic map[string]json.RawMessage
	if err := json.Unmarshal(raw, &generic); err != nil || len(generic) == 0 {
		return nil
	}

	fields := make(map[string][]string, len(generic))
	for name, value := range generic {
		var msgs []string
		if err := json.Unmarshal(value, &msgs); err == nil {
			fields[name] = msgs
			continue
		}
		var msg string
		if err := json.Unmarshal(value, &msg); err == nil {
			fields[name] = []string{msg}
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
