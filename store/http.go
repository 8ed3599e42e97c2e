package store

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.github.com"

// Config configures an [HTTPClient].
type Config struct {
	// BaseURL of the store's REST endpoint. Defaults to the public GitHub API.
	BaseURL string
	// Owner and Repo name the repository backing the object namespace.
	Owner string
	Repo  string
	// Branch all writes commit to. Defaults to "main".
	Branch string
	// UserAgent sent on every request; the provider rejects anonymous agents.
	UserAgent string
	// Timeout bounds each request when HTTPClient owns its http.Client.
	Timeout time.Duration
}

// HTTPClient implements [Client] against a contents-style REST API:
// GET/PUT/DELETE on /repos/{owner}/{repo}/contents/{path}, base64 payloads,
// and a sha field as the version token.
type HTTPClient struct {
	cfg  Config
	http *http.Client
}

// NewHTTPClient validates cfg and returns a ready client. Pass a nil
// httpClient to get one with cfg.Timeout applied.
func NewHTTPClient(cfg Config, httpClient *http.Client) (*HTTPClient, error) {
	if cfg.Owner == "" || cfg.Repo == "" {
		return nil, errors.New("store: owner and repo are required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Branch == "" {
		cfg.Branch = "main"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "coachvault"
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &HTTPClient{cfg: cfg, http: httpClient}, nil
}

// Get fetches a single object with its content decoded.
func (c *HTTPClient) Get(ctx context.Context, path, credential string) (*Object, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil, credential)
	if err != nil {
		return nil, err
	}
	defer drain(resp)

	if err := statusError(resp.StatusCode); err != nil {
		return nil, err
	}

	var raw struct {
		Entry
		Content  string `json:"content"`
		Encoding string `json:"encoding"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: malformed object payload", ErrUnavailable)
	}

	obj := &Object{Entry: raw.Entry}
	if raw.Content != "" {
		// The provider wraps base64 content at 60 columns.
		compact := strings.ReplaceAll(raw.Content, "\n", "")
		decoded, err := base64.StdEncoding.DecodeString(compact)
		if err != nil {
			return nil, fmt.Errorf("%w: undecodable object content", ErrUnavailable)
		}
		obj.Content = decoded
	}

	return obj, nil
}

// List fetches the entries of a directory path.
func (c *HTTPClient) List(ctx context.Context, path, credential string) ([]Entry, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil, credential)
	if err != nil {
		return nil, err
	}
	defer drain(resp)

	if err := statusError(resp.StatusCode); err != nil {
		return nil, err
	}

	var entries []Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("%w: malformed listing payload", ErrUnavailable)
	}

	return entries, nil
}

// Put creates or updates the object at path. The write is conditional when
// req.ExpectedVersion is set; a stale version yields [ErrConflict].
func (c *HTTPClient) Put(ctx context.Context, path string, req PutRequest, credential string) (*PutResult, error) {
	payload := map[string]string{
		"message": req.Message,
		"content": base64.StdEncoding.EncodeToString(req.Content),
		"branch":  c.cfg.Branch,
	}
	if req.ExpectedVersion != "" {
		payload["sha"] = req.ExpectedVersion
	}

	resp, err := c.do(ctx, http.MethodPut, path, payload, credential)
	if err != nil {
		return nil, err
	}
	defer drain(resp)

	if err := statusError(resp.StatusCode); err != nil {
		return nil, err
	}

	var raw struct {
		Content Entry  `json:"content"`
		Commit  Commit `json:"commit"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: malformed write confirmation", ErrUnavailable)
	}

	return &PutResult{Object: raw.Content, Commit: raw.Commit}, nil
}

// Delete removes the object at path, conditional on req.ExpectedVersion.
func (c *HTTPClient) Delete(ctx context.Context, path string, req DeleteRequest, credential string) (Commit, error) {
	payload := map[string]string{
		"message": req.Message,
		"sha":     req.ExpectedVersion,
		"branch":  c.cfg.Branch,
	}

	resp, err := c.do(ctx, http.MethodDelete, path, payload, credential)
	if err != nil {
		return Commit{}, err
	}
	defer drain(resp)

	if err := statusError(resp.StatusCode); err != nil {
		return Commit{}, err
	}

	var raw struct {
		Commit Commit `json:"commit"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return Commit{}, fmt.Errorf("%w: malformed delete confirmation", ErrUnavailable)
	}

	return raw.Commit, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload map[string]string, credential string) (*http.Response, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		c.cfg.BaseURL,
		url.PathEscape(c.cfg.Owner),
		url.PathEscape(c.cfg.Repo),
		escapePath(path),
	)

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if credential != "" {
		req.Header.Set("Authorization", "token "+credential)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return resp, nil
}

// statusError translates provider statuses into package sentinels. Response
// bodies are never echoed: they can carry provider internals.
func statusError(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusConflict:
		return ErrConflict
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ErrUnauthorized
	default:
		return fmt.Errorf("%w: status %d", ErrUnavailable, code)
	}
}

func escapePath(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}
