package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrInvalidCredential reports that the identity endpoint rejected the
	// bearer credential.
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrUnavailable reports that the identity endpoint could not be reached
	// or answered with an unexpected status.
	ErrUnavailable = errors.New("identity endpoint unavailable")
)

// Profile is the public identity attached to a credential.
type Profile struct {
	Username  string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

// Client resolves credentials and usernames against the identity endpoint.
type Client interface {
	// WhoAmI returns the canonical profile of the credential's owner.
	WhoAmI(ctx context.Context, credential string) (*Profile, error)
	// Exists reports whether username names a real account. The credential
	// is optional and only raises the endpoint's rate allowance.
	Exists(ctx context.Context, username, credential string) (bool, error)
}

// Config configures an [HTTPClient].
type Config struct {
	// BaseURL of the identity endpoint. Defaults to the public GitHub API.
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// HTTPClient implements [Client] over the provider's REST surface:
// GET /user resolves a credential, GET /users/{name} probes existence.
type HTTPClient struct {
	cfg  Config
	http *http.Client
}

// NewHTTPClient returns a ready client. Pass a nil httpClient to get one
// with cfg.Timeout applied.
func NewHTTPClient(cfg Config, httpClient *http.Client) *HTTPClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.github.com"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.UserAgent == "" {
		cfg.UserAgent = "coachvault"
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &HTTPClient{cfg: cfg, http: httpClient}
}

// WhoAmI resolves the credential to its canonical profile.
func (c *HTTPClient) WhoAmI(ctx context.Context, credential string) (*Profile, error) {
	if credential == "" {
		return nil, ErrInvalidCredential
	}

	resp, err := c.get(ctx, "/user", credential)
	if err != nil {
		return nil, err
	}
	defer drain(resp)

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrInvalidCredential
	default:
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("%w: malformed profile payload", ErrUnavailable)
	}
	if profile.Username == "" {
		return nil, fmt.Errorf("%w: profile without username", ErrUnavailable)
	}

	return &profile, nil
}

// Exists probes whether username names a real account.
func (c *HTTPClient) Exists(ctx context.Context, username, credential string) (bool, error) {
	if username == "" {
		return false, nil
	}

	resp, err := c.get(ctx, "/users/"+url.PathEscape(username), credential)
	if err != nil {
		return false, err
	}
	defer drain(resp)

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
}

func (c *HTTPClient) get(ctx context.Context, path, credential string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if credential != "" {
		req.Header.Set("Authorization", "token "+credential)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return resp, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}
