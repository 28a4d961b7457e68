// Package github talks to the GitHub REST API: creating the site repository
// and switching on Pages hosting for it.
package github

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

	"github.com/google/go-github/v56/github"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/sirupsen/logrus"

	pderrors "pagesdrop/pkg/errors"
	"pagesdrop/pkg/models"
)

const (
	// DefaultAPIURL is the public GitHub API endpoint
	DefaultAPIURL = "https://api.github.com/"
	// DefaultTimeout bounds every API request
	DefaultTimeout = 30 * time.Second
	// MediaType pins responses to the v3 REST API
	MediaType = "application/vnd.github.v3+json"
)

// APIError is returned when GitHub answers with anything but 201 Created.
// Body holds the response body exactly as received.
type APIError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Operation, e.StatusCode, e.Body)
}

// Options configures a Client
type Options struct {
	BaseURL string
	Timeout time.Duration
}

// Client creates repositories and enables Pages on behalf of a token holder
type Client struct {
	client  *github.Client
	timeout time.Duration
	log     logrus.FieldLogger
}

// NewClient builds a Client. Requests carry the v3 media type and are
// abandoned after opts.Timeout.
func NewClient(opts Options, log logrus.FieldLogger) (*Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultAPIURL
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	httpClient := cleanhttp.DefaultClient()
	httpClient.Timeout = opts.Timeout
	httpClient.Transport = &mediaTypeTransport{base: httpClient.Transport}

	client := github.NewClient(httpClient)
	baseURL, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	client.BaseURL = baseURL

	return &Client{
		client:  client,
		timeout: opts.Timeout,
		log:     log,
	}, nil
}

// CreateRepository creates a repository owned by the token's user
func (c *Client) CreateRepository(
	ctx context.Context,
	token string,
	spec models.RepositorySpec,
) (models.RemoteRepository, error) {
	const op = "create repository"

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.client.NewRequest(http.MethodPost, "user/repos", &github.Repository{
		Name:        github.String(spec.Name),
		Description: github.String(spec.Description),
		Private:     github.Bool(spec.Private),
		HasIssues:   github.Bool(spec.HasIssues),
		HasProjects: github.Bool(spec.HasProjects),
		HasWiki:     github.Bool(spec.HasWiki),
	})
	if err != nil {
		return models.RemoteRepository{}, pderrors.Wrap(err, pderrors.ErrCodeInternal, "failed to build request")
	}

	body, err := c.do(ctx, op, token, req)
	if err != nil {
		return models.RemoteRepository{}, err
	}

	var repo github.Repository
	if err := json.Unmarshal(body, &repo); err != nil {
		return models.RemoteRepository{}, pderrors.NetworkError(fmt.Sprintf("%s: malformed response", op), err)
	}

	return models.RemoteRepository{
		Owner:    repo.GetOwner().GetLogin(),
		Name:     repo.GetName(),
		CloneURL: repo.GetCloneURL(),
		HTMLURL:  repo.GetHTMLURL(),
	}, nil
}

// EnablePages publishes source.Branch at source.Path of owner/repo
func (c *Client) EnablePages(
	ctx context.Context,
	token, owner, repo string,
	source models.PagesSource,
) error {
	const op = "enable pages"

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.client.NewRequest(http.MethodPost, fmt.Sprintf("repos/%s/%s/pages", owner, repo), &github.Pages{
		Source: &github.PagesSource{
			Branch: github.String(source.Branch),
			Path:   github.String(source.Path),
		},
	})
	if err != nil {
		return pderrors.Wrap(err, pderrors.ErrCodeInternal, "failed to build request")
	}

	_, err = c.do(ctx, op, token, req)
	return err
}

// do sends req and returns the raw response body. Any status but 201 Created
// is an APIError carrying the body exactly as received.
func (c *Client) do(ctx context.Context, op, token string, req *http.Request) ([]byte, error) {
	var body bytes.Buffer
	resp, err := c.withToken(token).Do(ctx, req, &body)
	if err != nil {
		return nil, c.failure(op, resp, err)
	}

	c.log.WithFields(logrus.Fields{
		"operation": op,
		"status":    resp.StatusCode,
	}).Debug("GitHub API response")

	if resp.StatusCode != http.StatusCreated {
		return nil, statusError(op, resp.StatusCode, body.String())
	}
	return body.Bytes(), nil
}

func (c *Client) withToken(token string) *github.Client {
	if token == "" {
		return c.client
	}
	return c.client.WithAuthToken(token)
}

// failure turns a go-github error into an APIError when GitHub answered, or
// a network error when it did not.
func (c *Client) failure(op string, resp *github.Response, err error) error {
	var accepted *github.AcceptedError
	if errors.As(err, &accepted) {
		return statusError(op, http.StatusAccepted, string(accepted.Raw))
	}

	if resp != nil && resp.Response != nil {
		c.log.WithFields(logrus.Fields{
			"operation": op,
			"status":    resp.StatusCode,
		}).Debug("GitHub API error response")
		return statusError(op, resp.StatusCode, responseBody(resp.Response, err))
	}

	c.log.WithError(err).WithField("operation", op).Debug("GitHub API request failed")
	return pderrors.NetworkError(fmt.Sprintf("%s request failed", op), err)
}

// responseBody returns the raw body of a failed response. go-github
// re-populates the body after decoding the error, so it can be read here.
func responseBody(resp *http.Response, err error) string {
	if resp.Body != nil {
		data, readErr := io.ReadAll(resp.Body)
		if readErr == nil && len(data) > 0 {
			resp.Body = io.NopCloser(bytes.NewReader(data))
			return string(data)
		}
	}
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) {
		return ghErr.Message
	}
	return err.Error()
}

// statusError wraps an APIError so callers can match it by code as well as
// by type.
func statusError(op string, status int, body string) error {
	return pderrors.Wrap(&APIError{Operation: op, StatusCode: status, Body: body},
		pderrors.ErrCodeAPIStatus, fmt.Sprintf("%s returned HTTP %d", op, status)).
		WithContext("status", status).
		AsRecoverable()
}

func parseBaseURL(raw string) (*url.URL, error) {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub API URL %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid GitHub API URL %q: scheme and host are required", raw)
	}
	return u, nil
}

type mediaTypeTransport struct {
	base http.RoundTripper
}

func (t *mediaTypeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Accept", MediaType)
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}
