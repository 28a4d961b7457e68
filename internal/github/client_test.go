package github

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pderrors "pagesdrop/pkg/errors"
	"pagesdrop/pkg/models"
)

const testToken = "ghp_test"

type recordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   map[string]interface{}
}

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	requests := &[]recordedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		rec := recordedRequest{Method: r.Method, Path: r.URL.Path, Header: r.Header.Clone()}
		if len(data) > 0 {
			require.NoError(t, json.Unmarshal(data, &rec.Body))
		}
		*requests = append(*requests, rec)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, requests
}

func newTestClient(t *testing.T, baseURL string, timeout time.Duration) *Client {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	client, err := NewClient(Options{BaseURL: baseURL, Timeout: timeout}, logger)
	require.NoError(t, err)
	return client
}

var spec = models.RepositorySpec{
	Name:        "spacerift",
	Description: "SpaceRift 3D Space RPG game for Telegram Mini App",
	HasIssues:   true,
	HasProjects: true,
	HasWiki:     true,
}

func TestCreateRepositoryCreated(t *testing.T) {
	server, requests := newTestServer(t, http.StatusCreated,
		`{"name":"spacerift","owner":{"login":"alice"},"clone_url":"https://github.com/alice/spacerift.git","html_url":"https://github.com/alice/spacerift"}`)
	client := newTestClient(t, server.URL, time.Second)

	repo, err := client.CreateRepository(context.Background(), testToken, spec)
	require.NoError(t, err)

	assert.Equal(t, "https://github.com/alice/spacerift.git", repo.CloneURL)
	assert.Equal(t, "https://github.com/alice/spacerift", repo.HTMLURL)
	assert.Equal(t, "alice", repo.Owner)
	assert.Equal(t, "spacerift", repo.Name)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/user/repos", req.Path)
	assert.Equal(t, MediaType, req.Header.Get("Accept"))
	assert.Equal(t, "Bearer "+testToken, req.Header.Get("Authorization"))
	assert.Equal(t, "spacerift", req.Body["name"])
	assert.Equal(t, spec.Description, req.Body["description"])
	assert.Equal(t, false, req.Body["private"])
	assert.Equal(t, true, req.Body["has_issues"])
	assert.Equal(t, true, req.Body["has_projects"])
	assert.Equal(t, true, req.Body["has_wiki"])
}

func TestCreateRepositoryRejected(t *testing.T) {
	body := `{"message":"Repository creation failed.","errors":[{"resource":"Repository","code":"custom","field":"name","message":"name already exists on this account"}]}`
	server, _ := newTestServer(t, http.StatusUnprocessableEntity, body)
	client := newTestClient(t, server.URL, time.Second)

	_, err := client.CreateRepository(context.Background(), testToken, spec)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, body, apiErr.Body)
	assert.Equal(t, "create repository", apiErr.Operation)
	assert.Equal(t, pderrors.ErrCodeAPIStatus, pderrors.GetErrorCode(err))
	assert.True(t, pderrors.IsRecoverable(err))
}

func TestCreateRepositoryUnexpectedSuccessStatus(t *testing.T) {
	testCases := []struct {
		name   string
		status int
		body   string
	}{
		{name: "ok", status: http.StatusOK, body: `{"name":"spacerift","message":"already there"}`},
		{name: "accepted", status: http.StatusAccepted, body: `{"name":"spacerift"}`},
		{name: "no content", status: http.StatusNoContent, body: ""},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			server, _ := newTestServer(t, testCase.status, testCase.body)
			client := newTestClient(t, server.URL, time.Second)

			_, err := client.CreateRepository(context.Background(), testToken, spec)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, testCase.status, apiErr.StatusCode)
			assert.Equal(t, testCase.body, apiErr.Body)
			assert.Equal(t, pderrors.ErrCodeAPIStatus, pderrors.GetErrorCode(err))
		})
	}
}

func TestCreateRepositoryUnauthorized(t *testing.T) {
	body := `{"message":"Bad credentials","documentation_url":"https://docs.github.com/rest"}`
	server, _ := newTestServer(t, http.StatusUnauthorized, body)
	client := newTestClient(t, server.URL, time.Second)

	_, err := client.CreateRepository(context.Background(), "bad", spec)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, body, apiErr.Body)
}

func TestCreateRepositoryNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()
	client := newTestClient(t, url, time.Second)

	_, err := client.CreateRepository(context.Background(), testToken, spec)
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
	assert.Equal(t, pderrors.ErrCodeNetworkUnavailable, pderrors.GetErrorCode(err))
}

func TestCreateRepositoryTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})
	client := newTestClient(t, server.URL, 50*time.Millisecond)

	start := time.Now()
	_, err := client.CreateRepository(context.Background(), testToken, spec)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, pderrors.ErrCodeNetworkUnavailable, pderrors.GetErrorCode(err))
}

func TestEnablePages(t *testing.T) {
	server, requests := newTestServer(t, http.StatusCreated,
		`{"url":"https://api.github.com/repos/alice/spacerift/pages","status":"queued","source":{"branch":"main","path":"/"}}`)
	client := newTestClient(t, server.URL, time.Second)

	err := client.EnablePages(context.Background(), testToken, "alice", "spacerift",
		models.PagesSource{Branch: "main", Path: "/"})
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/repos/alice/spacerift/pages", req.Path)
	assert.Equal(t, MediaType, req.Header.Get("Accept"))
	assert.Equal(t, "Bearer "+testToken, req.Header.Get("Authorization"))
	source, ok := req.Body["source"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "main", source["branch"])
	assert.Equal(t, "/", source["path"])
}

func TestEnablePagesConflict(t *testing.T) {
	body := `{"message":"GitHub Pages is already enabled."}`
	server, _ := newTestServer(t, http.StatusConflict, body)
	client := newTestClient(t, server.URL, time.Second)

	err := client.EnablePages(context.Background(), testToken, "alice", "spacerift",
		models.PagesSource{Branch: "main", Path: "/"})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, body, apiErr.Body)
}

func TestEnablePagesUnexpectedSuccessStatus(t *testing.T) {
	body := `{"url":"https://api.github.com/repos/alice/spacerift/pages","status":"built","cname":null}`
	server, _ := newTestServer(t, http.StatusOK, body)
	client := newTestClient(t, server.URL, time.Second)

	err := client.EnablePages(context.Background(), testToken, "alice", "spacerift",
		models.PagesSource{Branch: "main", Path: "/"})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusOK, apiErr.StatusCode)
	assert.Equal(t, body, apiErr.Body)
	assert.Equal(t, "enable pages", apiErr.Operation)
}

func TestNewClientRejectsBadURL(t *testing.T) {
	_, err := NewClient(Options{BaseURL: "not a url"}, nil)
	assert.Error(t, err)
}

func TestNewClientDefaults(t *testing.T) {
	client, err := NewClient(Options{}, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, client.timeout)
	assert.Equal(t, DefaultAPIURL, client.client.BaseURL.String())
}

func TestAPIErrorMessage(t *testing.T) {
	err := &APIError{Operation: "enable pages", StatusCode: 404, Body: `{"message":"Not Found"}`}
	assert.Equal(t, `enable pages: unexpected status 404: {"message":"Not Found"}`, err.Error())
}
