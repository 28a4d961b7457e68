package models

import "fmt"

const (
	githubHost  = "github.com"
	pagesDomain = "github.io"
)

// Identity is the operator-supplied account and optional access token for a
// single run.
type Identity struct {
	Username string
	Token    string
}

// HasToken reports whether an access token was supplied
func (i Identity) HasToken() bool {
	return i.Token != ""
}

// String returns the username only so the token never ends up in logs
func (i Identity) String() string {
	return i.Username
}

// RemoteRepository is a repository as reported by the hosting provider
type RemoteRepository struct {
	Owner    string `json:"owner"`
	Name     string `json:"name"`
	CloneURL string `json:"clone_url"`
	HTMLURL  string `json:"html_url"`
}

// RepositorySpec describes the repository to create
type RepositorySpec struct {
	Name        string
	Description string
	Private     bool
	HasIssues   bool
	HasProjects bool
	HasWiki     bool
}

// PagesSource is the branch and directory Pages serves the site from
type PagesSource struct {
	Branch string
	Path   string
}

// Deployment is the record threaded through a deployment run. Every step
// returns an updated copy; a Deployment value is never modified in place.
type Deployment struct {
	Identity      Identity
	RepoName      string
	RemoteName    string
	Branch        string
	RemoteURL     string
	RepositoryURL string
	PagesURL      string
	CreatedViaAPI bool
	Pushed        bool
	PagesEnabled  bool
}

// NewDeployment derives the addresses of a deployment from the operator's
// identity and the fixed repository name.
func NewDeployment(id Identity, repoName, remoteName, branch string) Deployment {
	return Deployment{
		Identity:      id,
		RepoName:      repoName,
		RemoteName:    remoteName,
		Branch:        branch,
		RemoteURL:     DefaultCloneURL(id.Username, repoName),
		RepositoryURL: DefaultHTMLURL(id.Username, repoName),
		PagesURL:      PagesURL(id.Username, repoName),
	}
}

// WithRemoteRepository records the repository created by the hosting
// provider. The clone URL is used as the remote address verbatim.
func (d Deployment) WithRemoteRepository(repo RemoteRepository) Deployment {
	if repo.CloneURL != "" {
		d.RemoteURL = repo.CloneURL
	}
	if repo.HTMLURL != "" {
		d.RepositoryURL = repo.HTMLURL
	}
	d.CreatedViaAPI = true
	return d
}

// WithPushed marks the content as published
func (d Deployment) WithPushed() Deployment {
	d.Pushed = true
	return d
}

// WithPagesEnabled marks Pages hosting as activated through the API
func (d Deployment) WithPagesEnabled() Deployment {
	d.PagesEnabled = true
	return d
}

// PagesSettingsURL returns the page where Pages can be enabled by hand
func (d Deployment) PagesSettingsURL() string {
	return PagesSettingsURL(d.Identity.Username, d.RepoName)
}

// PagesURL returns the address a repository is served at by Pages
func PagesURL(username, repoName string) string {
	return fmt.Sprintf("https://%s.%s/%s", username, pagesDomain, repoName)
}

// DefaultCloneURL returns the HTTPS clone address of a repository
func DefaultCloneURL(username, repoName string) string {
	return fmt.Sprintf("https://%s/%s/%s.git", githubHost, username, repoName)
}

// DefaultHTMLURL returns the web address of a repository
func DefaultHTMLURL(username, repoName string) string {
	return fmt.Sprintf("https://%s/%s/%s", githubHost, username, repoName)
}

// PagesSettingsURL returns the Pages settings page of a repository
func PagesSettingsURL(username, repoName string) string {
	return DefaultHTMLURL(username, repoName) + "/settings/pages"
}

// NewRepositoryURL is where repositories are created by hand
const NewRepositoryURL = "https://" + githubHost + "/new"
