package git

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// IsSSHURL checks if a git URL is using SSH protocol
func IsSSHURL(gitURL string) bool {
	return strings.HasPrefix(gitURL, "git@") || strings.HasPrefix(gitURL, "ssh://")
}

// IsHTTPSURL checks if a git URL is using HTTPS protocol
func IsHTTPSURL(gitURL string) bool {
	return strings.HasPrefix(gitURL, "https://") || strings.HasPrefix(gitURL, "http://")
}

// ValidateGitURL performs basic validation on a remote address before it is
// handed to the git executable.
func ValidateGitURL(gitURL string) error {
	if gitURL == "" {
		return fmt.Errorf("git URL cannot be empty")
	}

	// git would parse it as an option
	if strings.HasPrefix(gitURL, "-") {
		return fmt.Errorf("invalid git URL %q", gitURL)
	}

	if !IsSSHURL(gitURL) && !IsHTTPSURL(gitURL) && !strings.HasPrefix(gitURL, "file://") {
		if !filepath.IsAbs(gitURL) {
			return fmt.Errorf("invalid git URL: must be SSH, HTTPS, or absolute local path")
		}
	}

	return nil
}

// RedactURL removes credentials embedded in an HTTP(S) URL. Anything that
// does not parse as such a URL is returned unchanged.
func RedactURL(raw string) string {
	if !IsHTTPSURL(raw) {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	u.User = url.User("redacted")
	return u.String()
}
