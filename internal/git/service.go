package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"

	pdexec "pagesdrop/internal/exec"
	pderrors "pagesdrop/pkg/errors"
)

// DefaultBinary is the git executable looked up on PATH
const DefaultBinary = "git"

// CLI drives the git executable against a single working tree. Every
// command runs with the working tree as its directory.
type CLI struct {
	dir    string
	binary string
	log    logrus.FieldLogger
}

// NewCLI creates a git CLI bound to dir
func NewCLI(dir string, log logrus.FieldLogger) *CLI {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CLI{
		dir:    dir,
		binary: DefaultBinary,
		log:    log,
	}
}

// Status runs `git status` to confirm the directory is a usable checkout
func (c *CLI) Status(ctx context.Context) error {
	if _, err := c.run(ctx, "status"); err != nil {
		if pderrors.GetErrorCode(err) == pderrors.ErrCodeGitNotFound {
			return err
		}
		return pderrors.Wrap(err, pderrors.ErrCodeNotARepository,
			fmt.Sprintf("%s is not a git repository", c.dir)).
			WithContext("dir", c.dir).
			WithSeverity(pderrors.SeverityCritical).
			WithSuggestions(
				"Run pagesdrop from the directory holding the site checkout",
				"Or point --dir at it",
				"Initialize one with 'git init' and commit the site files",
			)
	}
	return nil
}

// AddRemote adds a new remote pointing at url
func (c *CLI) AddRemote(ctx context.Context, name, url string) error {
	if err := ValidateGitURL(url); err != nil {
		return pderrors.Wrap(err, pderrors.ErrCodeRemoteBind, "refusing to add remote")
	}
	if _, err := c.run(ctx, "remote", "add", name, url); err != nil {
		return pderrors.Wrap(err, pderrors.ErrCodeRemoteBind,
			fmt.Sprintf("failed to add remote %q", name)).
			WithContext("remote", name).
			AsRecoverable()
	}
	return nil
}

// SetRemoteURL points an existing remote at url
func (c *CLI) SetRemoteURL(ctx context.Context, name, url string) error {
	if err := ValidateGitURL(url); err != nil {
		return pderrors.Wrap(err, pderrors.ErrCodeRemoteBind, "refusing to update remote")
	}
	if previous, err := RemoteURL(c.dir, name); err == nil {
		c.log.WithFields(logrus.Fields{
			"remote":   name,
			"previous": RedactURL(previous),
		}).Debug("replacing remote URL")
	}
	if _, err := c.run(ctx, "remote", "set-url", name, url); err != nil {
		return pderrors.Wrap(err, pderrors.ErrCodeRemoteBind,
			fmt.Sprintf("failed to set URL of remote %q", name)).
			WithContext("remote", name)
	}
	return nil
}

// Push pushes branch to remote and records it as the upstream
func (c *CLI) Push(ctx context.Context, remote, branch string) error {
	if _, err := c.run(ctx, "push", "-u", remote, branch); err != nil {
		return pderrors.Wrap(err, pderrors.ErrCodePushFailed,
			fmt.Sprintf("failed to push %s to %s", branch, remote)).
			WithContext("remote", remote).
			WithContext("branch", branch).
			WithContext("output", Output(err)).
			WithSeverity(pderrors.SeverityCritical)
	}
	return nil
}

// CurrentBranch returns the branch checked out in the working tree
func (c *CLI) CurrentBranch(_ context.Context) (string, error) {
	return CurrentBranch(c.dir)
}

func (c *CLI) run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.binary, args...)
	cmd.Dir = c.dir

	c.log.WithFields(logrus.Fields{
		"dir":  c.dir,
		"args": strings.Join(redactArgs(args), " "),
	}).Debug("running git")

	output, err := pdexec.Exec(cmd)
	if errors.Is(err, exec.ErrNotFound) {
		return output, pderrors.Wrap(err, pderrors.ErrCodeGitNotFound, "git executable not found").
			WithSeverity(pderrors.SeverityCritical).
			WithSuggestions("Install git and make sure it is on PATH")
	}
	if err != nil {
		c.log.WithError(err).WithField("command", args[0]).Debug("git command failed")
		return output, err
	}
	return output, nil
}

// Output extracts the text a failed git command printed, falling back to the
// error's cause when the command never ran.
func Output(err error) string {
	var exitErr *pdexec.ExitError
	if errors.As(err, &exitErr) {
		return strings.TrimSpace(string(exitErr.Output))
	}
	return pderrors.Cause(err)
}

func redactArgs(args []string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = RedactURL(arg)
	}
	return out
}
