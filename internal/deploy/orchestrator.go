// Package deploy runs a GitHub Pages deployment: it checks the local
// checkout, asks the operator who they are, provisions the repository, binds
// and pushes to it, and switches Pages hosting on.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"pagesdrop/internal/git"
	"pagesdrop/internal/github"
	"pagesdrop/internal/ui"
	pderrors "pagesdrop/pkg/errors"
	"pagesdrop/pkg/models"
)

// VersionControl is the local checkout a deployment publishes from
type VersionControl interface {
	Status(ctx context.Context) error
	AddRemote(ctx context.Context, name, url string) error
	SetRemoteURL(ctx context.Context, name, url string) error
	Push(ctx context.Context, remote, branch string) error
	CurrentBranch(ctx context.Context) (string, error)
}

// RepositoryHost is the hosting provider a deployment publishes to
type RepositoryHost interface {
	CreateRepository(ctx context.Context, token string, spec models.RepositorySpec) (models.RemoteRepository, error)
	EnablePages(ctx context.Context, token, owner, repo string, source models.PagesSource) error
}

// Options holds the fixed parameters of a deployment
type Options struct {
	WorkDir     string
	RepoName    string
	Description string
	RemoteName  string
	Branch      string // empty means the checkout's current branch
	PagesPath   string
	Private     bool
}

// Orchestrator runs the deployment steps in order
type Orchestrator struct {
	opts     Options
	vcs      VersionControl
	host     RepositoryHost
	prompter ui.Prompter
	printer  *ui.Printer
	log      logrus.FieldLogger
}

// NewOrchestrator creates an Orchestrator
func NewOrchestrator(
	opts Options,
	vcs VersionControl,
	host RepositoryHost,
	prompter ui.Prompter,
	printer *ui.Printer,
	log logrus.FieldLogger,
) *Orchestrator {
	if opts.RemoteName == "" {
		opts.RemoteName = "origin"
	}
	if opts.PagesPath == "" {
		opts.PagesPath = "/"
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Orchestrator{
		opts:     opts,
		vcs:      vcs,
		host:     host,
		prompter: prompter,
		printer:  printer,
		log:      log,
	}
}

// Run performs a deployment. A nil error means the site was pushed; a failed
// Pages activation is reported but does not fail the run. Panics raised by a
// collaborator are returned as errors.
func (o *Orchestrator) Run(ctx context.Context) (result models.Deployment, err error) {
	defer func() {
		if appErr := pderrors.Recover(recover(), "deploy"); appErr != nil {
			o.log.WithField("stack", appErr.Stack).Error("deployment panicked")
			o.printer.Error(appErr.Message)
			o.printer.Detail(pderrors.Cause(appErr))
			result, err = models.Deployment{}, appErr
		}
	}()

	o.printer.Header(fmt.Sprintf("%s GitHub Pages Deploy", o.opts.RepoName))

	if err := o.verify(ctx); err != nil {
		return models.Deployment{}, err
	}

	d, err := o.collectInput(ctx)
	if err != nil {
		return models.Deployment{}, err
	}

	d, err = o.provision(ctx, d)
	if err != nil {
		return d, err
	}

	d, err = o.bindRemote(ctx, d)
	if err != nil {
		return d, err
	}

	d, err = o.publish(ctx, d)
	if err != nil {
		return d, err
	}

	d = o.enablePages(ctx, d)
	o.report(d)

	return d, nil
}

func (o *Orchestrator) verify(ctx context.Context) error {
	log := o.log.WithField("step", "verify")
	if err := o.vcs.Status(ctx); err != nil {
		log.WithError(err).Debug("status check failed")
		o.printer.Error(fmt.Sprintf("No git repository found in %s", o.opts.WorkDir))
		return pderrors.Wrap(err, pderrors.ErrCodeNotARepository, "Git repository not found").
			WithContext("dir", o.opts.WorkDir).
			WithSeverity(pderrors.SeverityCritical)
	}
	o.printer.Success("Git repository found")
	return nil
}

func (o *Orchestrator) collectInput(ctx context.Context) (models.Deployment, error) {
	username, err := o.prompter.Input("GitHub username:", "The account the repository is created under")
	if err != nil {
		return models.Deployment{}, err
	}
	username = strings.TrimSpace(username)
	if username == "" {
		o.printer.Error("Username cannot be empty")
		return models.Deployment{}, pderrors.RequiredFieldError("username")
	}

	token, err := o.prompter.Password(
		"Personal access token (optional):",
		"Needs the repo scope. Leave empty to create the repository and enable Pages by hand.",
	)
	if err != nil {
		return models.Deployment{}, err
	}

	id := models.Identity{Username: username, Token: strings.TrimSpace(token)}
	d := models.NewDeployment(id, o.opts.RepoName, o.opts.RemoteName, o.resolveBranch(ctx))

	o.log.WithFields(logrus.Fields{
		"step":     "input",
		"username": id.String(),
		"token":    id.HasToken(),
		"branch":   d.Branch,
	}).Debug("operator input collected")

	tokenState := "not set"
	if id.HasToken() {
		tokenState = "set"
	}
	o.printer.Section("Configuration")
	o.printer.KeyValue("Username", username)
	o.printer.KeyValue("Repository", d.RepoName)
	o.printer.KeyValue("Branch", d.Branch)
	o.printer.KeyValue("Token", tokenState)

	return d, nil
}

func (o *Orchestrator) resolveBranch(ctx context.Context) string {
	if o.opts.Branch != "" {
		return o.opts.Branch
	}
	branch, err := o.vcs.CurrentBranch(ctx)
	if err != nil || branch == "" {
		o.log.WithError(err).WithField("fallback", git.DefaultBranch).Debug("could not detect current branch")
		return git.DefaultBranch
	}
	return branch
}

func (o *Orchestrator) provision(ctx context.Context, d models.Deployment) (models.Deployment, error) {
	if !d.Identity.HasToken() {
		o.printer.Info("No token supplied, the repository has to be created by hand")
		return d, o.manualCreation(d)
	}

	o.printer.Step("Creating repository through the GitHub API...")
	repo, err := o.host.CreateRepository(ctx, d.Identity.Token, models.RepositorySpec{
		Name:        d.RepoName,
		Description: o.opts.Description,
		Private:     o.opts.Private,
		HasIssues:   true,
		HasProjects: true,
		HasWiki:     true,
	})
	if err != nil {
		failure := pderrors.Wrap(err, pderrors.ErrCodeRepoCreateFailed, "Repository creation failed").
			WithSeverity(pderrors.SeverityWarning).
			AsRecoverable()
		o.log.WithError(err).WithFields(logrus.Fields{
			"step": "provision",
			"code": failure.Code,
		}).Warn("repository creation failed")
		o.reportAPIFailure(failure)
		return d, o.manualCreation(d)
	}

	d = d.WithRemoteRepository(repo)
	o.printer.Success("Repository created")
	o.printer.KeyValue("URL", d.RepositoryURL)
	return d, nil
}

func (o *Orchestrator) manualCreation(d models.Deployment) error {
	visibility := "Public"
	if o.opts.Private {
		visibility = "Private"
	}
	o.printer.Instructions("Create the repository manually:",
		fmt.Sprintf("Open %s", models.NewRepositoryURL),
		fmt.Sprintf("Name: %s", d.RepoName),
		fmt.Sprintf("Visibility: %s", visibility),
	)
	return o.prompter.WaitForEnter("Press Enter once the repository exists")
}

func (o *Orchestrator) bindRemote(ctx context.Context, d models.Deployment) (models.Deployment, error) {
	log := o.log.WithFields(logrus.Fields{"step": "bind", "remote": d.RemoteName})

	o.printer.Step(fmt.Sprintf("Configuring remote %s...", d.RemoteName))
	addErr := o.vcs.AddRemote(ctx, d.RemoteName, d.RemoteURL)
	if addErr == nil {
		o.printer.Success(fmt.Sprintf("Remote %s added", d.RemoteName))
		return d, nil
	}
	log.WithError(addErr).Debug("adding remote failed, updating its URL instead")

	if err := o.vcs.SetRemoteURL(ctx, d.RemoteName, d.RemoteURL); err != nil {
		log.WithError(err).Debug("updating remote failed")
		o.printer.Error(fmt.Sprintf("Failed to configure remote %s", d.RemoteName))
		o.printer.Detail(git.Output(err))
		return d, pderrors.Wrap(err, pderrors.ErrCodeRemoteBind, "Failed to configure remote").
			WithContext("remote", d.RemoteName).
			WithSeverity(pderrors.SeverityCritical)
	}

	o.printer.Success(fmt.Sprintf("Remote %s updated", d.RemoteName))
	return d, nil
}

func (o *Orchestrator) publish(ctx context.Context, d models.Deployment) (models.Deployment, error) {
	o.printer.Step(fmt.Sprintf("Pushing %s to %s...", d.Branch, d.RemoteName))
	if err := o.vcs.Push(ctx, d.RemoteName, d.Branch); err != nil {
		o.log.WithError(err).WithFields(logrus.Fields{
			"step":   "push",
			"remote": d.RemoteName,
			"branch": d.Branch,
		}).Debug("push failed")

		o.printer.Error("Push failed")
		o.printer.Detail(git.Output(err))

		appErr := pderrors.Wrap(err, pderrors.ErrCodePushFailed, "Push failed").
			WithContext("remote", d.RemoteName).
			WithContext("branch", d.Branch).
			WithSeverity(pderrors.SeverityCritical)
		if !d.CreatedViaAPI {
			appErr = appErr.WithSuggestions(
				fmt.Sprintf("Make sure %s exists and you can push to it", d.RepositoryURL),
			)
		}
		return d, appErr
	}

	o.printer.Success("Code pushed")
	return d.WithPushed(), nil
}

func (o *Orchestrator) enablePages(ctx context.Context, d models.Deployment) models.Deployment {
	if !d.Identity.HasToken() {
		o.printer.Warning("GitHub Pages has to be enabled by hand:")
		o.printer.Detail(d.PagesSettingsURL())
		return d
	}

	o.printer.Step("Enabling GitHub Pages...")
	err := o.host.EnablePages(ctx, d.Identity.Token, d.Identity.Username, d.RepoName, models.PagesSource{
		Branch: d.Branch,
		Path:   o.opts.PagesPath,
	})
	if err != nil {
		failure := pderrors.Wrap(err, pderrors.ErrCodePagesFailed, "GitHub Pages activation failed").
			WithSeverity(pderrors.SeverityWarning).
			AsRecoverable()
		o.log.WithError(err).WithFields(logrus.Fields{
			"step": "pages",
			"code": failure.Code,
		}).Warn("enabling pages failed")
		o.reportAPIFailure(failure)
		return d
	}

	o.printer.Success("GitHub Pages enabled")
	return d.WithPagesEnabled()
}

func (o *Orchestrator) report(d models.Deployment) {
	o.printer.Println()
	o.printer.Header("Deployment complete")
	o.printer.Table([][2]string{
		{"Repository", d.RepositoryURL},
		{"GitHub Pages", d.PagesURL},
		{"Telegram Mini App", d.PagesURL},
	})
	o.printer.Info("GitHub Pages becomes available within 5-10 minutes")

	if !d.PagesEnabled {
		o.printer.Instructions("Next steps:",
			fmt.Sprintf("Open %s", d.PagesSettingsURL()),
			"Source: Deploy from a branch",
			fmt.Sprintf("Branch: %s", d.Branch),
			fmt.Sprintf("Folder: %s", o.opts.PagesPath),
			"Save",
		)
	}
}

// reportAPIFailure prints a status code and response body verbatim when
// GitHub answered, or the transport error otherwise.
func (o *Orchestrator) reportAPIFailure(failure *pderrors.AppError) {
	var apiErr *github.APIError
	if errors.As(failure, &apiErr) {
		o.printer.Error(fmt.Sprintf("%s: HTTP %d", failure.Message, apiErr.StatusCode))
		o.printer.Detail(apiErr.Body)
		return
	}
	o.printer.Error(fmt.Sprintf("%s: network error", failure.Message))
	o.printer.Detail(pderrors.Cause(failure.Cause))
}
