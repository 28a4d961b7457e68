package cmd

import (
	"io"

	"github.com/sirupsen/logrus"
	"go.uber.org/dig"

	"pagesdrop/internal/deploy"
	"pagesdrop/internal/git"
	"pagesdrop/internal/github"
	"pagesdrop/internal/logging"
	"pagesdrop/internal/ui"
	"pagesdrop/pkg/models"
)

// decorate lets tests swap providers before the container is used
var decorate func(*dig.Container) error

type streams struct {
	out    io.Writer
	errOut io.Writer
}

// newContainer registers the providers a deployment needs
func newContainer(cfg *models.Config, opts *rootOptions, out, errOut io.Writer) (*dig.Container, error) {
	container := dig.New()

	providers := []interface{}{
		func() *models.Config { return cfg },
		func() streams { return streams{out: out, errOut: errOut} },
		func(cfg *models.Config, s streams) (logrus.FieldLogger, error) {
			return logging.New(logging.Options{
				Level:   cfg.Log.Level,
				Format:  cfg.Log.Format,
				Verbose: opts.verbose,
				Output:  s.errOut,
			})
		},
		func(s streams) *ui.Printer { return ui.NewPrinter(s.out) },
		func() ui.Prompter { return ui.NewTerminalPrompter() },
		func(cfg *models.Config, log logrus.FieldLogger) deploy.VersionControl {
			return git.NewCLI(cfg.Deploy.WorkDir, log.WithField("component", "git"))
		},
		func(cfg *models.Config, log logrus.FieldLogger) (deploy.RepositoryHost, error) {
			return github.NewClient(github.Options{
				BaseURL: cfg.GitHub.APIURL,
				Timeout: cfg.GitHub.Timeout,
			}, log.WithField("component", "github"))
		},
		newOrchestrator,
	}
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return nil, err
		}
	}

	if decorate != nil {
		if err := decorate(container); err != nil {
			return nil, err
		}
	}

	return container, nil
}

func newOrchestrator(
	cfg *models.Config,
	vcs deploy.VersionControl,
	host deploy.RepositoryHost,
	prompter ui.Prompter,
	printer *ui.Printer,
	log logrus.FieldLogger,
) *deploy.Orchestrator {
	return deploy.NewOrchestrator(deploy.Options{
		WorkDir:     cfg.Deploy.WorkDir,
		RepoName:    cfg.Deploy.RepoName,
		Description: cfg.Deploy.Description,
		RemoteName:  cfg.Deploy.Remote,
		Branch:      cfg.Deploy.Branch,
		PagesPath:   cfg.Pages.Path,
		Private:     cfg.Deploy.Private,
	}, vcs, host, prompter, printer, log.WithField("component", "deploy"))
}
