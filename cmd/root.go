package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"pagesdrop/internal/config"
	"pagesdrop/internal/deploy"
	"pagesdrop/pkg/models"
)

type rootOptions struct {
	configFile string
	workDir    string
	verbose    bool
}

// NewRootCommand builds the pagesdrop command tree. Running it without a
// subcommand performs a deployment.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "pagesdrop",
		Short: "Publish a static site to GitHub Pages",
		Long: `pagesdrop publishes the site committed in a local git checkout to GitHub Pages.

It creates the GitHub repository (through the API when a personal access token
is given, by hand otherwise), adds it as a remote, pushes the current branch and
enables Pages hosting for it.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDeploy(cmd, opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (default is ./config.yaml or $HOME/.pagesdrop/config.yaml)")
	flags.StringVarP(&opts.workDir, "dir", "C", ".", "site checkout to deploy")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log git commands and API responses")

	cmd.AddCommand(newVersionCommand())
	cmd.AddCommand(newConfigCommand(opts))

	return cmd
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := NewRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// flagKeys maps persistent flags onto the config keys they override
var flagKeys = map[string]string{
	"dir": "deploy.work_dir",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			return fmt.Errorf("flag --%s is not defined", name)
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return err
		}
	}
	return nil
}

// loadConfig reads settings from the config file, PAGESDROP_* variables and
// the persistent flags.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*models.Config, error) {
	v := viper.New()
	if err := bindFlags(v, cmd.Root().PersistentFlags()); err != nil {
		return nil, err
	}
	if err := config.Init(v, opts.configFile); err != nil {
		return nil, err
	}
	return config.Load(v)
}

func runDeploy(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	container, err := newContainer(cfg, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	return container.Invoke(func(orchestrator *deploy.Orchestrator) error {
		_, err := orchestrator.Run(cmd.Context())
		return err
	})
}
