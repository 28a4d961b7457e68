package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"pagesdrop/internal/config"
	"pagesdrop/internal/ui"
)

func newConfigCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the pagesdrop configuration",
	}

	cmd.AddCommand(newConfigShowCommand(opts))
	cmd.AddCommand(newConfigInitCommand())

	return cmd
}

func newConfigShowCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings as YAML",
		Long: `Print the settings a deployment would run with, after merging the config
file, PAGESDROP_* environment variables and command line flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			data, err := config.Render(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	var (
		path  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file holding the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			written, err := config.WriteDefault(path, force)
			if err != nil {
				return err
			}
			ui.NewPrinter(cmd.OutOrStdout()).Success(fmt.Sprintf("Config written to %s", written))
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "file to write (default is $HOME/.pagesdrop/config.yaml)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}
