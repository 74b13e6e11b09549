package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thenoetrevino/funil/internal/config"
)

// ConfigCmd returns the config parent command
func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and create the configuration file",
	}

	cmd.AddCommand(configShowCmd())
	cmd.AddCommand(configPathCmd())
	cmd.AddCommand(configInitCmd())

	return cmd
}

// configShowCmd prints the effective configuration after every layer is applied
func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := AppFromContext(cmd.Context())
			if err != nil {
				return err
			}

			cfg := *app.Config
			if cfg.Session.Token != "" {
				cfg.Session.Token = "********"
			}

			data, err := yaml.Marshal(&cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func configPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file location",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := AppFromContext(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), app.Config.Path())
			return err
		},
	}
}

// configInitCmd writes the built-in defaults to a new config file
func configInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a config file with the default settings",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
				return usageError(err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := AppFromContext(cmd.Context())
			if err != nil {
				return err
			}

			cfg := config.Default()
			cfg.SetPath(app.Config.Path())
			if len(args) == 1 {
				cfg.SetPath(args[0])
			}

			force, _ := cmd.Flags().GetBool("force")
			if _, err := os.Stat(cfg.Path()); err == nil && !force {
				return &CommandError{
					Code:       "CONFIG_EXISTS",
					Exit:       ExitError,
					Err:        fmt.Errorf("%s already exists", cfg.Path()),
					Suggestion: "Use --force to overwrite it",
				}
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}

			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			formatterFor(cmd).Printf("Wrote %s\n", cfg.Path())
			return nil
		},
	}

	cmd.Flags().Bool("force", false, "Overwrite an existing file")

	return cmd
}
