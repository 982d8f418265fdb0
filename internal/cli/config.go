package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/solconnect/internal/config"
	walleterr "github.com/mrz1836/solconnect/pkg/errors"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View configuration",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long: `Show the configuration after environment and flag overrides.

Example:
  solconnect config show
  SOLCONNECT_CLUSTER=testnet solconnect config show -o json`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.formatter.Emit(a.cfg, func(w io.Writer) error {
				data, err := yaml.Marshal(a.cfg)
				if err != nil {
					return err
				}
				_, err = w.Write(data)
				return err
			})
		},
	}

	path := &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			p := config.Path(a.cfg.Home)
			return a.formatter.Emit(map[string]string{"path": p}, func(w io.Writer) error {
				out(w, "%s\n", p)
				return nil
			})
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			p := config.Path(a.cfg.Home)
			if _, err := os.Stat(p); err == nil && !force {
				return walleterr.WithSuggestion(
					walleterr.WithDetails(walleterr.ErrInvalidInput, map[string]string{"path": p}),
					"configuration already exists; use --force to overwrite",
				)
			}
			if err := config.Save(a.cfg, p); err != nil {
				return err
			}
			a.logger.Debug("wrote %s", p)
			return a.formatter.Emit(map[string]string{"path": p}, func(w io.Writer) error {
				out(w, "Configuration written to %s\n", p)
				return nil
			})
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(show, path, initCmd)
	return cmd
}
