package cli

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"budgetplanner/internal/config"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

func newConfigCommand(app *App, opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Show or create the config file",
		Annotations: map[string]string{annotationOffline: "true"},
	}

	path := func() string {
		if opts.ConfigPath != "" {
			return opts.ConfigPath
		}
		return config.Path()
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.LoadFile(path())
			if err != nil {
				return err
			}
			fmt.Fprintln(app.Out, Muted("# "+path()))
			return toml.NewEncoder(app.Out).Encode(redact(*cfg))
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default values",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			p := path()
			if _, err := os.Stat(p); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", p)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if err := config.Save(p, config.Default()); err != nil {
				return err
			}
			fmt.Fprintln(app.Out, Success("Wrote "+p))
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(show, initCmd)
	return cmd
}

// redact hides credentials before printing.
func redact(cfg config.Config) config.Config {
	if cfg.GoogleServiceAccountJSON != "" {
		cfg.GoogleServiceAccountJSON = "<redacted>"
	}
	if u, err := url.Parse(cfg.AMQPURL); err == nil && u.User != nil {
		cfg.AMQPURL = u.Redacted()
	}
	return cfg
}
