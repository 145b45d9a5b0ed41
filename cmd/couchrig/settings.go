package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/matgreaves/couchrig/config"
	"github.com/matgreaves/couchrig/connect"
	"github.com/matgreaves/couchrig/couchbase"
)

func newSettingsCommand(root *rootOptions) *cobra.Command {
	var (
		configFile string
		connection string
		key        string
		format     string
	)
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Print the Couchbase client settings an application would bind",
		Long: `Bind Couchbase client settings the way a registered client does: the
section Couchrig:Couchbase (or Couchrig:Couchbase:<key> with --key), then
the connection string ConnectionStrings:<connection>. Values come from the
config file, overridden by environment variables (Couchrig__Couchbase__...).

Fails when no connection string is found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := root.logger(cmd)
			// Wiring is absent outside a deployment.
			wiring, err := connect.ParseWiring()
			if err != nil && !errors.Is(err, connect.ErrNoWiring) {
				return err
			}
			cfg, err := config.New(
				config.YAMLFile(configFile, true),
				config.Wiring(wiring),
				config.Env(""),
			)
			if err != nil {
				return err
			}

			section := couchbase.DefaultConfigSectionName
			if key != "" {
				section = config.Join(section, key)
				if connection == "" {
					connection = key
				}
			}
			s, err := couchbase.BindSettings(cfg, section, connection, nil)
			if err != nil {
				return err
			}
			if err := s.Validate(connection, section); err != nil {
				return err
			}
			log.V(1).Info("bound settings", "section", section, "connection", connection)
			return writeValue(cmd.OutOrStdout(), format, s)
		},
	}
	cmd.Flags().StringVarP(&configFile, "config", "c", "appsettings.yaml", "Path to configuration file")
	cmd.Flags().StringVar(&connection, "connection", "", "Connection string name (defaults to --key)")
	cmd.Flags().StringVar(&key, "key", "", "Client key for keyed settings")
	cmd.Flags().StringVarP(&format, "output", "o", "yaml", "Output format (json or yaml)")
	return cmd
}
