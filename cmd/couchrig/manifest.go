package main

import (
	"github.com/spf13/cobra"

	"github.com/matgreaves/couchrig/hosting"
)

func newManifestCommand() *cobra.Command {
	var (
		file   string
		all    bool
		format string
	)
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Print the manifest of a topology file",
		Long: `Print the manifest of a topology file. Resources excluded from the
manifest, such as Sync Gateway sidecars, are left out unless --all is set.
Host ports that are assigned at deploy time are printed as null.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := hosting.LoadTopology(file)
			if err != nil {
				return err
			}
			m := app.Manifest()
			if all {
				m = app.Declarations()
			}
			return writeValue(cmd.OutOrStdout(), format, m)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "topology.yaml", "Path to topology file")
	cmd.Flags().BoolVar(&all, "all", false, "Include resources excluded from the manifest")
	cmd.Flags().StringVarP(&format, "output", "o", "json", "Output format (json or yaml)")
	return cmd
}
