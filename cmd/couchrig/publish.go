package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matgreaves/couchrig/deploy"
	"github.com/matgreaves/couchrig/hosting"
	"github.com/matgreaves/couchrig/spec"
	"github.com/matgreaves/couchrig/topology"
)

type publishOutput struct {
	Deployment        string                `json:"deployment"`
	ConnectionStrings map[string]string     `json:"connection_strings"`
	Containers        []deploy.ContainerSpec `json:"containers"`
}

func newPublishCommand(root *rootOptions) *cobra.Command {
	var (
		file     string
		manifest string
		host     string
		env      bool
		format   string
	)
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Assign host ports and print the containers and wiring of a topology",
		Long: `Publish a topology file: assign host ports to endpoints without a pinned
port, evaluate connection strings and print the container definitions.

With -m, publish a manifest written by "couchrig manifest --all" instead
of a topology file.

With --env, print the environment that hands the wiring to an application
instead, one KEY=value per line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := root.logger(cmd)
			app, err := loadApplication(file, manifest)
			if err != nil {
				return err
			}

			orch := deploy.NewOrchestrator(deploy.WithHost(host), deploy.WithLogger(log))
			d, err := orch.Publish(cmd.Context(), app)
			if err != nil {
				return err
			}
			defer d.Release()

			if env {
				environ, err := d.Environ()
				if err != nil {
					return err
				}
				for _, kv := range environ {
					fmt.Fprintln(cmd.OutOrStdout(), kv)
				}
				return nil
			}

			containers, err := d.Containers()
			if err != nil {
				return err
			}
			return writeValue(cmd.OutOrStdout(), format, publishOutput{
				Deployment:        d.ID,
				ConnectionStrings: d.Wiring().ConnectionStrings,
				Containers:        containers,
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "topology.yaml", "Path to topology file")
	cmd.Flags().StringVarP(&manifest, "manifest", "m", "", "Path to a JSON manifest to publish instead of a topology file")
	cmd.MarkFlagsMutuallyExclusive("file", "manifest")
	cmd.Flags().StringVar(&host, "host", deploy.DefaultHost, "Address published endpoints are reachable at")
	cmd.Flags().BoolVar(&env, "env", false, "Print the application environment instead of containers")
	cmd.Flags().StringVarP(&format, "output", "o", "json", "Output format (json or yaml)")
	return cmd
}

func loadApplication(topologyFile, manifestFile string) (*topology.Application, error) {
	if manifestFile == "" {
		return hosting.LoadTopology(topologyFile)
	}
	data, err := os.ReadFile(manifestFile)
	if err != nil {
		return nil, err
	}
	m, err := spec.DecodeManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", manifestFile, err)
	}
	return topology.FromManifest(m)
}
