// Command couchrig declares Couchbase topologies and inspects what they
// publish.
//
//	couchrig manifest -f topology.yaml
//	couchrig publish -f topology.yaml --env
//	couchrig settings -c appsettings.yaml --connection db
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/matgreaves/couchrig/connect"
	"github.com/matgreaves/couchrig/internal/observability"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "couchrig: %v\n", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	logLevel  string
	logFormat string
}

func (o *rootOptions) logger(cmd *cobra.Command) logr.Logger {
	return observability.NewLogger(connect.LogWriter(cmd.Context()), observability.LoggerConfig{
		Level:    o.logLevel,
		Encoding: o.logFormat,
	})
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "couchrig",
		Short:         "Declare Couchbase topologies and wire their clients",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "console", "Log encoding (json or console)")

	cmd.AddCommand(newManifestCommand())
	cmd.AddCommand(newPublishCommand(opts))
	cmd.AddCommand(newSettingsCommand(opts))
	cmd.AddCommand(newVersionCommand())
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "couchrig %s\n", version)
			fmt.Fprintf(out, "  commit:  %s\n", commit)
			fmt.Fprintf(out, "  built:   %s\n", buildTime)
		},
	}
}
