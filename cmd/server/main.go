package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/dailyroutine/internal/server"
	"github.com/dmitrijs2005/dailyroutine/internal/server/config"
)

var (
	// set via ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "dailyroutine",
	Short:         "Daily Routine task and event server",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Apply migrations and serve the REST API",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		return app.Run(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations (postgres) or create indexes (mongo) and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		return app.Migrate(cmd.Context())
	},
}

func newApp(cmd *cobra.Command) (*server.App, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return server.NewApp(cmd.Context(), cfg)
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"dailyroutine version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	config.RegisterFlags(serveCmd.Flags())
	config.RegisterFlags(migrateCmd.Flags())

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}
