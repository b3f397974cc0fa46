package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/neillmakeup/studio-api/internal/config"
	"github.com/neillmakeup/studio-api/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "studio",
	Short: "Studio API - makeup studio site and back-office",
	Long: `Studio API serves the public site data, the booking flow and the admin
back-office (catalogue, calendar, content, users and invoices).

Without a subcommand the HTTP server is started.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func main() {
	rootCmd.AddCommand(serveCmd, seedCmd, createAdminCmd)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads the configuration and the logger shared by every
// command.
func bootstrap() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(logger.Options{
		ServiceName: "studio-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})
	return cfg, log, nil
}
