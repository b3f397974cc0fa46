package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	dbpkg "github.com/neillmakeup/studio-api/internal/db"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the initial site content (idempotent)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		db, err := dbpkg.Open(cfg.DB)
		if err != nil {
			return err
		}
		defer func() { _ = dbpkg.Close(db) }()

		report, err := dbpkg.Seed(cmd.Context(), db, dbpkg.SeedOptions{
			AdminName:     cfg.Seed.AdminName,
			AdminEmail:    cfg.Seed.AdminEmail,
			AdminPassword: cfg.Seed.AdminPassword,
		})
		if err != nil {
			return err
		}
		log.Info(context.Background(), fmt.Sprintf(
			"seed done: site=%t team=%t admin=%t services=%d formations=%d faq=%d",
			report.SiteIdentity, report.Team, report.Admin, report.Services, report.Formations, report.FAQ,
		))
		return nil
	},
}

var (
	adminEmail    string
	adminName     string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(adminPassword) < 8 {
			return fmt.Errorf("--password must be at least 8 characters")
		}
		cfg, _, err := bootstrap()
		if err != nil {
			return err
		}
		db, err := dbpkg.Open(cfg.DB)
		if err != nil {
			return err
		}
		defer func() { _ = dbpkg.Close(db) }()

		created, err := dbpkg.EnsureAdmin(cmd.Context(), db, adminName, adminEmail, adminPassword)
		if err != nil {
			return err
		}
		if !created {
			fmt.Fprintf(cmd.OutOrStdout(), "%s already exists\n", adminEmail)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "admin %s created\n", adminEmail)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Admin e-mail (required)")
	createAdminCmd.Flags().StringVar(&adminName, "name", "Admin", "Display name")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Password (required)")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
}
