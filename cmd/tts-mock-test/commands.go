package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/kunal96k/tts-mock-test/internal/service"
	"github.com/kunal96k/tts-mock-test/pkg/auth"
	"github.com/kunal96k/tts-mock-test/pkg/database"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate [up|down|force VERSION|version]",
		Short: "Apply, roll back or repair SQL migrations",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runMigrate,
	}
	cmd.Flags().String("source", database.DefaultMigrationsSource, "Migrations source URL")
	return cmd
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	source, _ := cmd.Flags().GetString("source")

	m, sqlDB, err := database.OpenMigrator(cfg.Database.PostgresConnectionString(), source)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	switch args[0] {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "force":
		if len(args) != 2 {
			return fmt.Errorf("force requires a version")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[1], err)
		}
		return m.Force(version)
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", version, dirty)
		return nil
	default:
		return fmt.Errorf("unknown migrate action %q", args[0])
	}
}

func exportAttemptsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-attempts",
		Short: "Export attempts of a test to CSV or XLSX",
		RunE:  runExportAttempts,
	}
	f := cmd.Flags()
	f.Uint("test-id", 0, "Test blueprint ID (required)")
	f.String("format", service.ExportFormatCSV, "Output format (csv, xlsx)")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	_ = cmd.MarkFlagRequired("test-id")
	return cmd
}

func runExportAttempts(cmd *cobra.Command, _ []string) error {
	testID, _ := cmd.Flags().GetUint("test-id")
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	if format != service.ExportFormatCSV && format != service.ExportFormatXLSX {
		return fmt.Errorf("format must be csv or xlsx, got %q", format)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	blueprint, attempts, err := a.tests.ListTestAttempts(testID)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if output != "-" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if format == service.ExportFormatXLSX {
		err = service.WriteAttemptsXLSX(w, blueprint, attempts)
	} else {
		err = service.WriteAttemptsCSV(w, attempts)
	}
	if err != nil {
		return err
	}

	log.Printf("Exported %d attempts of %q", len(attempts), blueprint.Name)
	return nil
}

func recountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recount",
		Short: "Recompute question counters of all banks and subjects",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.banks.RecountAll()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "recounted %d banks, %d subjects\n", report.Banks, report.Subjects)
			return nil
		},
	}
}

func issueTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue-token",
		Short: "Issue a signed access token for local development",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			userID, _ := cmd.Flags().GetUint("user-id")
			username, _ := cmd.Flags().GetString("username")
			role, _ := cmd.Flags().GetString("role")
			if role != auth.RoleStudent && role != auth.RoleAdmin {
				return fmt.Errorf("role must be %s or %s", auth.RoleStudent, auth.RoleAdmin)
			}

			verifier, err := auth.NewTokenVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer,
				time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
			if err != nil {
				return err
			}
			token, err := verifier.GenerateToken(userID, username, role)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	f := cmd.Flags()
	f.Uint("user-id", 0, "User ID (required)")
	f.String("username", "", "Username")
	f.String("role", auth.RoleStudent, "Role (STUDENT, ADMIN)")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}
