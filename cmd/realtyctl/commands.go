package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/summitcrest/realty/internal/application/services"
	"github.com/summitcrest/realty/internal/bootstrap"
	"github.com/summitcrest/realty/internal/domain/models"
	"github.com/summitcrest/realty/internal/infrastructure/cms"
	"github.com/summitcrest/realty/internal/infrastructure/database"
	"github.com/summitcrest/realty/internal/infrastructure/persistence"
	"github.com/summitcrest/realty/pkg/auth"
	"go.uber.org/zap"
)

const commandTimeout = 2 * time.Minute

// migrateCmd creates the transactional schema
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create any missing database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
		defer cancel()
		if err := bootstrap.InitializeSchema(ctx, db); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Schema ready (%s)\n", db.Dialect())
		return nil
	},
}

// hashPasswordCmd prints a bcrypt hash for ADMIN_PASSWORD_HASH
var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
	Long: `Hashes the given password, or the first line of stdin when no argument
is given (keeps the password out of shell history).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var password string
		if len(args) == 1 {
			password = args[0]
		} else {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("failed to read password: %w", err)
			}
			password = strings.TrimRight(line, "\r\n")
		}
		if password == "" {
			return fmt.Errorf("password must not be empty")
		}

		hash, err := auth.HashPassword(password)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

// sitemapCmd prints the sitemap built from live CMS content
var sitemapCmd = &cobra.Command{
	Use:   "sitemap",
	Short: "Print sitemap.xml built from the CMS",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
		defer cancel()

		source := cms.NewContentRepository(cms.NewClient(cfg.CMS))
		body, err := services.NewSitemapService(source, cfg.SiteURL).Build(ctx)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(body)
		return err
	},
}

var (
	exportFormat string
	exportStatus string
	exportOutput string
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Lead maintenance",
}

// leadsExportCmd dumps leads for CRM import
var leadsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export leads as CSV, YAML or JSON",
	Example: `  realtyctl leads export --format csv --status new > leads.csv
  realtyctl leads export --format yaml -o leads.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		out := cmd.OutOrStdout()
		if exportOutput != "" && exportOutput != "-" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
		defer cancel()

		leads := services.NewLeadService(persistence.NewLeadRepository(db.DB()), services.NewEventBus())
		count, err := leads.Export(ctx, models.LeadFilter{Status: models.LeadStatus(exportStatus)}, exportFormat, out)
		if err != nil {
			return err
		}
		log.Info("📤 Leads exported", zap.Int("count", count), zap.String("format", exportFormat))
		return nil
	},
}

func init() {
	leadsExportCmd.Flags().StringVarP(&exportFormat, "format", "f", services.ExportCSV, "csv, yaml or json")
	leadsExportCmd.Flags().StringVar(&exportStatus, "status", "", "only leads with this status")
	leadsExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file instead of stdout")
	leadsCmd.AddCommand(leadsExportCmd)
}
