package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/summitcrest/realty/internal/infrastructure/database"
	"github.com/summitcrest/realty/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

type tableDef struct {
	name    string
	columns []string
	// {index name, column list}
	indexes [][2]string
	unique  [][2]string
}

var tables = []tableDef{
	{
		name: persistence.TableLeads,
		columns: []string{
			"id VARCHAR(36) NOT NULL PRIMARY KEY",
			"name VARCHAR(255) NOT NULL",
			"email VARCHAR(255) NOT NULL",
			"phone VARCHAR(64) NOT NULL DEFAULT ''",
			"interest VARCHAR(32) NOT NULL",
			"message TEXT",
			"source_page VARCHAR(512) NOT NULL DEFAULT ''",
			"property_id VARCHAR(128) NOT NULL DEFAULT ''",
			"status VARCHAR(32) NOT NULL",
			"created_at DATETIME NOT NULL",
			"updated_at DATETIME NOT NULL",
		},
		indexes: [][2]string{
			{"idx_leads_status", "status, created_at"},
			{"idx_leads_email", "email"},
		},
	},
	{
		name: persistence.TableInvestors,
		columns: []string{
			"id VARCHAR(36) NOT NULL PRIMARY KEY",
			"clerk_user_id VARCHAR(128) NOT NULL",
			"name VARCHAR(255) NOT NULL",
			"email VARCHAR(255) NOT NULL",
			"phone VARCHAR(64) NOT NULL DEFAULT ''",
			"entity VARCHAR(255) NOT NULL DEFAULT ''",
			"accreditation_status VARCHAR(32) NOT NULL",
			"created_at DATETIME NOT NULL",
			"updated_at DATETIME NOT NULL",
		},
		unique: [][2]string{
			{"uq_investors_clerk_user", "clerk_user_id"},
		},
	},
	{
		name: persistence.TableLOIs,
		columns: []string{
			"id VARCHAR(36) NOT NULL PRIMARY KEY",
			"investor_id VARCHAR(36) NOT NULL",
			"prospectus_id VARCHAR(128) NOT NULL",
			"prospectus_title VARCHAR(255) NOT NULL DEFAULT ''",
			"amount BIGINT NOT NULL",
			"status VARCHAR(32) NOT NULL",
			"signature_name VARCHAR(255) NOT NULL",
			"signed_at DATETIME NOT NULL",
			"signer_ip VARCHAR(64) NOT NULL DEFAULT ''",
			"notes TEXT",
			"reviewed_by VARCHAR(255) NOT NULL DEFAULT ''",
			"reviewed_at DATETIME NULL",
			"countersigned_by VARCHAR(255) NOT NULL DEFAULT ''",
			"countersigned_at DATETIME NULL",
			"created_at DATETIME NOT NULL",
			"updated_at DATETIME NOT NULL",
		},
		indexes: [][2]string{
			{"idx_loi_investor", "investor_id, prospectus_id"},
			{"idx_loi_status", "status, created_at"},
		},
	},
	{
		name: persistence.TableDocuments,
		columns: []string{
			"id VARCHAR(36) NOT NULL PRIMARY KEY",
			"investor_id VARCHAR(36) NOT NULL",
			"kind VARCHAR(32) NOT NULL",
			"file_name VARCHAR(255) NOT NULL",
			"mime_type VARCHAR(128) NOT NULL",
			"size_bytes BIGINT NOT NULL",
			"asset_id VARCHAR(255) NOT NULL",
			"url VARCHAR(1024) NOT NULL",
			"created_at DATETIME NOT NULL",
		},
		indexes: [][2]string{
			{"idx_documents_investor", "investor_id"},
		},
	},
}

// Statements returns the idempotent DDL for the given dialect.
// MySQL declares indexes inline; SQLite needs separate CREATE INDEX statements.
func Statements(dialect database.Dialect) []string {
	var stmts []string
	for _, t := range tables {
		cols := append([]string(nil), t.columns...)
		if dialect == database.DialectMySQL {
			for _, idx := range t.indexes {
				cols = append(cols, fmt.Sprintf("INDEX %s (%s)", idx[0], idx[1]))
			}
			for _, idx := range t.unique {
				cols = append(cols, fmt.Sprintf("UNIQUE KEY %s (%s)", idx[0], idx[1]))
			}
		}

		stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", t.name, strings.Join(cols, ",\n\t"))
		if dialect == database.DialectMySQL {
			stmt += " ENGINE=InnoDB DEFAULT CHARSET=utf8mb4"
		}
		stmts = append(stmts, stmt)

		if dialect == database.DialectSQLite {
			for _, idx := range t.indexes {
				stmts = append(stmts, fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)", idx[0], t.name, idx[1]))
			}
			for _, idx := range t.unique {
				stmts = append(stmts, fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (%s)", idx[0], t.name, idx[1]))
			}
		}
	}
	return stmts
}

// InitializeSchema creates all tables that do not exist yet
func InitializeSchema(ctx context.Context, conn *database.Connection) error {
	for _, stmt := range Statements(conn.Dialect()) {
		if _, err := conn.DB().ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	zap.L().Info("🗄️  Schema ready", zap.String("dialect", string(conn.Dialect())), zap.Int("tables", len(tables)))
	return nil
}
