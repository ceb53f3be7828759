package database

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/summitcrest/realty/internal/config"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Dialect identifies the SQL flavour behind a Connection
type Dialect string

const (
	DialectMySQL  Dialect = "mysql"
	DialectSQLite Dialect = "sqlite"
)

// Connection wraps the shared *sql.DB.
// sql.DB is already safe for concurrent use and pools its own connections.
type Connection struct {
	db      *sql.DB
	dialect Dialect
}

var (
	instance *Connection
	once     sync.Once
	initErr  error
	tlsOnce  sync.Once
)

// GetInstance returns the process-wide connection, opening it on first use
func GetInstance(cfg config.DatabaseConfig) (*Connection, error) {
	once.Do(func() {
		instance, initErr = Open(cfg)
	})
	return instance, initErr
}

// Open creates a new connection for the configured driver and pings it
func Open(cfg config.DatabaseConfig) (*Connection, error) {
	switch cfg.Driver {
	case "sqlite":
		return openSQLite(cfg.SQLitePath)
	case "mysql", "":
		return openMySQL(cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// NewFromDB wraps an existing handle, used by tests with sqlmock
func NewFromDB(db *sql.DB, dialect Dialect) *Connection {
	return &Connection{db: db, dialect: dialect}
}

func openMySQL(cfg config.DatabaseConfig) (*Connection, error) {
	dsn, err := mysqlDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Idle must match open to avoid churning connections under load.
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(50)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(3 * time.Minute)

	if err := pingWithTimeout(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Connection{db: db, dialect: DialectMySQL}, nil
}

// mysqlDSN builds the driver DSN from either DB_DSN or the TIDB_* settings.
// Updates report matched rows, so rewriting an unchanged row within the
// same second is not mistaken for a missing one.
func mysqlDSN(cfg config.DatabaseConfig) (string, error) {
	dsn := cfg.DSN
	if dsn == "" {
		tlsParam := ""
		if cfg.Host != "" && cfg.Host != "127.0.0.1" && cfg.Host != "localhost" {
			// Remote TiDB Cloud style hosts require TLS with SNI.
			tlsOnce.Do(func() {
				if err := mysql.RegisterTLSConfig("tidb", &tls.Config{
					MinVersion: tls.VersionTLS12,
					ServerName: cfg.Host,
				}); err != nil {
					zap.L().Warn("failed to register TLS config", zap.Error(err))
				}
			})
			tlsParam = "&tls=tidb"
		}
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC%s",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name, tlsParam)
	}

	mc, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid database DSN: %w", err)
	}
	mc.ClientFoundRows = true
	return mc.FormatDSN(), nil
}

func openSQLite(path string) (*Connection, error) {
	if path == "" {
		path = "data/realty.db"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if err := pingWithTimeout(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Connection{db: db, dialect: DialectSQLite}, nil
}

func pingWithTimeout(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// DB returns the underlying *sql.DB
func (c *Connection) DB() *sql.DB {
	return c.db
}

// Dialect reports which SQL flavour the connection speaks
func (c *Connection) Dialect() Dialect {
	return c.dialect
}

// Close closes the database connection
func (c *Connection) Close() error {
	return c.db.Close()
}
