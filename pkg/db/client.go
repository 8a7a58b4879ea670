package db

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"

	"github.com/luxurydrive/backoffice/pkg/config"
	"github.com/luxurydrive/backoffice/pkg/logger"
	"go.uber.org/multierr"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Client wraps the shared GORM connections. Writes always go through the
// primary; reads go through the replica when one is configured, mirroring the
// managed-Postgres deployment with a read replica.
type Client struct {
	write *gorm.DB
	read  *gorm.DB
}

// Pinger exposes the health check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// New boots the GORM client(s) using the provided configuration. With
// UseSQLite set the store is a single embedded database file and the replica
// DSN is ignored.
func New(ctx context.Context, cfg config.DBConfig, flags config.FeatureFlagsConfig, logg *logger.Logger) (*Client, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.New(
			log.New(io.Discard, "", log.LstdFlags),
			gormlogger.Config{LogLevel: gormlogger.Silent},
		),
		SkipDefaultTransaction: true,
	}

	if flags.UseSQLite {
		if flags.SQLitePath == "" {
			return nil, fmt.Errorf("sqlite path is required")
		}
		conn, err := gorm.Open(sqlite.Open(flags.SQLitePath+"?_foreign_keys=on"), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite database: %w", err)
		}
		if logg != nil {
			logg.Info(ctx, "sqlite database opened")
		}
		return &Client{write: conn, read: conn}, nil
	}

	if cfg.DSN == "" {
		return nil, fmt.Errorf("database DSN is required")
	}

	write, err := openPostgres(cfg.DSN, cfg, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("opening write connection: %w", err)
	}

	read := write
	if cfg.ReadDSN != "" {
		read, err = openPostgres(cfg.ReadDSN, cfg, gormCfg)
		if err != nil {
			return nil, fmt.Errorf("opening read replica connection: %w", err)
		}
	}

	if logg != nil {
		fields := map[string]any{"read_replica": cfg.ReadDSN != ""}
		logg.Info(logg.WithFields(ctx, fields), "database connections established")
	}

	return &Client{write: write, read: read}, nil
}

func openPostgres(dsn string, cfg config.DBConfig, gormCfg *gorm.Config) (*gorm.DB, error) {
	dialector := postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	})

	conn, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	applyPoolSettings(sqlDB, cfg)

	return conn, nil
}

func applyPoolSettings(sqlDB *sql.DB, cfg config.DBConfig) {
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
}

// NewFromConn wraps an existing GORM connection; used by tests.
func NewFromConn(conn *gorm.DB) *Client {
	return &Client{write: conn, read: conn}
}

// DB returns the primary (write) connection.
func (c *Client) DB() *gorm.DB {
	return c.write
}

// Read returns the replica connection, falling back to the primary.
func (c *Client) Read() *gorm.DB {
	if c.read != nil {
		return c.read
	}
	return c.write
}

// Ping verifies both datasources are reachable.
func (c *Client) Ping(ctx context.Context) error {
	if err := pingConn(ctx, c.write); err != nil {
		return err
	}
	if c.read != c.write {
		return pingConn(ctx, c.read)
	}
	return nil
}

func pingConn(ctx context.Context, conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close shuts down the pooled connections.
func (c *Client) Close() error {
	var errs error
	errs = multierr.Append(errs, closeConn(c.write))
	if c.read != c.write {
		errs = multierr.Append(errs, closeConn(c.read))
	}
	return errs
}

func closeConn(conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// WithTx executes fn inside a transaction on the primary, rolling back on
// error/panic.
func (c *Client) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx := c.write.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
