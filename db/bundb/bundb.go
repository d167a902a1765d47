package bundb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	scoredb "github.com/Black-And-White-Club/poptrivia/app/modules/score/infrastructure/repositories"
	"github.com/Black-And-White-Club/poptrivia/app/shared/observability/attr"
	"github.com/Black-And-White-Club/poptrivia/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// DBService owns the connection and the repositories built on it.
type DBService struct {
	ScoreDB *scoredb.ScoreDBImpl
	db      *bun.DB
}

// GetDB returns the underlying database connection pool.
func (dbService *DBService) GetDB() *bun.DB {
	return dbService.db
}

// Close releases the connection pool.
func (dbService *DBService) Close() error {
	return dbService.db.Close()
}

// NewBunDBService opens the configured database and checks it is reachable.
func NewBunDBService(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*DBService, error) {
	logger.DebugContext(ctx, "Opening database",
		attr.ExtractCorrelationID(ctx),
		attr.String("driver", cfg.Driver),
	)

	db, err := Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.RegisterModel((*scoredb.ScoreRecord)(nil))

	return &DBService{
		ScoreDB: &scoredb.ScoreDBImpl{DB: db},
		db:      db,
	}, nil
}

// Open returns a bun.DB for the configured driver.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*bun.DB, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		sqldb, err := pgConn(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return bun.NewDB(sqldb, pgdialect.New()), nil
	case config.DriverSQLite, "":
		sqldb, err := sqliteConn(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func pgConn(ctx context.Context, dsn string) (*sql.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))

	if err := sqldb.PingContext(ctx); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return sqldb, nil
}

func sqliteConn(ctx context.Context, dsn string) (*sql.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// a single writer avoids SQLITE_BUSY and keeps :memory: databases on one connection
	sqldb.SetMaxOpenConns(1)

	if err := sqldb.PingContext(ctx); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return sqldb, nil
}
