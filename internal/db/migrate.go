package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/lalith-99/taskdeck/internal/db/migrations"
)

// gooseUp is swapped in tests.
var gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
	return goose.UpContext(ctx, db, dir)
}

// Migrate applies the embedded schema migrations through a database/sql
// handle borrowed from the pool.
func (db *DB) Migrate(ctx context.Context) error {
	sqlDB := stdlib.OpenDBFromPool(db.pool)
	defer sqlDB.Close()

	goose.SetLogger(MigrateLogger{L: db.logger.Sugar()})

	if err := runMigrations(ctx, sqlDB); err != nil {
		return err
	}
	db.logger.Info("migrations applied")
	return nil
}

func runMigrations(ctx context.Context, sqlDB *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := gooseUp(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// MigrateLogger adapts zap to goose's logger interface.
type MigrateLogger struct {
	L *zap.SugaredLogger
}

func (l MigrateLogger) Printf(format string, v ...any) { l.L.Infof(format, v...) }
func (l MigrateLogger) Fatalf(format string, v ...any) { l.L.Fatalf(format, v...) }
