// Package db поднимает базу данных сервиса аккаунта: миграции и пул соединений.
package db

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"portfolio/internal/account/config"
	"portfolio/pkg/db/postgres"
	"portfolio/pkg/logger"
)

// Константы для сообщений логгера.
const (
	LogDBInitializing    = "initializing account database"
	LogDBInitialized     = "account database initialized successfully"
	LogMigrationStarting = "starting database migrations for account service"
)

// Константы для сообщений об ошибках.
const (
	ErrDBMigrations = "failed to apply account database migrations"
	ErrDBConnection = "failed to connect to account database"
	ErrGetPath      = "failed to get path"
)

const fileScheme = "file://"

// DB представляет соединение с базой данных сервиса аккаунта.
type DB struct {
	database *postgres.Database
}

// New применяет миграции и открывает пул соединений.
func New(ctx context.Context, cfg *config.PostgresConfig) (*DB, error) {
	log := logger.Log(ctx)

	log.Info(ctx, LogDBInitializing,
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
		zap.Int32("min_conn", cfg.MinConn),
		zap.Int32("max_conn", cfg.MaxConn))

	migrationsURL, err := MigrationsURL(cfg.MigrationsDir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrDBMigrations, err)
	}

	log.Info(ctx, LogMigrationStarting, zap.String("migrations_path", migrationsURL))
	if err := postgres.Migrate(ctx, migrationsURL, cfg.GetConnectionURL()); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrDBMigrations, err)
	}

	database, err := postgres.New(ctx, cfg.ToOptions())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrDBConnection, err)
	}

	log.Info(ctx, LogDBInitialized)

	return &DB{database: database}, nil
}

// MigrationsURL превращает каталог миграций в абсолютный file:// URL.
func MigrationsURL(dir string) (string, error) {
	dir = strings.TrimPrefix(dir, fileScheme)
	if !filepath.IsAbs(dir) {
		absPath, err := filepath.Abs(dir)
		if err != nil {
			return "", fmt.Errorf("%s: %w", ErrGetPath, err)
		}
		dir = absPath
	}
	return fileScheme + filepath.ToSlash(dir), nil
}

// Close закрывает соединение с базой данных.
func (db *DB) Close(ctx context.Context) error {
	return db.database.Close(ctx)
}

// Pool возвращает пул соединений с базой данных.
func (db *DB) Pool() *pgxpool.Pool {
	return db.database.Pool()
}

// Ping проверяет соединение с базой данных.
func (db *DB) Ping(ctx context.Context) error {
	return db.database.Ping(ctx)
}
