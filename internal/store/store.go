// Package store persists scans, courses, rounds and training records with
// gorm on postgres or sqlite.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/config"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/logger"
)

const (
	PgErrUniqueViolation     = "23505"
	PgErrForeignKeyViolation = "23503"
	PgErrCheckViolation      = "23514"
	PgErrNotNullViolation    = "23502"

	CodeNotFound      = "NOT_FOUND"
	CodeInvalidState  = "INVALID_STATE"
	CodeDatabaseError = "DATABASE_ERROR"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicate    = errors.New("duplicate record")
	ErrInvalidState = errors.New("invalid state transition")
)

const connectAttempts = 10

// RepositoryError is an error from the database layer. Unwrap yields one of
// the package sentinels when the failure maps to one.
type RepositoryError struct {
	Code    string
	Message string
	Detail  string
	Err     error
}

func (e *RepositoryError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Detail)
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// dbError converts a gorm/driver error into a RepositoryError.
func dbError(err error) error {
	if err == nil {
		return nil
	}
	var repoErr *RepositoryError
	if errors.As(err, &repoErr) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &RepositoryError{Code: CodeNotFound, Message: "Record not found", Err: ErrNotFound}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		re := &RepositoryError{Code: pgErr.Code, Message: pgErr.Message, Detail: pgErr.Detail}
		if pgErr.Code == PgErrUniqueViolation {
			re.Err = ErrDuplicate
		}
		return re
	}
	if isUniqueViolation(err) {
		return &RepositoryError{Code: PgErrUniqueViolation, Message: "Unique constraint violated", Detail: err.Error(), Err: ErrDuplicate}
	}
	return &RepositoryError{Code: CodeDatabaseError, Message: "Database error occurred", Detail: err.Error()}
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == PgErrUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Open connects to the configured database. Postgres connections are
// retried while the server comes up.
func Open(cfg config.DatabaseConfig) (*Repository, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	}
	if logger.DebugEnabled() {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Info)
	}

	switch cfg.Driver {
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(sqliteDSN(cfg.DSN)), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite %s: %w", cfg.DSN, err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// single writer; transactions serialise on the one connection
		sqlDB.SetMaxOpenConns(1)
		return NewRepository(db), nil
	case "postgres":
		var lastErr error
		for i := range connectAttempts {
			logger.DebugLog("[store] connection attempt %d", i+1)
			db, err := gorm.Open(postgres.Open(cfg.DSN), gormCfg)
			if err == nil {
				logger.Infof("[store] connected to postgres")
				return NewRepository(db), nil
			}
			lastErr = err
			logger.Errorf("[store] connection attempt %d failed: %v", i+1, err)
			time.Sleep(2 * time.Second)
		}
		return nil, fmt.Errorf("connecting to postgres: %w", lastErr)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
}

// Migrate creates or updates every table.
func (r *Repository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(allModels...); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	logger.DebugLog("[store] migration completed")
	return nil
}

func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DB exposes the underlying handle for callers composing their own queries.
func (r *Repository) DB() *gorm.DB {
	return r.db
}
