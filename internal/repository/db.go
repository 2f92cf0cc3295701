package repository

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"study-planner/internal/model"
)

// ErrNotFound is returned when a record does not exist for the caller.
var ErrNotFound = errors.New("record not found")

// defaultDSN is the database file used when none is configured.
const defaultDSN = "study_planner.db"

// NewDB opens the planner's SQLite database and migrates accounts, device
// logins and tasks.
func NewDB(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	if dir := sqliteDir(dsn); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database dir %q: %w", dir, err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: warnLogger()})
	if err != nil {
		return nil, fmt.Errorf("open database %q: %w", dsn, err)
	}
	if err := db.AutoMigrate(&model.Account{}, &model.DeviceLogin{}, &model.Task{}); err != nil {
		return nil, fmt.Errorf("migrate accounts and tasks: %w", err)
	}

	log.Printf("[info] database ready at %s", dsn)
	return db, nil
}

// warnLogger reports slow queries and SQL errors only. Missing rows are
// expected lookups and stay quiet.
func warnLogger() logger.Interface {
	return logger.New(
		log.New(os.Stdout, "[gorm] ", log.LstdFlags),
		logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)
}

// sqliteDir returns the directory a file DSN lives in, or "" for in-memory
// databases and files in the working directory.
func sqliteDir(dsn string) string {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return ""
	}
	path, _, _ := strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")
	dir := filepath.Dir(path)
	if dir == "." {
		return ""
	}
	return dir
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
