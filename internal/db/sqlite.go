package db

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connection pragmas are applied per connection by the driver. Cascades on
// daily_symptoms and SET NULL on daily_logs.cycle_id depend on foreign_keys.
const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"

func OpenSQLite(dbPath string, logger *zap.Logger) (*gorm.DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?%s", dbPath, sqlitePragmas)
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.New(
			zap.NewStdLog(logger.Named("gorm")),
			gormlogger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	// Single local client; one connection keeps writes strictly serialized.
	sqlDB.SetMaxOpenConns(1)

	if err := applyEmbeddedMigrations(database, logger); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply embedded migrations: %w", err)
	}
	if err := seedSymptomCatalog(database); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("seed symptom catalog: %w", err)
	}

	logger.Debug("sqlite store ready", zap.String("path", dbPath))
	return database, nil
}

// Open returns repositories over a freshly opened store. Callers own the
// handle and must call Close.
func Open(dbPath string, logger *zap.Logger) (*Repositories, error) {
	database, err := OpenSQLite(dbPath, logger)
	if err != nil {
		return nil, err
	}
	return NewRepositories(database), nil
}
