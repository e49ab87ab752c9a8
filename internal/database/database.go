package database

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/lightbox/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

// Options tunes the catalog connection.
type Options struct {
	// LogLevel is the gorm logger level. Defaults to logger.Warn.
	LogLevel logger.LogLevel
}

// NewDatabase opens (or creates) the sqlite catalog at dbPath and migrates it.
func NewDatabase(dbPath string) (*Database, error) {
	return NewDatabaseWithOptions(dbPath, Options{LogLevel: logger.Warn})
}

func NewDatabaseWithOptions(dbPath string, opts Options) (*Database, error) {
	if opts.LogLevel == 0 {
		opts.LogLevel = logger.Warn
	}

	db, err := gorm.Open(sqlite.Open(dsn(dbPath)), &gorm.Config{
		Logger: logger.Default.LogMode(opts.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// sqlite allows a single writer; one pooled connection keeps concurrent
	// import workers from tripping over SQLITE_BUSY.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info().Str("path", dbPath).Msg("Catalog database initialized")

	return &Database{DB: db}, nil
}

// Migrate creates or updates the catalog tables.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&entities.Photo{},
		&entities.Tag{},
		&entities.SyncProgress{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetStats returns the number of cataloged photos and tags.
func (d *Database) GetStats() (totalPhotos int64, totalTags int64, err error) {
	err = d.DB.Model(&entities.Photo{}).Count(&totalPhotos).Error
	if err != nil {
		return
	}
	err = d.DB.Model(&entities.Tag{}).Count(&totalTags).Error
	return
}

func dsn(dbPath string) string {
	if strings.Contains(dbPath, "?") {
		return dbPath
	}
	return dbPath + "?_journal=WAL&_timeout=5000&_busy_timeout=5000&_foreign_keys=on"
}
