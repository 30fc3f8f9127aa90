// Package datastore provides the SQLite persistence backend for bookmarks.
package datastore

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/tphakala/weatherdash/internal/errors"
	"github.com/tphakala/weatherdash/internal/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// slowQueryThreshold marks queries logged as slow
const slowQueryThreshold = 200 * time.Millisecond

// SQLiteBackend stores bookmarks in a SQLite database. It satisfies
// bookmarks.Backend.
type SQLiteBackend struct {
	db   *gorm.DB
	path string
	log  logger.Logger
}

// OpenSQLite opens or creates the database at path and migrates the schema
func OpenSQLite(path string, log logger.Logger) (*SQLiteBackend, error) {
	if log == nil {
		log = logger.Global().Module("datastore")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, dbError(err, "mkdir", path)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.NewGormLoggerAdapter(log, slowQueryThreshold),
	})
	if err != nil {
		return nil, dbError(err, "open", path)
	}

	if err := db.AutoMigrate(&Bookmark{}); err != nil {
		closeDB(db)
		return nil, dbError(err, "migrate", path)
	}

	log.Debug("SQLite database initialized", logger.String("path", path))
	return &SQLiteBackend{db: db, path: path, log: log}, nil
}

// Load returns bookmarks ordered by position
func (s *SQLiteBackend) Load(ctx context.Context) ([]string, error) {
	var rows []Bookmark
	if err := s.db.WithContext(ctx).Order("position").Find(&rows).Error; err != nil {
		return nil, dbError(err, "load", s.path)
	}

	cities := make([]string, 0, len(rows))
	for i := range rows {
		cities = append(cities, rows[i].City)
	}
	return cities, nil
}

// Save replaces all rows with cities in a single transaction
func (s *SQLiteBackend) Save(ctx context.Context, cities []string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Bookmark{}).Error; err != nil {
			return err
		}
		if len(cities) == 0 {
			return nil
		}

		now := time.Now()
		rows := make([]Bookmark, len(cities))
		for i, city := range cities {
			rows[i] = Bookmark{Position: i, City: city, CreatedAt: now}
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		s.log.Warn("bookmark save rolled back", logger.Int("count", len(cities)), logger.Error(err))
		return dbError(err, "save", s.path)
	}
	return nil
}

// Close closes the underlying connection pool
func (s *SQLiteBackend) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return dbError(err, "close", s.path)
	}
	if err := sqlDB.Close(); err != nil {
		return dbError(err, "close", s.path)
	}
	return nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func dbError(err error, operation, path string) error {
	return errors.New(err).
		Component("datastore").
		Category(errors.CategoryDatabase).
		Context("operation", operation).
		Context("path", path).
		Build()
}
