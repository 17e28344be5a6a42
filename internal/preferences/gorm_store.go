package preferences

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tphakala/skydash/internal/conf"
	"github.com/tphakala/skydash/internal/errors"
	"github.com/tphakala/skydash/internal/logger"
	"github.com/tphakala/skydash/internal/weather"
)

const slowQueryThreshold = 200 * time.Millisecond

// Setting is one stored key/value pair. The column is "name" since KEY is
// reserved in MySQL.
type Setting struct {
	Key       string `gorm:"column:name;primaryKey;size:64"`
	Value     string `gorm:"size:255;not null"`
	UpdatedAt time.Time
}

// GormStore keeps preferences in a SQL database.
type GormStore struct {
	db       *gorm.DB
	defaults Preferences
	log      logger.Logger
}

// Open connects to the configured database and migrates the schema.
func Open(cfg conf.PreferencesSettings, defaults Preferences, log logger.Logger) (*GormStore, error) {
	if log == nil {
		log = logger.Global().Module("preferences")
	}
	gcfg := &gorm.Config{Logger: logger.NewGormLoggerAdapter(log, slowQueryThreshold)}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite", "":
		if dir := filepath.Dir(cfg.Path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, errors.New(fmt.Errorf("failed to create database directory: %w", err)).
					Component("preferences").
					Category(errors.CategoryFileIO).
					Context("path", dir).
					Build()
			}
		}
		dialector = sqlite.Open(cfg.Path)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	default:
		return nil, errors.Newf("unsupported preferences driver %q", cfg.Driver).
			Component("preferences").
			Category(errors.CategoryConfiguration).
			Build()
	}

	db, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, errors.New(fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)).
			Component("preferences").
			Category(errors.CategoryDatabase).
			Build()
	}

	store, err := NewGormStore(db, defaults, log)
	if err != nil {
		if sqlDB, derr := db.DB(); derr == nil {
			_ = sqlDB.Close()
		}
		return nil, err
	}
	log.Info("preference store opened", logger.String("driver", db.Dialector.Name()))
	return store, nil
}

// NewGormStore wraps an open database and migrates the settings table.
func NewGormStore(db *gorm.DB, defaults Preferences, log logger.Logger) (*GormStore, error) {
	if log == nil {
		log = logger.Discard()
	}
	if err := db.AutoMigrate(&Setting{}); err != nil {
		return nil, errors.New(fmt.Errorf("failed to migrate settings table: %w", err)).
			Component("preferences").
			Category(errors.CategoryDatabase).
			Build()
	}
	return &GormStore{db: db, defaults: defaults, log: log}, nil
}

// Load implements Store.
func (s *GormStore) Load(ctx context.Context) (Preferences, error) {
	var rows []Setting
	err := s.db.WithContext(ctx).
		Where("name IN ?", []string{KeyUnits, KeyTheme}).
		Find(&rows).Error
	if err != nil {
		return s.defaults, errors.New(fmt.Errorf("failed to load preferences: %w", err)).
			Component("preferences").
			Category(errors.CategoryDatabase).
			Build()
	}

	raw := make(map[string]string, len(rows))
	for _, r := range rows {
		raw[r.Key] = r.Value
	}
	return decode(raw, s.defaults), nil
}

// SaveUnits implements Store.
func (s *GormStore) SaveUnits(ctx context.Context, units weather.Units) error {
	return s.put(ctx, KeyUnits, string(units))
}

// SaveTheme implements Store.
func (s *GormStore) SaveTheme(ctx context.Context, theme Theme) error {
	return s.put(ctx, KeyTheme, string(theme))
}

func (s *GormStore) put(ctx context.Context, key, value string) error {
	row := Setting{Key: key, Value: value, UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return errors.New(fmt.Errorf("failed to save preference: %w", err)).
			Component("preferences").
			Category(errors.CategoryDatabase).
			Context("key", key).
			Build()
	}
	s.log.Debug("preference saved", logger.String("key", key), logger.String("value", value))
	return nil
}

// Close closes the database connection.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
