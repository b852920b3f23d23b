// Package gormstore is the SQLite-backed catalog store for self-hosted
// deployments. Batch updates are wrapped in a database transaction so the
// featured flag can never be observed half-applied.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tokhel/ink/internal/catalog"
	"github.com/tokhel/ink/internal/entities"
)

// columnFor maps wire field names to SQLite columns.
var columnFor = map[string]string{
	catalog.FieldTitle:       "title",
	catalog.FieldQuote:       "quote",
	catalog.FieldDescription: "description",
	catalog.FieldIsFeatured:  "is_featured",
}

type Store struct {
	db *gorm.DB
}

var _ catalog.Store = (*Store)(nil)

// Open connects to the SQLite database at path and migrates the schema.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&entities.Novel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Printf("Catalog database initialized at %s", path)
	return &Store{db: db}, nil
}

// New wraps an existing GORM connection. The caller owns migration.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) List(ctx context.Context) ([]entities.Novel, error) {
	var novels []entities.Novel
	err := s.db.WithContext(ctx).
		Order("is_featured DESC, release_date DESC").
		Find(&novels).Error
	return novels, err
}

func (s *Store) Get(ctx context.Context, id string) (*entities.Novel, error) {
	var n entities.Novel
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, catalog.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *Store) Insert(ctx context.Context, n *entities.Novel) (string, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return "", err
	}
	return n.ID, nil
}

func (s *Store) Update(ctx context.Context, id string, fields catalog.Fields) error {
	return updateOne(s.db.WithContext(ctx), id, fields)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Novel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (s *Store) ApplyBatch(ctx context.Context, updates []catalog.BatchUpdate) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			if err := updateOne(tx, u.ID, u.Fields); err != nil {
				return err
			}
		}
		return nil
	})
}

func updateOne(db *gorm.DB, id string, fields catalog.Fields) error {
	values := make(map[string]any, len(fields))
	for k, v := range fields {
		col, ok := columnFor[k]
		if !ok {
			return fmt.Errorf("unknown field %q", k)
		}
		values[col] = v
	}

	res := db.Model(&entities.Novel{}).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return catalog.ErrNotFound
	}
	return nil
}
