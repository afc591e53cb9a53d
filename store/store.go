// Package store persists application records. Writes are idempotent
// upserts keyed by message id, so re-scanning an overlapping date range
// never creates duplicates.
package store

import (
	"context"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/masa23/jobmaild/model"
)

type Store struct {
	db *gorm.DB
}

func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := model.Migrate(db); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Upsert merges the record into the table. A later scan of the same
// message overwrites status and updated_at, last writer wins.
func (s *Store) Upsert(ctx context.Context, rec *model.ApplicationRecord) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "message_id"}},
		UpdateAll: true,
	}).Create(rec).Error
}

func (s *Store) List(ctx context.Context) ([]model.ApplicationRecord, error) {
	var records []model.ApplicationRecord
	if err := s.db.WithContext(ctx).Order("sent_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store) Get(ctx context.Context, messageID string) (*model.ApplicationRecord, error) {
	var rec model.ApplicationRecord
	if err := s.db.WithContext(ctx).First(&rec, "message_id = ?", messageID).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}
