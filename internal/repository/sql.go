package repository

import (
	"context"
	"errors"

	"yoladmin/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQLStorage persists console session values in the console_sessions table.
type SQLStorage struct {
	db        *gorm.DB
	namespace string
}

func NewSQLStorage(db *gorm.DB, namespace string) *SQLStorage {
	if namespace == "" {
		namespace = "default"
	}
	return &SQLStorage{db: db, namespace: namespace}
}

// Migrate creates or updates the console_sessions table.
func (s *SQLStorage) Migrate() error {
	return s.db.AutoMigrate(&model.SessionEntry{})
}

func (s *SQLStorage) Load(ctx context.Context, key string) (string, bool, error) {
	var entry model.SessionEntry
	err := s.db.WithContext(ctx).
		Where("namespace = ? AND name = ?", s.namespace, key).
		Take(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return entry.Value, true, nil
}

func (s *SQLStorage) Save(ctx context.Context, key, value string) error {
	entry := model.SessionEntry{Namespace: s.namespace, Name: key, Value: value}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"})}).
		Create(&entry).Error
}

func (s *SQLStorage) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Where("namespace = ? AND name IN ?", s.namespace, keys).
		Delete(&model.SessionEntry{}).Error
}
