package database

import (
	"context"
	"fmt"
	"time"

	"billing-backend/models"

	"gorm.io/gorm"
)

// IdempotencyKeyStore is the GORM/Postgres backend for the idempotency
// middleware. Both operations use their own short transaction.
type IdempotencyKeyStore struct {
	db *gorm.DB
}

func NewIdempotencyKeyStore(db *gorm.DB) *IdempotencyKeyStore {
	return &IdempotencyKeyStore{db: db}
}

// FindOrCreate returns the record for rec.Key, creating a pending one from
// rec when none exists yet.
func (s *IdempotencyKeyStore) FindOrCreate(ctx context.Context, rec *models.IdempotencyKey) (*models.IdempotencyKey, error) {
	var existing models.IdempotencyKey
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("key = ?", rec.Key).First(&existing).Error
		if err == nil {
			return nil
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := tx.Create(rec).Error; err != nil {
			// Could be a unique race: read again
			return tx.Where("key = ?", rec.Key).First(&existing).Error
		}
		existing = *rec
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("idempotency key %s: %w", rec.Key, err)
	}
	return &existing, nil
}

// Complete stores the finished response for key.
func (s *IdempotencyKeyStore) Complete(ctx context.Context, key string, status int, contentType string, body []byte) error {
	now := time.Now().UTC()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Model(&models.IdempotencyKey{}).
			Where("key = ?", key).
			Updates(map[string]any{
				"response_status": status,
				"content_type":    contentType,
				"response_body":   body,
				"completed_at":    &now,
			}).Error
	})
}
