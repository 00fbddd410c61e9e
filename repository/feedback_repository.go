package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"cryptodash/model"
)

// FeedbackRepository defines the interface for feedback vote storage.
type FeedbackRepository interface {
	// Upsert stores a vote, overwriting any earlier vote by the same user on
	// the same content. It reports whether a new row was created.
	Upsert(userID int64, contentType, contentHash string, vote int) (created bool, err error)
	ListByUser(userID int64) ([]model.Feedback, error)
}

// gormFeedbackRepository implements FeedbackRepository on GORM.
type gormFeedbackRepository struct {
	db *gorm.DB
}

// NewGormFeedbackRepository creates a new gormFeedbackRepository.
func NewGormFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &gormFeedbackRepository{db: db}
}

// Upsert stores or overwrites a vote keyed by (user, content type, hash).
func (r *gormFeedbackRepository) Upsert(userID int64, contentType, contentHash string, vote int) (bool, error) {
	var existing model.Feedback
	err := r.db.
		Where("user_id = ? AND content_type = ? AND content_hash = ?", userID, contentType, contentHash).
		First(&existing).Error

	switch {
	case err == nil:
		err = r.db.Model(&existing).Updates(map[string]interface{}{
			"vote":      vote,
			"timestamp": time.Now().UTC(),
		}).Error
		if err != nil {
			return false, fmt.Errorf("failed to update feedback: %w", err)
		}
		return false, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		fb := model.Feedback{
			UserID:      userID,
			ContentType: contentType,
			ContentHash: contentHash,
			Vote:        vote,
			Timestamp:   time.Now().UTC(),
		}
		if err := r.db.Create(&fb).Error; err != nil {
			return false, fmt.Errorf("failed to create feedback: %w", err)
		}
		return true, nil

	default:
		return false, fmt.Errorf("failed to look up feedback: %w", err)
	}
}

// ListByUser returns the user's feedback, newest first.
func (r *gormFeedbackRepository) ListByUser(userID int64) ([]model.Feedback, error) {
	var list []model.Feedback
	err := r.db.
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	return list, nil
}
