package ratings

import (
	"context"

	"github.com/google/uuid"
	"github.com/photoshare/backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes rating persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a ratings repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a rating; the unique (photo_id, user_id) index rejects duplicates.
func (r *Repository) Create(ctx context.Context, rating *models.Rating) (*models.Rating, error) {
	if err := r.db.WithContext(ctx).Create(rating).Error; err != nil {
		return nil, err
	}
	return rating, nil
}

// ExistsForUser reports whether the user already rated the photo.
func (r *Repository) ExistsForUser(ctx context.Context, photoID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Where("photo_id = ? AND user_id = ?", photoID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AverageAndCount recomputes the aggregate for a photo from its rating rows.
func (r *Repository) AverageAndCount(ctx context.Context, photoID uuid.UUID) (float64, int64, error) {
	type aggRow struct {
		Average float64
		Count   int64
	}
	var row aggRow
	err := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Select("COALESCE(AVG(value), 0) AS average, COUNT(*) AS count").
		Where("photo_id = ?", photoID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Average, row.Count, nil
}
