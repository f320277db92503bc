package photos

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/photoshare/backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes photo persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a photos repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a photo record.
func (r *Repository) Create(ctx context.Context, photo *models.Photo) (*models.Photo, error) {
	if err := r.db.WithContext(ctx).Create(photo).Error; err != nil {
		return nil, err
	}
	return photo, nil
}

// FindByID retrieves a photo with its author preloaded.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Photo, error) {
	var photo models.Photo
	if err := r.db.WithContext(ctx).Preload("User").First(&photo, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &photo, nil
}

// List returns photos newest first, with author, and the total row count.
func (r *Repository) List(ctx context.Context, offset, limit int) ([]models.Photo, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Model(&models.Photo{}), offset, limit)
}

// ListByUser returns one user's photos newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]models.Photo, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Photo{}).Where("user_id = ?", userID)
	return r.list(ctx, query, offset, limit)
}

// Search matches the term against title, caption, location, and tagged people.
func (r *Repository) Search(ctx context.Context, term string, offset, limit int) ([]models.Photo, int64, error) {
	pattern := "%" + strings.TrimSpace(term) + "%"
	query := r.db.WithContext(ctx).Model(&models.Photo{}).Where(
		"title ILIKE ? OR caption ILIKE ? OR location ILIKE ? OR EXISTS (SELECT 1 FROM unnest(people) AS person WHERE person ILIKE ?)",
		pattern, pattern, pattern, pattern,
	)
	return r.list(ctx, query, offset, limit)
}

func (r *Repository) list(ctx context.Context, query *gorm.DB, offset, limit int) ([]models.Photo, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Photo
	err := query.
		Preload("User").
		Order("created_at DESC").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Delete removes a photo row; comments and ratings cascade at the database.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Photo{}).Error
}

// UpdateAverageRating overwrites the denormalized average for a photo.
func (r *Repository) UpdateAverageRating(ctx context.Context, id uuid.UUID, average float64) error {
	return r.db.WithContext(ctx).
		Model(&models.Photo{}).
		Where("id = ?", id).
		UpdateColumn("average_rating", average).Error
}
