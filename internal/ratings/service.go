package ratings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/photoshare/backend/internal/photos"
	"github.com/photoshare/backend/pkg/db/models"
	pkgerrors "github.com/photoshare/backend/pkg/errors"
	"gorm.io/gorm"
)

const duplicateRatingMessage = "photo already rated by this user"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type feedInvalidator interface {
	Invalidate(ctx context.Context, reason string)
}

// Service exposes rating semantics: one vote per user per photo, with the
// photo's average recomputed in the same transaction as the insert.
type Service interface {
	Rate(ctx context.Context, userID, photoID uuid.UUID, req CreateRequest) (*SummaryDTO, error)
}

type service struct {
	db       txRunner
	trending feedInvalidator
}

// ServiceParams bundles the dependencies required to build a ratings service.
type ServiceParams struct {
	DB       txRunner
	Trending feedInvalidator
}

// NewService constructs a ratings service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	if params.Trending == nil {
		return nil, fmt.Errorf("trending invalidator is required")
	}
	return &service{
		db:       params.DB,
		trending: params.Trending,
	}, nil
}

func (s *service) Rate(ctx context.Context, userID, photoID uuid.UUID, req CreateRequest) (*SummaryDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	if req.Value < 1 || req.Value > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "value must be between 1 and 5")
	}

	var summary *SummaryDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		photoRepo := photos.NewRepository(tx)
		ratingRepo := NewRepository(tx)

		if _, err := photoRepo.FindByID(ctx, photoID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "photo not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load photo")
		}

		exists, err := ratingRepo.ExistsForUser(ctx, photoID, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing rating")
		}
		if exists {
			return pkgerrors.New(pkgerrors.CodeConflict, duplicateRatingMessage)
		}

		rating := &models.Rating{
			PhotoID: photoID,
			UserID:  userID,
			Value:   req.Value,
		}
		created, err := ratingRepo.Create(ctx, rating)
		if err != nil {
			// The unique index catches concurrent duplicates the pre-check missed.
			if pkgerrors.IsUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, duplicateRatingMessage)
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist rating")
		}

		average, count, err := ratingRepo.AverageAndCount(ctx, photoID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recompute average")
		}
		if err := photoRepo.UpdateAverageRating(ctx, photoID, average); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update photo average")
		}

		summary = &SummaryDTO{
			Rating: RatingDTO{
				ID:        created.ID,
				PhotoID:   created.PhotoID,
				UserID:    created.UserID,
				Value:     created.Value,
				CreatedAt: created.CreatedAt,
			},
			AverageRating: average,
			RatingCount:   count,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.trending.Invalidate(ctx, "rating_created")
	return summary, nil
}
