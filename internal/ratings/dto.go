package ratings

import (
	"time"

	"github.com/google/uuid"
)

// CreateRequest is the payload for rating a photo.
type CreateRequest struct {
	Value int `json:"value" validate:"required,min=1,max=5"`
}

// RatingDTO is the transport shape for a stored rating.
type RatingDTO struct {
	ID        uuid.UUID `json:"id"`
	PhotoID   uuid.UUID `json:"photo_id"`
	UserID    uuid.UUID `json:"user_id"`
	Value     int       `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

// SummaryDTO reports the recomputed aggregate after a rating lands.
type SummaryDTO struct {
	Rating        RatingDTO `json:"rating"`
	AverageRating float64   `json:"average_rating"`
	RatingCount   int64     `json:"rating_count"`
}
