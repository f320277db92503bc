package models

import (
	"time"

	"github.com/google/uuid"
)

// Rating is a 1-5 star vote; a user may rate a given photo at most once,
// enforced by the (photo_id, user_id) unique index.
type Rating struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PhotoID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ratings_photo_user"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ratings_photo_user"`
	Value     int       `gorm:"not null;check:value >= 1 AND value <= 5"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
