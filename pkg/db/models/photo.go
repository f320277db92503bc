package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/photoshare/backend/pkg/enums"
)

// Photo is a shared media item (image or video) owned by its uploading user.
type Photo struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Title         string          `gorm:"type:text;not null"`
	Caption       string          `gorm:"type:text"`
	Location      string          `gorm:"type:text"`
	People        pq.StringArray  `gorm:"type:text[]"`
	StorageKey    string          `gorm:"column:storage_key;not null"`
	MediaURL      string          `gorm:"column:media_url;not null"`
	MediaKind     enums.MediaKind `gorm:"column:media_kind;type:text;not null;default:'image'"`
	AverageRating float64         `gorm:"column:average_rating;not null;default:0"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`

	User *User `gorm:"foreignKey:UserID"`
}
