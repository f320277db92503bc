package photos

import (
	"time"

	"github.com/google/uuid"
	"github.com/photoshare/backend/internal/users"
	"github.com/photoshare/backend/pkg/db/models"
	"github.com/photoshare/backend/pkg/enums"
	"github.com/photoshare/backend/pkg/pagination"
)

// PresignRequest models the payload required to request an upload URL.
type PresignRequest struct {
	FileName  string `json:"file_name" validate:"required"`
	MimeType  string `json:"mime_type" validate:"required"`
	SizeBytes int64  `json:"size_bytes" validate:"required,min=1"`
}

// PresignResponse contains the signed PUT URL handed back to the client.
type PresignResponse struct {
	StorageKey   string    `json:"storage_key"`
	SignedPUTURL string    `json:"signed_put_url"`
	ContentType  string    `json:"content_type"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// CreateRequest finalizes an upload into a published photo.
type CreateRequest struct {
	Title      string   `json:"title" validate:"required,max=200"`
	Caption    string   `json:"caption,omitempty" validate:"max=2000"`
	Location   string   `json:"location,omitempty" validate:"max=200"`
	People     []string `json:"people,omitempty" validate:"max=50"`
	StorageKey string   `json:"storage_key" validate:"required"`
	MimeType   string   `json:"mime_type" validate:"required"`
}

// PhotoDTO is the transport shape for a single photo.
type PhotoDTO struct {
	ID            uuid.UUID            `json:"id"`
	Title         string               `json:"title"`
	Caption       string               `json:"caption,omitempty"`
	Location      string               `json:"location,omitempty"`
	People        []string             `json:"people,omitempty"`
	MediaURL      string               `json:"media_url"`
	MediaKind     enums.MediaKind      `json:"media_kind"`
	AverageRating float64              `json:"average_rating"`
	Author        *users.PublicUserDTO `json:"author,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// ListResult is a paginated page of photos.
type ListResult struct {
	Photos     []PhotoDTO      `json:"photos"`
	Pagination pagination.Meta `json:"pagination"`
}

func FromModel(p *models.Photo) *PhotoDTO {
	if p == nil {
		return nil
	}
	dto := &PhotoDTO{
		ID:            p.ID,
		Title:         p.Title,
		Caption:       p.Caption,
		Location:      p.Location,
		People:        append([]string(nil), p.People...),
		MediaURL:      p.MediaURL,
		MediaKind:     p.MediaKind,
		AverageRating: p.AverageRating,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.User != nil {
		dto.Author = users.PublicFromModel(p.User)
	}
	return dto
}

func fromModels(rows []models.Photo) []PhotoDTO {
	items := make([]PhotoDTO, len(rows))
	for i := range rows {
		items[i] = *FromModel(&rows[i])
	}
	return items
}
