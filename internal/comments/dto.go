package comments

import (
	"time"

	"github.com/google/uuid"
	"github.com/photoshare/backend/internal/users"
	"github.com/photoshare/backend/pkg/db/models"
	"github.com/photoshare/backend/pkg/pagination"
)

// CreateRequest is the payload for posting a comment.
type CreateRequest struct {
	Text string `json:"text" validate:"required,min=1,max=500"`
}

// CommentDTO is the transport shape for a single comment.
type CommentDTO struct {
	ID        uuid.UUID            `json:"id"`
	PhotoID   uuid.UUID            `json:"photo_id"`
	Text      string               `json:"text"`
	Author    *users.PublicUserDTO `json:"author,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

// ListResult is a paginated page of comments.
type ListResult struct {
	Comments   []CommentDTO    `json:"comments"`
	Pagination pagination.Meta `json:"pagination"`
}

func FromModel(c *models.Comment) *CommentDTO {
	if c == nil {
		return nil
	}
	dto := &CommentDTO{
		ID:        c.ID,
		PhotoID:   c.PhotoID,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
	if c.User != nil {
		dto.Author = users.PublicFromModel(c.User)
	}
	return dto
}

func fromModels(rows []models.Comment) []CommentDTO {
	items := make([]CommentDTO, len(rows))
	for i := range rows {
		items[i] = *FromModel(&rows[i])
	}
	return items
}
