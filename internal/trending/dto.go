package trending

import (
	"time"

	"github.com/google/uuid"
	"github.com/photoshare/backend/internal/users"
	"github.com/photoshare/backend/pkg/enums"
	"github.com/photoshare/backend/pkg/pagination"
)

// PhotoDTO is one entry of the ranked feed window.
type PhotoDTO struct {
	ID            uuid.UUID            `json:"id"`
	Title         string               `json:"title"`
	Caption       string               `json:"caption,omitempty"`
	Location      string               `json:"location,omitempty"`
	MediaURL      string               `json:"media_url"`
	MediaKind     enums.MediaKind      `json:"media_kind"`
	AverageRating float64              `json:"average_rating"`
	CommentCount  int                  `json:"comment_count"`
	RatingCount   int                  `json:"rating_count"`
	Engagement    int                  `json:"engagement_score"`
	Author        *users.PublicUserDTO `json:"author"`
	CreatedAt     time.Time            `json:"created_at"`
}

// FeedPage is the paginated slice returned to clients.
type FeedPage struct {
	Photos     []PhotoDTO      `json:"photos"`
	Pagination pagination.Meta `json:"pagination"`
}
