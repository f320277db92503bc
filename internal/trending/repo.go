package trending

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/photoshare/backend/internal/users"
	"github.com/photoshare/backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository computes the ranked window straight from Postgres.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a trending repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Ties break toward newer photos, then lowest id for a stable order.
const rankedWindowQuery = `
SELECT
	p.id,
	p.title,
	p.caption,
	p.location,
	p.media_url,
	p.media_kind,
	p.average_rating,
	p.created_at,
	u.id AS author_id,
	u.username AS author_username,
	COALESCE(c.comment_count, 0) AS comment_count,
	COALESCE(r.rating_count, 0) AS rating_count
FROM photos p
JOIN users u ON u.id = p.user_id
LEFT JOIN (
	SELECT photo_id, COUNT(*) AS comment_count
	FROM comments
	GROUP BY photo_id
) c ON c.photo_id = p.id
LEFT JOIN (
	SELECT photo_id, COUNT(*) AS rating_count
	FROM ratings
	GROUP BY photo_id
) r ON r.photo_id = p.id
ORDER BY
	COALESCE(c.comment_count, 0) + COALESCE(r.rating_count, 0) DESC,
	p.created_at DESC,
	p.id ASC
LIMIT ?
`

type rankedRow struct {
	ID             uuid.UUID
	Title          string
	Caption        string
	Location       string
	MediaURL       string
	MediaKind      string
	AverageRating  float64
	CreatedAt      time.Time
	AuthorID       uuid.UUID
	AuthorUsername string
	CommentCount   int
	RatingCount    int
}

// RankedWindow returns the top photos ordered by engagement.
func (r *Repository) RankedWindow(ctx context.Context, limit int) ([]PhotoDTO, error) {
	if limit <= 0 {
		return []PhotoDTO{}, nil
	}

	var rows []rankedRow
	if err := r.db.WithContext(ctx).Raw(rankedWindowQuery, limit).Scan(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]PhotoDTO, len(rows))
	for i, row := range rows {
		items[i] = PhotoDTO{
			ID:            row.ID,
			Title:         row.Title,
			Caption:       row.Caption,
			Location:      row.Location,
			MediaURL:      row.MediaURL,
			MediaKind:     enums.MediaKind(row.MediaKind),
			AverageRating: row.AverageRating,
			CommentCount:  row.CommentCount,
			RatingCount:   row.RatingCount,
			Engagement:    EngagementScore(row.CommentCount, row.RatingCount),
			Author: &users.PublicUserDTO{
				ID:       row.AuthorID,
				Username: row.AuthorUsername,
			},
			CreatedAt: row.CreatedAt,
		}
	}
	return items, nil
}
