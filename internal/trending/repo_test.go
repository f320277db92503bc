package trending

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTrendingTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'member',
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE photos (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  title TEXT NOT NULL,
  caption TEXT,
  location TEXT,
  people TEXT,
  storage_key TEXT NOT NULL,
  media_url TEXT NOT NULL,
  media_kind TEXT NOT NULL DEFAULT 'image',
  average_rating REAL NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE comments (
  id TEXT PRIMARY KEY,
  photo_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  text TEXT NOT NULL,
  created_at DATETIME
);`,
		`CREATE TABLE ratings (
  id TEXT PRIMARY KEY,
  photo_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  value INTEGER NOT NULL,
  created_at DATETIME,
  UNIQUE(photo_id, user_id)
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedAuthor(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, db.Exec(
		`INSERT INTO users (id, username, email, password_hash) VALUES (?, ?, ?, ?)`,
		id.String(), "author-"+id.String()[:8], id.String()+"@example.com", "hash",
	).Error)
	return id
}

func seedPhoto(t *testing.T, db *gorm.DB, authorID uuid.UUID, title string, createdAt time.Time) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, db.Exec(
		`INSERT INTO photos (id, user_id, title, storage_key, media_url, media_kind, created_at)
 VALUES (?, ?, ?, ?, ?, 'image', ?)`,
		id.String(), authorID.String(), title, "photos/"+id.String(), "https://cdn.example/"+id.String(), createdAt,
	).Error)
	return id
}

func seedEngagement(t *testing.T, db *gorm.DB, photoID uuid.UUID, comments, ratings int) {
	t.Helper()
	for i := 0; i < comments; i++ {
		require.NoError(t, db.Exec(
			`INSERT INTO comments (id, photo_id, user_id, text) VALUES (?, ?, ?, ?)`,
			uuid.NewString(), photoID.String(), uuid.NewString(), fmt.Sprintf("comment %d", i),
		).Error)
	}
	for i := 0; i < ratings; i++ {
		require.NoError(t, db.Exec(
			`INSERT INTO ratings (id, photo_id, user_id, value) VALUES (?, ?, ?, ?)`,
			uuid.NewString(), photoID.String(), uuid.NewString(), (i%5)+1,
		).Error)
	}
}

func TestRankedWindowOrdersByEngagement(t *testing.T) {
	db := setupTrendingTestDB(t)
	author := seedAuthor(t, db)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	quiet := seedPhoto(t, db, author, "quiet", base)
	popular := seedPhoto(t, db, author, "popular", base.Add(time.Minute))
	middling := seedPhoto(t, db, author, "middling", base.Add(2*time.Minute))

	seedEngagement(t, db, popular, 3, 4)
	seedEngagement(t, db, middling, 1, 1)

	repo := NewRepository(db)
	window, err := repo.RankedWindow(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, window, 3)

	assert.Equal(t, popular, window[0].ID)
	assert.Equal(t, 7, window[0].Engagement)
	assert.Equal(t, 3, window[0].CommentCount)
	assert.Equal(t, 4, window[0].RatingCount)

	assert.Equal(t, middling, window[1].ID)
	assert.Equal(t, 2, window[1].Engagement)

	assert.Equal(t, quiet, window[2].ID)
	assert.Equal(t, 0, window[2].Engagement)

	require.NotNil(t, window[0].Author)
	assert.Equal(t, author, window[0].Author.ID)
}

func TestRankedWindowBreaksTiesByRecency(t *testing.T) {
	db := setupTrendingTestDB(t)
	author := seedAuthor(t, db)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	older := seedPhoto(t, db, author, "older", base)
	newer := seedPhoto(t, db, author, "newer", base.Add(time.Hour))

	seedEngagement(t, db, older, 2, 0)
	seedEngagement(t, db, newer, 1, 1)

	repo := NewRepository(db)
	window, err := repo.RankedWindow(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, window, 2)

	assert.Equal(t, newer, window[0].ID, "equal engagement should rank the newer photo first")
	assert.Equal(t, older, window[1].ID)
}

func TestRankedWindowRespectsLimit(t *testing.T) {
	db := setupTrendingTestDB(t)
	author := seedAuthor(t, db)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		seedPhoto(t, db, author, fmt.Sprintf("photo %d", i), base.Add(time.Duration(i)*time.Minute))
	}

	repo := NewRepository(db)
	window, err := repo.RankedWindow(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, window, 3)
}

func TestRankedWindowEmptyForNonPositiveLimit(t *testing.T) {
	db := setupTrendingTestDB(t)
	repo := NewRepository(db)

	window, err := repo.RankedWindow(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, window)
}
