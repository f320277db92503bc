package photos

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupPhotosTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`PRAGMA foreign_keys = ON;`,
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
  user_id TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
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
  photo_id TEXT NOT NULL REFERENCES photos (id) ON DELETE CASCADE,
  user_id TEXT NOT NULL,
  text TEXT NOT NULL,
  created_at DATETIME
);`,
		`CREATE TABLE ratings (
  id TEXT PRIMARY KEY,
  photo_id TEXT NOT NULL REFERENCES photos (id) ON DELETE CASCADE,
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

func seedPhotoOwner(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, db.Exec(
		`INSERT INTO users (id, username, email, password_hash) VALUES (?, ?, ?, ?)`,
		id.String(), "owner-"+id.String()[:8], id.String()+"@example.com", "hash",
	).Error)
	return id
}

func seedPhotoRow(t *testing.T, db *gorm.DB, ownerID uuid.UUID, title string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, db.Exec(
		`INSERT INTO photos (id, user_id, title, storage_key, media_url) VALUES (?, ?, ?, ?, ?)`,
		id.String(), ownerID.String(), title, "photos/"+id.String(), "https://cdn.example/"+id.String(),
	).Error)
	return id
}

func seedChildren(t *testing.T, db *gorm.DB, photoID uuid.UUID, comments, ratings int) {
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

func countRows(t *testing.T, db *gorm.DB, table string, photoID uuid.UUID) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Raw(
		fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE photo_id = ?`, table), photoID.String(),
	).Scan(&count).Error)
	return count
}

func TestDeleteCascadesToCommentsAndRatings(t *testing.T) {
	db := setupPhotosTestDB(t)
	owner := seedPhotoOwner(t, db)

	doomed := seedPhotoRow(t, db, owner, "doomed")
	survivor := seedPhotoRow(t, db, owner, "survivor")
	seedChildren(t, db, doomed, 3, 2)
	seedChildren(t, db, survivor, 1, 1)

	repo := NewRepository(db)
	require.NoError(t, repo.Delete(context.Background(), doomed))

	var photoCount int64
	require.NoError(t, db.Raw(`SELECT COUNT(*) FROM photos WHERE id = ?`, doomed.String()).Scan(&photoCount).Error)
	assert.Zero(t, photoCount, "photo row should be gone")

	assert.Zero(t, countRows(t, db, "comments", doomed), "comments should cascade with the photo")
	assert.Zero(t, countRows(t, db, "ratings", doomed), "ratings should cascade with the photo")

	assert.EqualValues(t, 1, countRows(t, db, "comments", survivor), "other photos keep their comments")
	assert.EqualValues(t, 1, countRows(t, db, "ratings", survivor), "other photos keep their ratings")
}

func TestDeleteMissingPhotoIsNoop(t *testing.T) {
	db := setupPhotosTestDB(t)
	owner := seedPhotoOwner(t, db)
	kept := seedPhotoRow(t, db, owner, "kept")
	seedChildren(t, db, kept, 1, 0)

	repo := NewRepository(db)
	require.NoError(t, repo.Delete(context.Background(), uuid.New()))

	assert.EqualValues(t, 1, countRows(t, db, "comments", kept))
}
