package ratings

import (
	"context"
	"testing"

	"github.com/google/uuid"
	pkgerrors "github.com/photoshare/backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type recordingInvalidator struct {
	reasons []string
}

func (r *recordingInvalidator) Invalidate(ctx context.Context, reason string) {
	r.reasons = append(r.reasons, reason)
}

func setupRatingsTestDB(t *testing.T) *gorm.DB {
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
		`CREATE TABLE ratings (
  id TEXT PRIMARY KEY,
  photo_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  value INTEGER NOT NULL CHECK (value >= 1 AND value <= 5),
  created_at DATETIME,
  UNIQUE(photo_id, user_id)
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedRatedPhoto(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()
	owner := uuid.New()
	require.NoError(t, db.Exec(
		`INSERT INTO users (id, username, email, password_hash) VALUES (?, ?, ?, ?)`,
		owner.String(), "owner-"+owner.String()[:8], owner.String()+"@example.com", "hash",
	).Error)

	photoID := uuid.New()
	require.NoError(t, db.Exec(
		`INSERT INTO photos (id, user_id, title, storage_key, media_url, media_kind)
 VALUES (?, ?, 'sunset', 'photos/key', 'https://cdn.example/key', 'image')`,
		photoID.String(), owner.String(),
	).Error)
	return photoID
}

func newRatingsService(t *testing.T, db *gorm.DB, invalidator *recordingInvalidator) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		DB:       gormTxRunner{db: db},
		Trending: invalidator,
	})
	require.NoError(t, err)
	return svc
}

func TestRateComputesAverageAndInvalidates(t *testing.T) {
	db := setupRatingsTestDB(t)
	photoID := seedRatedPhoto(t, db)
	invalidator := &recordingInvalidator{}
	svc := newRatingsService(t, db, invalidator)

	// A prior vote from another user already exists.
	require.NoError(t, db.Exec(
		`INSERT INTO ratings (id, photo_id, user_id, value) VALUES (?, ?, ?, 2)`,
		uuid.NewString(), photoID.String(), uuid.NewString(),
	).Error)

	userID := uuid.New()
	summary, err := svc.Rate(context.Background(), userID, photoID, CreateRequest{Value: 4})
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Rating.Value)
	assert.Equal(t, photoID, summary.Rating.PhotoID)
	assert.Equal(t, userID, summary.Rating.UserID)
	assert.InDelta(t, 3.0, summary.AverageRating, 0.001)
	assert.EqualValues(t, 2, summary.RatingCount)

	var stored float64
	require.NoError(t, db.Raw(`SELECT average_rating FROM photos WHERE id = ?`, photoID.String()).Scan(&stored).Error)
	assert.InDelta(t, 3.0, stored, 0.001)

	require.Len(t, invalidator.reasons, 1)
	assert.Equal(t, "rating_created", invalidator.reasons[0])
}

func TestRateRejectsDuplicate(t *testing.T) {
	db := setupRatingsTestDB(t)
	photoID := seedRatedPhoto(t, db)
	invalidator := &recordingInvalidator{}
	svc := newRatingsService(t, db, invalidator)

	userID := uuid.New()
	require.NoError(t, db.Exec(
		`INSERT INTO ratings (id, photo_id, user_id, value) VALUES (?, ?, ?, 5)`,
		uuid.NewString(), photoID.String(), userID.String(),
	).Error)

	_, err := svc.Rate(context.Background(), userID, photoID, CreateRequest{Value: 3})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	// The photo aggregate must not move and the cache must stay intact.
	var count int64
	require.NoError(t, db.Raw(`SELECT COUNT(*) FROM ratings WHERE photo_id = ?`, photoID.String()).Scan(&count).Error)
	assert.EqualValues(t, 1, count)
	assert.Empty(t, invalidator.reasons)
}

func TestRateUnknownPhoto(t *testing.T) {
	db := setupRatingsTestDB(t)
	invalidator := &recordingInvalidator{}
	svc := newRatingsService(t, db, invalidator)

	_, err := svc.Rate(context.Background(), uuid.New(), uuid.New(), CreateRequest{Value: 4})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Empty(t, invalidator.reasons)
}

func TestRateRejectsOutOfRangeValue(t *testing.T) {
	db := setupRatingsTestDB(t)
	photoID := seedRatedPhoto(t, db)
	svc := newRatingsService(t, db, &recordingInvalidator{})

	for _, value := range []int{0, 6, -1} {
		_, err := svc.Rate(context.Background(), uuid.New(), photoID, CreateRequest{Value: value})
		require.Error(t, err, "value %d", value)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	}
}
