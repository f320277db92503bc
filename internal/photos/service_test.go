package photos

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/photoshare/backend/pkg/config"
	"github.com/photoshare/backend/pkg/db/models"
	"github.com/photoshare/backend/pkg/enums"
	pkgerrors "github.com/photoshare/backend/pkg/errors"
	"github.com/photoshare/backend/pkg/pagination"
	"gorm.io/gorm"
)

func paramsFor(page, limit int) pagination.Params {
	return pagination.Params{Page: page, Limit: limit}
}

type stubPhotoRepo struct {
	created   *models.Photo
	byID      *models.Photo
	findErr   error
	createErr error
	deleteErr error
	deletedID uuid.UUID
	rows      []models.Photo
	total     int64
	listErr   error
	lastTerm  string
}

func (s *stubPhotoRepo) Create(ctx context.Context, photo *models.Photo) (*models.Photo, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	photo.ID = uuid.New()
	s.created = photo
	s.byID = photo
	return photo, nil
}

func (s *stubPhotoRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Photo, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.byID, nil
}

func (s *stubPhotoRepo) List(ctx context.Context, offset, limit int) ([]models.Photo, int64, error) {
	if s.listErr != nil {
		return nil, 0, s.listErr
	}
	return s.rows, s.total, nil
}

func (s *stubPhotoRepo) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]models.Photo, int64, error) {
	return s.List(ctx, offset, limit)
}

func (s *stubPhotoRepo) Search(ctx context.Context, term string, offset, limit int) ([]models.Photo, int64, error) {
	s.lastTerm = term
	return s.List(ctx, offset, limit)
}

func (s *stubPhotoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deletedID = id
	return nil
}

type stubSigner struct {
	putURL     string
	readURL    string
	err        error
	lastObject string
	lastMime   string
}

func (s *stubSigner) SignedURL(bucket, object, contentType string, expires time.Duration) (string, error) {
	s.lastObject = object
	s.lastMime = contentType
	if s.err != nil {
		return "", s.err
	}
	return s.putURL, nil
}

func (s *stubSigner) SignedReadURL(bucket, object string, expires time.Duration) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.readURL, nil
}

type stubCleanupPublisher struct {
	events []CleanupEvent
	err    error
}

func (s *stubCleanupPublisher) PublishCleanup(ctx context.Context, event CleanupEvent) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

type recordingInvalidator struct {
	reasons []string
}

func (r *recordingInvalidator) Invalidate(ctx context.Context, reason string) {
	r.reasons = append(r.reasons, reason)
}

type serviceFixture struct {
	repo      *stubPhotoRepo
	signer    *stubSigner
	publisher *stubCleanupPublisher
	inv       *recordingInvalidator
	svc       Service
}

func newPhotosFixture(t *testing.T, gcsCfg config.GCSConfig) serviceFixture {
	t.Helper()

	repo := &stubPhotoRepo{}
	signer := &stubSigner{putURL: "https://signed.example/put", readURL: "https://signed.example/get"}
	publisher := &stubCleanupPublisher{}
	inv := &recordingInvalidator{}

	if gcsCfg.BucketName == "" {
		gcsCfg.BucketName = "ps-media"
	}
	if gcsCfg.UploadURLExpiry == 0 {
		gcsCfg.UploadURLExpiry = 15 * time.Minute
	}
	if gcsCfg.DownloadURLExpiry == 0 {
		gcsCfg.DownloadURLExpiry = time.Hour
	}

	svc, err := NewService(ServiceParams{
		Repo:             repo,
		GCS:              signer,
		CleanupPublisher: publisher,
		Trending:         inv,
		GCSConfig:        gcsCfg,
		MediaConfig:      config.MediaConfig{MaxUploadMB: 50},
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return serviceFixture{repo: repo, signer: signer, publisher: publisher, inv: inv, svc: svc}
}

func TestPresignUploadSuccess(t *testing.T) {
	t.Parallel()

	f := newPhotosFixture(t, config.GCSConfig{})
	res, err := f.svc.PresignUpload(context.Background(), uuid.New(), PresignRequest{
		FileName:  "My Photo.PNG",
		MimeType:  "image/png",
		SizeBytes: 1024,
	})
	if err != nil {
		t.Fatalf("PresignUpload: %v", err)
	}
	if res.SignedPUTURL != "https://signed.example/put" {
		t.Fatalf("unexpected signed url %s", res.SignedPUTURL)
	}
	if res.ContentType != "image/png" {
		t.Fatalf("unexpected content type %s", res.ContentType)
	}
	if !strings.HasPrefix(res.StorageKey, "photos/image/") {
		t.Fatalf("unexpected storage key %s", res.StorageKey)
	}
	if !strings.HasSuffix(res.StorageKey, "My-Photo.PNG") {
		t.Fatalf("expected sanitized file name in key %s", res.StorageKey)
	}
	if f.signer.lastObject != res.StorageKey {
		t.Fatal("expected signer called with the storage key")
	}
}

func TestPresignUploadVideoKey(t *testing.T) {
	t.Parallel()

	f := newPhotosFixture(t, config.GCSConfig{})
	res, err := f.svc.PresignUpload(context.Background(), uuid.New(), PresignRequest{
		FileName:  "clip.mp4",
		MimeType:  "video/mp4",
		SizeBytes: 2048,
	})
	if err != nil {
		t.Fatalf("PresignUpload: %v", err)
	}
	if !strings.HasPrefix(res.StorageKey, "photos/video/") {
		t.Fatalf("expected video prefix got %s", res.StorageKey)
	}
}

func TestPresignUploadRejectsMime(t *testing.T) {
	t.Parallel()

	f := newPhotosFixture(t, config.GCSConfig{})
	_, err := f.svc.PresignUpload(context.Background(), uuid.New(), PresignRequest{
		FileName:  "script.svg",
		MimeType:  "image/svg+xml",
		SizeBytes: 10,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestPresignUploadRejectsOversizedFile(t *testing.T) {
	t.Parallel()

	f := newPhotosFixture(t, config.GCSConfig{})
	_, err := f.svc.PresignUpload(context.Background(), uuid.New(), PresignRequest{
		FileName:  "huge.png",
		MimeType:  "image/png",
		SizeBytes: 51 * 1024 * 1024,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestCreatePhotoUsesPublicBaseURL(t *testing.T) {
	t.Parallel()

	f := newPhotosFixture(t, config.GCSConfig{PublicBaseURL: "https://cdn.photoshare.app/"})
	dto, err := f.svc.Create(context.Background(), uuid.New(), CreateRequest{
		Title:      "Sunset",
		StorageKey: "photos/image/abc/sunset.png",
		MimeType:   "image/png",
		People:     []string{"  maria ", "", "jo"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if dto.MediaURL != "https://cdn.photoshare.app/photos/image/abc/sunset.png" {
		t.Fatalf("unexpected media url %s", dto.MediaURL)
	}
	if f.repo.created.MediaKind != enums.MediaKindImage {
		t.Fatalf("unexpected media kind %s", f.repo.created.MediaKind)
	}
	if len(f.repo.created.People) != 2 {
		t.Fatalf("expected normalized people got %v", f.repo.created.People)
	}
	if len(f.inv.reasons) != 1 || f.inv.reasons[0] != "photo_created" {
		t.Fatalf("expected photo_created invalidation got %v", f.inv.reasons)
	}
}

func TestCreatePhotoSignsReadURLWithoutPublicBase(t *testing.T) {
	t.Parallel()

	f := newPhotosFixture(t, config.GCSConfig{})
	dto, err := f.svc.Create(context.Background(), uuid.New(), CreateRequest{
		Title:      "Harbor",
		StorageKey: "photos/image/xyz/harbor.jpg",
		MimeType:   "image/jpeg",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if dto.MediaURL != "https://signed.example/get" {
		t.Fatalf("unexpected media url %s", dto.MediaURL)
	}
}

func TestDeletePhotoOwnerOnly(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	photoID := uuid.New()
	f := newPhotosFixture(t, config.GCSConfig{})
	f.repo.byID = &models.Photo{ID: photoID, UserID: owner, StorageKey: "photos/image/k/p.png"}

	err := f.svc.Delete(context.Background(), uuid.New(), photoID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden got %v", err)
	}
	if f.repo.deletedID != uuid.Nil {
		t.Fatal("expected no deletion for non-owner")
	}
	if len(f.inv.reasons) != 0 {
		t.Fatalf("expected no invalidation got %v", f.inv.reasons)
	}
}

func TestDeletePhotoPublishesCleanup(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	photoID := uuid.New()
	f := newPhotosFixture(t, config.GCSConfig{})
	f.repo.byID = &models.Photo{ID: photoID, UserID: owner, StorageKey: "photos/image/k/p.png"}

	if err := f.svc.Delete(context.Background(), owner, photoID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if f.repo.deletedID != photoID {
		t.Fatal("expected photo row deleted")
	}
	if len(f.inv.reasons) != 1 || f.inv.reasons[0] != "photo_deleted" {
		t.Fatalf("expected photo_deleted invalidation got %v", f.inv.reasons)
	}
	if len(f.publisher.events) != 1 {
		t.Fatalf("expected one cleanup event got %d", len(f.publisher.events))
	}
	if f.publisher.events[0].StorageKey != "photos/image/k/p.png" {
		t.Fatalf("unexpected cleanup key %s", f.publisher.events[0].StorageKey)
	}
}

func TestDeletePhotoToleratesPublishFailure(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	photoID := uuid.New()
	f := newPhotosFixture(t, config.GCSConfig{})
	f.repo.byID = &models.Photo{ID: photoID, UserID: owner, StorageKey: "photos/image/k/p.png"}
	f.publisher.err = context.DeadlineExceeded

	if err := f.svc.Delete(context.Background(), owner, photoID); err != nil {
		t.Fatalf("expected delete to succeed despite publish failure, got %v", err)
	}
	if f.repo.deletedID != photoID {
		t.Fatal("expected photo row deleted")
	}
}

func TestDeletePhotoNotFound(t *testing.T) {
	t.Parallel()

	f := newPhotosFixture(t, config.GCSConfig{})
	f.repo.findErr = gorm.ErrRecordNotFound

	err := f.svc.Delete(context.Background(), uuid.New(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found got %v", err)
	}
}

func TestSearchRequiresTerm(t *testing.T) {
	t.Parallel()

	f := newPhotosFixture(t, config.GCSConfig{})
	_, err := f.svc.Search(context.Background(), "   ", paramsFor(1, 10))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestSearchTrimsTerm(t *testing.T) {
	t.Parallel()

	f := newPhotosFixture(t, config.GCSConfig{})
	f.repo.rows = []models.Photo{{ID: uuid.New(), Title: "golden gate"}}
	f.repo.total = 1

	result, err := f.svc.Search(context.Background(), "  bridge  ", paramsFor(1, 10))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if f.repo.lastTerm != "bridge" {
		t.Fatalf("expected trimmed term got %q", f.repo.lastTerm)
	}
	if len(result.Photos) != 1 || result.Pagination.Total != 1 {
		t.Fatalf("unexpected result %+v", result.Pagination)
	}
}
