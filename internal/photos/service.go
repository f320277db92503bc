package photos

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/photoshare/backend/pkg/config"
	"github.com/photoshare/backend/pkg/db/models"
	"github.com/photoshare/backend/pkg/enums"
	pkgerrors "github.com/photoshare/backend/pkg/errors"
	"github.com/photoshare/backend/pkg/logger"
	"github.com/photoshare/backend/pkg/pagination"
	"gorm.io/gorm"
)

var allowedMimeTypes = []string{
	"image/png", "image/jpeg", "image/webp", "image/gif",
	"video/mp4", "video/webm", "video/quicktime",
}

type photoRepository interface {
	Create(ctx context.Context, photo *models.Photo) (*models.Photo, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Photo, error)
	List(ctx context.Context, offset, limit int) ([]models.Photo, int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]models.Photo, int64, error)
	Search(ctx context.Context, term string, offset, limit int) ([]models.Photo, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type gcsSigner interface {
	SignedURL(bucket, object, contentType string, expires time.Duration) (string, error)
	SignedReadURL(bucket, object string, expires time.Duration) (string, error)
}

type cleanupPublisher interface {
	PublishCleanup(ctx context.Context, event CleanupEvent) error
}

type feedInvalidator interface {
	Invalidate(ctx context.Context, reason string)
}

// Service exposes photo upload, listing, and deletion semantics.
type Service interface {
	PresignUpload(ctx context.Context, userID uuid.UUID, req PresignRequest) (*PresignResponse, error)
	Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*PhotoDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*PhotoDTO, error)
	List(ctx context.Context, params pagination.Params) (*ListResult, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error)
	Search(ctx context.Context, term string, params pagination.Params) (*ListResult, error)
	Delete(ctx context.Context, actorID, photoID uuid.UUID) error
}

type service struct {
	repo     photoRepository
	gcs      gcsSigner
	cleanup  cleanupPublisher
	trending feedInvalidator
	logg     *logger.Logger
	gcsCfg   config.GCSConfig
	mediaCfg config.MediaConfig
}

// ServiceParams bundles the dependencies required to build a photos service.
type ServiceParams struct {
	Repo             photoRepository
	GCS              gcsSigner
	CleanupPublisher cleanupPublisher
	Trending         feedInvalidator
	Logger           *logger.Logger
	GCSConfig        config.GCSConfig
	MediaConfig      config.MediaConfig
}

// NewService constructs a photos service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("photo repository is required")
	}
	if params.GCS == nil {
		return nil, fmt.Errorf("gcs client is required")
	}
	if params.Trending == nil {
		return nil, fmt.Errorf("trending invalidator is required")
	}
	if params.GCSConfig.BucketName == "" {
		return nil, fmt.Errorf("gcs bucket is required")
	}
	return &service{
		repo:     params.Repo,
		gcs:      params.GCS,
		cleanup:  params.CleanupPublisher,
		trending: params.Trending,
		logg:     params.Logger,
		gcsCfg:   params.GCSConfig,
		mediaCfg: params.MediaConfig,
	}, nil
}

func (s *service) PresignUpload(ctx context.Context, userID uuid.UUID, req PresignRequest) (*PresignResponse, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}

	fileName := strings.TrimSpace(req.FileName)
	if fileName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file_name is required")
	}

	mimeType := strings.TrimSpace(req.MimeType)
	if !isAllowedMime(mimeType) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mime_type not allowed")
	}

	maxBytes := int64(s.mediaCfg.MaxUploadMB) * 1024 * 1024
	if req.SizeBytes <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size_bytes must be positive")
	}
	if maxBytes > 0 && req.SizeBytes > maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("size_bytes must not exceed %d bytes", maxBytes))
	}

	kind := enums.MediaKindForMime(mimeType)
	storageKey := buildStorageKey(kind, uuid.New(), fileName)

	expiresAt := time.Now().Add(s.gcsCfg.UploadURLExpiry)
	signedURL, err := s.gcs.SignedURL(s.gcsCfg.BucketName, storageKey, mimeType, s.gcsCfg.UploadURLExpiry)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign upload url")
	}

	return &PresignResponse{
		StorageKey:   storageKey,
		SignedPUTURL: signedURL,
		ContentType:  mimeType,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*PhotoDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}

	storageKey := strings.TrimSpace(req.StorageKey)
	if storageKey == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "storage_key is required")
	}

	mimeType := strings.TrimSpace(req.MimeType)
	if !isAllowedMime(mimeType) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mime_type not allowed")
	}

	mediaURL, err := s.buildMediaURL(storageKey)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build media url")
	}

	photo := &models.Photo{
		UserID:     userID,
		Title:      strings.TrimSpace(req.Title),
		Caption:    strings.TrimSpace(req.Caption),
		Location:   strings.TrimSpace(req.Location),
		People:     normalizePeople(req.People),
		StorageKey: storageKey,
		MediaURL:   mediaURL,
		MediaKind:  enums.MediaKindForMime(mimeType),
	}

	created, err := s.repo.Create(ctx, photo)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist photo")
	}

	s.trending.Invalidate(ctx, "photo_created")

	return s.Get(ctx, created.ID)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*PhotoDTO, error) {
	photo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "photo not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load photo")
	}
	return FromModel(photo), nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*ListResult, error) {
	params = pagination.Normalize(params)
	rows, total, err := s.repo.List(ctx, params.Offset(), params.Limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list photos")
	}
	return s.listResult(rows, total, params), nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	params = pagination.Normalize(params)
	rows, total, err := s.repo.ListByUser(ctx, userID, params.Offset(), params.Limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list user photos")
	}
	return s.listResult(rows, total, params), nil
}

func (s *service) Search(ctx context.Context, term string, params pagination.Params) (*ListResult, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "search term is required")
	}
	params = pagination.Normalize(params)
	rows, total, err := s.repo.Search(ctx, term, params.Offset(), params.Limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search photos")
	}
	return s.listResult(rows, total, params), nil
}

func (s *service) Delete(ctx context.Context, actorID, photoID uuid.UUID) error {
	if actorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}

	photo, err := s.repo.FindByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "photo not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load photo")
	}

	if photo.UserID != actorID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the owner may delete a photo")
	}

	if err := s.repo.Delete(ctx, photoID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete photo")
	}

	s.trending.Invalidate(ctx, "photo_deleted")

	// Storage cleanup is asynchronous; the row is already gone.
	if s.cleanup != nil {
		event := CleanupEvent{
			PhotoID:    photo.ID,
			StorageKey: photo.StorageKey,
			DeletedAt:  time.Now().UTC(),
		}
		if err := s.cleanup.PublishCleanup(ctx, event); err != nil && s.logg != nil {
			fields := map[string]any{"photo_id": photo.ID.String(), "publish_error": err.Error()}
			s.logg.Warn(s.logg.WithFields(ctx, fields), "photos.cleanup.publish_failed")
		}
	}

	return nil
}

func (s *service) listResult(rows []models.Photo, total int64, params pagination.Params) *ListResult {
	return &ListResult{
		Photos:     fromModels(rows),
		Pagination: pagination.MetaFor(params, int(total)),
	}
}

func (s *service) buildMediaURL(storageKey string) (string, error) {
	if base := strings.TrimRight(s.gcsCfg.PublicBaseURL, "/"); base != "" {
		return base + "/" + storageKey, nil
	}
	return s.gcs.SignedReadURL(s.gcsCfg.BucketName, storageKey, s.gcsCfg.DownloadURLExpiry)
}

func isAllowedMime(mimeType string) bool {
	for _, candidate := range allowedMimeTypes {
		if strings.EqualFold(candidate, mimeType) {
			return true
		}
	}
	return false
}

func normalizePeople(people []string) []string {
	result := make([]string, 0, len(people))
	for _, person := range people {
		if trimmed := strings.TrimSpace(person); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func buildStorageKey(kind enums.MediaKind, id uuid.UUID, fileName string) string {
	cleanName := sanitizeFileName(fileName)
	if cleanName == "" {
		cleanName = id.String()
	}
	return fmt.Sprintf("photos/%s/%s/%s", kind, id.String(), cleanName)
}

func sanitizeFileName(name string) string {
	if name == "" {
		return ""
	}
	clean := path.Base(strings.TrimSpace(name))
	if clean == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		switch {
		case r == '/' || r == '\\' || unicode.IsControl(r):
			continue
		case unicode.IsSpace(r):
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-_.")
}
