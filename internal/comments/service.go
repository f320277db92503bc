package comments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/photoshare/backend/pkg/db/models"
	pkgerrors "github.com/photoshare/backend/pkg/errors"
	"github.com/photoshare/backend/pkg/pagination"
	"gorm.io/gorm"
)

type commentRepository interface {
	Create(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	ListByPhoto(ctx context.Context, photoID uuid.UUID, offset, limit int) ([]models.Comment, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type photoFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Photo, error)
}

type userFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type feedInvalidator interface {
	Invalidate(ctx context.Context, reason string)
}

// Service exposes comment posting, listing, and moderation semantics.
type Service interface {
	Create(ctx context.Context, userID, photoID uuid.UUID, req CreateRequest) (*CommentDTO, error)
	ListByPhoto(ctx context.Context, photoID uuid.UUID, params pagination.Params) (*ListResult, error)
	Delete(ctx context.Context, actorID, commentID uuid.UUID) error
}

type service struct {
	repo     commentRepository
	photos   photoFinder
	users    userFinder
	trending feedInvalidator
}

// ServiceParams bundles the dependencies required to build a comments service.
type ServiceParams struct {
	Repo     commentRepository
	Photos   photoFinder
	Users    userFinder
	Trending feedInvalidator
}

// NewService constructs a comments service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("comment repository is required")
	}
	if params.Photos == nil {
		return nil, fmt.Errorf("photo repository is required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Trending == nil {
		return nil, fmt.Errorf("trending invalidator is required")
	}
	return &service{
		repo:     params.Repo,
		photos:   params.Photos,
		users:    params.Users,
		trending: params.Trending,
	}, nil
}

func (s *service) Create(ctx context.Context, userID, photoID uuid.UUID, req CreateRequest) (*CommentDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "text is required")
	}

	if _, err := s.findPhoto(ctx, photoID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PhotoID: photoID,
		UserID:  userID,
		Text:    text,
	}
	created, err := s.repo.Create(ctx, comment)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist comment")
	}

	s.trending.Invalidate(ctx, "comment_created")

	author, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load comment author")
	}
	created.User = author

	return FromModel(created), nil
}

func (s *service) ListByPhoto(ctx context.Context, photoID uuid.UUID, params pagination.Params) (*ListResult, error) {
	if _, err := s.findPhoto(ctx, photoID); err != nil {
		return nil, err
	}

	params = pagination.Normalize(params)
	rows, total, err := s.repo.ListByPhoto(ctx, photoID, params.Offset(), params.Limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list comments")
	}

	return &ListResult{
		Comments:   fromModels(rows),
		Pagination: pagination.MetaFor(params, int(total)),
	}, nil
}

// Delete allows either the comment author or the photo owner to remove a comment.
func (s *service) Delete(ctx context.Context, actorID, commentID uuid.UUID) error {
	if actorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}

	comment, err := s.repo.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "comment not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load comment")
	}

	if comment.UserID != actorID {
		photo, err := s.findPhoto(ctx, comment.PhotoID)
		if err != nil {
			return err
		}
		if photo.UserID != actorID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the author or photo owner may delete a comment")
		}
	}

	if err := s.repo.Delete(ctx, commentID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete comment")
	}

	s.trending.Invalidate(ctx, "comment_deleted")
	return nil
}

func (s *service) findPhoto(ctx context.Context, photoID uuid.UUID) (*models.Photo, error) {
	photo, err := s.photos.FindByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "photo not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load photo")
	}
	return photo, nil
}
