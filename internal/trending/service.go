package trending

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/photoshare/backend/pkg/config"
	pkgerrors "github.com/photoshare/backend/pkg/errors"
	"github.com/photoshare/backend/pkg/logger"
	"github.com/photoshare/backend/pkg/metrics"
	"github.com/photoshare/backend/pkg/pagination"
)

// Service serves the engagement-ranked feed through the cache-aside window.
type Service interface {
	Feed(ctx context.Context, params pagination.Params) (*FeedPage, error)
	Invalidate(ctx context.Context, reason string)
}

type windowCache interface {
	GetWindow(ctx context.Context) ([]PhotoDTO, error)
	SetWindow(ctx context.Context, window []PhotoDTO) error
	Invalidate(ctx context.Context) error
}

type windowRepository interface {
	RankedWindow(ctx context.Context, limit int) ([]PhotoDTO, error)
}

type service struct {
	cache      windowCache
	repo       windowRepository
	logg       *logger.Logger
	cacheStats *metrics.TrendingCacheMetrics
	windowSize int
	pageSize   int
}

// ServiceParams bundles the dependencies required to build the trending service.
type ServiceParams struct {
	Cache   windowCache
	Repo    windowRepository
	Logger  *logger.Logger
	Metrics *metrics.TrendingCacheMetrics
	Config  config.TrendingConfig
}

// NewService constructs the trending feed service.
func NewService(params ServiceParams) (Service, error) {
	if params.Cache == nil {
		return nil, fmt.Errorf("trending cache is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("trending repository is required")
	}
	windowSize := params.Config.WindowSize
	if windowSize <= 0 {
		return nil, fmt.Errorf("trending window size must be positive")
	}
	pageSize := params.Config.DefaultPageSize
	if pageSize <= 0 {
		pageSize = pagination.DefaultLimit
	}
	return &service{
		cache:      params.Cache,
		repo:       params.Repo,
		logg:       params.Logger,
		cacheStats: params.Metrics,
		windowSize: windowSize,
		pageSize:   pageSize,
	}, nil
}

// Feed returns the requested page of the ranked window. Cache reads fail open:
// a backend error is logged and treated as a miss so the feed stays available.
func (s *service) Feed(ctx context.Context, params pagination.Params) (*FeedPage, error) {
	if params.Limit <= 0 {
		params.Limit = s.pageSize
	}
	params = pagination.Normalize(params)

	window, err := s.cache.GetWindow(ctx)
	if err == nil {
		s.cacheStats.IncHit()
		return s.pageFrom(window, params), nil
	}

	if !errors.Is(err, ErrCacheMiss) {
		s.cacheStats.IncFailure("get")
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "cache_error", err.Error()), "trending.cache.read_failed")
		}
	}
	s.cacheStats.IncMiss()

	start := time.Now()
	window, err = s.repo.RankedWindow(ctx, s.windowSize)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rebuild trending window")
	}
	s.cacheStats.ObserveRebuild(time.Since(start))

	if err := s.cache.SetWindow(ctx, window); err != nil {
		// Serving from the fresh window still works; the next request rebuilds again.
		s.cacheStats.IncFailure("set")
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "cache_error", err.Error()), "trending.cache.write_failed")
		}
	}

	return s.pageFrom(window, params), nil
}

// Invalidate drops the cached window after an engagement-changing write.
// Failures are logged, not surfaced: the TTL bounds staleness.
func (s *service) Invalidate(ctx context.Context, reason string) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.cacheStats.IncFailure("del")
		if s.logg != nil {
			fields := map[string]any{"reason": reason, "cache_error": err.Error()}
			s.logg.Warn(s.logg.WithFields(ctx, fields), "trending.cache.invalidate_failed")
		}
		return
	}
	s.cacheStats.IncInvalidation(reason)
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "reason", reason), "trending.cache.invalidated")
	}
}

// Totals always describe the ranked window, not the whole photos table, so
// cached and rebuilt reads paginate identically.
func (s *service) pageFrom(window []PhotoDTO, params pagination.Params) *FeedPage {
	return &FeedPage{
		Photos:     pagination.Window(window, params),
		Pagination: pagination.MetaFor(params, len(window)),
	}
}
