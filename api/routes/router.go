package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/photoshare/backend/api/controllers"
	"github.com/photoshare/backend/api/middleware"
	"github.com/photoshare/backend/internal/auth"
	"github.com/photoshare/backend/internal/comments"
	"github.com/photoshare/backend/internal/photos"
	"github.com/photoshare/backend/internal/ratings"
	"github.com/photoshare/backend/internal/trending"
	"github.com/photoshare/backend/internal/users"
	"github.com/photoshare/backend/pkg/auth/session"
	"github.com/photoshare/backend/pkg/config"
	"github.com/photoshare/backend/pkg/enums"
	"github.com/photoshare/backend/pkg/logger"
	"github.com/photoshare/backend/pkg/redis"
)

// RouterParams bundles everything the HTTP router needs.
type RouterParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       controllers.Pinger
	Redis    *redis.Client
	Sessions session.AccessSessionChecker
	Registry *prometheus.Registry

	Auth     auth.Service
	Trending trending.Service
	Photos   photos.Service
	Comments comments.Service
	Ratings  ratings.Service
	Users    *users.Repository
}

// NewRouter wires middleware, health checks, and the versioned API surface.
func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, p.DB, p.Redis))
	})

	if p.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).Post("/login", controllers.AuthLogin(p.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, p.Redis, logg)).Post("/register", controllers.AuthRegister(p.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(p.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(p.Auth, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public reads.
		r.Get("/trending", controllers.TrendingFeed(p.Trending, logg))
		r.Get("/photos", controllers.PhotosList(p.Photos, logg))
		r.Get("/photos/search", controllers.PhotosSearch(p.Photos, logg))
		r.Get("/photos/{photoId}", controllers.PhotosGet(p.Photos, logg))
		r.Get("/photos/{photoId}/comments", controllers.CommentsList(p.Comments, logg))
		r.Get("/users/{userId}", controllers.UsersGet(p.Users, logg))
		r.Get("/users/{userId}/photos", controllers.PhotosByUser(p.Photos, logg))

		// Authenticated writes.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, p.Sessions, logg))

			r.Get("/users/me", controllers.AuthMe(logg))
			r.Get("/photos/mine", controllers.PhotosMine(p.Photos, logg))
			r.Delete("/photos/{photoId}", controllers.PhotosDelete(p.Photos, logg))
			r.Post("/photos/{photoId}/comments", controllers.CommentsCreate(p.Comments, logg))
			r.Delete("/comments/{commentId}", controllers.CommentsDelete(p.Comments, logg))
			r.Post("/photos/{photoId}/ratings", controllers.RatingsCreate(p.Ratings, logg))

			// Upload surfaces are restricted to creators.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.UserRoleCreator), logg))
				r.Post("/photos/presign", controllers.PhotosPresign(p.Photos, logg))
				r.Post("/photos", controllers.PhotosCreate(p.Photos, logg))
			})
		})
	})

	return r
}
