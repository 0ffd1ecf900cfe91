// Package httpapi exposes the JSON API over gin.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/linkfolio/internal/logging"
	"github.com/dmitrijs2005/linkfolio/internal/server/auth"
	"github.com/dmitrijs2005/linkfolio/internal/server/directory"
	"github.com/dmitrijs2005/linkfolio/internal/server/metrics"
	"github.com/dmitrijs2005/linkfolio/internal/server/models"
	"github.com/dmitrijs2005/linkfolio/internal/server/ratelimit"
	"github.com/dmitrijs2005/linkfolio/internal/server/services"
	"github.com/gin-gonic/gin"
)

// AuthAPI is the account lifecycle the /auth routes drive.
type AuthAPI interface {
	Register(ctx context.Context, r services.Registration) (*services.Session, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, ownerID, refreshToken string) error
	Me(ctx context.Context, ownerID string) (*services.Session, error)
}

type ProfileAPI interface {
	Get(ctx context.Context, ownerID string) (*models.Profile, error)
	GetPublic(ctx context.Context, username string) (*services.PublicProfile, error)
	Update(ctx context.Context, ownerID string, upd models.ProfileUpdate) (*models.Profile, error)
	Delete(ctx context.Context, ownerID string) error
	StartAvatarUpload(ctx context.Context, ownerID, contentType string) (*services.AvatarUpload, error)
	ConfirmAvatar(ctx context.Context, ownerID, key string) (*models.Profile, error)
}

type LinkAPI interface {
	Create(ctx context.Context, ownerID string, in services.NewLink) (*models.Link, error)
	List(ctx context.Context, ownerID string) ([]*models.Link, error)
	Update(ctx context.Context, ownerID, id string, upd models.LinkUpdate) (*models.Link, error)
	Delete(ctx context.Context, ownerID, id string) error
	Click(ctx context.Context, username, id string) error
}

type DirectoryAPI interface {
	Search(ctx context.Context, q directory.Query) (*directory.Page, error)
}

type CredentialResolver interface {
	Resolve(ctx context.Context, bearer string) (auth.Identity, error)
}

// Deps are the collaborators of the HTTP server. Limiter and Ping may be nil.
type Deps struct {
	Auth           AuthAPI
	Profiles       ProfileAPI
	Links          LinkAPI
	Directory      DirectoryAPI
	Resolver       CredentialResolver
	Limiter        ratelimit.Limiter
	Metrics        *metrics.Metrics
	Logger         logging.Logger
	CORSOrigins    []string
	RequestTimeout time.Duration
	Ping           func(ctx context.Context) error
}

type Server struct {
	auth           AuthAPI
	profiles       ProfileAPI
	links          LinkAPI
	directory      DirectoryAPI
	resolver       CredentialResolver
	limiter        ratelimit.Limiter
	metrics        *metrics.Metrics
	logger         logging.Logger
	corsOrigins    []string
	requestTimeout time.Duration
	ping           func(ctx context.Context) error
	router         *gin.Engine
}

func NewServer(d Deps) *Server {
	registerValidators()

	s := &Server{
		auth:           d.Auth,
		profiles:       d.Profiles,
		links:          d.Links,
		directory:      d.Directory,
		resolver:       d.Resolver,
		limiter:        d.Limiter,
		metrics:        d.Metrics,
		logger:         d.Logger.With("module", "http"),
		corsOrigins:    d.CORSOrigins,
		requestTimeout: d.RequestTimeout,
		ping:           d.Ping,
		router:         gin.New(),
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	if s.requestTimeout <= 0 {
		s.requestTimeout = 10 * time.Second
	}

	r := s.router
	r.Use(gin.Recovery())
	r.Use(s.metricsMiddleware())
	r.Use(s.loggingMiddleware())
	r.Use(s.corsMiddleware())

	r.GET("/healthz", s.health)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := r.Group("/api")
	api.Use(s.rateLimitMiddleware())
	{
		api.POST("/auth/register", s.register)
		api.POST("/auth/login", s.login)
		api.POST("/auth/refresh", s.refresh)

		api.GET("/users", s.listUsers)
		api.GET("/users/:username", s.getPublicProfile)
		api.POST("/users/:username/links/:id/click", s.clickLink)

		authed := api.Group("")
		authed.Use(s.authMiddleware())
		{
			authed.POST("/auth/logout", s.logout)
			authed.GET("/auth/me", s.me)

			authed.GET("/profile", s.getProfile)
			authed.PATCH("/profile", s.updateProfile)
			authed.DELETE("/profile", s.deleteProfile)
			authed.POST("/profile/avatar", s.startAvatarUpload)
			authed.PUT("/profile/avatar", s.confirmAvatar)

			authed.POST("/links", s.createLink)
			authed.GET("/links", s.listLinks)
			authed.PATCH("/links/:id", s.updateLink)
			authed.DELETE("/links/:id", s.deleteLink)
		}
	}

	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) ctx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), s.requestTimeout)
}

// ownerID is the identity the auth middleware resolved for this request.
func ownerID(c *gin.Context) string {
	id, _ := auth.IdentityFromContext(c.Request.Context())
	return id.OwnerID
}

func (s *Server) health(c *gin.Context) {
	if s.ping != nil {
		ctx, cancel := s.ctx(c)
		defer cancel()
		if err := s.ping(ctx); err != nil {
			s.logger.Error(ctx, "health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
