package http

import (
	"context"
	stdhttp "net/http"

	"select-studio/internal/auth"
	"select-studio/internal/config"
	"select-studio/internal/http/handler"
	"select-studio/internal/http/middleware"
	"select-studio/internal/repository/postgres"
	"select-studio/internal/selection"
	"select-studio/internal/storage/s3"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

const (
	jsonKeyStatus    = "status"
	statusOK         = "ok"
	requestBodyLimit = "1M"
)

type ServerDependencies struct {
	Config         *config.Config
	ProjectRepo    *postgres.ProjectRepository
	S3Client       *s3.Client
	Coordinators   *selection.Manager
	Notifier       handler.Notifier
	JWTService     *auth.JWTService
	Credentials    *auth.Credentials
	AuthMiddleware *auth.Middleware
}

type Server struct {
	echo *echo.Echo
	deps *ServerDependencies
}

func NewServer(deps *ServerDependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Set custom HTTP error handler
	e.HTTPErrorHandler = CustomHTTPErrorHandler

	e.Server.ReadTimeout = deps.Config.Server.ReadTimeout
	e.Server.WriteTimeout = deps.Config.Server.WriteTimeout

	// Request ID middleware (first, so all logs have request ID)
	e.Use(middleware.RequestID())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.BodyLimit(requestBodyLimit))

	// Global rate limiting
	globalRateLimiter := middleware.NewGlobalRateLimiter()
	e.Use(globalRateLimiter.Middleware())

	// Strict rate limiting for auth and checkout endpoints
	strictRateLimiter := middleware.NewStrictRateLimiter()

	authHandler := handler.NewAuthHandler(deps.Credentials, deps.JWTService)
	galleryHandler := handler.NewGalleryHandler(deps.ProjectRepo, deps.S3Client, deps.Coordinators, deps.Config.App.ExtraRetouchPriceCents)
	adminHandler := handler.NewAdminHandler(deps.ProjectRepo, deps.S3Client, deps.Notifier)

	e.POST("/auth/login", authHandler.Login, strictRateLimiter.Middleware())
	e.GET("/health", healthCheck)

	// Client gallery: the project id in the URL is the capability. The
	// optional bearer token only switches the photographer into view mode.
	gallery := e.Group("/gallery")
	gallery.Use(deps.AuthMiddleware.OptionalAdmin())

	gallery.GET("/:project_id", galleryHandler.GetGallery)
	gallery.PUT("/:project_id/selections", galleryHandler.SaveDraft)
	gallery.PUT("/:project_id/selections/:asset_id", galleryHandler.SelectAsset)
	gallery.DELETE("/:project_id/selections/:asset_id", galleryHandler.DeselectAsset)
	gallery.POST("/:project_id/selections/bulk", galleryHandler.BulkApply)
	gallery.POST("/:project_id/submit", galleryHandler.Submit, strictRateLimiter.Middleware())
	gallery.POST("/:project_id/extra-retouches", galleryHandler.BuyExtraRetouch, strictRateLimiter.Middleware())
	gallery.DELETE("/:project_id/extra-retouches", galleryHandler.RemoveExtraRetouch, strictRateLimiter.Middleware())
	gallery.GET("/:project_id/downloads", galleryHandler.ListDownloads)

	// Photographer API
	api := e.Group("/api")
	api.Use(deps.AuthMiddleware.RequireAdmin())

	api.GET("/projects", adminHandler.ListProjects)
	api.POST("/projects", adminHandler.CreateProject)
	api.GET("/projects/:id", adminHandler.GetProject)
	api.POST("/projects/:id/assets", adminHandler.AppendAssets)
	api.POST("/projects/:id/deliver", adminHandler.DeliverFinals)

	return &Server{
		echo: e,
		deps: deps,
	}
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func healthCheck(c echo.Context) error {
	return c.JSON(stdhttp.StatusOK, map[string]string{
		jsonKeyStatus: statusOK,
	})
}
