package server

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/convite-api/internal/auth"
	"github.com/gravadigital/convite-api/internal/config"
	"github.com/gravadigital/convite-api/internal/handlers"
	"github.com/gravadigital/convite-api/internal/logger"
	"github.com/gravadigital/convite-api/internal/metrics"
	"github.com/gravadigital/convite-api/internal/middleware/events"
	"github.com/gravadigital/convite-api/internal/ratelimit"
	"github.com/gravadigital/convite-api/internal/realtime"
	"github.com/gravadigital/convite-api/internal/services"
	"github.com/gravadigital/convite-api/internal/storage"
)

// Dependencies are the collaborators the router is built from
type Dependencies struct {
	Services      *services.Services
	Storage       storage.Container
	Issuer        *auth.Issuer
	Hub           *realtime.Hub
	Metrics       *metrics.Metrics
	PublicLimiter ratelimit.Limiter
	UnlockLimiter ratelimit.Limiter
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	config     *config.Config
	deps       Dependencies
}

// New creates a new server instance
func New(cfg *config.Config, deps Dependencies) *Server {
	if deps.Issuer == nil {
		deps.Issuer = auth.NewIssuer(cfg.Auth.JWTSecret)
	}
	if deps.Hub == nil {
		deps.Hub = realtime.NewHub(16)
	}
	if deps.PublicLimiter == nil {
		deps.PublicLimiter = ratelimit.NewMemory(perMinute(cfg.RateLimit.PublicPerMinute, 30), time.Minute)
	}
	if deps.UnlockLimiter == nil {
		deps.UnlockLimiter = ratelimit.NewMemory(perMinute(cfg.RateLimit.UnlockPerMinute, 5), time.Minute)
	}
	return &Server{config: cfg, deps: deps}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              ":" + s.config.Server.Port,
		Handler:           s.Router(),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Get().Info("Starting HTTP server", "port", s.config.Server.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	logger.Get().Info("Shutting down HTTP server...")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

// Router configures the HTTP router with middleware and routes
func (s *Server) Router() *gin.Engine {
	if s.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.MaxMultipartMemory = s.config.Upload.MaxFileSize

	router.Use(events.CreateEvent())
	router.Use(gin.Recovery())
	if s.deps.Metrics != nil {
		router.Use(s.deps.Metrics.Middleware())
	}

	corsConfig := cors.DefaultConfig()
	origins := s.config.AllowedOrigins()
	if len(origins) == 0 || slices.Contains(origins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}
	if methods := s.config.AllowedMethods(); len(methods) > 0 {
		corsConfig.AllowMethods = methods
	}
	if headers := s.config.AllowedHeaders(); len(headers) > 0 {
		corsConfig.AllowHeaders = headers
	}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	router.GET("/ping", s.ping)
	if s.deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(s.deps.Metrics.Handler()))
	}

	s.setupAPIRoutes(router)
	return router
}

func (s *Server) ping(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.deps.Storage.Health(ctx); err != nil {
		logger.HTTP().Error("Health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"message": "Convite API is running",
			"status":  "unhealthy",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Convite API is running",
		"status":  "healthy",
	})
}

// setupAPIRoutes configures all API routes
func (s *Server) setupAPIRoutes(router *gin.Engine) {
	svc := s.deps.Services

	public := handlers.NewPublicHandler(svc)
	invitees := handlers.NewInviteeHandler(svc.Invitees)
	rsvps := handlers.NewRSVPHandler(svc.RSVPs)
	gifts := handlers.NewGiftHandler(svc.Gifts)
	settings := handlers.NewSettingsHandler(svc.Settings)
	admin := handlers.NewAdminHandler(svc.Reports, svc.Messages, svc.Dashboard)

	publicLimit := ratelimit.Middleware("public", s.deps.PublicLimiter)
	unlockLimit := ratelimit.Middleware("unlock", s.deps.UnlockLimiter)

	api := router.Group("/api")
	{
		api.GET("/invitation", public.GetInvitation)
		api.POST("/rsvp/lookup", publicLimit, public.LookupRSVP)
		api.POST("/rsvp", publicLimit, public.SubmitRSVP)
		api.POST("/manual/unlock", unlockLimit, public.UnlockManual)
		api.GET("/manual", public.GetManual)
		api.POST("/auth/login", unlockLimit, public.Login)

		protected := api.Group("/admin", auth.RequireScope(s.deps.Issuer, auth.ScopeAdmin))
		{
			inv := protected.Group("/invitees")
			{
				inv.GET("", invitees.List)
				inv.POST("", invitees.Create)
				inv.POST("/import", invitees.Import)
				inv.GET("/status", invitees.Status)
				inv.GET("/:id", invitees.Get)
				inv.PUT("/:id", invitees.Update)
				inv.DELETE("/:id", invitees.Delete)
			}

			rs := protected.Group("/rsvps")
			{
				rs.GET("", rsvps.List)
				rs.POST("", rsvps.Create)
				rs.POST("/import", rsvps.Import)
				rs.GET("/:id", rsvps.Get)
				rs.PUT("/:id", rsvps.Update)
				rs.DELETE("/:id", rsvps.Delete)
			}

			gf := protected.Group("/gifts")
			{
				gf.GET("", gifts.List)
				gf.POST("", gifts.Create)
				gf.PUT("/:id", gifts.Update)
				gf.DELETE("/:id", gifts.Delete)
				gf.POST("/:id/image", gifts.UploadImage)
			}

			protected.GET("/settings/event", settings.GetEvent)
			protected.PUT("/settings/event", settings.SaveEvent)
			protected.GET("/settings/manual", settings.GetManual)
			protected.PUT("/settings/manual", settings.SaveManual)
			protected.GET("/manual/images", settings.ListImages)
			protected.POST("/manual/images", settings.UploadImage)
			protected.DELETE("/manual/images/:id", settings.DeleteImage)

			protected.GET("/reports/:kind", admin.Report)
			protected.POST("/messages/generate", admin.GenerateMessage)
			protected.GET("/dashboard", admin.Dashboard)

			gateway := realtime.NewGateway(s.deps.Hub, func(ctx context.Context) (any, error) {
				return svc.Dashboard.Snapshot(ctx)
			}, originPatterns(s.config.AllowedOrigins()))
			protected.GET("/live", gin.WrapH(gateway))
		}
	}
}

func perMinute(configured, fallback int) int {
	if configured > 0 {
		return configured
	}
	return fallback
}

// originPatterns turns CORS origins into the host patterns the websocket
// handshake checks
func originPatterns(origins []string) []string {
	var out []string
	for _, o := range origins {
		if o == "*" {
			return []string{"*"}
		}
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			out = append(out, u.Host)
		}
	}
	return out
}
