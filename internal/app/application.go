package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"kirin-dashboard/internal/background"
	"kirin-dashboard/internal/client"
	"kirin-dashboard/internal/config"
	"kirin-dashboard/internal/editor"
	"kirin-dashboard/internal/handlers"
	"kirin-dashboard/internal/middleware"
	"kirin-dashboard/internal/models"
	"kirin-dashboard/internal/repository"
	"kirin-dashboard/internal/sections"
	"kirin-dashboard/internal/seed"
	"kirin-dashboard/internal/service"
	"kirin-dashboard/internal/session"
	"kirin-dashboard/pkg/cache"
	"kirin-dashboard/pkg/logger"
	"kirin-dashboard/pkg/validator"
)

const sessionReaperJob = "session-reaper"

// Backend is everything the dashboard needs from the CMS.
type Backend interface {
	service.CMSAuth
	service.MediaLibrary
}

// Options replaces parts of the wiring, mainly for tests. Unset fields are
// built from the config.
type Options struct {
	Backend Backend
	Source  session.SourceFunc
}

type Application struct {
	cfg     *config.Config
	options Options

	db        *gorm.DB
	cache     *cache.Cache
	scheduler *background.Scheduler
	limits    *middleware.RateLimitManager
	cancel    context.CancelFunc

	sessions *session.Manager
	tokens   *session.Tokens

	services serviceContainer
	handlers handlerContainer

	router *gin.Engine
	server *http.Server
}

type serviceContainer struct {
	Auth  *service.AuthService
	Media *service.MediaService
	Draft *service.DraftService
}

type handlerContainer struct {
	Auth    *handlers.AuthHandler
	Editor  *handlers.EditorHandler
	Section *handlers.SectionHandler
	Events  *handlers.EventsHandler
	Media   *handlers.MediaHandler
	Draft   *handlers.DraftHandler
}

func New(cfg *config.Config, opts Options) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	validator.Init()

	app := &Application{
		cfg:     cfg,
		options: opts,
	}

	if cfg.EnableDrafts {
		if err := app.initDatabase(); err != nil {
			return nil, err
		}
		if err := app.runMigrations(); err != nil {
			return nil, err
		}
	}

	app.initCache()

	if err := app.initBackend(); err != nil {
		return nil, err
	}

	app.initSessions()
	app.initServices()
	app.initHandlers()

	ctx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel
	app.limits = middleware.NewRateLimitManager(ctx)

	if err := app.initScheduler(ctx); err != nil {
		cancel()
		return nil, err
	}

	app.initRouter()

	app.server = &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        app.router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	return app, nil
}

func (a *Application) Run() error {
	logger.Info("Server starting", map[string]interface{}{
		"port":        a.cfg.Port,
		"environment": a.cfg.Environment,
		"cms_api":     a.cfg.CMSAPIURL,
		"demo_mode":   a.cfg.DemoMode,
	})

	return a.server.ListenAndServe()
}

func (a *Application) Shutdown(ctx context.Context) error {
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			return err
		}
	}

	if a.scheduler != nil {
		if err := a.scheduler.Shutdown(ctx); err != nil {
			logger.Error(err, "Failed to stop background scheduler", nil)
		}
	}

	if a.limits != nil {
		_ = a.limits.Shutdown()
	}
	if a.cancel != nil {
		a.cancel()
	}

	if a.sessions != nil {
		a.sessions.Close()
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			logger.Error(err, "Failed to close cache connection", nil)
		}
	}

	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			sqlDB.Close()
		}
	}

	return nil
}

func (a *Application) Router() *gin.Engine {
	return a.router
}

func (a *Application) initDatabase() error {
	logger.Info("Connecting to database", nil)

	db, err := gorm.Open(postgres.Open(a.cfg.DatabaseURL), &gorm.Config{
		Logger: logger.NewGormLogger(),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(time.Hour)

	a.db = db
	return nil
}

func (a *Application) runMigrations() error {
	logger.Info("Running database migrations", nil)

	if err := a.db.AutoMigrate(&models.Draft{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("Database migration completed", nil)
	return nil
}

// initCache falls back to a disabled cache when Redis is unreachable.
func (a *Application) initCache() {
	c, err := cache.NewCache(a.cfg.RedisURL, a.cfg.EnableRedis)
	if err != nil {
		logger.Error(err, "Redis unavailable, continuing without cache", map[string]interface{}{"addr": a.cfg.RedisURL})
		c, _ = cache.NewCache("", false)
	}
	a.cache = c
}

func (a *Application) initBackend() error {
	if a.options.Backend != nil && a.options.Source != nil {
		return nil
	}

	if a.cfg.DemoMode {
		data, err := seed.Demo()
		if err != nil {
			return err
		}
		demo := seed.NewBackend(data)
		a.options.Backend = demo
		a.options.Source = demo.Source
		logger.Info("Serving embedded demo content", map[string]interface{}{"pages": len(data.Pages)})
		return nil
	}

	api := client.New(client.Options{
		BaseURL:    a.cfg.CMSAPIURL,
		Timeout:    a.cfg.APITimeout,
		RatePerSec: a.cfg.APIRatePerSec,
		Burst:      a.cfg.APIBurst,
	})
	a.options.Backend = api
	a.options.Source = func(token string) editor.Source {
		return api.Source(token).WithCache(a.cache, a.cfg.PageCacheTTL)
	}
	return nil
}

func (a *Application) initSessions() {
	a.tokens = session.NewTokens(a.cfg.SessionSecret, a.cfg.SessionTTL)
	a.sessions = session.NewManager(session.Options{
		TTL:        a.cfg.SessionTTL,
		Transition: a.cfg.TransitionDuration,
		Source:     a.options.Source,
	})
}

func (a *Application) initServices() {
	var drafts repository.DraftRepository
	if a.db != nil {
		drafts = repository.NewDraftRepository(a.db)
	}

	a.services = serviceContainer{
		Auth:  service.NewAuthService(a.options.Backend, a.sessions, a.tokens, a.cache, a.cfg.ProfileCacheTTL),
		Media: service.NewMediaService(a.options.Backend, a.cfg.MaxUploadSize),
		Draft: service.NewDraftService(drafts),
	}
}

func (a *Application) initHandlers() {
	a.handlers = handlerContainer{
		Auth: handlers.NewAuthHandler(a.services.Auth, a.tokens, a.sessions, handlers.CookieConfig{
			Name:   a.cfg.SessionCookieName,
			Secure: a.cfg.SessionCookieSecure,
			TTL:    a.cfg.SessionTTL,
		}),
		Editor:  handlers.NewEditorHandler(),
		Section: handlers.NewSectionHandler(sections.DefaultRegistry(), sections.NewHTMLContext()),
		Events:  handlers.NewEventsHandler(a.cfg.CORSOrigins),
		Media:   handlers.NewMediaHandler(a.services.Media),
		Draft:   handlers.NewDraftHandler(a.services.Draft),
	}
}

// initScheduler starts the idle session reaper.
func (a *Application) initScheduler(ctx context.Context) error {
	a.scheduler = background.NewScheduler()
	a.scheduler.Start(ctx)

	interval := a.cfg.ReaperInterval
	if interval <= 0 {
		interval = time.Minute
	}

	return a.scheduler.Every(background.Task{
		Name:    sessionReaperJob,
		Every:   interval,
		Timeout: 10 * time.Second,
		Run: func(ctx context.Context) error {
			if removed := a.sessions.Reap(time.Now()); removed > 0 {
				logger.Info("Reaped idle editor sessions", map[string]interface{}{"count": removed, "active": a.sessions.Len()})
			}
			return nil
		},
	})
}

func (a *Application) initRouter() {
	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.MaxMultipartMemory = a.cfg.MaxUploadSize
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(logger.GinLogger())
	if a.cfg.EnableMetrics {
		router.Use(middleware.MetricsMiddleware())
	}
	router.Use(middleware.SecurityHeadersMiddleware([]string{a.cfg.CMSAPIURL}))
	router.Use(middleware.RateLimitMiddleware(a.limits, middleware.Limit{
		Requests:      a.cfg.RateLimitRequests,
		WindowSeconds: a.cfg.RateLimitWindow,
		Burst:         a.cfg.RateLimitBurst,
	}))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"sessions": a.sessions.Len(),
			"demo":     a.cfg.DemoMode,
			"drafts":   a.services.Draft.Enabled(),
			"cache":    a.cache.Enabled(),
		})
	})

	if a.cfg.EnableMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	requireSession := middleware.SessionMiddleware(a.cfg.SessionCookieName, a.tokens, a.sessions)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", a.handlers.Auth.Login)
			auth.POST("/logout", a.handlers.Auth.Logout)
			auth.GET("/me", requireSession, a.handlers.Auth.Me)
		}

		protected := api.Group("")
		protected.Use(requireSession)

		ed := protected.Group("/editor")
		{
			ed.GET("/state", a.handlers.Editor.State)
			ed.GET("/events", a.handlers.Events.Stream)
			ed.GET("/section-types", a.handlers.Section.Types)
			ed.GET("/preview", a.handlers.Section.Preview)
			ed.POST("/seo", a.handlers.Section.SEO)

			ed.GET("/pages", a.handlers.Editor.Pages)
			ed.POST("/pages/:pageId/select", a.handlers.Editor.SelectPage())

			ed.POST("/sections", a.handlers.Editor.AddSection)
			ed.POST("/sections/reorder", a.handlers.Editor.Reorder())
			ed.DELETE("/sections/:sectionId", a.handlers.Editor.DeleteSection())
			ed.POST("/sections/:sectionId/select", a.handlers.Editor.SelectSection())
			ed.DELETE("/selection", a.handlers.Editor.ClearSelection())
			ed.POST("/drag", a.handlers.Editor.Drag())

			ed.PUT("/section/type", a.handlers.Editor.ChangeType())
			ed.PUT("/section/title", a.handlers.Editor.UpdateTitle())
			ed.PATCH("/section/content", a.handlers.Editor.UpdateContent())

			ed.POST("/carousel/next", a.handlers.Editor.Next())
			ed.POST("/carousel/prev", a.handlers.Editor.Prev())
			ed.POST("/carousel/animation-done", a.handlers.Editor.AnimationDone())
			ed.POST("/carousel/goto/:index", a.handlers.Editor.GoTo())
			ed.POST("/carousel/touch", a.handlers.Editor.Touch)
			ed.POST("/carousel/slides", a.handlers.Editor.AddSlide)
			ed.PATCH("/carousel/slides/:index", a.handlers.Editor.UpdateSlide())
			ed.DELETE("/carousel/slides/:index", a.handlers.Editor.RemoveSlide)

			ed.POST("/gallery/images", a.handlers.Editor.AddImage)
			ed.DELETE("/gallery/images/:imageId", a.handlers.Editor.RemoveImage())

			ed.GET("/media", a.handlers.Editor.Media)

			ed.GET("/drafts", a.handlers.Draft.List)
			ed.POST("/drafts", a.handlers.Draft.Save)
			ed.POST("/drafts/restore", a.handlers.Draft.Restore)
			ed.DELETE("/drafts/:pageId", a.handlers.Draft.Discard)
		}

		media := protected.Group("/media")
		{
			media.GET("", a.handlers.Media.List)
			media.PUT("/:id", a.handlers.Media.Update)
			media.DELETE("/:id", a.handlers.Media.Delete)
			media.POST("/upload", middleware.UploadRateLimitMiddleware(a.limits), a.handlers.Media.Upload)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Route not found",
				"path":  c.Request.URL.Path,
			})
			return
		}
		c.String(http.StatusNotFound, "404 page not found")
	})

	a.router = router
}
