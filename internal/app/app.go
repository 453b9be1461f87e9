package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/smartblog/server/internal/module/account"
	"github.com/smartblog/server/internal/module/ai"
	aiprovider "github.com/smartblog/server/internal/module/ai/provider"
	"github.com/smartblog/server/internal/module/ai/usage"
	"github.com/smartblog/server/internal/module/blog"
	sharedcache "github.com/smartblog/server/internal/shared/cache"
	"github.com/smartblog/server/internal/shared/config"
	"github.com/smartblog/server/internal/shared/database"
	"github.com/smartblog/server/internal/shared/logger"
	"github.com/smartblog/server/internal/shared/metrics"
	"github.com/smartblog/server/internal/shared/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App represents the application.
type App struct {
	config    *config.Config
	db        *gorm.DB
	redis     redis.UniversalClient
	router    *gin.Engine
	logger    *logger.Logger
	zapLogger *zap.Logger
	metrics   *metrics.Metrics

	jwtManager     *account.JWTManager
	accountHandler *account.Handler
	blogHandler    *blog.Handler
	aiModule       *ai.Module
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	log := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	zapLog, err := logger.NewZapLogger(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("init zap logger: %w", err)
	}

	app := &App{
		config:    cfg,
		logger:    log,
		zapLogger: zapLog,
		metrics:   metrics.New(""),
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	app.db = db

	if err := db.AutoMigrate(
		&account.User{},
		&account.Follow{},
		&blog.Post{},
		&blog.Tag{},
		&blog.Comment{},
		&blog.Like{},
		&usage.Event{},
	); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	// Redis is optional; without it AI endpoints run unthrottled.
	if cfg.Redis.Address != "" {
		redisClient, err := sharedcache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Warn("redis connection failed, rate limiting disabled", logger.Err(err))
		} else {
			app.redis = redisClient
		}
	}

	app.initModules()
	app.router = app.setupRouter()
	app.registerRoutes()

	return app, nil
}

// initModules initializes all application modules.
func (a *App) initModules() {
	a.jwtManager = account.NewJWTManager(&account.JWTConfig{
		Secret:            a.config.Auth.JWTSecret,
		AccessTokenExpiry: a.config.Auth.AccessTokenExpiry,
	})

	accountRepo := account.NewRepository(a.db)
	accountService := account.NewService(accountRepo, a.jwtManager, a.logger)
	a.accountHandler = account.NewHandler(accountService)

	blogRepo := blog.NewRepository(a.db)
	blogService := blog.NewService(blogRepo, a.logger)
	a.blogHandler = blog.NewHandler(blogService)

	a.aiModule = ai.NewModule(ai.Config{
		DB: a.db,
		Provider: aiprovider.Config{
			APIKey:      a.config.AI.APIKey,
			Model:       a.config.AI.Model,
			MaxTokens:   a.config.AI.MaxTokens,
			Temperature: float32(a.config.AI.Temperature),
			Timeout:     a.config.AI.RequestTimeout,
		},
		Metrics: a.metrics,
		Logger:  a.logger,
		Zap:     a.zapLogger,
	})
}

// setupRouter creates and configures the Gin router.
func (a *App) setupRouter() *gin.Engine {
	if a.config.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middleware.Recovery(a.logger))
	r.Use(middleware.Logging(a.logger))
	r.Use(middleware.Metrics(a.metrics))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "ai_mode": a.aiModule.Service().Mode().String()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

// registerRoutes mounts the module routes.
func (a *App) registerRoutes() {
	validate := func(token string) (*middleware.JWTClaims, error) {
		claims, err := a.jwtManager.ValidateAccessToken(token)
		if err != nil {
			return nil, err
		}
		return &middleware.JWTClaims{UserID: claims.UserID, Username: claims.Username}, nil
	}

	api := a.router.Group("/api")

	public := api.Group("")
	public.Use(middleware.OptionalAuth(validate))
	a.accountHandler.RegisterRoutes(public)
	a.blogHandler.RegisterRoutes(public)

	protected := api.Group("")
	protected.Use(middleware.RequireAuth(validate))
	a.accountHandler.RegisterProtectedRoutes(protected)
	a.blogHandler.RegisterProtectedRoutes(protected)

	aiGroup := api.Group("")
	aiGroup.Use(middleware.RequireAuth(validate))
	if a.redis != nil {
		limiter := sharedcache.NewRateLimiter(a.redis)
		aiGroup.Use(middleware.RateLimit(limiter, "ai", a.config.AI.RateLimit, a.config.AI.RateWindow))
	}
	a.aiModule.RegisterRoutes(aiGroup)
}

// Router returns the HTTP router.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Stop releases application resources.
func (a *App) Stop() {
	if a.redis != nil {
		if err := sharedcache.Close(a.redis); err != nil {
			a.logger.Warn("redis close failed", logger.Err(err))
		}
	}
	if a.db != nil {
		if err := database.Close(a.db); err != nil {
			a.logger.Warn("database close failed", logger.Err(err))
		}
	}
	_ = a.zapLogger.Sync()
}
