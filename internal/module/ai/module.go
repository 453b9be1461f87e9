package ai

import (
	"github.com/gin-gonic/gin"
	"github.com/smartblog/server/internal/module/ai/assist"
	"github.com/smartblog/server/internal/module/ai/handler"
	"github.com/smartblog/server/internal/module/ai/provider"
	"github.com/smartblog/server/internal/module/ai/usage"
	"github.com/smartblog/server/internal/shared/logger"
	"github.com/smartblog/server/internal/shared/metrics"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Module assembles the AI assistance feature set.
type Module struct {
	usageRepo usage.Repository
	recorder  *usage.Recorder
	service   *assist.Service
	handler   *handler.Handler
}

// Config contains module configuration.
type Config struct {
	DB       *gorm.DB
	Provider provider.Config
	Metrics  *metrics.Metrics
	Logger   *logger.Logger
	Zap      *zap.Logger
}

// NewModule wires the AI module. With no provider credential the
// service comes up degraded and every feature serves fallbacks.
func NewModule(cfg Config) *Module {
	usageRepo := usage.NewRepository(cfg.DB)
	recorder := usage.NewRecorder(usageRepo, cfg.Zap)
	service := assist.NewService(cfg.Provider, recorder, cfg.Metrics, cfg.Logger)

	return &Module{
		usageRepo: usageRepo,
		recorder:  recorder,
		service:   service,
		handler:   handler.NewHandler(service, recorder, cfg.Logger),
	}
}

// Service returns the assistance service.
func (m *Module) Service() *assist.Service {
	return m.service
}

// RegisterRoutes registers the AI routes on an authenticated group.
func (m *Module) RegisterRoutes(r *gin.RouterGroup) {
	m.handler.RegisterRoutes(r)
}
