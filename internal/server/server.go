package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	appapi "github.com/yockii/parish_tools/internal/api_app"
	sysapi "github.com/yockii/parish_tools/internal/api_sys"
	"github.com/yockii/parish_tools/internal/middleware"
	"github.com/yockii/parish_tools/internal/service"
	"github.com/yockii/parish_tools/pkg/config"
	"github.com/yockii/parish_tools/pkg/logger"
)

type Server struct {
	app    *fiber.App
	db     *gorm.DB
	rdb    *redis.Client
	reg    *prometheus.Registry
	cancel context.CancelFunc

	metrics *service.Metrics

	logSrv             service.LogService
	fieldDefinitionSrv service.FieldDefinitionService
	scriptSrv          service.ScriptService
	sectionSrv         service.SectionService
	eventSrv           service.EntityFetcher
	exportSrv          service.ExportService
	rosterSrv          service.RosterService
	rateLimiter        service.RateLimiter
}

func New(db *gorm.DB) *Server {
	return &Server{db: db}
}

func (s *Server) Start() error {
	s.build()

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.cleanupLogs(ctx)

	addr := config.GetServerAddress()
	logger.Info("server listening", logger.F("address", addr))

	go s.gracefulShutdown()

	if err := s.app.Listen(addr); err != nil {
		logger.Error("server stopped", logger.F("error", err))
		return err
	}
	return nil
}

// build wires services, middleware and routes into a new fiber app.
func (s *Server) build() *fiber.App {
	s.app = fiber.New(fiber.Config{
		AppName:               config.GetString("server.app_name"),
		EnablePrintRoutes:     config.GetBool("server.print_routes"),
		DisableStartupMessage: true,
	})

	s.setupServices()
	s.setupMiddleware()

	s.registerSysHandler()
	s.registerAppHandler()

	s.setupSystemRoutesV1()
	s.setupApplicationRoutesV1()
	return s.app
}

func (s *Server) gracefulShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down")
	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.app.ShutdownWithContext(ctx); err != nil {
		logger.Error("server shutdown failed", logger.F("error", err))
	}
	if s.rdb != nil {
		s.rdb.Close()
	}

	logger.Info("server stopped")
}

func (s *Server) setupServices() {
	s.reg = prometheus.NewRegistry()
	s.reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	s.metrics = service.NewMetrics(s.reg)

	s.logSrv = service.NewLogService(s.db)
	s.fieldDefinitionSrv = service.NewFieldDefinitionService(s.db)
	s.scriptSrv = service.NewScriptService(s.db, s.fieldDefinitionSrv)
	s.sectionSrv = service.NewSectionService(s.db)
	s.eventSrv = service.NewEventService(s.db, s.fieldDefinitionSrv)

	locale := config.GetString("render.locale")
	s.exportSrv = service.NewExportService(
		s.eventSrv,
		s.fieldDefinitionSrv,
		s.scriptSrv,
		service.TypographyFromConfig(),
		locale,
		s.metrics,
	)
	s.rosterSrv = service.NewRosterService(s.eventSrv, s.fieldDefinitionSrv, locale)

	if config.GetBool("rate_limit.enabled") {
		s.rdb = service.NewRedisClient()
		s.rateLimiter = service.NewRedisRateLimiter(s.rdb, service.LimitsFromConfig(service.RateLimitClassExport))
	}
}

func (s *Server) setupMiddleware() {
	s.app.Use(recover.New())

	s.app.Use(cors.New(cors.Config{
		AllowOrigins:  config.GetString("security.allowed_origins"),
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders: fiber.HeaderContentDisposition,
	}))

	s.app.Use(middleware.RequestLogger())

	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	if config.GetBool("metrics.enabled") {
		s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{})))
	}
}

func (s *Server) authMiddleware() fiber.Handler {
	return middleware.NewAuthMiddleware(config.GetJWTSecret(), config.GetString("jwt.caller_claim"), nil)
}

func (s *Server) registerSysHandler() {
	sysapi.Handlers = nil
	sysapi.RegisterScriptHandler(s.scriptSrv, s.logSrv)
	sysapi.RegisterSectionHandler(s.sectionSrv, s.logSrv)
	sysapi.RegisterFieldDefinitionHandler(s.fieldDefinitionSrv, s.logSrv)
	sysapi.RegisterLogHandler(s.logSrv)
}

func (s *Server) setupSystemRoutesV1() {
	apiGroup := s.app.Group("/sys_api/v1")
	auth := s.authMiddleware()
	for _, handler := range sysapi.Handlers {
		handler.RegisterRoutes(apiGroup, auth)
	}
}

func (s *Server) registerAppHandler() {
	appapi.Handlers = nil
	appapi.RegisterExportHandler(s.exportSrv, s.rosterSrv, s.logSrv)
}

func (s *Server) setupApplicationRoutesV1() {
	chain := []fiber.Handler{s.authMiddleware()}
	if s.rateLimiter != nil {
		chain = append(chain, middleware.RateLimit(s.rateLimiter, service.RateLimitClassExport, s.metrics))
	}
	appApiGroup := s.app.Group("/api/v1", chain...)
	for _, handler := range appapi.Handlers {
		handler.RegisterRoutes(appApiGroup)
	}
}

// cleanupLogs drops operation logs older than log.retention_days once a day.
func (s *Server) cleanupLogs(ctx context.Context) {
	days := config.GetInt("log.retention_days")
	if days <= 0 {
		return
	}
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		if err := s.logSrv.DeleteOldLogs(ctx, days); err != nil {
			logger.Warn("clean operation logs failed", logger.F("error", err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
