// Package app wires stores, services, handlers and the router into one
// http.Handler.
package app

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/insurance-crm/internal/config"
	analyticsHandler "github.com/jwalitptl/insurance-crm/internal/handler/analytics"
	callHandler "github.com/jwalitptl/insurance-crm/internal/handler/call"
	"github.com/jwalitptl/insurance-crm/internal/handler/health"
	inboundHandler "github.com/jwalitptl/insurance-crm/internal/handler/inbound"
	insuranceHandler "github.com/jwalitptl/insurance-crm/internal/handler/insurance"
	promHandler "github.com/jwalitptl/insurance-crm/internal/handler/prometheus"
	"github.com/jwalitptl/insurance-crm/internal/middleware"
	"github.com/jwalitptl/insurance-crm/internal/repository"
	"github.com/jwalitptl/insurance-crm/internal/router"
	analyticsService "github.com/jwalitptl/insurance-crm/internal/service/analytics"
	callService "github.com/jwalitptl/insurance-crm/internal/service/call"
	"github.com/jwalitptl/insurance-crm/internal/service/importer"
	inboundService "github.com/jwalitptl/insurance-crm/internal/service/inbound"
	insuranceService "github.com/jwalitptl/insurance-crm/internal/service/insurance"
	"github.com/jwalitptl/insurance-crm/pkg/cache"
	"github.com/jwalitptl/insurance-crm/pkg/logger"
	"github.com/jwalitptl/insurance-crm/pkg/metrics"
)

// MetricsNamespace prefixes every exported metric.
const MetricsNamespace = "insurance_crm"

// Stores are the repositories plus the readiness checks of their backends.
type Stores struct {
	Insurance repository.InsuranceRepository
	Inbound   repository.InboundRepository
	Calls     repository.CallRepository
	Checks    map[string]health.Pinger
}

type Deps struct {
	Stores   Stores
	Cache    cache.Cache
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	Logger   *logger.Logger
}

type App struct {
	Router    *router.Router
	Insurance *insuranceService.Service
	Inbound   *inboundService.Service
	Calls     *callService.Service
	Analytics *analyticsService.Service
	Importer  *importer.Importer
}

func New(cfg *config.Config, deps Deps) *App {
	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New(deps.Registry, MetricsNamespace)
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	maxPage := cfg.Listing.MaxPageSize

	analyticsSvc := analyticsService.NewService(deps.Stores.Insurance, deps.Cache, analyticsService.Config{
		SnapshotLimit: cfg.Analytics.SnapshotLimit,
		TTL:           cfg.Cache.TTL,
	}, deps.Metrics, deps.Logger)
	insuranceSvc := insuranceService.NewService(deps.Stores.Insurance, maxPage, analyticsSvc, deps.Metrics, deps.Logger)
	inboundSvc := inboundService.NewService(deps.Stores.Inbound, maxPage, analyticsSvc, deps.Metrics, deps.Logger)
	callSvc := callService.NewService(deps.Stores.Calls, maxPage, deps.Metrics, deps.Logger)
	imp := importer.NewImporter(insuranceSvc, cfg.Server.MaxUploadBytes, deps.Metrics, deps.Logger)

	r := router.NewRouter(router.Handlers{
		Health:    health.NewHandler(deps.Stores.Checks),
		Insurance: insuranceHandler.NewHandler(insuranceSvc, imp, maxPage),
		Inbound:   inboundHandler.NewHandler(inboundSvc, maxPage),
		Calls:     callHandler.NewHandler(callSvc, maxPage),
		Analytics: analyticsHandler.NewHandler(analyticsSvc),
	}, promHandler.New(deps.Registry, MetricsNamespace), router.RouterConfig{
		RateLimitEnabled: cfg.RateLimit.Enabled,
		RateLimit:        rate.Limit(cfg.RateLimit.RequestsPerSecond),
		RateBurst:        cfg.RateLimit.Burst,
		CORSConfig:       middleware.DefaultCORSConfig(cfg.Security.AllowedOrigins),
		SizeLimit: middleware.SizeLimitConfig{
			MaxBodySize:   cfg.Server.MaxBodyBytes,
			MaxUploadSize: cfg.Server.MaxUploadBytes,
		},
		Timeout: cfg.Server.Timeout(),
	})
	r.Setup()

	return &App{
		Router:    r,
		Insurance: insuranceSvc,
		Inbound:   inboundSvc,
		Calls:     callSvc,
		Analytics: analyticsSvc,
		Importer:  imp,
	}
}

func (a *App) Handler() http.Handler {
	return a.Router.Engine()
}
