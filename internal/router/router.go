package router

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/cadastro-saude/patient-registry/internal/middleware"
	"github.com/cadastro-saude/patient-registry/pkg/metrics"
	registryvalidator "github.com/cadastro-saude/patient-registry/pkg/validator"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// SplitHandler owns both public and protected routes
type SplitHandler interface {
	RegisterRoutes(public, protected *gin.RouterGroup)
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	healthH  Handler
	authH    SplitHandler
	userH    SplitHandler
	patientH Handler
	sexH     Handler
	addressH Handler
	metricsH gin.HandlerFunc
}

type Handlers struct {
	Health  Handler
	Auth    SplitHandler
	User    SplitHandler
	Patient Handler
	Sex     Handler
	Address Handler
	Metrics gin.HandlerFunc
}

type RouterConfig struct {
	Development  bool
	CORSConfig   middleware.CORSConfig
	Limiter      middleware.Limiter
	MaxBodyBytes int64
	Timeout      time.Duration
	Logger       zerolog.Logger
	Metrics      *metrics.Metrics
}

func NewRouter(auth *middleware.AuthMiddleware, handlers Handlers, config RouterConfig) (*Router, error) {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := registryvalidator.Register(v); err != nil {
			return nil, fmt.Errorf("failed to register validators: %w", err)
		}
	}

	if !config.Development && gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	r := &Router{
		engine:   engine,
		auth:     auth,
		healthH:  handlers.Health,
		authH:    handlers.Auth,
		userH:    handlers.User,
		patientH: handlers.Patient,
		sexH:     handlers.Sex,
		addressH: handlers.Address,
		metricsH: handlers.Metrics,
	}

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(config.Logger, config.Metrics),
		middleware.ErrorHandler(config.Development),
		middleware.CORS(config.CORSConfig),
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig(!config.Development)),
		middleware.SizeLimit(config.MaxBodyBytes),
		middleware.Timeout(config.Timeout),
	)

	if config.Limiter != nil {
		engine.Use(middleware.RateLimit(config.Limiter))
	}

	return r, nil
}

func (r *Router) Setup() {
	if r.metricsH != nil {
		r.engine.GET("/metrics", r.metricsH)
	}

	api := r.engine.Group("/api")

	r.healthH.RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())

	r.authH.RegisterRoutes(api, protected)
	r.userH.RegisterRoutes(api, protected)
	r.patientH.RegisterRoutes(protected)
	r.sexH.RegisterRoutes(protected)
	r.addressH.RegisterRoutes(protected)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
