package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"

	"github.com/cadastro-saude/patient-registry/internal/config"
	"github.com/cadastro-saude/patient-registry/internal/email"
	"github.com/cadastro-saude/patient-registry/internal/govbr"
	"github.com/cadastro-saude/patient-registry/internal/handler/address"
	"github.com/cadastro-saude/patient-registry/internal/handler/auth"
	"github.com/cadastro-saude/patient-registry/internal/handler/health"
	"github.com/cadastro-saude/patient-registry/internal/handler/patient"
	"github.com/cadastro-saude/patient-registry/internal/handler/prometheus"
	"github.com/cadastro-saude/patient-registry/internal/handler/sex"
	"github.com/cadastro-saude/patient-registry/internal/handler/user"
	"github.com/cadastro-saude/patient-registry/internal/middleware"
	"github.com/cadastro-saude/patient-registry/internal/repository/sqldb"
	"github.com/cadastro-saude/patient-registry/internal/router"
	addressService "github.com/cadastro-saude/patient-registry/internal/service/address"
	authService "github.com/cadastro-saude/patient-registry/internal/service/auth"
	patientService "github.com/cadastro-saude/patient-registry/internal/service/patient"
	sexService "github.com/cadastro-saude/patient-registry/internal/service/sex"
	userService "github.com/cadastro-saude/patient-registry/internal/service/user"
	jwtauth "github.com/cadastro-saude/patient-registry/pkg/auth"
	"github.com/cadastro-saude/patient-registry/pkg/logger"
	"github.com/cadastro-saude/patient-registry/pkg/metrics"
	"github.com/cadastro-saude/patient-registry/pkg/security"
)

func main() {
	configFile := pflag.StringP("config", "c", "", "path to config.yaml")
	pflag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.Setup(logger.Config{
		Level:   cfg.Log.Level,
		Console: cfg.Log.Console || cfg.IsDevelopment(),
	})

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	// Initialize database
	db, err := sqldb.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := sqldb.Migrate(context.Background(), db); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate database")
		}
	}

	promH := prometheus.New()
	m := metrics.NewMetrics("patient_registry", promH.Registerer())

	// Initialize repositories
	base := sqldb.NewBaseRepository(db, m)
	userRepo := sqldb.NewUserRepository(base)
	patientRepo := sqldb.NewPatientRepository(base)
	sexRepo := sqldb.NewSexRepository(base)
	addressRepo := sqldb.NewAddressRepository(base)

	jwtSvc, err := jwtauth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry(), jwtauth.WithIssuer(cfg.JWT.Issuer))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create jwt service")
	}
	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)

	var provider govbr.Provider
	if cfg.GovBR.Enabled() {
		provider = govbr.NewClient(cfg.GovBR, m)
	} else {
		log.Warn().Msg("govbr client id not set, /api/auth/govbr will fail")
	}

	// Initialize services
	authSvc := authService.NewService(userRepo, jwtSvc, hasher, provider, m, appLogger)
	userSvc := userService.NewService(userRepo, hasher, email.NewService(cfg.SMTP, appLogger), appLogger)
	patientSvc := patientService.NewService(patientRepo, sexRepo, appLogger)
	sexSvc := sexService.NewService(sexRepo)
	addressSvc := addressService.NewService(addressRepo)

	var limiter middleware.Limiter
	if cfg.RateLimit.Enabled {
		limiter = newLimiter(cfg)
	}

	// Setup router
	r, err := router.NewRouter(
		middleware.NewAuthMiddleware(authSvc),
		router.Handlers{
			Health:  health.NewHandler(db),
			Auth:    auth.NewHandler(authSvc),
			User:    user.NewHandler(userSvc),
			Patient: patient.NewHandler(patientSvc),
			Sex:     sex.NewHandler(sexSvc),
			Address: address.NewHandler(addressSvc),
			Metrics: promH.Handler(),
		},
		router.RouterConfig{
			Development:  cfg.IsDevelopment(),
			CORSConfig:   middleware.DefaultCORSConfig(cfg.CORS.AllowedOrigins),
			Limiter:      limiter,
			MaxBodyBytes: cfg.Server.MaxBodyBytes,
			Timeout:      cfg.Server.RequestTimeout,
			Logger:       appLogger,
			Metrics:      m,
		},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create router")
	}
	r.Setup()

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("env", cfg.Env).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	userSvc.Wait()

	log.Info().Msg("server exited properly")
}

// newLimiter prefers the shared Redis limiter and falls back to per-process buckets
func newLimiter(cfg *config.Config) middleware.Limiter {
	if cfg.Redis.URL != "" {
		limiter, err := middleware.NewRedisLimiter(cfg.Redis.URL, cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		if err == nil {
			return limiter
		}
		log.Warn().Err(err).Msg("redis unavailable, using in-memory rate limiter")
	}
	return middleware.NewMemoryLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
}
