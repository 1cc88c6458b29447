package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"

	"github.com/cadastro-saude/patient-registry/internal/config"
	"github.com/cadastro-saude/patient-registry/internal/repository/sqldb"
	"github.com/cadastro-saude/patient-registry/internal/seed"
	"github.com/cadastro-saude/patient-registry/pkg/logger"
	"github.com/cadastro-saude/patient-registry/pkg/security"
)

// seed applies the schema and creates the master admin user
func main() {
	configFile := pflag.StringP("config", "c", "", "path to config.yaml")
	skipMigrate := pflag.Bool("skip-migrate", false, "do not apply the schema")
	pflag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.Setup(logger.Config{
		Level:   cfg.Log.Level,
		Console: true,
	})

	db, err := sqldb.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if !*skipMigrate {
		if err := sqldb.Migrate(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate database")
		}
		log.Info().Str("driver", cfg.Database.Driver).Msg("schema applied")
	}

	users := sqldb.NewUserRepository(sqldb.NewBaseRepository(db, nil))
	if _, err := seed.Admin(ctx, users, security.NewBcryptHasher(bcrypt.DefaultCost), cfg.Seed, appLogger); err != nil {
		log.Fatal().Err(err).Msg("failed to seed admin user")
	}
}
