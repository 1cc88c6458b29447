package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

type Config struct {
	Env       string          `mapstructure:"env"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	GovBR     GovBRConfig     `mapstructure:"govbr"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Redis     RedisConfig     `mapstructure:"redis"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	Log       LogConfig       `mapstructure:"log"`
	Seed      SeedConfig      `mapstructure:"seed"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"`
	URL          string `mapstructure:"url"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Name         string `mapstructure:"name"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
}

// DSN returns the connection string for the configured driver
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	if c.Driver == DriverSQLite {
		return "file:" + c.Name + "?_foreign_keys=on"
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.Name,
		c.SSLMode,
	)
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpiryHours int    `mapstructure:"expiry_hours"`
	Issuer      string `mapstructure:"issuer"`
}

func (c JWTConfig) Expiry() time.Duration {
	return time.Duration(c.ExpiryHours) * time.Hour
}

type GovBRConfig struct {
	ClientID     string        `mapstructure:"client_id"`
	ClientSecret string        `mapstructure:"client_secret"`
	RedirectURI  string        `mapstructure:"redirect_uri"`
	TokenURL     string        `mapstructure:"token_url"`
	UserInfoURL  string        `mapstructure:"userinfo_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

func (c GovBRConfig) Enabled() bool {
	return c.ClientID != ""
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

type LogConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
}

type SeedConfig struct {
	AdminName     string `mapstructure:"admin_name"`
	AdminEmail    string `mapstructure:"admin_email"`
	AdminPassword string `mapstructure:"admin_password"`
}

// envOverrides are the flat variables a container deployment sets
type envOverrides struct {
	Env               string        `envconfig:"APP_ENV"`
	Port              int           `envconfig:"PORT"`
	DatabaseDriver    string        `envconfig:"DATABASE_DRIVER"`
	DatabaseURL       string        `envconfig:"DATABASE_URL"`
	JWTSecret         string        `envconfig:"JWT_SECRET"`
	JWTExpiryHours    int           `envconfig:"JWT_EXPIRY_HOURS"`
	GovBRClientID     string        `envconfig:"GOVBR_CLIENT_ID"`
	GovBRClientSecret string        `envconfig:"GOVBR_CLIENT_SECRET"`
	GovBRRedirectURI  string        `envconfig:"GOVBR_REDIRECT_URI"`
	GovBRTimeout      time.Duration `envconfig:"GOVBR_TIMEOUT"`
	CORSOrigins       []string      `envconfig:"CORS_ORIGINS"`
	RedisURL          string        `envconfig:"REDIS_URL"`
	SMTPHost          string        `envconfig:"SMTP_HOST"`
	SMTPPort          int           `envconfig:"SMTP_PORT"`
	SMTPUsername      string        `envconfig:"SMTP_USERNAME"`
	SMTPPassword      string        `envconfig:"SMTP_PASSWORD"`
	SMTPFrom          string        `envconfig:"SMTP_FROM"`
	LogLevel          string        `envconfig:"LOG_LEVEL"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", EnvProduction)

	v.SetDefault("server.port", 3001)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.request_timeout", 20*time.Second)
	v.SetDefault("server.max_body_bytes", 1<<20)

	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "cadastro")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)

	v.SetDefault("jwt.expiry_hours", 24)
	v.SetDefault("jwt.issuer", "patient-registry")

	v.SetDefault("govbr.token_url", "https://sso.acesso.gov.br/token")
	v.SetDefault("govbr.userinfo_url", "https://sso.acesso.gov.br/userinfo/")
	v.SetDefault("govbr.timeout", 10*time.Second)

	v.SetDefault("cors.allowed_origins", []string{"*"})

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 20)
	v.SetDefault("rate_limit.burst", 40)

	v.SetDefault("smtp.port", 587)

	v.SetDefault("log.level", "info")
}

// LoadConfig reads config.yaml from the working directory or ./config when present,
// then applies environment overrides. An explicit file must exist.
func LoadConfig(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	env.apply(&cfg)

	return &cfg, nil
}

func (e envOverrides) apply(cfg *Config) {
	setString(&cfg.Env, e.Env)
	setInt(&cfg.Server.Port, e.Port)
	setString(&cfg.Database.Driver, e.DatabaseDriver)
	setString(&cfg.Database.URL, e.DatabaseURL)
	setString(&cfg.JWT.Secret, e.JWTSecret)
	setInt(&cfg.JWT.ExpiryHours, e.JWTExpiryHours)
	setString(&cfg.GovBR.ClientID, e.GovBRClientID)
	setString(&cfg.GovBR.ClientSecret, e.GovBRClientSecret)
	setString(&cfg.GovBR.RedirectURI, e.GovBRRedirectURI)
	if e.GovBRTimeout > 0 {
		cfg.GovBR.Timeout = e.GovBRTimeout
	}
	if len(e.CORSOrigins) > 0 {
		cfg.CORS.AllowedOrigins = e.CORSOrigins
	}
	setString(&cfg.Redis.URL, e.RedisURL)
	setString(&cfg.SMTP.Host, e.SMTPHost)
	setInt(&cfg.SMTP.Port, e.SMTPPort)
	setString(&cfg.SMTP.Username, e.SMTPUsername)
	setString(&cfg.SMTP.Password, e.SMTPPassword)
	setString(&cfg.SMTP.From, e.SMTPFrom)
	setString(&cfg.Log.Level, e.LogLevel)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

// Validate rejects configurations the API cannot start with
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt secret is required (JWT_SECRET)")
	}
	if c.JWT.ExpiryHours <= 0 {
		return errors.New("jwt expiry must be positive")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.GovBR.Enabled() {
		if c.GovBR.ClientSecret == "" || c.GovBR.RedirectURI == "" {
			return errors.New("govbr client secret and redirect uri are required when client id is set")
		}
		if c.GovBR.Timeout <= 0 {
			return errors.New("govbr timeout must be positive")
		}
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}
