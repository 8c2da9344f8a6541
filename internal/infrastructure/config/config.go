package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	HTTP     HTTPConfig
	Log      LogConfig
	Cart     CartConfig
	Payment  PaymentConfig
	Shipping ShippingConfig
	Email    EmailConfig
	Auth     AuthConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
	// StoreTenantID is the tenant whose catalog and tax rules the
	// storefront serves.
	StoreTenantID string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings. Redis backs the checkout
// lock; with Enabled false an in-process lock is used instead.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	MaxBodySize      int64
	CORSAllowOrigins []string
	TrustedProxies   []string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// CartConfig holds the cart token cookie settings
type CartConfig struct {
	CookieName   string
	CookieMaxAge time.Duration
	CookieSecure bool
	SameSite     string // strict, lax or none
}

// PaymentConfig holds the payment processor settings
type PaymentConfig struct {
	BaseURL     string
	AccessToken string
	LocationID  string
	Currency    string
}

// ShippingConfig holds the shipping provider settings and the warehouse
// origin address for shipments.
type ShippingConfig struct {
	BaseURL     string
	APIToken    string
	FromName    string
	FromStreet  string
	FromCity    string
	FromState   string
	FromPostal  string
	FromCountry string
}

// EmailConfig holds the mail provider settings
type EmailConfig struct {
	BaseURL    string
	APIKey     string
	Domain     string
	FromEmail  string
	AdminEmail string
	BrandName  string
}

// AuthConfig holds admin API auth settings
type AuthConfig struct {
	JWTSecret       string
	TokenExpiration time.Duration
	Issuer          string
	// BootstrapToken protects tenant management before any tenant exists
	BootstrapToken string
}

// Load loads configuration from the TOML file and environment variables.
// Priority (highest to lowest):
//  1. Environment variables with STOREFRONT_ prefix
//  2. config.toml
//  3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine, defaults and env vars apply
	}

	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	applyDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Name:          v.GetString("app.name"),
			Env:           v.GetString("app.env"),
			Port:          v.GetString("app.port"),
			StoreTenantID: v.GetString("app.store_tenant_id"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Cart: CartConfig{
			CookieName:   v.GetString("cart.cookie_name"),
			CookieMaxAge: v.GetDuration("cart.cookie_max_age"),
			CookieSecure: v.GetBool("cart.cookie_secure"),
			SameSite:     v.GetString("cart.same_site"),
		},
		Payment: PaymentConfig{
			BaseURL:     v.GetString("payment.base_url"),
			AccessToken: v.GetString("payment.access_token"),
			LocationID:  v.GetString("payment.location_id"),
			Currency:    v.GetString("payment.currency"),
		},
		Shipping: ShippingConfig{
			BaseURL:     v.GetString("shipping.base_url"),
			APIToken:    v.GetString("shipping.api_token"),
			FromName:    v.GetString("shipping.from_name"),
			FromStreet:  v.GetString("shipping.from_street"),
			FromCity:    v.GetString("shipping.from_city"),
			FromState:   v.GetString("shipping.from_state"),
			FromPostal:  v.GetString("shipping.from_postal"),
			FromCountry: v.GetString("shipping.from_country"),
		},
		Email: EmailConfig{
			BaseURL:    v.GetString("email.base_url"),
			APIKey:     v.GetString("email.api_key"),
			Domain:     v.GetString("email.domain"),
			FromEmail:  v.GetString("email.from_email"),
			AdminEmail: v.GetString("email.admin_email"),
			BrandName:  v.GetString("email.brand_name"),
		},
		Auth: AuthConfig{
			JWTSecret:       v.GetString("auth.jwt_secret"),
			TokenExpiration: v.GetDuration("auth.token_expiration"),
			Issuer:          v.GetString("auth.issuer"),
			BootstrapToken:  v.GetString("auth.bootstrap_token"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "storefront")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.store_tenant_id", "00000000-0000-0000-0000-000000000001")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "storefront")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30)
	v.SetDefault("database.conn_max_idle_time", 10)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	v.SetDefault("http.read_timeout", "15s")
	v.SetDefault("http.write_timeout", "30s")
	v.SetDefault("http.idle_timeout", "60s")
	v.SetDefault("http.max_header_bytes", 1<<20)
	v.SetDefault("http.max_body_size", int64(1<<20))
	v.SetDefault("http.cors_allow_origins", []string{"*"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("cart.cookie_name", "cart_token")
	v.SetDefault("cart.cookie_max_age", "720h")
	v.SetDefault("cart.cookie_secure", false)
	v.SetDefault("cart.same_site", "lax")

	v.SetDefault("payment.base_url", "https://connect.squareup.com")
	v.SetDefault("payment.currency", "USD")

	v.SetDefault("shipping.base_url", "https://api.goshippo.com")
	v.SetDefault("shipping.from_country", "US")

	v.SetDefault("email.base_url", "https://api.mailgun.net")
	v.SetDefault("email.brand_name", "Storefront")

	v.SetDefault("auth.token_expiration", "1h")
	v.SetDefault("auth.issuer", "storefront")
}

func (c *Config) validate() error {
	if c.App.Port == "" {
		return fmt.Errorf("app.port cannot be empty")
	}
	if _, err := uuid.Parse(c.App.StoreTenantID); err != nil {
		return fmt.Errorf("app.store_tenant_id must be a valid uuid: %w", err)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("database host and dbname are required")
	}
	switch c.Cart.SameSite {
	case "strict", "lax", "none":
	default:
		return fmt.Errorf("cart.same_site must be strict, lax or none")
	}
	if c.App.Env == "production" && c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required in production")
	}
	return nil
}

// StoreTenantUUID returns the configured storefront tenant id
func (c *Config) StoreTenantUUID() uuid.UUID {
	return uuid.MustParse(c.App.StoreTenantID)
}

// DSN builds the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Addr returns the Redis address in host:port form
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsProduction reports whether the app runs in production mode
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
