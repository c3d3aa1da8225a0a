package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Remote store drivers
const (
	DriverNone     = "none"
	DriverSupabase = "supabase"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Remote   RemoteConfig
	Catalog  CatalogConfig
	Order    OrderConfig
	LogLevel string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
	// PublicBaseURL overrides the origin derived from incoming requests
	PublicBaseURL string
}

type AuthConfig struct {
	AdminAPIKeys []string // Keys accepted on admin routes; empty disables them
}

// RemoteConfig describes the remote product store. Every field may be empty:
// a storefront without a remote store serves its local snapshot.
type RemoteConfig struct {
	Driver          string
	SupabaseURL     string
	SupabaseAnonKey string
	DatabaseURL     string
	SQLitePath      string
	Table           string
	Timeout         int
}

type CatalogConfig struct {
	AppRoot      string
	ProductsFile string
	StaticDir    string
	DocsDir      string
}

type OrderConfig struct {
	WhatsAppPhone string
	Currency      string
	RateLimit     float64 // requests per second, 0 disables limiting
	RateBurst     int
}

// Load reads configuration from an optional .env file, an optional config
// file named by CONFIG_FILE, and environment variables
func Load() (*Config, error) {
	if err := loadDotEnv(getEnv("ENV_FILE", ".env")); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if file := v.GetString("config_file"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("read_timeout", 15)
	v.SetDefault("write_timeout", 15)
	v.SetDefault("shutdown_timeout", 30)
	v.SetDefault("public_base_url", "")
	v.SetDefault("admin_api_keys", "")
	v.SetDefault("store_driver", "")
	v.SetDefault("supabase_url", "")
	v.SetDefault("supabase_anon_key", "")
	v.SetDefault("supabase_key", "")
	v.SetDefault("database_url", "")
	v.SetDefault("sqlite_path", "storefront.db")
	v.SetDefault("products_table", "products")
	v.SetDefault("remote_timeout", 10)
	v.SetDefault("app_root", ".")
	v.SetDefault("products_file", "products.json")
	v.SetDefault("static_dir", "static")
	v.SetDefault("docs_dir", "docs")
	v.SetDefault("whatsapp_phone", "221764536464")
	v.SetDefault("currency", "FCFA")
	v.SetDefault("order_rate_limit", 5)
	v.SetDefault("order_rate_burst", 10)
	v.SetDefault("log_level", "info")
}

func fromViper(v *viper.Viper) *Config {
	anonKey := v.GetString("supabase_anon_key")
	if anonKey == "" {
		anonKey = v.GetString("supabase_key")
	}

	return &Config{
		Server: ServerConfig{
			Port:            v.GetString("port"),
			Host:            v.GetString("host"),
			ReadTimeout:     v.GetInt("read_timeout"),
			WriteTimeout:    v.GetInt("write_timeout"),
			ShutdownTimeout: v.GetInt("shutdown_timeout"),
			PublicBaseURL:   strings.TrimRight(v.GetString("public_base_url"), "/"),
		},
		Auth: AuthConfig{
			AdminAPIKeys: splitList(v.GetString("admin_api_keys")),
		},
		Remote: RemoteConfig{
			Driver:          strings.ToLower(strings.TrimSpace(v.GetString("store_driver"))),
			SupabaseURL:     strings.TrimRight(v.GetString("supabase_url"), "/"),
			SupabaseAnonKey: anonKey,
			DatabaseURL:     v.GetString("database_url"),
			SQLitePath:      v.GetString("sqlite_path"),
			Table:           v.GetString("products_table"),
			Timeout:         v.GetInt("remote_timeout"),
		},
		Catalog: CatalogConfig{
			AppRoot:      v.GetString("app_root"),
			ProductsFile: v.GetString("products_file"),
			StaticDir:    v.GetString("static_dir"),
			DocsDir:      v.GetString("docs_dir"),
		},
		Order: OrderConfig{
			WhatsAppPhone: v.GetString("whatsapp_phone"),
			Currency:      v.GetString("currency"),
			RateLimit:     v.GetFloat64("order_rate_limit"),
			RateBurst:     v.GetInt("order_rate_burst"),
		},
		LogLevel: v.GetString("log_level"),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	switch c.Remote.Driver {
	case "", DriverNone, DriverPostgres, DriverSQLite:
	case DriverSupabase:
		if c.Remote.SupabaseURL == "" || c.Remote.SupabaseAnonKey == "" {
			return fmt.Errorf("STORE_DRIVER=supabase requires SUPABASE_URL and SUPABASE_ANON_KEY")
		}
	default:
		return fmt.Errorf("invalid store driver: %s (must be supabase, postgres, sqlite, or none)", c.Remote.Driver)
	}

	if c.Remote.Driver == DriverPostgres && c.Remote.DatabaseURL == "" {
		return fmt.Errorf("STORE_DRIVER=postgres requires DATABASE_URL")
	}

	if !tableNamePattern.MatchString(c.Remote.Table) {
		return fmt.Errorf("invalid products table name: %q", c.Remote.Table)
	}

	if c.Order.WhatsAppPhone == "" || strings.Trim(c.Order.WhatsAppPhone, "0123456789") != "" {
		return fmt.Errorf("WHATSAPP_PHONE must contain digits only, got %q", c.Order.WhatsAppPhone)
	}

	if c.Order.RateLimit < 0 || c.Order.RateBurst < 0 {
		return fmt.Errorf("order rate limit and burst must not be negative")
	}

	return nil
}

// ResolvedDriver returns the remote store driver to use. An empty driver
// selects Supabase when its credentials are present, then Postgres when a
// DATABASE_URL is present, and otherwise no remote store at all.
func (r RemoteConfig) ResolvedDriver() string {
	if r.Driver != "" {
		return r.Driver
	}
	if r.SupabaseURL != "" && r.SupabaseAnonKey != "" {
		return DriverSupabase
	}
	if r.DatabaseURL != "" {
		return DriverPostgres
	}
	return DriverNone
}

// SnapshotPath is the location of the local products snapshot
func (c CatalogConfig) SnapshotPath() string {
	return c.resolve(c.ProductsFile)
}

// StaticPath is the directory served under /static/
func (c CatalogConfig) StaticPath() string {
	return c.resolve(c.StaticDir)
}

// DocsPath is the directory holding the OpenAPI document
func (c CatalogConfig) DocsPath() string {
	return c.resolve(c.DocsDir)
}

func (c CatalogConfig) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.AppRoot, path)
}

// Redact keeps a short prefix of a secret for log output
func Redact(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 10 {
		return "..."
	}
	return secret[:10] + "..."
}

// Helper functions for reading environment variables

func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
