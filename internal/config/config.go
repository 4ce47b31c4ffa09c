package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Catalogue source kinds.
const (
	SourceHTTP     = "http"
	SourceFile     = "file"
	SourceS3       = "s3"
	SourcePostgres = "postgres"
)

// DefaultCatalogURL is the upstream catalogue endpoint with its fixed page size.
const DefaultCatalogURL = "https://dummyjson.com/products?limit=194"

// DefaultExcludedCategories are raw upstream categories never offered in the store.
var DefaultExcludedCategories = []string{"groceries", "kitchen-accessories"}

// DefaultHomeDecorBrands are assigned round-robin to home-decoration products without a brand.
var DefaultHomeDecorBrands = []string{
	"IKEA", "West Elm", "HAY", "Muuto", "Ferm Living",
	"Menu", "&Tradition", "Normann Copenhagen", "Hay", "Vitra",
}

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	S3       S3Config
	Catalog  CatalogConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
	// PublicBaseURL is used to build product links in search results.
	PublicBaseURL string
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	// APIKey enables X-API-Key authentication on the API when non-empty.
	APIKey string
}

// S3Config holds AWS S3 configuration for catalogue snapshots.
type S3Config struct {
	Enabled bool
	Bucket  string
	Region  string
	Key     string
}

// CatalogConfig holds configuration for loading the product catalogue.
type CatalogConfig struct {
	Source             string
	Fallback           string
	URL                string
	Timeout            time.Duration
	RetryAttempts      int
	SnapshotFile       string
	ExcludedCategories []string
	HomeDecorBrands    []string
	// Archive names a snapshot store the raw catalogue is copied to after a successful load.
	Archive string
}

// Load loads configuration from environment variables.
// A .env file in the working directory is read first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:          getEnv("SERVER_HOST", "0.0.0.0"),
			Port:          getEnvAsInt("SERVER_PORT", 8080),
			PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "https://milamart-labs.onrender.com"), "/"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "milamart"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 10),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 1),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			APIKey: getEnv("API_KEY", ""),
		},
		S3: S3Config{
			Enabled: getEnvAsBool("S3_ENABLED", false),
			Bucket:  getEnv("S3_BUCKET", ""),
			Region:  getEnv("S3_REGION", "us-east-1"),
			Key:     getEnv("S3_KEY", "catalog/catalog.json.gz"),
		},
		Catalog: CatalogConfig{
			Source:             getEnv("CATALOG_SOURCE", SourceHTTP),
			Fallback:           getEnv("CATALOG_FALLBACK", ""),
			URL:                getEnv("CATALOG_URL", DefaultCatalogURL),
			Timeout:            time.Duration(getEnvAsInt("CATALOG_TIMEOUT", 10)) * time.Second,
			RetryAttempts:      getEnvAsInt("CATALOG_RETRY_ATTEMPTS", 1),
			SnapshotFile:       getEnv("CATALOG_SNAPSHOT_FILE", "data/catalog.json.gz"),
			ExcludedCategories: getEnvAsList("CATALOG_EXCLUDED_CATEGORIES", DefaultExcludedCategories),
			HomeDecorBrands:    getEnvAsList("CATALOG_HOME_DECOR_BRANDS", DefaultHomeDecorBrands),
			Archive:            getEnv("CATALOG_ARCHIVE", ""),
		},
	}

	// Hosting platforms publish the listen port as PORT.
	if port := os.Getenv("PORT"); port != "" && os.Getenv("SERVER_PORT") == "" {
		cfg.Server.Port = getEnvAsInt("PORT", cfg.Server.Port)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if err := c.Catalog.validate(); err != nil {
		return err
	}

	if c.UsesPostgres() {
		if err := c.Database.validate(); err != nil {
			return err
		}
	}

	if c.usesSource(SourceS3) {
		if !c.S3.Enabled {
			return fmt.Errorf("S3 must be enabled to use it as a catalog source")
		}
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
		if c.S3.Key == "" {
			return fmt.Errorf("S3 key is required when S3 is enabled")
		}
	}

	return nil
}

func (c *CatalogConfig) validate() error {
	validSources := map[string]bool{
		SourceHTTP:     true,
		SourceFile:     true,
		SourceS3:       true,
		SourcePostgres: true,
	}

	if !validSources[c.Source] {
		return fmt.Errorf("invalid catalog source: %s (must be http, file, s3, or postgres)", c.Source)
	}

	if c.Fallback != "" {
		if !validSources[c.Fallback] {
			return fmt.Errorf("invalid catalog fallback: %s (must be http, file, s3, or postgres)", c.Fallback)
		}
		if c.Fallback == c.Source {
			return fmt.Errorf("catalog fallback cannot be the same as the catalog source")
		}
	}

	if c.Archive != "" {
		if !validSources[c.Archive] || c.Archive == SourceHTTP {
			return fmt.Errorf("invalid catalog archive: %s (must be file, s3, or postgres)", c.Archive)
		}
		if c.Archive == c.Source {
			return fmt.Errorf("catalog archive cannot be the same as the catalog source")
		}
	}

	if (c.Source == SourceHTTP || c.Fallback == SourceHTTP) && c.URL == "" {
		return fmt.Errorf("catalog URL is required for the http source")
	}

	if (c.Source == SourceFile || c.Fallback == SourceFile || c.Archive == SourceFile) && c.SnapshotFile == "" {
		return fmt.Errorf("catalog snapshot file is required for the file source")
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("catalog timeout must be positive")
	}

	if c.RetryAttempts < 1 {
		return fmt.Errorf("catalog retry attempts must be at least 1")
	}

	if len(c.HomeDecorBrands) == 0 {
		return fmt.Errorf("at least one home decoration brand is required")
	}

	return nil
}

func (c *DatabaseConfig) validate() error {
	if c.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Port)
	}

	if c.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.MinConnections > c.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	return nil
}

// UsesPostgres reports whether any configured component needs a database connection.
func (c *Config) UsesPostgres() bool {
	return c.usesSource(SourcePostgres)
}

func (c *Config) usesSource(kind string) bool {
	return c.Catalog.Source == kind || c.Catalog.Fallback == kind || c.Catalog.Archive == kind
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsList retrieves a comma-separated environment variable or returns a default value.
// Entries are trimmed and empty entries are dropped.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return append([]string(nil), defaultValue...)
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
