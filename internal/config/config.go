// Package config loads the settings of the contact book from an optional YAML file and the
// process environment.
package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Storage backends understood by the storage package.
const (
	BackendFile     = "file"
	BackendMySQL    = "mysql"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// allowedBackends are the allowed values for the storage backend setting.
var allowedBackends = []string{BackendFile, BackendMySQL, BackendPostgres, BackendSQLite}

// Config is the complete configuration of the contact book commands.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
	Service ServiceConfig `yaml:"service"`
}

// StorageConfig selects where the address book is persisted.
type StorageConfig struct {
	// Backend is one of file, mysql, postgres or sqlite.
	Backend string `yaml:"backend"`
	// File is the data file of the file backend.
	File string `yaml:"file"`
	// DSN is the data source name of an SQL backend. If it is empty, it is built from the
	// DB* settings below.
	DSN        string `yaml:"dsn"`
	DBUser     string `yaml:"db_user"`
	DBPassword string `yaml:"db_password"`
	DBHost     string `yaml:"db_host"`
	DBName     string `yaml:"db_name"`
}

// LoggingConfig controls the diagnostic log, which is separate from the shell's output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// ServiceConfig configures the read-only HTTP service.
type ServiceConfig struct {
	Port           int  `yaml:"port"`
	RequestLogging bool `yaml:"request_logging"`
	// AllowOrigins lists the origins browsers may call the service from. Empty disables CORS.
	AllowOrigins []string `yaml:"allow_origins"`
}

// DefaultConfig returns the settings used when neither a file nor the environment says otherwise.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: BackendFile,
			File:    "data.bin",
			DBHost:  "localhost:3306",
			DBName:  "test",
		},
		Logging: LoggingConfig{
			Level:  "error",
			Format: "console",
		},
		Service: ServiceConfig{
			Port:           8080,
			RequestLogging: true,
		},
	}
}

// Load reads the configuration from a YAML file and applies environment overrides. An empty path
// or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides. The DB* and PORT variables are the ones
// the contacts service has always used.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("CONTACTS_STORAGE"); v != "" {
		c.Storage.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("CONTACTS_FILE"); v != "" {
		c.Storage.File = v
	}
	if v := os.Getenv("CONTACTS_DSN"); v != "" {
		c.Storage.DSN = v
	}
	if v := os.Getenv("DBUSER"); v != "" {
		c.Storage.DBUser = v
	}
	if v := os.Getenv("DBPWD"); v != "" {
		c.Storage.DBPassword = v
	}
	if v := os.Getenv("DBHOST"); v != "" {
		c.Storage.DBHost = v
	}
	if v := os.Getenv("DBNAME"); v != "" {
		c.Storage.DBName = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		c.Logging.File = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("could not parse PORT env variable: %w", err)
		}
		c.Service.Port = port
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.Service.AllowOrigins = strings.Split(v, ",")
	}
	if strings.EqualFold(os.Getenv("GIN_LOGGING"), "off") {
		c.Service.RequestLogging = false
	}
	return nil
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if !slices.Contains(allowedBackends, c.Storage.Backend) {
		return fmt.Errorf("invalid storage backend %q, expected one of %s",
			c.Storage.Backend, strings.Join(allowedBackends, ", "))
	}
	if c.Storage.Backend == BackendFile && c.Storage.File == "" {
		return fmt.Errorf("the file backend needs a file name")
	}
	if c.Service.Port < 1 || c.Service.Port > 65535 {
		return fmt.Errorf("invalid service port %d", c.Service.Port)
	}
	return nil
}

// DataSourceName returns the DSN for the configured SQL backend. An explicit DSN wins; otherwise
// it is assembled from the DB* settings. SQLite falls back to contacts.db in the working directory.
func (c *StorageConfig) DataSourceName() string {
	if c.DSN != "" {
		return c.DSN
	}
	switch c.Backend {
	case BackendMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true",
			c.DBUser, c.DBPassword, c.DBHost, c.DBName)
	case BackendPostgres:
		return fmt.Sprintf("postgres://%s:%s@%s/%s",
			c.DBUser, c.DBPassword, c.DBHost, c.DBName)
	case BackendSQLite:
		return "contacts.db"
	default:
		return ""
	}
}
