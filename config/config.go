package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/yaml.v3"
)

const (
	CONFIG_PATH = "./res/config.yaml"

	// ENV_MONGODB_URI overrides the configured DSN when set and non-empty.
	ENV_MONGODB_URI = "MONGODB_URI"

	DEFAULT_SERVICE_NAME  = "seedkit"
	DEFAULT_LOG_LEVEL     = "info"
	DEFAULT_MONGODB_URI   = "mongodb://localhost:27017/seedkit"
	DEFAULT_DATABASE_NAME = "seedkit"
	DEFAULT_TIMEOUT       = 10 * time.Second
	DEFAULT_BCRYPT_COST   = 10
)

// ServiceConfig holds the configuration shared by every command.
type ServiceConfig struct {
	ServiceName     string   `yaml:"service_name" validate:"required"`
	LogLevel        string   `yaml:"loglevel" validate:"required"`
	MetricsTextfile string   `yaml:"metrics_textfile"`
	Seed            Seed     `yaml:"seed"`
	Database        Database `yaml:"database" validate:"required"`
}

// Seed holds the knobs used when creating default accounts.
type Seed struct {
	BcryptCost int `yaml:"bcrypt_cost" validate:"min=4,max=31"`
}

type Database struct {
	MongoDB MongoDBConfig `yaml:"mongodb_config" validate:"required"`
}

// MongoDBConfig holds the MongoDB connection and allow-list configuration.
type MongoDBConfig struct {
	DSN string `yaml:"dsn" validate:"required"`
	// DatabaseName is used when the DSN path carries no database.
	DatabaseName     string             `yaml:"database_name" validate:"required"`
	Timeout          time.Duration      `yaml:"timeout"`
	Options          MongoServerOptions `yaml:"mongo_server_options"`
	ValidCollections []string           `yaml:"valid_collections" validate:"required,min=1"`
	ValidFields      []string           `yaml:"valid_fields" validate:"required,min=1"`
}

type MongoServerOptions struct {
	APIVersion           string `yaml:"api_version"`
	SetStrict            bool   `yaml:"set_strict"`
	SetDeprecationErrors bool   `yaml:"set_deprecation_errors"`
}

// DefaultConfig returns the configuration used when no file is given:
// a local MongoDB and the collections and fields the commands touch.
func DefaultConfig() *ServiceConfig {
	return &ServiceConfig{
		ServiceName: DEFAULT_SERVICE_NAME,
		LogLevel:    DEFAULT_LOG_LEVEL,
		Seed: Seed{
			BcryptCost: DEFAULT_BCRYPT_COST,
		},
		Database: Database{
			MongoDB: MongoDBConfig{
				DSN:              DEFAULT_MONGODB_URI,
				DatabaseName:     DEFAULT_DATABASE_NAME,
				Timeout:          DEFAULT_TIMEOUT,
				ValidCollections: []string{"admins", "users", "investors"},
				ValidFields: []string{
					"fullName", "email", "username", "password", "isProfileComplete", "createdAt",
				},
			},
		},
	}
}

// ReadLocalConfig reads the service configuration from a YAML file at the specified path.
// Keys missing from the file keep their DefaultConfig values.
// If there is an error reading the file or unmarshaling the content, it returns an error.
func ReadLocalConfig(configPath string) (*ServiceConfig, error) {
	config := DefaultConfig()

	yamlFile, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(yamlFile, config)
	if err != nil {
		return nil, err
	}

	return config, nil
}

// ResolvePath returns configPath when set, otherwise CONFIG_PATH if that
// file exists, otherwise "" (built-in defaults only).
func ResolvePath(configPath string) string {
	if configPath != "" {
		return configPath
	}
	if info, err := os.Stat(CONFIG_PATH); err == nil && !info.IsDir() {
		return CONFIG_PATH
	}
	return ""
}

// Load resolves the configuration once at process start: defaults, then the
// optional YAML file, then the MONGODB_URI environment override.
func Load(configPath string, lookup func(string) (string, bool)) (*ServiceConfig, error) {
	cfg := DefaultConfig()
	if configPath != "" {
		var err error
		cfg, err = ReadLocalConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configPath, err)
		}
	}

	ApplyEnv(cfg, lookup)
	return cfg, nil
}

// ApplyEnv overrides the DSN with MONGODB_URI when it is set and non-blank.
func ApplyEnv(cfg *ServiceConfig, lookup func(string) (string, bool)) {
	if lookup == nil {
		return
	}
	if dsn, ok := lookup(ENV_MONGODB_URI); ok && strings.TrimSpace(dsn) != "" {
		cfg.Database.MongoDB.DSN = strings.TrimSpace(dsn)
	}
}

// LoadLocalEnv loads variables from .env files into the process environment.
// A missing file is not an error; existing variables are never overwritten.
func LoadLocalEnv(paths ...string) error {
	err := godotenv.Load(paths...)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func BuildServerAPIOptions(cfg MongoServerOptions) *options.ServerAPIOptions {
	if cfg.APIVersion == "" {
		return nil
	}
	opts := options.ServerAPI(options.ServerAPIVersion(cfg.APIVersion))
	opts.SetStrict(cfg.SetStrict)
	opts.SetDeprecationErrors(cfg.SetDeprecationErrors)

	return opts
}

func ListToMap(list []string) map[string]bool {
	result := make(map[string]bool)
	for _, item := range list {
		result[item] = true
	}
	return result
}
