package config

import (
	"os"
	"strings"
	"time"

	"resume-builder/internal/adapter/repository"
	"resume-builder/pkg/ai"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Config holds the runtime settings. Values come from an optional YAML file
// and are then overridden by environment variables.
type Config struct {
	Port          string        `yaml:"port"`
	StorageDriver string        `yaml:"storage_driver"`
	StoragePath   string        `yaml:"storage_path"`
	DatabaseURL   string        `yaml:"database_url"`
	AIProvider    string        `yaml:"ai_provider"`
	APIKey        string        `yaml:"api_key"`
	AIServiceURL  string        `yaml:"ai_service_url"`
	ImproveModel  string        `yaml:"ai_model_improve"`
	ChatModel     string        `yaml:"ai_model_chat"`
	ChromePath    string        `yaml:"chrome_path"`
	LogLevel      string        `yaml:"log_level"`
	ExportTimeout time.Duration `yaml:"export_timeout"`
}

func Default() Config {
	return Config{
		Port:          "3000",
		StorageDriver: StorageFile,
		StoragePath:   "resume-data.json",
		AIProvider:    ai.ProviderGemini,
		ImproveModel:  ai.DefaultImproveModel,
		ChatModel:     ai.DefaultChatModel,
		LogLevel:      "info",
		ExportTimeout: 60 * time.Second,
	}
}

// Load reads path (when non-empty) and applies environment overrides.
// A missing file is an error only when the path was given explicitly.
func Load(path string) (cfg Config, err error) {
	cfg = Default()
	if path == "" {
		path = os.Getenv("RESUME_CONFIG")
	}
	if path != "" {
		var data []byte
		data, err = os.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrapf(err, "failed to read config file: %s", path)
		}
		if err = yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "failed to parse config file: %s", path)
		}
	}

	if err = cfg.applyEnv(); err != nil {
		return cfg, err
	}
	if err = cfg.Validate(); err != nil {
		return cfg, errors.Wrap(err, "config validation failed")
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	set := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := strings.TrimSpace(os.Getenv(k)); v != "" {
				*dst = v
				return
			}
		}
	}
	set(&c.Port, "PORT")
	set(&c.StorageDriver, "STORAGE_DRIVER")
	set(&c.StoragePath, "STORAGE_PATH")
	set(&c.DatabaseURL, "DATABASE_URL")
	set(&c.AIProvider, "AI_PROVIDER")
	set(&c.APIKey, "API_KEY", "GEMINI_API_KEY")
	set(&c.AIServiceURL, "AI_SERVICE_URL")
	set(&c.ImproveModel, "AI_MODEL_IMPROVE")
	set(&c.ChatModel, "AI_MODEL_CHAT")
	set(&c.ChromePath, "CHROME_PATH")
	set(&c.LogLevel, "LOG_LEVEL")

	if v := os.Getenv("EXPORT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrapf(err, "invalid EXPORT_TIMEOUT %q", v)
		}
		c.ExportTimeout = d
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageMemory:
	case StorageFile, StorageSQLite:
		if c.StoragePath == "" {
			return errors.Errorf("STORAGE_PATH is required for the %s driver", c.StorageDriver)
		}
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	default:
		return errors.Errorf("unknown storage driver %q", c.StorageDriver)
	}

	switch c.AIProvider {
	case ai.ProviderGemini, ai.ProviderService, ai.ProviderNone:
	default:
		return errors.Errorf("unknown ai provider %q", c.AIProvider)
	}

	if c.ExportTimeout <= 0 {
		return errors.New("export timeout must be positive")
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrapf(err, "invalid log level %q", c.LogLevel)
	}
	return nil
}

// SQLDialect maps the storage driver to a repository dialect. ok is false for
// the non-SQL backends.
func (c *Config) SQLDialect() (d repository.Dialect, dsn string, ok bool) {
	switch c.StorageDriver {
	case StoragePostgres:
		return repository.DialectPostgres, c.DatabaseURL, true
	case StorageSQLite:
		return repository.DialectSQLite, c.StoragePath, true
	}
	return "", "", false
}

func (c *Config) AIOptions(steps []string) ai.Options {
	return ai.Options{
		Provider:     c.AIProvider,
		APIKey:       c.APIKey,
		ServiceURL:   c.AIServiceURL,
		ImproveModel: c.ImproveModel,
		ChatModel:    c.ChatModel,
		Steps:        steps,
	}
}

// NewLogger builds a JSON production logger, or a development logger at
// debug level.
func (c *Config) NewLogger() (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid log level %q", c.LogLevel)
	}
	zc := zap.NewProductionConfig()
	if lvl == zapcore.DebugLevel {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := zc.Build()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build logger")
	}
	return logger, nil
}
