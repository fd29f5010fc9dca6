package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"alfredoptarigan/resume-matcher/internal/ranking"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Match     MatchConfig     `mapstructure:"match"`
	Tokenizer TokenizerConfig `mapstructure:"tokenizer"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port" validate:"required,numeric"`
	Env  string `mapstructure:"env" validate:"required"`
}

// DatabaseConfig is only used when Enabled is set; otherwise the resume pool
// lives in memory for the lifetime of the process.
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host" validate:"required_if=Enabled true"`
	Port     string `mapstructure:"port" validate:"required_if=Enabled true"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name" validate:"required_if=Enabled true"`
}

type StorageConfig struct {
	UploadPath  string `mapstructure:"upload_path" validate:"required"`
	MaxFileSize int64  `mapstructure:"max_file_size" validate:"gt=0"`
	MaxFiles    int    `mapstructure:"max_files" validate:"gt=0"`
}

type MatchConfig struct {
	TopK               int           `mapstructure:"top_k" validate:"min=1,max=50"`
	OnExtractionError  string        `mapstructure:"on_extraction_error" validate:"oneof=skip abort"`
	ExtractConcurrency int           `mapstructure:"extract_concurrency" validate:"min=1"`
	ExtractTimeout     time.Duration `mapstructure:"extract_timeout" validate:"min=0"`
}

type TokenizerConfig struct {
	// StopWords is "english", "none" or the path of a YAML stop-word list.
	StopWords      string `mapstructure:"stopwords" validate:"required"`
	MinTokenLength int    `mapstructure:"min_token_length" validate:"min=1"`
}

type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

var defaults = map[string]interface{}{
	"server.port":                "3000",
	"server.env":                 "development",
	"database.enabled":           false,
	"database.host":              "localhost",
	"database.port":              "5432",
	"database.user":              "postgres",
	"database.password":          "postgres",
	"database.name":              "resume_matcher",
	"storage.upload_path":        "./uploads",
	"storage.max_file_size":      int64(10485760),
	"storage.max_files":          20,
	"match.top_k":                ranking.DefaultTopK,
	"match.on_extraction_error":  "skip",
	"match.extract_concurrency":  4,
	"match.extract_timeout":      "30s",
	"tokenizer.stopwords":        "english",
	"tokenizer.min_token_length": 1,
	"log.json":                   false,
	"log.debug":                  false,
}

// Environment names kept from the first deployment; they are consulted after
// the SECTION_KEY form, e.g. SERVER_PORT wins over PORT.
var legacyEnv = map[string]string{
	"server.port":           "PORT",
	"server.env":            "ENV",
	"storage.upload_path":   "UPLOAD_PATH",
	"storage.max_file_size": "MAX_FILE_SIZE",
	"database.host":         "DB_HOST",
	"database.port":         "DB_PORT",
	"database.user":         "DB_USER",
	"database.password":     "DB_PASSWORD",
	"database.name":         "DB_NAME",
}

// Load reads configuration from, lowest to highest priority: built-in
// defaults, the YAML file at path (skipped when empty), the environment.
// A .env file in the working directory is loaded into the environment first.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(getEnv("ENV_FILE", ".env")); err != nil {
		log.Println("No .env file found. Using environment and defaults.")
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		envName := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envName, legacy); err != nil {
			return nil, fmt.Errorf("failed to bind %s environment variable: %w", legacy, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks value ranges after every source has been applied.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			ve := validationErrors[0]
			return fmt.Errorf("invalid config: %s failed on '%s'", ve.Namespace(), ve.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

// IsDevelopment reports whether verbose framework logging should be enabled.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
