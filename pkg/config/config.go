package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/iancoleman/strcase"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

type Config struct {
	AutosaveIntervalSeconds   int
	CoverCreditCost           int
	DatabaseBusyTimeout       time.Duration
	DatabaseConnectRetryCount int
	DatabaseConnectRetryDelay time.Duration
	DatabaseDebug             bool
	DatabaseFilePath          string
	DatabaseMaxRetries        int
	FrontendURL               string
	GenerationAPIKey          string
	GenerationBaseURL         string
	GenerationTimeout         time.Duration
	GoogleConnectTimeout      time.Duration
	GooglePollInterval        time.Duration
	Hostname                  string
	JWTSecret                 string
	ServerHost                string
	ServerPort                int
	UploadDir                 string
	UploadMaxSizeMB           int
}

const defaultConfigFilePath = "./inkdraft.yaml"

// New loads the config in three layers: defaults, then an optional YAML
// settings file (CONFIG_FILE or ./inkdraft.yaml), then environment variable
// overrides. Keys in the file and environment use the snake_case form of the
// struct field names.
func New() (*Config, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	cfg := &Config{
		AutosaveIntervalSeconds:   30,
		CoverCreditCost:           10,
		DatabaseBusyTimeout:       5 * time.Second,
		DatabaseConnectRetryCount: 5,
		DatabaseConnectRetryDelay: 2 * time.Second,
		DatabaseMaxRetries:        5,
		GenerationTimeout:         2 * time.Minute,
		GoogleConnectTimeout:      5 * time.Minute,
		GooglePollInterval:        3 * time.Second,
		Hostname:                  hostname,
		ServerHost:                "0.0.0.0",
		ServerPort:                4810,
		UploadDir:                 "./tmp/uploads",
		UploadMaxSizeMB:           50,
	}

	k := koanf.New(".")

	configFilePath := os.Getenv("CONFIG_FILE")
	if configFilePath == "" {
		configFilePath = defaultConfigFilePath
	}
	if _, err := os.Stat(configFilePath); err == nil {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "failed to load config file: %s", configFilePath)
		}
	}

	// Environment variables override file values. DATABASE_FILE_PATH becomes
	// the key database_file_path.
	err = k.Load(env.Provider("", ".", strings.ToLower), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	setString(k, &cfg.DatabaseFilePath, "database_file_path")
	setBool(k, &cfg.DatabaseDebug, "database_debug")
	setString(k, &cfg.FrontendURL, "frontend_url")
	setString(k, &cfg.GenerationAPIKey, "generation_api_key")
	setString(k, &cfg.GenerationBaseURL, "generation_base_url")
	setString(k, &cfg.JWTSecret, "jwt_secret")
	setString(k, &cfg.ServerHost, "server_host")
	setInt(k, &cfg.ServerPort, "server_port")
	setString(k, &cfg.UploadDir, "upload_dir")
	setInt(k, &cfg.UploadMaxSizeMB, "upload_max_size_mb")
	setInt(k, &cfg.AutosaveIntervalSeconds, "autosave_interval_seconds")
	setInt(k, &cfg.CoverCreditCost, "cover_credit_cost")

	missing := []string{}
	if cfg.DatabaseFilePath == "" {
		missing = append(missing, "DatabaseFilePath")
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWTSecret")
	}
	if len(missing) > 0 {
		descriptions := make([]string, len(missing))
		for i, field := range missing {
			key := toSnakeCase(field)
			descriptions[i] = fmt.Sprintf("%s (%s)", strings.ToUpper(key), key)
		}
		return nil, errors.Errorf("missing required config: %s", strings.Join(descriptions, ", "))
	}

	return cfg, nil
}

// NewForTest returns a config suitable for unit tests: in-memory database and
// loopback server binding, no external services.
func NewForTest() *Config {
	return &Config{
		AutosaveIntervalSeconds:   30,
		CoverCreditCost:           10,
		DatabaseBusyTimeout:       5 * time.Second,
		DatabaseConnectRetryCount: 1,
		DatabaseConnectRetryDelay: time.Millisecond,
		DatabaseFilePath:          ":memory:",
		DatabaseMaxRetries:        1,
		GenerationTimeout:         5 * time.Second,
		GoogleConnectTimeout:      time.Second,
		GooglePollInterval:        10 * time.Millisecond,
		Hostname:                  "test",
		JWTSecret:                 "test-secret",
		ServerHost:                "127.0.0.1",
		UploadDir:                 os.TempDir(),
		UploadMaxSizeMB:           50,
	}
}

func setString(k *koanf.Koanf, dst *string, key string) {
	if k.Exists(key) {
		*dst = k.String(key)
	}
}

func setInt(k *koanf.Koanf, dst *int, key string) {
	if k.Exists(key) {
		*dst = k.Int(key)
	}
}

func setBool(k *koanf.Koanf, dst *bool, key string) {
	if k.Exists(key) {
		*dst = k.Bool(key)
	}
}

func toSnakeCase(field string) string {
	return strcase.ToSnake(field)
}
