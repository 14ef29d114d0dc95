package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `toml:"server" yaml:"server"`
	DB       DBConfig       `toml:"database" yaml:"database"`
	Gemini   GeminiConfig   `toml:"gemini" yaml:"gemini"`
	Redis    RedisConfig    `toml:"redis" yaml:"redis"`
	Logging  LoggingConfig  `toml:"logging" yaml:"logging"`
	Metrics  MetricsConfig  `toml:"metrics" yaml:"metrics"`
	Timezone string         `toml:"timezone" yaml:"timezone"` // Used for CLI output only.
}

type ServerConfig struct {
	Addr           string   `toml:"addr" yaml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins" yaml:"allowed_origins"`
	ReadTimeout    Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout   Duration `toml:"write_timeout" yaml:"write_timeout"`
}

type DBConfig struct {
	ConnectionString string   `toml:"connection_string" yaml:"connection_string"` // The entire DB connection string.
	AuthToken        string   `toml:"auth_token" yaml:"auth_token"`
	Timeout          Duration `toml:"timeout" yaml:"timeout"`
}

type GeminiConfig struct {
	APIKey  string   `toml:"api_key" yaml:"api_key"`
	Model   string   `toml:"model" yaml:"model"`
	Timeout Duration `toml:"timeout" yaml:"timeout"`
}

type RedisConfig struct {
	Address    string   `toml:"address" yaml:"address"`
	Password   string   `toml:"password" yaml:"password"`
	DB         int      `toml:"db" yaml:"db"`
	PoolSize   int      `toml:"pool_size" yaml:"pool_size"`
	SessionTTL Duration `toml:"session_ttl" yaml:"session_ttl"`
}

type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // "json" or "console"
}

type MetricsConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Addr    string `toml:"addr" yaml:"addr"`
}

// Duration decodes "90s"-style strings from both TOML and YAML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

const DevConnectionString = "file:./fitness.db?cache=shared&mode=rwc"

// Default returns the configuration used for every field a file leaves unset.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
			ReadTimeout:    Duration{15 * time.Second},
			WriteTimeout:   Duration{90 * time.Second},
		},
		DB: DBConfig{
			Timeout: Duration{10 * time.Second},
		},
		Gemini: GeminiConfig{
			Model:   "gemini-2.0-flash",
			Timeout: Duration{60 * time.Second},
		},
		Redis: RedisConfig{
			Address:    "localhost:6379",
			PoolSize:   10,
			SessionTTL: Duration{7 * 24 * time.Hour},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Addr: ":9090",
		},
		Timezone: "Asia/Manila",
	}
}

// Returns the path to the config file.
func GetConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(home, ".config", "fitness-planner")
	return filepath.Join(dir, "config.toml"), nil
}

// LoadConfig reads the configuration from path, or from GetConfigPath when path
// is empty. A missing file is not an error: defaults and the environment are
// enough to run. A .env file in the working directory is loaded first.
func LoadConfig(path string) (*Config, error) {
	// .env is optional.
	_ = godotenv.Load()

	if path == "" {
		var err error
		if path, err = GetConfigPath(); err != nil {
			return nil, err
		}
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("Failed to read config %s: %w", path, err)
	default:
		if err := decode(path, data, cfg); err != nil {
			return nil, fmt.Errorf("Failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		// Environment references such as ${GEMINI_API_KEY} are expanded in YAML files.
		return yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg)
	default:
		_, err := toml.Decode(string(data), cfg)
		return err
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		c.Gemini.Model = v
	}
	if v := os.Getenv("TURSO_DATABASE_URL"); v != "" {
		c.DB.ConnectionString = v
	}
	if v := os.Getenv("TURSO_AUTH_TOKEN"); v != "" {
		c.DB.AuthToken = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Address = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if _, err := strconv.Atoi(v); err == nil {
			c.Server.Addr = ":" + v
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}

	// Check for a DEV_MODE environment variable.
	if os.Getenv("DEV_MODE") == "true" {
		c.DB.ConnectionString = DevConnectionString
		c.Logging.Format = "console"
	}
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	var missing []string
	if c.DB.ConnectionString == "" {
		missing = append(missing, "database.connection_string (or TURSO_DATABASE_URL)")
	}
	if c.Gemini.APIKey == "" {
		missing = append(missing, "gemini.api_key (or GEMINI_API_KEY)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}
