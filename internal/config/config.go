package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Pipeline  PipelineConfig  `yaml:"pipeline" envconfig:"PIPELINE"`
	Warehouse WarehouseConfig `yaml:"warehouse" envconfig:"WAREHOUSE"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PipelineConfig contains the cleaning and feature pipeline configuration.
// All values have defaults matching the reference analysis; callers may
// override any of them.
type PipelineConfig struct {
	ChurnThresholdDays int      `yaml:"churn_threshold_days" envconfig:"CHURN_THRESHOLD_DAYS"`
	TopProducts        int      `yaml:"top_products" envconfig:"TOP_PRODUCTS"`
	TopCustomers       int      `yaml:"top_customers" envconfig:"TOP_CUSTOMERS"`
	TextColumns        []string `yaml:"text_columns" envconfig:"TEXT_COLUMNS"`
	NullTokens         []string `yaml:"null_tokens" envconfig:"NULL_TOKENS"`
}

// WarehouseConfig contains the BigQuery source configuration
type WarehouseConfig struct {
	ProjectID       string `yaml:"project_id" envconfig:"PROJECT_ID"`
	Dataset         string `yaml:"dataset" envconfig:"DATASET"`
	Table           string `yaml:"table" envconfig:"TABLE"`
	CredentialsFile string `yaml:"credentials_file" envconfig:"CREDENTIALS_FILE"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR"`
	RawDir     string `yaml:"raw_dir" envconfig:"RAW_DIR"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// defaultConfig returns the built-in configuration. Load layers the YAML
// file and then the environment on top of it, so precedence is
// env > file > defaults. Struct-tag defaults cannot express that: envconfig
// applies them whenever the variable is unset, stomping file values.
func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RateLimitRPS:    100,
			RateLimitBurst:  50,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Pipeline: PipelineConfig{
			ChurnThresholdDays: DefaultChurnThresholdDays,
			TopProducts:        DefaultTopProducts,
			TopCustomers:       DefaultTopCustomers,
		},
		Warehouse: WarehouseConfig{
			Dataset: "Gamezone",
			Table:   "Orders",
		},
		Paths: PathsConfig{
			DataDir:    DefaultDataDir,
			RawDir:     DefaultRawDir,
			ReportsDir: DefaultReportsDir,
			LogsDir:    DefaultLogsDir,
		},
	}
}

// Load loads configuration from the defaults, the optional YAML config
// file, and environment variables, in increasing precedence.
func Load() (*Config, error) {
	cfg := defaultConfig()

	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		// Unmarshalling into the defaulted struct leaves absent keys alone.
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := envconfig.Process("GZ", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	cfg.applyPipelineDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// applyPipelineDefaults fills the slice-valued pipeline settings, which
// envconfig defaults cannot express.
func (c *Config) applyPipelineDefaults() {
	if len(c.Pipeline.TextColumns) == 0 {
		c.Pipeline.TextColumns = DefaultTextColumns()
	}
	if len(c.Pipeline.NullTokens) == 0 {
		for token := range DefaultNullTokens() {
			c.Pipeline.NullTokens = append(c.Pipeline.NullTokens, token)
		}
	}
}

// NullTokenSet returns the configured null tokens as a lookup set.
func (c *Config) NullTokenSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.Pipeline.NullTokens))
	for _, token := range c.Pipeline.NullTokens {
		set[token] = struct{}{}
	}
	return set
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Pipeline.ChurnThresholdDays < 0 {
		return fmt.Errorf("churn threshold must be non-negative, got %d", c.Pipeline.ChurnThresholdDays)
	}
	if c.Pipeline.TopProducts < 1 {
		return fmt.Errorf("top products must be positive, got %d", c.Pipeline.TopProducts)
	}
	if c.Pipeline.TopCustomers < 1 {
		return fmt.Errorf("top customers must be positive, got %d", c.Pipeline.TopCustomers)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	return nil
}

// getConfigFilePath returns the config file path, overridable via env
func getConfigFilePath() string {
	if path := os.Getenv("GZ_CONFIG_FILE"); path != "" {
		return path
	}
	return "config.yaml"
}
