package config

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"SignalDesk/pkg/util"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Backend struct {
		Type string `yaml:"type"`
	} `yaml:"backend"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID    string        `yaml:"group_id"`
			Workers    int           `yaml:"workers"`
			BufferSize int           `yaml:"buffer_size"`
			RetryMax   int           `yaml:"retry_max"`
			BackoffMin time.Duration `yaml:"backoff_min"`
			BackoffMax time.Duration `yaml:"backoff_max"`
			DLQTopic   string        `yaml:"dlq_topic"`
			MinBytes   int           `yaml:"min_bytes"`
			MaxBytes   int           `yaml:"max_bytes"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	Postgres struct {
		Host           string        `yaml:"host"`
		Port           int           `yaml:"port"`
		Database       string        `yaml:"database"`
		User           string        `yaml:"user"`
		Password       string        `yaml:"password"`
		SSLMode        string        `yaml:"ssl_mode"`
		MaxOpenConns   int           `yaml:"max_open_conns"`
		MaxIdleConns   int           `yaml:"max_idle_conns"`
		ConnectTimeout time.Duration `yaml:"connect_timeout"`
	} `yaml:"postgres"`
	ClickHouse struct {
		Enabled          bool          `yaml:"enabled"`
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Queue    struct {
			Workers    int           `yaml:"workers"`
			RetryLimit int           `yaml:"retry_limit"`
			RetryDelay time.Duration `yaml:"retry_delay"`
		} `yaml:"queue"`
	} `yaml:"redis"`
	MarketData struct {
		APIKey  string        `yaml:"api_key"`
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"market_data"`
	Signals struct {
		MinWindow       int     `yaml:"min_window"`
		DefaultLookback int     `yaml:"default_lookback"`
		BenchmarkSymbol string  `yaml:"benchmark_symbol"`
		VaRConfidence   float64 `yaml:"var_confidence"`
		Weights         struct {
			Technical  float64 `yaml:"technical"`
			Momentum   float64 `yaml:"momentum"`
			Volume     float64 `yaml:"volume"`
			Trend      float64 `yaml:"trend"`
			Volatility float64 `yaml:"volatility"`
		} `yaml:"weights"`
		Thresholds struct {
			Bullish float64 `yaml:"bullish"`
			Bearish float64 `yaml:"bearish"`
		} `yaml:"thresholds"`
		Confidences map[string]float64 `yaml:"confidences"`
		Recommend   struct {
			EntryConfidence float64 `yaml:"entry_confidence"`
			HighVolatility  float64 `yaml:"high_volatility"`
			HoldConfidence  float64 `yaml:"hold_confidence"`
			MaxPositionSize float64 `yaml:"max_position_size"`
			RiskBudget      float64 `yaml:"risk_budget"`
			ReduceFactor    float64 `yaml:"reduce_factor"`
		} `yaml:"recommend"`
	} `yaml:"signals"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("SERVER_PORT"); v != "" {
		c.Server.Port = util.ParseIntDefault(v, c.Server.Port)
	}
	if v := os.Getenv("MARKET_DATA_API_KEY"); v != "" {
		c.MarketData.APIKey = v
	}
	if v := os.Getenv("BACKEND"); v != "" {
		c.Backend.Type = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("POSTGRES_HOST"); v != "" {
		c.Postgres.Host = v
	}
	if v := os.Getenv("POSTGRES_PASSWORD"); v != "" {
		c.Postgres.Password = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("BENCHMARK_SYMBOL"); v != "" {
		c.Signals.BenchmarkSymbol = v
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Backend.Type == "" {
		return fmt.Errorf("backend.type is required")
	}
	if c.Backend.Type != "kafka" && c.Backend.Type != "postgres" {
		return fmt.Errorf("backend.type must be 'kafka' or 'postgres', got '%s'", c.Backend.Type)
	}
	if c.Postgres.Host == "" {
		return fmt.Errorf("postgres.host is required")
	}

	w := c.Signals.Weights
	sum := w.Technical + w.Momentum + w.Volume + w.Trend + w.Volatility
	if sum != 0 && math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("signals.weights must sum to 1.0, got %v", sum)
	}
	for family, conf := range c.Signals.Confidences {
		if conf < 0 || conf > 1 {
			return fmt.Errorf("signals.confidences[%s] must be in [0,1], got %v", family, conf)
		}
	}
	if v := c.Signals.VaRConfidence; v != 0 && (v <= 0 || v >= 1) {
		return fmt.Errorf("signals.var_confidence must be in (0,1), got %v", v)
	}
	return nil
}
