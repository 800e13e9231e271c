package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/lianstemp/aws-serverless-comparison/tsp"
)

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig
	Solver        SolverConfig
	Database      DatabaseConfig
	Quantum       QuantumConfig
	Experiments   ExperimentConfig
	Observability ObservabilityConfig
	Environment   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// SolverConfig holds the route engine ceilings and sampling effort
type SolverConfig struct {
	ExactCeiling    int
	ResourceCeiling int // MAX_QUBITS
	MaxTrials       int
	ShotsPerTrial   int
	Workers         int   // 0 = GOMAXPROCS
	Seed            int64 // 0 = fresh seed per request
}

// DatabaseConfig holds PostgreSQL configuration.
// An empty ConnectionString selects the in-memory experiment store.
type DatabaseConfig struct {
	ConnectionString string // From DATABASE_URL
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
}

// QuantumConfig describes the (simulated) quantum device used to decorate
// sampled results
type QuantumConfig struct {
	DeviceARN string
	Region    string
	AccountID string
}

// ExperimentConfig holds experiment log retention
type ExperimentConfig struct {
	TTL time.Duration
}

// ObservabilityConfig holds monitoring and logging configuration
type ObservabilityConfig struct {
	LogLevel       string
	LogFormat      string // json or console
	MetricsEnabled bool
}

// DefaultDeviceARN is the managed state-vector simulator.
const DefaultDeviceARN = "arn:aws:braket:::device/quantum-simulator/amazon/sv1"

// New creates a new Config instance by loading environment variables
func New() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getPort(),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			AllowedOrigins:  getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Solver: SolverConfig{
			ExactCeiling:    getEnvAsInt("TSP_EXACT_CEILING", tsp.DefaultExactCeiling),
			ResourceCeiling: getEnvAsInt("MAX_QUBITS", tsp.DefaultResourceCeiling),
			MaxTrials:       getEnvAsInt("TSP_MAX_TRIALS", tsp.DefaultMaxTrials),
			ShotsPerTrial:   getEnvAsInt("TSP_SHOTS_PER_TRIAL", tsp.DefaultShotsPerTrial),
			Workers:         getEnvAsInt("TSP_WORKERS", 0),
			Seed:            getEnvAsInt64("TSP_SEED", 0),
		},
		Database: DatabaseConfig{
			ConnectionString: getEnv("DATABASE_URL", ""),
			MaxOpenConns:     getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:     getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime:  getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Quantum: QuantumConfig{
			DeviceARN: getEnv("BRAKET_DEVICE_ARN", DefaultDeviceARN),
			Region:    getEnv("AWS_REGION", "us-east-1"),
			AccountID: getEnv("AWS_ACCOUNT_ID", "000000000000"),
		},
		Experiments: ExperimentConfig{
			TTL: getEnvAsDuration("EXPERIMENT_TTL", 30*24*time.Hour),
		},
		Observability: ObservabilityConfig{
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			LogFormat:      getEnv("LOG_FORMAT", "json"),
			MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
		},
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for inconsistent values
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}

	// Solver validation mirrors tsp options validation so that a bad
	// environment fails at startup instead of on the first request.
	if c.Solver.ExactCeiling < 1 || c.Solver.ExactCeiling > tsp.MaxExactCeiling {
		return fmt.Errorf("TSP_EXACT_CEILING must be in [1,%d], got %d", tsp.MaxExactCeiling, c.Solver.ExactCeiling)
	}
	if c.Solver.ResourceCeiling < 1 {
		return fmt.Errorf("MAX_QUBITS must be positive, got %d", c.Solver.ResourceCeiling)
	}
	if c.Solver.MaxTrials < 1 {
		return fmt.Errorf("TSP_MAX_TRIALS must be positive, got %d", c.Solver.MaxTrials)
	}
	if c.Solver.ShotsPerTrial < 1 {
		return fmt.Errorf("TSP_SHOTS_PER_TRIAL must be positive, got %d", c.Solver.ShotsPerTrial)
	}
	if c.Solver.Workers < 0 {
		return fmt.Errorf("TSP_WORKERS must not be negative, got %d", c.Solver.Workers)
	}

	if c.Experiments.TTL <= 0 {
		return fmt.Errorf("experiment TTL must be positive")
	}

	// Observability validation
	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}
	switch c.Observability.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format %q (json or console)", c.Observability.LogFormat)
	}

	return nil
}

// IsProduction reports whether ENVIRONMENT names production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// Options converts the solver section into engine options.
func (c *SolverConfig) Options() tsp.Options {
	opts := tsp.DefaultOptions()
	opts.ExactCeiling = c.ExactCeiling
	opts.ResourceCeiling = c.ResourceCeiling
	opts.MaxTrials = c.MaxTrials
	opts.ShotsPerTrial = c.ShotsPerTrial
	if c.Workers > 0 {
		opts.Workers = c.Workers
	}
	return opts
}

// UsesPostgres reports whether a database URL is configured.
func (c *DatabaseConfig) UsesPostgres() bool {
	return c.ConnectionString != ""
}

// LogString returns a safe string for logging (no password).
func (c *DatabaseConfig) LogString() string {
	if c.ConnectionString == "" {
		return "memory"
	}
	u, err := url.Parse(c.ConnectionString)
	if err != nil {
		return "host=<from DATABASE_URL>"
	}
	port := u.Port()
	if port == "" {
		port = "5432"
	}
	return fmt.Sprintf("host=%s port=%s database=%s", u.Hostname(), port, strings.TrimPrefix(u.Path, "/"))
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Helper functions

// getPort returns the server port from PORT or SERVER_PORT env vars (default: 8080)
func getPort() int {
	if value := os.Getenv("PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	if value := os.Getenv("SERVER_PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	return 8080
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
