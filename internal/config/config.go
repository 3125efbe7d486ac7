package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Host string
	Port string
	Env  string

	LogLevel string
	LogJSON  bool
	LogFile  string

	ReadLimit    int64
	PongWait     time.Duration
	WriteWait    time.Duration
	SendBuffer   int
	RateBurst    int
	RateInterval time.Duration
}

// Load reads .env (if present) and the process environment. It runs before the
// logger is configured, so its own output stays at trace level.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Trace().Str("component", "config").Msg("no .env file found, relying on system environment variables")
	}

	cfg := &Config{
		Host:     getEnv("HOST", "localhost"),
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),
	}

	var err error
	if cfg.LogJSON, err = getEnvBool("LOG_JSON", false); err != nil {
		return nil, err
	}
	if cfg.ReadLimit, err = getEnvInt64("WS_READ_LIMIT", 4096); err != nil {
		return nil, err
	}
	if cfg.PongWait, err = getEnvDuration("WS_PONG_WAIT", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.WriteWait, err = getEnvDuration("WS_WRITE_WAIT", 5*time.Second); err != nil {
		return nil, err
	}
	sendBuffer, err := getEnvInt64("WS_SEND_BUFFER", 256)
	if err != nil {
		return nil, err
	}
	cfg.SendBuffer = int(sendBuffer)
	burst, err := getEnvInt64("RATE_LIMIT_BURST", 5)
	if err != nil {
		return nil, err
	}
	cfg.RateBurst = int(burst)
	if cfg.RateInterval, err = getEnvDuration("RATE_LIMIT_INTERVAL", 500*time.Millisecond); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		problems = append(problems, "PORT must be between 1 and 65535")
	}
	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic":
	default:
		problems = append(problems, "LOG_LEVEL must be one of: trace, debug, info, warn, error, fatal, panic")
	}
	if c.ReadLimit <= 0 {
		problems = append(problems, "WS_READ_LIMIT must be positive")
	}
	if c.PongWait <= 0 || c.WriteWait <= 0 {
		problems = append(problems, "WS_PONG_WAIT and WS_WRITE_WAIT must be positive")
	}
	if c.SendBuffer <= 0 {
		problems = append(problems, "WS_SEND_BUFFER must be positive")
	}
	if c.RateBurst <= 0 || c.RateInterval <= 0 {
		problems = append(problems, "RATE_LIMIT_BURST and RATE_LIMIT_INTERVAL must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// PingPeriod keeps pings inside the pong deadline.
func (c *Config) PingPeriod() time.Duration {
	return (c.PongWait * 9) / 10
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		log.Trace().Str("component", "config").Msgf("variable %s not found, using default: %q", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid boolean value for %s: %w", key, err)
	}
	return parsed, nil
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %w", key, err)
	}
	return parsed, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration value for %s: %w", key, err)
	}
	return parsed, nil
}
