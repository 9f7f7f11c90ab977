package config

import (
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	BackendURL          string `validate:"required,url"`
	ServerPort          string `validate:"required,numeric"`
	PollIntervalSeconds int    `validate:"min=1"`
	HTTPTimeoutSeconds  int    `validate:"min=1"`
	CacheTTLMinutes     int    `validate:"min=1"`
	RedisAddr           string `validate:"omitempty,hostname_port"`
	LogLevel            string `validate:"oneof=trace debug info warn error"`
	MinFetchSpacingSecs int    `validate:"min=0"`
}

// Defaults applied when an environment value is missing or fails validation.
var defaults = Config{
	BackendURL:          "http://localhost:8000",
	ServerPort:          "3000",
	PollIntervalSeconds: 120,
	HTTPTimeoutSeconds:  10,
	CacheTTLMinutes:     5,
	RedisAddr:           "",
	LogLevel:            "info",
	MinFetchSpacingSecs: 2,
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		logrus.Warn("Error loading .env file, using system environment variables")
	}

	cfg := &Config{
		BackendURL:          getEnv("BACKEND_URL", defaults.BackendURL),
		ServerPort:          getEnv("SERVER_PORT", defaults.ServerPort),
		PollIntervalSeconds: getEnvInt("POLL_INTERVAL_SECONDS", defaults.PollIntervalSeconds),
		HTTPTimeoutSeconds:  getEnvInt("HTTP_TIMEOUT_SECONDS", defaults.HTTPTimeoutSeconds),
		CacheTTLMinutes:     getEnvInt("CACHE_TTL_MINUTES", defaults.CacheTTLMinutes),
		RedisAddr:           getEnv("REDIS_ADDR", defaults.RedisAddr),
		LogLevel:            getEnv("LOG_LEVEL", defaults.LogLevel),
		MinFetchSpacingSecs: getEnvInt("MIN_FETCH_SPACING_SECONDS", defaults.MinFetchSpacingSecs),
	}

	cfg.validateAndApplyDefaults()
	return cfg
}

// validateAndApplyDefaults checks each field's validate tag and resets
// invalid values to their defaults instead of failing startup.
func (c *Config) validateAndApplyDefaults() {
	validate := validator.New()
	err := validate.Struct(c)
	if err == nil {
		return
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		logrus.WithError(err).Warn("Config validation failed, keeping loaded values")
		return
	}

	for _, fieldErr := range validationErrs {
		switch fieldErr.Field() {
		case "BackendURL":
			logrus.Warnf("Invalid BACKEND_URL %q, using default %s", c.BackendURL, defaults.BackendURL)
			c.BackendURL = defaults.BackendURL
		case "ServerPort":
			logrus.Warnf("Invalid SERVER_PORT %q, using default %s", c.ServerPort, defaults.ServerPort)
			c.ServerPort = defaults.ServerPort
		case "PollIntervalSeconds":
			logrus.Warnf("Invalid POLL_INTERVAL_SECONDS %d, using default %d", c.PollIntervalSeconds, defaults.PollIntervalSeconds)
			c.PollIntervalSeconds = defaults.PollIntervalSeconds
		case "HTTPTimeoutSeconds":
			logrus.Warnf("Invalid HTTP_TIMEOUT_SECONDS %d, using default %d", c.HTTPTimeoutSeconds, defaults.HTTPTimeoutSeconds)
			c.HTTPTimeoutSeconds = defaults.HTTPTimeoutSeconds
		case "CacheTTLMinutes":
			logrus.Warnf("Invalid CACHE_TTL_MINUTES %d, using default %d", c.CacheTTLMinutes, defaults.CacheTTLMinutes)
			c.CacheTTLMinutes = defaults.CacheTTLMinutes
		case "RedisAddr":
			logrus.Warnf("Invalid REDIS_ADDR %q, disabling Redis cache", c.RedisAddr)
			c.RedisAddr = ""
		case "LogLevel":
			logrus.Warnf("Invalid LOG_LEVEL %q, using default %s", c.LogLevel, defaults.LogLevel)
			c.LogLevel = defaults.LogLevel
		case "MinFetchSpacingSecs":
			logrus.Warnf("Invalid MIN_FETCH_SPACING_SECONDS %d, using default %d", c.MinFetchSpacingSecs, defaults.MinFetchSpacingSecs)
			c.MinFetchSpacingSecs = defaults.MinFetchSpacingSecs
		}
	}
}

// PollInterval returns the snapshot refresh interval.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// HTTPTimeout returns the outbound request timeout shared by all proxy
// operations.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// CacheTTL returns the default cache entry lifetime.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

// MinFetchSpacing returns the minimum delay enforced between upstream
// record fetches.
func (c *Config) MinFetchSpacing() time.Duration {
	return time.Duration(c.MinFetchSpacingSecs) * time.Second
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logrus.Warnf("Invalid %s value: %s, using default %d", key, value, fallback)
		return fallback
	}
	return parsed
}
