package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreDriverMongo  = "mongo"
	StoreDriverMemory = "memory"
)

// Config aggregates every setting of the service.
type Config struct {
	Server  ServerConfig
	Store   StoreConfig
	Logging LoggingConfig
	CORS    CORSConfig
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	storeCfg, err := loadStoreConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:  server,
		Store:   storeCfg,
		Logging: loadLoggingConfig(),
		CORS:    loadCORSConfig(),
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

// loadServerConfig resolves the listen address from PORT.
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Allow ":8080" or "127.0.0.1:8080" as-is.
		return ServerConfig{Addr: port}, nil
	}

	if _, err := strconv.Atoi(port); err != nil {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// StoreConfig describes the document store connection.
type StoreConfig struct {
	Driver   string
	URL      string
	Database string
	Timeout  time.Duration
}

func loadStoreConfig() (StoreConfig, error) {
	driver := strings.ToLower(getEnvOrDefault("STORE_DRIVER", StoreDriverMongo))
	switch driver {
	case StoreDriverMongo, StoreDriverMemory:
	default:
		return StoreConfig{}, fmt.Errorf("invalid STORE_DRIVER value %q: want %q or %q", driver, StoreDriverMongo, StoreDriverMemory)
	}

	timeoutSeconds := 10
	if override, err := parseOptionalIntEnv("STORE_TIMEOUT_SECONDS"); err != nil {
		return StoreConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return StoreConfig{}, fmt.Errorf("invalid STORE_TIMEOUT_SECONDS value %d: must be positive", *override)
		}
		timeoutSeconds = *override
	}

	return StoreConfig{
		Driver:   driver,
		URL:      getEnvOrDefault("MONGO_URL", "mongodb://localhost:27017"),
		Database: getEnvOrDefault("DB_NAME", "soulnest_db"),
		Timeout:  time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

// LoggingConfig selects the logger flavour and level.
type LoggingConfig struct {
	Environment string
	Level       string
}

// Production reports whether JSON production logging should be used.
func (c LoggingConfig) Production() bool {
	return c.Environment == "production"
}

func loadLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Environment: strings.ToLower(getEnvOrDefault("APP_ENV", "development")),
		Level:       strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
	}
}

// CORSConfig lists the origins allowed to call the API from a browser.
type CORSConfig struct {
	AllowedOrigins []string
}

func loadCORSConfig() CORSConfig {
	raw := getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return CORSConfig{AllowedOrigins: origins}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
