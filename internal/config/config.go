package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server  ServerConfig
	Worker  WorkerConfig
	Sources SourcesConfig
	Geocode GeocodeConfig
	DB      DatabaseConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type WorkerConfig struct {
	Count      int
	BufferSize int
}

type SourcesConfig struct {
	PollInterval     time.Duration
	GDACSEnabled     bool
	GDACSURL         string
	ReliefWebEnabled bool
	ReliefWebURL     string
	ReliefWebAppName string
	BIPADEnabled     bool
	BIPADURL         string
	DHMEnabled       bool
	DHMURL           string
}

type GeocodeConfig struct {
	Endpoint  string
	UserAgent string
}

type DatabaseConfig struct {
	Path string
}

type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "localhost"),
			Port: getEnvInt("SERVER_PORT", 8080),
		},
		Worker: WorkerConfig{
			Count:      getEnvInt("WORKER_COUNT", 2),
			BufferSize: getEnvInt("WORKER_BUFFER_SIZE", 50),
		},
		Sources: SourcesConfig{
			PollInterval:     getEnvDuration("POLL_INTERVAL", 5*time.Minute),
			GDACSEnabled:     getEnvBool("GDACS_ENABLED", true),
			GDACSURL:         getEnv("GDACS_URL", "https://www.gdacs.org/xml/rss.xml"),
			ReliefWebEnabled: getEnvBool("RELIEFWEB_ENABLED", true),
			ReliefWebURL:     getEnv("RELIEFWEB_URL", "https://api.reliefweb.int/v1/reports"),
			ReliefWebAppName: getEnv("RELIEFWEB_APPNAME", "go-nepal-alerts"),
			BIPADEnabled:     getEnvBool("BIPAD_ENABLED", true),
			BIPADURL:         getEnv("BIPAD_URL", "https://bipadportal.gov.np/api/v1/incident/"),
			DHMEnabled:       getEnvBool("DHM_ENABLED", true),
			DHMURL:           getEnv("DHM_URL", "https://hydrology.gov.np/gss/api/observation"),
		},
		Geocode: GeocodeConfig{
			Endpoint:  getEnv("GEOCODE_ENDPOINT", "https://nominatim.openstreetmap.org/search"),
			UserAgent: getEnv("GEOCODE_USER_AGENT", "go-nepal-alerts/1.0 (github.com/skarki/go-nepal-alerts)"),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/nepal-alerts.db"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Sources.PollInterval < time.Minute {
		return fmt.Errorf("poll interval must be at least 1 minute")
	}

	if c.Geocode.UserAgent == "" {
		return fmt.Errorf("geocode user agent must not be empty")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
