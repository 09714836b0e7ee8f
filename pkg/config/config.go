package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/pflag"
)

// Config holds the configuration for a Sundial Atlas service
type Config struct {
	// MQTT configuration
	MQTTBroker   string
	MQTTPort     int
	MQTTUser     string
	MQTTPassword string
	MQTTClientID string

	// Redis configuration
	RedisHost     string
	RedisPort     int
	RedisPassword string
	RedisDB       int

	// Postgres configuration
	PostgresHost            string
	PostgresPort            int
	PostgresUser            string
	PostgresPassword        string
	PostgresDB              string
	PostgresSSLMode         string
	PostgresMaxConnections  int
	PostgresMaxIdleConns    int
	PostgresConnMaxLifetime int // seconds

	// Service configuration
	ServiceName string
	HealthPort  int
	APIPort     int
	LogLevel    string

	// Timezone data configuration
	TZDataPath string
	TZDataURL  string

	// Atlas agent configuration
	ColorScheme           string
	PalettePath           string
	ClockIntervalSec      int
	TerminatorIntervalSec int
	TerminatorCacheTTLMin int
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		MQTTBroker:    "localhost",
		MQTTPort:      1883,
		MQTTUser:      "",
		MQTTPassword:  "",
		MQTTClientID:  "",
		RedisHost:     "localhost",
		RedisPort:     6379,
		RedisPassword: "",
		RedisDB:       0,
		PostgresHost:            "localhost",
		PostgresPort:            5432,
		PostgresUser:            "sundial",
		PostgresPassword:        "",
		PostgresDB:              "sundial",
		PostgresSSLMode:         "disable",
		PostgresMaxConnections:  10,
		PostgresMaxIdleConns:    5,
		PostgresConnMaxLifetime: 300,
		ServiceName: "sundial-agent",
		HealthPort:  8080,
		APIPort:     3010,
		LogLevel:    "info",
		TZDataPath:  "data/timezones.geojson",
		TZDataURL:   "",
		ColorScheme:           "rainbow",
		PalettePath:           "",
		ClockIntervalSec:      1,
		TerminatorIntervalSec: 60,
		TerminatorCacheTTLMin: 10,
	}
}

// LoadFromEnv loads configuration from environment variables with ATLAS_ prefix
func (c *Config) LoadFromEnv() {
	// MQTT configuration
	if v := os.Getenv("ATLAS_MQTT_BROKER"); v != "" {
		c.MQTTBroker = v
	}
	if v := os.Getenv("ATLAS_MQTT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.MQTTPort = port
		}
	}
	if v := os.Getenv("ATLAS_MQTT_USER"); v != "" {
		c.MQTTUser = v
	}
	if v := os.Getenv("ATLAS_MQTT_PASSWORD"); v != "" {
		c.MQTTPassword = v
	}
	if v := os.Getenv("ATLAS_MQTT_CLIENT_ID"); v != "" {
		c.MQTTClientID = v
	}

	// Redis configuration
	if v := os.Getenv("ATLAS_REDIS_HOST"); v != "" {
		c.RedisHost = v
	}
	if v := os.Getenv("ATLAS_REDIS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.RedisPort = port
		}
	}
	if v := os.Getenv("ATLAS_REDIS_PASSWORD"); v != "" {
		c.RedisPassword = v
	}
	if v := os.Getenv("ATLAS_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.RedisDB = db
		}
	}

	// Postgres configuration
	if v := os.Getenv("ATLAS_POSTGRES_HOST"); v != "" {
		c.PostgresHost = v
	}
	if v := os.Getenv("ATLAS_POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.PostgresPort = port
		}
	}
	if v := os.Getenv("ATLAS_POSTGRES_USER"); v != "" {
		c.PostgresUser = v
	}
	if v := os.Getenv("ATLAS_POSTGRES_PASSWORD"); v != "" {
		c.PostgresPassword = v
	}
	if v := os.Getenv("ATLAS_POSTGRES_DB"); v != "" {
		c.PostgresDB = v
	}
	if v := os.Getenv("ATLAS_POSTGRES_SSL_MODE"); v != "" {
		c.PostgresSSLMode = v
	}

	// Service configuration
	if v := os.Getenv("ATLAS_SERVICE_NAME"); v != "" {
		c.ServiceName = v
	}
	if v := os.Getenv("ATLAS_HEALTH_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.HealthPort = port
		}
	}
	if v := os.Getenv("ATLAS_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.APIPort = port
		}
	}
	if v := os.Getenv("ATLAS_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}

	// Timezone data configuration
	if v := os.Getenv("ATLAS_TZDATA_PATH"); v != "" {
		c.TZDataPath = v
	}
	if v := os.Getenv("ATLAS_TZDATA_URL"); v != "" {
		c.TZDataURL = v
	}

	// Atlas agent configuration
	if v := os.Getenv("ATLAS_COLOR_SCHEME"); v != "" {
		c.ColorScheme = v
	}
	if v := os.Getenv("ATLAS_PALETTE_PATH"); v != "" {
		c.PalettePath = v
	}
	if v := os.Getenv("ATLAS_CLOCK_INTERVAL_SEC"); v != "" {
		if interval, err := strconv.Atoi(v); err == nil {
			c.ClockIntervalSec = interval
		}
	}
	if v := os.Getenv("ATLAS_TERMINATOR_INTERVAL_SEC"); v != "" {
		if interval, err := strconv.Atoi(v); err == nil {
			c.TerminatorIntervalSec = interval
		}
	}
	if v := os.Getenv("ATLAS_TERMINATOR_CACHE_TTL_MIN"); v != "" {
		if ttl, err := strconv.Atoi(v); err == nil {
			c.TerminatorCacheTTLMin = ttl
		}
	}
}

// LoadFromFlags parses command-line flags and overrides config values
func (c *Config) LoadFromFlags() {
	// MQTT flags
	pflag.StringVar(&c.MQTTBroker, "mqtt-broker", c.MQTTBroker, "MQTT broker hostname")
	pflag.IntVar(&c.MQTTPort, "mqtt-port", c.MQTTPort, "MQTT broker port")
	pflag.StringVar(&c.MQTTUser, "mqtt-user", c.MQTTUser, "MQTT username")
	pflag.StringVar(&c.MQTTPassword, "mqtt-password", c.MQTTPassword, "MQTT password")
	pflag.StringVar(&c.MQTTClientID, "mqtt-client-id", c.MQTTClientID, "MQTT client ID")

	// Redis flags
	pflag.StringVar(&c.RedisHost, "redis-host", c.RedisHost, "Redis hostname")
	pflag.IntVar(&c.RedisPort, "redis-port", c.RedisPort, "Redis port")
	pflag.StringVar(&c.RedisPassword, "redis-password", c.RedisPassword, "Redis password")
	pflag.IntVar(&c.RedisDB, "redis-db", c.RedisDB, "Redis database number")

	// Postgres flags
	pflag.StringVar(&c.PostgresHost, "postgres-host", c.PostgresHost, "Postgres hostname")
	pflag.IntVar(&c.PostgresPort, "postgres-port", c.PostgresPort, "Postgres port")
	pflag.StringVar(&c.PostgresUser, "postgres-user", c.PostgresUser, "Postgres user")
	pflag.StringVar(&c.PostgresPassword, "postgres-password", c.PostgresPassword, "Postgres password")
	pflag.StringVar(&c.PostgresDB, "postgres-db", c.PostgresDB, "Postgres database name")
	pflag.StringVar(&c.PostgresSSLMode, "postgres-ssl-mode", c.PostgresSSLMode, "Postgres SSL mode")

	// Service flags
	pflag.StringVar(&c.ServiceName, "service-name", c.ServiceName, "Service name")
	pflag.IntVar(&c.HealthPort, "health-port", c.HealthPort, "Health check HTTP port")
	pflag.IntVar(&c.APIPort, "api-port", c.APIPort, "HTTP API port")
	pflag.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level (debug, info, warn, error)")

	// Timezone data flags
	pflag.StringVar(&c.TZDataPath, "tzdata-path", c.TZDataPath, "Path to the timezone boundary GeoJSON file")
	pflag.StringVar(&c.TZDataURL, "tzdata-url", c.TZDataURL, "URL to fetch timezone boundaries from (overrides path when set)")

	// Atlas agent flags
	pflag.StringVar(&c.ColorScheme, "color-scheme", c.ColorScheme, "Active zone color scheme")
	pflag.StringVar(&c.PalettePath, "palette-path", c.PalettePath, "Optional YAML palette override file")
	pflag.IntVar(&c.ClockIntervalSec, "clock-interval", c.ClockIntervalSec, "Clock publish interval in seconds")
	pflag.IntVar(&c.TerminatorIntervalSec, "terminator-interval", c.TerminatorIntervalSec, "Terminator recompute interval in seconds")
	pflag.IntVar(&c.TerminatorCacheTTLMin, "terminator-cache-ttl", c.TerminatorCacheTTLMin, "Terminator Redis cache TTL in minutes")

	pflag.Parse()
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT broker is required")
	}
	if c.MQTTPort <= 0 || c.MQTTPort > 65535 {
		return fmt.Errorf("MQTT port must be between 1 and 65535")
	}
	if c.RedisHost == "" {
		return fmt.Errorf("Redis host is required")
	}
	if c.RedisPort <= 0 || c.RedisPort > 65535 {
		return fmt.Errorf("Redis port must be between 1 and 65535")
	}
	if c.PostgresHost == "" {
		return fmt.Errorf("Postgres host is required")
	}
	if c.PostgresPort <= 0 || c.PostgresPort > 65535 {
		return fmt.Errorf("Postgres port must be between 1 and 65535")
	}
	if c.HealthPort <= 0 || c.HealthPort > 65535 {
		return fmt.Errorf("Health port must be between 1 and 65535")
	}
	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("API port must be between 1 and 65535")
	}
	if c.ServiceName == "" {
		return fmt.Errorf("Service name is required")
	}
	if c.TZDataPath == "" && c.TZDataURL == "" {
		return fmt.Errorf("either a timezone data path or URL is required")
	}
	if c.ClockIntervalSec <= 0 {
		return fmt.Errorf("clock interval must be positive")
	}
	if c.TerminatorIntervalSec <= 0 {
		return fmt.Errorf("terminator interval must be positive")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// MQTTAddress returns the full MQTT broker address
func (c *Config) MQTTAddress() string {
	return fmt.Sprintf("tcp://%s:%d", c.MQTTBroker, c.MQTTPort)
}

// RedisAddress returns the full Redis address
func (c *Config) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// PostgresConnectionString returns a lib/pq connection string
func (c *Config) PostgresConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode)
}
