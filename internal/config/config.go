package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the traffic scoring service configuration
type Config struct {
	Environment string          `mapstructure:"environment"`
	Server      ServerConfig    `mapstructure:"server"`
	Database    DatabaseConfig  `mapstructure:"database"`
	Redis       RedisConfig     `mapstructure:"redis"`
	GeoIP       GeoIPConfig     `mapstructure:"geoip"`
	Scoring     ScoringConfig   `mapstructure:"scoring"`
	Collector   CollectorConfig `mapstructure:"collector"`
	Logging     LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	EnableCORS   bool          `mapstructure:"enable_cors"`
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Database        string        `mapstructure:"database"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConnections  int           `mapstructure:"max_connections"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// RedisConfig holds the optional query-cache configuration
type RedisConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Host        string        `mapstructure:"host"`
	Port        int           `mapstructure:"port"`
	Password    string        `mapstructure:"password"`
	Database    int           `mapstructure:"database"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
}

// GeoIPConfig holds the MaxMind database file paths. Any path may point at
// a missing file; the service starts in degraded mode rather than failing.
type GeoIPConfig struct {
	ASNDatabase         string `mapstructure:"asn_database"`
	CountryDatabase     string `mapstructure:"country_database"`
	AnonymousIPDatabase string `mapstructure:"anonymous_ip_database"`
}

// ScoringConfig holds the operational address lists consumed by the engine
type ScoringConfig struct {
	MaliciousIPs      []string `mapstructure:"malicious_ips"`
	ProxyOverrides    []string `mapstructure:"proxy_overrides"`
	HighRiskCountries []string `mapstructure:"high_risk_countries"`
}

// CollectorConfig holds the recent-sample buffer configuration
type CollectorConfig struct {
	MaxEvents       int           `mapstructure:"max_events"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads the configuration from the given YAML file (or the default
// search paths when path is empty), applies defaults, and allows
// TRAFFICGUARD_* environment variables to override any key.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/trafficguard")
	}

	v.SetEnvPrefix("TRAFFICGUARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.enable_cors", true)

	// Database defaults
	v.SetDefault("database.enabled", true)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.database", "trafficguard")
	v.SetDefault("database.username", "postgres")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 50)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.conn_max_idle_time", "30m")

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.dial_timeout", "5s")
	v.SetDefault("redis.cache_ttl", "30s")

	// GeoIP database defaults
	v.SetDefault("geoip.asn_database", "data/GeoLite2-ASN.mmdb")
	v.SetDefault("geoip.country_database", "data/GeoLite2-Country.mmdb")
	v.SetDefault("geoip.anonymous_ip_database", "data/GeoIP2-Anonymous-IP.mmdb")

	// Scoring defaults. The malicious list holds operationally confirmed
	// bad singletons; proxy overrides pin addresses the databases misclassify.
	v.SetDefault("scoring.malicious_ips", []string{
		"1.2.3.4",
		"5.6.7.8",
		"9.10.11.12",
	})
	v.SetDefault("scoring.proxy_overrides", []string{
		"74.63.233.50",
	})
	v.SetDefault("scoring.high_risk_countries", []string{
		"cn", "ru", "ir", "kp", "sy", "by", "ve", "cu",
	})

	// Collector defaults
	v.SetDefault("collector.max_events", 100)
	v.SetDefault("collector.cleanup_interval", "1h")

	// Logging defaults
	v.SetDefault("logging.level", "info")
}
