package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	API       APIConfig       `mapstructure:"api"`
	Session   SessionConfig   `mapstructure:"session"`
	MySQL     MySQLConfig     `mapstructure:"mysql"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Dev       DevConfig       `mapstructure:"dev"`
}

type ServerConfig struct {
	Environment string `mapstructure:"environment"`
	// Host defaults to loopback; the console acts with the operator's
	// backend session.
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`
	// AllowOrigins feeds the CORS middleware.
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// APIConfig points the console at the REST backend. YOL_API_URL overrides URL.
type APIConfig struct {
	URL               string        `mapstructure:"url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Breaker           bool          `mapstructure:"breaker"`
}

// Session backends.
const (
	SessionMemory = "memory"
	SessionFile   = "file"
	SessionRedis  = "redis"
	SessionMySQL  = "mysql"
)

type SessionConfig struct {
	Backend string `mapstructure:"backend"`
	File    string `mapstructure:"file"`
	// Namespace separates several consoles sharing one redis or database.
	Namespace string `mapstructure:"namespace"`
}

type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type RateLimitConfig struct {
	RequestsPerSecond int `mapstructure:"requests_per_second"`
}

// DevConfig runs the in-process backend instead of a real one.
type DevConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Port       string `mapstructure:"port"`
	Username   string `mapstructure:"username"`
	Password   string `mapstructure:"password"`
	SigningKey string `mapstructure:"signing_key"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.environment", "dev")
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.log_level", "")
	v.SetDefault("server.allow_origins", []string{"http://localhost:3000"})

	v.SetDefault("api.url", "http://localhost:8000/api")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.requests_per_second", 0)
	v.SetDefault("api.breaker", false)

	v.SetDefault("session.backend", SessionFile)
	v.SetDefault("session.file", ".yoladmin/session.json")
	v.SetDefault("session.namespace", "default")

	v.SetDefault("mysql.dsn", "")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("ratelimit.requests_per_second", 10)

	v.SetDefault("dev.enabled", false)
	v.SetDefault("dev.port", "8000")
	v.SetDefault("dev.username", "admin")
	v.SetDefault("dev.password", "admin123")
	v.SetDefault("dev.signing_key", "yoladmin-devapi-signing-key")
}

func Load() *Config {
	cfg, err := load(viper.New(), ".", "./config")
	if err != nil {
		panic(err)
	}
	return cfg
}

func load(v *viper.Viper, paths ...string) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("YOL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
