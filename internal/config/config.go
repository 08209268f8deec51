// internal/config/config.go
package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Balancer BalancerConfig
	Cache    CacheConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// BalancerConfig holds the default evaluation parameters. Every value can be
// overridden per request through query parameters.
type BalancerConfig struct {
	DefaultPolicy        string
	WindowDays           int
	LowStockThreshold    int
	ExcessStockThreshold int
	NeedRatioThreshold   float64
	ExcessRatioThreshold float64
	TopN                 int
}

type CacheConfig struct {
	Enabled           bool
	RedisURL          string
	RedisHost         string
	RedisPort         string
	RedisPassword     string
	RedisDB           int
	SummaryTTLSeconds int
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "stockbalancer")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("BALANCER_DEFAULT_POLICY", "absolute")
		viper.SetDefault("BALANCER_WINDOW_DAYS", 14)
		viper.SetDefault("BALANCER_LOW_STOCK_THRESHOLD", 2)
		viper.SetDefault("BALANCER_EXCESS_STOCK_THRESHOLD", 8)
		viper.SetDefault("BALANCER_NEED_RATIO_THRESHOLD", 3.0)
		viper.SetDefault("BALANCER_EXCESS_RATIO_THRESHOLD", 6.0)
		viper.SetDefault("BALANCER_TOP_N", 20)
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_SUMMARY_TTL_SECONDS", 60)

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Balancer: BalancerConfig{
				DefaultPolicy:        viper.GetString("BALANCER_DEFAULT_POLICY"),
				WindowDays:           viper.GetInt("BALANCER_WINDOW_DAYS"),
				LowStockThreshold:    viper.GetInt("BALANCER_LOW_STOCK_THRESHOLD"),
				ExcessStockThreshold: viper.GetInt("BALANCER_EXCESS_STOCK_THRESHOLD"),
				NeedRatioThreshold:   viper.GetFloat64("BALANCER_NEED_RATIO_THRESHOLD"),
				ExcessRatioThreshold: viper.GetFloat64("BALANCER_EXCESS_RATIO_THRESHOLD"),
				TopN:                 viper.GetInt("BALANCER_TOP_N"),
			},
			Cache: CacheConfig{
				Enabled:           viper.GetBool("CACHE_ENABLED"),
				RedisURL:          viper.GetString("REDIS_URL"),
				RedisHost:         viper.GetString("REDIS_HOST"),
				RedisPort:         viper.GetString("REDIS_PORT"),
				RedisPassword:     viper.GetString("REDIS_PASSWORD"),
				RedisDB:           viper.GetInt("REDIS_DB"),
				SummaryTTLSeconds: viper.GetInt("CACHE_SUMMARY_TTL_SECONDS"),
			},
		}
	})

	return instance
}
