package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"buzzboard/models"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	RealtimeLocal = "local"
	RealtimeRedis = "redis"
)

type Config struct {
	Port              string
	BindAddress       string
	DBDriver          string
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBDSN             string
	RedisHost         string
	RedisPort         string
	RedisPassword     string
	RedisDB           int
	RealtimeBackend   string
	JWTSecret         string
	SessionTTL        time.Duration
	KeepAliveInterval time.Duration
	BaseURL           string
	CORSOrigins       []string
	CookieSecure      bool
}

// Defaults registers the default value of every key on v.
func Defaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("bind_address", "0.0.0.0")
	v.SetDefault("db_driver", "postgres")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "buzzboard")
	v.SetDefault("db_password", "buzzboard123")
	v.SetDefault("db_name", "buzzboard")
	v.SetDefault("db_dsn", "")
	v.SetDefault("redis_host", "localhost")
	v.SetDefault("redis_port", "6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("realtime_backend", RealtimeLocal)
	v.SetDefault("jwt_secret", "your-secret-key-change-in-production")
	v.SetDefault("session_ttl", 30*24*time.Hour)
	v.SetDefault("keepalive_interval", 30*time.Second)
	v.SetDefault("base_url", "")
	v.SetDefault("cors_origins", []string{})
	v.SetDefault("cookie_secure", false)
}

// NewViper returns a viper instance reading defaults, the environment and,
// when configFile is non-empty, that file.
func NewViper(configFile string) (*viper.Viper, error) {
	// A missing .env is the normal case outside local development.
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded environment from .env")
	}

	v := viper.New()
	Defaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	return v, nil
}

// FromViper builds a Config from v.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:              v.GetString("port"),
		BindAddress:       v.GetString("bind_address"),
		DBDriver:          strings.ToLower(v.GetString("db_driver")),
		DBHost:            v.GetString("db_host"),
		DBPort:            v.GetString("db_port"),
		DBUser:            v.GetString("db_user"),
		DBPassword:        v.GetString("db_password"),
		DBName:            v.GetString("db_name"),
		DBDSN:             v.GetString("db_dsn"),
		RedisHost:         v.GetString("redis_host"),
		RedisPort:         v.GetString("redis_port"),
		RedisPassword:     v.GetString("redis_password"),
		RedisDB:           v.GetInt("redis_db"),
		RealtimeBackend:   strings.ToLower(v.GetString("realtime_backend")),
		JWTSecret:         v.GetString("jwt_secret"),
		SessionTTL:        v.GetDuration("session_ttl"),
		KeepAliveInterval: v.GetDuration("keepalive_interval"),
		BaseURL:           strings.TrimSuffix(v.GetString("base_url"), "/"),
		CORSOrigins:       splitOrigins(v.GetStringSlice("cors_origins")),
		CookieSecure:      v.GetBool("cookie_secure"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "postgres", "sqlite", "mysql":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want postgres, sqlite or mysql)", c.DBDriver)
	}
	switch c.RealtimeBackend {
	case RealtimeLocal, RealtimeRedis:
	default:
		return fmt.Errorf("unsupported REALTIME_BACKEND %q (want local or redis)", c.RealtimeBackend)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.KeepAliveInterval <= 0 {
		return errors.New("KEEPALIVE_INTERVAL must be positive")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	return nil
}

// AllowedOrigins lists the browser origins allowed to make credentialed
// cross-origin requests: CORS_ORIGINS plus the origin of BASE_URL.
func (c *Config) AllowedOrigins() []string {
	origins := append([]string{}, c.CORSOrigins...)
	if c.BaseURL != "" {
		if u, err := url.Parse(c.BaseURL); err == nil && u.Scheme != "" && u.Host != "" {
			origins = append(origins, u.Scheme+"://"+u.Host)
		}
	}
	return origins
}

// splitOrigins accepts both list values and comma separated env strings.
func splitOrigins(values []string) []string {
	var origins []string
	for _, value := range values {
		for _, origin := range strings.Split(value, ",") {
			origin = strings.TrimSuffix(strings.TrimSpace(origin), "/")
			if origin != "" {
				origins = append(origins, origin)
			}
		}
	}
	return origins
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.BindAddress + ":" + c.Port
}

func (c *Config) dialector() gorm.Dialector {
	switch c.DBDriver {
	case "sqlite":
		dsn := c.DBDSN
		if dsn == "" {
			dsn = c.DBName + ".db"
		}
		return sqlite.Open(dsn)
	case "mysql":
		dsn := c.DBDSN
		if dsn == "" {
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=UTC",
				c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
		}
		return mysql.Open(dsn)
	default:
		dsn := c.DBDSN
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
				c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
		}
		return postgres.Open(dsn)
	}
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(cfg.dialector(), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func InitRedis(cfg *Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	return client
}
