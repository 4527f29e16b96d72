package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort string
	GinMode  string
	LogLevel string

	MongoURI          string
	MongoDB           string
	MongoTransactions bool

	SQLDriver   string
	SQLitePath  string
	DatabaseURL string

	RedisAddr string
	CacheTTL  time.Duration

	UseKafka     bool
	KafkaBrokers []string
	OutboxPeriod time.Duration
	OutboxLimit  int

	ClickHouseAddr string
	ClickHouseDB   string

	JWTSecret        string
	JWTExpire        time.Duration
	JWTCookieExpire  time.Duration
	GeocoderAPIKey   string
	FileUploadPath   string
	MaxFileUpload    int64
	DefaultPageLimit int
}

// defaults de desarrollo local: todo funciona sin Kafka, Redis ni ClickHouse.
var defaults = map[string]interface{}{
	"HTTP_PORT":              "5000",
	"GIN_MODE":               "release",
	"LOG_LEVEL":              "info",
	"MONGO_URI":              "mongodb://localhost:27017",
	"MONGO_DB":               "devcamper",
	"MONGO_TRANSACTIONS":     false,
	"SQL_DRIVER":             "sqlite",
	"SQLITE_PATH":            "./devcamper_users.db",
	"DATABASE_URL":           "",
	"REDIS_ADDR":             "localhost:6379",
	"CACHE_TTL":              "5m",
	"USE_KAFKA":              false,
	"KAFKA_BROKERS":          "localhost:9092",
	"OUTBOX_PERIOD":          "1s",
	"OUTBOX_LIMIT":           10,
	"CLICKHOUSE_ADDR":        "",
	"CLICKHOUSE_DB":          "devcamper",
	"JWT_SECRET":             "",
	"JWT_EXPIRE":             "720h",
	"JWT_COOKIE_EXPIRE_DAYS": 30,
	"GEOCODER_API_KEY":       "",
	"FILE_UPLOAD_PATH":       "./public/uploads",
	"MAX_FILE_UPLOAD":        1000000,
	"DEFAULT_PAGE_LIMIT":     25,
}

// LoadConfig lee los valores por defecto, el fichero opcional (configFile) y las
// variables de entorno, que tienen prioridad.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		HTTPPort:          v.GetString("HTTP_PORT"),
		GinMode:           v.GetString("GIN_MODE"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		MongoURI:          v.GetString("MONGO_URI"),
		MongoDB:           v.GetString("MONGO_DB"),
		MongoTransactions: v.GetBool("MONGO_TRANSACTIONS"),
		SQLDriver:         v.GetString("SQL_DRIVER"),
		SQLitePath:        v.GetString("SQLITE_PATH"),
		DatabaseURL:       v.GetString("DATABASE_URL"),
		RedisAddr:         v.GetString("REDIS_ADDR"),
		CacheTTL:          v.GetDuration("CACHE_TTL"),
		UseKafka:          v.GetBool("USE_KAFKA"),
		KafkaBrokers:      splitList(v.GetString("KAFKA_BROKERS")),
		OutboxPeriod:      v.GetDuration("OUTBOX_PERIOD"),
		OutboxLimit:       v.GetInt("OUTBOX_LIMIT"),
		ClickHouseAddr:    v.GetString("CLICKHOUSE_ADDR"),
		ClickHouseDB:      v.GetString("CLICKHOUSE_DB"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		JWTExpire:         v.GetDuration("JWT_EXPIRE"),
		JWTCookieExpire:   time.Duration(v.GetInt("JWT_COOKIE_EXPIRE_DAYS")) * 24 * time.Hour,
		GeocoderAPIKey:    v.GetString("GEOCODER_API_KEY"),
		FileUploadPath:    v.GetString("FILE_UPLOAD_PATH"),
		MaxFileUpload:     v.GetInt64("MAX_FILE_UPLOAD"),
		DefaultPageLimit:  v.GetInt("DEFAULT_PAGE_LIMIT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.SQLDriver == "pgx" && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required when SQL_DRIVER is pgx")
	}
	if c.OutboxPeriod <= 0 || c.OutboxLimit <= 0 {
		return fmt.Errorf("OUTBOX_PERIOD and OUTBOX_LIMIT must be positive")
	}
	if c.DefaultPageLimit < 1 {
		return fmt.Errorf("DEFAULT_PAGE_LIMIT must be at least 1")
	}
	return nil
}

// SQLDSN devuelve el DSN del driver SQL configurado.
func (c *Config) SQLDSN() string {
	if c.SQLDriver == "pgx" {
		return c.DatabaseURL
	}
	return c.SQLitePath
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
