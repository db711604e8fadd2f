package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"pos-service/pkg/database"

	"go.uber.org/zap"
)

type Config struct {
	Env     string
	RPCAddr string
	DB      DB
	JWT     JWT
	Auth    Auth
	Redis   Redis
	Kafka   Kafka

	CORSOrigins []string
}

type DB struct {
	database.Config
}

type JWT struct {
	AccessSecret  string
	RefreshSecret string
	Issuer        string
	AccessExp     time.Duration
	RefreshExp    time.Duration
}

type Auth struct {
	AdminPassword    string
	UnifyLoginErrors bool
}

type Redis struct {
	Enabled    bool
	Addr       string
	Password   string
	DB         int
	TTLSeconds int
}

type Kafka struct {
	Brokers []string
	Topic   string
}

func (c *Config) IsDev() bool { return c.Env == "development" }

func Load(log *zap.Logger) *Config {
	return &Config{
		Env:     getEnvDefault("ENV", "production"),
		RPCAddr: getEnvDefault("RPC_ADDR", "127.0.0.1:4317"),
		DB: DB{
			Config: database.Config{
				Path:        getEnv("DB_PATH", log),
				BusyTimeout: parseDurationWithDays(getEnvDefault("DB_BUSY_TIMEOUT", "5s")),
				LogSQL:      getEnvDefault("DB_LOG_SQL", "false") == "true",
			},
		},
		JWT: JWT{
			AccessSecret:  getEnv("JWT_ACCESS_SECRET", log),
			RefreshSecret: getEnv("JWT_REFRESH_SECRET", log),
			Issuer:        getEnvDefault("JWT_ISSUER", "pos-service"),
			AccessExp:     parseDurationWithDays(getEnvDefault("ACCESS_EXP", "15m")),
			RefreshExp:    parseDurationWithDays(getEnvDefault("REFRESH_EXP", "7d")),
		},
		Auth: Auth{
			AdminPassword:    getAdminPassword(log),
			UnifyLoginErrors: getEnvDefault("AUTH_UNIFY_LOGIN_ERRORS", "false") == "true",
		},
		Redis: Redis{
			Enabled:    getEnvDefault("REDIS_ENABLED", "false") == "true",
			Addr:       getEnvDefault("REDIS_ADDR", "127.0.0.1:6379"),
			Password:   getEnvDefault("REDIS_PASSWORD", ""),
			DB:         atoiDefault(getEnvDefault("REDIS_DB", "0"), 0),
			TTLSeconds: atoiDefault(getEnvDefault("CACHE_TTL_SECONDS", "60"), 60),
		},
		Kafka: Kafka{
			Brokers: splitAndTrim(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnvDefault("KAFKA_ORDER_TOPIC", "pos.orders"),
		},
		CORSOrigins: splitAndTrim(os.Getenv("CORS_ORIGINS")),
	}
}

func getEnv(key string, log *zap.Logger) string {
	if val, exists := os.LookupEnv(key); exists && val != "" {
		return val
	}
	log.Error("Обязательная переменная окружения не установлена", zap.String("key", key))
	panic("missing required environment variable: " + key)
}

// MinAdminPasswordLen совпадает с минимальной длиной пароля при входе:
// более короткий пароль создал бы администратора, который не сможет войти.
const MinAdminPasswordLen = 6

func getAdminPassword(log *zap.Logger) string {
	pwd := getEnvDefault("ADMIN_INITIAL_PASSWORD", "admin123")
	if len(pwd) < MinAdminPasswordLen {
		log.Error("ADMIN_INITIAL_PASSWORD слишком короткий", zap.Int("min_len", MinAdminPasswordLen))
		panic("ADMIN_INITIAL_PASSWORD must be at least 6 characters")
	}
	return pwd
}

func getEnvDefault(key, def string) string {
	if val, exists := os.LookupEnv(key); exists && val != "" {
		return val
	}
	return def
}

func parseDurationWithDays(s string) time.Duration {
	if strings.HasSuffix(s, "d") {
		daysStr := strings.TrimSuffix(s, "d")
		days, err := time.ParseDuration(daysStr + "h")
		if err != nil {
			log.Printf("Ошибка парсинга TTL: %v", err)
			return 0
		}
		return time.Duration(24) * days
	}

	duration, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return duration
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := []string{}
	for _, p := range strings.Split(s, ",") {
		pt := strings.TrimSpace(p)
		if pt != "" {
			parts = append(parts, pt)
		}
	}
	return parts
}
