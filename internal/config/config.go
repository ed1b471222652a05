package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	GuardLocal = "local"
	GuardRedis = "redis"
)

type Config struct {
	Server      ServerConfig
	Storage     string
	Postgres    PostgresConfig
	Redis       RedisConfig
	Guard       GuardConfig
	Reservation ReservationConfig
	Kafka       KafkaConfig
	Telemetry   TelemetryConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type RedisConfig struct {
	// Addr is optional. Without it the cache, notifier, rate limiter and
	// idempotency keys are disabled.
	Addr     string
	Password string
	DB       int
}

type PostgresConfig struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     int
	SSLMode  string
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Name,
		c.SSLMode,
	)
}

type GuardConfig struct {
	Kind    string
	LockTTL time.Duration
}

type ReservationConfig struct {
	DefaultDurationMin int
	ReminderLead       time.Duration
	NoShowGrace        time.Duration
	NoShowScanInterval time.Duration
	// RateLimit is the number of creates allowed per client per minute. Zero disables it.
	RateLimit int
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type TelemetryConfig struct {
	Endpoint string
}

func New() (*Config, error) {
	const op = "config.New"

	_ = godotenv.Load()

	serverHost := getEnv("SERVER_HOST", "localhost")

	serverPort, err := getInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	serverCfg := ServerConfig{
		Host: serverHost,
		Port: serverPort,
	}

	storage := getEnv("STORAGE", StoragePostgres)
	if storage != StoragePostgres && storage != StorageMemory {
		return nil, fmt.Errorf("%s: invalid STORAGE %q", op, storage)
	}

	var postgresCfg PostgresConfig
	if storage == StoragePostgres {
		postgresCfg, err = loadPostgres()
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}
	}

	redisDB, err := getInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	redisCfg := RedisConfig{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       redisDB,
	}

	guardKind := getEnv("GUARD", GuardLocal)
	if guardKind != GuardLocal && guardKind != GuardRedis {
		return nil, fmt.Errorf("%s: invalid GUARD %q", op, guardKind)
	}
	if guardKind == GuardRedis && redisCfg.Addr == "" {
		return nil, fmt.Errorf("%s: GUARD=redis requires REDIS_ADDR", op)
	}

	lockTTL, err := getDuration("LOCK_TTL", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	defaultDuration, err := getInt("DEFAULT_DURATION_MIN", 120)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}
	if defaultDuration <= 0 {
		return nil, fmt.Errorf("%s: DEFAULT_DURATION_MIN must be positive", op)
	}

	reminderLead, err := getDuration("REMINDER_LEAD", 2*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	noShowGrace, err := getDuration("NOSHOW_GRACE", 15*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	scanInterval, err := getDuration("NOSHOW_SCAN_INTERVAL", time.Minute)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}
	// a zero grace turns the sweeper off
	if noShowGrace == 0 {
		scanInterval = 0
	}

	rateLimit, err := getInt("RATE_LIMIT", 0)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	var brokers []string
	for _, b := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}

	return &Config{
		Server:   serverCfg,
		Storage:  storage,
		Postgres: postgresCfg,
		Redis:    redisCfg,
		Guard: GuardConfig{
			Kind:    guardKind,
			LockTTL: lockTTL,
		},
		Reservation: ReservationConfig{
			DefaultDurationMin: defaultDuration,
			ReminderLead:       reminderLead,
			NoShowGrace:        noShowGrace,
			NoShowScanInterval: scanInterval,
			RateLimit:          rateLimit,
		},
		Kafka: KafkaConfig{
			Brokers: brokers,
			Topic:   getEnv("KAFKA_TOPIC", "tablebook.reservations"),
		},
		Telemetry: TelemetryConfig{
			Endpoint: os.Getenv("OTEL_ENDPOINT"),
		},
	}, nil
}

func loadPostgres() (PostgresConfig, error) {
	port, err := getInt("POSTGRES_PORT", 5432)
	if err != nil {
		return PostgresConfig{}, err
	}

	user := os.Getenv("POSTGRES_USER")
	if user == "" {
		return PostgresConfig{}, fmt.Errorf("missing POSTGRES_USER")
	}

	password := os.Getenv("POSTGRES_PASSWORD")
	if password == "" {
		return PostgresConfig{}, fmt.Errorf("missing POSTGRES_PASSWORD")
	}

	name := os.Getenv("POSTGRES_DB")
	if name == "" {
		return PostgresConfig{}, fmt.Errorf("missing POSTGRES_DB")
	}

	return PostgresConfig{
		User:     user,
		Password: password,
		Name:     name,
		Host:     getEnv("POSTGRES_HOST", "localhost"),
		Port:     port,
		SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}

	return n, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: negative duration", key)
	}

	return d, nil
}
