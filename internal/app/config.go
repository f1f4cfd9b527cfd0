package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/vladislavdragonenkov/grocery/internal/messaging/kafka"
)

// Источники заказов.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// Режимы кэширования.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

const envPrefix = "GROCERY_"

// Config описывает настройки запуска.
type Config struct {
	Source       string        `yaml:"source"`
	CSVPath      string        `yaml:"csv_path"`
	CSVHeader    bool          `yaml:"csv_header"`
	PostgresDSN  string        `yaml:"postgres_dsn"`
	Cache        string        `yaml:"cache"`
	RedisAddr    string        `yaml:"redis_addr"`
	RedisTTL     time.Duration `yaml:"redis_ttl"`
	HTTPAddr     string        `yaml:"http_addr"`
	KafkaBrokers []string      `yaml:"kafka_brokers"`
	KafkaTopic   string        `yaml:"kafka_topic"`
	LogLevel     string        `yaml:"log_level"`
}

// DefaultConfig возвращает настройки для локального запуска по CSV-файлу.
func DefaultConfig() Config {
	return Config{
		Source:     SourceCSV,
		CSVPath:    "orders.csv",
		Cache:      CacheNone,
		RedisAddr:  "localhost:6379",
		RedisTTL:   5 * time.Minute,
		HTTPAddr:   ":8080",
		KafkaTopic: kafka.TopicOrderSnapshots,
		LogLevel:   "info",
	}
}

// LoadConfig собирает конфигурацию: значения по умолчанию, затем YAML-файл
// (если path задан), затем переменные окружения GROCERY_*.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"SOURCE":       &c.Source,
		"CSV_PATH":     &c.CSVPath,
		"POSTGRES_DSN": &c.PostgresDSN,
		"CACHE":        &c.Cache,
		"REDIS_ADDR":   &c.RedisAddr,
		"HTTP_ADDR":    &c.HTTPAddr,
		"KAFKA_TOPIC":  &c.KafkaTopic,
		"LOG_LEVEL":    &c.LogLevel,
	}
	for key, target := range strs {
		if v, ok := lookupEnv(key); ok {
			*target = v
		}
	}

	if v, ok := lookupEnv("CSV_HEADER"); ok {
		header, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse %sCSV_HEADER: %w", envPrefix, err)
		}
		c.CSVHeader = header
	}
	if v, ok := lookupEnv("REDIS_TTL"); ok {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse %sREDIS_TTL: %w", envPrefix, err)
		}
		c.RedisTTL = ttl
	}
	if v, ok := lookupEnv("KAFKA_BROKERS"); ok {
		c.KafkaBrokers = splitList(v)
	}
	return nil
}

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate проверяет согласованность настроек.
func (c Config) Validate() error {
	var errs []error

	switch c.Source {
	case SourceCSV:
		if c.CSVPath == "" {
			errs = append(errs, errors.New("csv_path is required for csv source"))
		}
	case SourcePostgres:
		if c.PostgresDSN == "" {
			errs = append(errs, errors.New("postgres_dsn is required for postgres source"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported source %q", c.Source))
	}

	switch c.Cache {
	case CacheNone, CacheMemory:
	case CacheRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("redis_addr is required for redis cache"))
		}
		if c.RedisTTL < 0 {
			errs = append(errs, errors.New("redis_ttl must not be negative"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported cache %q", c.Cache))
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	return errors.Join(errs...)
}

// SetupLogger настраивает формат и уровень логирования.
func SetupLogger(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(lvl)
	return nil
}
