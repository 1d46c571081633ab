package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port            string
	MySQL           MySQL
	Redis           Redis
	RabbitMQ        RabbitMQ
	AutoMigrate     bool
	SeedStatuses    bool
	ShutdownTimeout time.Duration
}

type MySQL struct {
	User            string
	Password        string
	Host            string
	Port            string
	Database        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type Redis struct {
	Addr           string
	ProfitCacheTTL time.Duration
}

// Enabled reports whether a redis host was configured.
func (r Redis) Enabled() bool { return r.Addr != "" }

type RabbitMQ struct {
	URL      string
	Exchange string
}

func (r RabbitMQ) Enabled() bool { return r.URL != "" }

func Load() (Config, error) {
	var errs []error

	cfg := Config{
		Port: getenv("PORT", "8080"),
		MySQL: MySQL{
			User:     getenv("MYSQL_USER", "root"),
			Password: os.Getenv("MYSQL_PASSWORD"),
			Host:     strings.TrimSpace(os.Getenv("MYSQL_HOST")),
			Port:     getenv("MYSQL_PORT", "3306"),
			Database: strings.TrimSpace(os.Getenv("MYSQL_DATABASE")),
		},
		RabbitMQ: RabbitMQ{
			URL:      strings.TrimSpace(os.Getenv("RABBITMQ_URL")),
			Exchange: getenv("RABBITMQ_EXCHANGE", "order.exchange"),
		},
	}
	if cfg.MySQL.Host == "" {
		errs = append(errs, errors.New("MYSQL_HOST is required"))
	}
	if cfg.MySQL.Database == "" {
		errs = append(errs, errors.New("MYSQL_DATABASE is required"))
	}

	var err error
	if cfg.MySQL.MaxOpenConns, err = getInt("MYSQL_MAX_OPEN_CONNS", 100); err != nil {
		errs = append(errs, err)
	}
	if cfg.MySQL.MaxIdleConns, err = getInt("MYSQL_MAX_IDLE_CONNS", 20); err != nil {
		errs = append(errs, err)
	}
	cfg.MySQL.ConnMaxLifetime = 5 * time.Minute
	cfg.MySQL.ConnMaxIdleTime = time.Minute

	if host := strings.TrimSpace(os.Getenv("REDIS_HOST")); host != "" {
		cfg.Redis.Addr = host + ":" + getenv("REDIS_PORT", "6379")
	}
	if cfg.Redis.ProfitCacheTTL, err = getDuration("PROFIT_CACHE_TTL", 10*time.Second); err != nil {
		errs = append(errs, err)
	}
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		errs = append(errs, err)
	}
	if cfg.AutoMigrate, err = getBool("AUTO_MIGRATE", true); err != nil {
		errs = append(errs, err)
	}
	if cfg.SeedStatuses, err = getBool("SEED_REFERENCE_DATA", false); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
