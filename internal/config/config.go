package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

type OrderServiceConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type RabbitMQConfig struct {
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

type MySQLConfig struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Database string `yaml:"database"`
}

// Enabled reports whether an export journal database is configured.
func (m MySQLConfig) Enabled() bool {
	return m.Host != ""
}

func (m MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		m.User, m.Password, m.Host, m.Port, m.Database)
}

type Config struct {
	Port         string             `yaml:"port"`
	Env          string             `yaml:"env"`
	LogLevel     string             `yaml:"log_level"`
	OrderService OrderServiceConfig `yaml:"order_service"`
	RedisHost    string             `yaml:"redis_host"`
	SnapshotTTL  time.Duration      `yaml:"snapshot_ttl"`
	RabbitMQ     RabbitMQConfig     `yaml:"rabbitmq"`
	MySQL        MySQLConfig        `yaml:"mysql"`
	Timezone     string             `yaml:"timezone"`
	LoginURL     string             `yaml:"login_url"`
	PDFFontPath  string             `yaml:"pdf_font_path"`
}

func Default() Config {
	return Config{
		Port:     "8080",
		Env:      "production",
		LogLevel: "info",
		OrderService: OrderServiceConfig{
			Timeout: 5 * time.Second,
		},
		SnapshotTTL: 10 * time.Second,
		RabbitMQ:    RabbitMQConfig{Exchange: "order.exchange"},
		MySQL:       MySQLConfig{Port: "3306"},
		Timezone:    "Asia/Ho_Chi_Minh",
		LoginURL:    "/login",
	}
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE, then individual environment variables.
func LoadFrom(getenv func(string) string) (Config, error) {
	cfg := Default()

	if path := getenv("CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	str := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	str(&cfg.Port, "PORT")
	str(&cfg.Env, "ENV")
	str(&cfg.LogLevel, "LOG_LEVEL")
	str(&cfg.OrderService.URL, "ORDER_SERVICE_URL")
	str(&cfg.RedisHost, "REDIS_HOST")
	str(&cfg.RabbitMQ.URL, "RABBITMQ_URL")
	str(&cfg.RabbitMQ.Exchange, "RABBITMQ_EXCHANGE")
	str(&cfg.MySQL.User, "MYSQL_USER")
	str(&cfg.MySQL.Password, "MYSQL_PASSWORD")
	str(&cfg.MySQL.Host, "MYSQL_HOST")
	str(&cfg.MySQL.Port, "MYSQL_PORT")
	str(&cfg.MySQL.Database, "MYSQL_DATABASE")
	str(&cfg.Timezone, "CONSOLE_TIMEZONE")
	str(&cfg.LoginURL, "LOGIN_URL")
	str(&cfg.PDFFontPath, "PDF_FONT_PATH")

	for key, dst := range map[string]*time.Duration{
		"ORDER_SERVICE_TIMEOUT": &cfg.OrderService.Timeout,
		"SNAPSHOT_TTL":          &cfg.SnapshotTTL,
	} {
		v := getenv(key)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", key, err)
		}
		*dst = d
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if _, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Errorf("config: port %q is not numeric", c.Port))
	}
	if c.OrderService.URL == "" {
		errs = append(errs, errors.New("config: ORDER_SERVICE_URL is required"))
	}
	if c.OrderService.Timeout <= 0 {
		errs = append(errs, errors.New("config: order service timeout must be positive"))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("config: timezone %q: %w", c.Timezone, err))
	}
	return errors.Join(errs...)
}

// Location returns the timezone calendar dates and exports are rendered in.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// RedisAddr returns host:port for the snapshot cache, or "" when disabled.
func (c Config) RedisAddr() string {
	if c.RedisHost == "" {
		return ""
	}
	return c.RedisHost + ":6379"
}
