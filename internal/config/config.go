// Package config предоставляет структуры и функции для загрузки конфигурации сервиса
// из YAML-файла (CONFIG_PATH), файла .env и переменных окружения.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config общая структура для хранения настроек.
type Config struct {
	Env            string `yaml:"env" env:"CURRENT_ENV" env-default:"production"`
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	FreshBootstrap bool   `yaml:"fresh_bootstrap" env:"FRESH_BOOTSTRAP" env-default:"false"`
	HTTPServer     `yaml:"http_server"`
	Postgres       `yaml:"postgres"`
	AuthService    `yaml:"auth_service"`
	Redis          `yaml:"redis"`
	RateLimit      `yaml:"rate_limit"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	Host        string        `yaml:"host" env:"HOST" env-default:"0.0.0.0"`
	Port        int           `yaml:"port" env:"PORT" env-default:"8008"`
	Timeout     time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// Postgres структура для настройки подключения к базе данных.
// Пароль обязателен: пустой пароль по умолчанию не допускается.
type Postgres struct {
	PGHost     string `yaml:"host" env:"POSTGRES_HOST" env-default:"localhost"`
	PGPort     int    `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	PGUser     string `yaml:"user" env:"POSTGRES_USER" env-default:"root"`
	PGPassword string `yaml:"password" env:"POSTGRES_PASSWORD" env-required:"true"`
	PGDBName   string `yaml:"db_name" env:"POSTGRES_DB_NAME" env-default:"forms"`
	PGSSLMode  string `yaml:"sslmode" env:"POSTGRES_SSLMODE" env-default:"disable"`
}

// AuthService структура для настройки внешнего сервиса авторизации.
// Хост и порт обязательны, без них сервис не стартует.
type AuthService struct {
	AuthHost      string        `yaml:"host" env:"AUTH_SVC_HOST" env-required:"true"`
	AuthPort      string        `yaml:"port" env:"AUTH_SVC_PORT" env-required:"true"`
	UserEndpoint  string        `yaml:"user_endpoint" env:"AUTH_SVC_USER_ENDPOINT" env-default:"/user/me"`
	TokenEndpoint string        `yaml:"token_endpoint" env:"AUTH_SVC_TOKEN_ENDPOINT" env-default:"/token"`
	AuthTimeout   time.Duration `yaml:"timeout" env:"AUTH_SVC_TIMEOUT" env-default:"10s"`
}

// Redis структура для настройки кеша списков. Пустой адрес или нулевой ttl отключает кеш.
type Redis struct {
	RedisAddress  string        `yaml:"address" env:"REDIS_ADDRESS"`
	RedisPassword string        `yaml:"password" env:"REDIS_PASSWORD"`
	RedisDB       int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	RedisTTL      time.Duration `yaml:"ttl" env:"REDIS_TTL" env-default:"1m"`
}

// RateLimit ограничивает частоту анонимных запросов с одного IP.
// Заголовки X-Forwarded-For/X-Real-IP учитываются только при TrustProxy,
// то есть когда сервис стоит за доверенным прокси, который их перезаписывает.
type RateLimit struct {
	RPS        float64 `yaml:"rps" env:"RATE_LIMIT_RPS" env-default:"1"`
	Burst      int     `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"5"`
	TrustProxy bool    `yaml:"trust_proxy" env:"TRUST_PROXY_HEADERS" env-default:"false"`
}

// Load читает конфиг из файла CONFIG_PATH (если задан) и из окружения.
// Перед этим в окружение подгружается файл ENV_FILE (по умолчанию .env).
func Load() (*Config, error) {
	const op = "config.Load"
	var cfg Config

	if err := loadDotEnv(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: file %s does not exist", op, configPath)
		}
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad загружает конфиг и завершает процесс при ошибке.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// loadDotEnv не перезаписывает уже заданные переменные. Отсутствие файла не ошибка.
func loadDotEnv() error {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (c *Config) validate() error {
	if c.AuthHost == "" || c.AuthPort == "" {
		return errors.New("auth service host and port must be set")
	}
	if _, err := strconv.Atoi(c.AuthPort); err != nil {
		return fmt.Errorf("invalid auth service port %q", c.AuthPort)
	}
	if c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = 1
	}
	return nil
}

// Address возвращает адрес, на котором слушает HTTP-сервер.
func (s HTTPServer) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// DSN возвращает строку подключения к базе dbName.
// Пустое имя означает базу из конфига.
func (p Postgres) DSN(dbName string) string {
	if dbName == "" {
		dbName = p.PGDBName
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.PGUser, p.PGPassword),
		Host:     net.JoinHostPort(p.PGHost, strconv.Itoa(p.PGPort)),
		Path:     "/" + dbName,
		RawQuery: url.Values{"sslmode": {p.PGSSLMode}}.Encode(),
	}
	return u.String()
}

// String скрывает пароли при выводе конфига в лог.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"HTTPServer: %s (timeout %s, idle %s)\n"+
			"Postgres: %s@%s:%d/%s\n"+
			"AuthService: %s:%s (user %s, token %s, timeout %s)\n"+
			"Redis: %q db=%d ttl=%s\n"+
			"RateLimit: %.2f rps, burst %d, trust proxy %t\n",
		c.Env,
		c.HTTPServer.Address(), c.Timeout, c.IdleTimeout,
		c.PGUser, c.PGHost, c.PGPort, c.PGDBName,
		c.AuthHost, c.AuthPort, c.UserEndpoint, c.TokenEndpoint, c.AuthTimeout,
		c.RedisAddress, c.RedisDB, c.RedisTTL,
		c.RPS, c.Burst, c.TrustProxy,
	)
}
