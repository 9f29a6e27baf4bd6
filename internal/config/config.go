// Package config предоставляет структуры и функции для парсинга и загрузки конфига
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// ErrConfigPathNotSet возвращается, если не задана переменная CONFIG_PATH
var ErrConfigPathNotSet = errors.New("CONFIG_PATH is not set")

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING" env-required:"true"`
	MigrationsPath          string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	RedisConnection         `yaml:"redis_connection"`
	RabbitMQ                `yaml:"rabbitmq"`
	RateLimit               `yaml:"rate_limit"`
	Inventory               `yaml:"inventory"`
	Admin                   `yaml:"admin"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET" env-required:"true"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// RedisConnection структура для настройки подключения к redis.
// Пустой адрес отключает кеш.
type RedisConnection struct {
	RedisAddress     string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	RedisPassword    string        `yaml:"password" env:"REDIS_PASSWORD"`
	RedisUser        string        `yaml:"user"`
	RedisDB          int           `yaml:"db"`
	RedisMaxRetries  int           `yaml:"max_retries"`
	RedisDialTimeout time.Duration `yaml:"dial_timeout"`
	RedisTimeout     time.Duration `yaml:"timeoutredis"`
	CacheTTL         time.Duration `yaml:"cache_ttl" env-default:"5m"`
}

// RabbitMQ структура для настройки уведомлений о малом остатке.
// Пустой url отключает уведомления.
type RabbitMQ struct {
	RabbitURL        string        `yaml:"url" env:"RABBITMQ_URL"`
	RabbitQueue      string        `yaml:"queue" env-default:"sweets.low_stock"`
	RabbitRetries    int           `yaml:"retries" env-default:"5"`
	RabbitRetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// RateLimit ограничение запросов к /api/auth/* с одного адреса
type RateLimit struct {
	RPS   float64 `yaml:"rps" env-default:"5"`
	Burst int     `yaml:"burst" env-default:"10"`
}

// Inventory настройки склада
type Inventory struct {
	LowStockThreshold int `yaml:"low_stock_threshold" env-default:"5"`
}

// Admin учётная запись администратора, создаваемая при старте, если её ещё нет
type Admin struct {
	AdminEmail    string `yaml:"email" env:"ADMIN_EMAIL"`
	AdminPassword string `yaml:"password" env:"ADMIN_PASSWORD"`
}

// Load читает конфиг из файла и переменных окружения
func Load(configPath string) (*Config, error) {
	const op = "config.Load"
	if configPath == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrConfigPathNotSet)
	}
	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("%s: file %s: %w", op, configPath, err)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad загружает конфиг по пути из CONFIG_PATH и завершает процесс при ошибке
func MustLoad() *Config {
	cfg, err := Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// String печатает конфиг без секретов
func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"MigrationsPath: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"JWTToken:\n"+
			"  TokenTTL: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"  CacheTTL: %s\n"+
			"RabbitMQ:\n"+
			"  Queue: %s\n"+
			"  Enabled: %t\n"+
			"RateLimit:\n"+
			"  RPS: %g\n"+
			"  Burst: %d\n"+
			"Inventory:\n"+
			"  LowStockThreshold: %d\n",
		c.Env,
		c.MigrationsPath,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.TokenTTL,
		c.RedisAddress,
		c.RedisDB,
		c.CacheTTL,
		c.RabbitQueue,
		c.RabbitURL != "",
		c.RPS,
		c.Burst,
		c.LowStockThreshold,
	)
}
