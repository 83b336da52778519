// Package config описывает конфигурацию сервиса и ее загрузку из файла
// и переменных окружения.
package config

import (
	"net"
	"time"
)

// Config - корневая конфигурация сервиса.
// Источники значений (по убыванию приоритета):
//  1. явный путь через флаг --config;
//  2. путь в переменной окружения CONFIG_PATH;
//  3. файл config.yaml из рабочей директории;
//  4. переменные окружения.
//
// Переменные окружения всегда накладываются поверх файла.
type Config struct {
	Env      string         `yaml:"env" env:"ENV" env-default:"local"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Cookies  CookiesConfig  `yaml:"cookies"`
	Cache    CacheConfig    `yaml:"cache"`
	Webhook  WebhookConfig  `yaml:"webhook"`
}

type ServerConfig struct {
	Host              string        `yaml:"host" env:"SERVER_HOST" env-default:"0.0.0.0"`
	Port              string        `yaml:"port" env:"SERVER_PORT" env-default:"8080"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" env:"SERVER_READ_HEADER_TIMEOUT" env-default:"5s"`
	RequestTimeout    time.Duration `yaml:"request_timeout" env:"SERVER_REQUEST_TIMEOUT" env-default:"3s"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// Addr возвращает адрес в формате host:port.
func (server ServerConfig) Addr() string {
	return net.JoinHostPort(server.Host, server.Port)
}

// DatabaseConfig - хранилище пользователей, тэгов и refresh токенов.
// Driver memory держит все в памяти процесса и нужен для локального запуска.
type DatabaseConfig struct {
	Driver           string     `yaml:"driver" env:"DATABASE_DRIVER" env-default:"postgres"`
	ConnectionString string     `yaml:"connection_string" env:"DATABASE_CONNECTION_URL"`
	SeedUser         SeedConfig `yaml:"seed_user"`
}

// SeedConfig - пользователь, которого создает driver memory при старте.
type SeedConfig struct {
	Email    string `yaml:"email" env:"SEED_USER_EMAIL"`
	Nickname string `yaml:"nickname" env:"SEED_USER_NICKNAME"`
	Password string `yaml:"password" env:"SEED_USER_PASSWORD"`
}

type JWTConfig struct {
	SecretKey       string        `yaml:"secret_key" env:"PRIVATE_KEY" env-required:"true"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl" env:"ACCESS_TOKEN_TTL" env-default:"15m"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl" env:"REFRESH_TOKEN_TTL" env-default:"720h"`
	Issuer          string        `yaml:"issuer" env:"JWT_ISSUER" env-default:"tag-service"`
	JanitorPeriod   time.Duration `yaml:"janitor_period" env:"REFRESH_JANITOR_PERIOD" env-default:"10m"`
}

type CookiesConfig struct {
	AccessName  string `yaml:"access_name" env:"COOKIE_ACCESS_NAME" env-default:"accessToken"`
	RefreshName string `yaml:"refresh_name" env:"COOKIE_REFRESH_NAME" env-default:"refreshToken"`
	Secure      bool   `yaml:"secure" env:"COOKIE_SECURE" env-default:"false"`
	HTTPOnly    bool   `yaml:"http_only" env:"COOKIE_HTTP_ONLY" env-default:"true"`
	SameSite    string `yaml:"same_site" env:"COOKIE_SAME_SITE" env-default:"lax"`
	Path        string `yaml:"path" env:"COOKIE_PATH" env-default:"/"`
	Domain      string `yaml:"domain" env:"COOKIE_DOMAIN"`
}

// CacheConfig - кэш ответов по тэгам.
// Mode single_slot держит один тэг и один список на весь сервис,
// per_resource - по ключу на тэг и на параметры списка.
type CacheConfig struct {
	Driver   string `yaml:"driver" env:"CACHE_DRIVER" env-default:"memory"`
	RedisURL string `yaml:"redis_url" env:"REDIS_URL"`
	Prefix   string `yaml:"prefix" env:"CACHE_PREFIX" env-default:"tagservice:"`
	Mode     string `yaml:"mode" env:"CACHE_MODE" env-default:"single_slot"`
}

type WebhookConfig struct {
	URL     string        `yaml:"url" env:"WEBHOOK_URL"`
	Timeout time.Duration `yaml:"timeout" env:"WEBHOOK_TIMEOUT" env-default:"3s"`
}
