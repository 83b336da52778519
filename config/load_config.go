package config

import (
	"TagService/internal/cache"
	"errors"
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const defaultConfigPath = "config.yaml"

// MustLoad - обертка над LoadConfig с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := LoadConfig(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadConfig загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./config.yaml; 4) только окружение.
// Перед этим подгружается .env из рабочей директории, если он есть.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("ошибка чтения .env: %w", err)
	}

	var cfg Config

	switch {
	case path != "":
		if err := readFile(path, &cfg); err != nil {
			return nil, err
		}
	case os.Getenv("CONFIG_PATH") != "":
		if err := readFile(os.Getenv("CONFIG_PATH"), &cfg); err != nil {
			return nil, err
		}
	default:
		if _, err := os.Stat(defaultConfigPath); err == nil {
			if err := readFile(defaultConfigPath, &cfg); err != nil {
				return nil, err
			}
		} else if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("конфигурация не найдена: укажите --config, CONFIG_PATH, config.yaml или переменные окружения: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// readFile читает yaml и накладывает поверх него переменные окружения.
func readFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("файл конфигурации %q недоступен: %w", path, err)
	}

	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return fmt.Errorf("ошибка чтения файла конфигурации: %w", err)
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return fmt.Errorf("ошибка чтения переменных окружения: %w", err)
	}

	return nil
}

func (cfg *Config) Validate() error {
	switch cfg.Database.Driver {
	case "postgres":
		if cfg.Database.ConnectionString == "" {
			return errors.New("database.connection_string обязателен для driver postgres")
		}
	case "memory":
	default:
		return fmt.Errorf("неизвестный database.driver %q", cfg.Database.Driver)
	}

	switch cfg.Cache.Driver {
	case "redis":
		if cfg.Cache.RedisURL == "" {
			return errors.New("cache.redis_url обязателен для driver redis")
		}
	case "memory":
	default:
		return fmt.Errorf("неизвестный cache.driver %q", cfg.Cache.Driver)
	}

	if _, err := cache.ParseMode(cfg.Cache.Mode); err != nil {
		return err
	}

	if cfg.JWT.AccessTokenTTL <= 0 || cfg.JWT.RefreshTokenTTL <= cfg.JWT.AccessTokenTTL {
		return errors.New("jwt: refresh_token_ttl должен быть больше access_token_ttl, а оба положительными")
	}

	return nil
}
