package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса, загружается из config.toml
type Config struct {
	Server          ServerConfig          `toml:"server"`
	Database        DatabaseConfig        `toml:"database"`
	Cache           CacheConfig           `toml:"cache"`
	CalendarService CalendarServiceConfig `toml:"calendar_service"`
	NotifyService   NotifyServiceConfig   `toml:"notify_service"`
	Logs            LogsConfig            `toml:"logs"`
	Metrics         MetricsConfig         `toml:"metrics"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	Migrate         bool   `toml:"migrate"`
}

// DSN возвращает строку подключения к PostgreSQL
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// CacheConfig настройки кэша доступности
type CacheConfig struct {
	DerivedTTLMinutes  int `toml:"derived_ttl_minutes"`  // TTL производных результатов
	CalendarTTLMinutes int `toml:"calendar_ttl_minutes"` // TTL занятости внешних календарей
	SweepMinutes       int `toml:"sweep_minutes"`        // период фоновой очистки
}

// CalendarServiceConfig настройки клиента CalendarService
type CalendarServiceConfig struct {
	URL           string `toml:"url"`
	Timeout       int    `toml:"timeout"` // секунды
	RetryAttempts int    `toml:"retry_attempts"`
}

// NotifyServiceConfig настройки клиента NotifyService
type NotifyServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// Load загружает конфигурацию из toml файла и проставляет дефолты
func Load(path string) (*Config, error) {
	var cfg Config

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}
	if c.Cache.DerivedTTLMinutes == 0 {
		c.Cache.DerivedTTLMinutes = 60
	}
	if c.Cache.CalendarTTLMinutes == 0 {
		c.Cache.CalendarTTLMinutes = 15
	}
	if c.Cache.SweepMinutes == 0 {
		c.Cache.SweepMinutes = 10
	}
	if c.CalendarService.Timeout == 0 {
		c.CalendarService.Timeout = 5
	}
	if c.CalendarService.RetryAttempts == 0 {
		c.CalendarService.RetryAttempts = 3
	}
	if c.NotifyService.Timeout == 0 {
		c.NotifyService.Timeout = 5
	}
	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "swb-availability-service"
	}
}

func (c *Config) validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("config: database.user is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("config: database.dbname is required")
	}
	if c.CalendarService.URL == "" {
		return fmt.Errorf("config: calendar_service.url is required")
	}
	if c.NotifyService.URL == "" {
		return fmt.Errorf("config: notify_service.url is required")
	}
	return nil
}
