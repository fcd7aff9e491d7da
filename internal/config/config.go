// Package config 读取 configuration.toml
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	SessionCookieName string         `mapstructure:"session_cookie_name"`
	Listen            string         `mapstructure:"listen"`
	Port              int            `mapstructure:"port"`
	SigningKey        string         `mapstructure:"signing_key"` // cookie 签名密钥种子
	Database          DatabaseConfig `mapstructure:"database"`
	Redis             RedisConfig    `mapstructure:"redis"`
	Kafka             KafkaConfig    `mapstructure:"kafka"`
	Session           SessionConfig  `mapstructure:"session"`
	Password          PasswordConfig `mapstructure:"password"`
	Log               LogConfig      `mapstructure:"log"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"` // mysql / postgres / sqlite
	Connection   string `mapstructure:"connection"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

// RedisConfig Addr 为空时不启用会话缓存
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// KafkaConfig Brokers 为空时 outbox 只打日志
type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type SessionConfig struct {
	TTL           time.Duration `mapstructure:"ttl"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type PasswordConfig struct {
	Memory      uint32 `mapstructure:"memory"`
	Time        uint32 `mapstructure:"time"`
	Parallelism uint8  `mapstructure:"parallelism"`
	Workers     int    `mapstructure:"workers"` // 同时进行的哈希计算上限
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Addr 监听地址
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Listen, c.Port)
}

// LoadConfig path 为空时在当前目录及上级目录查找 configuration.toml
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("..")
		v.SetConfigName("configuration")
		v.SetConfigType("toml")
	}
	v.SetEnvPrefix("FORUM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("session_cookie_name", "forum_session")
	v.SetDefault("listen", "127.0.0.1")
	v.SetDefault("port", 8080)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("kafka.topic", "forum-events")
	v.SetDefault("session.ttl", 4*7*24*time.Hour)
	v.SetDefault("session.cache_ttl", 30*time.Second)
	v.SetDefault("session.sweep_interval", 10*time.Minute)
	v.SetDefault("password.memory", 19*1024)
	v.SetDefault("password.time", 2)
	v.SetDefault("password.parallelism", 1)
	v.SetDefault("password.workers", 4)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Validate 校验必填项
func (c *Config) Validate() error {
	if c.SessionCookieName == "" {
		return errors.New("session_cookie_name is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if len(c.SigningKey) < 32 {
		return errors.New("signing_key must be at least 32 bytes")
	}
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.Connection == "" {
		return errors.New("database.connection is required")
	}
	if c.Password.Workers < 1 {
		return errors.New("password.workers must be >= 1")
	}
	if c.Session.CacheTTL <= 0 {
		return errors.New("session.cache_ttl must be positive")
	}
	return nil
}
