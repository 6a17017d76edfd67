package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/msgboard/internal/service/messages"
)

// Store drivers.
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Config holds server configuration values.
type Config struct {
	Addr              string         `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration  `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration  `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string         `mapstructure:"log_level" yaml:"log_level"`
	LogFormat         string         `mapstructure:"log_format" yaml:"log_format"`
	Store             StoreConfig    `mapstructure:"store" yaml:"store"`
	JWT               JWTConfig      `mapstructure:"jwt" yaml:"jwt"`
	Messages          MessagesConfig `mapstructure:"messages" yaml:"messages"`
}

// StoreConfig selects and locates the persistence backend.
type StoreConfig struct {
	Driver       string `mapstructure:"driver" yaml:"driver"`
	DatabasePath string `mapstructure:"database_path" yaml:"database_path"`
}

// JWTConfig configures access token signing and verification.
type JWTConfig struct {
	Secret   string        `mapstructure:"secret" yaml:"secret"`
	Issuer   string        `mapstructure:"issuer" yaml:"issuer"`
	Audience string        `mapstructure:"audience" yaml:"audience"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

// MessagesConfig holds pagination and write policies of the message service.
type MessagesConfig struct {
	DefaultLimit int    `mapstructure:"default_limit" yaml:"default_limit"`
	MaxLimit     int    `mapstructure:"max_limit" yaml:"max_limit"`
	UpdatePolicy string `mapstructure:"update_policy" yaml:"update_policy"`
	LikeCleanup  string `mapstructure:"like_cleanup" yaml:"like_cleanup"`
	AtomicDelete bool   `mapstructure:"atomic_delete" yaml:"atomic_delete"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	opts := messages.DefaultOptions()
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		LogFormat:         "console",
		Store: StoreConfig{
			Driver:       DriverSQLite,
			DatabasePath: "msgboard.db",
		},
		JWT: JWTConfig{
			Secret:   "change-me",
			Issuer:   "msgboard",
			Audience: "msgboard",
			TTL:      24 * time.Hour,
		},
		Messages: MessagesConfig{
			DefaultLimit: opts.DefaultLimit,
			MaxLimit:     opts.MaxLimit,
			UpdatePolicy: string(opts.UpdatePolicy),
			LikeCleanup:  string(opts.LikeCleanup),
			AtomicDelete: opts.AtomicDelete,
		},
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	switch c.Store.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Store.DatabasePath == "" {
			return errors.New("store.database_path must not be empty for sqlite")
		}
	default:
		return fmt.Errorf("unknown store.driver %q", c.Store.Driver)
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret must not be empty")
	}
	if c.JWT.TTL <= 0 {
		return errors.New("jwt.ttl must be positive")
	}
	if c.Messages.MaxLimit <= 0 {
		return errors.New("messages.max_limit must be positive")
	}
	if c.Messages.DefaultLimit <= 0 || c.Messages.DefaultLimit > c.Messages.MaxLimit {
		return errors.New("messages.default_limit must be between 1 and messages.max_limit")
	}
	switch messages.UpdatePolicy(c.Messages.UpdatePolicy) {
	case messages.UpdateAnyone, messages.UpdateOwnerOnly:
	default:
		return fmt.Errorf("unknown messages.update_policy %q", c.Messages.UpdatePolicy)
	}
	switch messages.LikeCleanup(c.Messages.LikeCleanup) {
	case messages.CleanupAllLikes, messages.CleanupRequesterLikes:
	default:
		return fmt.Errorf("unknown messages.like_cleanup %q", c.Messages.LikeCleanup)
	}
	return nil
}

// MessageOptions converts the messages section into service options.
func (c *Config) MessageOptions() messages.Options {
	return messages.Options{
		DefaultLimit: c.Messages.DefaultLimit,
		MaxLimit:     c.Messages.MaxLimit,
		UpdatePolicy: messages.UpdatePolicy(c.Messages.UpdatePolicy),
		LikeCleanup:  messages.LikeCleanup(c.Messages.LikeCleanup),
		AtomicDelete: c.Messages.AtomicDelete,
	}
}
