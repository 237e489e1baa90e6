package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/reshetovitsme/channel-alert-monitor/internal/shared/errors"
	"github.com/reshetovitsme/channel-alert-monitor/internal/shared/logger"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

type Config struct {
	DiscordToken     string `koanf:"discord_token"`
	DiscordChannelID string `koanf:"discord_channel_id"`
	DiscordAPIURL    string `koanf:"discord_api_url"`
	// DiscordGuildID is optional; it only makes feed items link to the message.
	DiscordGuildID string `koanf:"discord_guild_id"`

	NtfyTopic         string `koanf:"ntfy_topic"`
	NtfyServer        string `koanf:"ntfy_server"`
	NtfyTitle         string `koanf:"ntfy_title"`
	NtfyPriority      string `koanf:"ntfy_priority"`
	NtfyBurst         int    `koanf:"ntfy_burst"`
	NtfyRefillSeconds int    `koanf:"ntfy_refill_seconds"`

	CheckInterval  int    `koanf:"check_interval"`
	RequestTimeout int    `koanf:"request_timeout"`
	DesktopTimeout int    `koanf:"desktop_timeout"`
	AlertTitle     string `koanf:"alert_title"`

	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`
	LogFile   string `koanf:"log_file"`

	EnableDesktopNotifications bool `koanf:"enable_desktop_notifications"`
	EnableMobileNotifications  bool `koanf:"enable_mobile_notifications"`

	HTTPPort string `koanf:"http_port"`
}

var defaults = map[string]any{
	"discord_api_url":              "https://discord.com/api/v9",
	"ntfy_server":                  "https://ntfy.sh",
	"ntfy_title":                   "Discord Alert",
	"ntfy_priority":                "high",
	"ntfy_burst":                   60,
	"ntfy_refill_seconds":          5,
	"check_interval":               5,
	"request_timeout":              10,
	"desktop_timeout":              5,
	"alert_title":                  "🚨 SIGNAL ALERT 🚨",
	"log_level":                    "info",
	"log_format":                   "plain",
	"enable_desktop_notifications": true,
	"enable_mobile_notifications":  true,
}

// Load reads configuration from path (or the first config.* file found in the
// working directory when path is empty), then environment variables, then defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	configFile, found := path, path != ""
	if !found {
		configFile, found = lo.Find([]string{
			"config.yaml",
			"config.yml",
			"config.json",
			"config.toml",
		}, func(file string) bool {
			_, err := os.Stat(file)
			return err == nil
		})
	}

	if found {
		var parser koanf.Parser
		ext := filepath.Ext(configFile)

		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		case ".toml":
			parser = toml.Parser()
		default:
			return nil, oops.Errorf("unsupported config file extension: %s", ext)
		}

		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, oops.With("config_file", configFile).Wrap(err)
		}
	}

	// Environment variables override config file values.
	// DISCORD_TOKEN -> discord_token
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	for key, value := range defaults {
		if !k.Exists(key) {
			k.Set(key, value)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling config").Wrap(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks required fields and ranges.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DiscordToken) == "" {
		return errors.ErrMissingDiscordToken
	}
	if strings.TrimSpace(c.DiscordChannelID) == "" {
		return errors.ErrMissingChannelID
	}
	if c.EnableMobileNotifications && strings.TrimSpace(c.NtfyTopic) == "" {
		return errors.ErrMissingNtfyTopic
	}
	if c.CheckInterval < 1 {
		return oops.With("check_interval", c.CheckInterval).Wrap(errors.ErrInvalidCheckInterval)
	}
	if c.RequestTimeout < 1 {
		return oops.With("request_timeout", c.RequestTimeout).Wrap(errors.ErrInvalidRequestTimeout)
	}
	if c.DesktopTimeout < 1 {
		return oops.With("desktop_timeout", c.DesktopTimeout).Wrap(errors.ErrInvalidDesktopTimeout)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := logger.ParseFormat(c.LogFormat); err != nil {
		return oops.With("log_format", c.LogFormat).Wrap(errors.ErrInvalidLogFormat)
	}
	return nil
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.CheckInterval) * time.Second
}

func (c *Config) RequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

func (c *Config) DesktopTimeoutDuration() time.Duration {
	return time.Duration(c.DesktopTimeout) * time.Second
}

func (c *Config) NtfyRefillInterval() time.Duration {
	return time.Duration(c.NtfyRefillSeconds) * time.Second
}

// Redacted returns key/value pairs safe to log or print.
func (c *Config) Redacted() []any {
	return []any{
		"channel_id", c.DiscordChannelID,
		"discord_api_url", c.DiscordAPIURL,
		"guild_id", c.DiscordGuildID,
		"ntfy_server", c.NtfyServer,
		"ntfy_topic", c.NtfyTopic,
		"check_interval", c.CheckInterval,
		"request_timeout", c.RequestTimeout,
		"log_level", c.LogLevel,
		"log_format", c.LogFormat,
		"desktop_notifications", c.EnableDesktopNotifications,
		"mobile_notifications", c.EnableMobileNotifications,
		"http_port", c.HTTPPort,
	}
}
