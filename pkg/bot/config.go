// Copyright 2024-2026 Aiku AI

package bot

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aiku/pagebot/pkg/pagination"
)

// Platform names accepted in the config file.
const (
	PlatformMattermost = "mattermost"
	PlatformMatrix     = "matrix"
)

// Config holds the bot configuration.
type Config struct {
	// Platform selects the chat platform adapter: "mattermost" or "matrix".
	Platform string `yaml:"platform"`
	// CommandPrefix introduces bot commands in chat. Defaults to "!".
	CommandPrefix string `yaml:"command_prefix"`
	// OwnerID is the platform user ID of the bot owner. The owner may drive
	// any navigator regardless of who invoked it. Optional.
	OwnerID string `yaml:"owner_id"`
	// LogLevel is a zerolog level name. Defaults to "info".
	LogLevel string `yaml:"log_level"`

	Navigator  NavigatorConfig  `yaml:"navigator"`
	Mattermost MattermostConfig `yaml:"mattermost"`
	Matrix     MatrixConfig     `yaml:"matrix"`
}

// NavigatorConfig carries pagination engine defaults.
type NavigatorConfig struct {
	// TimeoutSeconds is the sliding idle timeout for navigators. Defaults
	// to 300.
	TimeoutSeconds int `yaml:"timeout_seconds"`
	// MaxPageSize is the whole-message character budget per page. Defaults
	// to pagination.DefaultMaxPageSize.
	MaxPageSize int `yaml:"max_page_size"`
}

// Timeout returns the configured navigator timeout as a duration.
func (nc NavigatorConfig) Timeout() time.Duration {
	return time.Duration(nc.TimeoutSeconds) * time.Second
}

// MattermostConfig holds Mattermost connection settings.
type MattermostConfig struct {
	ServerURL string `yaml:"server_url"`
	Token     string `yaml:"token"`
}

// MatrixConfig holds Matrix connection settings.
type MatrixConfig struct {
	HomeserverURL string `yaml:"homeserver_url"`
	UserID        string `yaml:"user_id"`
	AccessToken   string `yaml:"access_token"`
}

// UnmarshalYAML decodes the config and applies defaults.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	type rawConfig Config
	if err := node.Decode((*rawConfig)(c)); err != nil {
		return err
	}
	c.applyDefaults()
	return nil
}

func (c *Config) applyDefaults() {
	if c.CommandPrefix == "" {
		c.CommandPrefix = "!"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Navigator.TimeoutSeconds == 0 {
		c.Navigator.TimeoutSeconds = int(pagination.DefaultTimeout / time.Second)
	}
	if c.Navigator.MaxPageSize == 0 {
		c.Navigator.MaxPageSize = pagination.DefaultMaxPageSize
	}
}

// Validate checks that the config is complete enough to start the bot.
func (c *Config) Validate() error {
	switch c.Platform {
	case PlatformMattermost:
		if c.Mattermost.ServerURL == "" || c.Mattermost.Token == "" {
			return fmt.Errorf("mattermost platform requires server_url and token")
		}
	case PlatformMatrix:
		if c.Matrix.HomeserverURL == "" || c.Matrix.UserID == "" || c.Matrix.AccessToken == "" {
			return fmt.Errorf("matrix platform requires homeserver_url, user_id and access_token")
		}
	case "":
		return fmt.Errorf("platform not set")
	default:
		return fmt.Errorf("unknown platform %q", c.Platform)
	}
	if c.Navigator.TimeoutSeconds < 0 {
		return fmt.Errorf("negative navigator timeout")
	}
	return nil
}

// LoadConfig reads and validates a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	// Defaults are applied in UnmarshalYAML, but an empty file never hits
	// the custom unmarshaler.
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
