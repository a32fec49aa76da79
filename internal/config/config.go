// Package config loads dealer settings and card data.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds the dealer settings. The file may be YAML or the JSON
// config.json of earlier releases; environment variables win over both.
type Config struct {
	Token         string `yaml:"token" env:"DEALER_TOKEN"`
	GuildID       string `yaml:"guildId" env:"DEALER_GUILD_ID"`
	GameChannelID string `yaml:"gameChannelId" env:"DEALER_GAME_CHANNEL_ID"`
	HumanUserID   string `yaml:"humanUserId" env:"DEALER_HUMAN_USER_ID"`
	AIChannelID   string `yaml:"aiChannelId" env:"DEALER_AI_CHANNEL_ID"`
	AIBotID       string `yaml:"aiBotId" env:"DEALER_AI_BOT_ID"`

	CardsPath            string    `yaml:"cardsPath" env:"DEALER_CARDS_PATH"`
	DefaultPack          string    `yaml:"defaultPack" env:"DEALER_DEFAULT_PACK"`
	AutoDealDelaySeconds int       `yaml:"autoDealDelaySeconds" env:"DEALER_AUTO_DEAL_DELAY_SEC"`
	Log                  LogConfig `yaml:"log"`

	// Older config files used these names for the AI channel and bot.
	LegacyAIChannelID string `yaml:"danteChannelId"`
	LegacyAIBotID     string `yaml:"entesBotId"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	// Level is empty unless set; each command then picks its own default.
	Level       string `yaml:"level" env:"DEALER_LOG_LEVEL"`
	Development bool   `yaml:"development" env:"DEALER_LOG_DEVELOPMENT"`
}

var ErrMissingSetting = errors.New("missing required setting")

const (
	DefaultCardsPath = "cards.json"
	DefaultPack      = "official"
)

// DefaultConfig returns a Config populated with defaults.
func DefaultConfig() *Config {
	return &Config{
		CardsPath:            DefaultCardsPath,
		DefaultPack:          DefaultPack,
		AutoDealDelaySeconds: 7,
	}
}

// Load reads the config file at path (skipped when path is empty), applies
// environment overrides and resolves legacy field names.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.Resolve()
	return cfg, nil
}

// Resolve fills current field names from their legacy aliases.
func (c *Config) Resolve() {
	if c.AIChannelID == "" {
		c.AIChannelID = c.LegacyAIChannelID
	}
	if c.AIBotID == "" {
		c.AIBotID = c.LegacyAIBotID
	}
}

// AutoDealDelay returns the cooldown between a reveal and the next prompt.
func (c *Config) AutoDealDelay() time.Duration {
	if c.AutoDealDelaySeconds <= 0 {
		return 7 * time.Second
	}
	return time.Duration(c.AutoDealDelaySeconds) * time.Second
}

// ValidateDiscord checks the settings the Discord transport cannot run without.
func (c *Config) ValidateDiscord() error {
	required := []struct {
		name  string
		value string
	}{
		{"token", c.Token},
		{"gameChannelId", c.GameChannelID},
		{"humanUserId", c.HumanUserID},
		{"aiChannelId", c.AIChannelID},
		{"aiBotId", c.AIBotID},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%w: %s", ErrMissingSetting, r.name)
		}
	}
	return nil
}

// Seats returns the seat directory described by the config.
func (c *Config) Seats() Seats {
	return Seats{Human: c.HumanUserID, AI: c.AIBotID}
}
