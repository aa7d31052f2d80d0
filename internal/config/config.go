// Package config builds the application configuration from Viper and
// environment variables. The result is an explicit value passed to every
// component; nothing reads Viper after startup.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/szczypior/szczypior-bot/internal/common"
	"github.com/szczypior/szczypior-bot/internal/ledger"
)

// Config is the root configuration object, constructed once at process start.
type Config struct {
	CommandPrefix string
	LogLevel      string
	LogFormat     string
	Discord       DiscordConfig
	LLM           LLMConfig
	Keywords      map[string][]string
	Prompts       Prompts
	Sheets        ledger.Config
}

// DiscordConfig holds gateway settings.
type DiscordConfig struct {
	Token        string
	ChannelID    string
	HistoryLimit int
}

// LLMConfig holds provider selection and generation parameters.
type LLMConfig struct {
	Provider    string
	Model       string
	APIKey      string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	MinInterval time.Duration
}

// Load assembles the configuration with this precedence:
// 1. Viper (config file or SZCZYPIOR_ env vars), 2. direct environment
// variables, 3. defaults.
func Load() (*Config, error) {
	cfg := &Config{
		CommandPrefix: stringOr("command_prefix", "", "!"),
		LogLevel:      stringOr("log.level", "LOG_LEVEL", "info"),
		LogFormat:     stringOr("log.format", "LOG_FORMAT", "console"),
		Discord: DiscordConfig{
			Token:        stringOr("discord.token", "DISCORD_BOT_TOKEN", ""),
			ChannelID:    stringOr("discord.channel_id", "MONITORED_CHANNEL_ID", ""),
			HistoryLimit: intOr("discord.history_limit", 100),
		},
		LLM: LLMConfig{
			Provider:    strings.ToLower(stringOr("llm.provider", "LLM_PROVIDER", "gemini")),
			Model:       stringOr("llm.model", "LLM_MODEL", ""),
			Temperature: floatOr("llm.temperature", "LLM_TEMPERATURE", 0.7),
			MaxTokens:   intOr("llm.max_tokens", 2048),
			Timeout:     durationOr("llm.timeout", 60*time.Second),
			MinInterval: durationOr("llm.min_interval", 2*time.Second),
		},
		Keywords: defaultKeywords(),
		Prompts:  defaultPrompts(),
	}

	cfg.LLM.APIKey = providerAPIKey(cfg.LLM.Provider)

	if kw := viper.GetStringMapStringSlice("keywords"); len(kw) > 0 {
		cfg.Keywords = kw
	}
	overridePrompt := func(key string, dst *string) {
		if v := viper.GetString(key); v != "" {
			*dst = v
		}
	}
	overridePrompt("prompts.activity_analysis", &cfg.Prompts.ActivityAnalysis)
	overridePrompt("prompts.text_analysis", &cfg.Prompts.TextAnalysis)
	overridePrompt("prompts.with_context", &cfg.Prompts.WithContext)
	overridePrompt("prompts.motivational_comment", &cfg.Prompts.MotivationalComment)

	cfg.Sheets = ledger.DefaultConfig()
	if v := viper.GetString("sheets.service_account_path"); v != "" {
		cfg.Sheets.ServiceAccountPath = ExpandPath(v)
	}
	if v := viper.GetString("sheets.spreadsheet_id"); v != "" {
		cfg.Sheets.SpreadsheetID = v
	}
	if v := viper.GetString("sheets.client_id"); v != "" {
		cfg.Sheets.ClientID = v
	}
	if v := viper.GetString("sheets.client_secret"); v != "" {
		cfg.Sheets.ClientSecret = v
	}
	if v := viper.GetString("sheets.refresh_token"); v != "" {
		cfg.Sheets.RefreshToken = v
	}
	cfg.Sheets.LoadFromEnv()
	if cfg.Sheets.ServiceAccountPath != "" {
		cfg.Sheets.ServiceAccountPath = ExpandPath(cfg.Sheets.ServiceAccountPath)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the parts every command needs. Command-specific
// requirements (the Discord token for run, sheets credentials for sync) are
// checked by the commands themselves.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "gemini", "openai", "anthropic":
	default:
		return fmt.Errorf("%w: unknown llm provider: %s", common.ErrInvalidConfig, c.LLM.Provider)
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("%w: llm temperature out of range: %v", common.ErrInvalidConfig, c.LLM.Temperature)
	}

	if c.Discord.HistoryLimit <= 0 {
		return fmt.Errorf("%w: discord history limit must be positive", common.ErrInvalidConfig)
	}

	if len(c.Keywords) == 0 {
		return fmt.Errorf("%w: activity keywords are empty", common.ErrMissingConfig)
	}

	return nil
}

// providerAPIKey resolves the API key for a provider, preferring the generic
// override.
func providerAPIKey(provider string) string {
	if v := viper.GetString("llm.api_key"); v != "" {
		return v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		return v
	}
	switch provider {
	case "gemini":
		return os.Getenv("GEMINI_API_KEY")
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	}
	return ""
}

func stringOr(viperKey, envKey, fallback string) string {
	if v := viper.GetString(viperKey); v != "" {
		return v
	}
	if envKey != "" {
		if v := os.Getenv(envKey); v != "" {
			return v
		}
	}
	return fallback
}

func intOr(viperKey string, fallback int) int {
	if v := viper.GetInt(viperKey); v != 0 {
		return v
	}
	return fallback
}

func floatOr(viperKey, envKey string, fallback float64) float64 {
	if viper.IsSet(viperKey) {
		return viper.GetFloat64(viperKey)
	}
	if envKey != "" {
		if v := os.Getenv(envKey); v != "" {
			var f float64
			if _, err := fmt.Sscanf(v, "%g", &f); err == nil {
				return f
			}
		}
	}
	return fallback
}

func durationOr(viperKey string, fallback time.Duration) time.Duration {
	if v := viper.GetDuration(viperKey); v > 0 {
		return v
	}
	return fallback
}

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}
