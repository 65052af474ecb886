// Package config loads process settings from the environment (and an optional .env file).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the read-only settings object injected into every component.
type Config struct {
	AppName     string         `mapstructure:"app_name"`
	AppVersion  string         `mapstructure:"app_version"`
	Debug       bool           `mapstructure:"debug"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	LogLevel    string         `mapstructure:"log_level"`
	CORSOrigins []string       `mapstructure:"cors_origins"`
	LLM         LLMConfig      `mapstructure:"llm"`
	Hashnode    HashnodeConfig `mapstructure:"hashnode"`
	Limits      LimitsConfig   `mapstructure:"limits"`
}

// LLMConfig selects and configures the generation provider.
type LLMConfig struct {
	Provider  string        `mapstructure:"provider"`
	Model     string        `mapstructure:"model"`
	APIKey    string        `mapstructure:"api_key"`
	BaseURL   string        `mapstructure:"base_url"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// HashnodeConfig holds the publishing provider credentials.
type HashnodeConfig struct {
	APIURL        string        `mapstructure:"api_url"`
	Token         string        `mapstructure:"token"`
	PublicationID string        `mapstructure:"publication_id"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// LimitsConfig bounds request sizes.
type LimitsConfig struct {
	MaxTitleLength int `mapstructure:"max_title_length"`
	MaxNotesLength int `mapstructure:"max_notes_length"`
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

var defaults = map[string]any{
	"app_name":                "Blog Publisher",
	"app_version":             "1.0.0",
	"debug":                   false,
	"host":                    "0.0.0.0",
	"port":                    8000,
	"log_level":               "info",
	"cors_origins":            "*",
	"llm.provider":            "gemini",
	"llm.model":               "gemini-2.0-flash",
	"llm.max_tokens":          4096,
	"llm.timeout":             "60s",
	"hashnode.api_url":        "https://gql.hashnode.com/",
	"hashnode.timeout":        "30s",
	"limits.max_title_length": 200,
	"limits.max_notes_length": 5000,
}

// Environment variable names per key. The first name found wins.
var envBindings = map[string][]string{
	"app_name":                {"APP_NAME"},
	"app_version":             {"APP_VERSION"},
	"debug":                   {"DEBUG"},
	"host":                    {"HOST"},
	"port":                    {"PORT"},
	"log_level":               {"LOG_LEVEL"},
	"cors_origins":            {"CORS_ORIGINS"},
	"llm.provider":            {"LLM_PROVIDER"},
	"llm.model":               {"LLM_MODEL", "GEMINI_MODEL"},
	"llm.api_key":             {"LLM_API_KEY", "GEMINI_API_KEY"},
	"llm.base_url":            {"LLM_BASE_URL"},
	"llm.max_tokens":          {"LLM_MAX_TOKENS"},
	"llm.timeout":             {"GENERATION_TIMEOUT"},
	"hashnode.api_url":        {"HASHNODE_API_URL"},
	"hashnode.token":          {"HASHNODE_TOKEN"},
	"hashnode.publication_id": {"HASHNODE_PUBLICATION_ID"},
	"hashnode.timeout":        {"HASHNODE_TIMEOUT"},
	"limits.max_title_length": {"MAX_TITLE_LENGTH"},
	"limits.max_notes_length": {"MAX_NOTES_LENGTH"},
}

// Load reads envFile (if it exists) into the process environment, then resolves
// every setting from the environment on top of the defaults. An empty envFile
// skips dotenv loading.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	for key, names := range envBindings {
		args := append([]string{key}, names...)
		if err := v.BindEnv(args...); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("v.Unmarshal: %w", err)
	}
	cfg.CORSOrigins = splitList(cfg.CORSOrigins)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports missing credentials. Absent keys are a startup failure.
func (c Config) Validate() error {
	var missing []string
	if c.LLM.APIKey == "" && c.LLM.Provider != "mock" {
		missing = append(missing, "LLM_API_KEY (or GEMINI_API_KEY)")
	}
	if c.Hashnode.Token == "" {
		missing = append(missing, "HASHNODE_TOKEN")
	}
	if c.Hashnode.PublicationID == "" {
		missing = append(missing, "HASHNODE_PUBLICATION_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}
	if c.Limits.MaxTitleLength <= 0 || c.Limits.MaxNotesLength <= 0 {
		return errors.New("limits must be positive")
	}
	if c.Hashnode.Timeout <= 0 {
		return errors.New("HASHNODE_TIMEOUT must be positive")
	}
	return nil
}

// splitList normalises comma separated values coming from a single env var.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
