// Package config loads the settings of the pullstring command from a YAML
// file, a .env file and the environment, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	conversation "github.com/koscakluka/pullstring-core/core"
)

const (
	EnvAPIKey  = "PULLSTRING_API_KEY"
	EnvProject = "PULLSTRING_PROJECT"
	EnvBaseURL = "PULLSTRING_BASE_URL"
)

const (
	AudioBackendMiniaudio = "miniaudio"
	AudioBackendPortaudio = "portaudio"
)

type Config struct {
	APIKey    string `yaml:"api_key"`
	Project   string `yaml:"project"`
	BaseURL   string `yaml:"base_url"`
	BuildType string `yaml:"build_type"`
	Language  string `yaml:"language"`
	AccountID string `yaml:"account_id"`

	SessionDB    string `yaml:"session_db"`
	AudioBackend string `yaml:"audio_backend"`
	LogLevel     string `yaml:"log_level"`
}

func Default() Config {
	return Config{
		BaseURL:      conversation.APIBaseURL,
		BuildType:    string(conversation.BuildTypeProduction),
		Language:     conversation.DefaultLanguage,
		SessionDB:    "pullstring-sessions.db",
		AudioBackend: AudioBackendMiniaudio,
		LogLevel:     "warn",
	}
}

// Load reads path, if it exists, on top of the defaults and applies
// environment overrides. A .env file in the working directory is loaded
// into the environment first.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if value := os.Getenv(EnvAPIKey); value != "" {
		c.APIKey = value
	}
	if value := os.Getenv(EnvProject); value != "" {
		c.Project = value
	}
	if value := os.Getenv(EnvBaseURL); value != "" {
		c.BaseURL = value
	}
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("api key is required (set api_key or %s)", EnvAPIKey)
	}
	if c.Project == "" {
		return fmt.Errorf("project is required (set project or %s)", EnvProject)
	}

	switch conversation.BuildType(c.BuildType) {
	case "", conversation.BuildTypeProduction, conversation.BuildTypeStaging, conversation.BuildTypeSandbox:
	default:
		return fmt.Errorf("invalid build type %q", c.BuildType)
	}

	switch c.AudioBackend {
	case "", AudioBackendMiniaudio, AudioBackendPortaudio:
	default:
		return fmt.Errorf("invalid audio backend %q", c.AudioBackend)
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Request builds the request descriptor for a new call.
func (c *Config) Request() *conversation.Request {
	request := conversation.NewRequest(c.APIKey)
	if c.BuildType != "" {
		request.BuildType = conversation.BuildType(c.BuildType)
	}
	if c.Language != "" {
		request.Language = c.Language
	}
	request.AccountID = c.AccountID
	return request
}
