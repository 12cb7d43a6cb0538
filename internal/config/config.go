package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Cron      CronConfig      `yaml:"cron"`
	YouTube   YouTubeConfig   `yaml:"youtube"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Storage   StorageConfig   `yaml:"storage"`
	Auth      AuthConfig      `yaml:"auth"`
	Reference ReferenceConfig `yaml:"reference"`
	Summarize SummarizeConfig `yaml:"summarize"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type CronConfig struct {
	Enabled       bool   `yaml:"enabled"`
	FetchInterval string `yaml:"fetch_interval"`
	// ProcessTimeout bounds a single pipeline invocation, e.g. "5m".
	ProcessTimeout string `yaml:"process_timeout"`
}

type YouTubeConfig struct {
	APIKey     string `yaml:"api_key"`
	ChannelID  string `yaml:"channel_id"`
	MaxResults int    `yaml:"max_results"`
	// APIBaseURL and CaptionBaseURL are overridable for tests.
	APIBaseURL     string `yaml:"api_base_url"`
	CaptionBaseURL string `yaml:"caption_base_url"`
	CaptionLang    string `yaml:"caption_lang"`
}

type GeminiConfig struct {
	APIKeys         []string `yaml:"api_keys"`
	TextModel       string   `yaml:"text_model"`
	TranscribeModel string   `yaml:"transcribe_model"`
	ImageModel      string   `yaml:"image_model"`
}

type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

type StorageConfig struct {
	Bucket string `yaml:"bucket"`
}

type AuthConfig struct {
	CronSecret string `yaml:"cron_secret"`
}

type ReferenceConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

type SummarizeConfig struct {
	MaxTranscriptChars int `yaml:"max_transcript_chars"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads the YAML config file, applies environment overrides for
// secrets, and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyEnv lets deployment environments inject secrets without writing
// them into the config file.
func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Gemini.APIKeys = splitKeys(v)
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		c.YouTube.APIKey = v
	}
	if v := os.Getenv("CRON_SECRET"); v != "" {
		c.Auth.CronSecret = v
	}
	if v := os.Getenv("STORAGE_BUCKET"); v != "" {
		c.Storage.Bucket = v
	}
}

func splitKeys(v string) []string {
	var keys []string
	for _, k := range strings.Split(v, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// Validate checks required fields and fills in defaults. Missing API keys
// are not errors: an absent credential disables the matching capability
// instead of failing startup.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Reference.Path == "" {
		return fmt.Errorf("reference.path is required")
	}

	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}
	if c.Cron.FetchInterval == "" {
		c.Cron.FetchInterval = "*/30 * * * *"
	}
	if c.Cron.ProcessTimeout == "" {
		c.Cron.ProcessTimeout = "5m"
	}
	if c.YouTube.MaxResults == 0 {
		c.YouTube.MaxResults = 20
	}
	if c.YouTube.APIBaseURL == "" {
		c.YouTube.APIBaseURL = "https://www.googleapis.com/youtube/v3"
	}
	if c.YouTube.CaptionBaseURL == "" {
		c.YouTube.CaptionBaseURL = "https://www.youtube.com/api/timedtext"
	}
	if c.YouTube.CaptionLang == "" {
		c.YouTube.CaptionLang = "ja"
	}
	if c.Gemini.TextModel == "" {
		c.Gemini.TextModel = "gemini-2.5-flash"
	}
	if c.Gemini.TranscribeModel == "" {
		c.Gemini.TranscribeModel = "gemini-2.5-flash"
	}
	if c.Gemini.ImageModel == "" {
		c.Gemini.ImageModel = "gemini-3-pro-image-preview"
	}
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
	}
	if c.Summarize.MaxTranscriptChars == 0 {
		c.Summarize.MaxTranscriptChars = 120000
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	return nil
}

// ServerAddress returns the listen address for the HTTP server.
func (c *Config) ServerAddress() string {
	if strings.Contains(c.Server.Port, ":") {
		return c.Server.Port
	}
	return ":" + c.Server.Port
}
