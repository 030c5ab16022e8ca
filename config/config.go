package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingOpenAIKey is returned when the required text/image credential is absent.
var ErrMissingOpenAIKey = errors.New("OPENAI_API_KEY not set; the text and image generation key is required")

const (
	defaultModel   = "gpt-4-turbo"
	defaultPort    = "8501"
	defaultTimeout = 5 * time.Minute
)

// Config is built once at startup and handed to every component that needs it.
type Config struct {
	LLM        LLMConfig     `json:"llm"`
	Freepik    FreepikConfig `json:"freepik"`
	ServerAddr string        `json:"server_addr,omitempty"`
	Timeout    time.Duration `json:"timeout"`
}

// LLMConfig holds the OpenAI chat and image settings.
type LLMConfig struct {
	Model      string `json:"model"`
	ImageModel string `json:"image_model"`
	APIKey     string `json:"api_key,omitempty"`
	BaseURL    string `json:"base_url,omitempty"`
}

// FreepikConfig is optional. An empty APIKey disables the image search step.
type FreepikConfig struct {
	APIKey  string `json:"api_key,omitempty"`
	BaseURL string `json:"base_url,omitempty"`
}

// HasFreepik reports whether the primary image provider is usable.
func (c Config) HasFreepik() bool {
	return strings.TrimSpace(c.Freepik.APIKey) != ""
}

// Validate checks the required credential.
func (c Config) Validate() error {
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return ErrMissingOpenAIKey
	}
	if c.LLM.Model == "" {
		return errors.New("llm model is required")
	}
	return nil
}

// Options tells Load where to look besides the environment.
type Options struct {
	// EnvFile is loaded into the process environment before binding. A missing
	// file is not an error.
	EnvFile string
	// ConfigFile is an optional YAML/JSON/TOML file read by viper.
	ConfigFile string
}

// Load reads .env, the optional config file and the environment, in that
// order of increasing precedence. It does not validate; callers that need
// real credentials call Validate.
func Load(opts Options) (Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[config] warning: could not load %s: %v", envFile, err)
	}

	v := viper.New()
	v.SetDefault("llm.model", defaultModel)
	v.SetDefault("llm.image_model", "dall-e-3")
	v.SetDefault("port", defaultPort)
	v.SetDefault("timeout", defaultTimeout.String())

	bindings := map[string][]string{
		"llm.api_key":      {"OPENAI_API_KEY"},
		"llm.model":        {"OPENAI_VERSION", "OPENAI_MODEL"},
		"llm.image_model":  {"OPENAI_IMAGE_MODEL"},
		"llm.base_url":     {"OPENAI_BASE_URL"},
		"freepik.api_key":  {"FREEPIK_API_KEY"},
		"freepik.base_url": {"FREEPIK_BASE_URL"},
		"port":             {"PORT"},
		"server_addr":      {"ARTICLE_AGENT_ADDR"},
		"timeout":          {"ARTICLE_AGENT_TIMEOUT"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return Config{}, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", opts.ConfigFile, err)
		}
		log.Printf("[config] using config file %s", v.ConfigFileUsed())
	}

	cfg := Config{
		LLM: LLMConfig{
			Model:      strings.TrimSpace(v.GetString("llm.model")),
			ImageModel: strings.TrimSpace(v.GetString("llm.image_model")),
			APIKey:     strings.TrimSpace(v.GetString("llm.api_key")),
			BaseURL:    strings.TrimSpace(v.GetString("llm.base_url")),
		},
		Freepik: FreepikConfig{
			APIKey:  strings.TrimSpace(v.GetString("freepik.api_key")),
			BaseURL: strings.TrimSpace(v.GetString("freepik.base_url")),
		},
		ServerAddr: strings.TrimSpace(v.GetString("server_addr")),
	}
	timeout, err := parseTimeout(v.GetString("timeout"))
	if err != nil {
		return Config{}, err
	}
	cfg.Timeout = timeout
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = defaultModel
	}
	if cfg.ServerAddr == "" {
		port := strings.TrimSpace(v.GetString("port"))
		if port == "" {
			port = defaultPort
		}
		cfg.ServerAddr = "0.0.0.0:" + port
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return cfg, nil
}

// parseTimeout accepts a Go duration ("90s", "5m") or a bare number of seconds.
func parseTimeout(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultTimeout, nil
	}
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: want a duration like 90s or a number of seconds", s)
	}
	return d, nil
}
