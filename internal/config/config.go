package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sandeepkv93/keel/internal/llm"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type RuntimeConfig struct {
	DBPath           string `yaml:"db_path"`
	APIKey           string `yaml:"api_key"`
	Model            string `yaml:"model"`
	BaseURL          string `yaml:"base_url"`
	MaxTokens        int    `yaml:"max_tokens"`
	EnergyWindowDays int    `yaml:"energy_window_days"`
	AvailableMinutes int    `yaml:"available_minutes"`
	LogLevel         string `yaml:"log_level"`
	LogJSON          bool   `yaml:"log_json"`
	LogFile          string `yaml:"log_file"`
	AlertBuffer      int    `yaml:"alert_buffer"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		DBPath:           "keel.db",
		Model:            llm.DefaultModel,
		BaseURL:          llm.DefaultBaseURL,
		MaxTokens:        llm.DefaultMaxTokens,
		EnergyWindowDays: 14,
		AvailableMinutes: 60,
		LogLevel:         "info",
		LogFile:          "keel.log",
		AlertBuffer:      64,
	}
}

// Load resolves configuration from defaults, the YAML file named by
// KEEL_CONFIG, a local .env file and finally KEEL_* environment variables.
func Load() (RuntimeConfig, error) {
	cfg := DefaultRuntimeConfig()
	if path := strings.TrimSpace(os.Getenv("KEEL_CONFIG")); path != "" {
		var err error
		if cfg, err = LoadFile(path, cfg); err != nil {
			return RuntimeConfig{}, err
		}
	}
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return RuntimeConfig{}, fmt.Errorf("config: load .env: %w", err)
	}
	cfg = FromEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return RuntimeConfig{}, err
	}
	return cfg, nil
}

// LoadFile overlays the YAML document at path onto base. Keys missing from
// the file keep their base values.
func LoadFile(path string, base RuntimeConfig) (RuntimeConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return RuntimeConfig{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := base
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return RuntimeConfig{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func FromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("KEEL_DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := getEnvString("KEEL_API_KEY"); ok {
		cfg.APIKey = v
	}
	if v, ok := getEnvString("KEEL_MODEL"); ok {
		cfg.Model = v
	}
	if v, ok := getEnvString("KEEL_BASE_URL"); ok {
		cfg.BaseURL = v
	}
	if v, ok := getEnvInt("KEEL_MAX_TOKENS"); ok && v > 0 {
		cfg.MaxTokens = v
	}
	if v, ok := getEnvInt("KEEL_ENERGY_WINDOW_DAYS"); ok && v > 0 {
		cfg.EnergyWindowDays = v
	}
	if v, ok := getEnvInt("KEEL_AVAILABLE_MINUTES"); ok && v > 0 {
		cfg.AvailableMinutes = v
	}
	if v, ok := getEnvString("KEEL_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := getEnvBool("KEEL_LOG_JSON"); ok {
		cfg.LogJSON = v
	}
	if v, ok := getEnvString("KEEL_LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := getEnvInt("KEEL_ALERT_BUFFER"); ok && v > 0 {
		cfg.AlertBuffer = v
	}
	return cfg
}

func (c RuntimeConfig) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("%w: db_path is required", ErrInvalidConfig)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("%w: max_tokens must be positive", ErrInvalidConfig)
	}
	if c.EnergyWindowDays <= 0 {
		return fmt.Errorf("%w: energy_window_days must be positive", ErrInvalidConfig)
	}
	if c.AvailableMinutes <= 0 {
		return fmt.Errorf("%w: available_minutes must be positive", ErrInvalidConfig)
	}
	return nil
}

// LLMOptions maps the model settings onto client options.
func (c RuntimeConfig) LLMOptions() llm.Options {
	return llm.Options{BaseURL: c.BaseURL, Model: c.Model, MaxTokens: c.MaxTokens}
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	return raw, raw != ""
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
