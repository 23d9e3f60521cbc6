package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LLMProvider     string `yaml:"llm_provider"`
	LLMModel        string `yaml:"llm_model"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	OpenAIAPIKey    string `yaml:"openai_api_key"`

	DBPath      string `yaml:"db_path"`
	LexiconPath string `yaml:"lexicon_path"`

	// Similarity and cleanup thresholds. The defaults are calibrated
	// values; change them only after a calibration pass.
	MinSimilarity          float64 `yaml:"min_similarity"`
	HighMatchThreshold     float64 `yaml:"high_match_threshold"`
	OCRConfidenceThreshold float64 `yaml:"ocr_confidence_threshold"`

	MaxMatches         int `yaml:"max_matches"`
	MaxFallbackMatches int `yaml:"max_fallback_matches"`

	HookWordCount      int `yaml:"hook_word_count"`
	FrameSampleSeconds int `yaml:"frame_sample_seconds"`
	SlideWindowSeconds int `yaml:"slide_window_seconds"`
	DebounceMillis     int `yaml:"debounce_millis"`

	// StaleSweepSchedule is a standard 5-field cron expression. Empty
	// disables the background re-analysis sweep.
	StaleSweepSchedule string `yaml:"stale_sweep_schedule"`
}

func LoadConfig() Config {
	var cfg Config

	// Load from config.yaml if it exists
	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values
	envOverride(&cfg.LLMProvider, "LLM_PROVIDER")
	envOverride(&cfg.LLMModel, "LLM_MODEL")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.OpenAIAPIKey, "OPENAI_API_KEY")
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverride(&cfg.LexiconPath, "LEXICON_PATH")
	envOverrideFloat(&cfg.MinSimilarity, "MIN_SIMILARITY")
	envOverrideFloat(&cfg.HighMatchThreshold, "HIGH_MATCH_THRESHOLD")
	envOverrideFloat(&cfg.OCRConfidenceThreshold, "OCR_CONFIDENCE_THRESHOLD")
	envOverrideInt(&cfg.MaxMatches, "MAX_MATCHES")
	envOverrideInt(&cfg.MaxFallbackMatches, "MAX_FALLBACK_MATCHES")
	envOverrideInt(&cfg.HookWordCount, "HOOK_WORD_COUNT")
	envOverrideInt(&cfg.FrameSampleSeconds, "FRAME_SAMPLE_SECONDS")
	envOverrideInt(&cfg.SlideWindowSeconds, "SLIDE_WINDOW_SECONDS")
	envOverrideInt(&cfg.DebounceMillis, "DEBOUNCE_MILLIS")
	envOverride(&cfg.StaleSweepSchedule, "STALE_SWEEP_SCHEDULE")

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	return cfg
}

// Validate rejects configurations the engine cannot run with. Split out
// of LoadConfig so tests can exercise the checks without a process exit.
func (c Config) Validate() error {
	switch c.LLMProvider {
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("anthropic_api_key is required when llm_provider=anthropic")
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("openai_api_key is required when llm_provider=openai")
		}
	default:
		return fmt.Errorf("llm_provider must be 'anthropic' or 'openai', got '%s'", c.LLMProvider)
	}

	if c.MinSimilarity < 0 || c.MinSimilarity > 1 {
		return fmt.Errorf("invalid min_similarity '%f': must be between 0 and 1", c.MinSimilarity)
	}
	if c.HighMatchThreshold < c.MinSimilarity || c.HighMatchThreshold > 1 {
		return fmt.Errorf("invalid high_match_threshold '%f': must be between min_similarity and 1", c.HighMatchThreshold)
	}
	if c.OCRConfidenceThreshold < 0 || c.OCRConfidenceThreshold > 1 {
		return fmt.Errorf("invalid ocr_confidence_threshold '%f': must be between 0 and 1", c.OCRConfidenceThreshold)
	}
	if c.FrameSampleSeconds < 1 {
		return fmt.Errorf("invalid frame_sample_seconds '%d': must be >= 1", c.FrameSampleSeconds)
	}
	if c.SlideWindowSeconds < 1 {
		return fmt.Errorf("invalid slide_window_seconds '%d': must be >= 1", c.SlideWindowSeconds)
	}
	if c.DebounceMillis < 100 {
		return fmt.Errorf("invalid debounce_millis '%d': must be >= 100", c.DebounceMillis)
	}
	if c.MaxMatches < 1 || c.MaxFallbackMatches < 1 {
		return fmt.Errorf("max_matches and max_fallback_matches must be >= 1")
	}
	return nil
}

// ApplyDefaults fills zero-valued fields with the engine defaults. Split
// out of LoadConfig so tests can build configs without env plumbing.
func (c *Config) ApplyDefaults() {
	if c.LLMProvider == "" {
		c.LLMProvider = "anthropic"
	}
	if c.DBPath == "" {
		c.DBPath = "./swipeengine.db"
	}
	if c.MinSimilarity == 0 {
		c.MinSimilarity = 0.3
	}
	if c.HighMatchThreshold == 0 {
		c.HighMatchThreshold = 0.8
	}
	if c.OCRConfidenceThreshold == 0 {
		c.OCRConfidenceThreshold = 0.7
	}
	if c.MaxMatches == 0 {
		c.MaxMatches = 6
	}
	if c.MaxFallbackMatches == 0 {
		c.MaxFallbackMatches = 4
	}
	if c.HookWordCount == 0 {
		c.HookWordCount = 12
	}
	if c.FrameSampleSeconds == 0 {
		c.FrameSampleSeconds = 2
	}
	if c.SlideWindowSeconds == 0 {
		c.SlideWindowSeconds = 5
	}
	if c.DebounceMillis == 0 {
		c.DebounceMillis = 1000
	}
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}

func envOverrideFloat(field *float64, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}
