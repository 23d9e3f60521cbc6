package config

import "testing"

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.LLMProvider != "anthropic" {
		t.Fatalf("expected default provider anthropic, got %s", cfg.LLMProvider)
	}
	if cfg.DBPath != "./swipeengine.db" {
		t.Fatalf("expected default db path, got %s", cfg.DBPath)
	}
	if cfg.MinSimilarity != 0.3 {
		t.Fatalf("expected min_similarity 0.3, got %f", cfg.MinSimilarity)
	}
	if cfg.HighMatchThreshold != 0.8 {
		t.Fatalf("expected high_match_threshold 0.8, got %f", cfg.HighMatchThreshold)
	}
	if cfg.OCRConfidenceThreshold != 0.7 {
		t.Fatalf("expected ocr_confidence_threshold 0.7, got %f", cfg.OCRConfidenceThreshold)
	}
	if cfg.MaxMatches != 6 || cfg.MaxFallbackMatches != 4 {
		t.Fatalf("expected match caps 6/4, got %d/%d", cfg.MaxMatches, cfg.MaxFallbackMatches)
	}
	if cfg.HookWordCount != 12 {
		t.Fatalf("expected hook_word_count 12, got %d", cfg.HookWordCount)
	}
	if cfg.FrameSampleSeconds != 2 || cfg.SlideWindowSeconds != 5 {
		t.Fatalf("expected sampling 2s/5s, got %d/%d", cfg.FrameSampleSeconds, cfg.SlideWindowSeconds)
	}
	if cfg.DebounceMillis != 1000 {
		t.Fatalf("expected debounce 1000ms, got %d", cfg.DebounceMillis)
	}
	if cfg.StaleSweepSchedule != "" {
		t.Fatalf("sweep must default to disabled, got %q", cfg.StaleSweepSchedule)
	}
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := Config{
		LLMProvider:        "openai",
		DBPath:             "/tmp/engine.db",
		MinSimilarity:      0.5,
		HighMatchThreshold: 0.9,
		MaxMatches:         10,
		DebounceMillis:     250,
	}
	cfg.ApplyDefaults()

	if cfg.LLMProvider != "openai" {
		t.Fatalf("explicit provider overwritten: %s", cfg.LLMProvider)
	}
	if cfg.DBPath != "/tmp/engine.db" {
		t.Fatalf("explicit db path overwritten: %s", cfg.DBPath)
	}
	if cfg.MinSimilarity != 0.5 || cfg.HighMatchThreshold != 0.9 {
		t.Fatalf("explicit thresholds overwritten: %f/%f", cfg.MinSimilarity, cfg.HighMatchThreshold)
	}
	if cfg.MaxMatches != 10 || cfg.DebounceMillis != 250 {
		t.Fatalf("explicit caps overwritten: %d/%d", cfg.MaxMatches, cfg.DebounceMillis)
	}
	// Untouched fields still get defaults.
	if cfg.MaxFallbackMatches != 4 || cfg.HookWordCount != 12 {
		t.Fatalf("defaults missing for untouched fields: %d/%d", cfg.MaxFallbackMatches, cfg.HookWordCount)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		var cfg Config
		cfg.ApplyDefaults()
		cfg.AnthropicAPIKey = "sk-test"
		return cfg
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("default config with api key must validate: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown provider", func(c *Config) { c.LLMProvider = "llama" }},
		{"missing anthropic key", func(c *Config) { c.AnthropicAPIKey = "" }},
		{"missing openai key", func(c *Config) { c.LLMProvider = "openai"; c.OpenAIAPIKey = "" }},
		{"min similarity above 1", func(c *Config) { c.MinSimilarity = 1.5 }},
		{"high threshold below min", func(c *Config) { c.HighMatchThreshold = 0.2 }},
		{"ocr threshold negative", func(c *Config) { c.OCRConfidenceThreshold = -0.1 }},
		{"frame sample zero", func(c *Config) { c.FrameSampleSeconds = 0 }},
		{"frame sample negative", func(c *Config) { c.FrameSampleSeconds = -1 }},
		{"slide window zero", func(c *Config) { c.SlideWindowSeconds = 0 }},
		{"slide window negative", func(c *Config) { c.SlideWindowSeconds = -5 }},
		{"debounce too low", func(c *Config) { c.DebounceMillis = 50 }},
		{"fallback cap zero", func(c *Config) { c.MaxFallbackMatches = 0 }},
	}
	for _, tc := range cases {
		cfg := valid()
		tc.mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

func TestEnvOverrideHelpers(t *testing.T) {
	t.Setenv("TEST_STR", "value")
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_FLOAT", "0.55")

	s, i, f := "old", 1, 0.1
	envOverride(&s, "TEST_STR")
	envOverrideInt(&i, "TEST_INT")
	envOverrideFloat(&f, "TEST_FLOAT")
	if s != "value" || i != 42 || f != 0.55 {
		t.Fatalf("env overrides not applied: %s/%d/%f", s, i, f)
	}

	envOverride(&s, "TEST_UNSET")
	envOverrideInt(&i, "TEST_UNSET")
	envOverrideFloat(&f, "TEST_UNSET")
	if s != "value" || i != 42 || f != 0.55 {
		t.Fatalf("unset env vars must not clear values: %s/%d/%f", s, i, f)
	}
}
