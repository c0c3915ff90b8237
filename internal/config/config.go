package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port string

	MaxActionsPerTurn int
	MaxLLMAttempts    int

	ProviderVerifyTimeout time.Duration
	ProviderActionTimeout time.Duration

	// ProviderCredentials maps a provider id to its env-var fallback
	// credential, per spec.md §6.
	ProviderCredentials map[string]string
}

// Load reads configuration from environment variables with sensible
// defaults.
func Load() *Config {
	return &Config{
		Port:                  envOrDefault("PORT", "8009"),
		MaxActionsPerTurn:     envIntOrDefault("MAX_ACTIONS_PER_TURN", 8),
		MaxLLMAttempts:        envIntOrDefault("MAX_LLM_ATTEMPTS", 3),
		ProviderVerifyTimeout: envDurationOrDefault("PROVIDER_VERIFY_TIMEOUT", 6*time.Second),
		ProviderActionTimeout: envDurationOrDefault("PROVIDER_ACTION_TIMEOUT", 30*time.Second),
		ProviderCredentials: map[string]string{
			"openai":    os.Getenv("OPENAI_API_KEY"),
			"anthropic": os.Getenv("ANTHROPIC_API_KEY"),
			"gemini":    os.Getenv("GEMINI_API_KEY"),
		},
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDurationOrDefault(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
