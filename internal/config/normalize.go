package config

import (
	"os"
	"strings"
)

func (c *Config) normalize() {
	c.normalizeLLM()
	c.normalizeRetry()
	c.normalizeLogging()
}

func (c *Config) normalizeLLM() {
	c.LLM.APIKey = firstSet(c.LLM.APIKey, EnvAPIKey)
	c.LLM.Model = firstSet(c.LLM.Model, EnvModel)
	c.LLM.BaseURL = firstSet(c.LLM.BaseURL, EnvBaseURL)
	c.LLM.Referer = firstSet(c.LLM.Referer, EnvSiteURL)
	c.LLM.Title = firstSet(c.LLM.Title, EnvSiteName)

	if c.LLM.Model == "" {
		c.LLM.Model = defaultModel
	}
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultBaseURL
	}
	if c.LLM.Title == "" {
		c.LLM.Title = defaultTitle
	}
	if c.LLM.TimeoutSeconds == 0 {
		c.LLM.TimeoutSeconds = defaultTimeoutSeconds
	}
}

func (c *Config) normalizeRetry() {
	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = defaultMaxAttempts
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "":
		c.Logging.Format = defaultLogFormat
	case "text", "pretty":
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	switch c.Logging.Level {
	case "":
		c.Logging.Level = defaultLogLevel
	case "warning":
		c.Logging.Level = "warn"
	}
	if file := strings.TrimSpace(c.Logging.File); file != "" {
		if expanded, err := ExpandPath(file); err == nil {
			file = expanded
		}
		c.Logging.File = file
	}
}

// firstSet returns the trimmed config value, or the environment variable when
// the config value is blank.
func firstSet(value, envKey string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	if env, ok := os.LookupEnv(envKey); ok {
		return strings.TrimSpace(env)
	}
	return ""
}
