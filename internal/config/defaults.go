package config

import "time"

const (
	defaultConfigPath     = "~/.config/coursegen/config.toml"
	projectConfigFile     = "coursegen.toml"
	defaultEnvFile        = ".env"
	defaultBaseURL        = "https://openrouter.ai/api/v1/chat/completions"
	defaultModel          = "openai/gpt-4o"
	defaultTitle          = "Course Generator"
	defaultTimeoutSeconds = 120
	defaultMaxAttempts    = 3
	defaultBaseDelayMS    = 1000
	defaultLogFormat      = "auto"
	defaultLogLevel       = "info"
)

// Environment variables consulted when the matching config value is empty.
const (
	EnvAPIKey   = "OPENROUTER_API_KEY"
	EnvModel    = "OPENROUTER_MODEL"
	EnvBaseURL  = "OPENROUTER_BASE_URL"
	EnvSiteURL  = "SITE_URL"
	EnvSiteName = "SITE_NAME"
)

// Default returns a Config populated with repository defaults. Model, base URL
// and title stay blank so normalize can consult the environment before falling
// back to defaultModel, defaultBaseURL and defaultTitle.
func Default() Config {
	return Config{
		LLM: LLM{
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Retry: Retry{
			MaxAttempts:     defaultMaxAttempts,
			BaseDelayMillis: defaultBaseDelayMS,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// BaseDelay returns the configured retry base delay.
func (r Retry) BaseDelay() time.Duration {
	return time.Duration(r.BaseDelayMillis) * time.Millisecond
}
