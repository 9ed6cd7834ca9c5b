package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"coursegen/internal/config"
)

func isolateEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{
		config.EnvAPIKey,
		config.EnvModel,
		config.EnvBaseURL,
		config.EnvSiteURL,
		config.EnvSiteName,
	} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
	t.Chdir(t.TempDir())
	return home
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	home := isolateEnv(t)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if want := filepath.Join(home, ".config", "coursegen", "config.toml"); resolved != want {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, want)
	}
	if cfg.AIEnabled() {
		t.Fatal("expected AI to be disabled without a key")
	}
	if cfg.LLM.Model != "openai/gpt-4o" || cfg.LLM.Title != "Course Generator" {
		t.Fatalf("unexpected model/title %q/%q", cfg.LLM.Model, cfg.LLM.Title)
	}
	if cfg.LLM.BaseURL != "https://openrouter.ai/api/v1/chat/completions" {
		t.Fatalf("unexpected base url %q", cfg.LLM.BaseURL)
	}
	if cfg.Retry.MaxAttempts != 3 || cfg.Retry.BaseDelay() != time.Second {
		t.Fatalf("unexpected retry policy %+v", cfg.Retry)
	}
	if cfg.Logging.Format != "auto" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging %+v", cfg.Logging)
	}
}

func TestLoadUsesEnvironmentFallbacks(t *testing.T) {
	isolateEnv(t)
	t.Setenv(config.EnvAPIKey, " env-key ")
	t.Setenv(config.EnvModel, "anthropic/claude-3.5-sonnet")
	t.Setenv(config.EnvSiteURL, "https://learn.example")
	t.Setenv(config.EnvSiteName, "Learn Example")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	llm := cfg.GetLLM()
	if llm.APIKey != "env-key" {
		t.Fatalf("expected trimmed env key, got %q", llm.APIKey)
	}
	if llm.Model != "anthropic/claude-3.5-sonnet" {
		t.Fatalf("expected env model, got %q", llm.Model)
	}
	if llm.Referer != "https://learn.example" || llm.Title != "Learn Example" {
		t.Fatalf("expected attribution from env, got %+v", llm)
	}
	if !cfg.AIEnabled() {
		t.Fatal("expected AI to be enabled")
	}
}

func TestLoadFileValuesWinOverEnvironment(t *testing.T) {
	home := isolateEnv(t)
	t.Setenv(config.EnvAPIKey, "env-key")
	path := writeConfig(t, `
[llm]
api_key = "file-key"
model = "openai/gpt-4o-mini"
timeout_seconds = 30

[retry]
max_attempts = 5
base_delay_ms = 250

[logging]
format = "JSON"
level = "warning"
file = "~/logs/coursegen.log"
`)

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected explicit path to be used, got %q exists=%v", resolved, exists)
	}
	if cfg.LLM.APIKey != "file-key" {
		t.Fatalf("expected file key, got %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.Model != "openai/gpt-4o-mini" || cfg.LLM.TimeoutSeconds != 30 {
		t.Fatalf("unexpected llm section %+v", cfg.LLM)
	}
	if cfg.Retry.MaxAttempts != 5 || cfg.Retry.BaseDelay() != 250*time.Millisecond {
		t.Fatalf("unexpected retry section %+v", cfg.Retry)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "warn" {
		t.Fatalf("expected normalized logging, got %+v", cfg.Logging)
	}
	if want := filepath.Join(home, "logs", "coursegen.log"); cfg.Logging.File != want {
		t.Fatalf("expected expanded log file %q, got %q", want, cfg.Logging.File)
	}
}

func TestLoadSampleDefersToEnvironment(t *testing.T) {
	isolateEnv(t)
	t.Setenv(config.EnvModel, "meta-llama/llama-3-70b")
	t.Setenv(config.EnvBaseURL, "http://127.0.0.1:9/v1/chat/completions")
	t.Setenv(config.EnvSiteName, "Study Hall")

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LLM.Model != "meta-llama/llama-3-70b" {
		t.Fatalf("expected env model, got %q", cfg.LLM.Model)
	}
	if cfg.LLM.BaseURL != "http://127.0.0.1:9/v1/chat/completions" {
		t.Fatalf("expected env base url, got %q", cfg.LLM.BaseURL)
	}
	if cfg.LLM.Title != "Study Hall" {
		t.Fatalf("expected env title, got %q", cfg.LLM.Title)
	}
}

func TestLoadReadsDotEnvWithoutOverriding(t *testing.T) {
	isolateEnv(t)
	t.Cleanup(func() { _ = os.Unsetenv(config.EnvAPIKey) })
	t.Setenv(config.EnvModel, "preset/model")

	dotenv := "OPENROUTER_API_KEY=dotenv-key\nOPENROUTER_MODEL=dotenv/model\n"
	if err := os.WriteFile(".env", []byte(dotenv), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LLM.APIKey != "dotenv-key" {
		t.Fatalf("expected key from .env, got %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.Model != "preset/model" {
		t.Fatalf("expected existing env to win over .env, got %q", cfg.LLM.Model)
	}
}

func TestLoadFindsProjectConfig(t *testing.T) {
	isolateEnv(t)
	if err := os.WriteFile("coursegen.toml", []byte("[llm]\napi_key = \"project-key\"\n"), 0o600); err != nil {
		t.Fatalf("write project config: %v", err)
	}

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || filepath.Base(resolved) != "coursegen.toml" {
		t.Fatalf("expected project config, got %q exists=%v", resolved, exists)
	}
	if cfg.LLM.APIKey != "project-key" {
		t.Fatalf("expected project key, got %q", cfg.LLM.APIKey)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"negative attempts": "[retry]\nmax_attempts = -1\n",
		"negative delay":    "[retry]\nbase_delay_ms = -5\n",
		"bad format":        "[logging]\nformat = \"xml\"\n",
		"bad level":         "[logging]\nlevel = \"trace\"\n",
		"bad scheme":        "[llm]\nbase_url = \"ftp://openrouter.ai\"\n",
		"unknown key":       "[llm]\ntemperature = 0.2\n",
		"malformed":         "[llm\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			isolateEnv(t)
			path := writeConfig(t, body)
			if _, _, _, err := config.Load(path); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
}

func TestCreateSampleLoads(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load of sample returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if cfg.AIEnabled() {
		t.Fatal("expected sample to leave the API key blank")
	}
	if cfg.LLM.Model != "openai/gpt-4o" {
		t.Fatalf("expected default model from sample, got %q", cfg.LLM.Model)
	}

	var raw map[string]any
	if err := toml.Unmarshal([]byte(config.SampleConfig()), &raw); err != nil {
		t.Fatalf("sample config is not valid TOML: %v", err)
	}
	for _, section := range []string{"llm", "retry", "logging"} {
		if _, ok := raw[section]; !ok {
			t.Fatalf("sample config missing [%s]", section)
		}
	}
}

func TestLoadEnvFileMissingIsIgnored(t *testing.T) {
	if err := config.LoadEnvFile(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("expected missing env file to be ignored, got %v", err)
	}
}

func TestExpandPathResolvesHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := config.ExpandPath("~/notes/coursegen.toml")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	if want := filepath.Join(home, "notes", "coursegen.toml"); got != want {
		t.Fatalf("ExpandPath = %q, want %q", got, want)
	}
	if got, _ := config.ExpandPath(""); got != "" {
		t.Fatalf("expected empty path to stay empty, got %q", got)
	}
}
