package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	cfg := Config{HTTP: HTTPConfig{Port: 3000}}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_InvalidBudgetAction(t *testing.T) {
	cfg := validConfig()
	cfg.Budget = BudgetConfig{DailyTokenLimit: 1000000, Action: "invalid_action"}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid budget action")
	}

	expected := `budget.action must be "warn" or "reject", got "invalid_action"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_ValidBudgetActions(t *testing.T) {
	for _, action := range []string{"", "warn", "reject"} {
		t.Run("action="+action, func(t *testing.T) {
			cfg := validConfig()
			cfg.Budget.Action = action

			if err := cfg.Validate(); err != nil {
				t.Fatalf("unexpected error for valid action %q: %v", action, err)
			}
		})
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port zero", func(c *Config) { c.HTTP.Port = 0 }},
		{"port too large", func(c *Config) { c.HTTP.Port = 70000 }},
		{"unknown driver", func(c *Config) { c.Cache.Driver = "memcached" }},
		{"redis without addrs", func(c *Config) { c.Cache.Driver = "redis" }},
		{"negative ttl", func(c *Config) { c.Cache.TTLSec = -1 }},
		{"negative limit", func(c *Config) { c.Budget.DailyTokenLimit = -5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.HTTP.Port != 3000 {
		t.Errorf("HTTP.Port = %d, want 3000", cfg.HTTP.Port)
	}
	if cfg.LLM.BaseURL != DefaultLLMBaseURL || cfg.LLM.Model != DefaultLLMModel {
		t.Errorf("LLM defaults = %q %q", cfg.LLM.BaseURL, cfg.LLM.Model)
	}
	if cfg.Embedding.BaseURL != DefaultEmbeddingBaseURL || cfg.Embedding.Model != DefaultEmbeddingModel {
		t.Errorf("Embedding defaults = %q %q", cfg.Embedding.BaseURL, cfg.Embedding.Model)
	}
	if cfg.LLM.TimeoutSec != 15 || cfg.Embedding.TimeoutSec != 10 {
		t.Errorf("timeouts = %d %d", cfg.LLM.TimeoutSec, cfg.Embedding.TimeoutSec)
	}
	if cfg.Cache.Driver != "memory" {
		t.Errorf("Cache.Driver = %q", cfg.Cache.Driver)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestBudgetConfig_Enabled(t *testing.T) {
	if (BudgetConfig{}).Enabled() {
		t.Error("zero limits should be disabled")
	}
	if !(BudgetConfig{MonthlyTokenLimit: 1}).Enabled() {
		t.Error("monthly limit should enable the budget")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("HERVOICE_TEST_SET", "value")

	tests := []struct {
		input string
		want  string
	}{
		{"key: ${HERVOICE_TEST_SET}", "key: value"},
		{"key: ${HERVOICE_TEST_UNSET}", "key: "},
		{"key: ${HERVOICE_TEST_UNSET:-fallback}", "key: fallback"},
		{"key: ${HERVOICE_TEST_SET:-fallback}", "key: value"},
		{"key: ${HERVOICE_TEST_UNSET:-}", "key: "},
		{"plain: text", "plain: text"},
	}

	for _, tt := range tests {
		if got := string(expandEnvVars([]byte(tt.input))); got != tt.want {
			t.Errorf("expandEnvVars(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv("HERVOICE_TEST_KEY", "sk-test")
	path := filepath.Join(t.TempDir(), "test.yaml")
	data := []byte(`
http:
  port: 8081
embedding:
  api_key: ${HERVOICE_TEST_KEY}
cache:
  driver: redis
  addrs: ["localhost:6379"]
budget:
  daily_token_limit: 1000
  action: reject
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.HTTP.Port != 8081 {
		t.Errorf("port = %d", cfg.HTTP.Port)
	}
	if cfg.Embedding.APIKey != "sk-test" {
		t.Errorf("api key not expanded: %q", cfg.Embedding.APIKey)
	}
	if cfg.Embedding.Model != DefaultEmbeddingModel {
		t.Errorf("model default not applied: %q", cfg.Embedding.Model)
	}
	if cfg.Budget.DailyTokenLimit != 1000 || cfg.Budget.Action != "reject" {
		t.Errorf("budget = %+v", cfg.Budget)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("cache:\n  driver: etcd\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(bad); err == nil {
		t.Error("expected validation error")
	}
}

func TestLoad_LocalConfig(t *testing.T) {
	cfg, err := Load("local")
	if err != nil {
		t.Fatalf("Load(local): %v", err)
	}
	if cfg.Cache.Driver != "memory" {
		t.Errorf("local cache driver = %q", cfg.Cache.Driver)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if got := GetEnv(); got != "local" {
		t.Errorf("GetEnv() = %q, want local", got)
	}
	t.Setenv("ENV", "prod")
	if got := GetEnv(); got != "prod" {
		t.Errorf("GetEnv() = %q, want prod", got)
	}
}
