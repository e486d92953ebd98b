package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Store: StoreConfig{Backend: BackendSQLite, SQLitePath: "poems.db", LeaderboardLimit: 10},
		Semantic: SemanticConfig{
			Provider:    ProviderOpenAI,
			Dimensions:  512,
			WorkerCount: 1,
			OpenAI:      OpenAIConfig{APIKey: "sk-test"},
		},
		Syntax: SyntaxConfig{Parser: ParserProse},
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"APP_ENV", "APP_LOG_LEVEL", "STORE_BACKEND", "SEMANTIC_PROVIDER",
		"SEMANTIC_MODEL_NAME", "SEMANTIC_DIMENSIONS", "SYNTAX_PARSER", "FIREBASE_URL",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.App.Env != Development || cfg.App.LogLevel != "debug" {
		t.Errorf("app = %+v", cfg.App)
	}
	if cfg.Store.Backend != BackendSQLite || !strings.HasSuffix(cfg.Store.SQLitePath, "poems.db") {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Semantic.Provider != ProviderOpenAI || cfg.Semantic.Model != "text-embedding-3-small" || cfg.Semantic.Dimensions != 512 {
		t.Errorf("semantic = %+v", cfg.Semantic)
	}
	if cfg.Semantic.WorkerCount < 1 || cfg.Semantic.WorkerCount > 4 {
		t.Errorf("worker count = %d", cfg.Semantic.WorkerCount)
	}
	if cfg.Syntax.Parser != ParserProse {
		t.Errorf("parser = %q", cfg.Syntax.Parser)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "Production")
	t.Setenv("APP_LOG_LEVEL", "")
	t.Setenv("SEMANTIC_PROVIDER", "PYTHON")
	t.Setenv("SEMANTIC_MODEL_NAME", "")
	t.Setenv("SEMANTIC_DIMENSIONS", "384")
	t.Setenv("FIREBASE_URL", "https://example.firebaseio.com/")
	t.Setenv("STORE_LEADERBOARD_LIMIT", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.App.Env != Production || cfg.App.LogLevel != "info" {
		t.Errorf("app = %+v", cfg.App)
	}
	if cfg.Semantic.Provider != ProviderPython || cfg.Semantic.Model != "all-MiniLM-L6-v2" || cfg.Semantic.Dimensions != 384 {
		t.Errorf("semantic = %+v", cfg.Semantic)
	}
	if cfg.Firebase.URL != "https://example.firebaseio.com" {
		t.Errorf("firebase url = %q", cfg.Firebase.URL)
	}
	if cfg.Store.LeaderboardLimit != 10 {
		t.Errorf("leaderboard limit = %d, want fallback 10", cfg.Store.LeaderboardLimit)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"valid", func(c *Config) {}, ""},
		{"firebase without url", func(c *Config) { c.Store.Backend = BackendFirebase }, "FIREBASE_URL"},
		{"unknown backend", func(c *Config) { c.Store.Backend = "tape" }, "STORE_BACKEND"},
		{"openai without key", func(c *Config) { c.Semantic.OpenAI.APIKey = "" }, "OPENAI_API_KEY"},
		{"python without workers", func(c *Config) {
			c.Semantic.Provider = ProviderPython
			c.Semantic.WorkerCount = 0
		}, "SEMANTIC_WORKER_COUNT"},
		{"unknown provider", func(c *Config) { c.Semantic.Provider = "tfidf" }, "SEMANTIC_PROVIDER"},
		{"unknown parser", func(c *Config) { c.Syntax.Parser = "spacy" }, "SYNTAX_PARSER"},
		{"zero dimensions", func(c *Config) { c.Semantic.Dimensions = 0 }, "SEMANTIC_DIMENSIONS"},
		{"zero limit", func(c *Config) { c.Store.LeaderboardLimit = 0 }, "STORE_LEADERBOARD_LIMIT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.want == "" {
				if err != nil {
					t.Errorf("Validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate = %v, want error mentioning %s", err, tt.want)
			}
		})
	}
}
