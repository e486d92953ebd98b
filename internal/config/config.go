package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

const (
	BackendSQLite   = "sqlite"
	BackendFirebase = "firebase"

	ProviderOpenAI = "openai"
	ProviderPython = "python"

	ParserProse  = "prose"
	ParserKagome = "kagome"
	ParserNone   = "none"
)

type AppConfig struct {
	Env                Environment
	LogLevel           string
	ServerPort         string
	RawBodyLog         bool
	HttpTimeoutSeconds int
	MaxPoemWords       int
}

type StoreConfig struct {
	Backend          string
	SQLitePath       string
	LeaderboardLimit int
}

type FirebaseConfig struct {
	URL       string
	AuthToken string
}

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
}

type PythonConfig struct {
	ConfigDir              string
	ProcessShutdownTimeout int
}

type SemanticConfig struct {
	Provider    string
	Model       string
	Dimensions  int
	TimeoutMs   int
	CacheSize   int
	WorkerCount int
	OpenAI      OpenAIConfig
	Python      PythonConfig
}

type SyntaxConfig struct {
	Parser string
}

type Config struct {
	App      AppConfig
	Store    StoreConfig
	Firebase FirebaseConfig
	Semantic SemanticConfig
	Syntax   SyntaxConfig
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	appEnv := getEnv("APP_ENV", "development")
	env := parseEnvironment(appEnv)

	logLevel := getLogLevel(env)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	configDir := filepath.Join(homeDir, ".config", "versa")

	provider := strings.ToLower(getEnv("SEMANTIC_PROVIDER", ProviderOpenAI))

	return &Config{
		App: AppConfig{
			Env:                env,
			LogLevel:           logLevel,
			ServerPort:         getEnv("APP_SERVER_PORT", "8080"),
			RawBodyLog:         getEnvBool("APP_RAW_BODY_LOG", false),
			HttpTimeoutSeconds: getEnvInt("APP_HTTP_TIMEOUT_SECONDS", 30),
			MaxPoemWords:       getEnvInt("APP_MAX_POEM_WORDS", 2000),
		},
		Store: StoreConfig{
			Backend:          strings.ToLower(getEnv("STORE_BACKEND", BackendSQLite)),
			SQLitePath:       getEnv("STORE_SQLITE_PATH", filepath.Join(configDir, "poems.db")),
			LeaderboardLimit: getEnvInt("STORE_LEADERBOARD_LIMIT", 10),
		},
		Firebase: FirebaseConfig{
			URL:       strings.TrimSuffix(getEnv("FIREBASE_URL", ""), "/"),
			AuthToken: getEnv("FIREBASE_AUTH_TOKEN", ""),
		},
		Semantic: SemanticConfig{
			Provider:    provider,
			Model:       getEnv("SEMANTIC_MODEL_NAME", defaultModel(provider)),
			Dimensions:  getEnvInt("SEMANTIC_DIMENSIONS", 512),
			TimeoutMs:   getEnvInt("SEMANTIC_TIMEOUT_MS", 10000),
			CacheSize:   getEnvInt("SEMANTIC_CACHE_SIZE", 1024),
			WorkerCount: getEnvInt("SEMANTIC_WORKER_COUNT", calculateDefaultWorkerCount()),
			OpenAI: OpenAIConfig{
				APIKey:  getEnv("OPENAI_API_KEY", ""),
				BaseURL: getEnv("OPENAI_BASE_URL", ""),
			},
			Python: PythonConfig{
				ConfigDir:              getEnv("SEMANTIC_PYTHON_CONFIG_DIR", configDir),
				ProcessShutdownTimeout: getEnvInt("SEMANTIC_PYTHON_PROCESS_SHUTDOWN_TIMEOUT", 5),
			},
		},
		Syntax: SyntaxConfig{
			Parser: strings.ToLower(getEnv("SYNTAX_PARSER", ParserProse)),
		},
	}, nil
}

func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("STORE_SQLITE_PATH is required for the sqlite backend")
		}
	case BackendFirebase:
		if c.Firebase.URL == "" {
			return fmt.Errorf("FIREBASE_URL is required for the firebase backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}

	switch c.Semantic.Provider {
	case ProviderOpenAI:
		if c.Semantic.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
	case ProviderPython:
		if c.Semantic.WorkerCount < 1 {
			return fmt.Errorf("SEMANTIC_WORKER_COUNT must be >= 1")
		}
	default:
		return fmt.Errorf("unknown SEMANTIC_PROVIDER %q", c.Semantic.Provider)
	}

	switch c.Syntax.Parser {
	case ParserProse, ParserKagome, ParserNone:
	default:
		return fmt.Errorf("unknown SYNTAX_PARSER %q", c.Syntax.Parser)
	}

	if c.Semantic.Dimensions <= 0 {
		return fmt.Errorf("SEMANTIC_DIMENSIONS must be > 0")
	}
	if c.Store.LeaderboardLimit <= 0 {
		return fmt.Errorf("STORE_LEADERBOARD_LIMIT must be > 0")
	}
	return nil
}

func parseEnvironment(envStr string) Environment {
	env := Environment(strings.ToLower(envStr))

	switch env {
	case Development, Production:
		return env
	default:
		return Development
	}
}

func defaultModel(provider string) string {
	if provider == ProviderPython {
		return "all-MiniLM-L6-v2"
	}
	return "text-embedding-3-small"
}

func calculateDefaultWorkerCount() int {
	cpuCores := runtime.NumCPU()

	// all-MiniLM-L6-v2 needs ~90MB per worker, multilingual models 120-420MB
	modelMemoryMB := 200

	var availableMemoryMB int64 = 4096

	if memInfo, err := os.ReadFile("/proc/meminfo"); err == nil {
		for _, line := range strings.Split(string(memInfo), "\n") {
			if !strings.HasPrefix(line, "MemTotal:") {
				continue
			}
			fields := strings.Fields(line)
			if len(fields) >= 2 {
				if kb, err := strconv.ParseInt(fields[1], 10, 64); err == nil {
					availableMemoryMB = kb / 1024
				}
			}
			break
		}
	}

	// leave 2GB for the system and the Go process
	usableMemoryMB := int(availableMemoryMB) - 2048
	if usableMemoryMB < 0 {
		usableMemoryMB = 2048
	}

	workersByMemory := max(usableMemoryMB/modelMemoryMB, 1)
	return min(max(min(workersByMemory, cpuCores), 1), 4)
}

func getLogLevel(env Environment) string {
	if env == Production {
		return getEnv("APP_LOG_LEVEL", "info")
	}

	return getEnv("APP_LOG_LEVEL", "debug")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value == "true" {
		return true
	}
	return defaultValue
}
