package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrMissingAPIKey     = errors.New("LLM API key is not configured")
	ErrPlaceholderAPIKey = errors.New("LLM API key is a placeholder value")
	ErrTimeoutTooShort   = errors.New("pipeline timeout is below one second, use a unit such as 90s")
)

// placeholderAPIKeys - значения из шаблонов .env, которые никогда не являются ключами
var placeholderAPIKeys = []string{
	"YOUR_GOOGLE_AI_API_KEY_HERE",
	"YOUR_API_KEY_HERE",
	"tu_clave_api_google_aqui_valida",
	"changeme",
}

// keylessProviders run locally and do not need a key.
var keylessProviders = map[string]bool{
	"ollama":    true,
	"localai":   true,
	"lm-studio": true,
}

type Config struct {
	LLM      LLMConfig      `yaml:"llm"`
	Web      WebConfig      `yaml:"web"`
	Database DatabaseConfig `yaml:"database"`
	Blob     BlobConfig     `yaml:"blob"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Log      LogConfig      `yaml:"log"`
}

type LLMConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
	BaseURL  string `yaml:"baseUrl"`
}

// ModelName is the provider-qualified model id Genkit resolves.
func (c LLMConfig) ModelName() string {
	prefix := c.Provider
	if prefix == "gemini" {
		prefix = "googleai"
	}
	return prefix + "/" + c.Model
}

type WebConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type BlobConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// Enabled is true once an endpoint and bucket are both set.
func (c BlobConfig) Enabled() bool {
	return c.Endpoint != "" && c.Bucket != ""
}

type PipelineConfig struct {
	CategoryTimeout time.Duration `yaml:"category_timeout"`
	PersistTimeout  time.Duration `yaml:"persist_timeout"`
	Locale          string        `yaml:"locale"`
	MaxRetries      int           `yaml:"max_retries"`
	PremiumUsers    []string      `yaml:"premium_users"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("LLM_PROVIDER", "gemini")
	v.SetDefault("LLM_MODEL", "gemini-2.5-flash")
	v.SetDefault("WEB_LISTEN_ADDR", ":8081")
	v.SetDefault("BLOB_BUCKET", "")
	v.SetDefault("BLOB_USE_SSL", false)
	v.SetDefault("PIPELINE_CATEGORY_TIMEOUT", 90*time.Second)
	v.SetDefault("PIPELINE_PERSIST_TIMEOUT", 10*time.Second)
	v.SetDefault("PIPELINE_LOCALE", "en")
	v.SetDefault("PIPELINE_MAX_RETRIES", 3)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
}

// Load reads .env files (if present) and the process environment into a Config.
// It does not validate; call Validate before building the AI capability.
func Load() (*Config, error) {
	return LoadWith(viper.GetViper())
}

// LoadWith is Load over a caller-supplied viper instance, so CLI flags bound
// to v take precedence over the environment.
func LoadWith(v *viper.Viper) (*Config, error) {
	for _, f := range []string{".env.local", ".env"} {
		// отсутствующий файл не ошибка
		_ = godotenv.Load(f)
	}

	setDefaults(v)
	v.AutomaticEnv()

	// API key falls back to the provider-specific variables used by the Gemini SDKs.
	apiKey := v.GetString("LLM_API_KEY")
	if apiKey == "" {
		apiKey = v.GetString("GOOGLE_API_KEY")
	}
	if apiKey == "" {
		apiKey = v.GetString("GEMINI_API_KEY")
	}

	cfg := &Config{
		LLM: LLMConfig{
			Provider: strings.ToLower(v.GetString("LLM_PROVIDER")),
			Model:    v.GetString("LLM_MODEL"),
			APIKey:   apiKey,
			BaseURL:  v.GetString("LLM_BASE_URL"),
		},
		Web: WebConfig{
			ListenAddr: v.GetString("WEB_LISTEN_ADDR"),
		},
		Database: DatabaseConfig{
			URL: v.GetString("DATABASE_URL"),
		},
		Blob: BlobConfig{
			Endpoint:  v.GetString("BLOB_ENDPOINT"),
			AccessKey: v.GetString("BLOB_ACCESS_KEY"),
			SecretKey: v.GetString("BLOB_SECRET_KEY"),
			Bucket:    v.GetString("BLOB_BUCKET"),
			UseSSL:    v.GetBool("BLOB_USE_SSL"),
		},
		Pipeline: PipelineConfig{
			CategoryTimeout: v.GetDuration("PIPELINE_CATEGORY_TIMEOUT"),
			PersistTimeout:  v.GetDuration("PIPELINE_PERSIST_TIMEOUT"),
			Locale:          v.GetString("PIPELINE_LOCALE"),
			MaxRetries:      v.GetInt("PIPELINE_MAX_RETRIES"),
			PremiumUsers:    splitList(v.GetString("PIPELINE_PREMIUM_USERS")),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}

	return cfg, nil
}

const minTimeout = time.Second

// Validate rejects configurations the pipeline cannot start with.
func (c *Config) Validate() error {
	if err := c.LLM.Validate(); err != nil {
		return err
	}
	// "90" без единицы viper читает как 90ns
	if c.Pipeline.CategoryTimeout < minTimeout {
		return fmt.Errorf("PIPELINE_CATEGORY_TIMEOUT=%v: %w", c.Pipeline.CategoryTimeout, ErrTimeoutTooShort)
	}
	if c.Pipeline.PersistTimeout < minTimeout {
		return fmt.Errorf("PIPELINE_PERSIST_TIMEOUT=%v: %w", c.Pipeline.PersistTimeout, ErrTimeoutTooShort)
	}
	if c.Pipeline.MaxRetries < 1 {
		return fmt.Errorf("pipeline max retries must be at least 1, got %d", c.Pipeline.MaxRetries)
	}
	return nil
}

// Validate checks the provider and, for hosted providers, the API key.
func (c LLMConfig) Validate() error {
	switch c.Provider {
	case "gemini", "openai", "ollama", "localai", "lm-studio":
	default:
		return fmt.Errorf("unsupported LLM provider: %q", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("LLM model is not configured")
	}
	if keylessProviders[c.Provider] {
		return nil
	}

	key := strings.TrimSpace(c.APIKey)
	if key == "" {
		return ErrMissingAPIKey
	}
	if IsPlaceholderAPIKey(key) {
		return ErrPlaceholderAPIKey
	}
	return nil
}

// IsPlaceholderAPIKey matches the template values shipped in example env files.
func IsPlaceholderAPIKey(key string) bool {
	for _, p := range placeholderAPIKeys {
		if strings.EqualFold(strings.TrimSpace(key), p) {
			return true
		}
	}
	return false
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
