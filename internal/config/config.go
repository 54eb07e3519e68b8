package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type Profile string

const (
	// ProfileRich enables cache, history, sampling params and per-category prompts.
	ProfileRich  Profile = "rich"
	ProfileBasic Profile = "basic"
)

type Config struct {
	Profile  Profile `env:"ANALYST_PROFILE" envDefault:"rich"`
	HTTPAddr string  `env:"HTTP_ADDR" envDefault:":8080"`

	// LLM settings
	LLMProvider   LLMProvider `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey  string      `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string      `env:"OPENAI_BASE_URL" envDefault:"https://api.siliconflow.cn/v1"`
	OpenAIModel   string      `env:"OPENAI_MODEL" envDefault:"Qwen/Qwen2.5-72B-Instruct"`
	MaxTokens     int         `env:"MAX_TOKENS" envDefault:"1500"`

	YandexFolderID string `env:"YANDEX_FOLDER_ID"`

	// OpenRouter (optional)
	OpenRouterReferrer string `env:"OPENROUTER_REFERRER"`
	OpenRouterTitle    string `env:"OPENROUTER_TITLE"`

	// Telegram front-end (optional)
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`

	// Prompts
	PromptsFilePath string `env:"PROMPTS_FILE_PATH"`

	// Bookkeeping
	CacheTTL           time.Duration `env:"CACHE_TTL" envDefault:"1h"`
	MaxHistory         int           `env:"MAX_HISTORY" envDefault:"10"`
	SessionIdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"2h"`
	MaxUploadBytes     int64         `env:"MAX_UPLOAD_BYTES" envDefault:"5242880"`

	// Usage log (metadata only, never content). Events older than the
	// retention are pruned by the report job; zero keeps everything.
	UsageLogPath      string        `env:"USAGE_LOG_PATH"`
	UsageLogRetention time.Duration `env:"USAGE_LOG_RETENTION" envDefault:"720h"`

	// Schedules
	SweepSchedule  string `env:"SWEEP_SCHEDULE" envDefault:"@every 10m"`
	ReportSchedule string `env:"REPORT_SCHEDULE" envDefault:"0 21 * * *"`
}

func New() *Config {
	cfg, err := Parse()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}

// Parse reads the configuration from the environment without exiting on error.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.Profile != ProfileBasic {
		cfg.Profile = ProfileRich
	}
	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = 10
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1500
	}
	return cfg, nil
}
