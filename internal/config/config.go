package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Session    SessionConfig    `mapstructure:"session"`
	Redis      RedisConfig
	AI         AIConfig
	Translator TranslatorConfig `mapstructure:"translator"`
	Speech     SpeechConfig     `mapstructure:"speech"`
	Extractor  ExtractorConfig  `mapstructure:"extractor"`
	Storage    StorageConfig
	Quiz       QuizConfig      `mapstructure:"quiz"`
	Tracing    TracingConfig   `mapstructure:"tracing"`
	CORS       CORSConfig      `mapstructure:"cors"`
	RateLimit  RateLimitConfig `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type SessionConfig struct {
	Store  string        `mapstructure:"store"` // memory or redis
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl_minutes"`
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type AIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout_seconds"`
}

type TranslatorConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout_seconds"`
}

type SpeechConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout_seconds"`
	// Normalize transcodes recordings to 16kHz mono WAV before transcription
	Normalize bool `mapstructure:"normalize"`
}

type ExtractorConfig struct {
	Type    string        `mapstructure:"type"` // pdf or remote
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout_seconds"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
}

type QuizConfig struct {
	SourceLanguage string `mapstructure:"source_language"`
	MaxQuestions   int    `mapstructure:"max_questions"`
	DocumentBudget int    `mapstructure:"document_budget"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("QUIZGEN")
	viper.AutomaticEnv()

	// Server
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.mode", "SERVER_MODE")

	// Session
	viper.BindEnv("session.store", "SESSION_STORE")
	viper.BindEnv("session.secret", "SESSION_SECRET")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// AI
	viper.BindEnv("ai.base_url", "AI_BASE_URL")
	viper.BindEnv("ai.api_key", "AI_API_KEY")
	viper.BindEnv("ai.model", "AI_MODEL")

	// Translator
	viper.BindEnv("translator.base_url", "TRANSLATOR_BASE_URL")
	viper.BindEnv("translator.api_key", "TRANSLATOR_API_KEY")

	// Speech
	viper.BindEnv("speech.base_url", "SPEECH_BASE_URL")
	viper.BindEnv("speech.api_key", "SPEECH_API_KEY")
	viper.BindEnv("speech.model", "SPEECH_MODEL")

	// Extractor
	viper.BindEnv("extractor.type", "EXTRACTOR_TYPE")
	viper.BindEnv("extractor.base_url", "EXTRACTOR_BASE_URL")

	// Storage
	viper.BindEnv("storage.type", "STORAGE_TYPE")
	viper.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.Session.TTL = cfg.Session.TTL * time.Minute
	cfg.AI.Timeout = cfg.AI.Timeout * time.Second
	cfg.Translator.Timeout = cfg.Translator.Timeout * time.Second
	cfg.Speech.Timeout = cfg.Speech.Timeout * time.Second
	cfg.Extractor.Timeout = cfg.Extractor.Timeout * time.Second

	if cfg.Session.TTL <= 0 {
		cfg.Session.TTL = 2 * time.Hour
	}
	if cfg.Quiz.SourceLanguage == "" {
		cfg.Quiz.SourceLanguage = "en"
	}
	if cfg.Quiz.MaxQuestions <= 0 {
		cfg.Quiz.MaxQuestions = 10
	}
	if cfg.Quiz.DocumentBudget <= 0 {
		cfg.Quiz.DocumentBudget = 6000
	}

	if cfg.Server.Mode == "release" && len(cfg.Session.Secret) < 32 {
		return nil, fmt.Errorf("session secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.Session.Secret))
	}

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}

	return &cfg, nil
}
