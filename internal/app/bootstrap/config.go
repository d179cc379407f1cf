package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration for the MailAgent server.
// It merges file defaults and environment overrides to support both local and deployed runs.
type Config struct {
	AppName  string
	HTTPPort int
	GRPCPort int

	DatabaseURL string
	RedisURL    string

	ServerSecret string
	BcryptCost   int

	TokenTTL             time.Duration
	OTPTTL               time.Duration
	ResetTokenTTL        time.Duration
	FailedLoginWindow    time.Duration
	FailedLoginThreshold int
	ActivityRetention    time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string
	SMTPUserHost string

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	ClientURL string

	MaxDBConns      int32
	RetentionSweep  time.Duration
	ShutdownTimeout time.Duration
}

// configFile mirrors the YAML schema used by configs/default.yaml.
// It is intentionally separate from Config so runtime-only fields stay internal.
type configFile struct {
	Service struct {
		Name     string `yaml:"name"`
		HTTPPort int    `yaml:"http_port"`
		GRPCPort int    `yaml:"grpc_port"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL string `yaml:"postgres_url"`
		RedisURL    string `yaml:"redis_url"`
	} `yaml:"dependencies"`
	SMTP struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		From     string `yaml:"from"`
		FromName string `yaml:"from_name"`
		UserHost string `yaml:"user_host"`
	} `yaml:"smtp"`
	Gemini struct {
		Model   string `yaml:"model"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"gemini"`
	ClientURL string `yaml:"client_url"`
}

// LoadConfig resolves configuration in priority order: defaults -> file -> env.
// This order keeps local bootstrap simple while allowing environment-specific overrides.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		AppName:              "MailAgent",
		HTTPPort:             8080,
		GRPCPort:             9090,
		BcryptCost:           12,
		TokenTTL:             7 * 24 * time.Hour,
		OTPTTL:               10 * time.Minute,
		ResetTokenTTL:        time.Hour,
		FailedLoginWindow:    15 * time.Minute,
		FailedLoginThreshold: 5,
		ActivityRetention:    90 * 24 * time.Hour,
		SMTPPort:             587,
		SMTPUserHost:         "smtp.gmail.com",
		GeminiModel:          "gemini-1.5-flash",
		ClientURL:            "http://localhost:3000",
		MaxDBConns:           20,
		RetentionSweep:       10 * time.Minute,
		ShutdownTimeout:      10 * time.Second,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.Name != "" {
			cfg.AppName = f.Service.Name
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Service.GRPCPort > 0 {
			cfg.GRPCPort = f.Service.GRPCPort
		}
		if f.Dependencies.PostgresURL != "" {
			cfg.DatabaseURL = f.Dependencies.PostgresURL
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if f.SMTP.Host != "" {
			cfg.SMTPHost = f.SMTP.Host
		}
		if f.SMTP.Port > 0 {
			cfg.SMTPPort = f.SMTP.Port
		}
		if f.SMTP.From != "" {
			cfg.SMTPFrom = f.SMTP.From
		}
		if f.SMTP.FromName != "" {
			cfg.SMTPFromName = f.SMTP.FromName
		}
		if f.SMTP.UserHost != "" {
			cfg.SMTPUserHost = f.SMTP.UserHost
		}
		if f.Gemini.Model != "" {
			cfg.GeminiModel = f.Gemini.Model
		}
		if f.Gemini.BaseURL != "" {
			cfg.GeminiBaseURL = f.Gemini.BaseURL
		}
		if f.ClientURL != "" {
			cfg.ClientURL = f.ClientURL
		}
	}

	cfg.AppName = envOrDefault("APP_NAME", cfg.AppName)
	cfg.DatabaseURL = envOrDefault("DATABASE_URL", cfg.DatabaseURL)
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.ServerSecret = envOrDefault("SERVER_SECRET", cfg.ServerSecret)
	cfg.SMTPHost = envOrDefault("SMTP_HOST", cfg.SMTPHost)
	cfg.SMTPUsername = envOrDefault("SMTP_USERNAME", cfg.SMTPUsername)
	cfg.SMTPPassword = envOrDefault("SMTP_PASSWORD", cfg.SMTPPassword)
	cfg.SMTPFrom = envOrDefault("SMTP_FROM", cfg.SMTPFrom)
	cfg.SMTPFromName = envOrDefault("SMTP_FROM_NAME", cfg.SMTPFromName)
	cfg.SMTPUserHost = envOrDefault("SMTP_USER_HOST", cfg.SMTPUserHost)
	cfg.GeminiAPIKey = envOrDefault("GEMINI_API_KEY", cfg.GeminiAPIKey)
	cfg.GeminiModel = envOrDefault("GEMINI_MODEL", cfg.GeminiModel)
	cfg.GeminiBaseURL = envOrDefault("GEMINI_BASE_URL", cfg.GeminiBaseURL)
	cfg.ClientURL = envOrDefault("CLIENT_URL", cfg.ClientURL)

	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.SMTPPort = envInt("SMTP_PORT", cfg.SMTPPort)
	cfg.BcryptCost = envInt("BCRYPT_ROUNDS", cfg.BcryptCost)
	cfg.FailedLoginThreshold = envInt("FAILED_LOGIN_THRESHOLD", cfg.FailedLoginThreshold)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))

	cfg.TokenTTL = time.Duration(envInt("TOKEN_EXPIRY_HOURS", int(cfg.TokenTTL.Hours()))) * time.Hour
	cfg.OTPTTL = time.Duration(envInt("OTP_EXPIRY_MINUTES", int(cfg.OTPTTL.Minutes()))) * time.Minute
	cfg.ResetTokenTTL = time.Duration(envInt("RESET_TOKEN_EXPIRY_MINUTES", int(cfg.ResetTokenTTL.Minutes()))) * time.Minute
	cfg.FailedLoginWindow = time.Duration(envInt("FAILED_LOGIN_WINDOW_MINUTES", int(cfg.FailedLoginWindow.Minutes()))) * time.Minute
	cfg.ActivityRetention = time.Duration(envInt("ACTIVITY_RETENTION_DAYS", int(cfg.ActivityRetention.Hours()/24))) * 24 * time.Hour
	cfg.RetentionSweep = time.Duration(envInt("RETENTION_SWEEP_MINUTES", int(cfg.RetentionSweep.Minutes()))) * time.Minute

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("missing DATABASE_URL")
	}
	if cfg.ServerSecret == "" {
		return Config{}, fmt.Errorf("missing SERVER_SECRET")
	}
	if cfg.GeminiAPIKey == "" {
		return Config{}, fmt.Errorf("missing GEMINI_API_KEY")
	}

	return cfg, nil
}

// envOrDefault returns an env var when present, otherwise the provided fallback.
func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// envInt parses integer env vars with safe fallback on empty/invalid values.
func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
