package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	App           AppConfig    `yaml:"app"`
	Server        ServerConfig `yaml:"server"`
	SMTP          SMTPConfig   `yaml:"smtp"`
	Sender        SenderConfig `yaml:"sender"`
	Database      DBConfig     `yaml:"database"`
	Mail          MailConfig   `yaml:"mail"`
	Gmail         GmailConfig  `yaml:"gmail"`
	SES           SESConfig    `yaml:"ses"`
	PublicBaseURL string       `yaml:"public_base_url"`
}

// AppConfig identifies the running application
type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// GetHost returns the server host, with container detection
func (c ServerConfig) GetHost() string {
	// In a container, listen on all interfaces
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// SMTPConfig holds legacy SMTP relay settings. The active transports (Gmail
// API, SES) do not read these; they are recognized so existing deployment
// configs keep parsing.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// SenderConfig holds the outbound sender identity
type SenderConfig struct {
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

// FromHeader formats the RFC 5322 From header value.
func (c SenderConfig) FromHeader() string {
	if c.FromName == "" {
		return c.FromEmail
	}
	return fmt.Sprintf("%s <%s>", c.FromName, c.FromEmail)
}

// DBConfig holds the suppression store connection settings
type DBConfig struct {
	URL string `yaml:"url"`
}

// MailConfig selects and tunes the outbound mail transport
type MailConfig struct {
	Provider       string `yaml:"provider"` // "gmail" or "ses"
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the configured transport timeout as a duration
func (c MailConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// GmailConfig holds the local-file credential source for the Gmail API.
// Env-based sources (GOOGLE_TOKEN_JSON, GOOGLE_CLIENT_ID/SECRET/REFRESH_TOKEN)
// take priority over these files; see internal/gmail.
type GmailConfig struct {
	ClientSecretFile string `yaml:"client_secret_file"`
	TokenFile        string `yaml:"token_file"`
}

// SESConfig holds AWS SES API configuration
type SESConfig struct {
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.App.Name == "" {
		cfg.App.Name = "Email Microservice"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "dev"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "127.0.0.1"
	}
	if cfg.SMTP.Host == "" {
		cfg.SMTP.Host = "smtp.gmail.com"
	}
	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = 587
	}
	if cfg.Sender.FromEmail == "" {
		cfg.Sender.FromEmail = "no-reply@example.com"
	}
	if cfg.Sender.FromName == "" {
		cfg.Sender.FromName = "My App"
	}
	if cfg.Mail.Provider == "" {
		cfg.Mail.Provider = "gmail"
	}
	if cfg.Mail.TimeoutSeconds == 0 {
		cfg.Mail.TimeoutSeconds = 30
	}
	if cfg.Gmail.ClientSecretFile == "" {
		cfg.Gmail.ClientSecretFile = "secrets/client_secret.json"
	}
	if cfg.Gmail.TokenFile == "" {
		cfg.Gmail.TokenFile = "secrets/token.json"
	}
	if cfg.SES.Region == "" {
		cfg.SES.Region = "us-west-2"
	}
	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = "http://127.0.0.1:8000"
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so secrets can live in .env locally and in real env vars in production.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("APP_NAME"); v != "" {
		cfg.App.Name = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.App.Environment = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("FROM_EMAIL"); v != "" {
		cfg.Sender.FromEmail = v
	}
	if v := os.Getenv("FROM_NAME"); v != "" {
		cfg.Sender.FromName = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("PUBLIC_BASE_URL"); v != "" {
		cfg.PublicBaseURL = v
	}
	if v := os.Getenv("MAIL_PROVIDER"); v != "" {
		cfg.Mail.Provider = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_SECRET_FILE"); v != "" {
		cfg.Gmail.ClientSecretFile = v
	}
	if v := os.Getenv("GOOGLE_TOKEN_FILE"); v != "" {
		cfg.Gmail.TokenFile = v
	}
	if v := os.Getenv("AWS_SES_REGION"); v != "" {
		cfg.SES.Region = v
	}
	if v := os.Getenv("AWS_SES_ACCESS_KEY"); v != "" {
		cfg.SES.AccessKey = v
	}
	if v := os.Getenv("AWS_SES_SECRET_KEY"); v != "" {
		cfg.SES.SecretKey = v
	}

	return cfg, nil
}
