package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server      ServerConfig
	Zendesk     ZendeskConfig
	AzureOpenAI AzureOpenAIConfig
	HuggingFace HuggingFaceConfig
	Twilio      TwilioConfig
	Audit       AuditConfig
	Scheduler   SchedulerConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// ZendeskConfig contains credentials for the Zendesk REST API.
type ZendeskConfig struct {
	Domain   string
	Email    string
	APIToken string
}

// AzureOpenAIConfig contains the Azure OpenAI deployment coordinates.
type AzureOpenAIConfig struct {
	Endpoint   string
	APIKey     string
	Deployment string
	Model      string
	APIVersion string
}

// HuggingFaceConfig contains credentials for the HuggingFace inference API.
type HuggingFaceConfig struct {
	APIKey string
}

// TwilioConfig contains credentials and options for Twilio WhatsApp messaging.
type TwilioConfig struct {
	AccountSID         string
	AuthToken          string
	WhatsAppNumber     string
	WebhookSecret      string
	ContentTemplateSID string
	// AllowUnsigned lets webhook requests through when no webhook secret is
	// configured. Off by default; operators must opt in explicitly.
	AllowUnsigned bool
}

// AuditConfig controls the append-only request journal.
type AuditConfig struct {
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// SchedulerConfig holds the cron expression for the audit rollup job.
type SchedulerConfig struct {
	RollupCron string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance. Missing vendor credentials are not an error
// here: each client constructor validates its own section so that a missing
// integration disables that pathway instead of failing startup.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Zendesk: ZendeskConfig{
			Domain:   os.Getenv("ZENDESK_DOMAIN"),
			Email:    os.Getenv("ZENDESK_EMAIL"),
			APIToken: os.Getenv("ZENDESK_API_KEY"),
		},
		AzureOpenAI: AzureOpenAIConfig{
			Endpoint:   getenvWithDefault("AZURE_OPENAI_ENDPOINT", "https://zendesk-resource.cognitiveservices.azure.com/"),
			APIKey:     os.Getenv("AZURE_OPENAI_API_KEY"),
			Deployment: getenvWithDefault("AZURE_OPENAI_DEPLOYMENT", "model-router"),
			Model:      getenvWithDefault("AZURE_OPENAI_MODEL", "model-router"),
			APIVersion: getenvWithDefault("AZURE_OPENAI_API_VERSION", "2024-12-01-preview"),
		},
		HuggingFace: HuggingFaceConfig{
			APIKey: os.Getenv("HUGGINGFACE_API_KEY"),
		},
		Twilio: TwilioConfig{
			AccountSID:         os.Getenv("TWILIO_ACCOUNT_SID"),
			AuthToken:          os.Getenv("TWILIO_AUTH_TOKEN"),
			WhatsAppNumber:     os.Getenv("TWILIO_WHATSAPP_NUMBER"),
			WebhookSecret:      os.Getenv("TWILIO_WEBHOOK_SECRET"),
			ContentTemplateSID: os.Getenv("TWILIO_CONTENT_SID"),
			AllowUnsigned:      getenvBool("TWILIO_ALLOW_UNSIGNED"),
		},
		Audit: AuditConfig{
			FilePath:   getenvWithDefault("AUDIT_LOG_PATH", "logs/webhook_requests.log"),
			MaxSizeMB:  50,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
		Scheduler: SchedulerConfig{
			RollupCron: getenvWithDefault("AUDIT_ROLLUP_CRON", "0 0 * * *"),
		},
	}

	if cfg.Server.Port == "" {
		return nil, errors.New("APP_PORT must be provided")
	}

	return cfg, nil
}

// Validate ensures Zendesk credentials are complete before any API call.
func (c ZendeskConfig) Validate() error {
	switch {
	case c.Domain == "":
		return errors.New("ZENDESK_DOMAIN must be provided")
	case c.Email == "":
		return errors.New("ZENDESK_EMAIL must be provided")
	case c.APIToken == "":
		return errors.New("ZENDESK_API_KEY must be provided")
	}
	return nil
}

// Validate ensures the Azure OpenAI deployment is usable.
func (c AzureOpenAIConfig) Validate() error {
	switch {
	case c.APIKey == "":
		return errors.New("AZURE_OPENAI_API_KEY must be provided")
	case c.Endpoint == "":
		return errors.New("AZURE_OPENAI_ENDPOINT must not be empty")
	case c.Deployment == "":
		return errors.New("AZURE_OPENAI_DEPLOYMENT must not be empty")
	}
	return nil
}

// Validate ensures the HuggingFace key is present.
func (c HuggingFaceConfig) Validate() error {
	if c.APIKey == "" {
		return errors.New("HUGGINGFACE_API_KEY must be provided")
	}
	return nil
}

// Validate ensures Twilio credentials are complete before any API call.
func (c TwilioConfig) Validate() error {
	switch {
	case c.AccountSID == "":
		return errors.New("TWILIO_ACCOUNT_SID must be provided")
	case c.AuthToken == "":
		return errors.New("TWILIO_AUTH_TOKEN must be provided")
	case c.WhatsAppNumber == "":
		return errors.New("TWILIO_WHATSAPP_NUMBER must be provided")
	}
	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvBool(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes":
		return true
	}
	return false
}
