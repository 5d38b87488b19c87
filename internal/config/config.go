package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

const (
	SourceFile     = "file"
	SourcePostgres = "postgres"

	NotifierTwilio    = "twilio"
	NotifierCloud     = "cloud"
	NotifierWhatsmeow = "whatsmeow"
)

type Config struct {
	HTTPAddr  string `mapstructure:"HTTP_ADDR"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	DirectorySource     string `mapstructure:"DIRECTORY_SOURCE"`
	DataDir             string `mapstructure:"DATA_DIR"`
	DirectoryReloadCron string `mapstructure:"DIRECTORY_RELOAD_CRON"`
	PostgresDSN         string `mapstructure:"POSTGRES_DSN"`

	GeminiAPIKey  string        `mapstructure:"GEMINI_API_KEY"`
	GeminiModel   string        `mapstructure:"GEMINI_MODEL"`
	GeminiTimeout time.Duration `mapstructure:"GEMINI_TIMEOUT"`

	Notifier            string `mapstructure:"NOTIFIER"`
	TwilioAccountSID    string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken     string `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioPhoneNumber   string `mapstructure:"TWILIO_PHONE_NUMBER"`
	TwilioBaseURL       string `mapstructure:"TWILIO_BASE_URL"`
	CloudToken          string `mapstructure:"WHATSAPP_CLOUD_TOKEN"`
	CloudPhoneNumberID  string `mapstructure:"WHATSAPP_CLOUD_PHONE_NUMBER_ID"`
	WhatsmeowStore      string `mapstructure:"WHATSMEOW_STORE"`
	TelegramBotToken    string `mapstructure:"TELEGRAM_BOT_TOKEN"`
	TelegramAlertChatID int64  `mapstructure:"TELEGRAM_ALERT_CHAT_ID"`
	AMQPURL             string `mapstructure:"AMQP_URL"`
	AMQPExchange        string `mapstructure:"AMQP_EXCHANGE"`

	JWTSecret         string        `mapstructure:"JWT_SECRET"`
	AdminUsername     string        `mapstructure:"ADMIN_USERNAME"`
	AdminPasswordHash string        `mapstructure:"ADMIN_PASSWORD_HASH"`
	BroadcastInterval time.Duration `mapstructure:"BROADCAST_INTERVAL"`
}

// defaults doubles as the list of known keys: viper only unmarshals
// environment variables for keys it has seen.
var defaults = map[string]any{
	"HTTP_ADDR":                      ":3000",
	"LOG_LEVEL":                      "info",
	"LOG_FORMAT":                     "json",
	"DIRECTORY_SOURCE":               SourceFile,
	"DATA_DIR":                       "data",
	"DIRECTORY_RELOAD_CRON":          "",
	"POSTGRES_DSN":                   "",
	"GEMINI_API_KEY":                 "",
	"GEMINI_MODEL":                   "gemini-2.0-flash",
	"GEMINI_TIMEOUT":                 "20s",
	"NOTIFIER":                       NotifierTwilio,
	"TWILIO_ACCOUNT_SID":             "",
	"TWILIO_AUTH_TOKEN":              "",
	"TWILIO_PHONE_NUMBER":            "",
	"TWILIO_BASE_URL":                "",
	"WHATSAPP_CLOUD_TOKEN":           "",
	"WHATSAPP_CLOUD_PHONE_NUMBER_ID": "",
	"WHATSMEOW_STORE":                "whatsapp.db",
	"TELEGRAM_BOT_TOKEN":             "",
	"TELEGRAM_ALERT_CHAT_ID":         0,
	"AMQP_URL":                       "",
	"AMQP_EXCHANGE":                  "intern-assistant.events",
	"JWT_SECRET":                     "",
	"ADMIN_USERNAME":                 "admin",
	"ADMIN_PASSWORD_HASH":            "",
	"BROADCAST_INTERVAL":             "1500ms",
}

// Load reads an optional .env file and then the process environment.
// Real environment variables win over .env values. godotenv expands $VAR in
// unquoted and double-quoted values, so a bcrypt hash in .env must be
// single-quoted.
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...) // missing .env is fine

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.DirectorySource = strings.ToLower(strings.TrimSpace(cfg.DirectorySource))
	cfg.Notifier = strings.ToLower(strings.TrimSpace(cfg.Notifier))
	return &cfg, nil
}

// Validate checks what the serve command needs. The completion provider is
// optional: without GEMINI_API_KEY every non-FAQ question gets the fallback.
func (c *Config) Validate() error {
	var errs []error

	switch c.DirectorySource {
	case SourceFile:
		if c.DataDir == "" {
			errs = append(errs, errors.New("DATA_DIR is required for the file directory source"))
		}
	case SourcePostgres:
		if c.PostgresDSN == "" {
			errs = append(errs, errors.New("POSTGRES_DSN is required for the postgres directory source"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown DIRECTORY_SOURCE %q", c.DirectorySource))
	}

	switch c.Notifier {
	case NotifierTwilio:
		if c.TwilioAccountSID == "" || c.TwilioAuthToken == "" || c.TwilioPhoneNumber == "" {
			errs = append(errs, errors.New("TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_PHONE_NUMBER are required"))
		}
	case NotifierCloud:
		if c.CloudToken == "" || c.CloudPhoneNumberID == "" {
			errs = append(errs, errors.New("WHATSAPP_CLOUD_TOKEN and WHATSAPP_CLOUD_PHONE_NUMBER_ID are required"))
		}
	case NotifierWhatsmeow:
		if c.WhatsmeowStore == "" {
			errs = append(errs, errors.New("WHATSMEOW_STORE is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown NOTIFIER %q", c.Notifier))
	}

	if c.TelegramBotToken != "" && c.TelegramAlertChatID == 0 {
		errs = append(errs, errors.New("TELEGRAM_ALERT_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set"))
	}
	if c.AdminPasswordHash != "" {
		if c.JWTSecret == "" {
			errs = append(errs, errors.New("JWT_SECRET is required when the admin API is enabled"))
		}
		if _, err := bcrypt.Cost([]byte(c.AdminPasswordHash)); err != nil {
			errs = append(errs, fmt.Errorf("ADMIN_PASSWORD_HASH is not a bcrypt hash (single-quote it in .env): %w", err))
		}
	}
	if c.BroadcastInterval < 0 {
		errs = append(errs, errors.New("BROADCAST_INTERVAL must not be negative"))
	}
	return errors.Join(errs...)
}

// EnvLine formats a .env assignment that godotenv reads back verbatim.
func EnvLine(key, value string) string {
	return key + "='" + value + "'"
}

// AdminEnabled reports whether the admin API should be mounted.
func (c *Config) AdminEnabled() bool {
	return c.AdminPasswordHash != "" && c.JWTSecret != ""
}
