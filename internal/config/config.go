package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	SupabaseURL string
	SupabaseKey string

	RedisAddr     string
	RedisPassword string

	GeminiAPIKey string
	GeminiModel  string

	// Messaging transport (WhatsApp-style REST API).
	TransportBaseURL    string
	TransportAccountSID string
	TransportAuthToken  string
	TransportFromNumber string

	// OCR / speech-to-text endpoints.
	OCRBaseURL        string
	TranscribeBaseURL string

	// E-mail delivery.
	AWSRegion   string
	MailFrom    string
	ChiefHandle string // operator destination for "message the chief"

	PricingLedgerID string

	LogLevel  string
	LogFormat string
}

func LoadConfig() (*Config, error) {
	// A missing .env is fine in deployed environments.
	_ = godotenv.Load()

	cfg := &Config{
		Port:                getenv("PORT", "8080"),
		SupabaseURL:         os.Getenv("SUPABASE_URL"),
		SupabaseKey:         os.Getenv("SUPABASE_KEY"),
		RedisAddr:           getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:       os.Getenv("REDIS_PASSWORD"),
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		GeminiModel:         getenv("GEMINI_MODEL", "gemini-2.0-flash"),
		TransportBaseURL:    os.Getenv("TRANSPORT_BASE_URL"),
		TransportAccountSID: os.Getenv("TRANSPORT_ACCOUNT_SID"),
		TransportAuthToken:  os.Getenv("TRANSPORT_AUTH_TOKEN"),
		TransportFromNumber: os.Getenv("TRANSPORT_FROM_NUMBER"),
		OCRBaseURL:          os.Getenv("OCR_BASE_URL"),
		TranscribeBaseURL:   os.Getenv("TRANSCRIBE_BASE_URL"),
		AWSRegion:           getenv("AWS_REGION", "us-east-1"),
		MailFrom:            os.Getenv("MAIL_FROM"),
		ChiefHandle:         os.Getenv("CHIEF_HANDLE"),
		PricingLedgerID:     os.Getenv("PRICING_LEDGER_ID"),
		LogLevel:            getenv("LOG_LEVEL", "info"),
		LogFormat:           getenv("LOG_FORMAT", "json"),
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
