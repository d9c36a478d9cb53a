// Package config reads the process configuration from the environment once
// at boot. The snapshot is immutable afterwards; there is no runtime
// credential rotation.
package config

import "os"

type Config struct {
	// Relational backend (takes precedence when both pairs are present).
	SupabaseURL string
	SupabaseKey string

	// Spreadsheet backend, used only when the relational pair is incomplete.
	SheetsAPIKey string
	SheetID      string

	// WhatsApp Cloud API.
	WhatsAppToken         string
	WhatsAppPhoneNumberID string
	WhatsAppVerifyToken   string
	WhatsAppAppSecret     string

	// Optional collaborators.
	RedisAddr   string
	ChatLogPath string
	AMQPURL     string

	Port string
}

// Load snapshots the recognized environment variables.
func Load() Config {
	return Config{
		SupabaseURL:           os.Getenv("SUPABASE_URL"),
		SupabaseKey:           os.Getenv("SUPABASE_KEY"),
		SheetsAPIKey:          os.Getenv("GOOGLE_SHEETS_API_KEY"),
		SheetID:               os.Getenv("GOOGLE_SHEET_ID"),
		WhatsAppToken:         os.Getenv("WHATSAPP_TOKEN"),
		WhatsAppPhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
		WhatsAppVerifyToken:   os.Getenv("WHATSAPP_VERIFY_TOKEN"),
		WhatsAppAppSecret:     os.Getenv("WHATSAPP_APP_SECRET"),
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		ChatLogPath:           os.Getenv("CHAT_LOG_PATH"),
		AMQPURL:               os.Getenv("AMQP_URL"),
		Port:                  getEnv("PORT", "8080"),
	}
}

// HasSupabase reports whether the relational pair is complete.
func (c Config) HasSupabase() bool {
	return c.SupabaseURL != "" && c.SupabaseKey != ""
}

// HasSheets reports whether the spreadsheet pair is complete.
func (c Config) HasSheets() bool {
	return c.SheetsAPIKey != "" && c.SheetID != ""
}

// HasWhatsApp reports whether outbound sending is configured.
func (c Config) HasWhatsApp() bool {
	return c.WhatsAppToken != "" && c.WhatsAppPhoneNumberID != ""
}

// Addr is the HTTP listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
