package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_KEY", "")
	t.Setenv("GOOGLE_SHEETS_API_KEY", "")
	t.Setenv("GOOGLE_SHEET_ID", "")
	t.Setenv("WHATSAPP_TOKEN", "")
	t.Setenv("WHATSAPP_PHONE_NUMBER_ID", "")
	t.Setenv("PORT", "")

	cfg := Load()

	assert.False(t, cfg.HasSupabase())
	assert.False(t, cfg.HasSheets())
	assert.False(t, cfg.HasWhatsApp())
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestBackendSelectionPairs(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://demo.supabase.co")
	t.Setenv("SUPABASE_KEY", "")
	t.Setenv("GOOGLE_SHEETS_API_KEY", "sheets-key")
	t.Setenv("GOOGLE_SHEET_ID", "sheet-1")

	cfg := Load()

	// An incomplete relational pair must not select the relational backend.
	assert.False(t, cfg.HasSupabase())
	assert.True(t, cfg.HasSheets())

	t.Setenv("SUPABASE_KEY", "service-role-key")
	cfg = Load()
	assert.True(t, cfg.HasSupabase())
}

func TestPortOverride(t *testing.T) {
	t.Setenv("PORT", "9191")

	cfg := Load()

	assert.Equal(t, ":9191", cfg.Addr())
}
