package config

import (
	"reflect"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MAX_ENTRIES", "")
	t.Setenv("ALLOWED_EMAILS", "")
	t.Setenv("LOG_LEVEL", "normal")

	cfg := Load()
	if cfg.MaxEntries != 3 {
		t.Errorf("MaxEntries: got %d want 3", cfg.MaxEntries)
	}
	if len(cfg.AllowedEmails) != 0 {
		t.Errorf("AllowedEmails: got %v", cfg.AllowedEmails)
	}
	if !cfg.IsAllowedEmail("anyone@example.com") {
		t.Error("empty allow list should admit everyone")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MAX_ENTRIES", "5")
	t.Setenv("ALLOWED_EMAILS", " a@example.com, ,B@example.com ")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()
	if cfg.MaxEntries != 5 {
		t.Errorf("MaxEntries: got %d want 5", cfg.MaxEntries)
	}
	want := []string{"a@example.com", "B@example.com"}
	if !reflect.DeepEqual(cfg.AllowedEmails, want) {
		t.Errorf("AllowedEmails: got %v want %v", cfg.AllowedEmails, want)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q", cfg.LogLevel)
	}
	if !cfg.IsAllowedEmail("b@example.com") || cfg.IsAllowedEmail("c@example.com") {
		t.Error("allow list not applied")
	}
}

func TestInvalidMaxEntries(t *testing.T) {
	for _, v := range []string{"zero", "0", "-2"} {
		t.Setenv("MAX_ENTRIES", v)
		if got := Load().MaxEntries; got != 3 {
			t.Errorf("MAX_ENTRIES=%q: got %d want 3", v, got)
		}
	}
}
