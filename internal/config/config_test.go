package config

import (
	"os"
	"path/filepath"
	"testing"
)

// --- Validate ---

func TestValidate_ValidConfig(t *testing.T) {
	cfg := Defaults()
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected valid config, got: %v", err)
	}
}

func TestValidate_BadRoutingMode(t *testing.T) {
	cfg := Defaults()
	cfg.Routing.Mode = "always"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for routing.mode=always")
	}
}

func TestValidate_ChunkBudgetBounds(t *testing.T) {
	cfg := Defaults()

	cfg.Routing.ChunkBudget = 100
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for chunkBudget=100")
	}

	cfg.Routing.ChunkBudget = 5000
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for chunkBudget=5000")
	}

	cfg.Routing.ChunkBudget = 4000
	if err := Validate(cfg); err != nil {
		t.Fatalf("chunkBudget=4000 should be valid: %v", err)
	}
}

func TestValidate_TelegramTokenRequired(t *testing.T) {
	cfg := Defaults()
	cfg.Channels.Telegram.Enabled = true
	cfg.Channels.Telegram.Token = ""
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for enabled telegram without token")
	}
}

func TestValidate_GenerationTimeout(t *testing.T) {
	cfg := Defaults()
	cfg.Routing.GenerationTimeoutSeconds = 0
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for generationTimeoutSeconds=0")
	}
}

// --- ExpandEnvVars ---

func TestExpandEnvVars_Set(t *testing.T) {
	os.Setenv("TOKBOT_TEST_VAR", "hello")
	defer os.Unsetenv("TOKBOT_TEST_VAR")

	result := ExpandEnvVars("value=${TOKBOT_TEST_VAR}")
	if result != "value=hello" {
		t.Fatalf("expected 'value=hello', got %q", result)
	}
}

func TestExpandEnvVars_Default(t *testing.T) {
	os.Unsetenv("TOKBOT_MISSING_VAR")

	result := ExpandEnvVars("value=${TOKBOT_MISSING_VAR:-fallback}")
	if result != "value=fallback" {
		t.Fatalf("expected 'value=fallback', got %q", result)
	}
}

func TestExpandEnvVars_UnsetNoDefault(t *testing.T) {
	os.Unsetenv("TOKBOT_MISSING_VAR")

	result := ExpandEnvVars("value=${TOKBOT_MISSING_VAR}")
	if result != "value=${TOKBOT_MISSING_VAR}" {
		t.Fatalf("expected original string preserved, got %q", result)
	}
}

// --- Load / Save ---

func TestLoadSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := Defaults()
	cfg.Routing.Mode = "synthesize"
	cfg.Channels.Telegram.AllowChats = FlexStringList{"-100123", "-100456"}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Routing.Mode != "synthesize" {
		t.Fatalf("expected mode synthesize, got %q", loaded.Routing.Mode)
	}
	if len(loaded.Channels.Telegram.AllowChats) != 2 {
		t.Fatalf("expected 2 allowed chats, got %d", len(loaded.Channels.Telegram.AllowChats))
	}
}

func TestLoad_MixedAllowChats(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	raw := `{"channels": {"telegram": {"allowChats": ["-100123", -100456]}}}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	chats := cfg.Channels.Telegram.AllowChats
	if len(chats) != 2 || chats[0] != "-100123" || chats[1] != "-100456" {
		t.Fatalf("unexpected allowChats: %v", chats)
	}
}

// --- Accessor ---

func TestGetByPath(t *testing.T) {
	cfg := Defaults()
	val, err := GetByPath(cfg, "routing.mode")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if val != "bestmatch" {
		t.Fatalf("expected bestmatch, got %v", val)
	}
}

func TestSetByPath_TypeCoercion(t *testing.T) {
	cfg := Defaults()
	if err := SetByPath(cfg, "routing.chunkBudget", "3500"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if cfg.Routing.ChunkBudget != 3500 {
		t.Fatalf("expected 3500, got %d", cfg.Routing.ChunkBudget)
	}
}

func TestSanitize_MasksSecrets(t *testing.T) {
	cfg := Defaults()
	cfg.Channels.Telegram.Token = "1234567890:AAAAAAAAAAAAAAAAAAAA"

	out := Sanitize(cfg)
	if out.Channels.Telegram.Token == cfg.Channels.Telegram.Token {
		t.Fatal("token should be masked")
	}
	if cfg.Channels.Telegram.Token != "1234567890:AAAAAAAAAAAAAAAAAAAA" {
		t.Fatal("original config must not be mutated")
	}
}
