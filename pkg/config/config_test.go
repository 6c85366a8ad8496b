package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Chat.DefaultModel != "qwen2.5-0.5b" {
		t.Errorf("default model = %q", cfg.Chat.DefaultModel)
	}
	if cfg.Chat.MaxHistoryMessages != 20 {
		t.Errorf("max history = %d", cfg.Chat.MaxHistoryMessages)
	}
	if cfg.Chat.MaxSessions != 100 {
		t.Errorf("max sessions = %d", cfg.Chat.MaxSessions)
	}
	if cfg.SessionTimeout() != 60*time.Minute {
		t.Errorf("timeout = %s", cfg.SessionTimeout())
	}
	if cfg.GatewayAddr() != "0.0.0.0:8000" {
		t.Errorf("addr = %q", cfg.GatewayAddr())
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Chat.DefaultModel != "qwen2.5-0.5b" {
		t.Errorf("default model = %q", cfg.Chat.DefaultModel)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("PROMPTCHAT_CHAT_MAX_HISTORY", "5")
	t.Setenv("PROMPTCHAT_CHAT_DEFAULT_MODEL", "tinyllama")
	t.Setenv("PROMPTCHAT_GATEWAY_PORT", "9100")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Chat.MaxHistoryMessages != 5 {
		t.Errorf("max history = %d", cfg.Chat.MaxHistoryMessages)
	}
	if cfg.Chat.DefaultModel != "tinyllama" {
		t.Errorf("default model = %q", cfg.Chat.DefaultModel)
	}
	if cfg.Gateway.Port != 9100 {
		t.Errorf("port = %d", cfg.Gateway.Port)
	}
}

func TestSaveAndReloadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "config.json")

	cfg := DefaultConfig()
	cfg.Chat.DefaultModel = "qwen2.5-1.5b"
	cfg.Backend.BaseURL = "http://10.0.0.5:11434"
	if err := SaveConfig(path, cfg); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Chat.DefaultModel != "qwen2.5-1.5b" {
		t.Errorf("model = %q", loaded.Chat.DefaultModel)
	}
	if loaded.Backend.BaseURL != "http://10.0.0.5:11434" {
		t.Errorf("base url = %q", loaded.Backend.BaseURL)
	}
}

func TestModelCatalog(t *testing.T) {
	info, err := ModelByKey("qwen2.5-0.5b")
	if err != nil {
		t.Fatal(err)
	}
	if info.Name != "Qwen/Qwen2.5-0.5B-Instruct" {
		t.Errorf("name = %q", info.Name)
	}

	if _, err := ModelByKey("gpt-9000"); err == nil {
		t.Error("unknown key should error")
	}

	name, err := ResolveModelName("tinyllama")
	if err != nil {
		t.Fatal(err)
	}
	if name != "TinyLlama/TinyLlama-1.1B-Chat-v1.0" {
		t.Errorf("resolved = %q", name)
	}

	keys := ModelKeys()
	if len(keys) != 3 {
		t.Fatalf("keys = %v", keys)
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1] >= keys[i] {
			t.Errorf("keys not sorted: %v", keys)
		}
	}
}
