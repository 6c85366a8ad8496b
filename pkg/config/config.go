package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Chat       ChatConfig       `json:"chat"`
	Backend    BackendConfig    `json:"backend"`
	Gateway    GatewayConfig    `json:"gateway"`
	Janitor    JanitorConfig    `json:"janitor"`
	QualityLog QualityLogConfig `json:"quality_log"`
	mu         sync.RWMutex
}

type ChatConfig struct {
	DefaultModel          string `json:"default_model" env:"PROMPTCHAT_CHAT_DEFAULT_MODEL"`
	CacheDir              string `json:"cache_dir" env:"PROMPTCHAT_CHAT_CACHE_DIR"`
	MaxHistoryMessages    int    `json:"max_history_messages" env:"PROMPTCHAT_CHAT_MAX_HISTORY"`
	SessionTimeoutMinutes int    `json:"session_timeout_minutes" env:"PROMPTCHAT_CHAT_SESSION_TIMEOUT"`
	MaxSessions           int    `json:"max_sessions" env:"PROMPTCHAT_CHAT_MAX_SESSIONS"`
	MockMode              bool   `json:"mock_mode" env:"PROMPTCHAT_CHAT_MOCK_MODE"`
}

type BackendConfig struct {
	BaseURL string `json:"base_url" env:"PROMPTCHAT_BACKEND_BASE_URL"`
}

type GatewayConfig struct {
	Host string `json:"host" env:"PROMPTCHAT_GATEWAY_HOST"`
	Port int    `json:"port" env:"PROMPTCHAT_GATEWAY_PORT"`
}

type JanitorConfig struct {
	// Schedule is a cron expression checked once per minute.
	Schedule string `json:"schedule" env:"PROMPTCHAT_JANITOR_SCHEDULE"`
}

type QualityLogConfig struct {
	// Path of the sqlite verdict log; empty disables recording.
	Path string `json:"path" env:"PROMPTCHAT_QUALITY_LOG_PATH"`
}

func DefaultConfig() *Config {
	return &Config{
		Chat: ChatConfig{
			DefaultModel:          "qwen2.5-0.5b",
			CacheDir:              "./models/chat_llm",
			MaxHistoryMessages:    20,
			SessionTimeoutMinutes: 60,
			MaxSessions:           100,
			MockMode:              false,
		},
		Backend: BackendConfig{
			BaseURL: "http://127.0.0.1:11434",
		},
		Gateway: GatewayConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		Janitor: JanitorConfig{
			Schedule: "* * * * *",
		},
		QualityLog: QualityLogConfig{},
	}
}

func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if envErr := env.Parse(cfg); envErr != nil {
				return nil, envErr
			}
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

func (c *Config) SessionTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Duration(c.Chat.SessionTimeoutMinutes) * time.Minute
}

func (c *Config) CacheDirPath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return expandHome(c.Chat.CacheDir)
}

func (c *Config) GatewayAddr() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return fmt.Sprintf("%s:%d", c.Gateway.Host, c.Gateway.Port)
}

func expandHome(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		home, _ := os.UserHomeDir()
		if len(path) > 1 && path[1] == '/' {
			return home + path[1:]
		}
		return home
	}
	return path
}
