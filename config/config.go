package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Settings is the on-disk shape of settings.toml
type Settings struct {
	DataDirectory string         `toml:"data_directory"`
	Provider      ProviderConfig `toml:"provider"`
	Speech        SpeechConfig   `toml:"speech"`
}

type ProviderConfig struct {
	ID         string `toml:"id"`
	Model      string `toml:"model"`
	TitleModel string `toml:"title_model"`
	BaseURL    string `toml:"base_url,omitempty"`
}

type SpeechConfig struct {
	// Command is an external speech-to-text program that prints transcript
	// lines to stdout. Empty means dictation is unavailable.
	Command string   `toml:"command,omitempty"`
	Args    []string `toml:"args,omitempty"`
}

// Config is the resolved runtime configuration
type Config struct {
	DataDirectory string
	ProviderID    string
	Model         string
	TitleModel    string
	BaseURL       string
	SpeechCommand string
	SpeechArgs    []string
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) applyEnvOverrides() {
	if dataDir := os.Getenv("XLCHAT_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if provider := os.Getenv("XLCHAT_PROVIDER"); provider != "" {
		c.ProviderID = provider
	}
	if model := os.Getenv("XLCHAT_MODEL"); model != "" {
		c.Model = model
	}
}

func CheckDebug() bool {
	debug := os.Getenv("XLCHAT_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600 - the log may contain conversation content
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (XLCHAT_DEBUG=%s) ===", os.Getenv("XLCHAT_DEBUG"))
}

func defaultSettings() *Settings {
	return &Settings{
		DataDirectory: "~/.local/share/xlchat",
		Provider: ProviderConfig{
			ID:         "gemini",
			Model:      "gemini-flash-lite-latest",
			TitleModel: "gemini-flash-lite-latest",
		},
	}
}

// Load reads settings.toml (creating a default one on first run), applies
// env overrides, and ensures the data directory exists.
func Load() (*Config, error) {
	settings := defaultSettings()

	settingsPath := GetSettingsFilePath()
	if FileExists(settingsPath) {
		if _, err := toml.DecodeFile(settingsPath, settings); err != nil {
			return nil, fmt.Errorf("failed to parse settings: %w", err)
		}
	} else {
		if err := CreateDefaultSettings(); err != nil {
			return nil, fmt.Errorf("failed to create settings: %w", err)
		}
	}

	cfg := &Config{
		DataDirectory: settings.DataDirectory,
		ProviderID:    settings.Provider.ID,
		Model:         settings.Provider.Model,
		TitleModel:    settings.Provider.TitleModel,
		BaseURL:       settings.Provider.BaseURL,
		SpeechCommand: settings.Speech.Command,
		SpeechArgs:    settings.Speech.Args,
	}
	cfg.applyEnvOverrides()

	if cfg.TitleModel == "" {
		cfg.TitleModel = cfg.Model
	}

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// CreateDefaultSettings writes a commented settings.toml template
func CreateDefaultSettings() error {
	configDir := GetConfigDir()
	if err := EnsureDir(configDir); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	settingsPath := GetSettingsFilePath()
	if FileExists(settingsPath) {
		return nil
	}

	content := `# xlchat settings

data_directory = "~/.local/share/xlchat"

[provider]
# One of: gemini, openai, anthropic
id = "gemini"
model = "gemini-flash-lite-latest"
title_model = "gemini-flash-lite-latest"
# base_url = ""

[speech]
# External speech-to-text command that prints transcript lines to stdout.
# Leave empty to disable dictation.
# command = "whisper-stream"
# args = ["--language", "en"]
`

	if err := os.WriteFile(settingsPath, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	return nil
}
