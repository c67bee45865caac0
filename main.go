package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"xlchat/config"
	"xlchat/model"
	"xlchat/provider"
	"xlchat/storage"
	"xlchat/ui"
)

const Version = "v0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize debug logging after config is loaded
	config.InitDebugLog(cfg.DataDir())

	kv, err := storage.NewKVStore(cfg.DataDir())
	if err != nil {
		fmt.Printf("Failed to open data store: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := kv.Close(); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("Warning: failed to close data store: %v", err)
		}
	}()

	conversations, warn := storage.NewConversationStore(kv)
	if warn != nil {
		// History failed to load but the app still works; say so and go on
		fmt.Fprintf(os.Stderr, "Warning: %v\n", warn)
	}

	encryption, err := config.NewEncryptionManager()
	if err != nil {
		fmt.Printf("Failed to initialize encryption: %v\n", err)
		os.Exit(1)
	}

	credentials, err := config.NewCredentialStore(kv, encryption)
	if err != nil {
		fmt.Printf("Failed to load credentials: %v\n", err)
		os.Exit(1)
	}

	// Without a key the provider stays nil; the UI prompts for one and
	// builds the client when it is saved
	var client model.Provider
	if credentials.HasToken() {
		client, err = provider.NewProvider(provider.Config{
			Type:       provider.MapProviderIDToType(cfg.ProviderID),
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			TitleModel: cfg.TitleModel,
			APIKey:     credentials.Token(),
		})
		if err != nil {
			fmt.Printf("Failed to initialize provider: %v\n", err)
			os.Exit(1)
		}
	}

	dataModel := model.NewModel(cfg, client, credentials, conversations, Version)

	p := tea.NewProgram(
		ui.NewAppView(dataModel),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running xlchat: %v\n", err)
		os.Exit(1)
	}
}
