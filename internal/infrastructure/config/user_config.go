package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// UserConfig represents user preferences stored in ~/.blockflow/config.json
type UserConfig struct {
	// Block analyzed when the CLI is given none
	DefaultBlock string `json:"default_block,omitempty"`

	// Classification overrides applied to every analysis, keyed by colon id
	Classification map[string]string `json:"classification,omitempty" validate:"omitempty,dive,keys,colon_id,endkeys,intent"`
}

// UserConfigHandler manages loading and saving user configuration
type UserConfigHandler struct {
	configPath string
}

// NewUserConfigHandler creates a handler for ~/.blockflow/config.json
func NewUserConfigHandler() (*UserConfigHandler, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return NewUserConfigHandlerAt(filepath.Join(homeDir, ".blockflow"))
}

// NewUserConfigHandlerAt creates a handler storing config.json under dir
func NewUserConfigHandlerAt(dir string) (*UserConfigHandler, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	return &UserConfigHandler{configPath: filepath.Join(dir, "config.json")}, nil
}

// Load reads the user config from disk
func (h *UserConfigHandler) Load() (*UserConfig, error) {
	if _, err := os.Stat(h.configPath); os.IsNotExist(err) {
		return &UserConfig{}, nil
	}

	data, err := os.ReadFile(h.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read user config: %w", err)
	}

	var config UserConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse user config: %w", err)
	}
	if err := ValidateUserConfig(&config); err != nil {
		return nil, fmt.Errorf("%s: %w", h.configPath, err)
	}

	return &config, nil
}

// Save writes the user config to disk
func (h *UserConfigHandler) Save(config *UserConfig) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}

	if err := os.WriteFile(h.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write user config: %w", err)
	}

	return nil
}

// SetDefaultBlock sets the default block id
func (h *UserConfigHandler) SetDefaultBlock(blockID string) error {
	config, err := h.Load()
	if err != nil {
		return err
	}

	config.DefaultBlock = blockID
	return h.Save(config)
}

// SetIntent records a classification override for one colon id
func (h *UserConfigHandler) SetIntent(colonID, intent string) error {
	config, err := h.Load()
	if err != nil {
		return err
	}

	if config.Classification == nil {
		config.Classification = make(map[string]string)
	}
	config.Classification[colonID] = intent
	return h.Save(config)
}

// Clear removes every stored preference
func (h *UserConfigHandler) Clear() error {
	return h.Save(&UserConfig{})
}

// GetConfigPath returns the path to the user config file
func (h *UserConfigHandler) GetConfigPath() string {
	return h.configPath
}
