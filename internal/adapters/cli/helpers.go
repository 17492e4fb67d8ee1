package cli

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/blockflow-go/internal/infrastructure/config"
)

// resolveBlockID picks the block from args or the user's default block
// Priority: positional argument > user config default
func resolveBlockID(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}

	userCfg, err := loadUserConfig()
	if err != nil {
		return "", fmt.Errorf("no block specified and failed to load user config: %w", err)
	}
	if userCfg.DefaultBlock != "" {
		return userCfg.DefaultBlock, nil
	}

	return "", fmt.Errorf("no block specified: pass a block id, use --all, or set a default with 'blockflow config set-block'")
}

func loadUserConfig() (*config.UserConfig, error) {
	handler, err := config.NewUserConfigHandler()
	if err != nil {
		return nil, err
	}
	return handler.Load()
}

// parseClassifyFlags turns "kind:name=intent" pairs into an override map.
// User config overrides come first so flags win.
func parseClassifyFlags(pairs []string, includeUserConfig bool) (map[string]string, error) {
	out := make(map[string]string)
	if includeUserConfig {
		if userCfg, err := loadUserConfig(); err == nil {
			for id, intent := range userCfg.Classification {
				out[id] = intent
			}
		}
	}
	for _, pair := range pairs {
		id, intent, ok := strings.Cut(pair, "=")
		if !ok || id == "" || intent == "" {
			return nil, fmt.Errorf("invalid --classify %q: expected kind:name=intent", pair)
		}
		out[strings.TrimSpace(id)] = strings.TrimSpace(intent)
	}
	return out, nil
}
