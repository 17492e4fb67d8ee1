package facts

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/blockflow-go/internal/domain/shared"
)

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// decodeFile reads a JSON or YAML file, chosen by extension, into out and
// returns the digest of the raw bytes
func decodeFile(path string, out interface{}) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, out)
	case ".json":
		err = json.Unmarshal(raw, out)
	default:
		return "", shared.NewFactsError(path, "unsupported file extension, expected .json, .yaml or .yml")
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return sha256Hex(raw), nil
}
