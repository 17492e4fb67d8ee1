package colon

import (
	"fmt"
	"strings"
)

// Intent is the externally declared role of an item inside a block.
// It decides how the efficiency solver scores that item's net rate.
type Intent string

const (
	// IntentImport marks items supplied from outside the block
	IntentImport Intent = "import"

	// IntentExport marks items the block exists to produce
	IntentExport Intent = "export"

	// IntentInternal marks intermediates that should balance inside the block
	IntentInternal Intent = "internal"

	// IntentIgnore marks items the caller does not care about (scored like internal)
	IntentIgnore Intent = "ignore"
)

// ParseIntent converts a string into an Intent
func ParseIntent(s string) (Intent, error) {
	switch Intent(strings.ToLower(strings.TrimSpace(s))) {
	case IntentImport:
		return IntentImport, nil
	case IntentExport:
		return IntentExport, nil
	case IntentInternal:
		return IntentInternal, nil
	case IntentIgnore:
		return IntentIgnore, nil
	default:
		return "", fmt.Errorf("unknown intent %q", s)
	}
}

// Classification maps ids to their intent. Missing ids are unclassified.
type Classification map[ID]Intent

// Intent returns the intent for id, or "" when unclassified
func (c Classification) Intent(id ID) Intent {
	return c[id]
}

// Clone returns an independent copy
func (c Classification) Clone() Classification {
	out := make(Classification, len(c))
	for id, intent := range c {
		out[id] = intent
	}
	return out
}

// Merge overlays overrides on top of c and returns the result
func (c Classification) Merge(overrides Classification) Classification {
	out := c.Clone()
	for id, intent := range overrides {
		out[id] = intent
	}
	return out
}

// ParseClassification converts "kind:name" -> intent string pairs
func ParseClassification(raw map[string]string) (Classification, error) {
	out := make(Classification, len(raw))
	for key, value := range raw {
		id, err := Parse(key)
		if err != nil {
			return nil, err
		}
		intent, err := ParseIntent(value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		out[id] = intent
	}
	return out, nil
}
