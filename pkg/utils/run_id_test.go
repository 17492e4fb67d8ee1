package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRunID_Format(t *testing.T) {
	id := GenerateRunID("analyze")

	assert.Regexp(t, regexp.MustCompile(`^analyze-[a-f0-9]{8}$`), id)
}

func TestGenerateRunID_SanitizesTrigger(t *testing.T) {
	assert.Regexp(t, `^fact-watch-[a-f0-9]{8}$`, GenerateRunID(" Fact_Watch! "))
	assert.Regexp(t, `^[a-f0-9]{8}$`, GenerateRunID(""))
	assert.Regexp(t, `^[a-f0-9]{8}$`, GenerateRunID("--"))
}

func TestGenerateRunID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateRunID("watch")
		assert.False(t, seen[id], "duplicate run id %s", id)
		seen[id] = true
	}
}
