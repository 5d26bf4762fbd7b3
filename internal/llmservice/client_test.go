package llmservice

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"campus-rag/internal/config"
)

func TestStripThink(t *testing.T) {
	in := "<think>\nThe user asks about admissions.\n</think>\nAdmissions open June 1."
	assert.Equal(t, "Admissions open June 1.", StripThink(in))
}

func TestStripThink_NoBlock(t *testing.T) {
	assert.Equal(t, "Plain answer.", StripThink("  Plain answer.\n"))
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(&config.LLMConfig{Provider: "groq", Model: "x"}, 0.3)
	assert.Error(t, err)
}
