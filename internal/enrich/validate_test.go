package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/threadscan/internal/flags"
)

const validOutput = `{
	"is_genuine": true,
	"owner": "anna@example.com",
	"priority": "HIGH",
	"summary": "Pricing document awaits review.",
	"confidence": "MEDIUM"
}`

func TestParseClassification(t *testing.T) {
	t.Run("valid output", func(t *testing.T) {
		c, err := ParseClassification(validOutput)
		require.NoError(t, err)
		assert.True(t, c.IsGenuine)
		assert.Equal(t, "anna@example.com", c.Owner)
		assert.Equal(t, flags.High, c.Priority)
		assert.Equal(t, flags.Medium, c.Confidence)
	})

	t.Run("markdown fences are stripped", func(t *testing.T) {
		c, err := ParseClassification("```json\n" + validOutput + "\n```")
		require.NoError(t, err)
		assert.True(t, c.IsGenuine)
	})

	t.Run("bare fences are stripped", func(t *testing.T) {
		_, err := ParseClassification("```\n" + validOutput + "\n```")
		require.NoError(t, err)
	})

	t.Run("not JSON", func(t *testing.T) {
		_, err := ParseClassification("the flag looks genuine to me")
		assert.ErrorIs(t, err, ErrNotJSON)
	})

	t.Run("missing field", func(t *testing.T) {
		_, err := ParseClassification(`{"is_genuine": true, "owner": "", "priority": "LOW", "summary": "x"}`)
		assert.ErrorIs(t, err, ErrMissingField)
	})

	t.Run("wrong field type", func(t *testing.T) {
		_, err := ParseClassification(`{"is_genuine": "yes", "owner": "", "priority": "LOW", "summary": "x", "confidence": "LOW"}`)
		assert.ErrorIs(t, err, ErrNotJSON)
	})

	t.Run("priority outside enum", func(t *testing.T) {
		_, err := ParseClassification(`{"is_genuine": true, "owner": "", "priority": "CRITICAL", "summary": "x", "confidence": "LOW"}`)
		assert.ErrorIs(t, err, ErrBadEnum)
	})

	t.Run("confidence outside enum", func(t *testing.T) {
		_, err := ParseClassification(`{"is_genuine": true, "owner": "", "priority": "LOW", "summary": "x", "confidence": "maybe"}`)
		assert.ErrorIs(t, err, ErrBadEnum)
	})

	t.Run("blank summary", func(t *testing.T) {
		_, err := ParseClassification(`{"is_genuine": true, "owner": "", "priority": "LOW", "summary": "  ", "confidence": "LOW"}`)
		assert.ErrorIs(t, err, ErrEmptySummary)
	})
}
