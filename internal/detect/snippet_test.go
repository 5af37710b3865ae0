package detect

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSnippetRuneBoundaries(t *testing.T) {
	t.Run("window start never splits a character", func(t *testing.T) {
		body := strings.Repeat("€", 14) + "MATCH"
		got := snippet(body, 42, 47, 150)
		assert.True(t, utf8.ValidString(got))
		assert.Contains(t, got, "MATCH")
	})

	t.Run("window end never splits a character", func(t *testing.T) {
		body := "MATCH" + strings.Repeat("€", 40)
		got := snippet(body, 0, 5, 0)
		assert.True(t, utf8.ValidString(got))
		assert.True(t, strings.HasPrefix(got, "MATCH"))
	})

	t.Run("length cap never splits a character", func(t *testing.T) {
		got := snippet(strings.Repeat("é", 100), 0, 2, 3)
		assert.True(t, utf8.ValidString(got))
		assert.Equal(t, "é", got)
	})

	t.Run("accented evidence survives intact", func(t *testing.T) {
		body := "Zsófia, can you review the árajánlat before Thursday? Köszönöm előre is."
		idx := strings.Index(body, "can you")
		got := snippet(body, idx, idx+len("can you"), 150)
		assert.True(t, utf8.ValidString(got))
		assert.Contains(t, got, "Zsófia")
		assert.Contains(t, got, "árajánlat")
	})
}
