package detect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/threadscan/internal/config"
	"github.com/fyrsmithlabs/threadscan/internal/flags"
)

func TestExtract(t *testing.T) {
	x := NewExtractor(testConfig(t))

	t.Run("action cue raises an action item", func(t *testing.T) {
		e := email("atlas.txt", 0, "Can you review the pricing document before Thursday?")
		got := x.Extract(e, "Atlas")
		require.Len(t, got, 1)
		f := got[0]
		assert.Equal(t, flags.ActionItem, f.Type)
		assert.Equal(t, "Atlas", f.Project)
		assert.Equal(t, "atlas.txt", f.SourceFile)
		assert.Equal(t, flags.Open, f.Status)
		assert.Contains(t, f.TriggerSnippet, "Can you review")
	})

	t.Run("risk cue raises a risk", func(t *testing.T) {
		e := email("atlas.txt", 0, "The deployment is blocked on the firewall change.")
		got := x.Extract(e, "Atlas")
		require.Len(t, got, 1)
		assert.Equal(t, flags.Risk, got[0].Type)
		assert.Contains(t, got[0].TriggerSnippet, "blocked on the firewall change")
	})

	t.Run("evidence is a verbatim body substring", func(t *testing.T) {
		body := "Can you review the pricing document before Thursday? The numbers changed again."
		got := x.Extract(email("atlas.txt", 0, body), "Atlas")
		require.Len(t, got, 1)
		assert.Contains(t, body, got[0].TriggerSnippet)
	})

	t.Run("each distinct cue flags independently", func(t *testing.T) {
		e := email("atlas.txt", 0,
			"Can you review the draft? We need the final numbers too, and the release is blocked.")
		got := x.Extract(e, "Atlas")
		require.Len(t, got, 3)
		assert.Equal(t, 2, countOfType(got, flags.ActionItem))
		assert.Equal(t, 1, countOfType(got, flags.Risk))
	})

	t.Run("repeated matches of one cue collapse to the first", func(t *testing.T) {
		e := email("atlas.txt", 0, "Can you check the logs? Also, can you ping Dora about the retro.")
		got := x.Extract(e, "Atlas")
		require.Len(t, got, 1)
		assert.Contains(t, got[0].TriggerSnippet, "Can you check the logs")
	})

	t.Run("conditional framing neutralizes the cue", func(t *testing.T) {
		e := email("atlas.txt", 0, "If there are any issues, let me know.")
		assert.Empty(t, x.Extract(e, "Atlas"))
	})

	t.Run("unconditional cue after a neutralized one still flags", func(t *testing.T) {
		e := email("atlas.txt", 0,
			"If there are any issues, let me know. Separately, the rollout stays on schedule so let me know once you deployed.")
		got := x.Extract(e, "Atlas")
		require.Len(t, got, 1)
		assert.Contains(t, got[0].TriggerSnippet, "once you deployed")
	})

	t.Run("cue inside quoted text still flags", func(t *testing.T) {
		// The syntactic pass cannot tell quoted examples from genuine
		// requests; that judgement belongs to the enrichment overlay.
		e := email("atlas.txt", 0,
			`The error dialog says "please take a look at the logs" whenever the export fails.`)
		got := x.Extract(e, "Atlas")
		require.Len(t, got, 1)
		assert.Equal(t, flags.ActionItem, got[0].Type)
	})

	t.Run("zero-width cue match cannot stall the scan", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Cues.Action = []string{`$`}
		require.NoError(t, cfg.Validate())
		got := NewExtractor(cfg).Extract(email("atlas.txt", 0, "come see me if there"), "Atlas")
		assert.Empty(t, got)
	})

	t.Run("snippet respects the configured cap", func(t *testing.T) {
		cfg := testConfig(t)
		long := "Can you review " + strings.Repeat("the very long appendix ", 20) + "by Friday?"
		got := NewExtractor(cfg).Extract(email("atlas.txt", 0, long), "Atlas")
		require.NotEmpty(t, got)
		assert.LessOrEqual(t, len(got[0].TriggerSnippet), cfg.Detection.SnippetLength)
	})
}

func TestExtractDeterministic(t *testing.T) {
	x := NewExtractor(testConfig(t))
	e := email("atlas.txt", 0,
		"Can you review the draft? We need the final numbers too, and the release is blocked.")

	first := x.Extract(e, "Atlas")
	second := x.Extract(e, "Atlas")
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Type, second[i].Type)
		assert.Equal(t, first[i].TriggerSnippet, second[i].TriggerSnippet)
		assert.Equal(t, first[i].MatchedCue, second[i].MatchedCue)
	}
}

func countOfType(list []*flags.Flag, t flags.Type) int {
	n := 0
	for _, f := range list {
		if f.Type == t {
			n++
		}
	}
	return n
}
