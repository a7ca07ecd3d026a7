package deduplication

import (
	"math/rand"
	"strings"
	"testing"

	"blogbot/config"
	"blogbot/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGuard(seed int64) *Guard {
	return NewGuard(GuardConfig{
		Rand:   rand.New(rand.NewSource(seed)),
		Logger: logging.Discard(),
	})
}

func TestGuardDefaults(t *testing.T) {
	g := NewGuard(GuardConfig{})
	assert.Equal(t, config.DefaultSimilarityThreshold, g.Threshold())
	assert.Equal(t, config.TitleSuffixes, g.suffixes)
}

func TestGuardCheckReportsBestMatch(t *testing.T) {
	g := newTestGuard(1)
	history := []string{"Beat Afternoon Slumps With A 20-Min Reset", "A 48-Hour Guide to Monsoon Goa"}

	res := g.Check("A 48 Hour Guide To Monsoon Goa Trip", history)
	require.True(t, res.IsDuplicate)
	assert.False(t, res.Exact)
	assert.Equal(t, "A 48-Hour Guide to Monsoon Goa", res.MatchingTitle)
	assert.InDelta(t, 0.8, res.SimilarityScore, 1e-9)

	res = g.Check("A Simple Plan to Cut Monthly Bills", history)
	assert.False(t, res.IsDuplicate)
	assert.Empty(t, res.MatchingTitle)
}

func TestGuardRepairAppendsSuffix(t *testing.T) {
	g := newTestGuard(7)
	history := []string{"A 48-Hour Guide to Monsoon Goa"}
	title := "A 48 Hour Guide To Monsoon Goa Trip"

	res := g.Repair(title, history)
	require.True(t, res.Check.IsDuplicate)
	require.NotEmpty(t, res.Suffix)
	assert.Contains(t, config.TitleSuffixes, res.Suffix)
	assert.Equal(t, title+res.Suffix, res.Title)
	assert.Equal(t, title, res.Original)
	assert.False(t, res.StillDuplicate)
	assert.False(t, g.IsDuplicate(res.Title, history))
}

func TestGuardRepairLeavesFreshTitle(t *testing.T) {
	g := newTestGuard(7)
	res := g.Repair("A Simple Plan to Cut Monthly Bills", []string{"A 48-Hour Guide to Monsoon Goa"})
	assert.Equal(t, "A Simple Plan to Cut Monthly Bills", res.Title)
	assert.Empty(t, res.Suffix)
}

func TestGuardRepairSkipsCollidingSuffix(t *testing.T) {
	g := NewGuard(GuardConfig{
		Suffixes: []string{" Today", " Essentials"},
		Rand:     rand.New(rand.NewSource(3)),
		Logger:   logging.Discard(),
	})
	// both the base title and its "Today" variant already exist
	history := []string{"Weekend Baking Notes", "Weekend Baking Notes Today"}

	res := g.Repair("weekend baking notes", history)
	assert.Equal(t, " Essentials", res.Suffix)
	assert.Equal(t, "weekend baking notes Essentials", res.Title)
	assert.False(t, res.StillDuplicate)
}

func TestGuardRepairBestEffort(t *testing.T) {
	g := NewGuard(GuardConfig{
		Suffixes: []string{" Today"},
		Rand:     rand.New(rand.NewSource(3)),
		Logger:   logging.Discard(),
	})
	history := []string{"Weekend Baking Notes", "Weekend Baking Notes Today"}

	res := g.Repair("Weekend Baking Notes", history)
	assert.True(t, res.StillDuplicate)
	assert.Equal(t, "Weekend Baking Notes Today", res.Title)
}

func TestGuardRepairDeterministicWithSeed(t *testing.T) {
	history := []string{"A 48-Hour Guide to Monsoon Goa"}
	a := newTestGuard(42).Repair("A 48-Hour Guide to Monsoon Goa", history)
	b := newTestGuard(42).Repair("A 48-Hour Guide to Monsoon Goa", history)
	assert.Equal(t, a.Title, b.Title)
}

func TestClampTitle(t *testing.T) {
	cases := []struct {
		name  string
		title string
		want  string
	}{
		{"short padded", "Inbox Zero Today", "Inbox Zero Today — A Practical Guide"},
		{"in range untouched", "A Simple Plan to Cut Monthly Bills", "A Simple Plan to Cut Monthly Bills"},
		{"whitespace collapsed", "A  Simple Plan   to Cut Monthly Bills", "A Simple Plan to Cut Monthly Bills"},
		{"long truncated", strings.Repeat("word ", 20), strings.TrimSpace(strings.Repeat("word ", 14))},
		{"empty padded", "", "— A Practical Guide"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ClampTitle(c.title); got != c.want {
				t.Fatalf("ClampTitle(%q) = %q; want %q", c.title, got, c.want)
			}
		})
	}
}
