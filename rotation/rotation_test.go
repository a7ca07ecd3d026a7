package rotation

import (
	"testing"
	"time"

	"blogbot/config"
	"blogbot/types"
)

var fixedNow = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

func newTestRotator(t *testing.T) *Rotator {
	t.Helper()
	r, err := NewRotator(config.Categories, config.DefaultCooldown, func() time.Time { return fixedNow })
	if err != nil {
		t.Fatalf("NewRotator: %v", err)
	}
	return r
}

func post(title, label string, age time.Duration) types.Post {
	return types.Post{
		Title:       title,
		Labels:      []string{label},
		PublishedAt: fixedNow.Add(-age),
	}
}

func TestNewRotatorRejectsBadLists(t *testing.T) {
	if _, err := NewRotator(nil, time.Hour, nil); err == nil {
		t.Fatal("expected error for empty list")
	}
	if _, err := NewRotator([]string{"a", "b", "a"}, time.Hour, nil); err == nil {
		t.Fatal("expected error for duplicate category")
	}
}

func TestRotationCyclicClosure(t *testing.T) {
	r := newTestRotator(t)
	n := len(config.Categories)

	for _, start := range config.Categories {
		c := start
		for i := 0; i < n; i++ {
			c = r.After(c)
		}
		if c != start {
			t.Fatalf("rotating %d times from %q ended at %q", n, start, c)
		}
	}
}

func TestNextWithoutRecognizedCategory(t *testing.T) {
	r := newTestRotator(t)

	if got := r.Next(nil); got != config.Categories[0] {
		t.Fatalf("Next(nil) = %q; want %q", got, config.Categories[0])
	}

	history := []types.Post{post("Release notes", "Changelog", time.Hour)}
	if got := r.Next(history); got != config.Categories[0] {
		t.Fatalf("Next(unlabeled) = %q; want %q", got, config.Categories[0])
	}
}

func TestNextSortsHistoryNewestFirst(t *testing.T) {
	r := newTestRotator(t)

	// deliberately oldest first
	history := []types.Post{
		post("Old", "Fashion", 20*24*time.Hour),
		post("Newer", "Travel", 2*24*time.Hour),
		{Title: "Broken date", Labels: []string{"Productivity"}, RawPublished: "yesterday"},
	}

	last, ok := r.LastUsedCategory(history)
	if !ok || last != "Travel" {
		t.Fatalf("LastUsedCategory = %q, %v; want Travel", last, ok)
	}
	if got := r.Next(history); got != "How-To Guides and Tutorials" {
		t.Fatalf("Next = %q; want How-To Guides and Tutorials", got)
	}
}

func TestNextIgnoresUnparsableTimestamps(t *testing.T) {
	r := newTestRotator(t)
	history := []types.Post{
		{Title: "Undated trip", Labels: []string{"Travel"}, RawPublished: "not-a-date"},
		post("Notes", "misc", time.Hour),
	}

	if last, ok := r.LastUsedCategory(history); ok {
		t.Fatalf("LastUsedCategory = %q, true; want no category", last)
	}
	if got := r.Next(history); got != config.Categories[0] {
		t.Fatalf("Next = %q; want %q", got, config.Categories[0])
	}
}

func TestNextWrapsAround(t *testing.T) {
	r := newTestRotator(t)
	history := []types.Post{post("Top picks", "Lists and Roundups", 10*24*time.Hour)}

	if got := r.Next(history); got != "Personal Life and Stories" {
		t.Fatalf("Next = %q; want wrap to first category", got)
	}
}

func TestBlocked(t *testing.T) {
	r := newTestRotator(t)

	cases := []struct {
		name    string
		history []types.Post
		cat     string
		want    bool
	}{
		{"no posts", nil, "Travel", false},
		{"other label only", []types.Post{post("x", "Fashion", time.Hour)}, "Travel", false},
		{"inside window", []types.Post{post("x", "Travel", 2*24*time.Hour)}, "Travel", true},
		{"at cutoff", []types.Post{post("x", "Travel", 7*24*time.Hour)}, "Travel", true},
		{"outside window", []types.Post{post("x", "Travel", 8*24*time.Hour)}, "Travel", false},
		{"unparsable timestamp", []types.Post{{Title: "x", Labels: []string{"Travel"}, RawPublished: "not-a-date"}}, "Travel", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := r.Blocked(c.cat, c.history); got != c.want {
				t.Fatalf("Blocked(%q) = %v; want %v", c.cat, got, c.want)
			}
		})
	}
}

func TestSelectTravelScenario(t *testing.T) {
	r := newTestRotator(t)
	history := []types.Post{post("A 48-Hour Guide to Monsoon Goa", "Travel", 2*24*time.Hour)}

	sel := r.Select(history)
	if sel.Category != "How-To Guides and Tutorials" {
		t.Fatalf("Category = %q; want How-To Guides and Tutorials", sel.Category)
	}
	if sel.Attempts != 1 || sel.Exhausted {
		t.Fatalf("unexpected escalation: %+v", sel)
	}
	if !r.Blocked("Travel", history) {
		t.Fatal("Travel should stay blocked within the cooldown")
	}
}

func TestSelectSkipsBlockedCandidate(t *testing.T) {
	r := newTestRotator(t)
	history := []types.Post{
		post("newest", "Travel", 1*24*time.Hour),
		post("older", "How-To Guides and Tutorials", 3*24*time.Hour),
	}

	sel := r.Select(history)
	if sel.Category != "Product Reviews" {
		t.Fatalf("Category = %q; want Product Reviews", sel.Category)
	}
	if sel.Attempts != 2 {
		t.Fatalf("Attempts = %d; want 2", sel.Attempts)
	}
}

func TestSelectAllBlocked(t *testing.T) {
	r := newTestRotator(t)

	var history []types.Post
	for i, c := range config.Categories {
		// Fashion is the newest, so rotation starts at Lists and Roundups
		age := time.Duration(len(config.Categories)-i) * time.Hour
		if c == "Fashion" {
			age = time.Minute
		}
		history = append(history, post("p", c, age))
	}

	sel := r.Select(history)
	if !sel.Exhausted {
		t.Fatal("expected exhausted selection")
	}
	if sel.Attempts != len(config.Categories) {
		t.Fatalf("Attempts = %d; want %d", sel.Attempts, len(config.Categories))
	}
	if sel.Category != "Lists and Roundups" {
		t.Fatalf("Category = %q; want rotation candidate Lists and Roundups", sel.Category)
	}
}
