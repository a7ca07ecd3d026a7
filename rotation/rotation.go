package rotation

import (
	"fmt"
	"sort"
	"time"

	"blogbot/types"
)

// Selection is the outcome of one category pick
type Selection struct {
	Category string `json:"category"`
	// LastUsed is the most recent category found in history, empty if none
	LastUsed string `json:"last_used,omitempty"`
	// Attempts counts cooldown checks made while escalating
	Attempts int `json:"attempts"`
	// Exhausted is set when every category was on cooldown and the rotation candidate was used anyway
	Exhausted bool `json:"exhausted"`
}

// Rotator picks the next category cyclically, skipping categories on cooldown.
// It keeps no state between runs: every decision is derived from the history passed in.
type Rotator struct {
	categories []string
	index      map[string]int
	cooldown   time.Duration
	now        func() time.Time
}

// NewRotator builds a rotator over an ordered, duplicate-free category list.
func NewRotator(categories []string, cooldown time.Duration, now func() time.Time) (*Rotator, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("category list cannot be empty")
	}
	if now == nil {
		now = time.Now
	}

	index := make(map[string]int, len(categories))
	for i, c := range categories {
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("duplicate category %q", c)
		}
		index[c] = i
	}

	return &Rotator{
		categories: append([]string(nil), categories...),
		index:      index,
		cooldown:   cooldown,
		now:        now,
	}, nil
}

// Categories returns a copy of the rotation order
func (r *Rotator) Categories() []string {
	return append([]string(nil), r.categories...)
}

// After returns the category following c in rotation order.
// Unknown categories yield the first category.
func (r *Rotator) After(c string) string {
	i, ok := r.index[c]
	if !ok {
		return r.categories[0]
	}
	return r.categories[(i+1)%len(r.categories)]
}

// LastUsedCategory returns the first recognized label of the newest post carrying one.
// History is sorted here rather than trusting the order the API returned.
// Posts without a parsable timestamp are skipped.
func (r *Rotator) LastUsedCategory(posts []types.Post) (string, bool) {
	for _, p := range sortNewestFirst(posts) {
		if !p.HasTimestamp() {
			continue
		}
		for _, label := range p.Labels {
			if _, ok := r.index[label]; ok {
				return label, true
			}
		}
	}
	return "", false
}

// Next returns the category after the last used one, or the first category
// when no post carries a recognized label.
func (r *Rotator) Next(posts []types.Post) string {
	last, ok := r.LastUsedCategory(posts)
	if !ok {
		return r.categories[0]
	}
	return r.After(last)
}

// Blocked reports whether a post labeled category was published within the cooldown window.
// Posts without a parsable timestamp never block.
func (r *Rotator) Blocked(category string, posts []types.Post) bool {
	cutoff := r.now().Add(-r.cooldown)
	for _, p := range posts {
		if !p.HasLabel(category) || !p.HasTimestamp() {
			continue
		}
		if !p.PublishedAt.Before(cutoff) {
			return true
		}
	}
	return false
}

// Select runs the rotation and escalates past blocked categories, advancing at most
// once through the whole list. When every category is blocked the rotation candidate
// is returned with Exhausted set; this is never an error.
func (r *Rotator) Select(posts []types.Post) Selection {
	last, _ := r.LastUsedCategory(posts)
	first := r.Next(posts)

	sel := Selection{Category: first, LastUsed: last}
	candidate := first
	for sel.Attempts < len(r.categories) {
		sel.Attempts++
		if !r.Blocked(candidate, posts) {
			sel.Category = candidate
			return sel
		}
		candidate = r.After(candidate)
	}

	sel.Category = candidate
	sel.Exhausted = true
	return sel
}

func sortNewestFirst(posts []types.Post) []types.Post {
	sorted := append([]types.Post(nil), posts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.HasTimestamp() != b.HasTimestamp() {
			return a.HasTimestamp()
		}
		return a.PublishedAt.After(b.PublishedAt)
	})
	return sorted
}
