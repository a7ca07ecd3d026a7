package types

import (
	"strings"
	"time"
)

// Post is a read-only snapshot of a post returned by the blog's list API
type Post struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	URL          string    `json:"url,omitempty"`
	Labels       []string  `json:"labels,omitempty"`
	PublishedAt  time.Time `json:"published_at"`
	RawPublished string    `json:"published"`
}

// HasLabel reports whether the post carries the given label
func (p Post) HasLabel(label string) bool {
	for _, l := range p.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// HasTimestamp is false when the publish timestamp could not be parsed
func (p Post) HasTimestamp() bool {
	return !p.PublishedAt.IsZero()
}

// Content is a generated post ready for the duplicate guard and the publisher
type Content struct {
	Category string   `json:"category"`
	Title    string   `json:"title"`
	HTML     string   `json:"content"`
	Labels   []string `json:"labels"`
	Angle    string   `json:"angle,omitempty"`
}

// Published is the publisher's echo of a newly created post
type Published struct {
	ID     string   `json:"id"`
	URL    string   `json:"url"`
	Title  string   `json:"title"`
	Labels []string `json:"labels"`
	Draft  bool     `json:"draft"`
}

// Summary is the machine-readable record printed at the end of a run
type Summary struct {
	PostedID string   `json:"postedId,omitempty"`
	URL      string   `json:"url,omitempty"`
	Title    string   `json:"title"`
	Labels   []string `json:"labels"`
	Category string   `json:"category,omitempty"`
	DryRun   bool     `json:"dryRun,omitempty"`
}

// Titles returns the non-empty titles of posts
func Titles(posts []Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		if strings.TrimSpace(p.Title) != "" {
			out = append(out, p.Title)
		}
	}
	return out
}
