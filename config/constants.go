package config

import "time"

// Rotation Constants
const (
	// DefaultCooldown blocks a category for this long after its last post
	DefaultCooldown = 7 * 24 * time.Hour

	// DefaultLookback bounds how far back post history is read
	DefaultLookback = 30 * 24 * time.Hour
)

// Categories is the fixed rotation order. Labels must match the blog's labels exactly.
var Categories = []string{
	"Personal Life and Stories",
	"Food and Recipes",
	"Travel",
	"How-To Guides and Tutorials",
	"Product Reviews",
	"Money and Finance",
	"Productivity",
	"Health and Fitness",
	"Fashion",
	"Lists and Roundups",
}

// Title Constants
const (
	// DefaultSimilarityThreshold flags a title whose Jaccard score reaches it
	DefaultSimilarityThreshold = 0.8

	// MinTitleWords is the shortest title allowed at publish time
	MinTitleWords = 6

	// MaxTitleWords is the longest title allowed at publish time
	MaxTitleWords = 14

	// TitlePadPhrase is appended to titles shorter than MinTitleWords
	TitlePadPhrase = " — A Practical Guide"

	// GeneratedTitleMinWords and GeneratedTitleMaxWords bound template titles
	GeneratedTitleMinWords = 8
	GeneratedTitleMaxWords = 12
)

// TitleSuffixes are the alternatives tried when a title collides with history
var TitleSuffixes = []string{" Today", " Essentials", " Guide", " In Focus"}

// Blogger Constants
const (
	// HistoryPageSize is maxResults for each posts.list page
	HistoryPageSize = 50

	// DefaultTimezone dates the byline of generated posts
	DefaultTimezone = "Asia/Kolkata"
)

// Generation Constants
const (
	GeneratorTemplate = "template"
	GeneratorCohere   = "cohere"

	DefaultCohereModel = "command-r"
)

// Scheduling Constants
const (
	// DefaultCronSchedule publishes three times a week
	DefaultCronSchedule = "0 9 * * 1,3,5"

	// DefaultLockTTL expires a stale run lock
	DefaultLockTTL = 10 * time.Minute
)
