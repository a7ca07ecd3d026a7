package deduplication

import (
	"math/rand"
	"strings"
	"time"

	"blogbot/config"

	"github.com/sirupsen/logrus"
)

// DuplicateResult describes the closest historical title found for a candidate
type DuplicateResult struct {
	IsDuplicate     bool    `json:"is_duplicate"`
	Exact           bool    `json:"exact,omitempty"`
	MatchingTitle   string  `json:"matching_title,omitempty"`
	SimilarityScore float64 `json:"similarity_score"`
}

// RepairResult is the title that goes to the publisher plus how it got there
type RepairResult struct {
	Title    string          `json:"title"`
	Original string          `json:"original"`
	Suffix   string          `json:"suffix,omitempty"`
	Check    DuplicateResult `json:"check"`
	// StillDuplicate is set when no suffix cleared the history; the title is published anyway
	StillDuplicate bool `json:"still_duplicate,omitempty"`
}

// Guard checks generated titles against recent history and repairs collisions
type Guard struct {
	threshold float64
	suffixes  []string
	rnd       *rand.Rand
	logger    *logrus.Logger
}

// GuardConfig holds configuration for the title guard
type GuardConfig struct {
	SimilarityThreshold float64  // Default: 0.8
	Suffixes            []string // Default: config.TitleSuffixes
	// Rand picks the suffix order. Tests pass a seeded source.
	Rand   *rand.Rand
	Logger *logrus.Logger
}

// NewGuard creates a title guard, filling unset fields with defaults
func NewGuard(cfg GuardConfig) *Guard {
	cfg = applyGuardDefaults(cfg)
	return &Guard{
		threshold: cfg.SimilarityThreshold,
		suffixes:  cfg.Suffixes,
		rnd:       cfg.Rand,
		logger:    cfg.Logger,
	}
}

// Threshold returns the similarity score at which titles are considered duplicates
func (g *Guard) Threshold() float64 { return g.threshold }

// Check compares title against every historical title and reports the best match.
// An exact match (ignoring case and surrounding whitespace) wins immediately.
func (g *Guard) Check(title string, history []string) DuplicateResult {
	var best DuplicateResult
	for _, h := range history {
		if exactMatch(title, h) {
			return DuplicateResult{
				IsDuplicate:     true,
				Exact:           true,
				MatchingTitle:   h,
				SimilarityScore: 1,
			}
		}

		score := Similarity(title, h)
		if score > best.SimilarityScore {
			best.SimilarityScore = score
			best.MatchingTitle = h
		}
	}

	best.IsDuplicate = best.SimilarityScore >= g.threshold
	if !best.IsDuplicate && best.SimilarityScore == 0 {
		best.MatchingTitle = ""
	}
	return best
}

// IsDuplicate is Check reduced to its verdict
func (g *Guard) IsDuplicate(title string, history []string) bool {
	return g.Check(title, history).IsDuplicate
}

// IsDuplicate reports whether title matches any history title exactly or reaches threshold
func IsDuplicate(title string, history []string, threshold float64) bool {
	for _, h := range history {
		if exactMatch(title, h) || Similarity(title, h) >= threshold {
			return true
		}
	}
	return false
}

// Repair appends exactly one suffix to a colliding title. Suffixes are tried in a random
// order and the first one that clears history wins; if none does, the first drawn suffix
// is kept. Titles that do not collide are returned unchanged.
func (g *Guard) Repair(title string, history []string) RepairResult {
	res := RepairResult{Title: title, Original: title}
	res.Check = g.Check(title, history)
	if !res.Check.IsDuplicate || len(g.suffixes) == 0 {
		return res
	}

	order := g.rnd.Perm(len(g.suffixes))
	for _, i := range order {
		candidate := strings.TrimSpace(title) + g.suffixes[i]
		if !g.IsDuplicate(candidate, history) {
			res.Title = candidate
			res.Suffix = g.suffixes[i]
			return res
		}
	}

	res.Suffix = g.suffixes[order[0]]
	res.Title = strings.TrimSpace(title) + res.Suffix
	res.StillDuplicate = true
	g.logger.WithFields(logrus.Fields{
		"title":    res.Title,
		"matching": res.Check.MatchingTitle,
	}).Warn("No suffix cleared the duplicate check; publishing best effort title")
	return res
}

// ClampTitle pads short titles with config.TitlePadPhrase and truncates long ones
// to config.MaxTitleWords words.
func ClampTitle(title string) string {
	words := strings.Fields(title)
	if len(words) < config.MinTitleWords {
		return strings.TrimSpace(strings.Join(words, " ") + config.TitlePadPhrase)
	}
	if len(words) > config.MaxTitleWords {
		words = words[:config.MaxTitleWords]
	}
	return strings.Join(words, " ")
}

func applyGuardDefaults(cfg GuardConfig) GuardConfig {
	if cfg.SimilarityThreshold == 0 {
		cfg.SimilarityThreshold = config.DefaultSimilarityThreshold
	}
	if cfg.Suffixes == nil {
		cfg.Suffixes = config.TitleSuffixes
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	return cfg
}
