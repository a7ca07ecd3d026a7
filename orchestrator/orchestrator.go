package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"blogbot/config"
	"blogbot/deduplication"
	"blogbot/generation"
	"blogbot/rotation"
	"blogbot/types"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

// History reads the blog's recent posts
type History interface {
	RecentPosts(ctx context.Context, lookback time.Duration) ([]types.Post, error)
}

// Publisher creates a post
type Publisher interface {
	Publish(ctx context.Context, content *types.Content, isDraft bool) (*types.Published, error)
}

// Archiver keeps a copy of what was published
type Archiver interface {
	Archive(ctx context.Context, rec ArchiveRecord) error
}

// Deps are the collaborators a Runner is built from. Archiver and Lock are optional.
type Deps struct {
	Tokens    oauth2.TokenSource
	History   History
	Publisher Publisher
	Generator generation.Generator
	Guard     *deduplication.Guard
	Archiver  Archiver
	Lock      Locker
	Out       io.Writer
	Now       func() time.Time
	Logger    *logrus.Logger
}

// Plan is everything decided before publishing
type Plan struct {
	Selection rotation.Selection
	Content   *types.Content
	Repair    deduplication.RepairResult
	History   int
}

// Runner executes one publish cycle: token, history, rotation, generation, title guard, publish.
type Runner struct {
	cfg       config.Config
	tokens    oauth2.TokenSource
	history   History
	publisher Publisher
	generator generation.Generator
	rotator   *rotation.Rotator
	guard     *deduplication.Guard
	archiver  Archiver
	lock      Locker
	out       io.Writer
	now       func() time.Time
	logger    *logrus.Logger
}

// NewRunner validates deps and builds a runner
func NewRunner(cfg config.Config, deps Deps) (*Runner, error) {
	switch {
	case deps.Tokens == nil:
		return nil, errors.New("token source cannot be nil")
	case deps.History == nil:
		return nil, errors.New("history reader cannot be nil")
	case deps.Publisher == nil:
		return nil, errors.New("publisher cannot be nil")
	case deps.Generator == nil:
		return nil, errors.New("generator cannot be nil")
	case deps.Out == nil:
		return nil, errors.New("summary writer cannot be nil")
	}

	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	if deps.Lock == nil {
		deps.Lock = noopLock{}
	}
	if deps.Guard == nil {
		deps.Guard = deduplication.NewGuard(deduplication.GuardConfig{
			SimilarityThreshold: cfg.Freshness.SimilarityThreshold,
			Logger:              deps.Logger,
		})
	}

	rotator, err := rotation.NewRotator(config.Categories, cfg.Freshness.Cooldown, deps.Now)
	if err != nil {
		return nil, err
	}

	return &Runner{
		cfg:       cfg,
		tokens:    deps.Tokens,
		history:   deps.History,
		publisher: deps.Publisher,
		generator: deps.Generator,
		rotator:   rotator,
		guard:     deps.Guard,
		archiver:  deps.Archiver,
		lock:      deps.Lock,
		out:       deps.Out,
		now:       deps.Now,
		logger:    deps.Logger,
	}, nil
}

// Run publishes exactly one post or fails without publishing anything.
func (r *Runner) Run(ctx context.Context) (*types.Summary, error) {
	log := r.logger.WithField("run_id", uuid.NewString())

	release, err := r.lock.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	plan, err := r.plan(ctx, log)
	if err != nil {
		return nil, err
	}

	isDraft := r.cfg.IsDraft()
	pub, err := r.publisher.Publish(ctx, plan.Content, isDraft)
	if err != nil {
		return nil, fmt.Errorf("failed to publish: %w", err)
	}
	log.WithFields(logrus.Fields{
		"post_id": pub.ID,
		"url":     pub.URL,
		"draft":   isDraft,
	}).Info("Post published")

	if r.archiver != nil {
		actx, cancel := context.WithTimeout(ctx, 30*time.Second)
		err := r.archiver.Archive(actx, newArchiveRecord(plan.Content, pub, r.now()))
		cancel()
		if err != nil {
			log.WithError(err).Warn("Archive upload failed; post is already published")
		}
	}

	summary := &types.Summary{
		PostedID: pub.ID,
		URL:      pub.URL,
		Title:    pub.Title,
		Labels:   plan.Content.Labels,
	}
	if err := r.writeSummary(summary); err != nil {
		return summary, err
	}
	return summary, nil
}

// Plan runs every step up to publishing and prints what would be posted.
func (r *Runner) Plan(ctx context.Context) (*Plan, error) {
	log := r.logger.WithField("run_id", uuid.NewString())

	plan, err := r.plan(ctx, log)
	if err != nil {
		return nil, err
	}

	summary := &types.Summary{
		Title:    plan.Content.Title,
		Labels:   plan.Content.Labels,
		Category: plan.Selection.Category,
		DryRun:   true,
	}
	if err := r.writeSummary(summary); err != nil {
		return plan, err
	}
	return plan, nil
}

func (r *Runner) plan(ctx context.Context, log *logrus.Entry) (*Plan, error) {
	if _, err := r.tokens.Token(); err != nil {
		return nil, fmt.Errorf("failed to obtain access token: %w", err)
	}

	posts, err := r.history.RecentPosts(ctx, r.cfg.Freshness.Lookback)
	if err != nil {
		return nil, fmt.Errorf("failed to read post history: %w", err)
	}
	log.WithField("posts", len(posts)).Info("Read post history")

	sel := r.rotator.Select(posts)
	entry := log.WithFields(logrus.Fields{
		"category":  sel.Category,
		"last_used": sel.LastUsed,
		"attempts":  sel.Attempts,
	})
	if sel.Exhausted {
		entry.Warn("Every category is on cooldown; using the rotation candidate")
	} else {
		entry.Info("Selected category")
	}

	angle := generation.AngleNote(sel.Category, r.now())
	content, err := r.generator.Generate(ctx, sel.Category, angle)
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s content with %s: %w", sel.Category, r.generator.Name(), err)
	}

	repair := r.guard.Repair(content.Title, types.Titles(posts))
	if repair.Check.IsDuplicate {
		log.WithFields(logrus.Fields{
			"title":      repair.Original,
			"matching":   repair.Check.MatchingTitle,
			"similarity": repair.Check.SimilarityScore,
			"suffix":     repair.Suffix,
		}).Info("Title collided with recent post; appended suffix")
	}
	content.Title = deduplication.ClampTitle(repair.Title)

	return &Plan{
		Selection: sel,
		Content:   content,
		Repair:    repair,
		History:   len(posts),
	}, nil
}

func (r *Runner) writeSummary(s *types.Summary) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	if _, err := r.out.Write(b); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}
