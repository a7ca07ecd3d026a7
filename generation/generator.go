package generation

import (
	"context"
	"fmt"
	"time"

	"blogbot/config"
	"blogbot/types"

	"github.com/sirupsen/logrus"
)

// Generator produces the title, HTML body and labels for one category
type Generator interface {
	Generate(ctx context.Context, category, angle string) (*types.Content, error)
	Name() string
}

// New returns the generator selected by cfg.Generation.Kind
func New(cfg config.Config, logger *logrus.Logger) (Generator, error) {
	tmpl := NewTemplateGenerator(cfg.Blog.Location, time.Now)

	switch cfg.Generation.Kind {
	case "", config.GeneratorTemplate:
		return tmpl, nil
	case config.GeneratorCohere:
		return NewCohereGenerator(cfg.Generation, tmpl, logger)
	default:
		return nil, fmt.Errorf("unknown generator %q", cfg.Generation.Kind)
	}
}

// AngleNote describes this week's angle for a category; it ends up as an HTML comment
func AngleNote(category string, now time.Time) string {
	return fmt.Sprintf("Fresh weekly angle for %s - %s", category, now.Format("2006-01-02"))
}
