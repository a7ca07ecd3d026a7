package generation

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"blogbot/config"
	"blogbot/types"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
	"github.com/sirupsen/logrus"
)

const defaultMasterPrompt = `You write practical, friendly blog posts for a general audience.
Write one complete post in Markdown. Start with a single "# " title line of 8 to 12 words.
Include a short TL;DR list, clear steps, one brief case example, a checklist and a conclusion.
Do not include labels such as "H2:" and do not wrap the answer in code fences.`

// chatFunc sends one prompt and returns the model's text
type chatFunc func(ctx context.Context, prompt string) (string, error)

// CohereGenerator asks the Cohere chat API for a Markdown post and renders it to HTML.
// Titles fall back to the template table when the model omits a heading.
type CohereGenerator struct {
	chat     chatFunc
	model    string
	prompt   string
	renderer *MarkdownRenderer
	fallback *TemplateGenerator
	logger   *logrus.Logger
}

// NewCohereGenerator builds a generator backed by the Cohere API
func NewCohereGenerator(cfg config.GenerationConfig, fallback *TemplateGenerator, logger *logrus.Logger) (*CohereGenerator, error) {
	if cfg.CohereAPIKey == "" {
		return nil, errors.New("cohere generator requires an API key")
	}
	model := cfg.CohereModel
	if model == "" {
		model = config.DefaultCohereModel
	}

	// HTTP/1.1 only
	httpClient := &http.Client{
		Timeout: 120 * time.Second,
		Transport: &http.Transport{
			TLSNextProto:      make(map[string]func(authority string, c *tls.Conn) http.RoundTripper),
			ForceAttemptHTTP2: false,
		},
	}
	client := cohereclient.NewClient(
		cohereclient.WithToken(cfg.CohereAPIKey),
		cohereclient.WithHTTPClient(httpClient),
	)

	chat := func(ctx context.Context, prompt string) (string, error) {
		temperature := 0.7
		resp, err := client.Chat(ctx, &cohere.ChatRequest{
			Message:     prompt,
			Model:       &model,
			Temperature: &temperature,
		})
		if err != nil {
			return "", fmt.Errorf("cohere chat error: %w", err)
		}
		if resp == nil {
			return "", errors.New("cohere chat returned empty response")
		}
		return resp.Text, nil
	}

	return newCohereGenerator(chat, model, cfg.MasterPrompt, fallback, logger), nil
}

func newCohereGenerator(chat chatFunc, model, prompt string, fallback *TemplateGenerator, logger *logrus.Logger) *CohereGenerator {
	if strings.TrimSpace(prompt) == "" {
		prompt = defaultMasterPrompt
	}
	if fallback == nil {
		fallback = NewTemplateGenerator(nil, nil)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &CohereGenerator{
		chat:     chat,
		model:    model,
		prompt:   prompt,
		renderer: NewMarkdownRenderer(),
		fallback: fallback,
		logger:   logger,
	}
}

func (g *CohereGenerator) Name() string { return config.GeneratorCohere }

func (g *CohereGenerator) Generate(ctx context.Context, category, angle string) (*types.Content, error) {
	text, err := g.chat(ctx, g.buildPrompt(category, angle))
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("cohere returned no text")
	}

	title, body, ok := splitTitle(text)
	if !ok {
		title = g.fallback.Title(category)
		g.logger.WithFields(logrus.Fields{
			"category": category,
			"title":    title,
		}).Warn("Generated post had no title heading; using template title")
	}

	rendered, err := g.renderer.Render(body)
	if err != nil {
		return nil, fmt.Errorf("failed to render generated markdown: %w", err)
	}

	return &types.Content{
		Category: category,
		Title:    title,
		HTML:     string(htmlComments("Angle: "+angle, "Model: "+g.model)) + "\n" + rendered,
		Labels:   []string{category},
		Angle:    angle,
	}, nil
}

func (g *CohereGenerator) buildPrompt(category, angle string) string {
	var b strings.Builder
	b.WriteString(g.prompt)
	b.WriteString("\n\nCategory: ")
	b.WriteString(category)
	b.WriteString("\nAngle: ")
	b.WriteString(angle)
	return b.String()
}
