package generation

import (
	"bytes"
	"context"
	"html"
	"html/template"
	"strings"
	"time"

	"blogbot/config"
	"blogbot/types"
)

// categoryTitles seeds one working title per rotation category
var categoryTitles = map[string]string{
	"Personal Life and Stories":   "A Small Habit That Changed My Week",
	"Food and Recipes":            "A 30-Minute Weeknight Paneer Stir-Fry",
	"Travel":                      "A 48-Hour Guide to Monsoon Goa",
	"How-To Guides and Tutorials": "A Step-by-Step Guide to Inbox Zero",
	"Product Reviews":             "Hands-On Review: Budget ANC Headphones",
	"Money and Finance":           "A Simple Plan to Cut Monthly Bills",
	"Productivity":                "Beat Afternoon Slumps With A 20-Min Reset",
	"Health and Fitness":          "A Beginner’s 20-Min Mobility Routine",
	"Fashion":                     "Late-Monsoon Wardrobe: 7 Smart Picks",
	"Lists and Roundups":          "9 Free Tools To Automate Daily Tasks",
}

const (
	featureImageURL = "https://images.unsplash.com/photo-1500530855697-b586d89ba3ee?w=1200&q=80"
	inlineImageURL  = "https://images.unsplash.com/photo-1496307042754-b4aa456c4a2d?w=1200&q=80"
	metaDescription = "Practical, timely tips aligned to this week’s schedule. Read in minutes."
	metaTitleMax    = 60
)

var postTemplate = template.Must(template.New("post").Parse(`
{{.Comments}}

<h1>{{.Title}}</h1>
<p><em>By Automation Bot • {{.Date}}</em></p>

<p><strong>TL;DR</strong></p>
<ul>
  <li>Timely, practical takeaways you can apply today.</li>
  <li>Clear steps with a quick checklist.</li>
  <li>One brief case example for context.</li>
  <li>Two relevant images with credits.</li>
</ul>

<p>Here’s a timely, helpful read aligned to the category: {{.Category}}.</p>

<img src="{{.FeatureImage}}" alt="Category-related visual showing context" />
<p><em>A relevant visual that anchors the topic without distracting.</em></p>
<p><small>Photo: Unsplash (CC0/Link)</small></p>

<h2>Key steps</h2>
<ol>
  <li>Start with a clear goal for the session.</li>
  <li>Follow a short, repeatable framework.</li>
  <li>Use the checklist to verify results.</li>
</ol>

<h3>Case example</h3>
<p>In a real week, a small 20-minute window applied consistently yielded measurable progress and fewer context switches.</p>

<blockquote><strong>Pro tip:</strong> Batch similar tasks to reduce switching costs and protect energy.</blockquote>

<h2>Checklist</h2>
<ul>
  <li>Define outcome in one sentence.</li>
  <li>List 3 steps and a 10-minute fallback plan.</li>
  <li>Confirm one clear next action.</li>
</ul>

<img src="{{.InlineImage}}" alt="Secondary visual reinforcing the main idea" />
<p><em>Another lightweight visual that reinforces the main point.</em></p>
<p><small>Photo: Unsplash (CC0/Link)</small></p>

<h2>Conclusion</h2>
<p>Keep it short, structured, and consistent. This is how useful habits compound over time.</p>

<p><strong>Enjoyed this? Leave a comment with your thoughts or questions.</strong></p>
<p><strong>Love practical reads like this? Follow the blog for three new posts every week.</strong></p>

<h3>What to read next</h3>
<ul>
  <li>[Link: Related Post Title 1]</li>
  <li>[Link: Related Post Title 2]</li>
  <li>[Link: Related Post Title 3]</li>
</ul>
`))

type postView struct {
	Comments     template.HTML
	Title        string
	Date         string
	Category     string
	FeatureImage string
	InlineImage  string
}

// TemplateGenerator renders a fixed HTML layout around a per-category title.
// It needs no network access.
type TemplateGenerator struct {
	loc *time.Location
	now func() time.Time
}

func NewTemplateGenerator(loc *time.Location, now func() time.Time) *TemplateGenerator {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &TemplateGenerator{loc: loc, now: now}
}

func (g *TemplateGenerator) Name() string { return config.GeneratorTemplate }

// Title returns the clamped working title for category
func (g *TemplateGenerator) Title(category string) string {
	title, ok := categoryTitles[category]
	if !ok {
		title = "Fresh Notes on " + category
	}
	return clampWords(title, category, config.GeneratedTitleMinWords, config.GeneratedTitleMaxWords)
}

func (g *TemplateGenerator) Generate(ctx context.Context, category, angle string) (*types.Content, error) {
	title := g.Title(category)
	body, err := g.render(title, category, angle)
	if err != nil {
		return nil, err
	}

	return &types.Content{
		Category: category,
		Title:    title,
		HTML:     body,
		Labels:   []string{category},
		Angle:    angle,
	}, nil
}

func (g *TemplateGenerator) render(title, category, angle string) (string, error) {
	metaTitle := title
	if r := []rune(metaTitle); len(r) > metaTitleMax {
		metaTitle = string(r[:metaTitleMax])
	}

	var buf bytes.Buffer
	err := postTemplate.Execute(&buf, postView{
		Comments: htmlComments(
			"Angle: "+angle,
			"Meta Title: "+metaTitle,
			"Meta Description: "+metaDescription,
		),
		Title:        title,
		Date:         g.now().In(g.loc).Format("2006-01-02"),
		Category:     category,
		FeatureImage: featureImageURL,
		InlineImage:  inlineImageURL,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// htmlComments renders one escaped HTML comment per line. html/template strips
// comments written in the template itself, so they are built here.
func htmlComments(lines ...string) template.HTML {
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		line = strings.ReplaceAll(html.EscapeString(line), "--", "- -")
		b.WriteString("<!-- " + line + " -->")
	}
	return template.HTML(b.String())
}

// titleFillers pad a title once the category has no unused words left
var titleFillers = strings.Fields("Practical Tips and Ideas for This Week")

// clampWords pads a title up to minWords, first with category words it does not
// already contain, then with titleFillers, and truncates it to maxWords.
func clampWords(title, category string, minWords, maxWords int) string {
	words := strings.Fields(title)

	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		seen[strings.ToLower(w)] = struct{}{}
	}
	pad := func(candidates []string, unique bool) {
		for _, w := range candidates {
			if len(words) >= minWords {
				return
			}
			if _, ok := seen[strings.ToLower(w)]; ok && unique {
				continue
			}
			seen[strings.ToLower(w)] = struct{}{}
			words = append(words, w)
		}
	}
	pad(strings.Fields(category), true)
	pad(titleFillers, true)
	for len(words) < minWords {
		pad(titleFillers, false)
	}

	if len(words) > maxWords {
		words = words[:maxWords]
	}
	return strings.Join(words, " ")
}
