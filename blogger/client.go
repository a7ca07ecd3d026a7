package blogger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blogbot/config"
	"blogbot/types"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	bloggerapi "google.golang.org/api/blogger/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Client reads recent posts from a blog and inserts new ones
type Client struct {
	service *bloggerapi.Service
	blogID  string
	logger  *logrus.Logger
	now     func() time.Time
}

// NewClient builds a Blogger v3 client authorized by ts. Extra options are applied last,
// so tests can swap the HTTP client and endpoint.
func NewClient(ctx context.Context, cfg config.BlogConfig, ts oauth2.TokenSource, logger *logrus.Logger, opts ...option.ClientOption) (*Client, error) {
	var clientOpts []option.ClientOption
	if ts != nil {
		clientOpts = append(clientOpts, option.WithTokenSource(ts))
	}
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(cfg.Endpoint))
	}
	clientOpts = append(clientOpts, opts...)

	service, err := bloggerapi.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Blogger service: %w", err)
	}

	return &Client{
		service: service,
		blogID:  cfg.BlogID,
		logger:  logger,
		now:     time.Now,
	}, nil
}

// RecentPosts pages through posts published within lookback, newest first as the API
// orders them. Posts with an unparsable publish date are kept with a zero PublishedAt.
func (c *Client) RecentPosts(ctx context.Context, lookback time.Duration) ([]types.Post, error) {
	cutoff := c.now().Add(-lookback)

	call := c.service.Posts.List(c.blogID).
		OrderBy("published").
		FetchBodies(false).
		MaxResults(config.HistoryPageSize).
		StartDate(cutoff.UTC().Format(time.RFC3339))

	var posts []types.Post
	pages := 0
	err := call.Pages(ctx, func(page *bloggerapi.PostList) error {
		pages++
		for _, item := range page.Items {
			if item == nil {
				continue
			}
			p := toPost(item)
			if !p.HasTimestamp() {
				c.logger.WithFields(logrus.Fields{
					"post_id":   p.ID,
					"published": p.RawPublished,
				}).Debug("Skipping unparsable publish date")
				posts = append(posts, p)
				continue
			}
			if p.PublishedAt.Before(cutoff) {
				continue
			}
			posts = append(posts, p)
		}
		return nil
	})
	if err != nil {
		logAPIError(c.logger, "list posts", err)
		return nil, fmt.Errorf("failed to list posts for blog %s: %w", c.blogID, err)
	}

	c.logger.WithFields(logrus.Fields{
		"pages": pages,
		"posts": len(posts),
	}).Debug("Fetched post history")
	return posts, nil
}

// Publish inserts a post, as a draft when isDraft is set
func (c *Client) Publish(ctx context.Context, content *types.Content, isDraft bool) (*types.Published, error) {
	if content == nil {
		return nil, errors.New("nothing to publish")
	}

	post := &bloggerapi.Post{
		Kind:    "blogger#post",
		Title:   content.Title,
		Content: content.HTML,
		Labels:  content.Labels,
	}

	resp, err := c.service.Posts.Insert(c.blogID, post).IsDraft(isDraft).Context(ctx).Do()
	if err != nil {
		logAPIError(c.logger, "insert post", err)
		return nil, fmt.Errorf("failed to insert post: %w", err)
	}

	return &types.Published{
		ID:     resp.Id,
		URL:    resp.Url,
		Title:  resp.Title,
		Labels: resp.Labels,
		Draft:  isDraft,
	}, nil
}

func toPost(item *bloggerapi.Post) types.Post {
	p := types.Post{
		ID:           item.Id,
		Title:        item.Title,
		URL:          item.Url,
		Labels:       item.Labels,
		RawPublished: item.Published,
	}
	if ts, err := time.Parse(time.RFC3339, item.Published); err == nil {
		p.PublishedAt = ts
	}
	return p
}

func logAPIError(logger *logrus.Logger, op string, err error) {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		logger.WithFields(logrus.Fields{
			"op":     op,
			"status": gerr.Code,
			"body":   gerr.Body,
		}).Error("Blogger API request failed")
		return
	}
	logger.WithError(err).WithField("op", op).Error("Blogger API request failed")
}
