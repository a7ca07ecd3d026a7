package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"blogbot/types"

	"github.com/aws/smithy-go"
)

// ObjectStore stores one archive object
type ObjectStore interface {
	Put(ctx context.Context, bucket, key string, body io.Reader, contentType string) error
}

// ArchiveRecord is the JSON document written for every published post
type ArchiveRecord struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Labels      []string  `json:"labels"`
	Draft       bool      `json:"draft"`
	Angle       string    `json:"angle,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	Content     string    `json:"content"`
}

// S3Archiver writes a copy of each published post to a bucket. It is write-only:
// nothing in a run ever reads the archive back.
type S3Archiver struct {
	store  ObjectStore
	bucket string
	prefix string
}

func NewS3Archiver(store ObjectStore, bucket, prefix string) *S3Archiver {
	return &S3Archiver{store: store, bucket: bucket, prefix: prefix}
}

// Key returns the object key for a post id
func (a *S3Archiver) Key(id string) string {
	return a.prefix + "posts/" + id + ".json"
}

func (a *S3Archiver) Archive(ctx context.Context, rec ArchiveRecord) error {
	if rec.ID == "" {
		return errors.New("archive record has no post id")
	}

	b, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}

	if err := a.store.Put(ctx, a.bucket, a.Key(rec.ID), bytes.NewReader(b), "application/json"); err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			return fmt.Errorf("s3 put %s failed (%s): %w", a.Key(rec.ID), apiErr.ErrorCode(), err)
		}
		return fmt.Errorf("s3 put %s failed: %w", a.Key(rec.ID), err)
	}
	return nil
}

func newArchiveRecord(content *types.Content, pub *types.Published, at time.Time) ArchiveRecord {
	return ArchiveRecord{
		ID:          pub.ID,
		URL:         pub.URL,
		Title:       pub.Title,
		Category:    content.Category,
		Labels:      content.Labels,
		Draft:       pub.Draft,
		Angle:       content.Angle,
		PublishedAt: at.UTC(),
		Content:     content.HTML,
	}
}
