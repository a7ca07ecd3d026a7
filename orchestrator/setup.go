package orchestrator

import (
	"context"
	"io"

	"blogbot/blogger"
	"blogbot/common"
	"blogbot/config"
	"blogbot/generation"

	"github.com/sirupsen/logrus"
)

// NewRunnerFromConfig wires the production collaborators. The returned closer
// releases the redis connection when a lock is configured.
func NewRunnerFromConfig(ctx context.Context, cfg config.Config, out io.Writer, logger *logrus.Logger) (*Runner, func(), error) {
	tokens := blogger.NewTokenSource(ctx, cfg.Blog, logger)

	client, err := blogger.NewClient(ctx, cfg.Blog, tokens, logger)
	if err != nil {
		return nil, nil, err
	}

	gen, err := generation.New(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	deps := Deps{
		Tokens:    tokens,
		History:   client,
		Publisher: client,
		Generator: gen,
		Out:       out,
		Logger:    logger,
	}

	if archiver := initializeArchive(ctx, cfg.Archive, logger); archiver != nil {
		deps.Archiver = archiver
	}

	closer := func() {}
	if cfg.Lock.Addr != "" {
		lock, err := NewRedisLock(cfg.Lock, cfg.Blog.BlogID)
		if err != nil {
			return nil, nil, err
		}
		deps.Lock = lock
		closer = func() { _ = lock.Close() }
	}

	runner, err := NewRunner(cfg, deps)
	if err != nil {
		closer()
		return nil, nil, err
	}
	return runner, closer, nil
}

// initializeArchive returns an S3 archiver if a bucket is configured.
// A client that fails to initialize disables archiving rather than the run.
func initializeArchive(ctx context.Context, cfg config.ArchiveConfig, logger *logrus.Logger) *S3Archiver {
	if cfg.Bucket == "" {
		logger.Debug("S3 not configured; skipping archive")
		return nil
	}

	client, err := common.NewS3(ctx, cfg)
	if err != nil {
		logger.WithError(err).Warn("Failed to init S3 client; archive disabled")
		return nil
	}

	logger.WithFields(logrus.Fields{
		"bucket": cfg.Bucket,
		"prefix": cfg.Prefix,
	}).Info("Archiving published posts to S3")
	return NewS3Archiver(client, cfg.Bucket, cfg.Prefix)
}
