package main

import (
	"context"
	"errors"
	"fmt"

	"blogbot/config"
	"blogbot/orchestrator"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v2"
)

var scheduleCmd = &cli.Command{
	Name:  "schedule",
	Usage: "stay running and publish on a cron schedule",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "cron",
			Usage: "five-field cron expression (default " + config.EnvCronSchedule + " or \"" + config.DefaultCronSchedule + "\")",
		},
		&cli.BoolFlag{
			Name:  "run-now",
			Usage: "publish once at startup before waiting for the schedule",
		},
	},
	Action: func(cctx *cli.Context) error {
		runner, cfg, logger, closer, err := setup(cctx)
		if err != nil {
			return err
		}
		defer closer()

		ctx, stop := signalContext(cctx)
		defer stop()

		schedule := cctx.String("cron")
		if schedule == "" {
			schedule = cfg.Schedule
		}

		c := cron.New()
		if _, err := c.AddFunc(schedule, func() { scheduledRun(ctx, runner, logger) }); err != nil {
			return fmt.Errorf("failed to add cron job: %w", err)
		}

		if cctx.Bool("run-now") {
			scheduledRun(ctx, runner, logger)
		}

		c.Start()
		logger.WithField("schedule", schedule).Info("Cron job started")

		<-ctx.Done()
		logger.Info("Shutting down scheduler")
		<-c.Stop().Done()
		return nil
	},
}

// scheduledRun logs failures instead of returning them so one bad run does not stop the schedule
func scheduledRun(ctx context.Context, runner *orchestrator.Runner, logger *logrus.Logger) {
	logger.Info("Cron triggered: starting run")
	if _, err := runner.Run(ctx); err != nil {
		if errors.Is(err, orchestrator.ErrLocked) {
			logger.Warn("Cron skipped: another run holds the lock")
			return
		}
		logger.WithError(err).Error("Cron run failed")
	}
}
