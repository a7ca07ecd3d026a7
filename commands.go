package main

import (
	"errors"

	"blogbot/orchestrator"

	cli "github.com/urfave/cli/v2"
)

var publishCmd = &cli.Command{
	Name:  "publish",
	Usage: "select a category, generate a post and publish it once",
	Action: func(cctx *cli.Context) error {
		runner, _, logger, closer, err := setup(cctx)
		if err != nil {
			return err
		}
		defer closer()

		ctx, stop := signalContext(cctx)
		defer stop()

		if _, err := runner.Run(ctx); err != nil {
			if errors.Is(err, orchestrator.ErrLocked) {
				logger.Warn("Another run is publishing to this blog; nothing to do")
			} else {
				logger.WithError(err).Error("Run failed")
			}
			return err
		}
		return nil
	},
}

var planCmd = &cli.Command{
	Name:  "plan",
	Usage: "show the category and title the next run would publish, without publishing",
	Action: func(cctx *cli.Context) error {
		runner, _, logger, closer, err := setup(cctx)
		if err != nil {
			return err
		}
		defer closer()

		ctx, stop := signalContext(cctx)
		defer stop()

		if _, err := runner.Plan(ctx); err != nil {
			logger.WithError(err).Error("Plan failed")
			return err
		}
		return nil
	},
}
