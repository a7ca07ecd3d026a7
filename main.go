package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"blogbot/config"
	"blogbot/logging"
	"blogbot/orchestrator"

	"github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v2"
)

const serviceName = "blogbot"

func main() {
	app := cli.NewApp()
	app.Name = serviceName
	app.Usage = "publish one fresh, non-duplicate post to a Blogger blog"
	app.Action = publishCmd.Action
	app.Commands = []*cli.Command{
		publishCmd,
		planCmd,
		scheduleCmd,
		similarityCmd,
	}

	app.RunAndExitOnError()
}

// setup loads the environment and builds a runner. The returned closer must be called.
func setup(cctx *cli.Context) (*orchestrator.Runner, config.Config, *logrus.Logger, func(), error) {
	logger := logging.NewLogger(serviceName)
	config.LoadEnv(logger)

	cfg, err := config.Load()
	if err != nil {
		var verr config.ValidationError
		if errors.As(err, &verr) {
			logger.WithField("fields", verr.Fields()).Error("Missing or invalid configuration")
		}
		return nil, cfg, logger, nil, err
	}

	runner, closer, err := orchestrator.NewRunnerFromConfig(cctx.Context, cfg, cctx.App.Writer, logger)
	if err != nil {
		return nil, cfg, logger, nil, fmt.Errorf("setup failed: %w", err)
	}
	return runner, cfg, logger, closer, nil
}

func signalContext(cctx *cli.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cctx.Context, os.Interrupt, syscall.SIGTERM)
}
