package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/toptracks/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the web service until SIGINT or SIGTERM.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if cmd.IsSet("host") {
		r.config.Server.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		r.config.Server.Port = cmd.Int("port")
	}

	if err := r.config.Validate(); err != nil {
		return err
	}
	provider, err := r.requireProvider()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.logger.Info("starting web service",
		"addr", r.config.Server.Addr(),
		"environment", r.config.Server.Environment,
		"secure_cookies", r.config.Server.IsProduction(),
	)
	return server.NewApp(r.config.Server, provider, r.metrics, r.logger).Run(ctx)
}
