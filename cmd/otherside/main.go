package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/mikequentel/otherside/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := &runner{out: os.Stdout, logger: config.NewLogger(nil, "info")}
	if err := newApp(r).Run(ctx, os.Args); err != nil {
		r.logger.Fatal("otherside", "err", err)
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func newApp(r *runner) *cli.Command {
	return &cli.Command{
		Name:  "otherside",
		Usage: "Mirror an account's followers into a private Twitter list",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the web form",
				Flags:  []cli.Flag{configFlag()},
				Action: r.serve,
			},
			{
				Name:  "sync",
				Usage: "Sync one target's followers into your list",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "target",
						Aliases:  []string{"t"},
						Usage:    "Screen name whose followers are listed",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "token",
						Usage:   "OAuth access token",
						Sources: cli.EnvVars("X_ACCESS_TOKEN"),
					},
					&cli.StringFlag{
						Name:    "secret",
						Usage:   "OAuth access secret",
						Sources: cli.EnvVars("X_ACCESS_SECRET"),
					},
				},
				Action: r.sync,
			},
			{
				Name:   "init",
				Usage:  "Write an example configuration file",
				Flags:  []cli.Flag{configFlag()},
				Action: r.initConfig,
			},
		},
	}
}
