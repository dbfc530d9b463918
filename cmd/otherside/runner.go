package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/mikequentel/otherside/internal/config"
	"github.com/mikequentel/otherside/internal/listsync"
	"github.com/mikequentel/otherside/internal/model"
	"github.com/mikequentel/otherside/internal/twitterapi"
	"github.com/mikequentel/otherside/internal/web"
)

type runner struct {
	out    io.Writer
	logger *log.Logger

	// connect overrides the platform connector; nil uses twitterapi.
	connect listsync.Connect
}

func (r *runner) load(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		r.logger.SetLevel(lvl)
	}
	return cfg, nil
}

func (r *runner) workflow(cfg *config.Config) *listsync.Workflow {
	connect := r.connect
	if connect == nil {
		conn := twitterapi.Connector{
			ConsumerKey:    cfg.Twitter.ConsumerKey,
			ConsumerSecret: cfg.Twitter.ConsumerSecret,
			Timeout:        cfg.Twitter.APITimeout.Duration,
		}
		connect = conn.Connect
	}
	return listsync.New(connect, listsync.Options{
		BatchSize:    cfg.Sync.BatchSize,
		FollowerPage: cfg.Sync.FollowerPage,
		ListMode:     cfg.Sync.ListMode,
		Description:  cfg.Sync.ListDescription,
		BatchRate:    cfg.Sync.BatchRate,
		Logger:       r.logger,
	})
}

func (r *runner) serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := r.load(cmd)
	if err != nil {
		return err
	}
	srv := web.New(r.workflow(cfg), cfg.Twitter.WebBaseURL, r.logger)
	return srv.Run(ctx, cfg.Server.Addr)
}

func (r *runner) sync(ctx context.Context, cmd *cli.Command) error {
	cfg, err := r.load(cmd)
	if err != nil {
		return err
	}
	creds := model.Credentials{AccessToken: cmd.String("token"), AccessSecret: cmd.String("secret")}

	res, err := r.workflow(cfg).Sync(ctx, creds, cmd.String("target"))
	if err != nil {
		if m, ok := web.MessageFor(listsync.CodeOf(err)); ok {
			return fmt.Errorf("%s: %w", m.Title, err)
		}
		return err
	}

	fmt.Fprintf(r.out, "%s%s\n", strings.TrimRight(cfg.Twitter.WebBaseURL, "/"), res.RedirectURI)
	fmt.Fprintf(r.out, "followers: %d  batches: %d  failed batches: %d (%d members)\n",
		res.Followers, res.Batches, len(res.Failures), res.FailedMembers())
	return nil
}

func (r *runner) initConfig(_ context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if err := config.WriteExample(path); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "wrote %s\n", path)
	return nil
}
