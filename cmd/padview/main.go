package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/padview/padview/internal/app"
	"github.com/padview/padview/internal/config"
	"github.com/padview/padview/internal/conn"
	"github.com/padview/padview/internal/feed"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "padview",
		Usage: "Watch a game controller feed streamed over WebSocket",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "padview.yaml",
				Usage:   "path to config file (defaults are used if it does not exist)",
			},
			&cli.StringFlag{
				Name:  "url",
				Usage: "feed address to put in the address box, e.g. ws://127.0.0.1:8765",
			},
			&cli.BoolFlag{
				Name:  "connect",
				Usage: "connect to --url on startup",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "write logs to this file (the TUI owns the terminal)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "include file and line in log output",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				log.SetFlags(log.LstdFlags | log.Lshortfile)
			}
			return ctx, nil
		},
		Action: runView,
		Commands: []*cli.Command{
			{
				Name:   "view",
				Usage:  "open the viewer (default)",
				Action: runView,
			},
			{
				Name:  "feed",
				Usage: "serve a synthetic controller feed for local testing",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "host", Usage: "listen host"},
					&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "listen port"},
					&cli.FloatFlag{Name: "rate", Usage: "frames per second"},
					&cli.IntFlag{Name: "malformed-every", Usage: "send a malformed frame every N frames (0 disables)"},
				},
				Action: runFeed,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runView(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.LoadOrDefault(cmd.String("config"))
	if err != nil {
		return err
	}
	v := cfg.Viewer
	if cmd.IsSet("url") {
		v.URL = cmd.String("url")
	}
	if cmd.IsSet("log-file") {
		v.LogFile = cmd.String("log-file")
	}

	if v.LogFile != "" {
		f, err := tea.LogToFile(v.LogFile, "padview")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	mgr := conn.NewManager(conn.WebSocketDialer{
		HandshakeTimeout: v.HandshakeTimeout,
		ReadLimit:        v.ReadLimit,
	})

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	m := app.New(ctx, mgr, v, cmd.Bool("connect"))

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !(errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil) {
		return err
	}
	return nil
}

func runFeed(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.LoadOrDefault(cmd.String("config"))
	if err != nil {
		return err
	}
	if cmd.IsSet("host") {
		cfg.Feed.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Feed.Port = cmd.Int("port")
	}
	if cmd.IsSet("rate") {
		cfg.Feed.Rate = cmd.Float("rate")
	}
	if cmd.IsSet("malformed-every") {
		cfg.Feed.MalformedEvery = cmd.Int("malformed-every")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("feed: %.1f frames/s, %d buttons, %d sticks", cfg.Feed.Rate, len(cfg.Feed.Buttons), len(cfg.Feed.Sticks))
	return feed.NewServer(cfg.Feed).ListenAndServe(ctx, cfg.FeedAddr())
}
