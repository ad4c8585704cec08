package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &cli.App{
		Name:  "rxdemo",
		Usage: "Watch cold, hot and shared streams side by side",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Config file (yaml, json or toml); GRX_ environment variables override it",
			},
			&cli.DurationFlag{
				Name:  "period",
				Usage: "Interval between two values (rxdemo.period, default 500ms)",
			},
			&cli.IntFlag{
				Name:  "count",
				Usage: "Number of values each stream produces (rxdemo.count, default 5)",
			},
			&cli.DurationFlag{
				Name:  "late",
				Usage: "Delay before the late observer subscribes (rxdemo.late, default 4s)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "cold",
				Usage:  "Three observers subscribing one period apart each get their own interval",
				Action: action(runCold),
			},
			{
				Name:   "hot",
				Usage:  "Three observers subscribing one period apart share one subject",
				Action: action(runHot),
			},
			{
				Name:   "publish",
				Usage:  "Multicast with a persistent subject; the late observer only sees completion",
				Action: action(runPublish),
			},
			{
				Name:   "share",
				Usage:  "Multicast with ref counting; the late observer restarts the interval",
				Action: action(runShare),
			},
			{
				Name:   "operators",
				Usage:  "Filter, map and recover over a small book catalogue",
				Action: action(runOperators),
			},
			{
				Name:  "fetch",
				Usage: "GET a URL as a one-shot stream",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "url",
						Usage:    "URL to fetch",
						Required: true,
					},
				},
				Action: action(runFetch),
			},
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func action(run func(*cli.Context, *demo) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		d, err := newDemo(c)
		if err != nil {
			return err
		}
		if err := run(c, d); err != nil {
			return err
		}
		return d.wait(c.Context)
	}
}
