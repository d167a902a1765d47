package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Black-And-White-Club/poptrivia/app"
	"github.com/Black-And-White-Club/poptrivia/app/shared/observability/attr"
	"github.com/Black-And-White-Club/poptrivia/config"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newCLI().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "poptrivia: %v\n", err)
		cancel()
		os.Exit(1)
	}
}

func newCLI() *cli.App {
	limitFlag := &cli.IntFlag{
		Name:  "limit",
		Usage: "number of scores to include (defaults to game.leaderboard_size)",
	}
	outFlag := func(usage string) *cli.StringFlag {
		return &cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: usage, Required: true}
	}

	return &cli.App{
		Name:  "poptrivia",
		Usage: "guess which of two countries has the larger population",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"POPTRIVIA_CONFIG"},
			},
		},
		Action: withApp(func(c *cli.Context, a *app.App) error {
			return a.Play(c.Context)
		}),
		Commands: []*cli.Command{
			{
				Name:  "play",
				Usage: "play a game and record the score (default)",
				Action: withApp(func(c *cli.Context, a *app.App) error {
					return a.Play(c.Context)
				}),
			},
			{
				Name:  "leaderboard",
				Usage: "print the best scores",
				Flags: []cli.Flag{limitFlag},
				Action: withApp(func(c *cli.Context, a *app.App) error {
					return a.Leaderboard(c.Context, limit(c, a))
				}),
			},
			{
				Name:  "refresh",
				Usage: "refetch the country data and rewrite the cache",
				Action: withApp(func(c *cli.Context, a *app.App) error {
					return a.Refresh(c.Context)
				}),
			},
			{
				Name:  "export",
				Usage: "write the leaderboard to an XLSX workbook",
				Flags: []cli.Flag{outFlag("workbook path, e.g. leaderboard.xlsx"), limitFlag},
				Action: withApp(func(c *cli.Context, a *app.App) error {
					return a.Export(c.Context, c.String("out"), limit(c, a))
				}),
			},
			{
				Name:  "chart",
				Usage: "render the leaderboard as a PNG bar chart",
				Flags: []cli.Flag{outFlag("image path, e.g. leaderboard.png"), limitFlag},
				Action: withApp(func(c *cli.Context, a *app.App) error {
					return a.Chart(c.Context, c.String("out"), limit(c, a))
				}),
			},
		},
	}
}

// withApp loads the configuration, builds the App for one command and
// closes it afterwards.
func withApp(run func(c *cli.Context, a *app.App) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := config.LoadConfig(c.String("config"))
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := attr.WithCorrelationID(c.Context, uuid.NewString())
		c.Context = ctx

		a, err := app.NewApp(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}

		runErr := run(c, a)
		if runErr != nil {
			a.Logger.ErrorContext(ctx, "Command failed",
				attr.ExtractCorrelationID(ctx),
				attr.String("command", commandName(c)),
				attr.Error(runErr),
			)
		}
		if err := a.Close(); err != nil && runErr == nil {
			return err
		}
		return runErr
	}
}

func limit(c *cli.Context, a *app.App) int {
	if c.IsSet("limit") {
		return c.Int("limit")
	}
	return a.Config.Game.LeaderboardSize
}

func commandName(c *cli.Context) string {
	if c.Command == nil || c.Command.Name == "" {
		return "play"
	}
	return c.Command.Name
}
