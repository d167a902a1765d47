package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/Black-And-White-Club/poptrivia/config"
	"github.com/Black-And-White-Club/poptrivia/db/bundb"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"

	// Import for migrator creation
	scoremigrations "github.com/Black-And-White-Club/poptrivia/app/modules/score/infrastructure/repositories/migrations"
)

func main() {
	cliApp := &cli.App{
		Name:  "bun",
		Usage: "leaderboard database migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "config.yaml",
				Usage: "Path to the configuration file",
			},
		},
		Commands: []*cli.Command{
			newMultiModuleDBCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// moduleMigrations lists every module that owns migrations.
func moduleMigrations() map[string]*migrate.Migrations {
	return map[string]*migrate.Migrations{
		"score": scoremigrations.Migrations,
	}
}

// withMigrators opens the configured database and builds one migrator per module.
func withMigrators(c *cli.Context, fn func(ctx context.Context, migrators map[string]*migrate.Migrator) error) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := bundb.Open(c.Context, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	migrators := make(map[string]*migrate.Migrator)
	for name, m := range moduleMigrations() {
		migrators[name] = migrate.NewMigrator(db, m)
	}
	return fn(c.Context, migrators)
}

func sortedNames(migrators map[string]*migrate.Migrator) []string {
	names := make([]string, 0, len(migrators))
	for name := range migrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func newMultiModuleDBCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(ctx context.Context, migrators map[string]*migrate.Migrator) error {
						for _, moduleName := range sortedNames(migrators) {
							fmt.Printf("Initializing migrations for module: %s\n", moduleName)
							if err := migrators[moduleName].Init(ctx); err != nil {
								return fmt.Errorf("failed to initialize migrations for module %s: %w", moduleName, err)
							}
						}
						return nil
					})
				},
			},
			{
				Name:  "migrate",
				Usage: "migrate database",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(ctx context.Context, migrators map[string]*migrate.Migrator) error {
						for _, moduleName := range sortedNames(migrators) {
							migrator := migrators[moduleName]
							if err := migrator.Init(ctx); err != nil {
								return err
							}
							fmt.Printf("Running migrations for module: %s\n", moduleName)
							group, err := migrator.Migrate(ctx)
							if err != nil {
								return err
							}
							if group.IsZero() {
								fmt.Printf("No new migrations to run for module: %s\n", moduleName)
							} else {
								fmt.Printf("Migrated module: %s to %s\n", moduleName, group)
							}
						}
						return nil
					})
				},
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(ctx context.Context, migrators map[string]*migrate.Migrator) error {
						for _, moduleName := range sortedNames(migrators) {
							fmt.Printf("Rolling back migrations for module: %s\n", moduleName)
							group, err := migrators[moduleName].Rollback(ctx)
							if err != nil {
								return err
							}
							if group.IsZero() {
								fmt.Printf("No groups to roll back for module: %s\n", moduleName)
							} else {
								fmt.Printf("Rolled back module: %s to %s\n", moduleName, group)
							}
						}
						return nil
					})
				},
			},
			{
				Name:      "create_go",
				Usage:     "create Go migration",
				ArgsUsage: "<module> <name words...>",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(ctx context.Context, migrators map[string]*migrate.Migrator) error {
						moduleName := c.Args().First()
						migrator, ok := migrators[moduleName]
						if !ok {
							return fmt.Errorf("invalid module name: %s", moduleName)
						}

						name := strings.Join(c.Args().Tail(), "_")
						mf, err := migrator.CreateGoMigration(ctx, name)
						if err != nil {
							return err
						}
						fmt.Printf("Created migration for module %s: %s (%s)\n", moduleName, mf.Name, mf.Path)
						return nil
					})
				},
			},
			{
				Name:      "create_sql",
				Usage:     "create up and down SQL migrations",
				ArgsUsage: "<module> <name words...>",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(ctx context.Context, migrators map[string]*migrate.Migrator) error {
						moduleName := c.Args().First()
						migrator, ok := migrators[moduleName]
						if !ok {
							return fmt.Errorf("invalid module name: %s", moduleName)
						}

						name := strings.Join(c.Args().Tail(), "_")
						files, err := migrator.CreateSQLMigrations(ctx, name)
						if err != nil {
							return err
						}
						for _, mf := range files {
							fmt.Printf("Created migration for module %s: %s (%s)\n", moduleName, mf.Name, mf.Path)
						}
						return nil
					})
				},
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(ctx context.Context, migrators map[string]*migrate.Migrator) error {
						for _, moduleName := range sortedNames(migrators) {
							ms, err := migrators[moduleName].MigrationsWithStatus(ctx)
							if err != nil {
								return err
							}
							fmt.Printf("Migrations for module: %s\n", moduleName)
							fmt.Printf("  %s\n", ms)
							fmt.Printf("  Applied: %s\n", ms.Applied())
							fmt.Printf("  Unapplied: %s\n", ms.Unapplied())
						}
						return nil
					})
				},
			},
		},
	}
}
