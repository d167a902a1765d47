package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	catalogservice "github.com/Black-And-White-Club/poptrivia/app/modules/catalog/application"
	"github.com/Black-And-White-Club/poptrivia/app/modules/catalog/infrastructure/filecache"
	"github.com/Black-And-White-Club/poptrivia/app/modules/catalog/infrastructure/restcountries"
	leaderboardservice "github.com/Black-And-White-Club/poptrivia/app/modules/leaderboard/application"
	roundservice "github.com/Black-And-White-Club/poptrivia/app/modules/round/application"
	scoreservice "github.com/Black-And-White-Club/poptrivia/app/modules/score/application"
	scoredomain "github.com/Black-And-White-Club/poptrivia/app/modules/score/domain"
	"github.com/Black-And-White-Club/poptrivia/app/shared/console"
	"github.com/Black-And-White-Club/poptrivia/app/shared/format"
	"github.com/Black-And-White-Club/poptrivia/app/shared/observability"
	"github.com/Black-And-White-Club/poptrivia/app/shared/observability/attr"
	"github.com/Black-And-White-Club/poptrivia/app/shared/observability/metrics"
	"github.com/Black-And-White-Club/poptrivia/config"
	"github.com/Black-And-White-Club/poptrivia/db/bundb"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/Black-And-White-Club/poptrivia"

// App holds the wired services for one process run.
type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	Registry  *prometheus.Registry
	Catalog   *catalogservice.CatalogService
	Scores    scoreservice.Service
	Formatter *format.NumberFormatter

	metrics  metrics.Metrics
	tracer   trace.Tracer
	db       *bundb.DBService
	in       io.Reader
	out      io.Writer
	rng      roundservice.Randomizer
	logFile  *os.File
	prompter *console.Prompter

	renderChart func(io.Writer, []scoredomain.UserScore, leaderboardservice.ChartPalette) error
}

// Option customises NewApp.
type Option func(*App)

// WithStreams replaces stdin and stdout.
func WithStreams(in io.Reader, out io.Writer) Option {
	return func(a *App) {
		a.in = in
		a.out = out
	}
}

// WithRandomizer fixes the source of round selection.
func WithRandomizer(rng roundservice.Randomizer) Option {
	return func(a *App) { a.rng = rng }
}

// NewApp initializes the application with the necessary services and configuration.
func NewApp(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	app := &App{
		Config: cfg,
		in:     os.Stdin,
		out:    os.Stdout,
		tracer: otel.Tracer(tracerName),

		renderChart: leaderboardservice.RenderChart,
	}
	for _, opt := range opts {
		opt(app)
	}

	if err := app.initLogger(); err != nil {
		return nil, err
	}

	app.Registry = prometheus.NewRegistry()
	app.metrics = metrics.NewPrometheusMetrics(app.Registry)

	locale, err := format.ParseLocale(cfg.Game.Locale)
	if err != nil {
		app.closeLog()
		return nil, err
	}
	app.Formatter = format.NewNumberFormatter(locale)

	if app.rng == nil {
		if cfg.Game.Seed != 0 {
			app.rng = roundservice.NewSeededRandomizer(cfg.Game.Seed)
		} else {
			app.rng = roundservice.DefaultRandomizer()
		}
	}

	dbService, err := bundb.NewBunDBService(ctx, cfg.Database, app.Logger)
	if err != nil {
		app.closeLog()
		return nil, fmt.Errorf("failed to initialize database service: %w", err)
	}
	app.db = dbService

	app.Scores = scoreservice.NewScoreService(dbService.ScoreDB, app.Logger, app.metrics, app.tracer, dbService.GetDB())
	app.Catalog = catalogservice.NewCatalogService(
		restcountries.NewClient(cfg.Catalog.Endpoint, cfg.Catalog.HTTPTimeout),
		filecache.New(cfg.Catalog.CacheFile),
		catalogservice.Options{
			Endpoint:        cfg.Catalog.Endpoint,
			FreshnessWindow: cfg.Catalog.FreshnessWindow,
		},
		app.Logger,
		app.metrics,
		app.tracer,
	)
	app.prompter = console.NewPrompter(app.in, app.out)

	app.Logger.InfoContext(ctx, "Application initialized",
		attr.ExtractCorrelationID(ctx),
		attr.String("driver", cfg.Database.Driver),
		attr.String("locale", locale.String()),
	)
	return app, nil
}

func (app *App) initLogger() error {
	output := io.Writer(os.Stderr)
	if path := app.Config.Observability.LogFile; path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		app.logFile = f
		output = f
	}

	logger, err := observability.NewLogger(observability.LoggerOptions{
		Level:  app.Config.Observability.LogLevel,
		Format: app.Config.Observability.LogFormat,
		Output: output,
	})
	if err != nil {
		app.closeLog()
		return err
	}
	app.Logger = logger
	return nil
}

// Play runs one game, saves the score under the player's name and prints
// the leaderboard.
func (app *App) Play(ctx context.Context) error {
	if err := app.Scores.EnsureSchema(ctx); err != nil {
		return err
	}

	catalog, err := app.Catalog.LoadCatalog(ctx)
	if err != nil {
		return err
	}

	game := roundservice.NewGame(
		catalog,
		roundservice.NewSelector(app.rng),
		app.prompter,
		app.out,
		app.Formatter,
		app.Logger,
		app.metrics,
		app.tracer,
	)
	score, err := game.Play(ctx)
	if err != nil {
		return err
	}

	username, err := app.prompter.PromptUsername()
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}

	saved, err := app.Scores.SaveScore(ctx, username, score)
	if err != nil {
		return err
	}
	if saved.IsFailure() {
		return *saved.Failure
	}

	return app.Leaderboard(ctx, app.Config.Game.LeaderboardSize)
}

// Leaderboard prints the top limit scores.
func (app *App) Leaderboard(ctx context.Context, limit int) error {
	scores, err := app.topScores(ctx, limit)
	if err != nil {
		return err
	}
	return leaderboardservice.Render(app.out, scores, app.Formatter)
}

// Refresh refetches the country data regardless of the cache and reports
// how many countries it holds.
func (app *App) Refresh(ctx context.Context) error {
	doc, err := app.Catalog.Refresh(ctx)
	if err != nil {
		return err
	}
	catalog, err := catalogservice.BuildCatalog(doc)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(app.out, "Fetched %s countries.\n", app.Formatter.Int(int64(len(catalog))))
	return err
}

// Export writes the top limit scores to an XLSX workbook at path.
func (app *App) Export(ctx context.Context, path string, limit int) error {
	scores, err := app.topScores(ctx, limit)
	if err != nil {
		return err
	}
	if err := leaderboardservice.ExportXLSX(path, scores); err != nil {
		return err
	}
	_, err = fmt.Fprintf(app.out, "Exported %d scores to %s\n", len(scores), path)
	return err
}

// Chart writes a PNG bar chart of the top limit scores to path.
func (app *App) Chart(ctx context.Context, path string, limit int) error {
	if path == "" {
		return leaderboardservice.ErrNoOutput
	}
	scores, err := app.topScores(ctx, limit)
	if err != nil {
		return err
	}

	// render fully before touching path so a failure leaves no partial file
	var buf bytes.Buffer
	if err := app.renderChart(&buf, scores, leaderboardservice.DefaultPalette); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write chart file: %w", err)
	}
	_, err = fmt.Fprintf(app.out, "Wrote chart of %d scores to %s\n", len(scores), path)
	return err
}

func (app *App) topScores(ctx context.Context, limit int) ([]scoredomain.UserScore, error) {
	if err := app.Scores.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	result, err := app.Scores.TopScores(ctx, limit)
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

// Close dumps metrics when configured and releases the database and log file.
func (app *App) Close() error {
	var errs []error
	if err := metrics.WriteTextfile(app.Config.Observability.MetricsTextfile, app.Registry); err != nil {
		errs = append(errs, err)
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}
	app.closeLog()
	return errors.Join(errs...)
}

func (app *App) closeLog() {
	if app.logFile != nil {
		_ = app.logFile.Close()
		app.logFile = nil
	}
}
