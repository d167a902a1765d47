//go:build integration

package score_test

import (
	"context"
	"os"
	"testing"
	"time"

	scoreservice "github.com/Black-And-White-Club/poptrivia/app/modules/score/application"
	scoredomain "github.com/Black-And-White-Club/poptrivia/app/modules/score/domain"
	scoredb "github.com/Black-And-White-Club/poptrivia/app/modules/score/infrastructure/repositories"
	"github.com/Black-And-White-Club/poptrivia/app/shared/observability"
	"github.com/Black-And-White-Club/poptrivia/app/shared/observability/metrics"
	"github.com/Black-And-White-Club/poptrivia/config"
	"github.com/Black-And-White-Club/poptrivia/db/bundb"
	"github.com/Black-And-White-Club/poptrivia/integration_tests/containers"
	"github.com/Black-And-White-Club/poptrivia/integration_tests/testutils"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"
)

var testDB *bun.DB

func TestMain(m *testing.M) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)

	pg, dsn, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		cancel()
		panic(err)
	}

	db, err := bundb.Open(ctx, config.DatabaseConfig{Driver: config.DriverPostgres, DSN: dsn})
	if err == nil {
		err = testutils.RunMigrations(ctx, db)
	}
	cancel()
	if err != nil {
		_ = pg.Terminate(context.Background())
		panic(err)
	}
	testDB = db

	code := m.Run()

	_ = db.Close()
	_ = pg.Terminate(context.Background())
	os.Exit(code)
}

func newService(t *testing.T) *scoreservice.ScoreService {
	t.Helper()
	require.NoError(t, testutils.CleanScoreIntegrationTables(context.Background(), testDB))
	return scoreservice.NewScoreService(
		scoredb.NewRepository(testDB),
		observability.NopLogger(),
		metrics.NoOpMetrics{},
		noop.NewTracerProvider().Tracer("test"),
		testDB,
	)
}

func TestPostgres_SaveAndTopScores(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	require.NoError(t, svc.EnsureSchema(ctx), "schema creation is idempotent after migrations")

	for _, s := range []scoredomain.UserScore{
		{Username: "AAA", Score: 2},
		{Username: "BBB", Score: 6},
		{Username: "CCC", Score: 6},
		{Username: "AAA", Score: 1},
	} {
		result, err := svc.SaveScore(ctx, s.Username, s.Score)
		require.NoError(t, err)
		require.True(t, result.IsSuccess())
	}

	result, err := svc.TopScores(ctx, 3)
	require.NoError(t, err)
	require.True(t, result.IsSuccess())
	assert.Equal(t, []scoredomain.UserScore{
		{Username: "BBB", Score: 6},
		{Username: "CCC", Score: 6},
		{Username: "AAA", Score: 2},
	}, *result.Success)
}

func TestPostgres_TopScoresNonIncreasing(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	faker := gofakeit.New(11)

	for i := 0; i < 60; i++ {
		_, err := svc.SaveScore(ctx, faker.LetterN(3), faker.IntRange(0, 20))
		require.NoError(t, err)
	}

	result, err := svc.TopScores(ctx, 25)
	require.NoError(t, err)
	scores := *result.Success
	require.Len(t, scores, 25)
	for i := 1; i < len(scores); i++ {
		assert.GreaterOrEqual(t, scores[i-1].Score, scores[i].Score)
	}
}
