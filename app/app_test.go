package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	leaderboardservice "github.com/Black-And-White-Club/poptrivia/app/modules/leaderboard/application"
	scoredomain "github.com/Black-And-White-Club/poptrivia/app/modules/score/domain"
	"github.com/Black-And-White-Club/poptrivia/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const usaCanada = `[{"name":{"common":"USA"},"population":331000000},{"name":{"common":"Canada"},"population":38000000}]`

// sequenceRandomizer replays values in order, then repeats the last one.
type sequenceRandomizer struct {
	values []int
}

func (r *sequenceRandomizer) IntN(n int) int {
	v := r.values[0]
	if len(r.values) > 1 {
		r.values = r.values[1:]
	}
	return v % n
}

type testEnv struct {
	cfg      *config.Config
	requests *atomic.Int32
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(usaCanada))
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Catalog.Endpoint = srv.URL
	cfg.Catalog.CacheFile = filepath.Join(dir, "country_information.json")
	cfg.Database.DSN = "file:" + filepath.Join(dir, "country_information.db")
	cfg.Observability.LogFile = filepath.Join(dir, "poptrivia.log")
	cfg.Observability.LogLevel = "debug"
	cfg.Observability.MetricsTextfile = filepath.Join(dir, "poptrivia.prom")
	return &testEnv{cfg: &cfg, requests: &requests}
}

func (e *testEnv) newApp(t *testing.T, input string, out *bytes.Buffer) *App {
	t.Helper()
	// USA and Canada on every round: two draws, then re-roll the second side onto Canada.
	rng := &sequenceRandomizer{values: []int{0, 1, 1}}
	app, err := NewApp(context.Background(), e.cfg, WithStreams(strings.NewReader(input), out), WithRandomizer(rng))
	require.NoError(t, err)
	return app
}

func TestApp_Play_WrongGuessAfterFour(t *testing.T) {
	env := newTestEnv(t)
	var out bytes.Buffer
	app := env.newApp(t, "1\ny\n1\ny\n1\ny\n1\ny\n2\nab\nabc\n", &out)

	require.NoError(t, app.Play(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Your current score is 4.\n")
	assert.Contains(t, text, "Incorrect!\nYour score was 4.\n")
	assert.Equal(t, 2, strings.Count(text, "Enter your username (3 characters): "))
	assert.True(t, strings.HasSuffix(text, "ABC scored 4\n"), text)

	result, err := app.Scores.TopScores(context.Background(), 5)
	require.NoError(t, err)
	require.True(t, result.IsSuccess())
	assert.Equal(t, []scoredomain.UserScore{{Username: "ABC", Score: 4}}, *result.Success)

	require.NoError(t, app.Close())

	_, err = os.Stat(env.cfg.Catalog.CacheFile)
	assert.NoError(t, err, "live fetch must write the cache")

	prom, err := os.ReadFile(env.cfg.Observability.MetricsTextfile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "poptrivia_rounds_total 5")
}

func TestApp_Play_SecondRunUsesCache(t *testing.T) {
	env := newTestEnv(t)

	for i, input := range []string{"2\nxyz\n", "1\nn\nqrs\n"} {
		var out bytes.Buffer
		app := env.newApp(t, input, &out)
		require.NoError(t, app.Play(context.Background()), "run %d", i)
		require.NoError(t, app.Close())
	}

	assert.Equal(t, int32(1), env.requests.Load())

	var out bytes.Buffer
	app := env.newApp(t, "", &out)
	defer app.Close()
	require.NoError(t, app.Leaderboard(context.Background(), 5))
	assert.Equal(t, "QRS scored 1\nXYZ scored 0\n", out.String())
}

func TestApp_Refresh(t *testing.T) {
	env := newTestEnv(t)
	var out bytes.Buffer
	app := env.newApp(t, "", &out)
	defer app.Close()

	require.NoError(t, app.Refresh(context.Background()))
	require.NoError(t, app.Refresh(context.Background()))

	assert.Equal(t, int32(2), env.requests.Load(), "refresh ignores the cache")
	assert.Equal(t, "Fetched 2 countries.\nFetched 2 countries.\n", out.String())
}

func TestApp_ExportAndChart(t *testing.T) {
	env := newTestEnv(t)
	var out bytes.Buffer
	app := env.newApp(t, "", &out)
	defer app.Close()

	ctx := context.Background()
	require.NoError(t, app.Scores.EnsureSchema(ctx))
	for _, s := range []scoredomain.UserScore{{Username: "AAA", Score: 3}, {Username: "BBB", Score: 8}} {
		_, err := app.Scores.SaveScore(ctx, s.Username, s.Score)
		require.NoError(t, err)
	}

	dir := t.TempDir()
	xlsxPath := filepath.Join(dir, "board.xlsx")
	pngPath := filepath.Join(dir, "board.png")

	require.NoError(t, app.Export(ctx, xlsxPath, 1))
	require.NoError(t, app.Chart(ctx, pngPath, 5))

	f, err := excelize.OpenFile(xlsxPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Leaderboard")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Rank", "Username", "Score"}, {"1", "BBB", "8"}}, rows)

	png, err := os.ReadFile(pngPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestApp_Chart_EmptyLeaderboard(t *testing.T) {
	env := newTestEnv(t)
	var out bytes.Buffer
	app := env.newApp(t, "", &out)
	defer app.Close()

	pngPath := filepath.Join(t.TempDir(), "empty.png")
	require.NoError(t, app.Chart(context.Background(), pngPath, 5))

	png, err := os.ReadFile(pngPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
	assert.Contains(t, out.String(), "Wrote chart of 0 scores")
}

func TestApp_Chart_RenderFailureLeavesNoFile(t *testing.T) {
	env := newTestEnv(t)
	var out bytes.Buffer
	app := env.newApp(t, "", &out)
	defer app.Close()

	renderErr := errors.New("font unavailable")
	app.renderChart = func(w io.Writer, _ []scoredomain.UserScore, _ leaderboardservice.ChartPalette) error {
		_, _ = w.Write([]byte("\x89PNG partial"))
		return renderErr
	}

	pngPath := filepath.Join(t.TempDir(), "board.png")
	err := app.Chart(context.Background(), pngPath, 5)

	require.ErrorIs(t, err, renderErr)
	assert.NoFileExists(t, pngPath)
	assert.Empty(t, out.String())
}

func TestNewApp_NoLogFileUsesStderr(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.Observability.LogFile = ""

	app, err := NewApp(context.Background(), env.cfg)
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.logFile)
	assert.NotNil(t, app.Logger)
}

func TestNewApp_InvalidLocale(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.Game.Locale = "not a locale!"

	_, err := NewApp(context.Background(), env.cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid locale")
}
