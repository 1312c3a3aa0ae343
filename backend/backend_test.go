package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"hoopcompare/db"
	"hoopcompare/stats"
	"hoopcompare/statsapi"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeScraper struct {
	store *db.DB
	rows  map[int][]db.SeasonStat
	err   error
	calls int
}

func (f *fakeScraper) ScrapeCareer(ctx context.Context, playerID int) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return f.store.ReplaceSeasonStats(ctx, playerID, f.rows[playerID], time.Now())
}

const (
	duncanID  = 1495
	garnettID = 708
)

func setup(t *testing.T) (*echo.Echo, *fakeScraper, *db.DB) {
	t.Helper()
	store, err := db.SetupDatabase(filepath.Join(t.TempDir(), "backend.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	require.NoError(t, store.InsertPlayers(ctx, []db.Player{
		{ID: garnettID, FullName: "Kevin Garnett"},
		{ID: duncanID, FullName: "Tim Duncan"},
	}))

	scraper := &fakeScraper{store: store, rows: map[int][]db.SeasonStat{
		duncanID: {
			{SeasonID: "2002-03", TeamID: 1, TeamAbbreviation: "SAS", GP: 81, PTS: 1884, REB: 1043, FGPct: 0.5},
			{SeasonID: "2003-04", TeamID: 1, TeamAbbreviation: "SAS", GP: 69, PTS: 1538, REB: 859, FGPct: 0.4},
		},
		garnettID: {
			{SeasonID: "2003-04", TeamID: 2, TeamAbbreviation: "MIN", GP: 40, PTS: 800, FGPct: 0.5},
			{SeasonID: "2003-04", TeamID: 3, TeamAbbreviation: "BOS", GP: 42, PTS: 1187, FGPct: 0.3},
			{SeasonID: "2003-04", TeamID: 0, TeamAbbreviation: "TOT", GP: 82, PTS: 1987, FGPct: 0.4},
		},
	}}
	s := &Server{store: store, scraper: scraper, log: zap.NewNop().Sugar(), now: time.Now}
	return s.routes(), scraper, store
}

func postCompare(t *testing.T, e *echo.Echo, body string) (*httptest.ResponseRecorder, statsapi.CompareResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/compare", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var resp statsapi.CompareResponse
	if rec.Code < 500 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestSeasonID(t *testing.T) {
	cases := map[string]string{
		"96-97": "1996-97",
		"99-00": "1999-00",
		"00-01": "2000-01",
		"24-25": "2024-25",
		"76-77": "1976-77",
	}
	for label, want := range cases {
		got, ok := SeasonID(label)
		assert.True(t, ok, label)
		assert.Equal(t, want, got, label)
	}
	for _, label := range []string{"75-76", "25-26", "49-50", "abc", ""} {
		_, ok := SeasonID(label)
		assert.False(t, ok, label)
	}
}

func TestPlayers(t *testing.T) {
	e, _, _ := setup(t)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/players", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var names []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &names))
	assert.Equal(t, []string{"Kevin Garnett", "Tim Duncan"}, names)
}

func TestCompareMissingFields(t *testing.T) {
	e, scraper, _ := setup(t)
	rec, resp := postCompare(t, e, `{"player1":"Tim Duncan","season1":"02-03","player2":"Kevin Garnett"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, MissingInfoError, resp.Error)
	assert.Zero(t, scraper.calls)
}

func TestCompareSeasonOutOfRange(t *testing.T) {
	e, _, _ := setup(t)
	rec, resp := postCompare(t, e, `{"player1":"Tim Duncan","season1":"75-76","player2":"Kevin Garnett","season2":"03-04"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, OutOfRangeError, resp.Error)
}

func TestCompareDidNotPlay(t *testing.T) {
	e, _, _ := setup(t)

	_, resp := postCompare(t, e, `{"player1":"Tim Duncan","season1":"24-25","player2":"Kevin Garnett","season2":"03-04"}`)
	assert.Equal(t, "Tim Duncan did not play in the 24-25 season.", resp.Error)

	_, resp = postCompare(t, e, `{"player1":"Tim Duncan","season1":"02-03","player2":"Kevin Garnett","season2":"24-25"}`)
	assert.Equal(t, "Kevin Garnett did not play in the 24-25 season.", resp.Error)

	rec, resp := postCompare(t, e, `{"player1":"Nobody","season1":"02-03","player2":"Kevin Garnett","season2":"24-25"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Both Nobody and Kevin Garnett did not play in their selected seasons.", resp.Error)
	assert.Empty(t, resp.Stats)
}

func TestCompareSuccess(t *testing.T) {
	e, scraper, _ := setup(t)
	rec, resp := postCompare(t, e, `{"player1":"tim duncan","season1":"02-03","player2":"Kevin Garnett","season2":"03-04"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, resp.Error)
	require.Len(t, resp.Stats, 2)
	require.Len(t, resp.Career, 2)
	assert.Equal(t, 2, scraper.calls)

	assert.Equal(t, "tim duncan", resp.Stats[0].PlayerName)
	assert.Equal(t, "2002-03", resp.Stats[0].SeasonID)
	assert.Equal(t, 1884.0, resp.Stats[0].Get(stats.PTS))

	// The combined row of a traded player is used for the season.
	assert.Equal(t, 82.0, resp.Stats[1].Get(stats.GP))
	assert.Equal(t, 1987.0, resp.Stats[1].Get(stats.PTS))

	duncan := resp.Career[0]
	assert.Equal(t, 150.0, duncan.Get(stats.GP))
	assert.InDelta(t, (1884.0+1538.0)/150, duncan.Get(stats.PTS), 1e-9)
	assert.InDelta(t, (0.5*81+0.4*69)/150, duncan.Get(stats.FGPct), 1e-9)

	garnett := resp.Career[1]
	assert.Equal(t, 82.0, garnett.Get(stats.GP))
	assert.InDelta(t, 1987.0/82, garnett.Get(stats.PTS), 1e-9)
	assert.InDelta(t, 0.4, garnett.Get(stats.FGPct), 1e-9)

	// Fresh rows are not scraped again.
	postCompare(t, e, `{"player1":"Tim Duncan","season1":"02-03","player2":"Kevin Garnett","season2":"03-04"}`)
	assert.Equal(t, 2, scraper.calls)
}

func TestCompareScrapeFailure(t *testing.T) {
	e, scraper, store := setup(t)
	scraper.err = errors.New("blocked")

	rec, _ := postCompare(t, e, `{"player1":"Tim Duncan","season1":"02-03","player2":"Kevin Garnett","season2":"03-04"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	// Stale rows are served when a refresh fails.
	ctx := context.Background()
	old := time.Now().Add(-2 * CareerMaxAge)
	require.NoError(t, store.ReplaceSeasonStats(ctx, duncanID, scraper.rows[duncanID], old))
	require.NoError(t, store.ReplaceSeasonStats(ctx, garnettID, scraper.rows[garnettID], old))

	rec, resp := postCompare(t, e, `{"player1":"Tim Duncan","season1":"02-03","player2":"Kevin Garnett","season2":"03-04"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp.Stats, 2)
}

func TestCareerRecordWithoutGames(t *testing.T) {
	r := careerRecord("Nobody", []db.SeasonStat{{SeasonID: "2002-03", GP: 0, PTS: 0}})
	assert.Zero(t, r.Get(stats.GP))
	assert.Zero(t, r.Get(stats.PTS))
}

func TestPlayerListIsNotRateLimited(t *testing.T) {
	e, _, _ := setup(t)
	denied := 0
	for i := 0; i < 3*requestsPerSecond; i++ {
		req := httptest.NewRequest(http.MethodGet, "/players", nil)
		req.RemoteAddr = "10.0.0.5:4242"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			denied++
		}
	}
	assert.Zero(t, denied)
}

func TestCompareIsRateLimited(t *testing.T) {
	e, _, _ := setup(t)
	denied := 0
	for i := 0; i < 3*requestsPerSecond; i++ {
		req := httptest.NewRequest(http.MethodPost, "/compare", strings.NewReader(`{}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.RemoteAddr = "10.0.0.5:4242"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			denied++
		}
	}
	assert.Positive(t, denied)
}
