package nba

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"hoopcompare/utils"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const BaseURL = "https://stats.nba.com/stats"

// Client talks to stats.nba.com. Every request waits on a shared limiter.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(baseURL string, rps float64, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}
}

func initNBAReq(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Add("Accept", "application/json")
	req.Header.Add("Referer", "https://www.nba.com/")
	req.Header.Add("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	return req, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, utils.ErrorWithTrace(err)
	}
	req, err := initNBAReq(ctx, fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode()))
	if err != nil {
		return nil, utils.ErrorWithTrace(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, utils.ErrorWithTrace(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, utils.ErrorWithTrace(err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, utils.ErrorWithTrace(fmt.Errorf("%s: status=%d", endpoint, resp.StatusCode))
	}
	if !gjson.ValidBytes(body) {
		return nil, utils.ErrorWithTrace(fmt.Errorf("%s: response is not json", endpoint))
	}
	return body, nil
}

// resultSet is one named table of a stats.nba.com response, with its
// columns addressable by header.
type resultSet struct {
	columns map[string]int
	rows    []gjson.Result
}

func findResultSet(body []byte, name string) (*resultSet, error) {
	set := gjson.GetBytes(body, fmt.Sprintf(`resultSets.#(name==%q)`, name))
	if !set.Exists() {
		return nil, fmt.Errorf("result set %s not found", name)
	}
	rs := &resultSet{columns: map[string]int{}}
	for i, h := range set.Get("headers").Array() {
		rs.columns[h.String()] = i
	}
	rs.rows = set.Get("rowSet").Array()
	return rs, nil
}

func (rs *resultSet) cell(row gjson.Result, header string) gjson.Result {
	i, ok := rs.columns[header]
	if !ok {
		return gjson.Result{}
	}
	return row.Get(strconv.Itoa(i))
}

type CommonAllPlayer struct {
	PersonID         int
	DisplayFirstLast string
	FromYear         string
	ToYear           string
}

// CommonAllPlayers lists every player in league history.
func (c *Client) CommonAllPlayers(ctx context.Context) ([]CommonAllPlayer, error) {
	params := url.Values{
		"LeagueID":            {"00"},
		"Season":              {"2024-25"},
		"IsOnlyCurrentSeason": {"0"},
	}
	body, err := c.get(ctx, "commonallplayers", params)
	if err != nil {
		return nil, err
	}
	rs, err := findResultSet(body, "CommonAllPlayers")
	if err != nil {
		return nil, utils.ErrorWithTrace(err)
	}

	players := make([]CommonAllPlayer, 0, len(rs.rows))
	for _, row := range rs.rows {
		id := rs.cell(row, "PERSON_ID")
		name := rs.cell(row, "DISPLAY_FIRST_LAST")
		if !id.Exists() || name.String() == "" {
			continue
		}
		players = append(players, CommonAllPlayer{
			PersonID:         int(id.Int()),
			DisplayFirstLast: name.String(),
			FromYear:         rs.cell(row, "FROM_YEAR").String(),
			ToYear:           rs.cell(row, "TO_YEAR").String(),
		})
	}
	return players, nil
}

// SeasonTotals is one regular-season row of a player's career. A player
// traded mid-season has a row per team plus a "TOT" row.
type SeasonTotals struct {
	PlayerID         int
	SeasonID         string
	TeamID           int
	TeamAbbreviation string
	GP               float64
	MIN              float64
	PTS              float64
	REB              float64
	AST              float64
	STL              float64
	BLK              float64
	FGM              float64
	FGA              float64
	FGPct            float64
	FG3M             float64
	FG3A             float64
	FG3Pct           float64
	FTM              float64
	FTA              float64
	FTPct            float64
}

// PlayerCareerStats returns the regular-season totals of every season the
// player appeared in.
func (c *Client) PlayerCareerStats(ctx context.Context, playerID int) ([]SeasonTotals, error) {
	params := url.Values{
		"PlayerID": {strconv.Itoa(playerID)},
		"PerMode":  {"Totals"},
		"LeagueID": {"00"},
	}
	body, err := c.get(ctx, "playercareerstats", params)
	if err != nil {
		return nil, err
	}
	rs, err := findResultSet(body, "SeasonTotalsRegularSeason")
	if err != nil {
		return nil, utils.ErrorWithTrace(err)
	}

	seasons := make([]SeasonTotals, 0, len(rs.rows))
	for _, row := range rs.rows {
		f := func(h string) float64 { return rs.cell(row, h).Float() }
		seasons = append(seasons, SeasonTotals{
			PlayerID:         int(rs.cell(row, "PLAYER_ID").Int()),
			SeasonID:         rs.cell(row, "SEASON_ID").String(),
			TeamID:           int(rs.cell(row, "TEAM_ID").Int()),
			TeamAbbreviation: rs.cell(row, "TEAM_ABBREVIATION").String(),
			GP:               f("GP"),
			MIN:              f("MIN"),
			PTS:              f("PTS"),
			REB:              f("REB"),
			AST:              f("AST"),
			STL:              f("STL"),
			BLK:              f("BLK"),
			FGM:              f("FGM"),
			FGA:              f("FGA"),
			FGPct:            f("FG_PCT"),
			FG3M:             f("FG3M"),
			FG3A:             f("FG3A"),
			FG3Pct:           f("FG3_PCT"),
			FTM:              f("FTM"),
			FTA:              f("FTA"),
			FTPct:            f("FT_PCT"),
		})
	}
	return seasons, nil
}
