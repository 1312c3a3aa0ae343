package backend

import (
	"fmt"
	"strconv"

	"hoopcompare/db"
	"hoopcompare/stats"
	"hoopcompare/utils"
)

const totalTeam = "TOT"

// SeasonID turns a "YY-YY" label into the "YYYY-YY" id stats.nba.com uses.
// Two-digit years from 50 up belong to the 1900s. ok is false for a
// malformed label or a season starting outside the covered range.
func SeasonID(label string) (id string, ok bool) {
	if utils.IsInvalidSeason(label) {
		return "", false
	}
	yy, err := strconv.Atoi(label[:2])
	if err != nil {
		return "", false
	}
	year := 2000 + yy
	if yy >= 50 {
		year = 1900 + yy
	}
	if year < stats.FirstSeasonStart || year > stats.LastSeasonStart {
		return "", false
	}
	return fmt.Sprintf("%d-%02d", year, (year+1)%100), true
}

// seasonRow picks the row for seasonID. A traded player's combined row wins
// over the per-team ones.
func seasonRow(rows []db.SeasonStat, seasonID string) (db.SeasonStat, bool) {
	var picked db.SeasonStat
	found := false
	for _, r := range rows {
		if r.SeasonID != seasonID {
			continue
		}
		if r.TeamAbbreviation == totalTeam {
			return r, true
		}
		if !found {
			picked, found = r, true
		}
	}
	return picked, found
}

// seasonRows keeps one row per season, in first-seen order.
func seasonRows(rows []db.SeasonStat) []db.SeasonStat {
	seen := map[string]bool{}
	out := []db.SeasonStat{}
	for _, r := range rows {
		if seen[r.SeasonID] {
			continue
		}
		seen[r.SeasonID] = true
		row, _ := seasonRow(rows, r.SeasonID)
		out = append(out, row)
	}
	return out
}

func seasonValues(r db.SeasonStat) map[stats.Key]float64 {
	return map[stats.Key]float64{
		stats.GP:     r.GP,
		stats.MIN:    r.MIN,
		stats.PTS:    r.PTS,
		stats.REB:    r.REB,
		stats.AST:    r.AST,
		stats.STL:    r.STL,
		stats.BLK:    r.BLK,
		stats.FGM:    r.FGM,
		stats.FGA:    r.FGA,
		stats.FGPct:  r.FGPct,
		stats.FG3M:   r.FG3M,
		stats.FG3A:   r.FG3A,
		stats.FG3Pct: r.FG3Pct,
		stats.FTM:    r.FTM,
		stats.FTA:    r.FTA,
		stats.FTPct:  r.FTPct,
	}
}

// seasonRecord holds the season's totals under the requested player name.
func seasonRecord(name string, r db.SeasonStat) stats.Record {
	rec := stats.NewRecord(name, r.SeasonID)
	for k, v := range seasonValues(r) {
		rec.Set(k, v)
	}
	return rec
}

// careerRecord averages a career: games summed, counting stats per game and
// percentages weighted by games played.
func careerRecord(name string, rows []db.SeasonStat) stats.Record {
	rec := stats.NewRecord(name, "")
	seasons := seasonRows(rows)

	gp := 0.0
	sums := map[stats.Key]float64{}
	for _, r := range seasons {
		gp += r.GP
		for k, v := range seasonValues(r) {
			if k.IsPercentage() {
				v *= r.GP
			}
			sums[k] += v
		}
	}

	rec.Set(stats.GP, gp)
	for _, k := range stats.Keys {
		if k == stats.GP {
			continue
		}
		if gp == 0 {
			rec.Set(k, 0)
			continue
		}
		rec.Set(k, sums[k]/gp)
	}
	return rec
}
