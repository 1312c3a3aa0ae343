package stats

import (
	"strconv"
)

// TableKeys is the row order of both comparison tables.
var TableKeys = []Key{GP, MIN, PTS, REB, AST, STL, BLK, FGPct, FGA, FGM, FG3Pct, FG3A, FG3M, FTPct, FTA, FTM}

type Cell struct {
	Text       string
	Value      float64
	Emphasized bool
}

type Row struct {
	Key   Key
	Label string
	Left  Cell
	Right Cell
}

// SeasonTable formats two season-total records: games as an integer,
// percentages x100, everything else per game.
func SeasonTable(left, right Record) []Row {
	return buildTable(left, right, seasonCell)
}

// CareerTable formats two career records whose counting stats are already
// per-game averages.
func CareerTable(left, right Record) []Row {
	return buildTable(left, right, careerCell)
}

func buildTable(left, right Record, cell func(Record, Key) Cell) []Row {
	rows := make([]Row, 0, len(TableKeys))
	for _, k := range TableKeys {
		row := Row{Key: k, Label: k.DisplayName(), Left: cell(left, k), Right: cell(right, k)}
		switch {
		case row.Left.Value > row.Right.Value:
			row.Left.Emphasized = true
		case row.Right.Value > row.Left.Value:
			row.Right.Emphasized = true
		}
		rows = append(rows, row)
	}
	return rows
}

func seasonCell(r Record, k Key) Cell {
	switch {
	case k == GP:
		return intCell(r.Get(GP))
	case k.IsPercentage():
		return percentCell(r.Get(k))
	default:
		return oneDecimalCell(PerGame(r, k))
	}
}

func careerCell(r Record, k Key) Cell {
	switch {
	case k == GP:
		return intCell(r.Get(GP))
	case k.IsPercentage():
		return percentCell(r.Get(k))
	default:
		return oneDecimalCell(r.Get(k))
	}
}

// PerGame divides a season total by games played, 0 when no games were
// played.
func PerGame(r Record, k Key) float64 {
	gp := r.Get(GP)
	if gp <= 0 {
		return 0
	}
	return r.Get(k) / gp
}

func intCell(v float64) Cell {
	n := int(v)
	return Cell{Text: strconv.Itoa(n), Value: float64(n)}
}

func oneDecimalCell(v float64) Cell {
	text := strconv.FormatFloat(v, 'f', 1, 64)
	return Cell{Text: text, Value: displayed(text)}
}

func percentCell(fraction float64) Cell {
	text := strconv.FormatFloat(fraction*100, 'f', 1, 64)
	return Cell{Text: text + "%", Value: displayed(text)}
}

// displayed parses a formatted number back so that emphasis follows what the
// user sees, not the unrounded value.
func displayed(text string) float64 {
	v, _ := strconv.ParseFloat(text, 64)
	return v
}
