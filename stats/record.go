package stats

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type Key string

const (
	GP     Key = "GP"
	MIN    Key = "MIN"
	PTS    Key = "PTS"
	REB    Key = "REB"
	AST    Key = "AST"
	STL    Key = "STL"
	BLK    Key = "BLK"
	FGM    Key = "FGM"
	FGA    Key = "FGA"
	FGPct  Key = "FG_PCT"
	FG3M   Key = "FG3M"
	FG3A   Key = "FG3A"
	FG3Pct Key = "FG3_PCT"
	FTM    Key = "FTM"
	FTA    Key = "FTA"
	FTPct  Key = "FT_PCT"
)

// Keys lists every stat a Record carries.
var Keys = []Key{GP, MIN, PTS, REB, AST, STL, BLK, FGM, FGA, FGPct, FG3M, FG3A, FG3Pct, FTM, FTA, FTPct}

var displayNames = map[Key]string{
	GP: "Games", MIN: "MPG", PTS: "PPG", REB: "RPG", AST: "APG",
	STL: "SPG", BLK: "BPG",
	FGPct: "FG%", FGA: "FGA", FGM: "FGM",
	FG3Pct: "3P%", FG3A: "3PA", FG3M: "3PM",
	FTPct: "FT%", FTA: "FTA", FTM: "FTM",
}

func (k Key) DisplayName() string {
	if n, ok := displayNames[k]; ok {
		return n
	}
	return string(k)
}

func (k Key) IsPercentage() bool {
	return strings.HasSuffix(string(k), "_PCT")
}

const (
	playerNameField = "PLAYER_NAME"
	seasonIDField   = "SEASON_ID"
)

// Record is one player's line, either for a single season (totals) or for a
// career (per-game averages). Percentages are fractions.
type Record struct {
	PlayerName string
	SeasonID   string
	Values     map[Key]float64
}

func NewRecord(playerName, seasonID string) Record {
	return Record{PlayerName: playerName, SeasonID: seasonID, Values: make(map[Key]float64, len(Keys))}
}

// Get returns 0 for stats the record does not carry.
func (r Record) Get(k Key) float64 {
	return r.Values[k]
}

func (r *Record) Set(k Key, v float64) {
	if r.Values == nil {
		r.Values = make(map[Key]float64, len(Keys))
	}
	r.Values[k] = v
}

func (r Record) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(Keys)+2)
	flat[playerNameField] = r.PlayerName
	if r.SeasonID != "" {
		flat[seasonIDField] = r.SeasonID
	}
	for _, k := range Keys {
		if v, ok := r.Values[k]; ok {
			flat[string(k)] = v
		}
	}
	return json.Marshal(flat)
}

// UnmarshalJSON accepts the flat object the stats service sends. Stat values
// may be numbers, numeric strings or null.
func (r *Record) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	flat := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}

	rec := NewRecord("", "")
	if raw, ok := flat[playerNameField]; ok {
		if err := json.Unmarshal(raw, &rec.PlayerName); err != nil {
			return fmt.Errorf("%s: %w", playerNameField, err)
		}
	}
	if raw, ok := flat[seasonIDField]; ok {
		var id any
		if err := json.Unmarshal(raw, &id); err != nil {
			return fmt.Errorf("%s: %w", seasonIDField, err)
		}
		if id != nil {
			rec.SeasonID = fmt.Sprint(id)
		}
	}
	for _, k := range Keys {
		raw, ok := flat[string(k)]
		if !ok {
			continue
		}
		v, err := parseNumber(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		rec.Values[k] = v
	}
	*r = rec
	return nil
}

func parseNumber(raw json.RawMessage) (float64, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return n, nil
	case string:
		if n == "" {
			return 0, nil
		}
		return strconv.ParseFloat(n, 64)
	default:
		return 0, fmt.Errorf("unexpected value %v", v)
	}
}
