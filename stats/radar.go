package stats

// Reference is the value an axis is scaled against.
type Reference struct {
	Key Key
	Max float64
}

// RadarReferences are single-season league-leading marks for the counting
// stats and 1.0 for the percentages.
var RadarReferences = []Reference{
	{PTS, 37.1},
	{REB, 18.7},
	{AST, 14.5},
	{STL, 3.7},
	{BLK, 5.6},
	{FGPct, 1.0},
	{FG3Pct, 1.0},
	{FTPct, 1.0},
}

// Axis holds both players' values on a 0-100 scale.
type Axis struct {
	Key   Key
	Label string
	Left  float64
	Right float64
}

// SeasonRadar scales two season-total records. Counting stats become per-game
// rates first.
func SeasonRadar(left, right Record) []Axis {
	return buildRadar(left, right, func(r Record, k Key) float64 {
		if k.IsPercentage() {
			return r.Get(k)
		}
		return PerGame(r, k)
	})
}

// CareerRadar scales two career records as they are.
func CareerRadar(left, right Record) []Axis {
	return buildRadar(left, right, Record.Get)
}

func buildRadar(left, right Record, value func(Record, Key) float64) []Axis {
	axes := make([]Axis, 0, len(RadarReferences))
	for _, ref := range RadarReferences {
		axes = append(axes, Axis{
			Key:   ref.Key,
			Label: ref.Key.DisplayName(),
			Left:  value(left, ref.Key) / ref.Max * 100,
			Right: value(right, ref.Key) / ref.Max * 100,
		})
	}
	return axes
}
