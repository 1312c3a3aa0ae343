package stats

import "fmt"

const (
	FirstSeasonStart = 1976
	LastSeasonStart  = 2024
)

var seasonLabels = buildSeasonLabels()

func buildSeasonLabels() []string {
	labels := make([]string, 0, LastSeasonStart-FirstSeasonStart+1)
	for start := LastSeasonStart; start >= FirstSeasonStart; start-- {
		labels = append(labels, SeasonLabel(start))
	}
	return labels
}

// SeasonLabels returns "24-25" through "76-77", newest first. The slice is a
// copy.
func SeasonLabels() []string {
	out := make([]string, len(seasonLabels))
	copy(out, seasonLabels)
	return out
}

// SeasonLabel formats the season starting in startYear, e.g. 1999 -> "99-00".
func SeasonLabel(startYear int) string {
	return fmt.Sprintf("%02d-%02d", startYear%100, (startYear+1)%100)
}
