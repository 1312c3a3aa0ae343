package utils

import (
	"fmt"
	"regexp"
	"runtime"
	"strconv"
)

func ErrorWithTrace(e error) error {
	_, file, line, _ := runtime.Caller(1)
	return fmt.Errorf("%s:%d\n\t%w", file, line, e)
}

var seasonLabelRe = regexp.MustCompile(`^(\d{2})-(\d{2})$`)

// IsInvalidSeason reports whether season is not a "YY-YY" label whose second
// year follows the first.
func IsInvalidSeason(season string) bool {
	m := seasonLabelRe.FindStringSubmatch(season)
	if m == nil {
		return true
	}
	start, _ := strconv.Atoi(m[1])
	end, _ := strconv.Atoi(m[2])
	return (start+1)%100 != end
}
