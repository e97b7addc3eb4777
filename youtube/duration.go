package youtube

import (
	"regexp"
	"strconv"
)

// isoDurationRe matches the ISO 8601 durations the Data API returns for
// contentDetails.duration, e.g. "PT1H2M30S", "PT45S", "P1DT2H", "P0D".
var isoDurationRe = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// parseISODuration converts an ISO 8601 duration to seconds.
// Unparseable input yields 0, matching the API's "P0D" for live content.
func parseISODuration(s string) int {
	m := isoDurationRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}

	days := atoi(m[1])
	hours := atoi(m[2])
	minutes := atoi(m[3])
	seconds := atoi(m[4])

	return days*86400 + hours*3600 + minutes*60 + seconds
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}
