package extract

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/szczypior/szczypior-bot/internal/model"
)

// Time formats seen in model commentary, most explicit first.
var durationPatterns = []struct {
	re        *regexp.Regexp
	hourFirst bool
}{
	// "1 godzinę, 12 minut", "1 hour 12 min"
	{regexp.MustCompile(`(?i)(\d{1,2})\s*(?:godzin[ęya]?|hour|h|godz\.?)[,\s]+(\d{1,2})\s*(?:minut|minute|min|m)`), true},
	// "1:12:56"
	{regexp.MustCompile(`(\d{1,2}):(\d{2}):(\d{2})`), false},
	// "1h 12m"
	{regexp.MustCompile(`(?i)(\d{1,2})h\s*(\d{1,2})m`), true},
	// "72:56" is minutes:seconds when the first number cannot be an hour
	{regexp.MustCompile(`(\d{2,3}):(\d{2})`), false},
}

// durationMinutes pulls an activity duration out of free text.
func durationMinutes(text string) (float64, bool) {
	for _, p := range durationPatterns {
		match := p.re.FindStringSubmatch(text)
		if match == nil {
			continue
		}

		if len(match) == 4 {
			hours, _ := strconv.Atoi(match[1])
			minutes, _ := strconv.Atoi(match[2])
			seconds, _ := strconv.Atoi(match[3])
			total := float64(hours)*60 + float64(minutes) + float64(seconds)/60
			return math.Round(total*10) / 10, true
		}

		first, _ := strconv.Atoi(match[1])
		second, _ := strconv.Atoi(match[2])

		var total float64
		switch {
		case p.hourFirst:
			total = float64(first)*60 + float64(second)
		case first > 23:
			// Too large for an hour count, so minutes:seconds.
			total = float64(first) + float64(second)/60
		default:
			total = float64(first)*60 + float64(second)
		}
		return math.Round(total*10) / 10, true
	}
	return 0, false
}

// cardioDistance converts a duration to the distance equivalent used for
// timed workouts: 10 minutes of effort count as one kilometer.
func cardioDistance(minutes float64) float64 {
	return math.Round(minutes/10*100) / 100
}

// Words in model commentary that mark a timed workout worth the fallback.
var sportKeywords = []string{
	"aktywność", "trening", "sport", "czas trwania", "tętno", "bpm",
	"soccer", "football", "cardio", "fitness", "gym", "workout",
}

// DurationFallback rescues an unrecognized result whose commentary still
// describes a timed workout. Used by the backlog sync, where a screenshot of
// a gym session has a duration but no distance. Sessions of five minutes or
// less are ignored as noise.
func DurationFallback(result Result) (model.Candidate, bool) {
	if result.Recognized || result.Reason == "" {
		return model.Candidate{}, false
	}

	lower := strings.ToLower(result.Reason)
	matched := false
	for _, kw := range sportKeywords {
		if strings.Contains(lower, kw) {
			matched = true
			break
		}
	}
	if !matched {
		return model.Candidate{}, false
	}

	minutes, ok := durationMinutes(result.Reason)
	if !ok || minutes <= 5 {
		return model.Candidate{}, false
	}

	return model.Candidate{
		KindID:   "cardio",
		Distance: cardioDistance(minutes),
		Duration: fmt.Sprintf("%d min", int(minutes)),
		Comment:  result.Reason,
	}, true
}
