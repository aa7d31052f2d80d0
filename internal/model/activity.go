package model

import (
	"strconv"
	"strings"
	"time"
)

// Candidate is the structured result of a successful extraction. It is only
// constructed after the parse-and-validate step, so KindID and Distance are
// always set; everything else is optional display data carried through to the
// reply.
type Candidate struct {
	KindID    string
	Distance  float64
	Weight    float64
	Elevation float64
	Duration  string
	Pace      string
	HeartRate string
	Calories  string
	Comment   string
}

// HeavyLoad reports whether the candidate carried more than 5 kg, the
// threshold the spreadsheet's load checkbox represents.
func (c Candidate) HeavyLoad() bool {
	return c.Weight > 5
}

// Entry is one persisted ledger row. Points are deliberately absent: the
// backing spreadsheet computes them with its own formula.
type Entry struct {
	Date          time.Time
	Nick          string
	ActivityLabel string
	Distance      float64
	Elevation     float64
	HeavyLoad     bool
	Identity      MessageIdentity
}

// UserActivity is a ledger row read back for history and stats. Values come
// from spreadsheet cells, so dates stay strings and points may be zero when
// the formula has not evaluated yet.
type UserActivity struct {
	Date     string
	Nick     string
	Activity string
	Distance float64
	Points   int
	Identity string
}

// FormatDistance renders a distance in the Polish locale (decimal comma).
func FormatDistance(distance float64, decimals int) string {
	return strings.ReplaceAll(strconv.FormatFloat(distance, 'f', decimals, 64), ".", ",")
}

// ParseDistance converts a spreadsheet distance cell to a float. Both the
// Polish comma and the dot notation are accepted; anything unparsable is 0.
func ParseDistance(raw string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(raw), ",", "."), 64)
	if err != nil {
		return 0
	}
	return v
}
