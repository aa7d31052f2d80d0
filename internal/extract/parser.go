package extract

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/szczypior/szczypior-bot/internal/common"
	"github.com/szczypior/szczypior-bot/internal/model"
)

// Result is the tagged outcome of one extraction call: either a validated
// candidate or a stated reason why nothing was recognized.
type Result struct {
	Candidate  model.Candidate
	Reason     string
	Recognized bool
}

// parseResponse validates the raw model output. Missing kind or distance
// demotes the response to unrecognized instead of failing; invalid JSON is a
// malformed-response error the caller maps to "no activity detected".
func parseResponse(raw string) (Result, error) {
	clean := stripFences(raw)

	var fields map[string]any
	if err := json.Unmarshal([]byte(clean), &fields); err != nil {
		return Result{}, fmt.Errorf("%w: %w", common.ErrMalformedResponse, err)
	}

	comment := asString(fields["komentarz"])

	kindID := asString(fields["typ_aktywnosci"])
	distance, hasDistance := asFloat(fields["dystans"])
	if kindID == "" || kindID == "null" || !hasDistance || distance == 0 {
		return Result{Reason: comment, Recognized: false}, nil
	}

	weight, _ := asFloat(fields["obciazenie"])
	elevation, _ := asFloat(fields["przewyzszenie"])

	return Result{
		Recognized: true,
		Candidate: model.Candidate{
			KindID:    kindID,
			Distance:  distance,
			Weight:    weight,
			Elevation: elevation,
			Duration:  asString(fields["czas"]),
			Pace:      asString(fields["tempo"]),
			HeartRate: asString(fields["puls_sredni"]),
			Calories:  asString(fields["kalorie"]),
			Comment:   comment,
		},
	}, nil
}

// stripFences removes markdown code fences the model adds despite being told
// not to.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// asFloat coerces model output that may arrive as a number or a string, with
// either decimal separator.
func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(t), ",", "."), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
