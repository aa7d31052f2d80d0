package catalog

import "strings"

// labelAlias maps a lowercase substring to the canonical sheet label.
type labelAlias struct {
	match string
	label string
}

// Ordered by specificity. Substring matching means "bieganie_teren" must be
// tried before the bare "bieganie", which itself defaults to terrain running.
var labelAliases = []labelAlias{
	{"bieganie_teren", "Bieganie (Teren)"},
	{"bieganie (teren)", "Bieganie (Teren)"},
	{"bieganie teren", "Bieganie (Teren)"},
	{"running", "Bieganie (Teren)"},
	{"trail running", "Bieganie (Teren)"},
	{"trail", "Bieganie (Teren)"},
	{"bieganie_bieznia", "Bieganie (Bieżnia)"},
	{"bieganie bieżnia", "Bieganie (Bieżnia)"},
	{"bieżnia", "Bieganie (Bieżnia)"},
	{"treadmill", "Bieganie (Bieżnia)"},
	{"bieganie", "Bieganie (Teren)"},
	{"plywanie", "Pływanie"},
	{"pływanie", "Pływanie"},
	{"swimming", "Pływanie"},
	{"pool", "Pływanie"},
	{"open water", "Pływanie"},
	{"rower", "Rower / Rolki"},
	{"rolki", "Rower / Rolki"},
	{"rower/rolki", "Rower / Rolki"},
	{"cycling", "Rower / Rolki"},
	{"bike", "Rower / Rolki"},
	{"biking", "Rower / Rolki"},
	{"spacer", "Spacer / Trekking"},
	{"trekking", "Spacer / Trekking"},
	{"spacer/trekking", "Spacer / Trekking"},
	{"walking", "Spacer / Trekking"},
	{"hiking", "Spacer / Trekking"},
	{"cardio", "Inne Cardio"},
	{"inne cardio", "Inne Cardio"},
	{"rowing", "Inne Cardio"},
	{"elliptical", "Inne Cardio"},
	{"other", "Inne Cardio"},
}

// NormalizeLabel converts a freeform activity label into the canonical value
// accepted by the spreadsheet. Unrecognized labels pass through unchanged so
// that manual rows are never silently rewritten.
func NormalizeLabel(label string) string {
	lower := strings.ToLower(label)
	for _, alias := range labelAliases {
		if strings.Contains(lower, alias.match) {
			return alias.label
		}
	}
	return label
}
