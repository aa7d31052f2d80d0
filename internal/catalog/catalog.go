// Package catalog holds the static table of activity kinds and their scoring
// parameters, as dictated by the competition rules. The table is built once at
// process start and never mutated.
package catalog

// Bonus identifies an optional scoring bonus an activity kind may support.
type Bonus string

// Bonus kinds. The Polish names match the competition wording and the
// spreadsheet columns.
const (
	BonusWeight    Bonus = "obciążenie"
	BonusElevation Bonus = "przewyższenie"
)

// Kind is one immutable catalog entry.
type Kind struct {
	ID          string
	DisplayName string
	Emoji       string
	Unit        string
	BasePoints  int
	MinDistance float64
	Bonuses     []Bonus
}

// SupportsBonus reports whether the kind participates in the given bonus.
func (k Kind) SupportsBonus(b Bonus) bool {
	for _, bonus := range k.Bonuses {
		if bonus == b {
			return true
		}
	}
	return false
}

// Catalog is a lookup table over the fixed set of activity kinds.
type Catalog struct {
	kinds map[string]Kind
	order []string
}

// Default returns the catalog with the competition's six activity kinds.
func Default() *Catalog {
	return newCatalog(
		Kind{
			ID:          "bieganie_teren",
			DisplayName: "Bieganie (Teren)",
			Emoji:       "🏃",
			Unit:        "km",
			BasePoints:  1000,
			Bonuses:     []Bonus{BonusWeight, BonusElevation},
		},
		Kind{
			ID:          "bieganie_bieznia",
			DisplayName: "Bieganie (Bieżnia)",
			Emoji:       "🏃‍♂️",
			Unit:        "km",
			BasePoints:  800,
			Bonuses:     []Bonus{BonusWeight},
		},
		Kind{
			ID:          "plywanie",
			DisplayName: "Pływanie",
			Emoji:       "🏊",
			Unit:        "km",
			BasePoints:  4000,
		},
		Kind{
			ID:          "rower",
			DisplayName: "Rower/Rolki",
			Emoji:       "🚴",
			Unit:        "km",
			BasePoints:  300,
			MinDistance: 6,
			Bonuses:     []Bonus{BonusElevation},
		},
		Kind{
			ID:          "spacer",
			DisplayName: "Spacer/Trekking",
			Emoji:       "🚶",
			Unit:        "km",
			BasePoints:  200,
			MinDistance: 3,
			Bonuses:     []Bonus{BonusWeight, BonusElevation},
		},
		Kind{
			ID:          "cardio",
			DisplayName: "Inne Cardio (wioślarz, orbitrek, ASG)",
			Emoji:       "🔫",
			Unit:        "km",
			BasePoints:  800,
			Bonuses:     []Bonus{BonusWeight, BonusElevation},
		},
	)
}

func newCatalog(kinds ...Kind) *Catalog {
	c := &Catalog{kinds: make(map[string]Kind, len(kinds))}
	for _, k := range kinds {
		c.kinds[k.ID] = k
		c.order = append(c.order, k.ID)
	}
	return c
}

// Kind looks up a catalog entry by id.
func (c *Catalog) Kind(id string) (Kind, bool) {
	k, ok := c.kinds[id]
	return k, ok
}

// Kinds returns all entries in their declaration order.
func (c *Catalog) Kinds() []Kind {
	out := make([]Kind, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.kinds[id])
	}
	return out
}
