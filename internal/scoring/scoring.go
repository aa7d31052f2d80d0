// Package scoring implements the competition point rules. The calculation is
// a pure function over the activity catalog so it can be unit tested without
// any I/O.
package scoring

import (
	"fmt"

	"github.com/szczypior/szczypior-bot/internal/catalog"
	"github.com/szczypior/szczypior-bot/internal/common"
)

// Mode controls how unsupported bonuses are treated.
type Mode int

const (
	// Lenient silently drops bonuses the activity kind does not support.
	// Used by the automatic pipeline, where the model may hallucinate a
	// weight or elevation for a kind that has no such bonus.
	Lenient Mode = iota
	// Strict rejects unsupported bonuses with a user-facing error. Used by
	// manual entry, where the operator typed the values on purpose.
	Strict
)

// Input holds the raw values a score is computed from.
type Input struct {
	KindID    string
	Distance  float64
	Weight    float64
	Elevation float64
}

// Score computes points for an activity. On validation failure it returns 0
// points and an error carrying a Polish user-facing message. A valid activity
// never scores below 1 point.
func Score(c *catalog.Catalog, in Input, mode Mode) (int, error) {
	kind, ok := c.Kind(in.KindID)
	if !ok {
		return 0, common.NewUserError(
			fmt.Sprintf("Nieznany typ aktywności: %s", in.KindID),
			common.ErrUnknownActivity)
	}

	if in.Distance < kind.MinDistance {
		return 0, common.NewUserError(
			fmt.Sprintf("Minimalny dystans dla %s: %v km", kind.DisplayName, kind.MinDistance),
			common.ErrBelowMinimumDistance)
	}

	points := int(in.Distance * float64(kind.BasePoints))

	if in.Weight > 0 {
		if kind.SupportsBonus(catalog.BonusWeight) {
			points += weightBonus(kind, in.Distance, in.Weight)
		} else if mode == Strict {
			return 0, common.NewUserError(
				fmt.Sprintf("%s nie wspiera bonusu za obciążenie", kind.DisplayName),
				common.ErrUnsupportedBonus)
		}
	}

	if in.Elevation > 0 {
		if kind.SupportsBonus(catalog.BonusElevation) {
			points += elevationBonus(kind, in.Distance, in.Elevation)
		} else if mode == Strict {
			return 0, common.NewUserError(
				fmt.Sprintf("%s nie wspiera bonusu za przewyższenie", kind.DisplayName),
				common.ErrUnsupportedBonus)
		}
	}

	if points < 1 {
		points = 1
	}
	return points, nil
}

// weightBonus grants 10% of the base value per full 5 kg of load.
func weightBonus(kind catalog.Kind, distance, weight float64) int {
	return int((weight / 5) * (distance * float64(kind.BasePoints) * 0.1))
}

// elevationBonus grants 5% of the base value per 100 m of gain.
func elevationBonus(kind catalog.Kind, distance, elevation float64) int {
	return int((elevation / 100) * (distance * float64(kind.BasePoints) * 0.05))
}
