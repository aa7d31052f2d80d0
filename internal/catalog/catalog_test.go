package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	kinds := c.Kinds()
	require.Len(t, kinds, 6)

	tests := []struct {
		id          string
		basePoints  int
		minDistance float64
		weight      bool
		elevation   bool
	}{
		{"bieganie_teren", 1000, 0, true, true},
		{"bieganie_bieznia", 800, 0, true, false},
		{"plywanie", 4000, 0, false, false},
		{"rower", 300, 6, false, true},
		{"spacer", 200, 3, true, true},
		{"cardio", 800, 0, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			k, ok := c.Kind(tt.id)
			require.True(t, ok)
			assert.Equal(t, tt.basePoints, k.BasePoints)
			assert.Equal(t, tt.minDistance, k.MinDistance)
			assert.Equal(t, tt.weight, k.SupportsBonus(BonusWeight))
			assert.Equal(t, tt.elevation, k.SupportsBonus(BonusElevation))
			assert.NotEmpty(t, k.DisplayName)
			assert.NotEmpty(t, k.Emoji)
		})
	}
}

func TestKind_UnknownID(t *testing.T) {
	_, ok := Default().Kind("triathlon")
	assert.False(t, ok)
}

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"bieganie_teren", "Bieganie (Teren)"},
		{"Bieganie (Teren)", "Bieganie (Teren)"},
		{"bieganie", "Bieganie (Teren)"},
		{"Trail Running", "Bieganie (Teren)"},
		{"bieganie_bieznia", "Bieganie (Bieżnia)"},
		{"Treadmill", "Bieganie (Bieżnia)"},
		{"plywanie", "Pływanie"},
		{"open water", "Pływanie"},
		{"rower", "Rower / Rolki"},
		{"Cycling", "Rower / Rolki"},
		{"spacer", "Spacer / Trekking"},
		{"hiking", "Spacer / Trekking"},
		{"cardio", "Inne Cardio"},
		{"rowing", "Inne Cardio"},
		// Unrecognized labels pass through untouched.
		{"Joga", "Joga"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeLabel(tt.in))
		})
	}
}
