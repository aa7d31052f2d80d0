package ledger

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/szczypior/szczypior-bot/internal/model"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "service account json",
			mutate: func(c *Config) { c.ServiceAccountJSON = `{"type":"service_account"}` },
		},
		{
			name:   "service account path",
			mutate: func(c *Config) { c.ServiceAccountPath = "/tmp/sa.json" },
		},
		{
			name: "oauth credentials",
			mutate: func(c *Config) {
				c.ClientID = "id"
				c.ClientSecret = "secret"
				c.RefreshToken = "token"
			},
		},
		{
			name:    "no auth",
			mutate:  func(_ *Config) {},
			wantErr: "no authentication method",
		},
		{
			name: "missing spreadsheet id",
			mutate: func(c *Config) {
				c.ServiceAccountPath = "/tmp/sa.json"
				c.SpreadsheetID = ""
			},
			wantErr: "spreadsheet id is required",
		},
		{
			name: "incomplete oauth",
			mutate: func(c *Config) {
				c.ClientID = "id"
			},
			wantErr: "no authentication method",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.SpreadsheetID = "sheet-1"
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestIdentityIndex(t *testing.T) {
	idx := newIdentityIndex()

	id := model.NewMessageIdentity(time.Unix(1749925812, 0), "12345")
	assert.False(t, idx.has(id))

	idx.add(id)
	assert.True(t, idx.has(id))
	assert.Equal(t, 1, idx.size())

	// Blank identities are never indexed.
	idx.add("")
	assert.Equal(t, 1, idx.size())

	idx.reset([]model.MessageIdentity{"a", "b", ""})
	assert.False(t, idx.has(id))
	assert.True(t, idx.has("a"))
	assert.Equal(t, 2, idx.size())
}

func TestNextRow(t *testing.T) {
	tests := []struct {
		name      string
		rows      [][]any
		wantRow   int
		wantsGrow bool
	}{
		{
			name:      "empty sheet skips header row",
			rows:      nil,
			wantRow:   2,
			wantsGrow: true,
		},
		{
			name: "last row has data",
			rows: [][]any{
				{"Data", "Nick"},
				{"2025-06-14 18:30:12", "gruby"},
			},
			wantRow:   3,
			wantsGrow: true,
		},
		{
			name: "trailing blank row is reused",
			rows: [][]any{
				{"Data", "Nick"},
				{"2025-06-14 18:30:12", "gruby"},
				{"", "", "", "", "", "", "", ""},
			},
			wantRow:   3,
			wantsGrow: false,
		},
		{
			name: "iid only in last row still counts as blank",
			rows: [][]any{
				{"Data", "Nick"},
				{"", "", "", "", "", "", "", "", "1749925812_123"},
			},
			wantRow:   2,
			wantsGrow: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, grow := nextRow(tt.rows)
			assert.Equal(t, tt.wantRow, row)
			assert.Equal(t, tt.wantsGrow, grow)
		})
	}
}

func TestPointsFormula(t *testing.T) {
	formula := pointsFormula(17)

	assert.True(t, strings.HasPrefix(formula, `=IF(C17=""; ""; LET(`))
	assert.Contains(t, formula, "aktywnosc; C17;")
	assert.Contains(t, formula, "IF(ISNUMBER(D17); D17; 0)")
	assert.Contains(t, formula, `aktywnosc="Pływanie"; 4000;`)
	assert.Contains(t, formula, `aktywnosc="Rower / Rolki"; 6;`)
	// Polish locale multiplier must keep the decimal comma.
	assert.Contains(t, formula, "1,5; 1)")
	assert.NotContains(t, formula, "{r}")
}

func TestCell(t *testing.T) {
	row := []any{"2025-06-14", " gruby ", 3.5}

	assert.Equal(t, "2025-06-14", cell(row, 0))
	assert.Equal(t, "gruby", cell(row, 1))
	assert.Equal(t, "3.5", cell(row, 2))
	assert.Empty(t, cell(row, 9))
}

func TestMockLedger_RecordIsIdempotent(t *testing.T) {
	m := NewMockLedger()
	ctx := context.Background()

	entry := model.Entry{
		Date:          time.Date(2025, 6, 14, 18, 30, 12, 0, time.UTC),
		Nick:          "gruby",
		ActivityLabel: "Bieganie (Teren)",
		Distance:      10,
		Identity:      model.NewMessageIdentity(time.Unix(1749925812, 0), "123"),
	}

	require.NoError(t, m.Record(ctx, entry))
	require.NoError(t, m.Record(ctx, entry))

	assert.Len(t, m.Entries(), 1)
	assert.True(t, m.Exists(entry.Identity))
}
