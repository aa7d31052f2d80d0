package ledger

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/szczypior/szczypior-bot/internal/model"
)

// fakeSheet is a stateful in-memory spreadsheet behind an httptest server.
// It applies value writes to its grid so a later read sees earlier writes,
// and records every written range.
type fakeSheet struct {
	mu      sync.Mutex
	rows    [][]any
	written []string
}

var cellRangeRe = regexp.MustCompile(`!([A-Z])(\d+)(?::[A-Z](\d+))?$`)

func (f *fakeSheet) apply(rangeStr string, values [][]any) {
	match := cellRangeRe.FindStringSubmatch(rangeStr)
	if match == nil || len(values) == 0 {
		return
	}
	startCol := int(match[1][0] - 'A')
	rowNum, _ := strconv.Atoi(match[2])

	for len(f.rows) < rowNum {
		f.rows = append(f.rows, make([]any, 9))
	}
	row := f.rows[rowNum-1]
	for i, v := range values[0] {
		if startCol+i < len(row) {
			row[startCol+i] = v
		}
	}
	f.written = append(f.written, rangeStr[strings.Index(rangeStr, "!")+1:])
}

func (f *fakeSheet) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		switch {
		case r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/values/"):
			_ = json.NewEncoder(w).Encode(&sheets.ValueRange{Values: f.rows})

		case r.Method == http.MethodPut && strings.Contains(r.URL.Path, "/values/"):
			var vr sheets.ValueRange
			_ = json.NewDecoder(r.Body).Decode(&vr)
			raw := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
			rangeStr, _ := url.PathUnescape(raw)
			f.apply(rangeStr, vr.Values)
			_, _ = w.Write([]byte("{}"))

		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "values:batchUpdate"):
			var req sheets.BatchUpdateValuesRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			for _, data := range req.Data {
				f.apply(data.Range, data.Values)
			}
			_, _ = w.Write([]byte("{}"))

		default:
			// Grid batchUpdate (grow, formatting): acknowledged, not modeled.
			_, _ = w.Write([]byte("{}"))
		}
	})
}

func (f *fakeSheet) writtenRanges() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.written))
	copy(out, f.written)
	sort.Strings(out)
	return out
}

func (f *fakeSheet) cellValue(rowNum, col int) any {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rowNum > len(f.rows) {
		return nil
	}
	return f.rows[rowNum-1][col]
}

func newFakeLedger(t *testing.T, fake *fakeSheet) *SheetsLedger {
	t.Helper()

	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	svc, err := sheets.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	return &SheetsLedger{
		service:    svc,
		logger:     slog.Default(),
		config:     Config{SpreadsheetID: "sheet-1", RetryAttempts: 1, HistoryTTL: time.Minute},
		index:      newIdentityIndex(),
		history:    gocache.New(time.Minute, time.Minute),
		sheetTitle: "Arkusz1",
	}
}

func headerOnly() [][]any {
	header := make([]any, len(headerRow))
	copy(header, headerRow)
	return [][]any{header}
}

func testEntry(nick, id string) model.Entry {
	created := time.Date(2025, 6, 14, 18, 0, 0, 0, time.UTC)
	return model.Entry{
		Date:          created,
		Nick:          nick,
		ActivityLabel: "Bieganie (Teren)",
		Distance:      10,
		Identity:      model.NewMessageIdentity(created, id),
	}
}

func TestRecord_ConcurrentWritersGetDistinctRows(t *testing.T) {
	fake := &fakeSheet{rows: headerOnly()}
	led := newFakeLedger(t, fake)

	var wg sync.WaitGroup
	for _, entry := range []model.Entry{testEntry("gruby", "1"), testEntry("chudy", "2")} {
		wg.Add(1)
		go func(e model.Entry) {
			defer wg.Done()
			assert.NoError(t, led.Record(context.Background(), e))
		}(entry)
	}
	wg.Wait()

	// Each write landed on its own row; the second writer saw the first
	// writer's row and moved past it.
	ranges := fake.writtenRanges()
	assert.Equal(t, []string{"A2:G2", "A3:G3", "H2", "H3", "I2", "I3"}, ranges)

	nicks := []any{fake.cellValue(2, 1), fake.cellValue(3, 1)}
	assert.ElementsMatch(t, []any{"gruby", "chudy"}, nicks)

	assert.True(t, led.Exists(testEntry("gruby", "1").Identity))
	assert.True(t, led.Exists(testEntry("chudy", "2").Identity))
}

func TestRecord_SkipsKnownIdentity(t *testing.T) {
	fake := &fakeSheet{rows: headerOnly()}
	led := newFakeLedger(t, fake)

	entry := testEntry("gruby", "1")
	require.NoError(t, led.Record(context.Background(), entry))
	require.NoError(t, led.Record(context.Background(), entry))

	assert.Equal(t, []string{"A2:G2", "H2", "I2"}, fake.writtenRanges())
}

func TestEnsureHeaders_WritesMissingHeader(t *testing.T) {
	fake := &fakeSheet{}
	led := newFakeLedger(t, fake)

	require.NoError(t, led.ensureHeaders(context.Background()))

	assert.Equal(t, []string{"A1:I1"}, fake.writtenRanges())
	assert.Equal(t, "Data", fake.cellValue(1, 0))
	assert.Equal(t, "IID", fake.cellValue(1, 8))
}

func TestEnsureHeaders_LeavesExistingHeaderAlone(t *testing.T) {
	fake := &fakeSheet{rows: headerOnly()}
	led := newFakeLedger(t, fake)

	require.NoError(t, led.ensureHeaders(context.Background()))

	assert.Empty(t, fake.writtenRanges())
}
