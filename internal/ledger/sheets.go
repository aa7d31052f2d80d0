package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/szczypior/szczypior-bot/internal/common"
	"github.com/szczypior/szczypior-bot/internal/model"
)

// Column layout of the competition spreadsheet:
//
//	A: Data
//	B: Nick
//	C: Rodzaj Aktywności
//	D: Dystans (km)
//	E: Przewyższenie (m)
//	F: Obciążenie > 5kg?
//	G: Spec Ops
//	H: PUNKTY (formula, owned by the sheet)
//	I: IID
const (
	columnCount = 9
	iidColumn   = 8
	dateLayout  = "2006-01-02 15:04:05"
)

// SheetsLedger implements Ledger on top of a Google Sheets spreadsheet.
type SheetsLedger struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
	index   *identityIndex
	history *gocache.Cache

	// writeMu serializes Record's read-compute-write sequence. Without it
	// two concurrent writers would fetch the same row snapshot, pick the
	// same target row and overwrite each other.
	writeMu sync.Mutex

	sheetID    int64
	sheetTitle string
}

// NewSheetsLedger creates a ledger backed by the configured spreadsheet.
func NewSheetsLedger(ctx context.Context, config Config, logger *slog.Logger) (*SheetsLedger, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}

	service, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrSheetsConnection, err)
	}

	spreadsheet, err := service.Spreadsheets.Get(config.SpreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: unable to access spreadsheet %s: %w",
			common.ErrSheetsConnection, config.SpreadsheetID, err)
	}
	if len(spreadsheet.Sheets) == 0 {
		return nil, fmt.Errorf("%w: spreadsheet %s has no sheets",
			common.ErrSheetsConnection, config.SpreadsheetID)
	}

	first := spreadsheet.Sheets[0].Properties

	logger.Info("connected to spreadsheet",
		"title", spreadsheet.Properties.Title,
		"sheet", first.Title)

	l := &SheetsLedger{
		service:    service,
		logger:     logger,
		config:     config,
		index:      newIdentityIndex(),
		history:    gocache.New(config.HistoryTTL, 2*config.HistoryTTL),
		sheetID:    first.SheetId,
		sheetTitle: first.Title,
	}

	if err := l.ensureHeaders(ctx); err != nil {
		logger.Warn("failed to set up header row", "error", err)
	}

	return l, nil
}

// headerRow is the fixed 9-column header of the competition sheet.
var headerRow = []any{
	"Data", "Nick", "Rodzaj Aktywności", "Dystans (km)", "Przewyższenie (m)",
	"Obciążenie > 5kg?", "Spec Ops", "PUNKTY", "IID",
}

// ensureHeaders writes the header row if row 1 is empty or does not start
// with the Data column. Existing headers are left untouched.
func (l *SheetsLedger) ensureHeaders(ctx context.Context) error {
	resp, err := l.service.Spreadsheets.Values.
		Get(l.config.SpreadsheetID, fmt.Sprintf("%s!A1:I1", l.sheetTitle)).
		Context(ctx).
		Do()
	if err != nil {
		return err
	}

	if len(resp.Values) > 0 && cell(resp.Values[0], 0) == "Data" {
		return nil
	}

	_, err = l.service.Spreadsheets.Values.
		Update(l.config.SpreadsheetID, fmt.Sprintf("%s!A1:I1", l.sheetTitle), &sheets.ValueRange{
			Values: [][]any{headerRow},
		}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return err
	}

	l.logger.Info("header row added")
	return nil
}

// createSheetsService builds the API client from whichever credentials the
// config carries.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	switch {
	case config.ServiceAccountJSON != "":
		// Some hosting panels prepend a BOM when pasting the key.
		raw := strings.TrimPrefix(config.ServiceAccountJSON, "\ufeff")
		jwtConfig, err := google.JWTConfigFromJSON([]byte(raw), sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account JSON: %w", err)
		}
		tokenSource = jwtConfig.TokenSource(ctx)

	case config.ServiceAccountPath != "":
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}
		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}
		tokenSource = jwtConfig.TokenSource(ctx)

	default:
		oauthConfig := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsScope},
		}
		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}
		tokenSource = oauthConfig.TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

func (l *SheetsLedger) retryOpts() common.RetryOptions {
	return common.RetryOptions{
		MaxAttempts:  l.config.RetryAttempts,
		InitialDelay: l.config.RetryDelay,
	}
}

// BuildIndex scans the whole IID column and rebuilds the duplicate index.
func (l *SheetsLedger) BuildIndex(ctx context.Context) error {
	rows, err := l.fetchRows(ctx)
	if err != nil {
		return common.WrapSheets("build index", err)
	}

	var ids []model.MessageIdentity
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if iid := cell(row, iidColumn); iid != "" {
			ids = append(ids, model.MessageIdentity(iid))
		}
	}
	l.index.reset(ids)

	l.logger.Info("duplicate index built", "entries", l.index.size())
	return nil
}

// Exists answers from the in-memory index only; no API call.
func (l *SheetsLedger) Exists(identity model.MessageIdentity) bool {
	return l.index.has(identity)
}

// Record appends the entry as a new row. The points cell gets the sheet's own
// formula, never a locally computed value, so the spreadsheet stays the
// single authority on scoring.
func (l *SheetsLedger) Record(ctx context.Context, entry model.Entry) error {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	if l.index.has(entry.Identity) {
		l.logger.Debug("skipping duplicate entry", "iid", entry.Identity)
		return nil
	}

	rows, err := l.fetchRows(ctx)
	if err != nil {
		return common.WrapSheets("find next row", err)
	}

	rowNum, needsGrow := nextRow(rows)
	if needsGrow {
		if err := l.appendRow(ctx); err != nil {
			return common.WrapSheets("grow sheet", err)
		}
	}

	elevation := any("")
	if entry.Elevation > 0 {
		elevation = entry.Elevation
	}

	data := []*sheets.ValueRange{
		{
			Range: fmt.Sprintf("%s!A%d:G%d", l.sheetTitle, rowNum, rowNum),
			Values: [][]any{{
				entry.Date.Format(dateLayout),
				entry.Nick,
				entry.ActivityLabel,
				model.FormatDistance(entry.Distance, 2),
				elevation,
				entry.HeavyLoad,
				"",
			}},
		},
		{
			Range:  fmt.Sprintf("%s!H%d", l.sheetTitle, rowNum),
			Values: [][]any{{pointsFormula(rowNum)}},
		},
		{
			Range:  fmt.Sprintf("%s!I%d", l.sheetTitle, rowNum),
			Values: [][]any{{string(entry.Identity)}},
		},
	}

	err = common.WithRetry(ctx, func() error {
		_, updateErr := l.service.Spreadsheets.Values.
			BatchUpdate(l.config.SpreadsheetID, &sheets.BatchUpdateValuesRequest{
				ValueInputOption: "USER_ENTERED",
				Data:             data,
			}).
			Context(ctx).
			Do()
		return updateErr
	}, l.retryOpts())
	if err != nil {
		return common.WrapSheets("write row", err)
	}

	if err := l.formatPointsCell(ctx, rowNum); err != nil {
		// Cosmetic only; the value is already in place.
		l.logger.Warn("failed to format points cell", "row", rowNum, "error", err)
	}

	l.index.add(entry.Identity)
	l.history.Delete(entry.Nick)

	l.logger.Info("activity recorded",
		"nick", entry.Nick,
		"activity", entry.ActivityLabel,
		"distance", entry.Distance,
		"row", rowNum)
	return nil
}

// UserHistory returns the rows recorded for a nick, read through a short
// lived cache so commentary generation does not rescan the sheet on every
// message.
func (l *SheetsLedger) UserHistory(ctx context.Context, nick string) ([]model.UserActivity, error) {
	if cached, ok := l.history.Get(nick); ok {
		activities, castOK := cached.([]model.UserActivity)
		if castOK {
			return activities, nil
		}
	}

	all, err := l.AllActivities(ctx)
	if err != nil {
		return nil, err
	}

	var mine []model.UserActivity
	for _, act := range all {
		if act.Nick == nick {
			mine = append(mine, act)
		}
	}

	l.history.Set(nick, mine, gocache.DefaultExpiration)
	return mine, nil
}

// AllActivities reads every data row from the sheet.
func (l *SheetsLedger) AllActivities(ctx context.Context) ([]model.UserActivity, error) {
	rows, err := l.fetchRows(ctx)
	if err != nil {
		return nil, common.WrapSheets("read activities", err)
	}

	var activities []model.UserActivity
	for i, row := range rows {
		if i == 0 || cell(row, 0) == "" {
			continue
		}
		points, _ := strconv.Atoi(strings.TrimSpace(cell(row, 7)))
		activities = append(activities, model.UserActivity{
			Date:     cell(row, 0),
			Nick:     cell(row, 1),
			Activity: cell(row, 2),
			Distance: model.ParseDistance(cell(row, 3)),
			Points:   points,
			Identity: cell(row, iidColumn),
		})
	}

	return activities, nil
}

func (l *SheetsLedger) fetchRows(ctx context.Context) ([][]any, error) {
	var resp *sheets.ValueRange
	err := common.WithRetry(ctx, func() error {
		var getErr error
		resp, getErr = l.service.Spreadsheets.Values.
			Get(l.config.SpreadsheetID, fmt.Sprintf("%s!A:I", l.sheetTitle)).
			Context(ctx).
			Do()
		return getErr
	}, l.retryOpts())
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

// nextRow picks the row to write. The sheet may end with a blank row left by
// manual edits; reuse it instead of appending below it.
func nextRow(rows [][]any) (row int, needsGrow bool) {
	if len(rows) == 0 {
		return 2, true // leave row 1 for headers
	}

	last := rows[len(rows)-1]
	for i := 0; i < 8; i++ {
		if cell(last, i) != "" {
			return len(rows) + 1, true
		}
	}
	return len(rows), false
}

func (l *SheetsLedger) appendRow(ctx context.Context) error {
	_, err := l.service.Spreadsheets.
		BatchUpdate(l.config.SpreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{{
				AppendDimension: &sheets.AppendDimensionRequest{
					SheetId:   l.sheetID,
					Dimension: "ROWS",
					Length:    1,
				},
			}},
		}).
		Context(ctx).
		Do()
	return err
}

// formatPointsCell forces NUMBER formatting on the points cell so the sheet
// does not render the formula result as a date.
func (l *SheetsLedger) formatPointsCell(ctx context.Context, rowNum int) error {
	_, err := l.service.Spreadsheets.
		BatchUpdate(l.config.SpreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{{
				RepeatCell: &sheets.RepeatCellRequest{
					Range: &sheets.GridRange{
						SheetId:          l.sheetID,
						StartRowIndex:    int64(rowNum - 1),
						EndRowIndex:      int64(rowNum),
						StartColumnIndex: 7,
						EndColumnIndex:   8,
					},
					Cell: &sheets.CellData{
						UserEnteredFormat: &sheets.CellFormat{
							NumberFormat: &sheets.NumberFormat{
								Type:    "NUMBER",
								Pattern: "0",
							},
						},
					},
					Fields: "userEnteredFormat.numberFormat",
				},
			}},
		}).
		Context(ctx).
		Do()
	return err
}

// pointsFormula builds the sheet's scoring formula for one row. The Polish
// locale notation (semicolons, decimal commas) matches the spreadsheet the
// competition actually runs on; this string must stay byte-compatible with
// the formula installed in existing rows.
func pointsFormula(rowNum int) string {
	const template = `=IF(C{r}=""; ""; LET(
  aktywnosc; C{r};
  dystans; IF(ISNUMBER(D{r}); D{r}; 0);
  wznios; IF(ISNUMBER(E{r}); E{r}; 0);
  szpej; F{r};
  specOps; G{r};

  BazaPkt; IFS(
    aktywnosc="Bieganie (Teren)"; 1000;
    aktywnosc="Bieganie (Bieżnia)"; 800;
    aktywnosc="Pływanie"; 4000;
    aktywnosc="Rower / Rolki"; 300;
    aktywnosc="Spacer / Trekking"; 200;
    aktywnosc="Inne Cardio"; 800;
    TRUE; 0
  );

  MinDystans; IFS(
    aktywnosc="Rower / Rolki"; 6;
    aktywnosc="Spacer / Trekking"; 3;
    TRUE; 0
  );

  MnoznikSzpeju; IF(AND(szpej=TRUE; OR(aktywnosc="Bieganie (Teren)"; aktywnosc="Bieganie (Bieżnia)"; aktywnosc="Spacer / Trekking"; aktywnosc="Inne Cardio")); 1,5; 1);

  BonusWznios; IFERROR(INT(wznios/50)*500; 0);

  BonusSpecOps; IF(specOps=TRUE; 2000; 0);

  Wynik; IF(dystans < MinDystans; 0; (dystans * BazaPkt * MnoznikSzpeju) + BonusWznios + BonusSpecOps);

  Wynik
))`
	return strings.ReplaceAll(template, "{r}", strconv.Itoa(rowNum))
}

func cell(row []any, idx int) string {
	if idx >= len(row) {
		return ""
	}
	s, ok := row[idx].(string)
	if !ok {
		return fmt.Sprint(row[idx])
	}
	return strings.TrimSpace(s)
}
