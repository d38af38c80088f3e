package journal

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	decisionsSheet = "Decisions"
	sessionsSheet  = "Sessions"
)

// ExportXLSX renders decisions as a workbook with a Decisions sheet and a
// per-session Sessions sheet.
func ExportXLSX(recs []DecisionRecord) (b []byte, err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName("Sheet1", decisionsSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(sessionsSheet); err != nil {
		return nil, err
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#cfe2f3"}},
	})
	if err != nil {
		return nil, err
	}

	if err := writeRow(f, decisionsSheet, 1, header,
		"decision_id", "session_id", "symbol", "action", "position", "total", "decided_at"); err != nil {
		return nil, err
	}
	for i, d := range recs {
		if err := writeRow(f, decisionsSheet, i+2, 0,
			d.DecisionID, d.SessionID, d.Symbol, d.Action, d.Position, d.Total,
			d.DecidedAt.UTC().Format(time.RFC3339)); err != nil {
			return nil, err
		}
	}

	if err := writeRow(f, sessionsSheet, 1, header,
		"session_id", "deleted", "kept", "first", "last"); err != nil {
		return nil, err
	}
	for i, s := range Summarize(recs) {
		if err := writeRow(f, sessionsSheet, i+2, 0,
			s.SessionID, s.Deleted, s.Kept,
			s.First.UTC().Format(time.RFC3339), s.Last.UTC().Format(time.RFC3339)); err != nil {
			return nil, err
		}
	}

	_ = f.SetColWidth(decisionsSheet, "A", "B", 30)
	_ = f.SetColWidth(sessionsSheet, "A", "A", 30)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row, style int, values ...any) error {
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, first, &values); err != nil {
		return err
	}
	if style == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(values), row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, first, last, style)
}
