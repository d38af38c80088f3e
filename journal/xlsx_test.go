package journal

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportXLSX(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	b, err := ExportXLSX([]DecisionRecord{
		decision("D1", "S1", "A", ActionDelete, 1, base),
		decision("D2", "S1", "B", ActionKeep, 1, base.Add(time.Minute)),
		decision("D3", "S2", "C", ActionKeep, 3, base.Add(time.Hour)),
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{decisionsSheet, sessionsSheet}, f.GetSheetList())

	rows, err := f.GetRows(decisionsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "decision_id", rows[0][0])
	assert.Equal(t, []string{"D3", "S2", "C", "keep", "3", "10", "2024-06-01T13:00:00Z"}, rows[3])

	sessions, err := f.GetRows(sessionsSheet)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, []string{"S1", "1", "1", "2024-06-01T12:00:00Z", "2024-06-01T12:01:00Z"}, sessions[1])
}

func TestExportXLSXEmpty(t *testing.T) {
	t.Parallel()

	b, err := ExportXLSX(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(decisionsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
