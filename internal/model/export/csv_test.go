package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"max.ks1230/expenses-bot/internal/entity/expense"
)

func Test_OnCSV_ShouldRenderHeaderAndRows(t *testing.T) {
	records := []expense.Record{
		{
			ID:       1,
			UserID:   1,
			Category: "food",
			Amount:   1590,
			Created:  time.Date(2024, time.March, 13, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:          2,
			UserID:      1,
			Category:    "misc",
			Amount:      5,
			Description: `say "hi", ok`,
			Created:     time.Date(2024, time.March, 14, 11, 30, 0, 0, time.UTC),
		},
	}

	data, err := CSV(records)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"id", "timestamp", "category", "amount", "description"}, rows[0])
	assert.Equal(t, []string{"1", "2024-03-13T10:00:00Z", "food", "15.90", ""}, rows[1])
	assert.Equal(t, []string{"2", "2024-03-14T11:30:00Z", "misc", "0.05", `say "hi", ok`}, rows[2])
}

func Test_OnCSV_WithNoRecords_ShouldRenderHeaderOnly(t *testing.T) {
	data, err := CSV(nil)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"id", "timestamp", "category", "amount", "description"}, rows[0])
}
