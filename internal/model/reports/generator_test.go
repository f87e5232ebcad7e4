package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"max.ks1230/expenses-bot/internal/entity/expense"
	"max.ks1230/expenses-bot/internal/model/period"
	"max.ks1230/expenses-bot/internal/model/storage"
)

func Test_OnGenerate_ShouldSummarizeCurrentMonthOnly(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemoryStorage()

	seed := []expense.Record{
		record("food", 1000, time.Date(2024, time.March, 2, 9, 0, 0, 0, time.UTC)),
		record("food", 550, time.Date(2024, time.March, 12, 9, 0, 0, 0, time.UTC)),
		record("transport", 325, time.Date(2024, time.March, 13, 9, 0, 0, 0, time.UTC)),
		record("rent", 70000, time.Date(2024, time.February, 1, 9, 0, 0, 0, time.UTC)),
	}
	for _, rec := range seed {
		_, err := st.Create(ctx, rec)
		require.NoError(t, err)
	}

	gen := NewGeneratorAt(st, func() time.Time {
		return time.Date(2024, time.March, 13, 10, 0, 0, 0, time.UTC)
	})

	summary, err := gen.Generate(ctx, 1, period.Month)
	require.NoError(t, err)

	assert.Equal(t, expense.Amount(1875), summary.Total)
	assert.Equal(t, []CategoryTotal{
		{Category: "food", Amount: 1550},
		{Category: "transport", Amount: 325},
	}, summary.Categories)
	assert.Len(t, summary.Records, 3)

	assert.Equal(t, "food: 15.50\ntransport: 3.25\n\nTotal: 18.75", summary.Format())
}

func Test_OnGenerate_WithNoExpenses_ShouldReturnZeroSummary(t *testing.T) {
	ctx := context.Background()
	gen := NewGeneratorAt(storage.NewMemoryStorage(), func() time.Time {
		return time.Date(2024, time.March, 13, 10, 0, 0, 0, time.UTC)
	})

	summary, err := gen.Generate(ctx, 42, period.Week)
	require.NoError(t, err)

	assert.Equal(t, expense.Amount(0), summary.Total)
	assert.Empty(t, summary.Categories)
	assert.Empty(t, summary.Records)
}
