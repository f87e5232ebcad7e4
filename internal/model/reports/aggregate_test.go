package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"max.ks1230/expenses-bot/internal/entity/expense"
	"max.ks1230/expenses-bot/internal/model/period"
)

func record(category string, amount expense.Amount, created time.Time) expense.Record {
	return expense.Record{UserID: 1, Category: category, Amount: amount, Created: created}
}

func Test_OnGroupByCategory_ShouldSumInFirstSeenOrder(t *testing.T) {
	created := time.Date(2024, time.March, 13, 10, 0, 0, 0, time.UTC)
	records := []expense.Record{
		record("food", 1000, created),
		record("transport", 325, created),
		record("food", 550, created),
	}

	groups := GroupByCategory(records)

	assert.Equal(t, []CategoryTotal{
		{Category: "food", Amount: 1550},
		{Category: "transport", Amount: 325},
	}, groups)
	assert.Equal(t, expense.Amount(1875), Total(records))
}

func Test_OnGroupByCategory_ShouldHandleEmptyInput(t *testing.T) {
	assert.Empty(t, GroupByCategory(nil))
	assert.Equal(t, expense.Amount(0), Total(nil))
}

func Test_OnFilterByPeriod_ShouldKeepInclusiveBounds(t *testing.T) {
	ref := time.Date(2024, time.March, 13, 10, 0, 0, 0, time.UTC)
	records := []expense.Record{
		record("in", 100, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)),
		record("in", 200, time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC)),
		record("out", 300, time.Date(2024, time.February, 29, 12, 0, 0, 0, time.UTC)),
	}

	kept := FilterByPeriod(records, period.Resolve(ref, period.Month))

	assert.Len(t, kept, 2)
	for _, rec := range kept {
		assert.Equal(t, "in", rec.Category)
	}
}

func Test_OnGoalBreached_ShouldBeStrictlyGreater(t *testing.T) {
	assert.False(t, GoalBreached(9999, 10000))
	assert.False(t, GoalBreached(10000, 10000))
	assert.True(t, GoalBreached(10001, 10000))
}
