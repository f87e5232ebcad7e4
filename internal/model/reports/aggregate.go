package reports

import (
	"max.ks1230/expenses-bot/internal/entity/expense"
	"max.ks1230/expenses-bot/internal/model/period"
)

type CategoryTotal struct {
	Category string
	Amount   expense.Amount
}

func FilterByPeriod(records []expense.Record, r period.Range) []expense.Record {
	res := make([]expense.Record, 0)
	for _, rec := range records {
		if r.Contains(rec.Created) {
			res = append(res, rec)
		}
	}
	return res
}

func Total(records []expense.Record) expense.Amount {
	var total expense.Amount
	for _, rec := range records {
		total += rec.Amount
	}
	return total
}

// GroupByCategory sums amounts per category, categories ordered by first
// appearance in the input.
func GroupByCategory(records []expense.Record) []CategoryTotal {
	index := make(map[string]int)
	res := make([]CategoryTotal, 0)
	for _, rec := range records {
		i, ok := index[rec.Category]
		if !ok {
			i = len(res)
			index[rec.Category] = i
			res = append(res, CategoryTotal{Category: rec.Category})
		}
		res[i].Amount += rec.Amount
	}
	return res
}

// GoalBreached is strict: spending exactly the limit is still within it.
func GoalBreached(total, limit expense.Amount) bool {
	return total > limit
}
