package reports

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/expenses-bot/internal/entity/expense"
	"max.ks1230/expenses-bot/internal/logger"
	"max.ks1230/expenses-bot/internal/model/period"
)

type expensesStorage interface {
	ListByUser(ctx context.Context, userID int64) ([]expense.Record, error)
}

type Summary struct {
	UserID     int64
	Period     string
	Total      expense.Amount
	Categories []CategoryTotal
	Records    []expense.Record
}

// Generator reduces a user's expenses to a per-period summary. The clock is
// injected so period boundaries are deterministic under test.
type Generator struct {
	storage expensesStorage
	now     func() time.Time
}

func NewGenerator(storage expensesStorage) *Generator {
	return &Generator{storage: storage, now: time.Now}
}

func NewGeneratorAt(storage expensesStorage, now func() time.Time) *Generator {
	return &Generator{storage: storage, now: now}
}

func (g *Generator) Generate(ctx context.Context, userID int64, periodTag string) (*Summary, error) {
	logger.Info("Generate summary - start",
		zap.Int64("userID", userID), zap.String("period", periodTag))
	defer logger.Info("Generate summary - end")

	records, err := g.storage.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "generate summary")
	}

	records = FilterByPeriod(records, period.Resolve(g.now(), periodTag))

	return &Summary{
		UserID:     userID,
		Period:     periodTag,
		Total:      Total(records),
		Categories: GroupByCategory(records),
		Records:    records,
	}, nil
}

func (s *Summary) Format() string {
	res := make([]string, 0, len(s.Categories)+2)
	for _, cat := range s.Categories {
		res = append(res, fmt.Sprintf("%s: %s", cat.Category, cat.Amount))
	}
	res = append(res, "", fmt.Sprintf("Total: %s", s.Total))
	return strings.Join(res, "\n")
}
