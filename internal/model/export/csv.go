package export

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"max.ks1230/expenses-bot/internal/entity/expense"
)

// FileName is the suggested name for the exported document.
const FileName = "expenses.csv"

var header = []string{"id", "timestamp", "category", "amount", "description"}

// CSV renders the records as a delimited table, one row per record in input
// order. Timestamps are RFC 3339 in UTC, amounts carry exactly two decimals,
// fields are quoted per RFC 4180.
func CSV(records []expense.Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, errors.Wrap(err, "export csv")
	}
	for _, rec := range records {
		row := []string{
			strconv.FormatInt(rec.ID, 10),
			rec.Created.UTC().Format(time.RFC3339),
			rec.Category,
			rec.Amount.String(),
			rec.Description,
		}
		if err := w.Write(row); err != nil {
			return nil, errors.Wrap(err, "export csv")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.Wrap(err, "export csv")
	}
	return buf.Bytes(), nil
}
