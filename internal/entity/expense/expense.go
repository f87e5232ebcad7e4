package expense

import "time"

type Record struct {
	ID          int64     `json:"id,omitempty"`
	UserID      int64     `json:"userId"`
	Category    string    `json:"category"`
	Amount      Amount    `json:"amount"`
	Description string    `json:"description,omitempty"`
	Created     time.Time `json:"date"`
}

// Update carries the fields of a record that may be edited in place.
// A nil field is left untouched.
type Update struct {
	Category    *string
	Amount      *Amount
	Description *string
}

func (u Update) ApplyTo(rec *Record) {
	if u.Category != nil {
		rec.Category = *u.Category
	}
	if u.Amount != nil {
		rec.Amount = *u.Amount
	}
	if u.Description != nil {
		rec.Description = *u.Description
	}
}
