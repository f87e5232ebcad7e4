package expense

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount")

// Amount is a monetary value in minor units (cents). Integer arithmetic
// keeps sums and goal comparisons exact.
type Amount int64

// ParseAmount accepts decimal text with a dot or comma separator and
// rounds half-up on the third decimal place. The amount must be positive.
func ParseAmount(s string) (Amount, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	cents := d.Shift(2).Round(0).IntPart()
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return Amount(cents), nil
}

func (a Amount) String() string {
	return decimal.New(int64(a), -2).StringFixed(2)
}

func (a Amount) Float64() float64 {
	return float64(a) / 100
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON accepts both the quoted decimal form this store writes and
// bare numbers found in collections produced by earlier versions.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return errors.Wrap(ErrInvalidAmount, s)
	}
	*a = Amount(d.Shift(2).Round(0).IntPart())
	return nil
}
