package expense

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out Amount
		ok  bool
	}{
		{"1", 100, true},
		{"15.90", 1590, true},
		{"15,90", 1590, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up on the third decimal
		{" 2.50 ", 250, true},
		{"166", 16600, true},
		{"0", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"1.2.3", 0, false},
	}

	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			require.NoError(t, err, tc.in)
			assert.Equal(t, tc.out, got, tc.in)
		} else {
			assert.Error(t, err, tc.in)
		}
	}
}

func TestAmountString(t *testing.T) {
	assert.Equal(t, "15.90", Amount(1590).String())
	assert.Equal(t, "0.05", Amount(5).String())
	assert.Equal(t, "100.00", Amount(10000).String())
}

func TestAmountJSON(t *testing.T) {
	data, err := json.Marshal(Amount(1590))
	require.NoError(t, err)
	assert.Equal(t, `"15.90"`, string(data))

	var fromString Amount
	require.NoError(t, json.Unmarshal([]byte(`"15.90"`), &fromString))
	assert.Equal(t, Amount(1590), fromString)

	// collections written by earlier versions carry bare floats
	var fromNumber Amount
	require.NoError(t, json.Unmarshal([]byte(`15.9`), &fromNumber))
	assert.Equal(t, Amount(1590), fromNumber)
}
