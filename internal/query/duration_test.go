package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHours(t *testing.T) {
	cases := map[string]float64{
		"8:30":       8.5,
		"8,5":        8.5,
		"8.5":        8.5,
		" 7:45 ":     7.75,
		"9:15":       9.25,
		"8:":         8,
		"8:30:00":    8.5,
		"":           0,
		"   ":        0,
		"notanumber": 0,
		"8:xx":       0,
		"x:30":       0,
		"-3":         0,
		"NaN":        0,
	}
	for input, want := range cases {
		assert.Equal(t, want, ParseHours(input), "input %q", input)
	}
}

func TestParseHoursMinutesAreLiteral(t *testing.T) {
	assert.InDelta(t, 8.05, ParseHours("8:3"), 1e-9)
	assert.InDelta(t, 8+20.0/60, ParseHours("8:20"), 1e-9)
}

func TestParseHoursPtr(t *testing.T) {
	assert.Equal(t, 0.0, ParseHoursPtr(nil))
	v := "6,0"
	assert.Equal(t, 6.0, ParseHoursPtr(&v))
}

func TestSumHoursRoundsAndIgnoresGarbage(t *testing.T) {
	assert.Equal(t, 27.75, SumHours("8:00", "4:30", "6,0", "9:15"))
	assert.Equal(t, 1.0, SumHours("0:20", "0:20", "0:20", "oops"))

	var total HoursTotal
	total.AddPtr(nil)
	total.Add("0,1")
	total.Add("0,2")
	assert.Equal(t, 0.3, total.Value())
}
