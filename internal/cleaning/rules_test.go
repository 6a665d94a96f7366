package cleaning

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

func TestHasString(t *testing.T) {
	assert.True(t, HasString("#!REF"))
	assert.True(t, HasString("Twenty Two Thousand"))
	assert.True(t, HasString("N/A"))
	assert.False(t, HasString(""))
	assert.False(t, HasString("  "))
	assert.False(t, HasString("43997"))
	assert.False(t, HasString("0.125"))
}

func TestIsAlpha(t *testing.T) {
	assert.True(t, IsAlpha("Twelve"))
	assert.False(t, IsAlpha("Twenty Two Thousand"))
	assert.False(t, IsAlpha("!#Ref"))
	assert.False(t, IsAlpha(""))
}

func TestParseSerialDate(t *testing.T) {
	d := ParseSerialDate("43997")
	require.NotNil(t, d)
	assert.Equal(t, date(2020, time.June, 15), *d)

	d = ParseSerialDate("43997.75")
	require.NotNil(t, d)
	assert.Equal(t, date(2020, time.June, 15), *d, "time of day is dropped")

	assert.Nil(t, ParseSerialDate(""))
	assert.Nil(t, ParseSerialDate("Missing"))
	assert.Nil(t, ParseSerialDate("NaN"))
}

func TestParseSerialDate_OutOfRange(t *testing.T) {
	for _, v := range []string{"1e20", "-1", "2958466", "Inf"} {
		assert.Nil(t, ParseSerialDate(v), v)
	}

	d := ParseSerialDate("2958465")
	require.NotNil(t, d)
	assert.Equal(t, date(9999, time.December, 31), *d)
}

func TestParseTerm(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"12", 12},
		{"36.0", 36},
		{"Twelve", 12},
		{" twelve ", 12},
	}
	for _, tt := range tests {
		got, err := ParseTerm(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "Thirteen", "12.5", "1e20", "-1e12", "Inf"} {
		_, err := ParseTerm(bad)
		assert.ErrorIs(t, err, ErrTermMissing, bad)
	}
}

func TestParseNumeric(t *testing.T) {
	v := ParseNumeric("1500.5")
	require.NotNil(t, v)
	assert.Equal(t, 1500.5, *v)

	assert.Nil(t, ParseNumeric("!#Ref"))
	assert.Nil(t, ParseNumeric("#!REF"))
	assert.Nil(t, ParseNumeric(""))
	assert.Nil(t, ParseNumeric("Inf"))
}

func TestParseLoanAmount(t *testing.T) {
	v := ParseLoanAmount("Twenty Two Thousand")
	require.NotNil(t, v)
	assert.Equal(t, 22000.0, *v)

	v = ParseLoanAmount("18000")
	require.NotNil(t, v)
	assert.Equal(t, 18000.0, *v)

	assert.Nil(t, ParseLoanAmount("Ten Thousand"), "unknown words are missing, not zero")
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		from civil.Date
		n    int
		want civil.Date
	}{
		{date(2019, time.June, 15), 12, date(2020, time.June, 15)},
		{date(2020, time.June, 15), -12, date(2019, time.June, 15)},
		{date(2020, time.November, 10), 3, date(2021, time.February, 10)},
		{date(2021, time.February, 10), -3, date(2020, time.November, 10)},
		{date(2020, time.January, 31), 1, date(2020, time.February, 29)},
		{date(2021, time.March, 31), -1, date(2021, time.February, 28)},
		{date(2020, time.May, 1), 0, date(2020, time.May, 1)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AddMonths(tt.from, tt.n), "%s %+d", tt.from, tt.n)
	}
}

func TestReconcileDates(t *testing.T) {
	maturity := date(2020, time.June, 15)

	f, m, err := ReconcileDates(nil, &maturity, 12)
	require.NoError(t, err)
	assert.Equal(t, date(2019, time.June, 15), f)
	assert.Equal(t, maturity, m)

	funding := date(2019, time.June, 15)
	f, m, err = ReconcileDates(&funding, nil, 12)
	require.NoError(t, err)
	assert.Equal(t, funding, f)
	assert.Equal(t, maturity, m)

	other := date(2020, time.July, 1)
	f, m, err = ReconcileDates(&funding, &other, 12)
	require.NoError(t, err)
	assert.Equal(t, funding, f)
	assert.Equal(t, other, m, "present dates are never rewritten")

	_, _, err = ReconcileDates(nil, nil, 12)
	assert.ErrorIs(t, err, ErrBothDatesMissing)
}

func TestReconcileDates_RoundTrip(t *testing.T) {
	start := date(2018, time.January, 1)
	for i := 0; i < 1000; i += 7 {
		funding := start.AddDays(i)
		if funding.Day > 28 {
			continue
		}
		for _, term := range []int{1, 6, 12, 24, 36} {
			_, maturity, err := ReconcileDates(&funding, nil, term)
			require.NoError(t, err)

			back, _, err := ReconcileDates(nil, &maturity, term)
			require.NoError(t, err)
			assert.Equal(t, funding, back, "term %d", term)
		}
	}
}
