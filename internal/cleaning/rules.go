package cleaning

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"cloud.google.com/go/civil"
)

var (
	// ErrTermMissing is returned when a loan has no usable term. Date repair
	// depends on it, so the run cannot continue.
	ErrTermMissing = errors.New("term missing or unparseable")

	// ErrBothDatesMissing is returned when neither funding nor maturity date
	// survives cleaning.
	ErrBothDatesMissing = errors.New("funding date and maturity date both missing")
)

// spreadsheetEpoch is day zero of spreadsheet serial dates.
var spreadsheetEpoch = civil.Date{Year: 1899, Month: time.December, Day: 30}

// maxSerial is 9999-12-31, the last date a spreadsheet can hold.
const maxSerial = 2958465

// Spelled-out values observed in the fragments.
var (
	termWords = map[string]int{
		"twelve": 12,
	}
	amountWords = map[string]float64{
		"twenty two thousand": 22000.0,
	}
)

// HasString reports whether a non-empty cell is not a number.
func HasString(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	_, err := strconv.ParseFloat(v, 64)
	return err != nil
}

// IsAlpha reports whether v is non-empty and made only of letters.
func IsAlpha(v string) bool {
	if v == "" {
		return false
	}
	for _, r := range v {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// ParseSerialDate converts a spreadsheet serial day count to a date.
// Empty or non-numeric cells yield nil.
func ParseSerialDate(v string) *civil.Date {
	v = strings.TrimSpace(v)
	if v == "" || HasString(v) {
		return nil
	}
	serial, _ := strconv.ParseFloat(v, 64)
	if math.IsNaN(serial) || serial < 0 || serial > maxSerial {
		return nil
	}
	d := spreadsheetEpoch.AddDays(int(math.Floor(serial)))
	return &d
}

// ParseTerm returns the loan term in months.
func ParseTerm(v string) (int, error) {
	v = strings.TrimSpace(v)
	if n, ok := termWords[strings.ToLower(v)]; ok {
		return n, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, ErrTermMissing
	}
	return int(f), nil
}

// ParseNumeric parses a float cell. Anything that is not a number,
// including spreadsheet error markers, is missing.
func ParseNumeric(v string) *float64 {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// ParseLoanAmount is ParseNumeric plus the known spelled-out amounts.
func ParseLoanAmount(v string) *float64 {
	if f, ok := amountWords[strings.ToLower(strings.TrimSpace(v))]; ok {
		return &f
	}
	return ParseNumeric(v)
}

// AddMonths shifts d by n calendar months, clamping the day to the end of
// the target month.
func AddMonths(d civil.Date, n int) civil.Date {
	total := int(d.Month) - 1 + n
	year := d.Year + floorDiv(total, 12)
	month := time.Month(total - floorDiv(total, 12)*12 + 1)

	day := d.Day
	if last := daysIn(year, month); day > last {
		day = last
	}
	return civil.Date{Year: year, Month: month, Day: day}
}

// ReconcileDates fills whichever of funding/maturity is missing from the
// other and the term. Both missing is out of contract.
func ReconcileDates(funding, maturity *civil.Date, term int) (civil.Date, civil.Date, error) {
	switch {
	case funding == nil && maturity == nil:
		return civil.Date{}, civil.Date{}, ErrBothDatesMissing
	case funding == nil:
		return AddMonths(*maturity, -term), *maturity, nil
	case maturity == nil:
		return *funding, AddMonths(*funding, term), nil
	default:
		return *funding, *maturity, nil
	}
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
