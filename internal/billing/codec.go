package billing

import (
	"errors"
	"fmt"
)

// ErrUnknownMonth is returned when a month name is not one of Months.
var ErrUnknownMonth = errors.New("unknown month")

// Months is the canonical month list. Its order defines the two-digit month index.
var Months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// SupportedYears lists the years offered for an initial lookup, newest first.
var SupportedYears = []string{
	"2024", "2023", "2022", "2021", "2020", "2019", "2018", "2017",
	"2016", "2015", "2014", "2013", "2012", "2011", "2010",
}

// MonthIndex returns the 1-based, zero-padded position of name in Months.
func MonthIndex(name string) (string, error) {
	for i, m := range Months {
		if m == name {
			return fmt.Sprintf("%02d", i+1), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMonth, name)
}

// MonthName is the inverse of MonthIndex for n in 1..12.
func MonthName(n int) (string, bool) {
	if n < 1 || n > len(Months) {
		return "", false
	}
	return Months[n-1], true
}

// YearSuffix returns the last two characters of year. The caller is trusted to
// pass a four-digit year.
func YearSuffix(year string) string {
	if len(year) <= 2 {
		return year
	}
	return year[len(year)-2:]
}

// BuildIdentifier composes the fixed-width bill identifier MM+YY+meterNo.
func BuildIdentifier(month, year, meterNo string) (string, error) {
	idx, err := MonthIndex(month)
	if err != nil {
		return "", err
	}
	return idx + YearSuffix(year) + meterNo, nil
}

// IsSupportedYear reports whether year is offered in the year dropdown.
func IsSupportedYear(year string) bool {
	for _, y := range SupportedYears {
		if y == year {
			return true
		}
	}
	return false
}

// IsMonth reports whether name is a canonical month name.
func IsMonth(name string) bool {
	_, err := MonthIndex(name)
	return err == nil
}
