package billing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidPeriodStart is returned when a billing-period start date cannot be parsed.
	ErrInvalidPeriodStart = errors.New("invalid billing period start")
	// ErrPeriodOutOfRange is returned when a period cannot be encoded with a two-digit year.
	ErrPeriodOutOfRange = errors.New("billing period out of range")
)

const (
	minEncodableYear = 2000
	maxEncodableYear = 2099
)

// Period is a billing month.
type Period struct {
	Month int
	Year  int
}

// NewPeriod builds a Period from a canonical month name and a year string.
func NewPeriod(month, year string) (Period, error) {
	idx, err := MonthIndex(month)
	if err != nil {
		return Period{}, err
	}
	m, _ := strconv.Atoi(idx)
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return Period{}, fmt.Errorf("parse year %q: %w", year, err)
	}
	return Period{Month: m, Year: y}, nil
}

// ParsePeriodStart reads the leading YYYY-MM of a billing-period start such as
// "2023-03-01" or "2023-03".
func ParsePeriodStart(raw string) (Period, error) {
	v := strings.TrimSpace(raw)
	if len(v) < 7 || v[4] != '-' {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriodStart, raw)
	}
	year, err := strconv.Atoi(v[0:4])
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriodStart, raw)
	}
	month, err := strconv.Atoi(v[5:7])
	if err != nil || month < 1 || month > 12 {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriodStart, raw)
	}
	return Period{Month: month, Year: year}, nil
}

// Step moves the period by delta months with calendar rollover at the 12/1 boundary.
func (p Period) Step(delta int) Period {
	total := p.Year*12 + (p.Month - 1) + delta
	return Period{Month: total%12 + 1, Year: total / 12}
}

// MonthName returns the canonical name of the period's month.
func (p Period) MonthName() string {
	name, _ := MonthName(p.Month)
	return name
}

// YearString returns the four-digit year.
func (p Period) YearString() string {
	return fmt.Sprintf("%04d", p.Year)
}

// Label renders the display pair "{Month}, {Year}".
func (p Period) Label() string {
	return p.MonthName() + ", " + p.YearString()
}

// Key renders the period as YYYY-MM.
func (p Period) Key() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Encodable reports whether the period's year fits the two-digit identifier year.
func (p Period) Encodable() bool {
	return p.Year >= minEncodableYear && p.Year <= maxEncodableYear
}

// Identifier builds the bill identifier for this period and meter number.
func (p Period) Identifier(meterNo string) (string, error) {
	if !p.Encodable() {
		return "", fmt.Errorf("%w: %s", ErrPeriodOutOfRange, p.Key())
	}
	return BuildIdentifier(p.MonthName(), p.YearString(), meterNo)
}

// ParseKey reads a YYYY-MM key as produced by Key.
func ParseKey(raw string) (Period, error) {
	v := strings.TrimSpace(raw)
	if len(v) != 7 {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriodStart, raw)
	}
	return ParsePeriodStart(v)
}
