package billing

import (
	"errors"
	"testing"
)

func TestPeriodStepRollover(t *testing.T) {
	tests := []struct {
		name  string
		from  Period
		delta int
		want  Period
	}{
		{name: "january back", from: Period{Month: 1, Year: 2024}, delta: -1, want: Period{Month: 12, Year: 2023}},
		{name: "december forward", from: Period{Month: 12, Year: 2024}, delta: 1, want: Period{Month: 1, Year: 2025}},
		{name: "mid year forward", from: Period{Month: 3, Year: 2023}, delta: 1, want: Period{Month: 4, Year: 2023}},
		{name: "mid year back", from: Period{Month: 7, Year: 2020}, delta: -1, want: Period{Month: 6, Year: 2020}},
		{name: "multi month", from: Period{Month: 11, Year: 2019}, delta: 14, want: Period{Month: 1, Year: 2021}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.from.Step(tc.delta)
			if got != tc.want {
				t.Fatalf("Step(%d) = %+v, want %+v", tc.delta, got, tc.want)
			}
		})
	}
}

func TestParsePeriodStart(t *testing.T) {
	for _, raw := range []string{"2023-03-01", "2023-03", " 2023-03-15T00:00:00 "} {
		got, err := ParsePeriodStart(raw)
		if err != nil {
			t.Fatalf("ParsePeriodStart(%q) unexpected error: %v", raw, err)
		}
		if got != (Period{Month: 3, Year: 2023}) {
			t.Fatalf("ParsePeriodStart(%q) = %+v, want March 2023", raw, got)
		}
	}
}

func TestParsePeriodStartRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "2023", "03-2023-01", "2023-13-01", "abcd-01"} {
		if _, err := ParsePeriodStart(raw); !errors.Is(err, ErrInvalidPeriodStart) {
			t.Fatalf("ParsePeriodStart(%q) error = %v, want ErrInvalidPeriodStart", raw, err)
		}
	}
}

func TestPeriodLabelAndIdentifier(t *testing.T) {
	p := Period{Month: 4, Year: 2023}
	if got := p.Label(); got != "April, 2023" {
		t.Fatalf("Label() = %q, want %q", got, "April, 2023")
	}
	id, err := p.Identifier("555")
	if err != nil {
		t.Fatalf("Identifier() unexpected error: %v", err)
	}
	if id != "0423555" {
		t.Fatalf("Identifier() = %q, want %q", id, "0423555")
	}
}

func TestPeriodIdentifierRejectsUnencodableYear(t *testing.T) {
	_, err := Period{Month: 1, Year: 2100}.Identifier("1")
	if !errors.Is(err, ErrPeriodOutOfRange) {
		t.Fatalf("Identifier() error = %v, want ErrPeriodOutOfRange", err)
	}
}

func TestNewPeriod(t *testing.T) {
	got, err := NewPeriod("March", "2023")
	if err != nil {
		t.Fatalf("NewPeriod() unexpected error: %v", err)
	}
	if got != (Period{Month: 3, Year: 2023}) {
		t.Fatalf("NewPeriod() = %+v, want March 2023", got)
	}
	if _, err := NewPeriod("March", "twenty"); err == nil {
		t.Fatal("NewPeriod() error = nil, want non-nil")
	}
}
