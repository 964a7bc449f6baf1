package form

import (
	"strings"

	"github.com/lachiem1/meterUp/internal/billing"
)

var (
	monthOptions = billing.Months
	yearOptions  = billing.SupportedYears
)

// Normalize trims input and collapses repeated whitespace to one space.
func Normalize(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}
	return strings.Join(strings.Fields(trimmed), " ")
}
