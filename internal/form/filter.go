package form

import "strings"

// NoResults is shown when Filter returns nothing.
const NoResults = "No result found."

// Filter returns the options containing query, case-insensitively. An empty
// query matches everything.
func Filter(options []string, query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]string, 0, len(options))
	for _, opt := range options {
		if strings.Contains(strings.ToLower(opt), q) {
			out = append(out, opt)
		}
	}
	return out
}

// Options returns the dropdown values for field, or nil when the field is
// free text.
func Options(field string) []string {
	switch field {
	case FieldMonth:
		return monthOptions
	case FieldYear:
		return yearOptions
	default:
		return nil
	}
}
