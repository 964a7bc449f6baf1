// Package form holds the month, year and biller inputs, their per-field
// validation status and the dropdown filtering used by the interactive form.
package form

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/lachiem1/meterUp/internal/billing"
)

const (
	FieldMonth  = "month"
	FieldYear   = "year"
	FieldBiller = "biller"
)

// Field order as rendered.
var FieldNames = []string{FieldMonth, FieldYear, FieldBiller}

var errorMessages = map[string]string{
	FieldMonth:  "Please select a valid month.",
	FieldYear:   "Please select a valid year.",
	FieldBiller: "Biller number must contain digits only.",
}

// Fields is the raw form input.
type Fields struct {
	Month  string `validate:"required,billmonth"`
	Year   string `validate:"required,billyear"`
	Biller string `validate:"required,number"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("billmonth", func(fl validator.FieldLevel) bool {
		return billing.IsMonth(fl.Field().String())
	})
	_ = v.RegisterValidation("billyear", func(fl validator.FieldLevel) bool {
		return billing.IsSupportedYear(fl.Field().String())
	})
	return v
}

// Status maps field name to its last validation result. Fields that were
// never validated count as invalid.
type Status map[string]bool

// AllValid is the conjunction gating the fetch trigger.
func (s Status) AllValid() bool {
	for _, name := range FieldNames {
		if !s[name] {
			return false
		}
	}
	return true
}

// Form is the editable form state.
type Form struct {
	Fields Fields
	Status Status
}

func New() *Form {
	return &Form{Status: Status{}}
}

// Set normalises value into field and validates it.
func (f *Form) Set(field, value string) (bool, error) {
	value = Normalize(value)
	switch field {
	case FieldMonth:
		f.Fields.Month = value
	case FieldYear:
		f.Fields.Year = value
	case FieldBiller:
		f.Fields.Biller = value
	default:
		return false, fmt.Errorf("set field %q: unknown field", field)
	}
	return f.Validate(field, value), nil
}

// Validate checks value against field's rule and records the result.
func (f *Form) Validate(field, value string) bool {
	ok := ValidValue(field, value)
	if f.Status == nil {
		f.Status = Status{}
	}
	f.Status[field] = ok
	return ok
}

// ValidValue checks one value without touching any form state.
func ValidValue(field, value string) bool {
	tag := fieldTag(field)
	if tag == "" {
		return false
	}
	return validate.Var(Normalize(value), tag) == nil
}

// ValidateAll runs every field rule against the current values.
func (f *Form) ValidateAll() bool {
	f.Validate(FieldMonth, f.Fields.Month)
	f.Validate(FieldYear, f.Fields.Year)
	f.Validate(FieldBiller, f.Fields.Biller)
	return f.Status.AllValid()
}

// Check validates the whole struct at once.
func (f Fields) Check() error {
	if err := validate.Struct(f); err != nil {
		return fmt.Errorf("validate form: %w", err)
	}
	return nil
}

// Error returns the message to show under field, or "" when the field is
// valid or untouched.
func (f *Form) Error(field string) string {
	ok, seen := f.Status[field]
	if !seen || ok {
		return ""
	}
	return errorMessages[field]
}

// Reset clears every field and its validation state.
func (f *Form) Reset() {
	f.Fields = Fields{}
	f.Status = Status{}
}

func fieldTag(field string) string {
	switch field {
	case FieldMonth:
		return "required,billmonth"
	case FieldYear:
		return "required,billyear"
	case FieldBiller:
		return "required,number"
	default:
		return ""
	}
}
