package scraper

import (
	"fmt"
	"unicode/utf8"
)

// Validator checks an assembled record for completeness. All rules are
// evaluated on every run and every defect is reported, in a fixed
// traversal order, so the result is reproducible for logs and tests.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

const minSectionTextLength = 50

func (v *Validator) Run(reading *Reading) ValidationResult {
	var errs []string

	if reading == nil {
		return ValidationResult{Valid: false, Errors: []string{"reading is nil"}}
	}

	// Top-level required fields.
	if reading.Date == "" {
		errs = append(errs, "Missing required field: date")
	}
	if reading.Liturgical == nil {
		errs = append(errs, "Missing required field: liturgicalDate")
	}
	if reading.FirstReading == nil {
		errs = append(errs, "Missing required field: firstReading")
	}
	if reading.Metadata.Source == "" && reading.Metadata.SourceURL == "" {
		errs = append(errs, "Missing required field: metadata")
	}

	// Date format contract is YYYY-MM-DD. Only the length is checked
	// here; calendar validity is enforced where dates are parsed.
	if reading.Date != "" && len(reading.Date) != 10 {
		errs = append(errs, "Invalid date format (expected YYYY-MM-DD)")
	}

	if reading.FirstReading != nil {
		errs = append(errs, v.validateSection(reading.FirstReading, "First Reading")...)
	}

	if reading.Gospel != nil {
		errs = append(errs, v.validateSection(reading.Gospel, "Gospel")...)
	} else {
		errs = append(errs, "Gospel reading is required but missing")
	}

	if reading.Psalm != nil {
		errs = append(errs, v.validatePsalm(reading.Psalm)...)
	}

	// Second reading is optional, present only on Sundays and
	// solemnities; it is checked only when present.
	if reading.SecondReading != nil {
		errs = append(errs, v.validateSection(reading.SecondReading, "Second Reading")...)
	}

	if reading.Liturgical != nil {
		if reading.Liturgical.Season == "" {
			errs = append(errs, "liturgicalDate missing season")
		}
		if reading.Liturgical.DayOfWeek == "" {
			errs = append(errs, "liturgicalDate missing dayOfWeek")
		}
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// validateSection checks the common section fields and the minimum
// text length.
func (v *Validator) validateSection(section *Section, name string) []string {
	var errs []string

	fields := []struct {
		field string
		value string
	}{
		{"reference", section.Reference},
		{"citation", section.Citation},
		{"text", section.Text},
		{"title", section.Title},
	}
	for _, f := range fields {
		if f.value == "" {
			errs = append(errs, fmt.Sprintf("%s: Field '%s' is empty", name, f.field))
		}
	}

	// Length is measured in characters, not bytes, so the refrain
	// glyph and other non-ASCII text count as one each.
	if length := utf8.RuneCountInString(section.Text); length < minSectionTextLength {
		errs = append(errs, fmt.Sprintf("%s: Text too short (%d chars)", name, length))
	}

	return errs
}

// validatePsalm adds the refrain requirement on top of the common
// section checks.
func (v *Validator) validatePsalm(section *Section) []string {
	errs := v.validateSection(section, "Psalm")

	if section.Response == "" {
		errs = append(errs, "Psalm: Response is empty")
	}

	return errs
}
