package card

import (
	"strconv"
	"strings"
)

// Field is the validation capability of a single form field.
type Field interface {
	// IsInputValid reports whether input is acceptable in the given mode.
	IsInputValid(input string, mode Mode) bool

	// ExpectedLength returns the number of characters a finished input has.
	ExpectedLength() int
}

// NumberField validates a card number and identifies its brand as it goes.
type NumberField struct {
	Validator *Validator
}

// IsInputValid identifies the brand from input and validates the number.
func (f NumberField) IsInputValid(input string, mode Mode) bool {
	number := Normalize(input)
	brand := f.Validator.registry.Identify(number)
	return f.Validator.ValidateNumber(number, brand, mode).IsValid()
}

// ExpectedLength returns the longest number length the registry accepts.
func (f NumberField) ExpectedLength() int {
	return f.Validator.registry.MaxLength()
}

// ExpectedLengthFor returns the longest length the brand of input accepts,
// so a form can stop accepting digits once the brand is known.
func (f NumberField) ExpectedLengthFor(input string) int {
	brand := f.Validator.registry.Identify(input)
	if brand.IsUnknown() {
		return f.ExpectedLength()
	}
	return brand.MaxLength()
}

// CVCField validates a security code for a known brand. Forms update Brand
// as the number field changes.
type CVCField struct {
	Validator *Validator
	Brand     Brand
}

// IsInputValid validates input against the field's brand.
func (f CVCField) IsInputValid(input string, mode Mode) bool {
	return f.Validator.ValidateCVC(input, f.Brand, mode).IsValid()
}

// ExpectedLength returns the brand's CVC length.
func (f CVCField) ExpectedLength() int {
	return f.Brand.CVCLength
}

// MonthField validates a two-digit expiry month.
type MonthField struct{}

// IsInputValid accepts "01".."12", or a prefix of one in partial mode.
func (MonthField) IsInputValid(input string, mode Mode) bool {
	if mode == Complete && len(input) != 2 {
		return false
	}
	return validMonthPrefix(input)
}

// ExpectedLength returns 2.
func (MonthField) ExpectedLength() int {
	return 2
}

// YearField validates a two-digit expiry year that has not already passed.
type YearField struct {
	Validator *Validator
}

// IsInputValid accepts a two-digit year no earlier than the current one.
func (f YearField) IsInputValid(input string, mode Mode) bool {
	if mode == Complete && len(input) != 2 {
		return false
	}
	if !validYearPrefix(input) {
		return false
	}
	if len(input) < 2 {
		return true
	}

	y, _ := strconv.Atoi(input)
	return f.Validator.fullYear(y) >= f.Validator.clock.Now().Year()
}

// ExpectedLength returns 2.
func (YearField) ExpectedLength() int {
	return 2
}

// ExpiryField validates a combined "MM/YY" expiry.
type ExpiryField struct {
	Validator *Validator
}

// IsInputValid splits input into month and year and validates both.
func (f ExpiryField) IsInputValid(input string, mode Mode) bool {
	month, year, ok := splitExpiry(input, mode)
	if !ok {
		return false
	}
	return f.Validator.ValidateExpiryInput(month, year, mode).IsValid()
}

// ExpectedLength returns 5, the length of "MM/YY".
func (ExpiryField) ExpectedLength() int {
	return 5
}

// splitExpiry separates "MM/YY". In partial mode the slash and year may be
// missing, e.g. "1" or "12/".
func splitExpiry(input string, mode Mode) (month, year string, ok bool) {
	month, year, found := strings.Cut(input, "/")
	if !found {
		if mode == Complete || len(input) > 2 {
			return "", "", false
		}
		return input, "", true
	}
	if mode == Partial && year != "" && len(month) != 2 {
		return "", "", false
	}
	return month, year, true
}
