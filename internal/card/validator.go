package card

import (
	"strconv"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// Mode selects how strictly input is judged.
type Mode int

const (
	// Complete requires every field to be finished and valid.
	Complete Mode = iota
	// Partial accepts empty fields and consistent prefixes, so a form can
	// tell "not finished yet" apart from "wrong" while the user types.
	Partial
)

func (m Mode) String() string {
	if m == Partial {
		return "partial"
	}
	return "complete"
}

// Input carries the raw form fields of one card.
type Input struct {
	Number string
	CVC    string
	Month  string
	Year   string
	Mode   Mode
}

// Report holds the identified brand and the result for each field.
type Report struct {
	Brand  Brand
	Number Result
	CVC    Result
	Expiry Result
}

// Result returns the union of all field results.
func (r Report) Result() Result {
	return r.Number.Union(r.CVC, r.Expiry)
}

// IsValid reports whether no field has a failure flag.
func (r Report) IsValid() bool {
	return r.Result().IsValid()
}

// Validator checks card fields against a brand registry. It holds no mutable
// state and may be shared between goroutines.
type Validator struct {
	registry *Registry
	clock    Clock
	logger   zerolog.Logger
}

// NewValidator creates a validator. A nil registry selects DefaultRegistry and
// a nil clock selects SystemClock.
func NewValidator(registry *Registry, clock Clock, logger zerolog.Logger) *Validator {
	if registry == nil {
		registry = DefaultRegistry()
	}
	if clock == nil {
		clock = SystemClock{}
	}

	return &Validator{
		registry: registry,
		clock:    clock,
		logger:   logger.With().Str("component", "card-validator").Logger(),
	}
}

// Registry returns the registry used for brand identification.
func (v *Validator) Registry() *Registry {
	return v.registry
}

// Validate identifies the brand of in.Number and validates all fields.
func (v *Validator) Validate(in Input) Report {
	number := Normalize(in.Number)
	brand := v.registry.Identify(number)

	report := Report{
		Brand:  brand,
		Number: v.ValidateNumber(number, brand, in.Mode),
		CVC:    v.ValidateCVC(in.CVC, brand, in.Mode),
		Expiry: v.ValidateExpiryInput(in.Month, in.Year, in.Mode),
	}

	v.logger.Debug().
		Str("number", Mask(number)).
		Str("brand", brand.Name).
		Str("mode", in.Mode.String()).
		Stringer("result", report.Result()).
		Msg("card validated")

	return report
}

// ValidateNumber checks a card number against brand. All checks run, so a
// short non-numeric number reports both NumberIsNotNumeric and InvalidLength.
func (v *Validator) ValidateNumber(number string, brand Brand, mode Mode) Result {
	n := utf8.RuneCountInString(number)
	numeric := isNumeric(number)

	var r Result

	if mode == Partial {
		if n == 0 {
			return Valid
		}
		if brand.IsUnknown() && !v.registry.CouldMatch(number) {
			r |= UnknownType
		}
		if !numeric {
			r |= NumberIsNotNumeric
		}
		if n > brand.MaxLength() {
			r |= InvalidLength
		}
		// Luhn is only decisive once no further digit can be typed.
		if n == brand.MaxLength() && !Luhn(number) {
			r |= LuhnTestFailed
		}
		return r
	}

	if brand.IsUnknown() {
		r |= UnknownType
	}
	if !numeric {
		r |= NumberIsNotNumeric
	}
	if !brand.AcceptsLength(n) {
		r |= InvalidLength
	}
	if !Luhn(number) {
		r |= LuhnTestFailed
	}

	return r
}

// ValidateCVC checks a security code against the brand's expected length.
func (v *Validator) ValidateCVC(cvc string, brand Brand, mode Mode) Result {
	n := utf8.RuneCountInString(cvc)

	if mode == Partial && n == 0 {
		return Valid
	}

	var r Result
	if !isNumeric(cvc) {
		r |= CVCIsNotNumeric
	}

	if mode == Partial {
		if n > brand.CVCLength {
			r |= CVCLengthMismatch
		}
		return r
	}

	if n != brand.CVCLength {
		r |= CVCLengthMismatch
	}
	return r
}

// ValidateExpiry checks a month and two-digit year. The year is read in the
// clock's current century.
func (v *Validator) ValidateExpiry(month, year int) Result {
	if month < 1 || month > 12 || year < 0 || year > 99 {
		return ExpiryIsInvalidDate
	}

	now := v.clock.Now()
	fullYear := v.fullYear(year)

	if fullYear < now.Year() || (fullYear == now.Year() && month < int(now.Month())) {
		return ExpiryIsExpired
	}

	return Valid
}

// ValidateExpiryInput checks expiry fields as typed into a form. Complete mode
// requires two digits for each field. Partial mode also accepts an empty or
// "0"/"1" month and an empty or one-digit year.
func (v *Validator) ValidateExpiryInput(month, year string, mode Mode) Result {
	if mode == Complete {
		if len(month) != 2 || len(year) != 2 || !isNumeric(month) || !isNumeric(year) {
			return ExpiryIsInvalidDate
		}
		m, _ := strconv.Atoi(month)
		y, _ := strconv.Atoi(year)
		return v.ValidateExpiry(m, y)
	}

	if !validMonthPrefix(month) || !validYearPrefix(year) {
		return ExpiryIsInvalidDate
	}

	if len(year) < 2 {
		return Valid
	}

	y, _ := strconv.Atoi(year)
	if len(month) == 2 {
		m, _ := strconv.Atoi(month)
		return v.ValidateExpiry(m, y)
	}

	// No month can rescue a year that has already passed.
	if v.fullYear(y) < v.clock.Now().Year() {
		return ExpiryIsExpired
	}
	return Valid
}

func (v *Validator) fullYear(year int) int {
	return v.clock.Now().Year()/100*100 + year
}

// validMonthPrefix accepts "", "0", "1" and "01".."12".
func validMonthPrefix(month string) bool {
	switch len(month) {
	case 0:
		return true
	case 1:
		return month == "0" || month == "1"
	case 2:
		if !isNumeric(month) {
			return false
		}
		m, _ := strconv.Atoi(month)
		return m >= 1 && m <= 12
	default:
		return false
	}
}

// validYearPrefix accepts up to two digits.
func validYearPrefix(year string) bool {
	return year == "" || (len(year) <= 2 && isNumeric(year))
}
