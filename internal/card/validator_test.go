package card

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// june2026 is the injected "now" for expiry tests.
var june2026 = time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

func newTestValidator(now time.Time) *Validator {
	return NewValidator(DefaultRegistry(), FixedClock(now), zerolog.Nop())
}

func TestNewValidator_Defaults(t *testing.T) {
	v := NewValidator(nil, nil, zerolog.Nop())

	assert.Same(t, DefaultRegistry(), v.Registry())
	assert.IsType(t, SystemClock{}, v.clock)
}

func TestValidator_ValidateNumber_Complete(t *testing.T) {
	v := newTestValidator(june2026)

	tests := []struct {
		name     string
		number   string
		brand    Brand
		expected Result
	}{
		{
			name:     "Valid Visa",
			number:   "4242424242424242",
			brand:    Visa,
			expected: Valid,
		},
		{
			name:     "Valid 13 digit Visa",
			number:   "4222222222222",
			brand:    Visa,
			expected: Valid,
		},
		{
			name:     "Valid Mastercard",
			number:   "5500005555555559",
			brand:    Mastercard,
			expected: Valid,
		},
		{
			name:     "Valid Amex",
			number:   "378282246310005",
			brand:    Amex,
			expected: Valid,
		},
		{
			name:     "Luhn failure",
			number:   "4242424242424241",
			brand:    Visa,
			expected: LuhnTestFailed,
		},
		{
			name:     "Unknown brand with generic length",
			number:   "1234567890123456",
			brand:    Unknown,
			expected: UnknownType | LuhnTestFailed,
		},
		{
			name:     "Unknown brand Luhn valid",
			number:   "1234567890123452",
			brand:    Unknown,
			expected: UnknownType,
		},
		{
			name:     "Too short for brand",
			number:   "4242",
			brand:    Visa,
			expected: InvalidLength,
		},
		{
			name:     "Amex length on Visa",
			number:   "424242424242428",
			brand:    Visa,
			expected: InvalidLength | LuhnTestFailed,
		},
		{
			name:     "Single digit",
			number:   "4",
			brand:    Visa,
			expected: InvalidLength | LuhnTestFailed,
		},
		{
			name:     "Empty",
			number:   "",
			brand:    Unknown,
			expected: UnknownType | NumberIsNotNumeric | InvalidLength | LuhnTestFailed,
		},
		{
			name:     "Eleven characters with letters",
			number:   "4242abcd424",
			brand:    Visa,
			expected: NumberIsNotNumeric | InvalidLength | LuhnTestFailed,
		},
		{
			name:     "Formatting is not stripped",
			number:   "4242 4242 4242 4242",
			brand:    Visa,
			expected: NumberIsNotNumeric | LuhnTestFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, v.ValidateNumber(tt.number, tt.brand, Complete))
		})
	}
}

func TestValidator_ValidateNumber_Partial(t *testing.T) {
	v := newTestValidator(june2026)

	tests := []struct {
		name     string
		number   string
		brand    Brand
		expected Result
	}{
		{name: "Empty", number: "", brand: Unknown, expected: Valid},
		{name: "First digit", number: "4", brand: Visa, expected: Valid},
		{name: "Half typed", number: "42424242", brand: Visa, expected: Valid},
		{name: "Complete length but more may follow", number: "4242424242424241", brand: Visa, expected: Valid},
		{name: "Maximum length Luhn valid", number: "4242424242424242428", brand: Visa, expected: Valid},
		{name: "Maximum length Luhn invalid", number: "4242424242424242424", brand: Visa, expected: LuhnTestFailed},
		{name: "Too long", number: "42424242424242424240", brand: Visa, expected: InvalidLength},
		{name: "Could still become Amex", number: "3", brand: Unknown, expected: Valid},
		{name: "Can never match a brand", number: "1", brand: Unknown, expected: UnknownType},
		{name: "Letter typed", number: "42a", brand: Visa, expected: NumberIsNotNumeric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, v.ValidateNumber(tt.number, tt.brand, Partial))
		})
	}
}

func TestValidator_ValidateNumber_NonNumericAlwaysFlagged(t *testing.T) {
	v := newTestValidator(june2026)

	inputs := []string{"a", "4242-4242", "４２４２", "4242424242424242x", "12 34", "?"}

	for _, input := range inputs {
		brand := v.Registry().Identify(input)
		assert.True(t, v.ValidateNumber(input, brand, Complete).Has(NumberIsNotNumeric), "complete: %q", input)
		assert.True(t, v.ValidateNumber(input, brand, Partial).Has(NumberIsNotNumeric), "partial: %q", input)
	}
}

func TestValidator_ValidateNumber_GrowingPrefix(t *testing.T) {
	v := newTestValidator(june2026)
	number := "4242424242424242"

	for i := 1; i <= len(number); i++ {
		prefix := number[:i]
		brand := v.Registry().Identify(prefix)
		assert.Equal(t, Visa.Name, brand.Name)
		assert.True(t, v.ValidateNumber(prefix, brand, Partial).IsValid(), "prefix %q", prefix)
	}

	assert.True(t, v.ValidateNumber(number, Visa, Complete).IsValid())
}

func TestValidator_ValidateCVC(t *testing.T) {
	v := newTestValidator(june2026)

	tests := []struct {
		name     string
		cvc      string
		brand    Brand
		mode     Mode
		expected Result
	}{
		{name: "Visa three digits", cvc: "123", brand: Visa, mode: Complete, expected: Valid},
		{name: "Amex four digits", cvc: "1234", brand: Amex, mode: Complete, expected: Valid},
		{name: "Amex three digits", cvc: "123", brand: Amex, mode: Complete, expected: CVCLengthMismatch},
		{name: "Visa four digits", cvc: "1234", brand: Visa, mode: Complete, expected: CVCLengthMismatch},
		{name: "Letter", cvc: "12a", brand: Visa, mode: Complete, expected: CVCIsNotNumeric},
		{name: "Empty", cvc: "", brand: Visa, mode: Complete, expected: CVCIsNotNumeric | CVCLengthMismatch},
		{name: "Partial empty", cvc: "", brand: Visa, mode: Partial, expected: Valid},
		{name: "Partial short", cvc: "12", brand: Amex, mode: Partial, expected: Valid},
		{name: "Partial too long", cvc: "1234", brand: Visa, mode: Partial, expected: CVCLengthMismatch},
		{name: "Partial letter", cvc: "1a", brand: Visa, mode: Partial, expected: CVCIsNotNumeric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, v.ValidateCVC(tt.cvc, tt.brand, tt.mode))
		})
	}
}

func TestValidator_ValidateExpiry(t *testing.T) {
	v := newTestValidator(june2026)

	tests := []struct {
		name     string
		month    int
		year     int
		expected Result
	}{
		{name: "Month 13", month: 13, year: 30, expected: ExpiryIsInvalidDate},
		{name: "Month 0", month: 0, year: 30, expected: ExpiryIsInvalidDate},
		{name: "Negative month", month: -1, year: 30, expected: ExpiryIsInvalidDate},
		{name: "Three digit year", month: 5, year: 100, expected: ExpiryIsInvalidDate},
		{name: "Negative year", month: 5, year: -1, expected: ExpiryIsInvalidDate},
		{name: "Last month", month: 5, year: 26, expected: ExpiryIsExpired},
		{name: "Last year", month: 12, year: 25, expected: ExpiryIsExpired},
		{name: "Current month", month: 6, year: 26, expected: Valid},
		{name: "Next month", month: 7, year: 26, expected: Valid},
		{name: "Next year", month: 1, year: 27, expected: Valid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, v.ValidateExpiry(tt.month, tt.year))
		})
	}
}

func TestValidator_ValidateExpiry_AcrossYearBoundary(t *testing.T) {
	v := newTestValidator(time.Date(2027, time.January, 3, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, ExpiryIsExpired, v.ValidateExpiry(12, 26))
	assert.Equal(t, Valid, v.ValidateExpiry(1, 27))
	assert.Equal(t, Valid, v.ValidateExpiry(2, 27))
}

func TestValidator_ValidateExpiryInput(t *testing.T) {
	v := newTestValidator(june2026)

	tests := []struct {
		name     string
		month    string
		year     string
		mode     Mode
		expected Result
	}{
		{name: "Complete valid", month: "06", year: "26", mode: Complete, expected: Valid},
		{name: "Complete single digit month", month: "6", year: "26", mode: Complete, expected: ExpiryIsInvalidDate},
		{name: "Complete month 13", month: "13", year: "30", mode: Complete, expected: ExpiryIsInvalidDate},
		{name: "Complete letters", month: "ab", year: "30", mode: Complete, expected: ExpiryIsInvalidDate},
		{name: "Complete empty", month: "", year: "", mode: Complete, expected: ExpiryIsInvalidDate},
		{name: "Complete expired", month: "05", year: "26", mode: Complete, expected: ExpiryIsExpired},
		{name: "Partial empty", month: "", year: "", mode: Partial, expected: Valid},
		{name: "Partial month 0", month: "0", year: "", mode: Partial, expected: Valid},
		{name: "Partial month 1 and year digit", month: "1", year: "2", mode: Partial, expected: Valid},
		{name: "Partial month 2", month: "2", year: "", mode: Partial, expected: ExpiryIsInvalidDate},
		{name: "Partial month 13", month: "13", year: "", mode: Partial, expected: ExpiryIsInvalidDate},
		{name: "Partial past year only", month: "", year: "25", mode: Partial, expected: ExpiryIsExpired},
		{name: "Partial future year only", month: "", year: "27", mode: Partial, expected: Valid},
		{name: "Partial current year only", month: "1", year: "26", mode: Partial, expected: Valid},
		{name: "Partial complete and expired", month: "05", year: "26", mode: Partial, expected: ExpiryIsExpired},
		{name: "Partial year letter", month: "12", year: "2x", mode: Partial, expected: ExpiryIsInvalidDate},
		{name: "Partial year too long", month: "12", year: "2030", mode: Partial, expected: ExpiryIsInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, v.ValidateExpiryInput(tt.month, tt.year, tt.mode))
		})
	}
}

func TestValidator_PartialAcceptsEverythingCompleteAccepts(t *testing.T) {
	v := newTestValidator(june2026)

	numbers := []string{
		"4242424242424242", "4222222222222", "4000000000000000006", "5500005555555559",
		"378282246310005", "6011111111111117", "3566002020360505", "30569309025904",
		"6200000000000005", "6759649826438453", "1234567890123452", "4242424242424241", "",
	}
	for _, number := range numbers {
		brand := v.Registry().Identify(number)
		if v.ValidateNumber(number, brand, Complete).IsValid() {
			assert.True(t, v.ValidateNumber(number, brand, Partial).IsValid(), "number %q", number)
		}
	}

	cvcs := []string{"", "1", "12", "123", "1234", "12345", "1a3"}
	for _, cvc := range cvcs {
		for _, brand := range []Brand{Visa, Amex, Unknown} {
			if v.ValidateCVC(cvc, brand, Complete).IsValid() {
				assert.True(t, v.ValidateCVC(cvc, brand, Partial).IsValid(), "cvc %q brand %s", cvc, brand.Name)
			}
		}
	}

	months := []string{"", "0", "1", "01", "06", "12", "13", "5"}
	years := []string{"", "2", "25", "26", "27", "99"}
	for _, month := range months {
		for _, year := range years {
			if v.ValidateExpiryInput(month, year, Complete).IsValid() {
				assert.True(t, v.ValidateExpiryInput(month, year, Partial).IsValid(), "expiry %q/%q", month, year)
			}
		}
	}
}

func TestValidator_Validate(t *testing.T) {
	v := newTestValidator(june2026)

	tests := []struct {
		name          string
		input         Input
		expectedBrand string
		expected      Report
	}{
		{
			name:          "Formatted Visa",
			input:         Input{Number: "4242 4242 4242 4242", CVC: "123", Month: "12", Year: "30"},
			expectedBrand: "Visa",
			expected:      Report{},
		},
		{
			name:          "Amex with short CVC",
			input:         Input{Number: "3782-822463-10005", CVC: "123", Month: "01", Year: "27"},
			expectedBrand: "Amex",
			expected:      Report{CVC: CVCLengthMismatch},
		},
		{
			name:          "Every field wrong",
			input:         Input{Number: "1234567890123456", CVC: "", Month: "13", Year: "20"},
			expectedBrand: "Unknown",
			expected: Report{
				Number: UnknownType | LuhnTestFailed,
				CVC:    CVCIsNotNumeric | CVCLengthMismatch,
				Expiry: ExpiryIsInvalidDate,
			},
		},
		{
			name:          "Partial form in progress",
			input:         Input{Number: "5500 00", CVC: "", Month: "1", Year: "", Mode: Partial},
			expectedBrand: "Mastercard",
			expected:      Report{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := v.Validate(tt.input)

			assert.Equal(t, tt.expectedBrand, report.Brand.Name)
			assert.Equal(t, tt.expected.Number, report.Number)
			assert.Equal(t, tt.expected.CVC, report.CVC)
			assert.Equal(t, tt.expected.Expiry, report.Expiry)
			assert.Equal(t, tt.expected.Number|tt.expected.CVC|tt.expected.Expiry, report.Result())
			assert.Equal(t, report.Result().IsValid(), report.IsValid())
		})
	}
}

func TestValidator_ConcurrentUse(t *testing.T) {
	v := newTestValidator(june2026)

	const numGoroutines = 50

	var wg sync.WaitGroup
	results := make([]Report, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			results[index] = v.Validate(Input{Number: "5500005555555559", CVC: "123", Month: "07", Year: "26"})
		}(i)
	}
	wg.Wait()

	for _, report := range results {
		require.True(t, report.IsValid())
		assert.Equal(t, Mastercard.Name, report.Brand.Name)
	}
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "complete", Complete.String())
	assert.Equal(t, "partial", Partial.String())
}
