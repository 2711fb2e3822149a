package card

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Result is a set of validation failures. Checks combine by union, so a
// caller can report every violated rule at once. The zero value is Valid.
type Result uint16

// Validation failure flags.
const (
	UnknownType Result = 1 << iota
	NumberIsNotNumeric
	InvalidLength
	LuhnTestFailed
	CVCIsNotNumeric
	CVCLengthMismatch
	ExpiryIsInvalidDate
	ExpiryIsExpired

	// Valid is the empty set.
	Valid Result = 0
)

var flagNames = []struct {
	flag Result
	name string
}{
	{UnknownType, "UnknownType"},
	{NumberIsNotNumeric, "NumberIsNotNumeric"},
	{InvalidLength, "InvalidLength"},
	{LuhnTestFailed, "LuhnTestFailed"},
	{CVCIsNotNumeric, "CVCIsNotNumeric"},
	{CVCLengthMismatch, "CVCLengthMismatch"},
	{ExpiryIsInvalidDate, "ExpiryIsInvalidDate"},
	{ExpiryIsExpired, "ExpiryIsExpired"},
}

// Has reports whether every flag in f is set in r.
func (r Result) Has(f Result) bool {
	return r&f == f
}

// IsValid reports whether no failure flag is set.
func (r Result) IsValid() bool {
	return r == Valid
}

// Union returns the set of flags present in r or any of others.
func (r Result) Union(others ...Result) Result {
	for _, o := range others {
		r |= o
	}
	return r
}

// Names returns the names of the set flags in declaration order.
func (r Result) Names() []string {
	names := make([]string, 0, len(flagNames))
	for _, fn := range flagNames {
		if r.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	return names
}

func (r Result) String() string {
	if r.IsValid() {
		return "Valid"
	}
	return strings.Join(r.Names(), "|")
}

// ParseResult converts flag names back into a Result.
func ParseResult(names []string) (Result, error) {
	var r Result
	for _, n := range names {
		found := false
		for _, fn := range flagNames {
			if fn.name == n {
				r |= fn.flag
				found = true
				break
			}
		}
		if !found {
			return Valid, fmt.Errorf("unknown validation flag %q", n)
		}
	}
	return r, nil
}

// MarshalJSON encodes the result as an array of flag names.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Names())
}

// UnmarshalJSON decodes an array of flag names.
func (r *Result) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return fmt.Errorf("validation result must be an array of flag names: %w", err)
	}
	parsed, err := ParseResult(names)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
