package card

import (
	"slices"
	"strconv"
)

// Brand describes a card network profile: the prefixes that identify it, the
// number lengths it issues and the CVC length it expects.
type Brand struct {
	Name              string `json:"name"`
	CVCLength         int    `json:"cvcLength"`
	IdentifyingDigits []int  `json:"identifyingDigits"`
	Lengths           []int  `json:"lengths"`
}

// maxPrefixDigits is the longest identifying prefix a brand may declare.
const maxPrefixDigits = 3

// Built-in brands. Their prefix sets do not overlap.
var (
	Amex = Brand{
		Name:              "Amex",
		CVCLength:         4,
		IdentifyingDigits: []int{34, 37},
		Lengths:           []int{15},
	}
	DinersClub = Brand{
		Name:              "DinersClub",
		CVCLength:         3,
		IdentifyingDigits: []int{300, 301, 302, 303, 304, 305, 36, 38, 39},
		Lengths:           []int{14, 16},
	}
	JCB = Brand{
		Name:              "JCB",
		CVCLength:         3,
		IdentifyingDigits: []int{35},
		Lengths:           []int{16, 17, 18, 19},
	}
	Discover = Brand{
		Name:              "Discover",
		CVCLength:         3,
		IdentifyingDigits: []int{601, 644, 645, 646, 647, 648, 649, 65},
		Lengths:           []int{16, 19},
	}
	UnionPay = Brand{
		Name:              "UnionPay",
		CVCLength:         3,
		IdentifyingDigits: []int{62},
		Lengths:           []int{16, 17, 18, 19},
	}
	Maestro = Brand{
		Name:              "Maestro",
		CVCLength:         3,
		IdentifyingDigits: []int{50, 56, 57, 58, 63, 67},
		Lengths:           []int{12, 13, 14, 15, 16, 17, 18, 19},
	}
	Mastercard = Brand{
		Name:              "Mastercard",
		CVCLength:         3,
		IdentifyingDigits: append([]int{51, 52, 53, 54, 55}, intRange(222, 272)...),
		Lengths:           []int{16},
	}
	Visa = Brand{
		Name:              "Visa",
		CVCLength:         3,
		IdentifyingDigits: []int{4},
		Lengths:           []int{13, 16, 19},
	}

	// Unknown is the fallback for numbers no registered prefix matches. It
	// carries generic rules so length and CVC checks still apply.
	Unknown = Brand{
		Name:      "Unknown",
		CVCLength: 3,
		Lengths:   []int{12, 13, 14, 15, 16, 17, 18, 19},
	}
)

// builtinBrands lists the built-in brands in match priority order.
func builtinBrands() []Brand {
	return []Brand{Amex, DinersClub, JCB, Discover, UnionPay, Maestro, Mastercard, Visa}
}

// IsUnknown reports whether b is the fallback brand.
func (b Brand) IsUnknown() bool {
	return len(b.IdentifyingDigits) == 0
}

// AcceptsLength reports whether n is a number length the brand issues.
func (b Brand) AcceptsLength(n int) bool {
	return slices.Contains(b.Lengths, n)
}

// MaxLength returns the longest number length the brand issues.
func (b Brand) MaxLength() int {
	if len(b.Lengths) == 0 {
		return 0
	}
	return slices.Max(b.Lengths)
}

// matches reports whether digits starts with one of the brand's prefixes.
func (b Brand) matches(digits string) bool {
	for _, p := range b.IdentifyingDigits {
		s := strconv.Itoa(p)
		if len(digits) >= len(s) && digits[:len(s)] == s {
			return true
		}
	}
	return false
}

func intRange(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}
