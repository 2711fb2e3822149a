package card

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Registry is an ordered, read-only list of brands. Identify tries brands in
// declaration order and falls back to Unknown.
type Registry struct {
	brands []Brand
}

// NewRegistry builds a registry from brands in priority order.
// It rejects malformed definitions and prefixes claimed by more than one brand.
func NewRegistry(brands ...Brand) (*Registry, error) {
	if len(brands) == 0 {
		return nil, fmt.Errorf("registry requires at least one brand")
	}

	names := make(map[string]struct{}, len(brands))
	owners := make(map[string]string)

	for i, b := range brands {
		if strings.TrimSpace(b.Name) == "" {
			return nil, fmt.Errorf("brand %d: name is required", i)
		}
		if strings.EqualFold(b.Name, Unknown.Name) {
			return nil, fmt.Errorf("brand %q: name is reserved for the fallback brand", b.Name)
		}
		key := strings.ToLower(b.Name)
		if _, dup := names[key]; dup {
			return nil, fmt.Errorf("brand %q: duplicate name", b.Name)
		}
		names[key] = struct{}{}

		if b.CVCLength < 3 || b.CVCLength > 4 {
			return nil, fmt.Errorf("brand %q: invalid CVC length %d", b.Name, b.CVCLength)
		}
		if len(b.Lengths) == 0 {
			return nil, fmt.Errorf("brand %q: at least one number length is required", b.Name)
		}
		for _, n := range b.Lengths {
			if n < 1 || n > 19 {
				return nil, fmt.Errorf("brand %q: invalid number length %d", b.Name, n)
			}
		}
		if len(b.IdentifyingDigits) == 0 {
			return nil, fmt.Errorf("brand %q: at least one identifying prefix is required", b.Name)
		}

		for _, p := range b.IdentifyingDigits {
			if p < 1 || p > 999 {
				return nil, fmt.Errorf("brand %q: prefix %d must have 1 to %d digits", b.Name, p, maxPrefixDigits)
			}
			s := strconv.Itoa(p)
			for other, owner := range owners {
				if owner == b.Name {
					continue
				}
				if strings.HasPrefix(s, other) || strings.HasPrefix(other, s) {
					return nil, fmt.Errorf("brand %q: prefix %s overlaps prefix %s of %q", b.Name, s, other, owner)
				}
			}
			owners[s] = b.Name
		}
	}

	out := make([]Brand, len(brands))
	copy(out, brands)

	return &Registry{brands: out}, nil
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the process-wide registry of built-in brands.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		r, err := NewRegistry(builtinBrands()...)
		if err != nil {
			panic(fmt.Sprintf("built-in brand table is invalid: %v", err))
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

// Identify returns the first brand whose identifying prefix starts the number,
// or Unknown. Spaces and hyphens are ignored.
func (r *Registry) Identify(number string) Brand {
	lead := leadingDigits(Normalize(number), maxPrefixDigits)
	if lead == "" {
		return Unknown
	}

	for _, b := range r.brands {
		if b.matches(lead) {
			return b
		}
	}

	return Unknown
}

// CouldMatch reports whether prefix is, or can still grow into, a number
// starting with a registered prefix. An empty prefix could match anything.
func (r *Registry) CouldMatch(prefix string) bool {
	digits := Normalize(prefix)
	if digits == "" {
		return true
	}
	if !isNumeric(digits) {
		return false
	}
	if !r.Identify(digits).IsUnknown() {
		return true
	}

	for _, b := range r.brands {
		for _, p := range b.IdentifyingDigits {
			if s := strconv.Itoa(p); len(digits) < len(s) && strings.HasPrefix(s, digits) {
				return true
			}
		}
	}

	return false
}

// Brands returns the registered brands in priority order. Unknown is not
// included.
func (r *Registry) Brands() []Brand {
	out := make([]Brand, len(r.brands))
	copy(out, r.brands)
	return out
}

// Lookup finds a brand by name, case-insensitively.
func (r *Registry) Lookup(name string) (Brand, bool) {
	if strings.EqualFold(name, Unknown.Name) {
		return Unknown, true
	}
	for _, b := range r.brands {
		if strings.EqualFold(b.Name, name) {
			return b, true
		}
	}
	return Brand{}, false
}

// MaxLength returns the longest number length any brand, Unknown included,
// accepts.
func (r *Registry) MaxLength() int {
	longest := Unknown.MaxLength()
	for _, b := range r.brands {
		longest = max(longest, b.MaxLength())
	}
	return longest
}

// leadingDigits returns up to n leading ASCII digits of s.
func leadingDigits(s string, n int) string {
	i := 0
	for i < len(s) && i < n && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i]
}
