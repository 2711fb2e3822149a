package brandtable

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cardcheck/internal/card"

	"gopkg.in/yaml.v3"
)

// Loader defines the interface for loading brand table files.
type Loader interface {
	// Load reads a brand table and returns its brands in priority order.
	Load(ctx context.Context, path string) ([]card.Brand, error)
}

// table is the on-disk shape of a brand table.
type table struct {
	Brands []entry `yaml:"brands"`
}

// entry is one brand. Prefixes and lengths accept single values ("4") and
// inclusive ranges ("51-55").
type entry struct {
	Name      string   `yaml:"name"`
	CVCLength int      `yaml:"cvc_length"`
	Prefixes  []string `yaml:"prefixes"`
	Lengths   []string `yaml:"lengths"`
}

// Decode parses a YAML brand table.
func Decode(r io.Reader) ([]card.Brand, error) {
	var t table

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("brand table is empty")
		}
		return nil, fmt.Errorf("failed to decode brand table: %w", err)
	}

	if len(t.Brands) == 0 {
		return nil, fmt.Errorf("brand table has no brands")
	}

	brands := make([]card.Brand, 0, len(t.Brands))
	for i, e := range t.Brands {
		prefixes, err := expand(e.Prefixes)
		if err != nil {
			return nil, fmt.Errorf("brand %d (%s): invalid prefixes: %w", i, e.Name, err)
		}
		lengths, err := expand(e.Lengths)
		if err != nil {
			return nil, fmt.Errorf("brand %d (%s): invalid lengths: %w", i, e.Name, err)
		}

		brands = append(brands, card.Brand{
			Name:              e.Name,
			CVCLength:         e.CVCLength,
			IdentifyingDigits: prefixes,
			Lengths:           lengths,
		})
	}

	return brands, nil
}

// Encode writes brands as a YAML brand table, collapsing runs of consecutive
// values into ranges.
func Encode(w io.Writer, brands []card.Brand) error {
	t := table{Brands: make([]entry, 0, len(brands))}
	for _, b := range brands {
		t.Brands = append(t.Brands, entry{
			Name:      b.Name,
			CVCLength: b.CVCLength,
			Prefixes:  compact(b.IdentifyingDigits),
			Lengths:   compact(b.Lengths),
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("failed to encode brand table: %w", err)
	}
	return enc.Close()
}

// expand turns "4", "51-55" style items into integers.
func expand(items []string) ([]int, error) {
	var out []int
	for _, item := range items {
		lo, hi, isRange := strings.Cut(strings.TrimSpace(item), "-")

		from, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", item)
		}
		to := from
		if isRange {
			if to, err = strconv.Atoi(strings.TrimSpace(hi)); err != nil {
				return nil, fmt.Errorf("%q is not a range", item)
			}
			if to < from {
				return nil, fmt.Errorf("%q ends before it starts", item)
			}
			if len(strconv.Itoa(from)) != len(strconv.Itoa(to)) {
				return nil, fmt.Errorf("%q mixes digit counts", item)
			}
		}

		for n := from; n <= to; n++ {
			out = append(out, n)
		}
	}
	return out, nil
}

// compact is the inverse of expand. Order is preserved; only adjacent values
// with the same digit count are merged.
func compact(values []int) []string {
	var out []string
	for i := 0; i < len(values); {
		j := i
		for j+1 < len(values) &&
			values[j+1] == values[j]+1 &&
			len(strconv.Itoa(values[j+1])) == len(strconv.Itoa(values[i])) {
			j++
		}

		if j == i {
			out = append(out, strconv.Itoa(values[i]))
		} else {
			out = append(out, fmt.Sprintf("%d-%d", values[i], values[j]))
		}
		i = j + 1
	}
	return out
}
