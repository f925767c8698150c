// Package query applies filter predicates to the base table and exposes the
// selectable field catalogs.
package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/KaramelBytes/autompg-cli/internal/dataset"
)

// Filter is a conjunction of optional predicates. A nil field means the
// predicate is disabled and imposes no constraint.
type Filter struct {
	Manufacturer *string `json:"manufacturer,omitempty"`
	ModelYear    *int    `json:"model_year,omitempty"`
	YearFrom     *int    `json:"year_from,omitempty"`
	YearTo       *int    `json:"year_to,omitempty"`
}

// WithManufacturer returns a copy of f with the manufacturer predicate enabled.
func (f Filter) WithManufacturer(m string) Filter {
	f.Manufacturer = &m
	return f
}

// WithModelYear returns a copy of f with the model year predicate enabled.
func (f Filter) WithModelYear(y int) Filter {
	f.ModelYear = &y
	return f
}

// WithYearRange enables an inclusive model year range. Either bound may be nil.
func (f Filter) WithYearRange(from, to *int) Filter {
	f.YearFrom, f.YearTo = copyInt(from), copyInt(to)
	return f
}

func (f Filter) WithoutManufacturer() Filter {
	f.Manufacturer = nil
	return f
}

func (f Filter) WithoutModelYear() Filter {
	f.ModelYear = nil
	return f
}

// Active lists the enabled predicates in a stable order.
func (f Filter) Active() []string {
	out := []string{}
	if f.Manufacturer != nil {
		out = append(out, fmt.Sprintf("Manufacturer == %q", *f.Manufacturer))
	}
	if f.ModelYear != nil {
		out = append(out, fmt.Sprintf("Model Year == %d", *f.ModelYear))
	}
	if f.YearFrom != nil {
		out = append(out, fmt.Sprintf("Model Year >= %d", *f.YearFrom))
	}
	if f.YearTo != nil {
		out = append(out, fmt.Sprintf("Model Year <= %d", *f.YearTo))
	}
	return out
}

// Empty reports whether no predicate is enabled.
func (f Filter) Empty() bool { return len(f.Active()) == 0 }

func (f Filter) String() string {
	a := f.Active()
	if len(a) == 0 {
		return "all rows"
	}
	return strings.Join(a, " AND ")
}

// Match reports whether r satisfies every enabled predicate.
func (f Filter) Match(r dataset.Record) bool {
	if f.Manufacturer != nil && r.Manufacturer != *f.Manufacturer {
		return false
	}
	if f.ModelYear != nil && r.ModelYear != *f.ModelYear {
		return false
	}
	if f.YearFrom != nil && r.ModelYear < *f.YearFrom {
		return false
	}
	if f.YearTo != nil && r.ModelYear > *f.YearTo {
		return false
	}
	return true
}

// Apply returns the rows of base that satisfy f, in their original order.
// base is never modified. A manufacturer that does not occur in base yields
// an empty view.
func Apply(base dataset.Table, f Filter) *dataset.View {
	recs := base.Records()
	out := make([]dataset.Record, 0, len(recs))
	for _, r := range recs {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return dataset.NewView(out, f.Active())
}

// InputError reports a filter parameter that could not be parsed.
type InputError struct {
	Param string
	Value string
	Err   error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Param, e.Value, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// ParseFilter reads manufacturer, year, year_from and year_to from query
// parameters. Empty values leave the predicate disabled.
func ParseFilter(v url.Values) (Filter, error) {
	var f Filter
	if m := strings.TrimSpace(v.Get("manufacturer")); m != "" {
		f = f.WithManufacturer(m)
	}
	for _, p := range []struct {
		name string
		dst  **int
	}{
		{"year", &f.ModelYear},
		{"year_from", &f.YearFrom},
		{"year_to", &f.YearTo},
	} {
		raw := strings.TrimSpace(v.Get(p.name))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Filter{}, &InputError{Param: p.name, Value: raw, Err: err}
		}
		*p.dst = &n
	}
	if f.YearFrom != nil && f.YearTo != nil && *f.YearFrom > *f.YearTo {
		return Filter{}, &InputError{
			Param: "year_from",
			Value: strconv.Itoa(*f.YearFrom),
			Err:   fmt.Errorf("greater than year_to %d", *f.YearTo),
		}
	}
	return f, nil
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
