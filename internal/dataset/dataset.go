package dataset

import (
	"time"

	"github.com/google/uuid"
)

// Table is an ordered collection of records.
type Table interface {
	Records() []Record
	Len() int
}

// Dataset is the base table. It is immutable after construction and safe
// for concurrent readers.
type Dataset struct {
	ID       string    `json:"id"`
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loaded_at"`

	records       []Record
	manufacturers []string
	yearMin       int
	yearMax       int
}

// FromRecords builds a base table from parsed records. The slice is copied.
func FromRecords(source string, recs []Record) *Dataset {
	d := &Dataset{
		ID:       uuid.NewString(),
		Source:   source,
		LoadedAt: time.Now(),
		records:  make([]Record, len(recs)),
	}
	copy(d.records, recs)

	seen := make(map[string]struct{})
	for i, r := range d.records {
		if _, ok := seen[r.Manufacturer]; !ok {
			seen[r.Manufacturer] = struct{}{}
			d.manufacturers = append(d.manufacturers, r.Manufacturer)
		}
		if i == 0 || r.ModelYear < d.yearMin {
			d.yearMin = r.ModelYear
		}
		if i == 0 || r.ModelYear > d.yearMax {
			d.yearMax = r.ModelYear
		}
	}
	return d
}

// Records returns a copy of the rows in source order.
func (d *Dataset) Records() []Record {
	out := make([]Record, len(d.records))
	copy(out, d.records)
	return out
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.records) }

// Each calls fn for every row in order without copying the table.
func (d *Dataset) Each(fn func(i int, r Record)) {
	for i, r := range d.records {
		fn(i, r)
	}
}

// Manufacturers returns the distinct manufacturers in order of first appearance.
func (d *Dataset) Manufacturers() []string {
	out := make([]string, len(d.manufacturers))
	copy(out, d.manufacturers)
	return out
}

// YearBounds returns the smallest and largest model year. Both are zero for an empty table.
func (d *Dataset) YearBounds() (min, max int) { return d.yearMin, d.yearMax }

// View is a filtered subset of the base table.
type View struct {
	records []Record
	// Predicates lists the enabled filter predicates that produced this view.
	Predicates []string
}

// NewView wraps rows selected from a base table.
func NewView(recs []Record, predicates []string) *View {
	if recs == nil {
		recs = []Record{}
	}
	return &View{records: recs, Predicates: predicates}
}

// Records returns the rows of the view.
func (v *View) Records() []Record { return v.records }

// Len returns the number of rows.
func (v *View) Len() int { return len(v.records) }
