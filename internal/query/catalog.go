package query

import "github.com/KaramelBytes/autompg-cli/internal/dataset"

// Catalog holds the selectable values offered to the user. It is always
// computed from the unfiltered base table.
type Catalog struct {
	DatasetID     string   `json:"dataset_id"`
	Rows          int      `json:"rows"`
	NumericFields []string `json:"numeric_fields"`
	Manufacturers []string `json:"manufacturers"`
	YearMin       int      `json:"year_min"`
	YearMax       int      `json:"year_max"`
	Origins       []string `json:"origins"`
}

// NumericFields returns the fields usable as chart axes. It does not depend
// on any filter.
func NumericFields() []string { return dataset.NumericFields() }

// DistinctManufacturers returns the manufacturers of the base table in order
// of first appearance.
func DistinctManufacturers(base *dataset.Dataset) []string {
	return base.Manufacturers()
}

// CatalogOf collects every selector domain of base.
func CatalogOf(base *dataset.Dataset) Catalog {
	lo, hi := base.YearBounds()
	return Catalog{
		DatasetID:     base.ID,
		Rows:          base.Len(),
		NumericFields: NumericFields(),
		Manufacturers: DistinctManufacturers(base),
		YearMin:       lo,
		YearMax:       hi,
		Origins:       dataset.Origins(),
	}
}
