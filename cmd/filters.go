package cmd

import (
	"log/slog"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/autompg-cli/internal/dataset"
	"github.com/KaramelBytes/autompg-cli/internal/query"
)

var (
	filterManufacturer string
	filterYear         int
	filterYearFrom     int
	filterYearTo       int
)

// addFilterFlags registers the working-view selectors on a data command.
func addFilterFlags(c *cobra.Command) {
	c.Flags().StringVar(&filterManufacturer, "manufacturer", "", "keep rows from this manufacturer (exact, case-sensitive)")
	c.Flags().IntVar(&filterYear, "year", 0, "keep rows with this two-digit model year")
	c.Flags().IntVar(&filterYearFrom, "year-from", 0, "keep rows with model year >= this")
	c.Flags().IntVar(&filterYearTo, "year-to", 0, "keep rows with model year <= this")
}

// activeFilter turns the flags the user actually set into a filter. Parsing
// goes through the same path as the HTTP query string.
func activeFilter(c *cobra.Command) (query.Filter, error) {
	v := url.Values{}
	f := c.Flags()
	if f.Changed("manufacturer") {
		v.Set("manufacturer", filterManufacturer)
	}
	if f.Changed("year") {
		v.Set("year", strconv.Itoa(filterYear))
	}
	if f.Changed("year-from") {
		v.Set("year_from", strconv.Itoa(filterYearFrom))
	}
	if f.Changed("year-to") {
		v.Set("year_to", strconv.Itoa(filterYearTo))
	}
	return query.ParseFilter(v)
}

// workingView loads the base table and applies the filter flags of c.
func workingView(c *cobra.Command) (*dataset.Dataset, *dataset.View, query.Filter, error) {
	flt, err := activeFilter(c)
	if err != nil {
		return nil, nil, flt, err
	}
	base, err := loadDataset(c.Context())
	if err != nil {
		return nil, nil, flt, err
	}
	v := query.Apply(base, flt)
	if flt.Empty() {
		slog.Debug("no filter flags set, using the full table", "rows", v.Len())
	}
	if v.Len() == 0 {
		warnf(c.ErrOrStderr(), "no rows match %s", flt.String())
	}
	return base, v, flt, nil
}
