// Package export writes a working view to CSV, XLSX, JSON or a terminal table.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/KaramelBytes/autompg-cli/internal/dataset"
	"github.com/KaramelBytes/autompg-cli/internal/utils"
)

// ErrUnsupportedFormat is returned for an unknown output extension.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Header returns the column names in schema order.
func Header() []string {
	s := dataset.Schema()
	out := make([]string, len(s))
	for i, f := range s {
		out[i] = f.Name
	}
	return out
}

// WriteCSV writes a header and one line per row. Missing values are
// written as "?" like the source file.
func WriteCSV(w io.Writer, t dataset.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range t.Records() {
		if err := cw.Write(r.Strings()); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the rows as an indented JSON array.
func WriteJSON(w io.Writer, t dataset.Table) error {
	b, err := utils.PrettyJSON(t.Records())
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

// WriteTable renders up to limit rows as a terminal table; limit <= 0
// renders every row.
func WriteTable(w io.Writer, t dataset.Table, limit int) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader(Header())
	recs := t.Records()
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	for _, r := range recs {
		table.Append(r.Strings())
	}
	if n := t.Len(); n > len(recs) {
		footer := make([]string, len(Header()))
		footer[0] = fmt.Sprintf("%d of %d rows", len(recs), n)
		table.SetFooter(footer)
	}
	table.Render()
}

// WriteFile picks the format from the extension of path (.csv, .xlsx or
// .json) and writes t there.
func WriteFile(path string, t dataset.Table) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return writeVia(path, func(w io.Writer) error { return WriteCSV(w, t) })
	case ".json":
		return writeVia(path, func(w io.Writer) error { return WriteJSON(w, t) })
	case ".xlsx":
		return WriteXLSX(path, t)
	}
	return fmt.Errorf("%w: %q (use .csv, .xlsx or .json)", ErrUnsupportedFormat, filepath.Ext(path))
}

func writeVia(path string, fn func(io.Writer) error) error {
	var sb strings.Builder
	if err := fn(&sb); err != nil {
		return err
	}
	if err := utils.SafeWriteFile(path, []byte(sb.String())); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Exists reports whether path already exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
